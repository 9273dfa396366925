package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"llamaid/config"
	"llamaid/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// maxResponseBytes caps how much of a reply is buffered. Larger replies fail JSON decoding.
const maxResponseBytes = 8 << 20

// Client represents a client to communicate with the inference backend.
type Client struct {
	baseURL      string
	generatePath string
	model        string
	timeout      time.Duration
	httpClient   *http.Client
}

// NewBackendClient creates a Client for the configured backend.
func NewBackendClient(cfg config.BackendConfig) *Client {
	return NewBackendClientWithHTTPClient(cfg, nil)
}

// NewBackendClientWithHTTPClient lets tests swap the transport. A nil httpClient uses the default one.
func NewBackendClientWithHTTPClient(cfg config.BackendConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   100,
				IdleConnTimeout:       90 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	path := cfg.GeneratePath
	if path == "" {
		path = config.DefaultGeneratePath
	}
	return &Client{
		baseURL:      cfg.URL,
		generatePath: path,
		model:        cfg.Model,
		timeout:      timeout,
		httpClient:   httpClient,
	}
}

// Model returns the model name sent with every request.
func (c *Client) Model() string { return c.model }

// Generate sends prompt to the backend and returns the generated text unmodified.
// The call is bounded by the client's timeout as well as by ctx.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Forward(ctx, http.MethodPost, c.generatePath, headers, bytes.NewReader(payload))
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classify(ctx, err)
	}
	log.Debugf("Backend replied %d in %s (%d bytes)", resp.StatusCode, time.Since(start), len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newHTTPError(resp.StatusCode, body)
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendMalformed, err)
	}
	if out.Response == nil {
		return "", fmt.Errorf("%w: reply has no \"response\" field", ErrBackendMalformed)
	}
	return *out.Response, nil
}

// Forward sends an HTTP request to the backend and returns the raw response.
func (c *Client) Forward(ctx context.Context, method, path string, headers http.Header, body io.Reader) (*http.Response, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return c.httpClient.Do(req)
}

// classify maps transport failures onto the package's error kinds. Caller
// cancellation is passed through untouched.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
}
