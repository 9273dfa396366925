package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llamaid/config"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func newTestBackend(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewBackendClient(config.BackendConfig{
		URL:          srv.URL,
		GeneratePath: "/api/generate",
		Model:        "llama3",
		Timeout:      2 * time.Second,
	})
	return c, srv
}

func TestGenerate(t *testing.T) {
	var got map[string]any
	c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","created_at":"2024-05-01T10:00:00Z","response":"  Check airway.\n","done":true}`))
	})

	out, err := c.Generate(context.Background(), "EMT query: Patient is unconscious")
	require.NoError(t, err)
	assert.Equal(t, "  Check airway.\n", out, "text is returned verbatim")

	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, "EMT query: Patient is unconscious", got["prompt"])
	stream, ok := got["stream"]
	require.True(t, ok, "stream must be sent explicitly")
	assert.Equal(t, false, stream)
	assert.Len(t, got, 3)
}

func TestGenerateEmptyAnswerIsNotMalformed(t *testing.T) {
	c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":""}`))
	})

	out, err := c.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestGenerateMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"model":"llama3","done":true}`},
		{"null field", `{"response":null}`},
		{"not json", `<html>oops</html>`},
		{"wrong type", `{"response":42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			out, err := c.Generate(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBackendMalformed)
			assert.Empty(t, out)
		})
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'llama3' not found"}`))
	})

	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendStatus)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "not found")
}

func TestGenerateUnreachable(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")
	})}
	c := NewBackendClientWithHTTPClient(config.BackendConfig{
		URL:     "http://localhost:11434",
		Model:   "llama3",
		Timeout: time.Second,
	}, hc)

	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnreachable)
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewBackendClient(config.BackendConfig{
		URL:     srv.URL,
		Model:   "llama3",
		Timeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGenerateCallerCanceled(t *testing.T) {
	c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"late"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrBackendTimeout)
	assert.NotErrorIs(t, err, ErrBackendUnreachable)
}

func TestNewBackendClientDefaults(t *testing.T) {
	c := NewBackendClient(config.BackendConfig{URL: "http://localhost:11434", Model: "llama3"})
	assert.Equal(t, config.DefaultGeneratePath, c.generatePath)
	assert.Equal(t, config.DefaultTimeout, c.timeout)
	assert.Equal(t, "llama3", c.Model())
}

func TestHTTPErrorTruncatesBody(t *testing.T) {
	big := make([]byte, maxErrorBodyBytes*2)
	for i := range big {
		big[i] = 'a'
	}
	e := newHTTPError(http.StatusInternalServerError, big)
	assert.Len(t, e.Body, maxErrorBodyBytes)
	assert.Contains(t, e.Error(), "status=500")
}
