package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"llamaid/assistant"
	"llamaid/backend"
	"llamaid/manager"
	"llamaid/metrics"
)

// statusClientClosedRequest is the non-standard status logged when the caller went away.
const statusClientClosedRequest = 499

// HTTPHandler serves the relay's endpoints.
type HTTPHandler struct {
	Service            *assistant.Service
	ConcurrencyManager *manager.ConcurrencyManager
	Metrics            *metrics.Collectors
}

// NewHTTPHandler creates a new instance of HTTPHandler. cm and m may be nil.
func NewHTTPHandler(svc *assistant.Service, cm *manager.ConcurrencyManager, m *metrics.Collectors) *HTTPHandler {
	return &HTTPHandler{
		Service:            svc,
		ConcurrencyManager: cm,
		Metrics:            m,
	}
}

// Ask relays {"prompt": ...} to the backend and answers {"response": ...}.
func (h *HTTPHandler) Ask(c *gin.Context) {
	var payload AskRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Metrics.ObserveAsk(CodeInvalidBody, 0)
		logAndReturnError(c, http.StatusBadRequest, CodeInvalidBody, "Bad Request: body must be a JSON object with a string \"prompt\"",
			"Bad Request: invalid JSON: "+err.Error())
		return
	}
	if payload.Prompt == nil {
		h.Metrics.ObserveAsk(CodeMissingField, 0)
		logAndReturnError(c, http.StatusBadRequest, CodeMissingField, "Bad Request: missing required field \"prompt\"")
		return
	}

	ctx := c.Request.Context()
	if h.ConcurrencyManager != nil {
		release, err := h.ConcurrencyManager.Acquire(ctx)
		if err != nil {
			h.fail(c, err, 0)
			return
		}
		defer release()
	}

	start := time.Now()
	text, err := h.Service.Ask(ctx, *payload.Prompt)
	elapsed := time.Since(start)
	if err != nil {
		h.fail(c, err, elapsed)
		return
	}

	h.Metrics.ObserveAsk(metrics.OutcomeOK, elapsed)
	requestLogger(c).Debugf("Backend answered in %s", elapsed)
	c.PureJSON(http.StatusOK, AskResponse{Response: text})
}

// fail maps an error from admission or the backend onto a status code and error body.
func (h *HTTPHandler) fail(c *gin.Context, err error, elapsed time.Duration) {
	status, code, message := classifyError(err)
	h.Metrics.ObserveAsk(code, elapsed)

	if code == CodeClientCanceled {
		requestLogger(c).Debugf("Client %s disconnected", c.Request.RemoteAddr)
		c.AbortWithStatus(status)
		return
	}
	logAndReturnError(c, status, code, message, message+": "+err.Error())
}

func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, manager.ErrOverloaded):
		return http.StatusServiceUnavailable, CodeOverloaded, "Service Unavailable: too many requests waiting for the model"
	case errors.Is(err, backend.ErrBackendTimeout):
		return http.StatusGatewayTimeout, CodeBackendTimeout, "Gateway Timeout: the model did not answer in time"
	case errors.Is(err, backend.ErrBackendMalformed):
		return http.StatusBadGateway, CodeBackendMalformed, "Bad Gateway: the model returned an unusable response"
	case errors.Is(err, backend.ErrBackendStatus):
		return http.StatusBadGateway, CodeBackendError, "Bad Gateway: the model backend returned an error"
	case errors.Is(err, backend.ErrBackendUnreachable):
		return http.StatusBadGateway, CodeBackendUnreachable, "Bad Gateway: failed to reach the model backend"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, CodeClientCanceled, "Client canceled the request"
	default:
		return http.StatusInternalServerError, CodeInternal, "Internal Server Error"
	}
}

// SBAR turns a model answer into an SBAR hand-over summary.
func (h *HTTPHandler) SBAR(c *gin.Context) {
	var payload SBARRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		logAndReturnError(c, http.StatusBadRequest, CodeInvalidBody, "Bad Request: body must be a JSON object with a string \"response\"",
			"Bad Request: invalid JSON: "+err.Error())
		return
	}
	if payload.Response == nil {
		logAndReturnError(c, http.StatusBadRequest, CodeMissingField, "Bad Request: missing required field \"response\"")
		return
	}
	c.JSON(http.StatusOK, assistant.Summarize(*payload.Response))
}

func (h *HTTPHandler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, PresetsResponse{Presets: h.Service.Presets()})
}

func (h *HTTPHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
