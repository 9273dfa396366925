package handler

// AskRequest is the body of POST /ask. Prompt is a pointer so an absent key can be told
// apart from an empty query.
type AskRequest struct {
	Prompt *string `json:"prompt"`
}

type AskResponse struct {
	Response string `json:"response"`
}

// SBARRequest is the body of POST /sbar: a model answer to summarize.
type SBARRequest struct {
	Response *string `json:"response"`
}

type PresetsResponse struct {
	Presets []string `json:"presets"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes returned in errorBody.Code.
const (
	CodeMissingField       = "missing_field"
	CodeInvalidBody        = "invalid_body"
	CodeBackendUnreachable = "backend_unreachable"
	CodeBackendError       = "backend_error"
	CodeBackendMalformed   = "backend_malformed_response"
	CodeBackendTimeout     = "backend_timeout"
	CodeOverloaded         = "overloaded"
	CodeInternal           = "internal_error"
	CodeClientCanceled     = "client_canceled"
)
