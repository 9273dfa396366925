package backend

// GenerateRequest is the body of a non-streaming call to the generation endpoint.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"` // always false; the relay waits for the full answer
}

// GenerateResponse holds the fields the relay reads from the backend's reply.
// Response is a pointer so a missing field can be told apart from an empty answer.
type GenerateResponse struct {
	Model     string  `json:"model,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	Response  *string `json:"response"`
	Done      bool    `json:"done,omitempty"`
}
