package models

// ErrorResponse is the JSON envelope returned on every failed request.
// CorrelationID is set only on 500s so the client-facing message can stay
// generic while the logged cause remains findable.
type ErrorResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}
