package types

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// HistoryResponse wraps recent run history records.
type HistoryResponse struct {
	History []HistoryRecord `json:"history"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown model
	Error string `json:"error" example:"unknown model"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
