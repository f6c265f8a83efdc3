package errors

// ErrorInfo is the error member of a failed API response.
type ErrorInfo struct {
	Code    string `json:"code"` // stable machine code, e.g. INSUFFICIENT_STOCK
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// MetaInfo travels with every API response.
type MetaInfo struct {
	RequestID string `json:"request_id"`
}

// SuccessResponse wraps the payload of a 2xx response.
type SuccessResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Meta    *MetaInfo `json:"meta"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Success bool       `json:"success"`
	Error   *ErrorInfo `json:"error"`
	Meta    *MetaInfo  `json:"meta"`
}
