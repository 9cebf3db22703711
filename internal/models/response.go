package models

import "time"

// APIResponse is the JSON envelope every endpoint answers with:
// {success, data, timestamp} on success,
// {success:false, error:{message, code, details}, timestamp} on failure.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// APIError carries a client-facing message, the HTTP status code and
// optional detail (validation errors, or debug info when enabled).
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse builds the success envelope around data.
func SuccessResponse(data any) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// ErrorResponse builds the error envelope.
func ErrorResponse(message string, code int, details any) APIResponse {
	return APIResponse{
		Success: false,
		Error: &APIError{
			Message: message,
			Code:    code,
			Details: details,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
