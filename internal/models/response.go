package models

import "time"

// Error codes carried by ErrorResponse.
const (
	ErrorCodeNotFound        = "NOT_FOUND"
	ErrorCodeConflict        = "CONFLICT"
	ErrorCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrorCodeUnauthorized    = "UNAUTHORIZED"
	ErrorCodeInternal        = "INTERNAL_ERROR"
	ErrorCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Results    interface{} `json:"results"`
	Status     bool        `json:"status"`
	Message    string      `json:"message"`
	MetaData   *MetaData   `json:"metaData"`
	StatusCode int         `json:"statusCode"`
}

type ErrorResponse struct {
	Response
	ErrorCode string    `json:"errorCode"`
	Timestamp time.Time `json:"timestamp"`
}

func NewErrorResponse(statusCode int, errorCode, message string) ErrorResponse {
	return ErrorResponse{
		Response: Response{
			Status:     false,
			Message:    message,
			StatusCode: statusCode,
		},
		ErrorCode: errorCode,
		Timestamp: time.Now().UTC(),
	}
}
