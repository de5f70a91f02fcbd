package models

import "net/http"

// APIError carries an HTTP status through the service layer so handlers can
// translate failures into the response envelope exactly once.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func ErrBadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

func ErrUnauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

func ErrForbidden(message string) *APIError {
	return NewAPIError(http.StatusForbidden, message)
}

func ErrNotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message)
}

func ErrConflict(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}
