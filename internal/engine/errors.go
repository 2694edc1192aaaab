package engine

import "fmt"

// AppError is a structured, caller-facing failure. Status carries the HTTP
// mapping for the transport layer; the engine itself is transport-agnostic.
type AppError struct {
	Code    string        `json:"code"`
	Status  int           `json:"-"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func NewAppError(code string, status int, msg string) *AppError {
	return &AppError{Code: code, Status: status, Message: msg}
}

func UnknownTableError(name string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_TABLE",
		Status:  404,
		Message: fmt.Sprintf("Unknown table: %s", name),
	}
}

func NotFoundError(table string, id int64) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  404,
		Message: fmt.Sprintf("%s with id %d not found", table, id),
	}
}

// ValidationError reports fields that failed type coercion. The operation
// aborts before any SQL executes.
func ValidationError(details []ErrorDetail) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Status:  422,
		Message: "Validation failed",
		Details: details,
	}
}

func MissingIDError(table, idColumn string) *AppError {
	return &AppError{
		Code:    "MISSING_ID",
		Status:  400,
		Message: fmt.Sprintf("%s is required for this %s operation", idColumn, table),
	}
}

func InvalidIDError(idColumn string) *AppError {
	return &AppError{
		Code:    "INVALID_ID",
		Status:  400,
		Message: fmt.Sprintf("%s must be an integer", idColumn),
	}
}

func EmptyPayloadError(table string) *AppError {
	return &AppError{
		Code:    "EMPTY_PAYLOAD",
		Status:  400,
		Message: fmt.Sprintf("no writable columns for %s", table),
	}
}

func NoFieldsToUpdateError(table string) *AppError {
	return &AppError{
		Code:    "NO_FIELDS_TO_UPDATE",
		Status:  400,
		Message: fmt.Sprintf("no fields to update for %s", table),
	}
}

func ConflictError(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Status: 409, Message: msg}
}

func UnauthorizedError(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Status: 401, Message: msg}
}
