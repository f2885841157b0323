package errors

import "fmt"

// Error codes
const (
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeDatabase   = "DATABASE_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

type BotError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *BotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

func (e *BotError) WithCause(cause error) *BotError {
	e.Cause = cause
	return e
}

type APIError struct {
	*BotError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// NotFoundError marks lookups that failed because the subject does not
// exist upstream, as opposed to transport failures. Suggestions carries
// near-miss names for user-facing recovery hints.
type NotFoundError struct {
	*BotError
	Query       string
	Suggestions []string
}

func NewNotFoundError(message, query string, suggestions []string) *NotFoundError {
	return &NotFoundError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"query": query,
			},
		},
		Query:       query,
		Suggestions: suggestions,
	}
}

type ValidationError struct {
	*BotError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*BotError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type DatabaseError struct {
	*BotError
	Operation string
	Table     string
}

func NewDatabaseError(message, operation, table string, cause error) *DatabaseError {
	return &DatabaseError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeDatabase,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"table":     table,
			},
			Cause: cause,
		},
		Operation: operation,
		Table:     table,
	}
}
