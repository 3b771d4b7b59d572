package merge

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	ErrNotFound ErrorType = iota
	ErrConversion
	ErrEncode
	ErrOutputMissing
	ErrTimeout
	ErrValidation
	ErrUnknown
)

// BurnError is the structured failure attached to a job result. Errors
// stay data on the result so one failed job can never abort a batch.
type BurnError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *BurnError {
	return &BurnError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *BurnError {
	return &BurnError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *BurnError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *BurnError) Unwrap() error {
	return e.Cause
}

func (e *BurnError) WithContext(key string, value any) *BurnError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrNotFound:
		return "NotFound"
	case ErrConversion:
		return "Conversion"
	case ErrEncode:
		return "EncodeFailure"
	case ErrOutputMissing:
		return "OutputMissing"
	case ErrTimeout:
		return "Timeout"
	case ErrValidation:
		return "Validation"
	case ErrUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var burnErr *BurnError
	if errors.As(err, &burnErr) {
		return burnErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *BurnError {
	return NewErrorWithCause(errorType, message, err)
}

// SafeExecute converts a panic inside fn into a generic failure so a
// job boundary always yields a result instead of unwinding the batch.
func SafeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(ErrUnknown, fmt.Sprintf("runtime error: %v", r))
		}
	}()

	return fn()
}
