package application

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is deliberately generic: unknown email and wrong
	// password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	// ErrEmailTaken does not reveal more than "account exists".
	ErrEmailTaken = errors.New("account already exists")
	// ErrTaskNotFound covers both missing tasks and tasks owned by someone
	// else; ownership failures must be indistinguishable from absence.
	ErrTaskNotFound = errors.New("task not found")
)

// FieldError is one field-level message inside a ValidationError.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects an operation before any state is touched.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
