// Package errors defines the domain error taxonomy shared by services and handlers.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind groups domain errors by how a request boundary reports them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindExternal
)

// DomainError is an expected failure with a message safe to show to users.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// Is matches on Code so sentinel values compare with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// As extracts a *DomainError from err.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func Validation(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

// ValidationFields reports field-level messages.
func ValidationFields(fields map[string]string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: "Invalid input", Fields: fields}
}

// FieldError is a validation error about a single field.
func FieldError(field, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Fields: map[string]string{field: message}}
}

func Authentication(code, message string) *DomainError {
	return &DomainError{Kind: KindAuthentication, Code: code, Message: message}
}

func Authorization(message string) *DomainError {
	return &DomainError{Kind: KindAuthorization, Code: "FORBIDDEN", Message: message}
}

func NotFound(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func Conflict(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

func External(message string) *DomainError {
	return &DomainError{Kind: KindExternal, Code: "EXTERNAL_FAILURE", Message: message}
}
