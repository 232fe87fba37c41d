package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeStateConflict   Code = "STATE_CONFLICT"
	CodeIdempotency     Code = "IDEMPOTENCY_KEY_REUSED"
	CodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	CodeInternal        Code = "INTERNAL_ERROR"
	CodeDependency      Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {HTTPStatus: http.StatusBadRequest, Retryable: false, PublicMessage: "validation failed", DetailsAllowed: true},
	CodeNotFound: {HTTPStatus: http.StatusNotFound, Retryable: false, PublicMessage: "resource not found", DetailsAllowed: false},
	CodeConflict: {HTTPStatus: http.StatusConflict, Retryable: false, PublicMessage: "conflict detected", DetailsAllowed: false},
	CodeStateConflict: {HTTPStatus: http.StatusUnprocessableEntity, Retryable: false, PublicMessage: "state transition disallowed", DetailsAllowed: true},
	CodeIdempotency: {HTTPStatus: http.StatusConflict, Retryable: false, PublicMessage: "idempotency key reused", DetailsAllowed: true},
	CodePayloadTooLarge: {HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false, PublicMessage: "payload too large", DetailsAllowed: true},
	CodeInternal: {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error", DetailsAllowed: false},
	CodeDependency: {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// WithFields attaches form-field messages in the shape the storefront form
// renders: a field map plus the field to scroll to first.
func (e *Error) WithFields(fields map[string]string, first string) *Error {
	if e == nil {
		return nil
	}
	if first == "" {
		for name := range fields {
			if first == "" || name < first {
				first = name
			}
		}
	}
	e.details = map[string]any{
		"fields":      fields,
		"first_field": first,
	}
	return e
}

// WithField is WithFields for a single field.
func (e *Error) WithField(field, message string) *Error {
	return e.WithFields(map[string]string{field: message}, field)
}

// FieldsOf returns the field map attached by WithFields, if any.
func FieldsOf(err error) map[string]string {
	typed := As(err)
	if typed == nil {
		return nil
	}
	details, ok := typed.details.(map[string]any)
	if !ok {
		return nil
	}
	fields, _ := details["fields"].(map[string]string)
	return fields
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given typed code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}
