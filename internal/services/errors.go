package services

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorLoad         ErrorCode = "load"
	ErrorSchema       ErrorCode = "schema"
	ErrorUnknownQuery ErrorCode = "unknown_query"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewSchemaError(msg string) error   { return &ServiceError{Code: ErrorSchema, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewLoadError wraps an I/O or parse failure of the response source.
func NewLoadError(msg string, cause error) error {
	return &ServiceError{Code: ErrorLoad, Message: msg, Err: cause}
}

// NewUnknownQueryError names the rejected identifier and the accepted set.
func NewUnknownQueryError(id string) error {
	valid := make([]string, 0, len(queryOrder))
	for _, q := range queryOrder {
		valid = append(valid, string(q))
	}
	return &ServiceError{
		Code:    ErrorUnknownQuery,
		Message: fmt.Sprintf("unknown query %q (valid: %s)", id, strings.Join(valid, ", ")),
	}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCode reports whether err is a ServiceError carrying code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}
