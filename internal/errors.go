package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = NewAppError(http.StatusNotFound, "NOT_FOUND", "resource not found")
	ErrLogNotFound  = NewAppError(http.StatusNotFound, "LOG_NOT_FOUND", "log not found")
	ErrGoalNotFound = NewAppError(http.StatusNotFound, "GOAL_NOT_FOUND", "goal not found")
	ErrLogExists    = NewAppError(http.StatusConflict, "LOG_EXISTS", "log exists")
	ErrValidation   = NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "validation failed")
	ErrBadRequest   = NewAppError(http.StatusBadRequest, "BAD_REQUEST", "invalid request")
	ErrUnauthorized = NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrRateLimited  = NewAppError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests, try again later")
	ErrInternal     = NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
)

type AppError struct {
	Status  int            `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func NewAppError(status int, code, msg string) *AppError {
	return &AppError{Status: status, Code: code, Message: msg}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches sentinels by code so wrapped clones still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.Err = err
	return c
}

func (e *AppError) WithMessage(msg string) *AppError {
	c := e.clone()
	c.Message = msg
	return c
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	c := e.clone()
	c.Details = make(map[string]any, len(details))
	for k, v := range details {
		c.Details[k] = v
	}
	return c
}

func (e *AppError) clone() *AppError {
	c := *e
	if e.Details != nil {
		c.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			c.Details[k] = v
		}
	}
	return &c
}

// FromError converts any error into an AppError. Unknown errors become 500s.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewAppError(http.StatusRequestTimeout, "REQUEST_CANCELED", "request canceled").WithError(err)
	}
	return ErrInternal.WithError(err)
}

// ParseValidationErrors flattens validator errors into a 400 with one entry
// per failing field.
func ParseValidationErrors(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrBadRequest.WithError(err)
	}
	fields := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, map[string]string{
			"field":   strings.ToLower(fe.Field()),
			"message": validationMessage(fe),
		})
	}
	return ErrValidation.WithError(err).WithDetails(map[string]any{"fields": fields})
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
