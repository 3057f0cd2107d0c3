package service

import (
	"errors"
	"fmt"
	"taskrbac/internal/rbac/model"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrVersionConflict = errors.New("version conflict")
	ErrUpstream        = errors.New("upstream failure")
)

// BusinessError is a rule violation with a stable code. It unwraps to its kind.
type BusinessError struct {
	Code   string
	Kind   error
	Params map[string]string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Kind)
}

func (e *BusinessError) Unwrap() error {
	return e.Kind
}

// newError builds a BusinessError from alternating param keys and values.
func newError(kind error, code string, params ...string) *BusinessError {
	be := &BusinessError{Code: code, Kind: kind}
	if len(params) > 1 {
		be.Params = make(map[string]string, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			be.Params[params[i]] = params[i+1]
		}
	}
	return be
}

func notFound(code string, params ...string) error {
	return newError(ErrNotFound, code, params...)
}

func conflict(code string, params ...string) error {
	return newError(ErrConflict, code, params...)
}

func badRequest(code string, params ...string) error {
	return newError(ErrBadRequest, code, params...)
}

func forbidden(code string, params ...string) error {
	return newError(ErrForbidden, code, params...)
}

func invalid(detail *model.ErrorDetail) error {
	return newError(ErrBadRequest, detail.Code, "detail", detail.Message)
}

func versionConflict(taskID string) error {
	return newError(ErrVersionConflict, model.CodeVersionConflict, "task_id", taskID)
}

// upstream keeps the engine failure in the chain for logging while the
// caller only sees the stable code.
func upstream(err error) error {
	return fmt.Errorf("%w: %v", newError(ErrUpstream, model.CodeEngineFailure), err)
}

// CodeOf returns the business code carried by err, or "".
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
