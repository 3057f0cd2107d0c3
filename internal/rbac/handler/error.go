package handler

import (
	"errors"
	"net/http"
	"taskrbac/internal/rbac/i18n"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/service"
	"taskrbac/internal/rbac/util"

	"github.com/labstack/echo/v4"
)

// kindStatus maps service error kinds to HTTP status and the code used when
// the error carries no business code of its own.
var kindStatus = []struct {
	kind   error
	status int
	code   string
}{
	{service.ErrUnauthorized, http.StatusUnauthorized, model.CodeUnauthorized},
	{service.ErrForbidden, http.StatusForbidden, model.CodeForbidden},
	{service.ErrNotFound, http.StatusNotFound, model.CodeNotFound},
	{service.ErrVersionConflict, http.StatusConflict, model.CodeVersionConflict},
	{service.ErrConflict, http.StatusConflict, model.CodeConflict},
	{service.ErrBadRequest, http.StatusBadRequest, model.CodeBadRequest},
	{service.ErrUpstream, http.StatusBadGateway, model.CodeEngineFailure},
}

// Helper to map errors to HTTP status and body
func httpError(c echo.Context, err error) (int, interface{}) {
	status := http.StatusInternalServerError
	code := model.CodeInternalError
	var params map[string]string

	var detail *model.ErrorDetail
	if errors.As(err, &detail) {
		return validationError(c, detail)
	}

	for _, k := range kindStatus {
		if errors.Is(err, k.kind) {
			status, code = k.status, k.code
			break
		}
	}

	var be *service.BusinessError
	if errors.As(err, &be) {
		code = be.Code
		params = be.Params
	}

	switch {
	case status == http.StatusInternalServerError:
		util.GetLogger().Errorw("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err,
		)
	case status == http.StatusBadGateway:
		util.GetLogger().Warnw("workflow engine call failed",
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err,
		)
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:      code,
			Message:   i18n.Default().Localize(language(c), code, params),
			RequestID: requestID(c),
		},
	}
}
