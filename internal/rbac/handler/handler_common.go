package handler

import (
	"errors"
	"net/http"
	"taskrbac/internal/rbac/i18n"
	"taskrbac/internal/rbac/model"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderUserID carries the authenticated caller.
	HeaderUserID = "x-user-id"
	// HeaderAcceptLanguage selects the message catalog.
	HeaderAcceptLanguage = "Accept-Language"
)

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func language(c echo.Context) string {
	return i18n.Default().Match(c.Request().Header.Get(HeaderAcceptLanguage))
}

func invalidBody(c echo.Context) model.ErrorResponse {
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: model.CodeBadRequest, Message: "Invalid body", RequestID: requestID(c)},
	}
}

func invalidParams(c echo.Context) model.ErrorResponse {
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: model.CodeBadRequest, Message: "Invalid parameters", RequestID: requestID(c)},
	}
}

// validationError renders a request model's Validate() failure.
func validationError(c echo.Context, err error) (int, model.ErrorResponse) {
	detail := model.ErrorDetail{Code: model.CodeBadRequest, Message: err.Error()}

	var ed *model.ErrorDetail
	if errors.As(err, &ed) {
		detail = *ed
	}
	detail.RequestID = requestID(c)

	return http.StatusBadRequest, model.ErrorResponse{Error: detail}
}

// bindTaskQuery reads the optional task list filters. Pointer fields are
// bound by hand since only their presence distinguishes "unset" from zero.
func bindTaskQuery(c echo.Context) (model.ListTasksReq, error) {
	var req model.ListTasksReq
	var minPriority int

	err := echo.QueryParamsBinder(c).
		Int("within_hours", &req.WithinHours).
		Int("min_priority", &minPriority).
		BindError()
	if err != nil {
		return req, err
	}
	if c.QueryParam("min_priority") != "" {
		req.MinPriority = &minPriority
	}
	return req, nil
}

func bindChangeLogQuery(c echo.Context) (model.GetMemberChangeLogsReq, error) {
	var req model.GetMemberChangeLogsReq
	var targetType, changeType string
	var start, end time.Time

	err := echo.QueryParamsBinder(c).
		String("target_type", &targetType).
		String("target_id", &req.TargetID).
		String("user_id", &req.UserID).
		String("change_type", &changeType).
		Time("start_time", &start, time.RFC3339).
		Time("end_time", &end, time.RFC3339).
		Int("page", &req.Page).
		Int("size", &req.Size).
		BindError()
	if err != nil {
		return req, err
	}

	req.TargetType = model.TargetType(targetType)
	req.ChangeType = model.ChangeType(changeType)
	if !start.IsZero() {
		req.StartTime = &start
	}
	if !end.IsZero() {
		req.EndTime = &end
	}
	return req, nil
}
