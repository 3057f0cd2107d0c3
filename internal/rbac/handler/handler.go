package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

type AccessHandler struct {
	Service service.AccessService
}

func NewAccessHandler(s service.AccessService) *AccessHandler {
	return &AccessHandler{Service: s}
}

func (h *AccessHandler) extractCallerID(c echo.Context) (string, error) {
	callerID := c.Request().Header.Get(HeaderUserID)
	if callerID == "" {
		return "", service.ErrUnauthorized
	}
	return callerID, nil
}

// HealthCheck handles GET /health
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

// PostPermissionsCheck handles POST /permissions/check for the caller.
func (h *AccessHandler) PostPermissionsCheck(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.CheckPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	allowed, err := h.Service.HasPermission(c.Request().Context(), callerID, req.Permission)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	return c.JSON(http.StatusOK, model.CheckPermissionResponse{Allowed: allowed})
}

// GetMemberChangeLogs handles GET /member-change-logs
func (h *AccessHandler) GetMemberChangeLogs(c echo.Context) error {
	req, err := bindChangeLogQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	result, err := h.Service.GetMemberChangeLogs(c.Request().Context(), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	return c.JSON(http.StatusOK, result)
}
