package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// PostPermissionRequest handles POST /permission-requests
func (h *AccessHandler) PostPermissionRequest(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.CreatePermissionRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	request, err := h.Service.CreatePermissionRequest(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, request)
}

// GetPermissionRequests handles GET /permission-requests (audit view)
func (h *AccessHandler) GetPermissionRequests(c echo.Context) error {
	var req model.ListPermissionRequestsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	page, err := h.Service.ListPermissionRequests(c.Request().Context(), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, page)
}

// GetMyPermissionRequests handles GET /permission-requests/mine
func (h *AccessHandler) GetMyPermissionRequests(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.ListPermissionRequestsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	page, err := h.Service.ListMyPermissionRequests(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, page)
}

// GetPendingPermissionRequests handles GET /permission-requests/pending
func (h *AccessHandler) GetPendingPermissionRequests(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.ListPermissionRequestsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	page, err := h.Service.ListPendingForApprover(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, page)
}

// GetPermissionRequest handles GET /permission-requests/:request_id
func (h *AccessHandler) GetPermissionRequest(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	detail, err := h.Service.GetPermissionRequest(c.Request().Context(), callerID, c.Param("request_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, detail)
}

// PostApproveRequest handles POST /permission-requests/:request_id/approve
func (h *AccessHandler) PostApproveRequest(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.ReviewPermissionRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	request, err := h.Service.ApprovePermissionRequest(c.Request().Context(), callerID, c.Param("request_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, request)
}

// PostRejectRequest handles POST /permission-requests/:request_id/reject
func (h *AccessHandler) PostRejectRequest(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.ReviewPermissionRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.ValidateReject(); err != nil {
		return c.JSON(validationError(c, err))
	}

	request, err := h.Service.RejectPermissionRequest(c.Request().Context(), callerID, c.Param("request_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, request)
}

// PostCancelRequest handles POST /permission-requests/:request_id/cancel
func (h *AccessHandler) PostCancelRequest(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	request, err := h.Service.CancelPermissionRequest(c.Request().Context(), callerID, c.Param("request_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, request)
}
