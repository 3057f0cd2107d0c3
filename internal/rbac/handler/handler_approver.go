package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetApprovers handles GET /approvers?target_type=&target_id=
func (h *AccessHandler) GetApprovers(c echo.Context) error {
	var req model.ApproverTargetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	approvers, err := h.Service.GetApprovers(c.Request().Context(), req.TargetType, req.TargetID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, approvers)
}

// PostApprover handles POST /approvers
func (h *AccessHandler) PostApprover(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.AddApproverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	approver, err := h.Service.AddApprover(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, approver)
}

// DeleteApprovers handles DELETE /approvers?target_type=&target_id=&user_id=
func (h *AccessHandler) DeleteApprovers(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.ApproverTargetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}
	if req.UserID == "" {
		return c.JSON(validationError(c, &model.ErrorDetail{Code: model.CodeBadRequest, Message: "user_id is required"}))
	}

	if err := h.Service.RemoveApproverByTarget(c.Request().Context(), callerID, req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteApprover handles DELETE /approvers/:approver_id
func (h *AccessHandler) DeleteApprover(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	if err := h.Service.RemoveApprover(c.Request().Context(), callerID, c.Param("approver_id")); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}
