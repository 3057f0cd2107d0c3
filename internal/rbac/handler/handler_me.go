package handler

import (
	"net/http"
	"strings"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// Self-service routes under /me act on the caller only.

// GetMyRoles handles GET /me/roles
func (h *AccessHandler) GetMyRoles(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	roles, err := h.Service.GetUserRoles(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetMyBuBoundedRoles handles GET /me/roles/bu-bounded
func (h *AccessHandler) GetMyBuBoundedRoles(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	roles, err := h.Service.GetUserBuBoundedRoles(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetMyBuUnboundedRoles handles GET /me/roles/bu-unbounded
func (h *AccessHandler) GetMyBuUnboundedRoles(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	roles, err := h.Service.GetUserBuUnboundedRoles(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetMyUnactivatedRoles handles GET /me/roles/unactivated
func (h *AccessHandler) GetMyUnactivatedRoles(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	roles, err := h.Service.GetUnactivatedBuBoundedRoles(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetMyPermissions handles GET /me/permissions
func (h *AccessHandler) GetMyPermissions(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	perms, err := h.Service.GetUserPermissions(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, perms)
}

// GetMyBuReminder handles GET /me/bu-reminder
func (h *AccessHandler) GetMyBuReminder(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	show, err := h.Service.ShouldShowBuApplicationReminder(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.BuReminderResponse{Show: show})
}

// GetMyDontRemind handles GET /me/preferences/dont-remind
func (h *AccessHandler) GetMyDontRemind(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	dontRemind, err := h.Service.GetDontRemind(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.DontRemindResponse{DontRemind: dontRemind})
}

// PutMyDontRemind handles PUT /me/preferences/dont-remind
func (h *AccessHandler) PutMyDontRemind(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.SetDontRemindReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	if err := h.Service.SetDontRemind(c.Request().Context(), callerID, req.DontRemind); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.DontRemindResponse{DontRemind: req.DontRemind})
}

// DeleteMyDontRemind handles DELETE /me/preferences/dont-remind
func (h *AccessHandler) DeleteMyDontRemind(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	if err := h.Service.ResetDontRemind(c.Request().Context(), callerID); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMyApplicableUnits handles GET /me/business-units/applicable
func (h *AccessHandler) GetMyApplicableUnits(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	units, err := h.Service.GetApplicableBusinessUnits(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, units)
}

// GetMyUnitCount handles GET /me/business-units/count
func (h *AccessHandler) GetMyUnitCount(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	count, err := h.Service.CountUserUnits(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: count})
}

// GetMyApproverStatus handles GET /me/approver
func (h *AccessHandler) GetMyApproverStatus(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	approver, err := h.Service.IsAnyApprover(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.ApproverStatusResponse{Approver: approver})
}

// GetMyApproverTargets handles GET /me/approver-targets?target_type=
func (h *AccessHandler) GetMyApproverTargets(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	targetType := model.TargetType(strings.ToUpper(strings.TrimSpace(c.QueryParam("target_type"))))
	if !targetType.IsValid() {
		return c.JSON(validationError(c, &model.ErrorDetail{
			Code:    model.CodeInvalidTargetType,
			Message: "target_type must be one of [VIRTUAL_GROUP, BUSINESS_UNIT]",
		}))
	}

	ids, err := h.Service.GetApproverTargetIDs(c.Request().Context(), callerID, targetType)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, ids)
}
