package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetBusinessUnits handles GET /business-units
func (h *AccessHandler) GetBusinessUnits(c echo.Context) error {
	units, err := h.Service.ListBusinessUnits(c.Request().Context())
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, units)
}

// PostBusinessUnit handles POST /business-units
func (h *AccessHandler) PostBusinessUnit(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.CreateBusinessUnitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	unit, err := h.Service.CreateBusinessUnit(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, unit)
}

// GetUnitParent handles GET /business-units/:unit_id/parent
func (h *AccessHandler) GetUnitParent(c echo.Context) error {
	unitID := c.Param("unit_id")
	parentID, err := h.Service.GetParentUnitID(c.Request().Context(), unitID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.ParentUnitResponse{UnitID: unitID, ParentID: parentID})
}

// GetUnitMembers handles GET /business-units/:unit_id/members
func (h *AccessHandler) GetUnitMembers(c echo.Context) error {
	ctx := c.Request().Context()
	unitID := c.Param("unit_id")

	members, err := h.Service.ListUnitMembers(ctx, unitID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	total, err := h.Service.CountUnitMembers(ctx, unitID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.UnitMembersResponse{Data: members, TotalCount: total})
}

// GetUnitMember handles GET /business-units/:unit_id/members/:user_id
func (h *AccessHandler) GetUnitMember(c echo.Context) error {
	member, err := h.Service.IsUnitMember(c.Request().Context(), c.Param("unit_id"), c.Param("user_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.MembershipResponse{Member: member})
}

// PostUnitMember handles POST /admin/business-units/:unit_id/members
func (h *AccessHandler) PostUnitMember(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.AddUnitMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	if err := h.Service.AddUnitMember(c.Request().Context(), callerID, c.Param("unit_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUnitMemberAdmin handles DELETE /admin/business-units/:unit_id/members/:user_id
func (h *AccessHandler) DeleteUnitMemberAdmin(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.MemberReasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	if err := h.Service.RemoveUnitMember(c.Request().Context(), callerID, c.Param("unit_id"), c.Param("user_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUnitMember handles DELETE /business-units/:unit_id/members/:user_id.
// The caller must approve the unit.
func (h *AccessHandler) DeleteUnitMember(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.MemberReasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	if err := h.Service.RemoveBusinessUnitMember(c.Request().Context(), callerID, c.Param("unit_id"), c.Param("user_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// PostUnitExit handles POST /business-units/:unit_id/exit
func (h *AccessHandler) PostUnitExit(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.MemberReasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	if err := h.Service.ExitBusinessUnit(c.Request().Context(), callerID, c.Param("unit_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUnitRoles handles GET /business-units/:unit_id/roles
func (h *AccessHandler) GetUnitRoles(c echo.Context) error {
	roleIDs, err := h.Service.ListUnitRoleIDs(c.Request().Context(), c.Param("unit_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roleIDs)
}

// GetUnitRole handles GET /business-units/:unit_id/roles/:role_id
func (h *AccessHandler) GetUnitRole(c echo.Context) error {
	eligible, err := h.Service.IsUnitRoleEligible(c.Request().Context(), c.Param("unit_id"), c.Param("role_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.EligibilityResponse{Eligible: eligible})
}

// PostUnitRole handles POST /business-units/:unit_id/roles
func (h *AccessHandler) PostUnitRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.BindRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	if err := h.Service.BindUnitRole(c.Request().Context(), callerID, c.Param("unit_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUnitRole handles DELETE /business-units/:unit_id/roles/:role_id
func (h *AccessHandler) DeleteUnitRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	if err := h.Service.UnbindUnitRole(c.Request().Context(), callerID, c.Param("unit_id"), c.Param("role_id")); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUnitRoleUsers handles GET /business-units/:unit_id/roles/:role_id/users
func (h *AccessHandler) GetUnitRoleUsers(c echo.Context) error {
	users, err := h.Service.GetUsersByUnitAndRole(c.Request().Context(), c.Param("unit_id"), c.Param("role_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUnitRoleCandidates handles GET /business-units/:unit_id/roles/:role_id/candidates
func (h *AccessHandler) GetUnitRoleCandidates(c echo.Context) error {
	users, err := h.Service.GetCandidates(c.Request().Context(), c.Param("unit_id"), c.Param("role_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, users)
}
