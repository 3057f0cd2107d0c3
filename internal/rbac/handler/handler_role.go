package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetRoles handles GET /roles
func (h *AccessHandler) GetRoles(c echo.Context) error {
	var req model.ListRolesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	roles, err := h.Service.ListRoles(c.Request().Context(), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// PostRole handles POST /roles
func (h *AccessHandler) PostRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.CreateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	role, err := h.Service.CreateRole(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, role)
}

// GetRole handles GET /roles/:role_id
func (h *AccessHandler) GetRole(c echo.Context) error {
	role, err := h.Service.GetRole(c.Request().Context(), c.Param("role_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// PutRoleStatus handles PUT /roles/:role_id/status
func (h *AccessHandler) PutRoleStatus(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.UpdateRoleStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	role, err := h.Service.UpdateRoleStatus(c.Request().Context(), callerID, c.Param("role_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// GetRolePermissions handles GET /roles/:role_id/permissions
func (h *AccessHandler) GetRolePermissions(c echo.Context) error {
	perms, err := h.Service.GetRolePermissions(c.Request().Context(), c.Param("role_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, perms)
}

// PutRolePermissions handles PUT /roles/:role_id/permissions
func (h *AccessHandler) PutRolePermissions(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.AssignRolePermissionsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	perms, err := h.Service.AssignRolePermissions(c.Request().Context(), callerID, c.Param("role_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, perms)
}

// GetRoleUsers handles GET /roles/:role_id/users for BU-unbounded roles.
func (h *AccessHandler) GetRoleUsers(c echo.Context) error {
	users, err := h.Service.GetUsersByUnboundedRole(c.Request().Context(), c.Param("role_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, users)
}

// GetPermissions handles GET /permissions
func (h *AccessHandler) GetPermissions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.ListPermissions())
}

// GetUserRoles handles GET /users/:user_id/roles
func (h *AccessHandler) GetUserRoles(c echo.Context) error {
	roles, err := h.Service.GetUserRoles(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetUserPermissions handles GET /users/:user_id/permissions
func (h *AccessHandler) GetUserPermissions(c echo.Context) error {
	perms, err := h.Service.GetUserPermissions(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, perms)
}

// GetUserRoleInUnit handles GET /users/:user_id/roles/:role_id/business-units/:unit_id
func (h *AccessHandler) GetUserRoleInUnit(c echo.Context) error {
	ok, err := h.Service.HasRoleInBusinessUnit(c.Request().Context(), c.Param("user_id"), c.Param("role_id"), c.Param("unit_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.HasRoleResponse{HasRole: ok})
}
