package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetVirtualGroups handles GET /virtual-groups
func (h *AccessHandler) GetVirtualGroups(c echo.Context) error {
	groups, err := h.Service.ListVirtualGroups(c.Request().Context())
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, groups)
}

// PostVirtualGroup handles POST /virtual-groups
func (h *AccessHandler) PostVirtualGroup(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.CreateVirtualGroupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	group, err := h.Service.CreateVirtualGroup(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, group)
}

// GetGroupRole handles GET /virtual-groups/:group_id/role
func (h *AccessHandler) GetGroupRole(c echo.Context) error {
	role, err := h.Service.GetBoundRole(c.Request().Context(), c.Param("group_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, role)
}

// PutGroupRole handles PUT /virtual-groups/:group_id/role
func (h *AccessHandler) PutGroupRole(c echo.Context) error {
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

	binding, err := h.Service.BindRole(c.Request().Context(), callerID, c.Param("group_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, binding)
}

// DeleteGroupRole handles DELETE /virtual-groups/:group_id/role
func (h *AccessHandler) DeleteGroupRole(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	if err := h.Service.UnbindRole(c.Request().Context(), callerID, c.Param("group_id")); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetGroupMembers handles GET /virtual-groups/:group_id/members
func (h *AccessHandler) GetGroupMembers(c echo.Context) error {
	members, err := h.Service.ListGroupMembers(c.Request().Context(), c.Param("group_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, members)
}

// PostGroupMember handles POST /admin/virtual-groups/:group_id/members
func (h *AccessHandler) PostGroupMember(c echo.Context) error {
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

	if err := h.Service.AddGroupMember(c.Request().Context(), callerID, c.Param("group_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteGroupMember handles DELETE /virtual-groups/:group_id/members/:user_id.
// The caller must approve the group.
func (h *AccessHandler) DeleteGroupMember(c echo.Context) error {
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

	if err := h.Service.RemoveGroupMember(c.Request().Context(), callerID, c.Param("group_id"), c.Param("user_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// PostGroupExit handles POST /virtual-groups/:group_id/exit
func (h *AccessHandler) PostGroupExit(c echo.Context) error {
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

	if err := h.Service.ExitVirtualGroup(c.Request().Context(), callerID, c.Param("group_id"), req); err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetGroupTasks handles GET /virtual-groups/:group_id/tasks
func (h *AccessHandler) GetGroupTasks(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	tasks, err := h.Service.GetGroupTasks(c.Request().Context(), callerID, c.Param("group_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetGroupTaskHistory handles GET /virtual-groups/:group_id/task-history
func (h *AccessHandler) GetGroupTaskHistory(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	trail, err := h.Service.GetGroupTaskHistory(c.Request().Context(), callerID, c.Param("group_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, trail)
}
