package handler

import (
	"net/http"
	"taskrbac/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// PutTaskAssignment handles PUT /tasks/:task_id/assignment
func (h *AccessHandler) PutTaskAssignment(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.AssignTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	task, err := h.Service.AssignTask(c.Request().Context(), callerID, c.Param("task_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// PostClaimTask handles POST /tasks/:task_id/claim
func (h *AccessHandler) PostClaimTask(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	task, err := h.Service.ClaimTask(c.Request().Context(), callerID, c.Param("task_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// PostUnclaimTask handles POST /tasks/:task_id/unclaim
func (h *AccessHandler) PostUnclaimTask(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	task, err := h.Service.UnclaimTask(c.Request().Context(), callerID, c.Param("task_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// PostDelegateTask handles POST /tasks/:task_id/delegate
func (h *AccessHandler) PostDelegateTask(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.DelegateTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	task, err := h.Service.DelegateTask(c.Request().Context(), callerID, c.Param("task_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// PostTransferTask handles POST /tasks/:task_id/transfer
func (h *AccessHandler) PostTransferTask(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	var req model.TransferTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	task, err := h.Service.TransferTask(c.Request().Context(), callerID, c.Param("task_id"), req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// PostCompleteTask handles POST /tasks/:task_id/complete
func (h *AccessHandler) PostCompleteTask(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	task, err := h.Service.CompleteTask(c.Request().Context(), callerID, c.Param("task_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// GetTask handles GET /tasks/:task_id
func (h *AccessHandler) GetTask(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	task, err := h.Service.GetVisibleTask(c.Request().Context(), callerID, c.Param("task_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, task)
}

// GetTaskHistory handles GET /tasks/:task_id/history
func (h *AccessHandler) GetTaskHistory(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	trail, err := h.Service.GetTaskHistory(c.Request().Context(), callerID, c.Param("task_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, trail)
}

// GetTaskDelegation handles GET /tasks/:task_id/delegation and reports
// whether the caller may delegate the task.
func (h *AccessHandler) GetTaskDelegation(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	ctx := c.Request().Context()
	task, err := h.Service.GetVisibleTask(ctx, callerID, c.Param("task_id"))
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	ok, err := h.Service.CanDelegate(ctx, task, callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, model.CanDelegateResponse{CanDelegate: ok})
}

// GetVisibleTasks handles GET /tasks, the caller's direct, delegated and
// claimed tasks.
func (h *AccessHandler) GetVisibleTasks(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	tasks, err := h.Service.GetVisibleTasks(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetAllVisibleTasks handles GET /tasks/all, which adds the unclaimed pools.
func (h *AccessHandler) GetAllVisibleTasks(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	tasks, err := h.Service.GetAllVisibleTasks(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetOverdueTasks handles GET /tasks/overdue
func (h *AccessHandler) GetOverdueTasks(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	tasks, err := h.Service.GetOverdueTasks(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetDueSoonTasks handles GET /tasks/due-soon?within_hours=
func (h *AccessHandler) GetDueSoonTasks(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	req, err := bindTaskQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	tasks, err := h.Service.GetDueSoonTasks(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetHighPriorityTasks handles GET /tasks/high-priority?min_priority=
func (h *AccessHandler) GetHighPriorityTasks(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	req, err := bindTaskQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, invalidParams(c))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(validationError(c, err))
	}

	tasks, err := h.Service.GetHighPriorityTasks(c.Request().Context(), callerID, req)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetTaskCounts handles GET /tasks/counts
func (h *AccessHandler) GetTaskCounts(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}

	counts, err := h.Service.CountTasks(c.Request().Context(), callerID)
	if err != nil {
		code, body := httpError(c, err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, counts)
}
