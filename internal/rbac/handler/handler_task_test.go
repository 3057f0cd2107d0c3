package handler

import (
	"encoding/json"
	"net/http"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPutTaskAssignment(t *testing.T) {
	apiPath := "/api/v1/tasks/t1/assignment"

	setup := func() (*MockAccessService, *AccessHandler) {
		svc := new(MockAccessService)
		return svc, NewAccessHandler(svc)
	}

	t.Run("assign to group with default priority", func(t *testing.T) {
		svc, h := setup()
		e := SetupServer()
		e.PUT("/api/v1/tasks/:task_id/assignment", h.PutTaskAssignment)

		svc.On("AssignTask", mock.Anything, "lead", "t1", mock.MatchedBy(func(req model.AssignTaskReq) bool {
			return req.AssignmentType == model.AssignmentTypeVirtualGroup &&
				req.AssignmentTarget == "g1" &&
				req.PriorityOrDefault() == model.DefaultPriority
		})).Return(&model.TaskInfo{TaskID: "t1", AssignmentType: model.AssignmentTypeVirtualGroup, AssignmentTarget: "g1", Priority: model.DefaultPriority, Version: 1}, nil)

		body := map[string]string{"assignment_type": "virtual_group", "assignment_target": " g1 "}
		rec := PerformRequest(e, "PUT", apiPath, body, asUser("lead"))
		assert.Equal(t, http.StatusOK, rec.Code)

		var task model.TaskInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, "g1", task.AssignmentTarget)
		svc.AssertExpectations(t)
	})

	t.Run("priority out of range returns 400", func(t *testing.T) {
		svc, h := setup()
		e := SetupServer()
		e.PUT("/api/v1/tasks/:task_id/assignment", h.PutTaskAssignment)

		body := map[string]interface{}{"assignment_type": "USER", "assignment_target": "u1", "priority": 101}
		rec := PerformRequest(e, "PUT", apiPath, body, asUser("lead"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.CodeInvalidPriority, decodeError(t, rec).Code)
		svc.AssertNotCalled(t, "AssignTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed dept role target returns 400", func(t *testing.T) {
		svc, h := setup()
		e := SetupServer()
		e.PUT("/api/v1/tasks/:task_id/assignment", h.PutTaskAssignment)

		body := map[string]string{"assignment_type": "DEPT_ROLE", "assignment_target": "engineering"}
		rec := PerformRequest(e, "PUT", apiPath, body, asUser("lead"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.CodeInvalidTarget, decodeError(t, rec).Code)
		svc.AssertNotCalled(t, "AssignTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent modification returns 409", func(t *testing.T) {
		svc, h := setup()
		e := SetupServer()
		e.PUT("/api/v1/tasks/:task_id/assignment", h.PutTaskAssignment)

		svc.On("AssignTask", mock.Anything, "lead", "t1", mock.Anything).Return(nil, &service.BusinessError{
			Code:   model.CodeVersionConflict,
			Kind:   service.ErrVersionConflict,
			Params: map[string]string{"task_id": "t1"},
		})

		body := map[string]string{"assignment_type": "USER", "assignment_target": "u2"}
		rec := PerformRequest(e, "PUT", apiPath, body, asUser("lead"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, model.CodeVersionConflict, decodeError(t, rec).Code)
	})
}

func TestClaimTask(t *testing.T) {
	t.Run("claim success", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.POST("/api/v1/tasks/:task_id/claim", h.PostClaimTask)

		svc.On("ClaimTask", mock.Anything, "u1", "t1").Return(&model.TaskInfo{TaskID: "t1", ClaimedBy: "u1"}, nil)

		rec := PerformRequest(e, "POST", "/api/v1/tasks/t1/claim", nil, asUser("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("task already claimed returns 409", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.POST("/api/v1/tasks/:task_id/claim", h.PostClaimTask)

		svc.On("ClaimTask", mock.Anything, "u2", "t1").Return(nil, &service.BusinessError{
			Code:   model.CodeTaskAlreadyClaimed,
			Kind:   service.ErrConflict,
			Params: map[string]string{"task_id": "t1"},
		})

		rec := PerformRequest(e, "POST", "/api/v1/tasks/t1/claim", nil, asUser("u2"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, model.CodeTaskAlreadyClaimed, decodeError(t, rec).Code)
	})

	t.Run("delegate requires a delegate", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.POST("/api/v1/tasks/:task_id/delegate", h.PostDelegateTask)

		rec := PerformRequest(e, "POST", "/api/v1/tasks/t1/delegate", map[string]string{"delegated_to": "  "}, asUser("u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "DelegateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskQueries(t *testing.T) {
	t.Run("due soon defaults to 24 hours", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/due-soon", h.GetDueSoonTasks)

		svc.On("GetDueSoonTasks", mock.Anything, "u1", model.ListTasksReq{WithinHours: 24}).Return([]*model.TaskInfo{}, nil)

		rec := PerformRequest(e, "GET", "/api/v1/tasks/due-soon", nil, asUser("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("due soon rejects a non numeric window", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/due-soon", h.GetDueSoonTasks)

		rec := PerformRequest(e, "GET", "/api/v1/tasks/due-soon?within_hours=soon", nil, asUser("u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.CodeBadRequest, decodeError(t, rec).Code)
	})

	t.Run("high priority binds the threshold", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/high-priority", h.GetHighPriorityTasks)

		svc.On("GetHighPriorityTasks", mock.Anything, "u1", mock.MatchedBy(func(req model.ListTasksReq) bool {
			return req.MinPriority != nil && *req.MinPriority == 0
		})).Return([]*model.TaskInfo{{TaskID: "t9", Priority: 10}}, nil)

		rec := PerformRequest(e, "GET", "/api/v1/tasks/high-priority?min_priority=0", nil, asUser("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)

		var tasks []model.TaskInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, "t9", tasks[0].TaskID)
		svc.AssertExpectations(t)
	})

	t.Run("delegation check", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/:task_id/delegation", h.GetTaskDelegation)

		task := &model.TaskInfo{TaskID: "t1", AssignmentType: model.AssignmentTypeUser, AssignmentTarget: "u1"}
		svc.On("GetVisibleTask", mock.Anything, "u1", "t1").Return(task, nil)
		svc.On("CanDelegate", mock.Anything, task, "u1").Return(true, nil)

		rec := PerformRequest(e, "GET", "/api/v1/tasks/t1/delegation", nil, asUser("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp model.CanDelegateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.CanDelegate)
	})

	t.Run("missing task returns 404", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/:task_id", h.GetTask)

		svc.On("GetVisibleTask", mock.Anything, "u1", "nope").Return(nil, &service.BusinessError{
			Code:   model.CodeTaskNotFound,
			Kind:   service.ErrNotFound,
			Params: map[string]string{"task_id": "nope"},
		})

		rec := PerformRequest(e, "GET", "/api/v1/tasks/nope", nil, asUser("u1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, model.CodeTaskNotFound, decodeError(t, rec).Code)
	})

	t.Run("task detail needs a caller", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/:task_id", h.GetTask)

		rec := PerformRequest(e, "GET", "/api/v1/tasks/t1", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "GetVisibleTask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("outsider cannot read the task", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/:task_id", h.GetTask)

		svc.On("GetVisibleTask", mock.Anything, "u9", "t1").Return(nil, &service.BusinessError{
			Code:   model.CodeNotAuthorized,
			Kind:   service.ErrForbidden,
			Params: map[string]string{"user_id": "u9", "task_id": "t1"},
		})

		rec := PerformRequest(e, "GET", "/api/v1/tasks/t1", nil, asUser("u9"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, model.CodeNotAuthorized, decodeError(t, rec).Code)
	})

	t.Run("task history", func(t *testing.T) {
		svc := new(MockAccessService)
		h := NewAccessHandler(svc)
		e := SetupServer()
		e.GET("/api/v1/tasks/:task_id/history", h.GetTaskHistory)

		svc.On("GetTaskHistory", mock.Anything, "u1", "t1").Return([]*model.TaskHistory{
			{ID: "h2", TaskID: "t1", Action: model.TaskActionDelegated, FromUserID: "u1", ToUserID: "u2"},
			{ID: "h1", TaskID: "t1", Action: model.TaskActionClaimed, ToUserID: "u1"},
		}, nil)

		rec := PerformRequest(e, "GET", "/api/v1/tasks/t1/history", nil, asUser("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)

		var trail []model.TaskHistory
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trail))
		require.Len(t, trail, 2)
		assert.Equal(t, model.TaskActionDelegated, trail[0].Action)
	})
}
