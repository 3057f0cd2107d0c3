package service

import (
	"context"
	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func groupTask(taskID, groupID string) *model.TaskInfo {
	return &model.TaskInfo{
		ID:               "id-" + taskID,
		TaskID:           taskID,
		AssignmentType:   model.AssignmentTypeVirtualGroup,
		AssignmentTarget: groupID,
		Priority:         model.DefaultPriority,
		Status:           model.TaskStatusAssigned,
		CreatedTime:      testNow.Add(-time.Hour),
		Version:          1,
	}
}

func TestClaimDelegateScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := groupTask("T1", "G1")
	f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)
	f.tasks.On("UpdateTask", mock.Anything, task).Return(nil)
	f.engine.On("SetAssignee", mock.Anything, "T1", mock.Anything).Return(nil)
	f.membership.On("IsGroupMember", mock.Anything, "U1", "G1").Return(true, nil)
	f.activeUser("U2")
	f.activeUser("U4")

	claimed, err := f.svc.ClaimTask(ctx, "U1", "T1")
	require.NoError(t, err)
	assert.Equal(t, "U1", claimed.CurrentAssignee())
	assert.Equal(t, model.TaskStatusAssigned, claimed.Status)
	assert.Equal(t, model.AssignmentTypeVirtualGroup, claimed.AssignmentType)
	assert.Equal(t, "G1", claimed.AssignmentTarget)
	f.engine.AssertCalled(t, "SetAssignee", mock.Anything, "T1", "U1")

	delegated, err := f.svc.DelegateTask(ctx, "U1", "T1", model.DelegateTaskReq{DelegatedTo: "U2", Reason: "vacation"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDelegated, delegated.Status)
	assert.Equal(t, "U2", delegated.CurrentAssignee())
	assert.Equal(t, "U1", delegated.DelegatedBy)
	f.engine.AssertCalled(t, "SetAssignee", mock.Anything, "T1", "U2")

	_, err = f.svc.DelegateTask(ctx, "U3", "T1", model.DelegateTaskReq{DelegatedTo: "U4"})
	assertBusinessError(t, err, ErrForbidden, model.CodeNotAuthorized)

	// the delegatee may pass it on
	again, err := f.svc.DelegateTask(ctx, "U2", "T1", model.DelegateTaskReq{DelegatedTo: "U4"})
	require.NoError(t, err)
	assert.Equal(t, "U4", again.CurrentAssignee())
	assert.Equal(t, "U2", again.DelegatedBy)

	// one trail entry per successful step, the rejected delegation leaves none
	trail := f.history.TaskEntries
	require.Len(t, trail, 3)
	assert.Equal(t, model.TaskActionClaimed, trail[0].Action)
	assert.Equal(t, "G1", trail[0].GroupID)
	assert.Empty(t, trail[0].FromUserID)
	assert.Equal(t, "U1", trail[0].ToUserID)

	assert.Equal(t, model.TaskActionDelegated, trail[1].Action)
	assert.Equal(t, "U1", trail[1].FromUserID)
	assert.Equal(t, "U2", trail[1].ToUserID)
	assert.Equal(t, "vacation", trail[1].Reason)
	assert.Equal(t, "U1", trail[1].OperatorID)

	assert.Equal(t, "U2", trail[2].FromUserID)
	assert.Equal(t, "U4", trail[2].ToUserID)
	assert.Equal(t, testNow, trail[2].CreatedAt)
}

func TestClaimTask(t *testing.T) {
	ctx := context.Background()

	t.Run("direct task is not claimable", func(t *testing.T) {
		f := newFixture(t)
		task := groupTask("T1", "")
		task.AssignmentType = model.AssignmentTypeUser
		task.AssignmentTarget = "U1"
		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)

		_, err := f.svc.ClaimTask(ctx, "U1", "T1")
		assertBusinessError(t, err, ErrConflict, model.CodeTaskNotClaimable)
	})

	t.Run("already claimed", func(t *testing.T) {
		f := newFixture(t)
		task := groupTask("T1", "G1")
		task.ClaimedBy = "U1"
		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)

		_, err := f.svc.ClaimTask(ctx, "U2", "T1")
		assertBusinessError(t, err, ErrConflict, model.CodeTaskAlreadyClaimed)
	})

	t.Run("not a group member", func(t *testing.T) {
		f := newFixture(t)
		f.tasks.On("GetTask", mock.Anything, "T1").Return(groupTask("T1", "G1"), nil)
		f.membership.On("IsGroupMember", mock.Anything, "U9", "G1").Return(false, nil)

		_, err := f.svc.ClaimTask(ctx, "U9", "T1")
		assertBusinessError(t, err, ErrForbidden, model.CodeNotGroupMember)
		f.tasks.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
	})

	t.Run("dept role pool asks for the role in the unit", func(t *testing.T) {
		f := newFixture(t)
		task := groupTask("T1", "")
		task.AssignmentType = model.AssignmentTypeDeptRole
		task.AssignmentTarget = model.DeptRoleTarget("B1", "R1")
		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)
		f.tasks.On("UpdateTask", mock.Anything, task).Return(nil)
		f.engine.On("SetAssignee", mock.Anything, "T1", "U1").Return(nil)
		f.membership.On("IsDeptRoleMember", mock.Anything, "U1", "B1", "R1").Return(true, nil)

		claimed, err := f.svc.ClaimTask(ctx, "U1", "T1")
		require.NoError(t, err)
		assert.Equal(t, "U1", claimed.ClaimedBy)
	})

	t.Run("concurrent write loses", func(t *testing.T) {
		f := newFixture(t)
		f.tasks.On("GetTask", mock.Anything, "T1").Return(groupTask("T1", "G1"), nil)
		f.tasks.On("UpdateTask", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict)
		f.membership.On("IsGroupMember", mock.Anything, "U1", "G1").Return(true, nil)

		_, err := f.svc.ClaimTask(ctx, "U1", "T1")
		assertBusinessError(t, err, ErrVersionConflict, model.CodeVersionConflict)
		f.engine.AssertNotCalled(t, "SetAssignee", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUnclaimTask(t *testing.T) {
	ctx := context.Background()

	t.Run("only the claimant", func(t *testing.T) {
		f := newFixture(t)
		task := groupTask("T1", "G1")
		task.ClaimedBy = "U1"
		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)

		_, err := f.svc.UnclaimTask(ctx, "U2", "T1")
		assertBusinessError(t, err, ErrForbidden, model.CodeNotClaimant)
	})

	t.Run("returns the task to the pool", func(t *testing.T) {
		f := newFixture(t)
		task := groupTask("T1", "G1")
		task.ClaimedBy = "U1"
		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)
		f.tasks.On("UpdateTask", mock.Anything, task).Return(nil)
		f.engine.On("SetAssignee", mock.Anything, "T1", "").Return(nil)

		unclaimed, err := f.svc.UnclaimTask(ctx, "U1", "T1")
		require.NoError(t, err)
		assert.Empty(t, unclaimed.ClaimedBy)
		assert.Nil(t, unclaimed.ClaimedTime)
		assert.Empty(t, unclaimed.CurrentAssignee())
	})

	t.Run("not claimed", func(t *testing.T) {
		f := newFixture(t)
		f.tasks.On("GetTask", mock.Anything, "T1").Return(groupTask("T1", "G1"), nil)

		_, err := f.svc.UnclaimTask(ctx, "U1", "T1")
		assertBusinessError(t, err, ErrConflict, model.CodeTaskNotClaimed)
	})
}

func TestAssignTask(t *testing.T) {
	ctx := context.Background()
	priority := 90

	t.Run("reassignment clears claim and delegation", func(t *testing.T) {
		f := newFixture(t)
		claimedAt := testNow.Add(-2 * time.Hour)
		delegatedAt := testNow.Add(-time.Hour)
		task := groupTask("T1", "G1")
		task.Status = model.TaskStatusDelegated
		task.ClaimedBy = "U1"
		task.ClaimedTime = &claimedAt
		task.DelegatedTo = "U2"
		task.DelegatedBy = "U1"
		task.DelegationReason = "away"
		task.DelegatedTime = &delegatedAt

		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)
		f.tasks.On("UpdateTask", mock.Anything, task).Return(nil)
		f.engine.On("SetAssignee", mock.Anything, "T1", "U9").Return(nil)

		assigned, err := f.svc.AssignTask(ctx, "admin", "T1", model.AssignTaskReq{
			AssignmentType: model.AssignmentTypeUser, AssignmentTarget: "U9", Priority: &priority,
		})
		require.NoError(t, err)
		assert.Equal(t, model.TaskStatusAssigned, assigned.Status)
		assert.Empty(t, assigned.ClaimedBy)
		assert.Nil(t, assigned.ClaimedTime)
		assert.Empty(t, assigned.DelegatedTo)
		assert.Empty(t, assigned.DelegatedBy)
		assert.Empty(t, assigned.DelegationReason)
		assert.Nil(t, assigned.DelegatedTime)
		assert.Equal(t, 90, assigned.Priority)
		assert.Equal(t, "U9", assigned.CurrentAssignee())
	})

	t.Run("unknown task is created from the engine record", func(t *testing.T) {
		f := newFixture(t)
		f.tasks.On("GetTask", mock.Anything, "T2").Return(nil, nil)
		f.engine.On("GetTask", mock.Anything, "T2").Return(&adapter.EngineTask{
			ID: "T2", Name: "Review contract", ProcessInstanceID: "P1", CreateTime: testNow.Add(-time.Hour),
		}, nil)
		f.tasks.On("CreateTask", mock.Anything, mock.MatchedBy(func(task *model.TaskInfo) bool {
			return task.TaskID == "T2" && task.Version == 1 && task.AssignmentType == model.AssignmentTypeVirtualGroup
		})).Return(nil)
		f.engine.On("SetAssignee", mock.Anything, "T2", "").Return(nil)

		created, err := f.svc.AssignTask(ctx, "admin", "T2", model.AssignTaskReq{
			AssignmentType: model.AssignmentTypeVirtualGroup, AssignmentTarget: "G1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Review contract", created.TaskName)
		assert.Equal(t, "P1", created.ProcessInstanceID)
		assert.Equal(t, model.DefaultPriority, created.Priority)
	})

	t.Run("engine down", func(t *testing.T) {
		f := newFixture(t)
		f.tasks.On("GetTask", mock.Anything, "T3").Return(nil, nil)
		f.engine.On("GetTask", mock.Anything, "T3").Return(nil, adapter.ErrEngine)

		_, err := f.svc.AssignTask(ctx, "admin", "T3", model.AssignTaskReq{
			AssignmentType: model.AssignmentTypeUser, AssignmentTarget: "U1",
		})
		assertBusinessError(t, err, ErrUpstream, model.CodeEngineFailure)
		f.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})

	t.Run("invalid input touches nothing", func(t *testing.T) {
		f := newFixture(t)
		outOfRange := 101

		_, err := f.svc.AssignTask(ctx, "admin", "T1", model.AssignTaskReq{
			AssignmentType: model.AssignmentTypeDeptRole, AssignmentTarget: "B1",
		})
		assertBusinessError(t, err, ErrBadRequest, model.CodeInvalidTarget)

		_, err = f.svc.AssignTask(ctx, "admin", "T1", model.AssignTaskReq{
			AssignmentType: model.AssignmentTypeUser, AssignmentTarget: "U1", Priority: &outOfRange,
		})
		assertBusinessError(t, err, ErrBadRequest, model.CodeInvalidPriority)
		f.tasks.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
	})
}

func TestCompletedTaskIsFrozen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := groupTask("T1", "G1")
	task.ClaimedBy = "U1"
	f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)
	f.tasks.On("UpdateTask", mock.Anything, task).Return(nil)
	f.engine.On("CompleteTask", mock.Anything, "T1").Return(nil)
	f.activeUser("U2")

	_, err := f.svc.CompleteTask(ctx, "U2", "T1")
	assertBusinessError(t, err, ErrForbidden, model.CodeNotAuthorized)

	completed, err := f.svc.CompleteTask(ctx, "U1", "T1")
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, completed.Status)
	assert.Equal(t, "U1", completed.CompletedBy)
	f.engine.AssertCalled(t, "CompleteTask", mock.Anything, "T1")

	_, err = f.svc.DelegateTask(ctx, "U1", "T1", model.DelegateTaskReq{DelegatedTo: "U2"})
	assertBusinessError(t, err, ErrConflict, model.CodeTaskCompleted)

	_, err = f.svc.ClaimTask(ctx, "U2", "T1")
	assertBusinessError(t, err, ErrConflict, model.CodeTaskCompleted)

	_, err = f.svc.AssignTask(ctx, "admin", "T1", model.AssignTaskReq{
		AssignmentType: model.AssignmentTypeUser, AssignmentTarget: "U2",
	})
	assertBusinessError(t, err, ErrConflict, model.CodeTaskCompleted)
	f.tasks.AssertNumberOfCalls(t, "UpdateTask", 1)
}

func TestHandOverValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("delegate to self", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.DelegateTask(ctx, "U1", "T1", model.DelegateTaskReq{DelegatedTo: "U1"})
		assertBusinessError(t, err, ErrBadRequest, model.CodeInvalidDelegate)
	})

	t.Run("inactive delegatee", func(t *testing.T) {
		f := newFixture(t)
		f.directory.On("FindUser", mock.Anything, "U2").Return(&model.User{ID: "U2", Active: false}, nil)
		_, err := f.svc.DelegateTask(ctx, "U1", "T1", model.DelegateTaskReq{DelegatedTo: "U2"})
		assertBusinessError(t, err, ErrBadRequest, model.CodeUserNotActive)
		assert.Equal(t, []string{"U2"}, f.directory.Invalidated)
	})

	t.Run("transfer makes a direct assignment", func(t *testing.T) {
		f := newFixture(t)
		task := groupTask("T1", "G1")
		task.ClaimedBy = "U1"
		f.tasks.On("GetTask", mock.Anything, "T1").Return(task, nil)
		f.tasks.On("UpdateTask", mock.Anything, task).Return(nil)
		f.engine.On("SetAssignee", mock.Anything, "T1", "U2").Return(nil)
		f.activeUser("U2")

		moved, err := f.svc.TransferTask(ctx, "U1", "T1", model.TransferTaskReq{TargetUserID: "U2"})
		require.NoError(t, err)
		assert.Equal(t, model.AssignmentTypeUser, moved.AssignmentType)
		assert.Equal(t, "U2", moved.AssignmentTarget)
		assert.Empty(t, moved.ClaimedBy)
		assert.Equal(t, model.DefaultPriority, moved.Priority)
	})
}

func TestMergeTasksOrder(t *testing.T) {
	base := testNow.Add(-time.Hour)
	a := &model.TaskInfo{TaskID: "a", Priority: 3, CreatedTime: base}
	b := &model.TaskInfo{TaskID: "b", Priority: 1, CreatedTime: base.Add(time.Minute)}
	c := &model.TaskInfo{TaskID: "c", Priority: 3, CreatedTime: base.Add(2 * time.Minute)}

	merged := mergeTasks([]*model.TaskInfo{a, b}, []*model.TaskInfo{c, a})
	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].TaskID)
	assert.Equal(t, "c", merged[1].TaskID)
	assert.Equal(t, "b", merged[2].TaskID)
}

func TestVisibilityFiltersPartition(t *testing.T) {
	filters := visibilityFilters("U1")
	require.Len(t, filters, 3)

	direct, delegated, claimed := filters[0], filters[1], filters[2]
	assert.Equal(t, model.TaskStatusAssigned, direct.Status)
	assert.Equal(t, model.TaskStatusDelegated, delegated.Status)
	assert.Equal(t, model.TaskStatusAssigned, claimed.Status)

	// a task delegated to U1 never matches the ASSIGNED-only direct or claimed sets
	assert.Equal(t, "U1", delegated.DelegatedTo)
	assert.Empty(t, direct.DelegatedTo)
	assert.Empty(t, claimed.DelegatedTo)
}

func TestPoolFiltersSkipDelegatedTasks(t *testing.T) {
	for _, filter := range []model.TaskFilter{
		groupPoolFilter([]string{"G1"}),
		poolFilter(model.AssignmentTypeDeptRole, []string{model.DeptRoleTarget("B1", "R1")}),
	} {
		// a pool task delegated before anyone claimed it is DELEGATED with no claimant
		assert.Equal(t, model.TaskStatusAssigned, filter.Status)
		assert.True(t, filter.UnclaimedOnly)
	}

	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("FindGroupIDsByUser", mock.Anything, "U5").Return([]string{"G1"}, nil)
	f.repo.On("FindUnitIDsByUser", mock.Anything, "U5").Return([]string{}, nil)
	filters := visibilityFilters("U5")
	for _, filter := range filters {
		f.tasks.On("FindTasks", mock.Anything, filter).Return([]*model.TaskInfo{}, nil)
	}
	f.tasks.On("FindTasks", mock.Anything, mock.MatchedBy(func(filter model.TaskFilter) bool {
		return filter.UnclaimedOnly && filter.Status == model.TaskStatusAssigned
	})).Return([]*model.TaskInfo{groupTask("T2", "G1")}, nil)

	tasks, err := f.svc.GetAllVisibleTasks(ctx, "U5")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T2", tasks[0].TaskID)
	f.tasks.AssertNumberOfCalls(t, "FindTasks", 4)
}

func TestGetVisibleTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	base := testNow.Add(-time.Hour)
	direct := &model.TaskInfo{TaskID: "d", Priority: 50, CreatedTime: base}
	delegated := &model.TaskInfo{TaskID: "g", Priority: 80, CreatedTime: base.Add(time.Minute)}

	filters := visibilityFilters("U1")
	f.tasks.On("FindTasks", mock.Anything, filters[0]).Return([]*model.TaskInfo{direct}, nil)
	f.tasks.On("FindTasks", mock.Anything, filters[1]).Return([]*model.TaskInfo{delegated}, nil)
	f.tasks.On("FindTasks", mock.Anything, filters[2]).Return([]*model.TaskInfo{}, nil)

	tasks, err := f.svc.GetVisibleTasks(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "g", tasks[0].TaskID)
	assert.Equal(t, "d", tasks[1].TaskID)
}

func TestCountTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tasks.On("CountTasks", mock.Anything, mock.MatchedBy(func(filter model.TaskFilter) bool {
		return filter.DueBefore == nil
	})).Return(int64(2), nil)
	f.tasks.On("CountTasks", mock.Anything, mock.MatchedBy(func(filter model.TaskFilter) bool {
		return filter.DueBefore != nil && filter.DueBefore.Equal(testNow)
	})).Return(int64(1), nil)

	counts, err := f.svc.CountTasks(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), counts.Todo)
	assert.Equal(t, int64(3), counts.Overdue)
}

func TestGetGroupTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("outsider without task admin", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetVirtualGroup", mock.Anything, "G1").Return(&model.VirtualGroup{ID: "G1"}, nil)
		f.membership.On("IsGroupMember", mock.Anything, "U9", "G1").Return(false, nil)
		f.repo.On("FindGroupIDsByUser", mock.Anything, "U9").Return([]string{}, nil)

		_, err := f.svc.GetGroupTasks(ctx, "U9", "G1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("member sees the unclaimed pool", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetVirtualGroup", mock.Anything, "G1").Return(&model.VirtualGroup{ID: "G1"}, nil)
		f.membership.On("IsGroupMember", mock.Anything, "U1", "G1").Return(true, nil)
		f.tasks.On("FindTasks", mock.Anything, groupPoolFilter([]string{"G1"})).
			Return([]*model.TaskInfo{groupTask("T1", "G1")}, nil)

		tasks, err := f.svc.GetGroupTasks(ctx, "U1", "G1")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "T1", tasks[0].TaskID)
	})
}
