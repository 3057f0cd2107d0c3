package service

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/notify"
	"taskrbac/internal/rbac/repository"
	"taskrbac/internal/rbac/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (s *Service) startTaskSpan(ctx context.Context, op, taskID, userID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "task."+op, trace.WithAttributes(
		attribute.String("task.id", taskID),
		attribute.String("user.id", userID),
	))
}

func (s *Service) finishTaskOp(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	s.Metrics.TaskOperation(op, err)
}

// AssignTask starts a fresh assignment cycle. A task unknown locally is
// created from the engine's record.
func (s *Service) AssignTask(ctx context.Context, callerID, taskID string, req model.AssignTaskReq) (task *model.TaskInfo, err error) {
	ctx, span := s.startTaskSpan(ctx, "assign", taskID, callerID)
	defer func() { s.finishTaskOp(span, "assign", err) }()

	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}
	priority := req.PriorityOrDefault()
	if detail := model.ValidateAssignment(req.AssignmentType, req.AssignmentTarget, priority); detail != nil {
		return nil, invalid(detail)
	}

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		now := s.now()
		existing, err := s.Tasks.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		var from, fromGroup string
		if existing == nil {
			created, err := s.taskFromEngine(ctx, taskID, callerID)
			if err != nil {
				return err
			}
			created.Assign(req.AssignmentType, req.AssignmentTarget, priority, req.DueDate, callerID, now)
			if err := s.Tasks.CreateTask(ctx, created); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return versionConflict(taskID)
				}
				return err
			}
			task = created
		} else {
			if existing.IsCompleted() {
				return conflict(model.CodeTaskCompleted, "task_id", taskID)
			}
			from, fromGroup = existing.CurrentAssignee(), poolGroup(existing)
			existing.Assign(req.AssignmentType, req.AssignmentTarget, priority, req.DueDate, callerID, now)
			if err := s.updateTask(ctx, existing); err != nil {
				return err
			}
			task = existing
		}
		if err := s.recordTask(ctx, model.TaskActionAssigned, task, from, fromGroup, callerID); err != nil {
			return err
		}
		return s.syncAssignee(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("task assigned",
		"task_id", taskID, "assignment_type", task.AssignmentType, "target", task.AssignmentTarget,
		"priority", task.Priority, "operator", callerID)
	s.publishTask(notify.EventTaskAssigned, task, callerID)
	return task, nil
}

func (s *Service) taskFromEngine(ctx context.Context, taskID, callerID string) (*model.TaskInfo, error) {
	engineTask, err := s.Engine.GetTask(ctx, taskID)
	if err != nil {
		return nil, upstream(err)
	}
	if engineTask == nil {
		return nil, notFound(model.CodeTaskNotFound, "task_id", taskID)
	}

	now := s.now()
	created := engineTask.CreateTime
	if created.IsZero() {
		created = now
	}
	return &model.TaskInfo{
		ID:                  util.NewID(),
		TaskID:              engineTask.ID,
		ProcessInstanceID:   engineTask.ProcessInstanceID,
		ProcessDefinitionID: engineTask.ProcessDefinitionID,
		TaskName:            engineTask.Name,
		DueDate:             engineTask.DueDate,
		CreatedTime:         created,
		CreatedBy:           callerID,
		Version:             1,
	}, nil
}

// ClaimTask gives an unclaimed pool task to an eligible member. Assignment
// type and target stay as they were.
func (s *Service) ClaimTask(ctx context.Context, callerID, taskID string) (task *model.TaskInfo, err error) {
	ctx, span := s.startTaskSpan(ctx, "claim", taskID, callerID)
	defer func() { s.finishTaskOp(span, "claim", err) }()

	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	task, err = s.mutateTask(ctx, callerID, taskID, model.TaskActionClaimed, func(ctx context.Context, t *model.TaskInfo) error {
		if !t.AssignmentType.IsPool() {
			return conflict(model.CodeTaskNotClaimable, "task_id", taskID)
		}
		if t.IsClaimed() || t.IsDelegated() {
			return conflict(model.CodeTaskAlreadyClaimed, "task_id", taskID)
		}
		eligible, err := s.isEligible(ctx, t, callerID)
		if err != nil {
			return err
		}
		if !eligible {
			return forbidden(model.CodeNotGroupMember, "user_id", callerID, "task_id", taskID)
		}
		t.Claim(callerID, s.now())
		return nil
	}, s.syncAssignee)
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("task claimed", "task_id", taskID, "user_id", callerID)
	s.publishTask(notify.EventTaskClaimed, task, callerID)
	return task, nil
}

// UnclaimTask returns a claimed task to its pool.
func (s *Service) UnclaimTask(ctx context.Context, callerID, taskID string) (task *model.TaskInfo, err error) {
	ctx, span := s.startTaskSpan(ctx, "unclaim", taskID, callerID)
	defer func() { s.finishTaskOp(span, "unclaim", err) }()

	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	task, err = s.mutateTask(ctx, callerID, taskID, model.TaskActionUnclaimed, func(ctx context.Context, t *model.TaskInfo) error {
		if !t.IsClaimed() {
			return conflict(model.CodeTaskNotClaimed, "task_id", taskID)
		}
		if t.ClaimedBy != callerID {
			return forbidden(model.CodeNotClaimant, "task_id", taskID)
		}
		if t.IsDelegated() {
			return forbidden(model.CodeNotAuthorized, "user_id", callerID, "task_id", taskID)
		}
		t.Unclaim(callerID, s.now())
		return nil
	}, s.syncAssignee)
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("task unclaimed", "task_id", taskID, "user_id", callerID)
	s.publishTask(notify.EventTaskUnclaimed, task, callerID)
	return task, nil
}

// DelegateTask hands the task to another active user. Only the current
// assignee may delegate, which allows chains through successive delegatees.
func (s *Service) DelegateTask(ctx context.Context, callerID, taskID string, req model.DelegateTaskReq) (task *model.TaskInfo, err error) {
	ctx, span := s.startTaskSpan(ctx, "delegate", taskID, callerID)
	defer func() { s.finishTaskOp(span, "delegate", err) }()

	if err := s.validateHandOver(ctx, callerID, req.DelegatedTo); err != nil {
		return nil, err
	}

	task, err = s.mutateTask(ctx, callerID, taskID, model.TaskActionDelegated, func(ctx context.Context, t *model.TaskInfo) error {
		if err := s.requireDelegator(ctx, t, callerID, req.DelegatedTo); err != nil {
			return err
		}
		t.Delegate(req.DelegatedTo, callerID, req.Reason, s.now())
		return nil
	}, s.syncAssignee)
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("task delegated", "task_id", taskID, "from", callerID, "to", req.DelegatedTo)
	s.publishTask(notify.EventTaskDelegated, task, callerID)
	return task, nil
}

// TransferTask turns the task into a direct assignment of another user,
// dropping claim and delegation.
func (s *Service) TransferTask(ctx context.Context, callerID, taskID string, req model.TransferTaskReq) (task *model.TaskInfo, err error) {
	ctx, span := s.startTaskSpan(ctx, "transfer", taskID, callerID)
	defer func() { s.finishTaskOp(span, "transfer", err) }()

	if err := s.validateHandOver(ctx, callerID, req.TargetUserID); err != nil {
		return nil, err
	}

	task, err = s.mutateTask(ctx, callerID, taskID, model.TaskActionTransferred, func(ctx context.Context, t *model.TaskInfo) error {
		if err := s.requireDelegator(ctx, t, callerID, req.TargetUserID); err != nil {
			return err
		}
		t.Assign(model.AssignmentTypeUser, req.TargetUserID, t.Priority, nil, callerID, s.now())
		return nil
	}, s.syncAssignee)
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("task transferred", "task_id", taskID, "from", callerID, "to", req.TargetUserID)
	s.publishTask(notify.EventTaskTransferred, task, callerID)
	return task, nil
}

// CompleteTask is open to the current assignee, or to any eligible member
// while a pool task has no individual owner.
func (s *Service) CompleteTask(ctx context.Context, callerID, taskID string) (task *model.TaskInfo, err error) {
	ctx, span := s.startTaskSpan(ctx, "complete", taskID, callerID)
	defer func() { s.finishTaskOp(span, "complete", err) }()

	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	task, err = s.mutateTask(ctx, callerID, taskID, model.TaskActionCompleted, func(ctx context.Context, t *model.TaskInfo) error {
		assignee := t.CurrentAssignee()
		if assignee != "" && assignee != callerID {
			return forbidden(model.CodeNotAuthorized, "user_id", callerID, "task_id", taskID)
		}
		if assignee == "" {
			eligible, err := s.isEligible(ctx, t, callerID)
			if err != nil {
				return err
			}
			if !eligible {
				return forbidden(model.CodeNotGroupMember, "user_id", callerID, "task_id", taskID)
			}
		}
		t.Complete(callerID, s.now())
		return nil
	}, func(ctx context.Context, t *model.TaskInfo) error {
		if err := s.Engine.CompleteTask(ctx, t.TaskID); err != nil {
			return upstream(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("task completed", "task_id", taskID, "user_id", callerID)
	s.publishTask(notify.EventTaskCompleted, task, callerID)
	return task, nil
}

func (s *Service) GetTask(ctx context.Context, taskID string) (*model.TaskInfo, error) {
	return s.mustGetTask(ctx, taskID)
}

// GetVisibleTask returns the task when CanSeeTask lets the caller read it.
func (s *Service) GetVisibleTask(ctx context.Context, callerID, taskID string) (*model.TaskInfo, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}
	task, err := s.mustGetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanSeeTask(ctx, task, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden(model.CodeNotAuthorized, "user_id", callerID, "task_id", taskID)
	}
	return task, nil
}

// CanSeeTask admits the people a task has passed through, members of its
// pool and task admins.
func (s *Service) CanSeeTask(ctx context.Context, task *model.TaskInfo, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	for _, holder := range []string{task.CurrentAssignee(), task.ClaimedBy, task.DelegatedBy, task.CompletedBy} {
		if holder == userID {
			return true, nil
		}
	}
	if task.AssignmentType == model.AssignmentTypeUser && task.AssignmentTarget == userID {
		return true, nil
	}
	eligible, err := s.isEligible(ctx, task, userID)
	if err != nil || eligible {
		return eligible, err
	}
	return s.HasPermission(ctx, userID, model.PermTaskAdmin)
}

// GetTaskHistory returns the task's trail, newest first, to anyone who can
// see the task.
func (s *Service) GetTaskHistory(ctx context.Context, callerID, taskID string) ([]*model.TaskHistory, error) {
	if _, err := s.GetVisibleTask(ctx, callerID, taskID); err != nil {
		return nil, err
	}
	return s.History.FindTaskHistory(ctx, taskID)
}

// GetGroupTaskHistory returns the trail of every task routed through the
// group. Members and task admins may look.
func (s *Service) GetGroupTaskHistory(ctx context.Context, callerID, groupID string) ([]*model.TaskHistory, error) {
	if err := s.requireGroupViewer(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	return s.History.FindGroupTaskHistory(ctx, groupID)
}

// CanDelegate reports whether userID is the task's current holder, or an
// eligible member of an unclaimed pool task.
func (s *Service) CanDelegate(ctx context.Context, task *model.TaskInfo, userID string) (bool, error) {
	switch {
	case task.IsCompleted():
		return false, nil
	case task.IsDelegated():
		return userID == task.DelegatedTo, nil
	case task.IsClaimed():
		return userID == task.ClaimedBy, nil
	case task.AssignmentType == model.AssignmentTypeUser:
		return userID == task.AssignmentTarget, nil
	}
	return s.isEligible(ctx, task, userID)
}

func (s *Service) validateHandOver(ctx context.Context, callerID, to string) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if to == "" || to == callerID {
		return badRequest(model.CodeInvalidDelegate)
	}
	_, err := s.requireActiveUser(ctx, to)
	return err
}

func (s *Service) requireDelegator(ctx context.Context, task *model.TaskInfo, callerID, to string) error {
	ok, err := s.CanDelegate(ctx, task, callerID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden(model.CodeNotAuthorized, "user_id", callerID, "task_id", task.TaskID)
	}
	if to == task.CurrentAssignee() {
		return badRequest(model.CodeInvalidDelegate)
	}
	return nil
}

// isEligible asks the membership checker whether userID belongs to the
// task's group or holds its department role.
func (s *Service) isEligible(ctx context.Context, task *model.TaskInfo, userID string) (bool, error) {
	switch task.AssignmentType {
	case model.AssignmentTypeVirtualGroup:
		return s.Membership.IsGroupMember(ctx, userID, task.AssignmentTarget)
	case model.AssignmentTypeDeptRole:
		deptID, roleID, ok := model.ParseDeptRoleTarget(task.AssignmentTarget)
		if !ok {
			return false, nil
		}
		return s.Membership.IsDeptRoleMember(ctx, userID, deptID, roleID)
	}
	return false, nil
}

func (s *Service) mustGetTask(ctx context.Context, taskID string) (*model.TaskInfo, error) {
	task, err := s.Tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFound(model.CodeTaskNotFound, "task_id", taskID)
	}
	return task, nil
}

// mutateTask loads the task, applies change and writes it back under the
// version it was read with, then appends the trail entry; after runs last,
// inside the same transaction.
func (s *Service) mutateTask(ctx context.Context, callerID, taskID string, action model.TaskAction,
	change func(ctx context.Context, task *model.TaskInfo) error,
	after func(ctx context.Context, task *model.TaskInfo) error,
) (*model.TaskInfo, error) {
	var task *model.TaskInfo
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		t, err := s.mustGetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if t.IsCompleted() {
			return conflict(model.CodeTaskCompleted, "task_id", taskID)
		}
		from, fromGroup := t.CurrentAssignee(), poolGroup(t)
		if err := change(ctx, t); err != nil {
			return err
		}
		if err := s.updateTask(ctx, t); err != nil {
			return err
		}
		if err := s.recordTask(ctx, action, t, from, fromGroup, callerID); err != nil {
			return err
		}
		task = t
		return after(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// poolGroup returns the virtual group a task is routed to, or "".
func poolGroup(task *model.TaskInfo) string {
	if task.AssignmentType == model.AssignmentTypeVirtualGroup {
		return task.AssignmentTarget
	}
	return ""
}

// recordTask appends the trail entry for an action that moved the task away
// from the previous holder. A task leaving a group keeps the group id so the
// group's trail shows the hand-over.
func (s *Service) recordTask(ctx context.Context, action model.TaskAction, task *model.TaskInfo, from, fromGroup, operatorID string) error {
	entry := &model.TaskHistory{
		ID:               util.NewID(),
		TaskID:           task.TaskID,
		GroupID:          poolGroup(task),
		Action:           action,
		AssignmentType:   task.AssignmentType,
		AssignmentTarget: task.AssignmentTarget,
		FromUserID:       from,
		OperatorID:       operatorID,
		CreatedAt:        s.now(),
	}
	if entry.GroupID == "" {
		entry.GroupID = fromGroup
	}
	switch action {
	case model.TaskActionCompleted:
	case model.TaskActionDelegated:
		entry.ToUserID = task.DelegatedTo
		entry.Reason = task.DelegationReason
	default:
		entry.ToUserID = task.CurrentAssignee()
	}
	return s.History.AppendTaskHistory(ctx, entry)
}

func (s *Service) updateTask(ctx context.Context, task *model.TaskInfo) error {
	if err := s.Tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return versionConflict(task.TaskID)
		}
		return err
	}
	return nil
}

// syncAssignee mirrors the current assignee into the engine; pool tasks
// nobody holds clear it.
func (s *Service) syncAssignee(ctx context.Context, task *model.TaskInfo) error {
	if err := s.Engine.SetAssignee(ctx, task.TaskID, task.CurrentAssignee()); err != nil {
		util.GetLogger().Warnw("failed to sync engine assignee", "task_id", task.TaskID, "error", err)
		if errors.Is(err, adapter.ErrEngine) {
			return upstream(err)
		}
		return err
	}
	return nil
}

func (s *Service) publishTask(name string, task *model.TaskInfo, actorID string) {
	var recipients []string
	if assignee := task.CurrentAssignee(); assignee != "" && assignee != actorID {
		recipients = []string{assignee}
	}
	s.publish(notify.Event{
		Name:       name,
		SubjectID:  task.TaskID,
		ActorID:    actorID,
		Recipients: recipients,
		Data: map[string]string{
			"assignment_type":   string(task.AssignmentType),
			"assignment_target": task.AssignmentTarget,
			"status":            string(task.Status),
		},
	})
}
