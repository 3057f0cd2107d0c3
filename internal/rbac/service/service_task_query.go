package service

import (
	"context"
	"sort"
	"taskrbac/internal/rbac/model"
	"time"

	"golang.org/x/sync/errgroup"
)

// HighPriorityThreshold is the default floor of GetHighPriorityTasks.
const HighPriorityThreshold = 80

// visibilityFilters are the three ways a task can be personally held by
// userID. Each excludes completed tasks, and together they match exactly
// the tasks whose current assignee is userID.
func visibilityFilters(userID string) []model.TaskFilter {
	return []model.TaskFilter{
		// direct
		{AssignmentType: model.AssignmentTypeUser, AssignmentTargets: []string{userID}, Status: model.TaskStatusAssigned},
		// delegated
		{DelegatedTo: userID, Status: model.TaskStatusDelegated},
		// claimed
		{ClaimedBy: userID, Status: model.TaskStatusAssigned},
	}
}

// GetVisibleTasks returns the tasks userID currently holds.
func (s *Service) GetVisibleTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error) {
	return s.findVisible(ctx, userID, nil)
}

// findVisible runs the visibility queries concurrently, narrowing each with
// refine when given, then merges them.
func (s *Service) findVisible(ctx context.Context, userID string, refine func(f *model.TaskFilter)) ([]*model.TaskInfo, error) {
	filters := visibilityFilters(userID)
	if refine != nil {
		for i := range filters {
			refine(&filters[i])
		}
	}
	return s.findMany(ctx, filters)
}

func (s *Service) findMany(ctx context.Context, filters []model.TaskFilter) ([]*model.TaskInfo, error) {
	results := make([][]*model.TaskInfo, len(filters))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range filters {
		g.Go(func() error {
			tasks, err := s.Tasks.FindTasks(gctx, f)
			if err != nil {
				return err
			}
			results[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mergeTasks(results...), nil
}

// mergeTasks de-duplicates by task id and orders by priority descending,
// then creation time ascending. Equal keys keep their input order.
func mergeTasks(sets ...[]*model.TaskInfo) []*model.TaskInfo {
	seen := make(map[string]bool)
	out := make([]*model.TaskInfo, 0)
	for _, set := range sets {
		for _, t := range set {
			if seen[t.TaskID] {
				continue
			}
			seen[t.TaskID] = true
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out
}

func sortTasks(tasks []*model.TaskInfo) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority > tasks[j].Priority
		}
		return tasks[i].CreatedTime.Before(tasks[j].CreatedTime)
	})
}

// GetGroupTasks lists the group's unclaimed pool. Once claimed, a task moves
// to the claimant's personal view. Only members and task admins may look.
// GetGroupTasks lists the group's unclaimed pool. Once claimed, a task moves
// to the claimant's personal view. Only members and task admins may look.
func (s *Service) GetGroupTasks(ctx context.Context, callerID, groupID string) ([]*model.TaskInfo, error) {
	if err := s.requireGroupViewer(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	tasks, err := s.Tasks.FindTasks(ctx, groupPoolFilter([]string{groupID}))
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *Service) requireGroupViewer(ctx context.Context, callerID, groupID string) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetGroup(ctx, groupID); err != nil {
		return err
	}

	member, err := s.Membership.IsGroupMember(ctx, callerID, groupID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}
	admin, err := s.HasPermission(ctx, callerID, model.PermTaskAdmin)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden
	}
	return nil
}

// poolFilter matches pool tasks nobody holds. A delegated pool task has an
// individual owner even without a claimant, so only ASSIGNED tasks qualify.
func poolFilter(assignmentType model.AssignmentType, targets []string) model.TaskFilter {
	return model.TaskFilter{
		AssignmentType:    assignmentType,
		AssignmentTargets: targets,
		UnclaimedOnly:     true,
		Status:            model.TaskStatusAssigned,
	}
}

func groupPoolFilter(groupIDs []string) model.TaskFilter {
	return poolFilter(model.AssignmentTypeVirtualGroup, groupIDs)
}

// GetAllVisibleTasks adds to the personally held tasks the unclaimed pools
// of the user's groups and of every unit:role pair the user qualifies for.
func (s *Service) GetAllVisibleTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error) {
	filters := visibilityFilters(userID)

	groupIDs, err := s.Repo.FindGroupIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) > 0 {
		filters = append(filters, groupPoolFilter(groupIDs))
	}

	targets, err := s.deptRoleTargets(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(targets) > 0 {
		filters = append(filters, poolFilter(model.AssignmentTypeDeptRole, targets))
	}
	return s.findMany(ctx, filters)
}

// deptRoleTargets pairs every unit the user joined with every role the user
// holds, in the "deptId:roleId" form DEPT_ROLE tasks are stored with.
func (s *Service) deptRoleTargets(ctx context.Context, userID string) ([]string, error) {
	unitIDs, err := s.Repo.FindUnitIDsByUser(ctx, userID)
	if err != nil || len(unitIDs) == 0 {
		return nil, err
	}
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil || len(roles) == 0 {
		return nil, err
	}

	targets := make([]string, 0, len(unitIDs)*len(roles))
	for _, unitID := range unitIDs {
		for _, r := range roles {
			targets = append(targets, model.DeptRoleTarget(unitID, r.ID))
		}
	}
	return targets, nil
}

func (s *Service) GetOverdueTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error) {
	now := s.now()
	return s.findVisible(ctx, userID, func(f *model.TaskFilter) {
		f.DueBefore = &now
	})
}

func (s *Service) GetDueSoonTasks(ctx context.Context, userID string, req model.ListTasksReq) ([]*model.TaskInfo, error) {
	hours := req.WithinHours
	if hours <= 0 {
		hours = 24
	}
	now := s.now()
	until := now.Add(time.Duration(hours) * time.Hour)
	return s.findVisible(ctx, userID, func(f *model.TaskFilter) {
		f.DueAfter = &now
		f.DueBefore = &until
	})
}

func (s *Service) GetHighPriorityTasks(ctx context.Context, userID string, req model.ListTasksReq) ([]*model.TaskInfo, error) {
	threshold := HighPriorityThreshold
	if req.MinPriority != nil {
		threshold = *req.MinPriority
	}
	return s.findVisible(ctx, userID, func(f *model.TaskFilter) {
		f.MinPriority = &threshold
	})
}

// CountTasks counts held and overdue tasks. The visibility sets are
// disjoint, so per-set counts add up without double counting.
func (s *Service) CountTasks(ctx context.Context, userID string) (*model.TaskCounts, error) {
	now := s.now()
	filters := visibilityFilters(userID)
	todo := make([]int64, len(filters))
	overdue := make([]int64, len(filters))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range filters {
		g.Go(func() error {
			n, err := s.Tasks.CountTasks(gctx, f)
			todo[i] = n
			return err
		})
		late := f
		late.DueBefore = &now
		g.Go(func() error {
			n, err := s.Tasks.CountTasks(gctx, late)
			overdue[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := &model.TaskCounts{}
	for i := range filters {
		counts.Todo += todo[i]
		counts.Overdue += overdue[i]
	}
	return counts, nil
}
