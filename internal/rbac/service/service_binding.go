package service

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/notify"
	"taskrbac/internal/rbac/util"
)

// CreateVirtualGroup registers a group. A SYSTEM group may only receive its
// role here, since its binding is protected afterwards.
func (s *Service) CreateVirtualGroup(ctx context.Context, callerID string, req model.CreateVirtualGroupReq) (*model.VirtualGroup, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	if req.RoleID != "" {
		role, err := s.mustGetRole(ctx, req.RoleID)
		if err != nil {
			return nil, err
		}
		if req.Type != model.VirtualGroupTypeSystem && !role.Type.IsBusinessRole() {
			return nil, badRequest(model.CodeInvalidRoleType, "role_id", role.ID, "type", string(role.Type))
		}
	}

	now := s.now()
	group := &model.VirtualGroup{
		ID:        util.NewID(),
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		CreatedAt: now,
		CreatedBy: callerID,
	}

	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repo.CreateVirtualGroup(ctx, group); err != nil {
			return duplicateAs(err, model.CodeDuplicateGroupCode, "code", group.Code)
		}
		if req.RoleID == "" {
			return nil
		}
		return s.Repo.ReplaceGroupRole(ctx, &model.VirtualGroupRole{
			ID:             util.NewID(),
			VirtualGroupID: group.ID,
			RoleID:         req.RoleID,
			CreatedAt:      now,
			CreatedBy:      callerID,
		})
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("virtual group created", "group_id", group.ID, "code", group.Code, "type", group.Type, "operator", callerID)
	return group, nil
}

func (s *Service) ListVirtualGroups(ctx context.Context) ([]*model.VirtualGroup, error) {
	return s.Repo.FindVirtualGroups(ctx)
}

// BindRole replaces the group's binding in one write; only business roles qualify.
func (s *Service) BindRole(ctx context.Context, callerID, groupID string, req model.BindRoleReq) (*model.VirtualGroupRole, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	group, err := s.mustGetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsSystem() {
		return nil, conflict(model.CodeSystemGroupProtected, "group_id", groupID)
	}

	role, err := s.mustGetRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if !role.Type.IsBusinessRole() {
		return nil, badRequest(model.CodeInvalidRoleType, "role_id", role.ID, "type", string(role.Type))
	}

	binding := &model.VirtualGroupRole{
		ID:             util.NewID(),
		VirtualGroupID: groupID,
		RoleID:         role.ID,
		CreatedAt:      s.now(),
		CreatedBy:      callerID,
	}
	previous, err := s.Repo.GetGroupRole(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.ReplaceGroupRole(ctx, binding); err != nil {
		return nil, err
	}

	logger := util.GetLogger()
	if previous != nil && previous.RoleID != role.ID {
		logger.Infow("replacing virtual group role binding", "group_id", groupID, "old_role_id", previous.RoleID, "role_id", role.ID)
	}
	logger.Infow("role bound to virtual group", "group_id", groupID, "role_id", role.ID, "operator", callerID)

	s.publish(notify.Event{
		Name:      notify.EventRoleBound,
		SubjectID: groupID,
		ActorID:   callerID,
		Data:      map[string]string{"role_id": role.ID},
	})
	return binding, nil
}

func (s *Service) UnbindRole(ctx context.Context, callerID, groupID string) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}

	group, err := s.mustGetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.IsSystem() {
		return conflict(model.CodeSystemGroupProtected, "group_id", groupID)
	}

	binding, err := s.Repo.GetGroupRole(ctx, groupID)
	if err != nil {
		return err
	}
	if binding == nil {
		return conflict(model.CodeNotBound, "target_id", groupID)
	}

	deleted, err := s.Repo.DeleteGroupRole(ctx, groupID)
	if err != nil {
		return err
	}
	if !deleted {
		return conflict(model.CodeNotBound, "target_id", groupID, "role_id", binding.RoleID)
	}

	util.GetLogger().Infow("role unbound from virtual group", "group_id", groupID, "role_id", binding.RoleID, "operator", callerID)
	s.publish(notify.Event{
		Name:      notify.EventRoleUnbound,
		SubjectID: groupID,
		ActorID:   callerID,
		Data:      map[string]string{"role_id": binding.RoleID},
	})
	return nil
}

// GetBoundRole returns nil when the group has no binding. A binding whose
// role has vanished also yields nil.
func (s *Service) GetBoundRole(ctx context.Context, groupID string) (*model.Role, error) {
	if _, err := s.mustGetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	roleID, ok, err := s.GetBoundRoleID(ctx, groupID)
	if err != nil || !ok {
		return nil, err
	}
	return s.Repo.GetRole(ctx, roleID)
}

func (s *Service) GetBoundRoleID(ctx context.Context, groupID string) (string, bool, error) {
	binding, err := s.Repo.GetGroupRole(ctx, groupID)
	if err != nil || binding == nil {
		return "", false, err
	}
	return binding.RoleID, true, nil
}

func (s *Service) HasRole(ctx context.Context, groupID string) (bool, error) {
	_, ok, err := s.GetBoundRoleID(ctx, groupID)
	return ok, err
}

func (s *Service) ListGroupMembers(ctx context.Context, groupID string) ([]*model.VirtualGroupMember, error) {
	if _, err := s.mustGetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.Repo.FindGroupMembers(ctx, groupID)
}
