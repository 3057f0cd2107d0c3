package service

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/util"
)

// GetUsersByUnitAndRole lists active members of the unit who hold the
// BU_BOUNDED role. Any other role type yields no users.
func (s *Service) GetUsersByUnitAndRole(ctx context.Context, unitID, roleID string) ([]*model.User, error) {
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return nil, err
	}
	role, err := s.mustGetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.Type != model.RoleTypeBuBounded {
		util.GetLogger().Warnw("role is not business-unit bounded", "role_id", roleID, "type", role.Type)
		return []*model.User{}, nil
	}
	return s.unitRoleHolders(ctx, unitID, role)
}

func (s *Service) unitRoleHolders(ctx context.Context, unitID string, role *model.Role) ([]*model.User, error) {
	holders, err := s.roleHolderIDs(ctx, role)
	if err != nil || len(holders) == 0 {
		return []*model.User{}, err
	}

	members, err := s.Repo.FindUnitMembers(ctx, unitID)
	if err != nil {
		return nil, err
	}
	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
	}
	return s.activeUsers(ctx, intersect(holders, memberIDs))
}

// GetUsersByUnboundedRole lists active members of every group bound to the
// BU_UNBOUNDED role.
func (s *Service) GetUsersByUnboundedRole(ctx context.Context, roleID string) ([]*model.User, error) {
	role, err := s.mustGetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.Type != model.RoleTypeBuUnbounded {
		util.GetLogger().Warnw("role is not business-unit unbounded", "role_id", roleID, "type", role.Type)
		return []*model.User{}, nil
	}

	holders, err := s.roleHolderIDs(ctx, role)
	if err != nil {
		return nil, err
	}
	return s.activeUsers(ctx, holders)
}

// GetParentUnitID returns "" for a top-level unit.
func (s *Service) GetParentUnitID(ctx context.Context, unitID string) (string, error) {
	unit, err := s.mustGetUnit(ctx, unitID)
	if err != nil {
		return "", err
	}
	return unit.ParentID, nil
}

// GetCandidates resolves who may receive a unit:role assignment. When the
// unit yields nobody the parent unit is tried, one level only.
func (s *Service) GetCandidates(ctx context.Context, unitID, roleID string) ([]*model.User, error) {
	unit, err := s.mustGetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	role, err := s.mustGetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	switch role.Type {
	case model.RoleTypeBuUnbounded:
		return s.GetUsersByUnboundedRole(ctx, roleID)
	case model.RoleTypeBuBounded:
	default:
		return []*model.User{}, nil
	}

	users, err := s.eligibleHolders(ctx, unit.ID, role)
	if err != nil || len(users) > 0 || unit.ParentID == "" {
		return users, err
	}

	util.GetLogger().Debugw("no candidates in unit, trying parent", "unit_id", unit.ID, "parent_id", unit.ParentID, "role_id", roleID)
	return s.eligibleHolders(ctx, unit.ParentID, role)
}

func (s *Service) eligibleHolders(ctx context.Context, unitID string, role *model.Role) ([]*model.User, error) {
	eligible, err := s.Repo.IsUnitRole(ctx, unitID, role.ID)
	if err != nil || !eligible {
		return []*model.User{}, err
	}
	return s.unitRoleHolders(ctx, unitID, role)
}

// roleHolderIDs returns members of the groups bound to an active role.
func (s *Service) roleHolderIDs(ctx context.Context, role *model.Role) ([]string, error) {
	if !role.IsActive() {
		return nil, nil
	}
	groupIDs, err := s.Repo.FindGroupIDsByRole(ctx, role.ID)
	if err != nil || len(groupIDs) == 0 {
		return nil, err
	}
	userIDs, err := s.Repo.FindUserIDsByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return uniqueStrings(userIDs), nil
}

func (s *Service) activeUsers(ctx context.Context, userIDs []string) ([]*model.User, error) {
	if len(userIDs) == 0 {
		return []*model.User{}, nil
	}
	users, err := s.Directory.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}
