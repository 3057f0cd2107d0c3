package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/repository"
	"taskrbac/internal/rbac/util"
)

func (s *Service) CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.Role, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	now := s.now()
	role := &model.Role{
		ID:          util.NewID(),
		Code:        req.Code,
		Name:        req.Name,
		Type:        req.Type,
		Status:      model.RoleStatusActive,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   callerID,
		UpdatedBy:   callerID,
	}
	if err := s.Repo.CreateRole(ctx, role); err != nil {
		return nil, duplicateAs(err, model.CodeDuplicateRoleCode, "code", role.Code)
	}

	util.GetLogger().Infow("role created", "role_id", role.ID, "code", role.Code, "type", role.Type, "operator", callerID)
	return role, nil
}

func (s *Service) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	return s.mustGetRole(ctx, roleID)
}

func (s *Service) ListRoles(ctx context.Context, req model.ListRolesReq) ([]*model.Role, error) {
	return s.Repo.FindRoles(ctx, model.RoleFilter{Type: req.Type, Status: req.Status})
}

// UpdateRoleStatus is the only mutation a role accepts; its type never changes.
func (s *Service) UpdateRoleStatus(ctx context.Context, callerID, roleID string, req model.UpdateRoleStatusReq) (*model.Role, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	role, err := s.mustGetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.Status == req.Status {
		return role, nil
	}

	if err := s.Repo.UpdateRoleStatus(ctx, roleID, req.Status, callerID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, notFound(model.CodeRoleNotFound, "role_id", roleID)
		}
		return nil, err
	}

	role.Status = req.Status
	role.UpdatedBy = callerID
	role.UpdatedAt = s.now()
	util.GetLogger().Infow("role status changed", "role_id", roleID, "status", req.Status, "operator", callerID)
	return role, nil
}

// GetUserRoles walks group membership to the bound role of each group, one
// level deep, and keeps active roles only. Unknown users have no roles.
func (s *Service) GetUserRoles(ctx context.Context, userID string) ([]*model.Role, error) {
	groupIDs, err := s.Repo.FindGroupIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []*model.Role{}, nil
	}

	bindings, err := s.Repo.FindGroupRolesByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	roleIDs := make([]string, 0, len(bindings))
	for _, b := range bindings {
		roleIDs = append(roleIDs, b.RoleID)
	}
	roleIDs = uniqueStrings(roleIDs)
	if len(roleIDs) == 0 {
		return []*model.Role{}, nil
	}

	roles, err := s.Repo.FindRolesByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	active := make([]*model.Role, 0, len(roles))
	for _, r := range roles {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Code < active[j].Code })
	return active, nil
}

func (s *Service) userRolesOfType(ctx context.Context, userID string, roleType model.RoleType) ([]*model.Role, error) {
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Role, 0, len(roles))
	for _, r := range roles {
		if r.Type == roleType {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetUserBuBoundedRoles pairs every held BU_BOUNDED role with all units the
// user joined; activation is not scoped to a single unit.
func (s *Service) GetUserBuBoundedRoles(ctx context.Context, userID string) ([]*model.RoleWithUnits, error) {
	roles, err := s.userRolesOfType(ctx, userID, model.RoleTypeBuBounded)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return []*model.RoleWithUnits{}, nil
	}

	unitIDs, err := s.Repo.FindUnitIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	units := []*model.BusinessUnit{}
	if len(unitIDs) > 0 {
		if units, err = s.Repo.FindBusinessUnitsByIDs(ctx, unitIDs); err != nil {
			return nil, err
		}
	}

	out := make([]*model.RoleWithUnits, 0, len(roles))
	for _, r := range roles {
		out = append(out, &model.RoleWithUnits{Role: r, BusinessUnits: units})
	}
	return out, nil
}

func (s *Service) GetUserBuUnboundedRoles(ctx context.Context, userID string) ([]*model.Role, error) {
	return s.userRolesOfType(ctx, userID, model.RoleTypeBuUnbounded)
}

// HasRoleInBusinessUnit ignores the unit for anything but BU_BOUNDED roles.
func (s *Service) HasRoleInBusinessUnit(ctx context.Context, userID, roleID, unitID string) (bool, error) {
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, r := range roles {
		if r.ID != roleID {
			continue
		}
		if r.Type != model.RoleTypeBuBounded {
			return true, nil
		}
		return s.Repo.IsUnitMember(ctx, unitID, userID)
	}
	return false, nil
}

// GetUnactivatedBuBoundedRoles is all or nothing: every held BU_BOUNDED role
// while the user has joined no unit, none after the first join.
func (s *Service) GetUnactivatedBuBoundedRoles(ctx context.Context, userID string) ([]*model.Role, error) {
	roles, err := s.userRolesOfType(ctx, userID, model.RoleTypeBuBounded)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return roles, nil
	}

	count, err := s.Repo.CountUnitsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return []*model.Role{}, nil
	}
	return roles, nil
}

func (s *Service) ShouldShowBuApplicationReminder(ctx context.Context, userID string) (bool, error) {
	roles, err := s.GetUnactivatedBuBoundedRoles(ctx, userID)
	if err != nil || len(roles) == 0 {
		return false, err
	}
	dontRemind, err := s.GetDontRemind(ctx, userID)
	if err != nil {
		return false, err
	}
	return !dontRemind, nil
}

func (s *Service) GetDontRemind(ctx context.Context, userID string) (bool, error) {
	pref, err := s.Repo.GetPreference(ctx, userID, model.PrefDontRemindBuApplication)
	if err != nil || pref == nil {
		return false, err
	}
	v, _ := strconv.ParseBool(pref.Value)
	return v, nil
}

func (s *Service) SetDontRemind(ctx context.Context, userID string, dontRemind bool) error {
	if err := s.validateCaller(userID); err != nil {
		return err
	}
	return s.Repo.SetPreference(ctx, &model.UserPreference{
		UserID:    userID,
		Key:       model.PrefDontRemindBuApplication,
		Value:     strconv.FormatBool(dontRemind),
		UpdatedAt: s.now(),
	})
}

func (s *Service) ResetDontRemind(ctx context.Context, userID string) error {
	if err := s.validateCaller(userID); err != nil {
		return err
	}
	return s.Repo.DeletePreference(ctx, userID, model.PrefDontRemindBuApplication)
}
