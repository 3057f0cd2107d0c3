package service

import (
	"context"
	"sort"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/util"
)

func (s *Service) ListPermissions() []string {
	return s.Policy.AllPermissions()
}

func isAdminRole(r *model.Role) bool {
	return r.Code == model.RoleCodeAdmin || r.Type == model.RoleTypeAdmin
}

// GetUserPermissions unions the permissions of the user's developer roles.
// A stored override replaces a role's defaults; an admin role holds all.
func (s *Service) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	var devRoles []*model.Role
	for _, r := range roles {
		if isAdminRole(r) {
			return s.Policy.AllPermissions(), nil
		}
		if r.Type == model.RoleTypeDeveloper {
			devRoles = append(devRoles, r)
		}
	}
	if len(devRoles) == 0 {
		return []string{}, nil
	}

	overrides, err := s.rolePermissionOverrides(ctx, devRoles)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	for _, r := range devRoles {
		perms, ok := overrides[r.ID]
		if !ok {
			perms = s.Policy.DefaultPermissions(r.Code)
		}
		for _, p := range s.Policy.Expand(perms) {
			set[p] = true
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Service) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.Policy.Grants(perms, permission), nil
}

func (s *Service) GetRolePermissions(ctx context.Context, roleID string) ([]string, error) {
	role, err := s.mustGetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if isAdminRole(role) {
		return s.Policy.AllPermissions(), nil
	}

	overrides, err := s.rolePermissionOverrides(ctx, []*model.Role{role})
	if err != nil {
		return nil, err
	}
	if perms, ok := overrides[role.ID]; ok {
		return s.Policy.Expand(perms), nil
	}
	if perms := s.Policy.DefaultPermissions(role.Code); perms != nil {
		return perms, nil
	}
	return []string{}, nil
}

// AssignRolePermissions stores an override; the embedded defaults stay untouched.
func (s *Service) AssignRolePermissions(ctx context.Context, callerID, roleID string, req model.AssignRolePermissionsReq) ([]string, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}
	if _, err := s.mustGetRole(ctx, roleID); err != nil {
		return nil, err
	}

	perms := append([]string(nil), req.Permissions...)
	for _, p := range perms {
		if p != model.PermAll && !s.Policy.IsKnownPermission(p) {
			return nil, badRequest(model.CodeUnknownPermission, "permission", p)
		}
	}
	sort.Strings(perms)

	err := s.Repo.SetRolePermissions(ctx, &model.RolePermissions{
		RoleID:      roleID,
		Permissions: perms,
		UpdatedAt:   s.now(),
		UpdatedBy:   callerID,
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("role permissions replaced", "role_id", roleID, "count", len(perms), "operator", callerID)
	return perms, nil
}

func (s *Service) rolePermissionOverrides(ctx context.Context, roles []*model.Role) (map[string][]string, error) {
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	stored, err := s.Repo.FindRolePermissions(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(stored))
	for _, rp := range stored {
		out[rp.RoleID] = rp.Permissions
	}
	return out, nil
}
