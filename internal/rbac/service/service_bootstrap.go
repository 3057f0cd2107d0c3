package service

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/util"
)

const (
	bootstrapOperator = "system"
	adminGroupCode    = "SYSTEM_ADMIN"
	adminGroupName    = "System Administrators"
	adminRoleName     = "Administrator"
)

// BootstrapAdmin makes sure the ADMIN role, the SYSTEM admin group bound to
// it and userID's membership exist. Running it again changes nothing.
func (s *Service) BootstrapAdmin(ctx context.Context, userID string) (*model.VirtualGroup, error) {
	if userID == "" {
		return nil, badRequest(model.CodeUserNotFound, "user_id", userID)
	}

	role, err := s.ensureAdminRole(ctx)
	if err != nil {
		return nil, err
	}
	group, err := s.ensureAdminGroup(ctx, role)
	if err != nil {
		return nil, err
	}

	var joined bool
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		joined, err = s.addUserToVirtualGroup(ctx, group.ID, userID, bootstrapOperator, "bootstrap")
		return err
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("admin bootstrap done", "user_id", userID, "group_id", group.ID, "joined", joined)
	return group, nil
}

func (s *Service) ensureAdminRole(ctx context.Context) (*model.Role, error) {
	roles, err := s.Repo.FindRoles(ctx, model.RoleFilter{Type: model.RoleTypeAdmin})
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if r.Code == model.RoleCodeAdmin {
			return r, nil
		}
	}

	now := s.now()
	role := &model.Role{
		ID:        util.NewID(),
		Code:      model.RoleCodeAdmin,
		Name:      adminRoleName,
		Type:      model.RoleTypeAdmin,
		Status:    model.RoleStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: bootstrapOperator,
	}
	if err := s.Repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) ensureAdminGroup(ctx context.Context, role *model.Role) (*model.VirtualGroup, error) {
	groups, err := s.Repo.FindVirtualGroups(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.Code != adminGroupCode {
			continue
		}
		// an earlier run may have stopped between the two writes
		binding, err := s.Repo.GetGroupRole(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		if binding == nil {
			err = s.Repo.ReplaceGroupRole(ctx, &model.VirtualGroupRole{
				ID:             util.NewID(),
				VirtualGroupID: g.ID,
				RoleID:         role.ID,
				CreatedAt:      s.now(),
				CreatedBy:      bootstrapOperator,
			})
		}
		return g, err
	}

	return s.CreateVirtualGroup(ctx, bootstrapOperator, model.CreateVirtualGroupReq{
		Code:   adminGroupCode,
		Name:   adminGroupName,
		Type:   model.VirtualGroupTypeSystem,
		RoleID: role.ID,
	})
}
