package service

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/util"
)

func (s *Service) CreateBusinessUnit(ctx context.Context, callerID string, req model.CreateBusinessUnitReq) (*model.BusinessUnit, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}
	if req.ParentID != "" {
		if _, err := s.mustGetUnit(ctx, req.ParentID); err != nil {
			return nil, err
		}
	}

	unit := &model.BusinessUnit{
		ID:        util.NewID(),
		Code:      req.Code,
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedAt: s.now(),
		CreatedBy: callerID,
	}
	if err := s.Repo.CreateBusinessUnit(ctx, unit); err != nil {
		return nil, duplicateAs(err, model.CodeDuplicateUnitCode, "code", unit.Code)
	}

	util.GetLogger().Infow("business unit created", "unit_id", unit.ID, "code", unit.Code, "parent_id", unit.ParentID, "operator", callerID)
	return unit, nil
}

func (s *Service) ListBusinessUnits(ctx context.Context) ([]*model.BusinessUnit, error) {
	return s.Repo.FindBusinessUnits(ctx)
}

// AddUnitMember adds a member directly; unlike approval replay an existing
// membership is an error here.
func (s *Service) AddUnitMember(ctx context.Context, callerID, unitID string, req model.AddUnitMemberReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return err
	}
	if _, err := s.requireActiveUser(ctx, req.UserID); err != nil {
		return err
	}

	var joined bool
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		joined, err = s.addUserToBusinessUnit(ctx, unitID, req.UserID, callerID, req.Reason)
		return err
	})
	if err != nil {
		return err
	}
	if !joined {
		return conflict(model.CodeAlreadyMember, "user_id", req.UserID, "target_id", unitID)
	}
	s.publishJoin(model.TargetTypeBusinessUnit, unitID, req.UserID, callerID)
	return nil
}

// RemoveUnitMember removes a member directly, without the approver check.
func (s *Service) RemoveUnitMember(ctx context.Context, callerID, unitID, userID string, req model.MemberReasonReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return err
	}
	return s.leaveUnit(ctx, unitID, userID, callerID, model.ChangeTypeRemoved, req.Reason)
}

func (s *Service) ListUnitMembers(ctx context.Context, unitID string) ([]*model.UserBusinessUnit, error) {
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return nil, err
	}
	return s.Repo.FindUnitMembers(ctx, unitID)
}

func (s *Service) IsUnitMember(ctx context.Context, unitID, userID string) (bool, error) {
	return s.Repo.IsUnitMember(ctx, unitID, userID)
}

func (s *Service) CountUnitMembers(ctx context.Context, unitID string) (int64, error) {
	return s.Repo.CountUnitMembers(ctx, unitID)
}

func (s *Service) CountUserUnits(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnitsByUser(ctx, userID)
}

// BindUnitRole makes a business role eligible for task routing in the unit.
// It grants nobody the role.
func (s *Service) BindUnitRole(ctx context.Context, callerID, unitID string, req model.BindRoleReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return err
	}
	role, err := s.mustGetRole(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if !role.Type.IsBusinessRole() {
		return badRequest(model.CodeInvalidRoleType, "role_id", role.ID, "type", string(role.Type))
	}

	bound, err := s.Repo.IsUnitRole(ctx, unitID, role.ID)
	if err != nil {
		return err
	}
	if bound {
		return conflict(model.CodeAlreadyBound, "role_id", role.ID, "target_id", unitID)
	}

	err = s.Repo.AddUnitRole(ctx, &model.BusinessUnitRole{
		ID:             util.NewID(),
		BusinessUnitID: unitID,
		RoleID:         role.ID,
		CreatedAt:      s.now(),
		CreatedBy:      callerID,
	})
	if err != nil {
		return duplicateAs(err, model.CodeAlreadyBound, "role_id", role.ID, "target_id", unitID)
	}

	util.GetLogger().Infow("role made eligible in business unit", "unit_id", unitID, "role_id", role.ID, "operator", callerID)
	return nil
}

func (s *Service) UnbindUnitRole(ctx context.Context, callerID, unitID, roleID string) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return err
	}

	removed, err := s.Repo.RemoveUnitRole(ctx, unitID, roleID)
	if err != nil {
		return err
	}
	if !removed {
		return conflict(model.CodeNotBound, "target_id", unitID, "role_id", roleID)
	}

	util.GetLogger().Infow("role no longer eligible in business unit", "unit_id", unitID, "role_id", roleID, "operator", callerID)
	return nil
}

func (s *Service) ListUnitRoleIDs(ctx context.Context, unitID string) ([]string, error) {
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return nil, err
	}
	return s.Repo.FindUnitRoleIDs(ctx, unitID)
}

func (s *Service) IsUnitRoleEligible(ctx context.Context, unitID, roleID string) (bool, error) {
	return s.Repo.IsUnitRole(ctx, unitID, roleID)
}
