package service

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/notify"
	"taskrbac/internal/rbac/repository"
	"taskrbac/internal/rbac/util"
)

// ProcessApprovedRequest realizes the membership an approved request grants.
// Replaying it for an existing membership is a no-op.
func (s *Service) ProcessApprovedRequest(ctx context.Context, request *model.PermissionRequest) error {
	if request == nil {
		return badRequest(model.CodeBadRequest, "detail", "request is required")
	}
	if request.Status != model.RequestStatusApproved {
		return invalidStatus(request)
	}

	var joined bool
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		joined, err = s.grant(ctx, request, request.ApproverID)
		return err
	})
	if err != nil {
		return err
	}
	if joined {
		s.publishJoin(request.TargetType(), request.TargetID, request.ApplicantID, request.ApproverID)
	}
	return nil
}

func (s *Service) grant(ctx context.Context, request *model.PermissionRequest, operatorID string) (bool, error) {
	if request.TargetType() == model.TargetTypeVirtualGroup {
		return s.addUserToVirtualGroup(ctx, request.TargetID, request.ApplicantID, operatorID, request.Reason)
	}
	return s.addUserToBusinessUnit(ctx, request.TargetID, request.ApplicantID, operatorID, request.Reason)
}

// addUserToVirtualGroup reports false when the user already was a member.
func (s *Service) addUserToVirtualGroup(ctx context.Context, groupID, userID, operatorID, reason string) (bool, error) {
	logger := util.GetLogger()

	member, err := s.Repo.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	if member {
		logger.Infow("user already in virtual group, skipping", "group_id", groupID, "user_id", userID)
		return false, nil
	}

	err = s.Repo.AddGroupMember(ctx, &model.VirtualGroupMember{
		ID:             util.NewID(),
		VirtualGroupID: groupID,
		UserID:         userID,
		JoinedAt:       s.now(),
		AddedBy:        operatorID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent join won; the replay sees the membership
		logger.Infow("concurrent join to virtual group, replaying", "group_id", groupID, "user_id", userID)
		return false, repository.Transient(err)
	}
	if err != nil {
		return false, err
	}

	roleIDs, err := s.groupRoleIDs(ctx, groupID)
	if err != nil {
		return false, err
	}
	if err := s.appendChangeLog(ctx, repository.HistoryEntry{
		ChangeType: model.ChangeTypeJoin,
		TargetType: model.TargetTypeVirtualGroup,
		TargetID:   groupID,
		UserID:     userID,
		RoleIDs:    roleIDs,
		OperatorID: operatorID,
		Reason:     reason,
	}); err != nil {
		return false, err
	}

	logger.Infow("user joined virtual group", "group_id", groupID, "user_id", userID, "operator", operatorID)
	return true, nil
}

// addUserToBusinessUnit reports false when the user already was a member.
func (s *Service) addUserToBusinessUnit(ctx context.Context, unitID, userID, operatorID, reason string) (bool, error) {
	logger := util.GetLogger()

	member, err := s.Repo.IsUnitMember(ctx, unitID, userID)
	if err != nil {
		return false, err
	}
	if member {
		logger.Infow("user already in business unit, skipping", "unit_id", unitID, "user_id", userID)
		return false, nil
	}

	err = s.Repo.AddUnitMember(ctx, &model.UserBusinessUnit{
		ID:             util.NewID(),
		UserID:         userID,
		BusinessUnitID: unitID,
		JoinedAt:       s.now(),
		AddedBy:        operatorID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent join won; the replay sees the membership
		logger.Infow("concurrent join to business unit, replaying", "unit_id", unitID, "user_id", userID)
		return false, repository.Transient(err)
	}
	if err != nil {
		return false, err
	}

	// the BU_BOUNDED roles this membership activates
	bounded, err := s.userRolesOfType(ctx, userID, model.RoleTypeBuBounded)
	if err != nil {
		return false, err
	}
	if err := s.appendChangeLog(ctx, repository.HistoryEntry{
		ChangeType: model.ChangeTypeJoin,
		TargetType: model.TargetTypeBusinessUnit,
		TargetID:   unitID,
		UserID:     userID,
		RoleIDs:    roleIDsOf(bounded),
		OperatorID: operatorID,
		Reason:     reason,
	}); err != nil {
		return false, err
	}

	logger.Infow("user joined business unit", "unit_id", unitID, "user_id", userID, "operator", operatorID)
	return true, nil
}

// AddGroupMember adds a user to a group directly, without a request.
func (s *Service) AddGroupMember(ctx context.Context, callerID, groupID string, req model.AddUnitMemberReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.requireActiveUser(ctx, req.UserID); err != nil {
		return err
	}

	var joined bool
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		joined, err = s.addUserToVirtualGroup(ctx, groupID, req.UserID, callerID, req.Reason)
		return err
	})
	if err != nil {
		return err
	}
	if !joined {
		return conflict(model.CodeAlreadyMember, "user_id", req.UserID, "target_id", groupID)
	}
	s.publishJoin(model.TargetTypeVirtualGroup, groupID, req.UserID, callerID)
	return nil
}

// RemoveGroupMember is approver-initiated removal from a virtual group.
func (s *Service) RemoveGroupMember(ctx context.Context, callerID, groupID, userID string, req model.MemberReasonReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.requireApprover(ctx, model.TargetTypeVirtualGroup, groupID, callerID); err != nil {
		return err
	}
	return s.leaveGroup(ctx, groupID, userID, callerID, model.ChangeTypeRemoved, req.Reason)
}

// RemoveBusinessUnitMember is approver-initiated removal from a business unit.
func (s *Service) RemoveBusinessUnitMember(ctx context.Context, callerID, unitID, userID string, req model.MemberReasonReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return err
	}
	if err := s.requireApprover(ctx, model.TargetTypeBusinessUnit, unitID, callerID); err != nil {
		return err
	}
	return s.leaveUnit(ctx, unitID, userID, callerID, model.ChangeTypeRemoved, req.Reason)
}

// ExitVirtualGroup needs no approver; a user may always leave.
func (s *Service) ExitVirtualGroup(ctx context.Context, callerID, groupID string, req model.MemberReasonReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetGroup(ctx, groupID); err != nil {
		return err
	}
	return s.leaveGroup(ctx, groupID, callerID, callerID, model.ChangeTypeExit, req.Reason)
}

func (s *Service) ExitBusinessUnit(ctx context.Context, callerID, unitID string, req model.MemberReasonReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if _, err := s.mustGetUnit(ctx, unitID); err != nil {
		return err
	}
	return s.leaveUnit(ctx, unitID, callerID, callerID, model.ChangeTypeExit, req.Reason)
}

func (s *Service) requireApprover(ctx context.Context, targetType model.TargetType, targetID, userID string) error {
	ok, err := s.Repo.IsApprover(ctx, targetType, targetID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden(model.CodeNotApprover, "user_id", userID, "target_id", targetID)
	}
	return nil
}

func (s *Service) leaveGroup(ctx context.Context, groupID, userID, operatorID string, changeType model.ChangeType, reason string) error {
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		removed, err := s.Repo.RemoveGroupMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return conflict(model.CodeNotMember, "user_id", userID, "target_id", groupID)
		}

		roleIDs, err := s.groupRoleIDs(ctx, groupID)
		if err != nil {
			return err
		}
		return s.appendChangeLog(ctx, repository.HistoryEntry{
			ChangeType: changeType,
			TargetType: model.TargetTypeVirtualGroup,
			TargetID:   groupID,
			UserID:     userID,
			RoleIDs:    roleIDs,
			OperatorID: operatorID,
			Reason:     reason,
		})
	})
	if err != nil {
		return err
	}

	util.GetLogger().Infow("user left virtual group",
		"group_id", groupID, "user_id", userID, "change_type", changeType, "operator", operatorID)
	s.publishLeave(changeType, model.TargetTypeVirtualGroup, groupID, userID, operatorID)
	return nil
}

// leaveUnit also purges legacy per-unit role rows for the membership.
func (s *Service) leaveUnit(ctx context.Context, unitID, userID, operatorID string, changeType model.ChangeType, reason string) error {
	logger := util.GetLogger()

	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		removed, err := s.Repo.RemoveUnitMember(ctx, unitID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return conflict(model.CodeNotMember, "user_id", userID, "target_id", unitID)
		}

		purged, err := s.Repo.DeleteLegacyUnitRoles(ctx, unitID, userID)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.Infow("purged legacy unit role rows", "unit_id", unitID, "user_id", userID, "count", purged)
		}

		return s.appendChangeLog(ctx, repository.HistoryEntry{
			ChangeType: changeType,
			TargetType: model.TargetTypeBusinessUnit,
			TargetID:   unitID,
			UserID:     userID,
			OperatorID: operatorID,
			Reason:     reason,
		})
	})
	if err != nil {
		return err
	}

	logger.Infow("user left business unit",
		"unit_id", unitID, "user_id", userID, "change_type", changeType, "operator", operatorID)
	s.publishLeave(changeType, model.TargetTypeBusinessUnit, unitID, userID, operatorID)
	return nil
}

func (s *Service) appendChangeLog(ctx context.Context, entry repository.HistoryEntry) error {
	record := entry.ToChangeLog()
	record.CreatedAt = s.now()
	if err := s.History.AppendChangeLog(ctx, record); err != nil {
		return err
	}
	s.Metrics.MembershipChange(string(entry.TargetType), string(entry.ChangeType))
	return nil
}

func (s *Service) groupRoleIDs(ctx context.Context, groupID string) ([]string, error) {
	roleID, ok, err := s.GetBoundRoleID(ctx, groupID)
	if err != nil || !ok {
		return nil, err
	}
	return []string{roleID}, nil
}

func roleIDsOf(roles []*model.Role) []string {
	if len(roles) == 0 {
		return nil
	}
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func (s *Service) publishJoin(targetType model.TargetType, targetID, userID, operatorID string) {
	s.publish(notify.Event{
		Name:       notify.EventMemberJoined,
		SubjectID:  targetID,
		ActorID:    operatorID,
		Recipients: []string{userID},
		Data:       map[string]string{"target_type": string(targetType), "user_id": userID},
	})
}

func (s *Service) publishLeave(changeType model.ChangeType, targetType model.TargetType, targetID, userID, operatorID string) {
	name := notify.EventMemberRemoved
	if changeType == model.ChangeTypeExit {
		name = notify.EventMemberExited
	}
	s.publish(notify.Event{
		Name:       name,
		SubjectID:  targetID,
		ActorID:    operatorID,
		Recipients: []string{userID},
		Data:       map[string]string{"target_type": string(targetType), "user_id": userID},
	})
}

func (s *Service) GetMemberChangeLogs(ctx context.Context, req model.GetMemberChangeLogsReq) (*model.GetMemberChangeLogsResp, error) {
	logs, total, err := s.History.FindChangeLogs(ctx, req)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*model.MemberChangeLog{}
	}
	return &model.GetMemberChangeLogsResp{
		Data:       logs,
		Page:       req.Page,
		Size:       req.Size,
		TotalCount: total,
	}, nil
}
