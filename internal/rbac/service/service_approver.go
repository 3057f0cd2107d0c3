package service

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/util"
)

func (s *Service) AddApprover(ctx context.Context, callerID string, req model.AddApproverReq) (*model.Approver, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	if _, err := s.targetName(ctx, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}
	if _, err := s.requireActiveUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	exists, err := s.Repo.IsApprover(ctx, req.TargetType, req.TargetID, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict(model.CodeAlreadyApprover, "user_id", req.UserID, "target_id", req.TargetID)
	}

	approver := &model.Approver{
		ID:         util.NewID(),
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		UserID:     req.UserID,
		CreatedAt:  s.now(),
		CreatedBy:  callerID,
	}
	if err := s.Repo.CreateApprover(ctx, approver); err != nil {
		return nil, duplicateAs(err, model.CodeAlreadyApprover, "user_id", req.UserID, "target_id", req.TargetID)
	}

	util.GetLogger().Infow("approver added",
		"target_type", req.TargetType, "target_id", req.TargetID, "user_id", req.UserID, "operator", callerID)
	return approver, nil
}

func (s *Service) RemoveApprover(ctx context.Context, callerID, approverID string) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}

	approver, err := s.Repo.GetApprover(ctx, approverID)
	if err != nil {
		return err
	}
	if approver == nil {
		return notFound(model.CodeApproverNotFound)
	}

	deleted, err := s.Repo.DeleteApprover(ctx, approverID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(model.CodeApproverNotFound)
	}
	return s.afterApproverRemoved(ctx, approver.TargetType, approver.TargetID, approver.UserID, callerID)
}

func (s *Service) RemoveApproverByTarget(ctx context.Context, callerID string, req model.ApproverTargetReq) error {
	if err := s.validateCaller(callerID); err != nil {
		return err
	}
	if req.UserID == "" {
		return badRequest(model.CodeBadRequest, "detail", "user_id is required")
	}

	deleted, err := s.Repo.DeleteApproverByTarget(ctx, req.TargetType, req.TargetID, req.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(model.CodeApproverNotFound)
	}
	return s.afterApproverRemoved(ctx, req.TargetType, req.TargetID, req.UserID, callerID)
}

// afterApproverRemoved allows a target to lose its last approver; pending
// requests stay decidable by nobody until one is added again.
func (s *Service) afterApproverRemoved(ctx context.Context, targetType model.TargetType, targetID, userID, callerID string) error {
	logger := util.GetLogger()
	logger.Infow("approver removed", "target_type", targetType, "target_id", targetID, "user_id", userID, "operator", callerID)

	remaining, err := s.Repo.HasApprover(ctx, targetType, targetID)
	if err != nil {
		return err
	}
	if !remaining {
		logger.Warnw("target has no approver left, new permission requests are blocked",
			"target_type", targetType, "target_id", targetID)
	}
	return nil
}

func (s *Service) GetApprovers(ctx context.Context, targetType model.TargetType, targetID string) ([]*model.Approver, error) {
	return s.Repo.FindApprovers(ctx, targetType, targetID)
}

func (s *Service) HasApprover(ctx context.Context, targetType model.TargetType, targetID string) (bool, error) {
	return s.Repo.HasApprover(ctx, targetType, targetID)
}

func (s *Service) IsApprover(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error) {
	return s.Repo.IsApprover(ctx, targetType, targetID, userID)
}

func (s *Service) IsAnyApprover(ctx context.Context, userID string) (bool, error) {
	return s.Repo.IsAnyApprover(ctx, userID)
}

func (s *Service) GetApproverTargetIDs(ctx context.Context, userID string, targetType model.TargetType) ([]string, error) {
	return s.Repo.FindApproverTargetIDs(ctx, userID, targetType)
}
