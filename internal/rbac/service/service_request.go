package service

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/notify"
	"taskrbac/internal/rbac/repository"
	"taskrbac/internal/rbac/util"
)

// CreatePermissionRequest files a PENDING request against a group or unit.
// Deprecated BUSINESS_UNIT_ROLE requests are filed as BUSINESS_UNIT.
func (s *Service) CreatePermissionRequest(ctx context.Context, callerID string, req model.CreatePermissionRequestReq) (*model.PermissionRequest, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	logger := util.GetLogger()
	requestType := req.RequestType
	if requestType == model.RequestTypeBusinessUnitRole {
		logger.Infow("deprecated request type filed as business unit request", "applicant_id", callerID, "target_id", req.TargetID)
		requestType = model.RequestTypeBusinessUnit
	}
	targetType := requestType.ApproverTarget()

	if _, err := s.targetName(ctx, targetType, req.TargetID); err != nil {
		return nil, err
	}

	hasApprover, err := s.Repo.HasApprover(ctx, targetType, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !hasApprover {
		return nil, conflict(model.CodeNoApprover, "target_id", req.TargetID)
	}

	if requestType == model.RequestTypeBusinessUnit {
		bounded, err := s.userRolesOfType(ctx, callerID, model.RoleTypeBuBounded)
		if err != nil {
			return nil, err
		}
		if len(bounded) == 0 {
			return nil, conflict(model.CodeNoBuBoundedRole)
		}
	}

	pending, err := s.Repo.ExistsPendingRequest(ctx, callerID, req.TargetID, requestType)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, conflict(model.CodeDuplicateRequest, "target_id", req.TargetID)
	}

	now := s.now()
	request := &model.PermissionRequest{
		ID:          util.NewID(),
		ApplicantID: callerID,
		RequestType: requestType,
		TargetID:    req.TargetID,
		Reason:      req.Reason,
		Status:      model.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateRequest(ctx, request); err != nil {
		return nil, duplicateAs(err, model.CodeDuplicateRequest, "target_id", req.TargetID)
	}

	logger.Infow("permission request created",
		"request_id", request.ID, "type", requestType, "target_id", req.TargetID, "applicant_id", callerID)
	s.Metrics.PermissionRequest(string(requestType), string(request.Status))

	recipients, err := s.approverIDs(ctx, targetType, req.TargetID)
	if err != nil {
		logger.Warnw("failed to resolve approvers for notification", "request_id", request.ID, "error", err)
	}
	s.publish(notify.Event{
		Name:       notify.EventRequestCreated,
		SubjectID:  request.ID,
		ActorID:    callerID,
		Recipients: recipients,
		Data:       map[string]string{"request_type": string(requestType), "target_id": req.TargetID},
	})
	return request, nil
}

// ApprovePermissionRequest decides the request and grants the membership in
// one transaction, so an approved but ungranted request is never visible.
func (s *Service) ApprovePermissionRequest(ctx context.Context, callerID, requestID string, req model.ReviewPermissionRequestReq) (*model.PermissionRequest, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	var (
		request *model.PermissionRequest
		joined  bool
	)
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.decide(ctx, requestID, callerID, model.RequestStatusApproved, req.Comment)
		if err != nil {
			return err
		}
		joined, err = s.grant(ctx, request, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("permission request approved", "request_id", requestID, "approver_id", callerID)
	s.Metrics.PermissionRequest(string(request.RequestType), string(request.Status))
	s.publishDecision(notify.EventRequestApproved, request)
	if joined {
		s.publishJoin(request.TargetType(), request.TargetID, request.ApplicantID, callerID)
	}
	return request, nil
}

func (s *Service) RejectPermissionRequest(ctx context.Context, callerID, requestID string, req model.ReviewPermissionRequestReq) (*model.PermissionRequest, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}
	if err := req.ValidateReject(); err != nil {
		var detail *model.ErrorDetail
		if errors.As(err, &detail) {
			return nil, invalid(detail)
		}
		return nil, err
	}

	var request *model.PermissionRequest
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.decide(ctx, requestID, callerID, model.RequestStatusRejected, req.Comment)
		return err
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Infow("permission request rejected", "request_id", requestID, "approver_id", callerID)
	s.Metrics.PermissionRequest(string(request.RequestType), string(request.Status))
	s.publishDecision(notify.EventRequestRejected, request)
	return request, nil
}

func (s *Service) CancelPermissionRequest(ctx context.Context, callerID, requestID string) (*model.PermissionRequest, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	request, err := s.mustGetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ApplicantID != callerID {
		return nil, forbidden(model.CodeNotApplicant, "request_id", requestID)
	}
	if !request.IsPending() {
		return nil, invalidStatus(request)
	}

	request.Status = model.RequestStatusCancelled
	request.UpdatedAt = s.now()
	if err := s.Repo.TransitionRequest(ctx, request, model.RequestStatusPending); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, s.staleRequest(ctx, requestID)
		}
		return nil, err
	}

	util.GetLogger().Infow("permission request cancelled", "request_id", requestID, "applicant_id", callerID)
	s.Metrics.PermissionRequest(string(request.RequestType), string(request.Status))
	s.publish(notify.Event{
		Name:      notify.EventRequestCancelled,
		SubjectID: request.ID,
		ActorID:   callerID,
		Data:      map[string]string{"target_id": request.TargetID},
	})
	return request, nil
}

// decide moves a PENDING request to a terminal status after the approver
// checks. The status write is conditional, so only one decision wins.
func (s *Service) decide(ctx context.Context, requestID, approverID string, status model.RequestStatus, comment string) (*model.PermissionRequest, error) {
	request, err := s.mustGetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, invalidStatus(request)
	}
	if request.ApplicantID == approverID {
		return nil, forbidden(model.CodeSelfApproval)
	}

	ok, err := s.Repo.IsApprover(ctx, request.TargetType(), request.TargetID, approverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden(model.CodeNotApprover, "user_id", approverID, "target_id", request.TargetID)
	}

	now := s.now()
	request.Status = status
	request.ApproverID = approverID
	request.ApproverComment = comment
	request.ApprovedAt = &now
	request.UpdatedAt = now
	if err := s.Repo.TransitionRequest(ctx, request, model.RequestStatusPending); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, s.staleRequest(ctx, requestID)
		}
		return nil, err
	}
	return request, nil
}

func (s *Service) mustGetRequest(ctx context.Context, requestID string) (*model.PermissionRequest, error) {
	request, err := s.Repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, notFound(model.CodeRequestNotFound, "request_id", requestID)
	}
	return request, nil
}

// staleRequest reports the status a concurrent decision left behind.
func (s *Service) staleRequest(ctx context.Context, requestID string) error {
	current, err := s.mustGetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	return invalidStatus(current)
}

func invalidStatus(request *model.PermissionRequest) error {
	return conflict(model.CodeInvalidStatus, "request_id", request.ID, "status", string(request.Status))
}

func (s *Service) publishDecision(name string, request *model.PermissionRequest) {
	s.publish(notify.Event{
		Name:       name,
		SubjectID:  request.ID,
		ActorID:    request.ApproverID,
		Recipients: []string{request.ApplicantID},
		Data: map[string]string{
			"request_type": string(request.RequestType),
			"target_id":    request.TargetID,
			"comment":      request.ApproverComment,
		},
	})
}

func (s *Service) approverIDs(ctx context.Context, targetType model.TargetType, targetID string) ([]string, error) {
	approvers, err := s.Repo.FindApprovers(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(approvers))
	for _, a := range approvers {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

// GetPermissionRequest is visible to the applicant, the target's approvers
// and auditors.
func (s *Service) GetPermissionRequest(ctx context.Context, callerID, requestID string) (*model.RequestDetail, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	request, err := s.mustGetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ApplicantID != callerID {
		allowed, err := s.Repo.IsApprover(ctx, request.TargetType(), request.TargetID, callerID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			if allowed, err = s.HasPermission(ctx, callerID, model.PermPermissionRequestRead); err != nil {
				return nil, err
			}
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}

	detail := &model.RequestDetail{PermissionRequest: request}
	name, err := s.targetName(ctx, request.TargetType(), request.TargetID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	detail.TargetName = name
	return detail, nil
}

func (s *Service) ListMyPermissionRequests(ctx context.Context, callerID string, req model.ListPermissionRequestsReq) (*model.RequestPage, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}
	filter := req.Filter()
	filter.ApplicantID = callerID
	return s.findRequests(ctx, filter)
}

// ListPendingForApprover lists PENDING requests on targets the caller
// approves, leaving out the caller's own requests.
func (s *Service) ListPendingForApprover(ctx context.Context, callerID string, req model.ListPermissionRequestsReq) (*model.RequestPage, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	groupIDs, err := s.Repo.FindApproverTargetIDs(ctx, callerID, model.TargetTypeVirtualGroup)
	if err != nil {
		return nil, err
	}
	unitIDs, err := s.Repo.FindApproverTargetIDs(ctx, callerID, model.TargetTypeBusinessUnit)
	if err != nil {
		return nil, err
	}

	filter := req.Filter()
	filter.ApplicantID = ""
	filter.ExcludeApplicantID = callerID
	filter.Status = model.RequestStatusPending
	targets := append(groupIDs, unitIDs...)
	if req.TargetID != "" {
		targets = intersect(targets, []string{req.TargetID})
	}
	filter.TargetIDs = targets
	if len(targets) == 0 {
		return &model.RequestPage{Data: []*model.PermissionRequest{}, Page: filter.Page, Size: filter.Size}, nil
	}
	return s.findRequests(ctx, filter)
}

func (s *Service) ListPermissionRequests(ctx context.Context, req model.ListPermissionRequestsReq) (*model.RequestPage, error) {
	return s.findRequests(ctx, req.Filter())
}

func (s *Service) findRequests(ctx context.Context, filter model.RequestFilter) (*model.RequestPage, error) {
	data, total, err := s.Repo.FindRequests(ctx, filter)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []*model.PermissionRequest{}
	}
	return &model.RequestPage{Data: data, Page: filter.Page, Size: filter.Size, TotalCount: total}, nil
}

// GetApplicableBusinessUnits returns units the caller has not joined that
// have at least one approver.
func (s *Service) GetApplicableBusinessUnits(ctx context.Context, callerID string) ([]*model.BusinessUnit, error) {
	if err := s.validateCaller(callerID); err != nil {
		return nil, err
	}

	joined, err := s.Repo.FindUnitIDsByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	withApprover, err := s.Repo.FindTargetIDsWithApprover(ctx, model.TargetTypeBusinessUnit)
	if err != nil {
		return nil, err
	}

	ids := subtract(withApprover, joined)
	if len(ids) == 0 {
		return []*model.BusinessUnit{}, nil
	}
	return s.Repo.FindBusinessUnitsByIDs(ctx, ids)
}

func intersect(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if in[v] {
			out = append(out, v)
		}
	}
	return out
}

func subtract(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, v := range b {
		drop[v] = true
	}
	out := make([]string, 0, len(a))
	for _, v := range uniqueStrings(a) {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}
