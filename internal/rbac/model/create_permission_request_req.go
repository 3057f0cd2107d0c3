package model

import "strings"

type CreatePermissionRequestReq struct {
	RequestType RequestType `json:"request_type" validate:"required"`
	TargetID    string      `json:"target_id" validate:"required,min=1,max=64"`
	Reason      string      `json:"reason" validate:"omitempty,max=1000"`
}

func (r *CreatePermissionRequestReq) Validate() error {
	r.RequestType = RequestType(strings.ToUpper(strings.TrimSpace(string(r.RequestType))))
	r.TargetID = strings.TrimSpace(r.TargetID)
	r.Reason = strings.TrimSpace(r.Reason)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if !r.RequestType.IsValid() {
		return &ErrorDetail{Code: CodeInvalidRequestType, Message: "request_type must be one of [VIRTUAL_GROUP, BUSINESS_UNIT]"}
	}
	return nil
}

// ReviewPermissionRequestReq carries the approver's comment.
type ReviewPermissionRequestReq struct {
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

func (r *ReviewPermissionRequestReq) Validate() error {
	r.Comment = strings.TrimSpace(r.Comment)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// ValidateReject additionally requires a comment.
func (r *ReviewPermissionRequestReq) ValidateReject() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Comment == "" {
		return &ErrorDetail{Code: CodeCommentRequired, Message: "a comment is required to reject a request"}
	}
	return nil
}

type ListPermissionRequestsReq struct {
	ApplicantID string        `query:"applicant_id" validate:"omitempty,max=64"`
	Status      RequestStatus `query:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED CANCELLED"`
	RequestType RequestType   `query:"request_type"`
	TargetID    string        `query:"target_id" validate:"omitempty,max=64"`
	Page        int           `query:"page" validate:"omitempty,min=1"`
	Size        int           `query:"size" validate:"omitempty,min=1,max=1000"`
}

func (r *ListPermissionRequestsReq) Validate() error {
	r.ApplicantID = strings.TrimSpace(r.ApplicantID)
	r.Status = RequestStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	r.RequestType = RequestType(strings.ToUpper(strings.TrimSpace(string(r.RequestType))))
	r.TargetID = strings.TrimSpace(r.TargetID)
	normalizePage(&r.Page, &r.Size)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.RequestType != "" && !r.RequestType.IsValid() {
		return &ErrorDetail{Code: CodeInvalidRequestType, Message: "invalid request_type: " + string(r.RequestType)}
	}
	return nil
}

// Filter converts the query into a repository filter.
func (r *ListPermissionRequestsReq) Filter() RequestFilter {
	f := RequestFilter{
		ApplicantID: r.ApplicantID,
		Status:      r.Status,
		Page:        r.Page,
		Size:        r.Size,
	}
	if r.RequestType != "" {
		f.RequestTypes = []RequestType{r.RequestType}
	}
	if r.TargetID != "" {
		f.TargetIDs = []string{r.TargetID}
	}
	return f
}
