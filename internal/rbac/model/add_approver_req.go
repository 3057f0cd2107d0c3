package model

import "strings"

type AddApproverReq struct {
	TargetType TargetType `json:"target_type" validate:"required"`
	TargetID   string     `json:"target_id" validate:"required,min=1,max=64"`
	UserID     string     `json:"user_id" validate:"required,min=1,max=64"`
}

func (r *AddApproverReq) Validate() error {
	r.TargetType = TargetType(strings.ToUpper(strings.TrimSpace(string(r.TargetType))))
	r.TargetID = strings.TrimSpace(r.TargetID)
	r.UserID = strings.TrimSpace(r.UserID)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if !r.TargetType.IsValid() {
		return &ErrorDetail{Code: CodeInvalidTargetType, Message: "target_type must be one of [VIRTUAL_GROUP, BUSINESS_UNIT]"}
	}
	return nil
}

// ApproverTargetReq addresses approvers of one target, optionally one user.
type ApproverTargetReq struct {
	TargetType TargetType `query:"target_type" validate:"required"`
	TargetID   string     `query:"target_id" validate:"required,min=1,max=64"`
	UserID     string     `query:"user_id" validate:"omitempty,max=64"`
}

func (r *ApproverTargetReq) Validate() error {
	r.TargetType = TargetType(strings.ToUpper(strings.TrimSpace(string(r.TargetType))))
	r.TargetID = strings.TrimSpace(r.TargetID)
	r.UserID = strings.TrimSpace(r.UserID)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if !r.TargetType.IsValid() {
		return &ErrorDetail{Code: CodeInvalidTargetType, Message: "target_type must be one of [VIRTUAL_GROUP, BUSINESS_UNIT]"}
	}
	return nil
}
