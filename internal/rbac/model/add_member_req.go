package model

import "strings"

type AddUnitMemberReq struct {
	UserID string `json:"user_id" validate:"required,min=1,max=64"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *AddUnitMemberReq) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Reason = strings.TrimSpace(r.Reason)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// MemberReasonReq is the optional body of removal and exit calls.
type MemberReasonReq struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *MemberReasonReq) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
