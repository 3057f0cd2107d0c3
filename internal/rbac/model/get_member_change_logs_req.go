package model

import (
	"strings"
	"time"
)

type GetMemberChangeLogsReq struct {
	TargetType TargetType `query:"target_type"`
	TargetID   string     `query:"target_id" validate:"omitempty,max=64"`
	UserID     string     `query:"user_id" validate:"omitempty,max=64"`
	ChangeType ChangeType `query:"change_type" validate:"omitempty,oneof=JOIN REMOVED EXIT"`

	StartTime *time.Time `query:"start_time"`
	EndTime   *time.Time `query:"end_time"`

	Page int `query:"page" validate:"omitempty,min=1"`
	Size int `query:"size" validate:"omitempty,min=1,max=1000"`
}

func (r *GetMemberChangeLogsReq) Validate() error {
	r.TargetType = TargetType(strings.ToUpper(strings.TrimSpace(string(r.TargetType))))
	r.TargetID = strings.TrimSpace(r.TargetID)
	r.UserID = strings.TrimSpace(r.UserID)
	r.ChangeType = ChangeType(strings.ToUpper(strings.TrimSpace(string(r.ChangeType))))
	normalizePage(&r.Page, &r.Size)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if r.TargetType != "" && !r.TargetType.IsValid() {
		return &ErrorDetail{Code: CodeInvalidTargetType, Message: "target_type must be one of [VIRTUAL_GROUP, BUSINESS_UNIT]"}
	}
	if r.TargetID != "" && r.TargetType == "" {
		return &ErrorDetail{Code: CodeBadRequest, Message: "target_type is required when target_id is set"}
	}
	if r.StartTime != nil && r.EndTime != nil && r.EndTime.Before(*r.StartTime) {
		return &ErrorDetail{Code: CodeBadRequest, Message: "end_time must not be before start_time"}
	}
	return nil
}

type GetMemberChangeLogsResp struct {
	Data       []*MemberChangeLog `json:"data"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	TotalCount int64              `json:"total_count"`
}
