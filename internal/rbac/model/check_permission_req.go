package model

import "strings"

type CheckPermissionReq struct {
	Permission string `json:"permission" validate:"required,max=64"`
}

func (r *CheckPermissionReq) Validate() error {
	r.Permission = strings.ToLower(strings.TrimSpace(r.Permission))
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type CheckPermissionResponse struct {
	Allowed bool `json:"allowed"`
}

// UnitMembersResponse lists the members of a business unit with their count.
type UnitMembersResponse struct {
	Data       []*UserBusinessUnit `json:"data"`
	TotalCount int64               `json:"total_count"`
}

type BuReminderResponse struct {
	Show bool `json:"show"`
}

type DontRemindResponse struct {
	DontRemind bool `json:"dont_remind"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type MembershipResponse struct {
	Member bool `json:"member"`
}

type EligibilityResponse struct {
	Eligible bool `json:"eligible"`
}

type HasRoleResponse struct {
	HasRole bool `json:"has_role"`
}

type ParentUnitResponse struct {
	UnitID   string `json:"unit_id"`
	ParentID string `json:"parent_id"`
}

type CanDelegateResponse struct {
	CanDelegate bool `json:"can_delegate"`
}

type ApproverStatusResponse struct {
	Approver bool `json:"approver"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
