package model

import "strings"

type CreateVirtualGroupReq struct {
	Code string           `json:"code" validate:"required,min=1,max=64"`
	Name string           `json:"name" validate:"required,min=1,max=128"`
	Type VirtualGroupType `json:"type" validate:"omitempty,oneof=SYSTEM USER_DEFINED"`
	// RoleID binds a role at creation. It is the only way a SYSTEM group gets one.
	RoleID string `json:"role_id" validate:"omitempty,max=64"`
}

func (r *CreateVirtualGroupReq) Validate() error {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.Type = VirtualGroupType(strings.ToUpper(strings.TrimSpace(string(r.Type))))
	r.RoleID = strings.TrimSpace(r.RoleID)
	if r.Type == "" {
		r.Type = VirtualGroupTypeUserDefined
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type CreateBusinessUnitReq struct {
	Code     string `json:"code" validate:"required,min=1,max=64"`
	Name     string `json:"name" validate:"required,min=1,max=128"`
	ParentID string `json:"parent_id" validate:"omitempty,max=64"`
}

func (r *CreateBusinessUnitReq) Validate() error {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.ParentID = strings.TrimSpace(r.ParentID)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
