package model

import "strings"

type CreateRoleReq struct {
	Code        string   `json:"code" validate:"required,min=1,max=64"`
	Name        string   `json:"name" validate:"required,min=1,max=128"`
	Type        RoleType `json:"type" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=512"`
}

func (r *CreateRoleReq) Validate() error {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.Type = RoleType(strings.ToUpper(strings.TrimSpace(string(r.Type))))
	r.Description = strings.TrimSpace(r.Description)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if !r.Type.IsValid() {
		return &ErrorDetail{Code: CodeInvalidRoleType, Message: "invalid role type: must be one of [ADMIN, DEVELOPER, BU_BOUNDED, BU_UNBOUNDED]"}
	}

	return nil
}

type UpdateRoleStatusReq struct {
	Status RoleStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

func (r *UpdateRoleStatusReq) Validate() error {
	r.Status = RoleStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type ListRolesReq struct {
	Type   RoleType   `query:"type"`
	Status RoleStatus `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (r *ListRolesReq) Validate() error {
	r.Type = RoleType(strings.ToUpper(strings.TrimSpace(string(r.Type))))
	r.Status = RoleStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.Type != "" && !r.Type.IsValid() {
		return &ErrorDetail{Code: CodeInvalidRoleType, Message: "invalid role type: " + string(r.Type)}
	}
	return nil
}
