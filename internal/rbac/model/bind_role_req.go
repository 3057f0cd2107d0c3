package model

import "strings"

type BindRoleReq struct {
	RoleID string `json:"role_id" validate:"required,min=1,max=64"`
}

func (r *BindRoleReq) Validate() error {
	r.RoleID = strings.TrimSpace(r.RoleID)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type AssignRolePermissionsReq struct {
	Permissions []string `json:"permissions" validate:"required,dive,required,max=64"`
}

func (r *AssignRolePermissionsReq) Validate() error {
	seen := make(map[string]bool, len(r.Permissions))
	perms := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		perms = append(perms, p)
	}
	r.Permissions = perms

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type SetDontRemindReq struct {
	DontRemind bool `json:"dont_remind"`
}

func (r *SetDontRemindReq) Validate() error {
	return nil
}
