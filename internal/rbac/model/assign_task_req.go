package model

import (
	"strings"
	"time"
)

type AssignTaskReq struct {
	AssignmentType   AssignmentType `json:"assignment_type" validate:"required"`
	AssignmentTarget string         `json:"assignment_target" validate:"required,max=160"`
	// Priority defaults to 50 when omitted.
	Priority *int       `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
}

func (r *AssignTaskReq) Validate() error {
	r.AssignmentType = AssignmentType(strings.ToUpper(strings.TrimSpace(string(r.AssignmentType))))
	r.AssignmentTarget = strings.TrimSpace(r.AssignmentTarget)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if detail := ValidateAssignment(r.AssignmentType, r.AssignmentTarget, r.PriorityOrDefault()); detail != nil {
		return detail
	}
	return nil
}

func (r *AssignTaskReq) PriorityOrDefault() int {
	if r.Priority == nil {
		return DefaultPriority
	}
	return *r.Priority
}

type DelegateTaskReq struct {
	DelegatedTo string `json:"delegated_to" validate:"required,min=1,max=64"`
	Reason      string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *DelegateTaskReq) Validate() error {
	r.DelegatedTo = strings.TrimSpace(r.DelegatedTo)
	r.Reason = strings.TrimSpace(r.Reason)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type TransferTaskReq struct {
	TargetUserID string `json:"target_user_id" validate:"required,min=1,max=64"`
}

func (r *TransferTaskReq) Validate() error {
	r.TargetUserID = strings.TrimSpace(r.TargetUserID)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type ListTasksReq struct {
	// WithinHours bounds the due-soon window.
	WithinHours int `query:"within_hours" validate:"omitempty,min=1,max=720"`
	MinPriority *int `query:"min_priority" validate:"omitempty,min=0,max=100"`
}

func (r *ListTasksReq) Validate() error {
	if r.WithinHours == 0 {
		r.WithinHours = 24
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
