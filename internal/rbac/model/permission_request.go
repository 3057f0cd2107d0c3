package model

import "time"

// PermissionRequest moves PENDING -> APPROVED | REJECTED | CANCELLED and never leaves a terminal state.
type PermissionRequest struct {
	ID              string        `bson:"_id" json:"id"`
	ApplicantID     string        `bson:"applicant_id" json:"applicant_id"`
	RequestType     RequestType   `bson:"request_type" json:"request_type"`
	TargetID        string        `bson:"target_id" json:"target_id"`
	Reason          string        `bson:"reason,omitempty" json:"reason,omitempty"`
	Status          RequestStatus `bson:"status" json:"status"`
	ApproverID      string        `bson:"approver_id,omitempty" json:"approver_id,omitempty"`
	ApproverComment string        `bson:"approver_comment,omitempty" json:"approver_comment,omitempty"`
	ApprovedAt      *time.Time    `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

func (r *PermissionRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// TargetType is the approver target that gates this request.
func (r *PermissionRequest) TargetType() TargetType {
	return r.RequestType.ApproverTarget()
}

type RequestFilter struct {
	ApplicantID string
	// ExcludeApplicantID drops the caller's own requests from approver views.
	ExcludeApplicantID string
	Status             RequestStatus
	RequestTypes       []RequestType
	TargetIDs          []string
	Page               int
	Size               int
}

type RequestPage struct {
	Data       []*PermissionRequest `json:"data"`
	Page       int                  `json:"page"`
	Size       int                  `json:"size"`
	TotalCount int64                `json:"total_count"`
}

// RequestDetail is a request with its resolved target name.
type RequestDetail struct {
	*PermissionRequest
	TargetName string `json:"target_name,omitempty"`
}
