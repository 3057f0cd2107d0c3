package model

// RoleType classifies how a role's authority is scoped.
type RoleType string

const (
	RoleTypeAdmin       RoleType = "ADMIN"
	RoleTypeDeveloper   RoleType = "DEVELOPER"
	RoleTypeBuBounded   RoleType = "BU_BOUNDED"
	RoleTypeBuUnbounded RoleType = "BU_UNBOUNDED"
)

func (t RoleType) IsValid() bool {
	switch t {
	case RoleTypeAdmin, RoleTypeDeveloper, RoleTypeBuBounded, RoleTypeBuUnbounded:
		return true
	}
	return false
}

// IsBusinessRole reports whether the role may be bound to virtual groups or units.
func (t RoleType) IsBusinessRole() bool {
	return t == RoleTypeBuBounded || t == RoleTypeBuUnbounded
}

type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "ACTIVE"
	RoleStatusInactive RoleStatus = "INACTIVE"
)

type VirtualGroupType string

const (
	VirtualGroupTypeSystem      VirtualGroupType = "SYSTEM"
	VirtualGroupTypeUserDefined VirtualGroupType = "USER_DEFINED"
)

// TargetType is what an approver or a change-log entry points at.
type TargetType string

const (
	TargetTypeVirtualGroup TargetType = "VIRTUAL_GROUP"
	TargetTypeBusinessUnit TargetType = "BUSINESS_UNIT"
)

func (t TargetType) IsValid() bool {
	return t == TargetTypeVirtualGroup || t == TargetTypeBusinessUnit
}

type RequestType string

const (
	RequestTypeVirtualGroup RequestType = "VIRTUAL_GROUP"
	RequestTypeBusinessUnit RequestType = "BUSINESS_UNIT"
	// Deprecated: created as RequestTypeBusinessUnit.
	RequestTypeBusinessUnitRole RequestType = "BUSINESS_UNIT_ROLE"
)

func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeVirtualGroup, RequestTypeBusinessUnit, RequestTypeBusinessUnitRole:
		return true
	}
	return false
}

// ApproverTarget is the approver target type that gates a request type.
func (t RequestType) ApproverTarget() TargetType {
	if t == RequestTypeVirtualGroup {
		return TargetTypeVirtualGroup
	}
	return TargetTypeBusinessUnit
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCancelled
}

type ChangeType string

const (
	ChangeTypeJoin    ChangeType = "JOIN"
	ChangeTypeRemoved ChangeType = "REMOVED"
	ChangeTypeExit    ChangeType = "EXIT"
)

type AssignmentType string

const (
	AssignmentTypeUser         AssignmentType = "USER"
	AssignmentTypeVirtualGroup AssignmentType = "VIRTUAL_GROUP"
	AssignmentTypeDeptRole     AssignmentType = "DEPT_ROLE"
)

func (t AssignmentType) IsValid() bool {
	switch t {
	case AssignmentTypeUser, AssignmentTypeVirtualGroup, AssignmentTypeDeptRole:
		return true
	}
	return false
}

// IsPool reports whether the task has no individual owner until claimed.
func (t AssignmentType) IsPool() bool {
	return t == AssignmentTypeVirtualGroup || t == AssignmentTypeDeptRole
}

type TaskStatus string

const (
	TaskStatusAssigned  TaskStatus = "ASSIGNED"
	TaskStatusDelegated TaskStatus = "DELEGATED"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// TaskAction names a task history entry.
type TaskAction string

const (
	TaskActionAssigned    TaskAction = "ASSIGNED"
	TaskActionClaimed     TaskAction = "CLAIMED"
	TaskActionUnclaimed   TaskAction = "UNCLAIMED"
	TaskActionDelegated   TaskAction = "DELEGATED"
	TaskActionTransferred TaskAction = "TRANSFERRED"
	TaskActionCompleted   TaskAction = "COMPLETED"
)

// Task priority bounds
const (
	MinPriority     = 0
	MaxPriority     = 100
	DefaultPriority = 50
)

// Preference keys
const (
	PrefDontRemindBuApplication = "dont_remind_bu_application"
)

// Pagination
const (
	DefaultPage     = 1
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Permission codes checked by the HTTP permission gate
const (
	PermRoleRead              = "role:read"
	PermRoleManage            = "role:manage"
	PermVirtualGroupManage    = "virtual_group:manage"
	PermBusinessUnitManage    = "business_unit:manage"
	PermApproverManage        = "approver:manage"
	PermPermissionRequestRead = "permission_request:audit"
	PermMemberLogRead         = "member_log:read"
	PermTaskAssign            = "task:assign"
	PermTaskAdmin             = "task:admin"
)

// Wildcard grants every permission.
const PermAll = "*"

// Role codes with built-in meaning
const (
	RoleCodeAdmin = "ADMIN"
)
