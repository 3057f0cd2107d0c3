package model

import "time"

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}

type Role struct {
	ID          string     `bson:"_id" json:"id"`
	Code        string     `bson:"code" json:"code"`
	Name        string     `bson:"name" json:"name"`
	Type        RoleType   `bson:"type" json:"type"`
	Status      RoleStatus `bson:"status" json:"status"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	CreatedBy   string     `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy   string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

func (r *Role) IsActive() bool {
	return r.Status == RoleStatusActive
}

type RoleFilter struct {
	Type   RoleType
	Status RoleStatus
}

type VirtualGroup struct {
	ID        string           `bson:"_id" json:"id"`
	Code      string           `bson:"code" json:"code"`
	Name      string           `bson:"name" json:"name"`
	Type      VirtualGroupType `bson:"type" json:"type"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	CreatedBy string           `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

func (g *VirtualGroup) IsSystem() bool {
	return g.Type == VirtualGroupTypeSystem
}

// VirtualGroupRole is the single role binding of a virtual group.
type VirtualGroupRole struct {
	ID             string    `bson:"_id" json:"id"`
	VirtualGroupID string    `bson:"virtual_group_id" json:"virtual_group_id"`
	RoleID         string    `bson:"role_id" json:"role_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	CreatedBy      string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

type VirtualGroupMember struct {
	ID             string    `bson:"_id" json:"id"`
	VirtualGroupID string    `bson:"virtual_group_id" json:"virtual_group_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	JoinedAt       time.Time `bson:"joined_at" json:"joined_at"`
	AddedBy        string    `bson:"added_by,omitempty" json:"added_by,omitempty"`
}

type BusinessUnit struct {
	ID        string    `bson:"_id" json:"id"`
	Code      string    `bson:"code" json:"code"`
	Name      string    `bson:"name" json:"name"`
	ParentID  string    `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// UserBusinessUnit is pure membership and activates BU_BOUNDED roles.
type UserBusinessUnit struct {
	ID             string    `bson:"_id" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	BusinessUnitID string    `bson:"business_unit_id" json:"business_unit_id"`
	JoinedAt       time.Time `bson:"joined_at" json:"joined_at"`
	AddedBy        string    `bson:"added_by,omitempty" json:"added_by,omitempty"`
}

// BusinessUnitRole declares a role admissible for task routing within a unit.
type BusinessUnitRole struct {
	ID             string    `bson:"_id" json:"id"`
	BusinessUnitID string    `bson:"business_unit_id" json:"business_unit_id"`
	RoleID         string    `bson:"role_id" json:"role_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	CreatedBy      string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

type Approver struct {
	ID         string     `bson:"_id" json:"id"`
	TargetType TargetType `bson:"target_type" json:"target_type"`
	TargetID   string     `bson:"target_id" json:"target_id"`
	UserID     string     `bson:"user_id" json:"user_id"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	CreatedBy  string     `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// MemberChangeLog is append-only; never updated or deleted.
type MemberChangeLog struct {
	ID         string     `bson:"_id" json:"id"`
	ChangeType ChangeType `bson:"change_type" json:"change_type"`
	TargetType TargetType `bson:"target_type" json:"target_type"`
	TargetID   string     `bson:"target_id" json:"target_id"`
	UserID     string     `bson:"user_id" json:"user_id"`
	RoleIDs    []string   `bson:"role_ids,omitempty" json:"role_ids,omitempty"`
	OperatorID string     `bson:"operator_id" json:"operator_id"`
	Reason     string     `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
}

type UserPreference struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Key       string    `bson:"key" json:"key"`
	Value     string    `bson:"value" json:"value"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RolePermissions is a stored override of a role's default permissions.
type RolePermissions struct {
	RoleID      string    `bson:"role_id" json:"role_id"`
	Permissions []string  `bson:"permissions" json:"permissions"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy   string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// RoleWithUnits pairs a BU_BOUNDED role with the units where it is active.
type RoleWithUnits struct {
	Role          *Role           `json:"role"`
	BusinessUnits []*BusinessUnit `json:"business_units"`
}

// User is the directory's view of a person.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
}
