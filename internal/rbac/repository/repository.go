package repository

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/model"
)

var (
	ErrDuplicate = errors.New("duplicate record")
	// ErrVersionConflict means the task changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
	// ErrStaleState means a conditional update matched nothing.
	ErrStaleState = errors.New("record not in expected state")
	// ErrTransient means the transaction lost a race and should be replayed.
	ErrTransient = errors.New("transient transaction failure")
)

// transientTransactionLabel is the driver label session.WithTransaction
// replays the callback on.
const transientTransactionLabel = "TransientTransactionError"

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func (e *transientError) Is(target error) bool { return target == ErrTransient }

func (e *transientError) HasErrorLabel(label string) bool {
	return label == transientTransactionLabel
}

// Transient marks err so the surrounding transaction runs again. The server
// has already aborted a transaction that hit a write error.
func Transient(err error) error {
	return &transientError{err: err}
}

// Transactor runs fn in one store transaction. Repository calls made with the
// ctx passed to fn take part in it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccessRepository stores the role catalog, bindings, memberships, approvers,
// permission requests and preferences. Getters return (nil, nil) when absent.
type AccessRepository interface {
	EnsureIndexes(ctx context.Context) error

	// Roles
	CreateRole(ctx context.Context, role *model.Role) error
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	FindRolesByIDs(ctx context.Context, roleIDs []string) ([]*model.Role, error)
	FindRoles(ctx context.Context, filter model.RoleFilter) ([]*model.Role, error)
	UpdateRoleStatus(ctx context.Context, roleID string, status model.RoleStatus, updatedBy string) error

	// Virtual groups and their single role binding
	CreateVirtualGroup(ctx context.Context, group *model.VirtualGroup) error
	GetVirtualGroup(ctx context.Context, groupID string) (*model.VirtualGroup, error)
	FindVirtualGroups(ctx context.Context) ([]*model.VirtualGroup, error)
	GetGroupRole(ctx context.Context, groupID string) (*model.VirtualGroupRole, error)
	// ReplaceGroupRole swaps the binding in a single write keyed by group.
	ReplaceGroupRole(ctx context.Context, binding *model.VirtualGroupRole) error
	DeleteGroupRole(ctx context.Context, groupID string) (bool, error)
	FindGroupRolesByGroupIDs(ctx context.Context, groupIDs []string) ([]*model.VirtualGroupRole, error)
	FindGroupIDsByRole(ctx context.Context, roleID string) ([]string, error)

	// Virtual group membership
	AddGroupMember(ctx context.Context, member *model.VirtualGroupMember) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) (bool, error)
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
	FindGroupIDsByUser(ctx context.Context, userID string) ([]string, error)
	FindGroupMembers(ctx context.Context, groupID string) ([]*model.VirtualGroupMember, error)
	FindUserIDsByGroupIDs(ctx context.Context, groupIDs []string) ([]string, error)

	// Business units, membership and role eligibility
	CreateBusinessUnit(ctx context.Context, unit *model.BusinessUnit) error
	GetBusinessUnit(ctx context.Context, unitID string) (*model.BusinessUnit, error)
	FindBusinessUnits(ctx context.Context) ([]*model.BusinessUnit, error)
	FindBusinessUnitsByIDs(ctx context.Context, unitIDs []string) ([]*model.BusinessUnit, error)
	AddUnitMember(ctx context.Context, member *model.UserBusinessUnit) error
	RemoveUnitMember(ctx context.Context, unitID, userID string) (bool, error)
	IsUnitMember(ctx context.Context, unitID, userID string) (bool, error)
	FindUnitIDsByUser(ctx context.Context, userID string) ([]string, error)
	CountUnitsByUser(ctx context.Context, userID string) (int64, error)
	FindUnitMembers(ctx context.Context, unitID string) ([]*model.UserBusinessUnit, error)
	CountUnitMembers(ctx context.Context, unitID string) (int64, error)
	// DeleteLegacyUnitRoles purges per-unit role rows left from the old assignment model.
	DeleteLegacyUnitRoles(ctx context.Context, unitID, userID string) (int64, error)
	AddUnitRole(ctx context.Context, unitRole *model.BusinessUnitRole) error
	RemoveUnitRole(ctx context.Context, unitID, roleID string) (bool, error)
	IsUnitRole(ctx context.Context, unitID, roleID string) (bool, error)
	FindUnitRoleIDs(ctx context.Context, unitID string) ([]string, error)

	// Approvers
	CreateApprover(ctx context.Context, approver *model.Approver) error
	GetApprover(ctx context.Context, approverID string) (*model.Approver, error)
	DeleteApprover(ctx context.Context, approverID string) (bool, error)
	DeleteApproverByTarget(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error)
	FindApprovers(ctx context.Context, targetType model.TargetType, targetID string) ([]*model.Approver, error)
	IsApprover(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error)
	HasApprover(ctx context.Context, targetType model.TargetType, targetID string) (bool, error)
	IsAnyApprover(ctx context.Context, userID string) (bool, error)
	FindApproverTargetIDs(ctx context.Context, userID string, targetType model.TargetType) ([]string, error)
	FindTargetIDsWithApprover(ctx context.Context, targetType model.TargetType) ([]string, error)

	// Permission requests
	CreateRequest(ctx context.Context, req *model.PermissionRequest) error
	GetRequest(ctx context.Context, requestID string) (*model.PermissionRequest, error)
	ExistsPendingRequest(ctx context.Context, applicantID, targetID string, requestType model.RequestType) (bool, error)
	// TransitionRequest persists req's decision fields if the stored status is still from.
	TransitionRequest(ctx context.Context, req *model.PermissionRequest, from model.RequestStatus) error
	FindRequests(ctx context.Context, filter model.RequestFilter) ([]*model.PermissionRequest, int64, error)

	// Preferences
	GetPreference(ctx context.Context, userID, key string) (*model.UserPreference, error)
	SetPreference(ctx context.Context, pref *model.UserPreference) error
	DeletePreference(ctx context.Context, userID, key string) error

	// Role permission overrides
	FindRolePermissions(ctx context.Context, roleIDs []string) ([]*model.RolePermissions, error)
	SetRolePermissions(ctx context.Context, perms *model.RolePermissions) error
}

// TaskRepository stores the extended task records.
type TaskRepository interface {
	EnsureTaskIndexes(ctx context.Context) error
	GetTask(ctx context.Context, taskID string) (*model.TaskInfo, error)
	CreateTask(ctx context.Context, task *model.TaskInfo) error
	// UpdateTask writes task if its version is unchanged and bumps the version.
	UpdateTask(ctx context.Context, task *model.TaskInfo) error
	FindTasks(ctx context.Context, filter model.TaskFilter) ([]*model.TaskInfo, error)
	CountTasks(ctx context.Context, filter model.TaskFilter) (int64, error)
}
