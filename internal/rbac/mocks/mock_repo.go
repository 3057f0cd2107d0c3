package mocks

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/repository"

	"github.com/stretchr/testify/mock"
)

// MockAccessRepository is a shared mock implementation of repository.AccessRepository for testing.
type MockAccessRepository struct {
	mock.Mock
}

var (
	_ repository.AccessRepository  = (*MockAccessRepository)(nil)
	_ repository.TaskRepository    = (*MockTaskRepository)(nil)
	_ repository.HistoryRepository = (*MockHistoryRepository)(nil)
)

func (m *MockAccessRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAccessRepository) CreateRole(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockAccessRepository) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockAccessRepository) FindRolesByIDs(ctx context.Context, roleIDs []string) ([]*model.Role, error) {
	args := m.Called(ctx, roleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockAccessRepository) FindRoles(ctx context.Context, filter model.RoleFilter) ([]*model.Role, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockAccessRepository) UpdateRoleStatus(ctx context.Context, roleID string, status model.RoleStatus, updatedBy string) error {
	args := m.Called(ctx, roleID, status, updatedBy)
	return args.Error(0)
}

func (m *MockAccessRepository) CreateVirtualGroup(ctx context.Context, group *model.VirtualGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockAccessRepository) GetVirtualGroup(ctx context.Context, groupID string) (*model.VirtualGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VirtualGroup), args.Error(1)
}

func (m *MockAccessRepository) FindVirtualGroups(ctx context.Context) ([]*model.VirtualGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VirtualGroup), args.Error(1)
}

func (m *MockAccessRepository) GetGroupRole(ctx context.Context, groupID string) (*model.VirtualGroupRole, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VirtualGroupRole), args.Error(1)
}

func (m *MockAccessRepository) ReplaceGroupRole(ctx context.Context, binding *model.VirtualGroupRole) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *MockAccessRepository) DeleteGroupRole(ctx context.Context, groupID string) (bool, error) {
	args := m.Called(ctx, groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) FindGroupRolesByGroupIDs(ctx context.Context, groupIDs []string) ([]*model.VirtualGroupRole, error) {
	args := m.Called(ctx, groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VirtualGroupRole), args.Error(1)
}

func (m *MockAccessRepository) FindGroupIDsByRole(ctx context.Context, roleID string) ([]string, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) AddGroupMember(ctx context.Context, member *model.VirtualGroupMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockAccessRepository) RemoveGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) FindGroupIDsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) FindGroupMembers(ctx context.Context, groupID string) ([]*model.VirtualGroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VirtualGroupMember), args.Error(1)
}

func (m *MockAccessRepository) FindUserIDsByGroupIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	args := m.Called(ctx, groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) CreateBusinessUnit(ctx context.Context, unit *model.BusinessUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockAccessRepository) GetBusinessUnit(ctx context.Context, unitID string) (*model.BusinessUnit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessUnit), args.Error(1)
}

func (m *MockAccessRepository) FindBusinessUnits(ctx context.Context) ([]*model.BusinessUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BusinessUnit), args.Error(1)
}

func (m *MockAccessRepository) FindBusinessUnitsByIDs(ctx context.Context, unitIDs []string) ([]*model.BusinessUnit, error) {
	args := m.Called(ctx, unitIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BusinessUnit), args.Error(1)
}

func (m *MockAccessRepository) AddUnitMember(ctx context.Context, member *model.UserBusinessUnit) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockAccessRepository) RemoveUnitMember(ctx context.Context, unitID, userID string) (bool, error) {
	args := m.Called(ctx, unitID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsUnitMember(ctx context.Context, unitID, userID string) (bool, error) {
	args := m.Called(ctx, unitID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) FindUnitIDsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) CountUnitsByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessRepository) FindUnitMembers(ctx context.Context, unitID string) ([]*model.UserBusinessUnit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserBusinessUnit), args.Error(1)
}

func (m *MockAccessRepository) CountUnitMembers(ctx context.Context, unitID string) (int64, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessRepository) DeleteLegacyUnitRoles(ctx context.Context, unitID, userID string) (int64, error) {
	args := m.Called(ctx, unitID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessRepository) AddUnitRole(ctx context.Context, unitRole *model.BusinessUnitRole) error {
	args := m.Called(ctx, unitRole)
	return args.Error(0)
}

func (m *MockAccessRepository) RemoveUnitRole(ctx context.Context, unitID, roleID string) (bool, error) {
	args := m.Called(ctx, unitID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsUnitRole(ctx context.Context, unitID, roleID string) (bool, error) {
	args := m.Called(ctx, unitID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) FindUnitRoleIDs(ctx context.Context, unitID string) ([]string, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) CreateApprover(ctx context.Context, approver *model.Approver) error {
	args := m.Called(ctx, approver)
	return args.Error(0)
}

func (m *MockAccessRepository) GetApprover(ctx context.Context, approverID string) (*model.Approver, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Approver), args.Error(1)
}

func (m *MockAccessRepository) DeleteApprover(ctx context.Context, approverID string) (bool, error) {
	args := m.Called(ctx, approverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) DeleteApproverByTarget(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error) {
	args := m.Called(ctx, targetType, targetID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) FindApprovers(ctx context.Context, targetType model.TargetType, targetID string) ([]*model.Approver, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Approver), args.Error(1)
}

func (m *MockAccessRepository) IsApprover(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error) {
	args := m.Called(ctx, targetType, targetID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) HasApprover(ctx context.Context, targetType model.TargetType, targetID string) (bool, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) IsAnyApprover(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) FindApproverTargetIDs(ctx context.Context, userID string, targetType model.TargetType) ([]string, error) {
	args := m.Called(ctx, userID, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) FindTargetIDsWithApprover(ctx context.Context, targetType model.TargetType) ([]string, error) {
	args := m.Called(ctx, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessRepository) CreateRequest(ctx context.Context, req *model.PermissionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccessRepository) GetRequest(ctx context.Context, requestID string) (*model.PermissionRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PermissionRequest), args.Error(1)
}

func (m *MockAccessRepository) ExistsPendingRequest(ctx context.Context, applicantID, targetID string, requestType model.RequestType) (bool, error) {
	args := m.Called(ctx, applicantID, targetID, requestType)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepository) TransitionRequest(ctx context.Context, req *model.PermissionRequest, from model.RequestStatus) error {
	args := m.Called(ctx, req, from)
	return args.Error(0)
}

func (m *MockAccessRepository) FindRequests(ctx context.Context, filter model.RequestFilter) ([]*model.PermissionRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.PermissionRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccessRepository) GetPreference(ctx context.Context, userID, key string) (*model.UserPreference, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserPreference), args.Error(1)
}

func (m *MockAccessRepository) SetPreference(ctx context.Context, pref *model.UserPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockAccessRepository) DeletePreference(ctx context.Context, userID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

func (m *MockAccessRepository) FindRolePermissions(ctx context.Context, roleIDs []string) ([]*model.RolePermissions, error) {
	args := m.Called(ctx, roleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RolePermissions), args.Error(1)
}

func (m *MockAccessRepository) SetRolePermissions(ctx context.Context, perms *model.RolePermissions) error {
	args := m.Called(ctx, perms)
	return args.Error(0)
}
