package handler

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/service"

	"github.com/stretchr/testify/mock"
)

// MockAccessService stands in for the service layer in handler tests.
type MockAccessService struct {
	mock.Mock
}

var _ service.AccessService = (*MockAccessService)(nil)

func (m *MockAccessService) CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.Role, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockAccessService) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockAccessService) ListRoles(ctx context.Context, req model.ListRolesReq) ([]*model.Role, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockAccessService) UpdateRoleStatus(ctx context.Context, callerID string, roleID string, req model.UpdateRoleStatusReq) (*model.Role, error) {
	args := m.Called(ctx, callerID, roleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockAccessService) GetUserRoles(ctx context.Context, userID string) ([]*model.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockAccessService) GetUserBuBoundedRoles(ctx context.Context, userID string) ([]*model.RoleWithUnits, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RoleWithUnits), args.Error(1)
}

func (m *MockAccessService) GetUserBuUnboundedRoles(ctx context.Context, userID string) ([]*model.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockAccessService) HasRoleInBusinessUnit(ctx context.Context, userID string, roleID string, unitID string) (bool, error) {
	args := m.Called(ctx, userID, roleID, unitID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) GetUnactivatedBuBoundedRoles(ctx context.Context, userID string) ([]*model.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockAccessService) ShouldShowBuApplicationReminder(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) GetDontRemind(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) SetDontRemind(ctx context.Context, userID string, dontRemind bool) error {
	args := m.Called(ctx, userID, dontRemind)
	return args.Error(0)
}

func (m *MockAccessService) ResetDontRemind(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAccessService) ListPermissions() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockAccessService) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessService) HasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) GetRolePermissions(ctx context.Context, roleID string) ([]string, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessService) AssignRolePermissions(ctx context.Context, callerID string, roleID string, req model.AssignRolePermissionsReq) ([]string, error) {
	args := m.Called(ctx, callerID, roleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessService) CreateVirtualGroup(ctx context.Context, callerID string, req model.CreateVirtualGroupReq) (*model.VirtualGroup, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VirtualGroup), args.Error(1)
}

func (m *MockAccessService) ListVirtualGroups(ctx context.Context) ([]*model.VirtualGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VirtualGroup), args.Error(1)
}

func (m *MockAccessService) BindRole(ctx context.Context, callerID string, groupID string, req model.BindRoleReq) (*model.VirtualGroupRole, error) {
	args := m.Called(ctx, callerID, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VirtualGroupRole), args.Error(1)
}

func (m *MockAccessService) UnbindRole(ctx context.Context, callerID string, groupID string) error {
	args := m.Called(ctx, callerID, groupID)
	return args.Error(0)
}

func (m *MockAccessService) GetBoundRole(ctx context.Context, groupID string) (*model.Role, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockAccessService) GetBoundRoleID(ctx context.Context, groupID string) (string, bool, error) {
	args := m.Called(ctx, groupID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAccessService) HasRole(ctx context.Context, groupID string) (bool, error) {
	args := m.Called(ctx, groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) ListGroupMembers(ctx context.Context, groupID string) ([]*model.VirtualGroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VirtualGroupMember), args.Error(1)
}

func (m *MockAccessService) CreateBusinessUnit(ctx context.Context, callerID string, req model.CreateBusinessUnitReq) (*model.BusinessUnit, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessUnit), args.Error(1)
}

func (m *MockAccessService) ListBusinessUnits(ctx context.Context) ([]*model.BusinessUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BusinessUnit), args.Error(1)
}

func (m *MockAccessService) AddUnitMember(ctx context.Context, callerID string, unitID string, req model.AddUnitMemberReq) error {
	args := m.Called(ctx, callerID, unitID, req)
	return args.Error(0)
}

func (m *MockAccessService) RemoveUnitMember(ctx context.Context, callerID string, unitID string, userID string, req model.MemberReasonReq) error {
	args := m.Called(ctx, callerID, unitID, userID, req)
	return args.Error(0)
}

func (m *MockAccessService) ListUnitMembers(ctx context.Context, unitID string) ([]*model.UserBusinessUnit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserBusinessUnit), args.Error(1)
}

func (m *MockAccessService) IsUnitMember(ctx context.Context, unitID string, userID string) (bool, error) {
	args := m.Called(ctx, unitID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) CountUnitMembers(ctx context.Context, unitID string) (int64, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessService) CountUserUnits(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessService) BindUnitRole(ctx context.Context, callerID string, unitID string, req model.BindRoleReq) error {
	args := m.Called(ctx, callerID, unitID, req)
	return args.Error(0)
}

func (m *MockAccessService) UnbindUnitRole(ctx context.Context, callerID string, unitID string, roleID string) error {
	args := m.Called(ctx, callerID, unitID, roleID)
	return args.Error(0)
}

func (m *MockAccessService) ListUnitRoleIDs(ctx context.Context, unitID string) ([]string, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessService) IsUnitRoleEligible(ctx context.Context, unitID string, roleID string) (bool, error) {
	args := m.Called(ctx, unitID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) AddApprover(ctx context.Context, callerID string, req model.AddApproverReq) (*model.Approver, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Approver), args.Error(1)
}

func (m *MockAccessService) RemoveApprover(ctx context.Context, callerID string, approverID string) error {
	args := m.Called(ctx, callerID, approverID)
	return args.Error(0)
}

func (m *MockAccessService) RemoveApproverByTarget(ctx context.Context, callerID string, req model.ApproverTargetReq) error {
	args := m.Called(ctx, callerID, req)
	return args.Error(0)
}

func (m *MockAccessService) GetApprovers(ctx context.Context, targetType model.TargetType, targetID string) ([]*model.Approver, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Approver), args.Error(1)
}

func (m *MockAccessService) HasApprover(ctx context.Context, targetType model.TargetType, targetID string) (bool, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) IsApprover(ctx context.Context, targetType model.TargetType, targetID string, userID string) (bool, error) {
	args := m.Called(ctx, targetType, targetID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) IsAnyApprover(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) GetApproverTargetIDs(ctx context.Context, userID string, targetType model.TargetType) ([]string, error) {
	args := m.Called(ctx, userID, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccessService) CreatePermissionRequest(ctx context.Context, callerID string, req model.CreatePermissionRequestReq) (*model.PermissionRequest, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PermissionRequest), args.Error(1)
}

func (m *MockAccessService) ApprovePermissionRequest(ctx context.Context, callerID string, requestID string, req model.ReviewPermissionRequestReq) (*model.PermissionRequest, error) {
	args := m.Called(ctx, callerID, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PermissionRequest), args.Error(1)
}

func (m *MockAccessService) RejectPermissionRequest(ctx context.Context, callerID string, requestID string, req model.ReviewPermissionRequestReq) (*model.PermissionRequest, error) {
	args := m.Called(ctx, callerID, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PermissionRequest), args.Error(1)
}

func (m *MockAccessService) CancelPermissionRequest(ctx context.Context, callerID string, requestID string) (*model.PermissionRequest, error) {
	args := m.Called(ctx, callerID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PermissionRequest), args.Error(1)
}

func (m *MockAccessService) GetPermissionRequest(ctx context.Context, callerID string, requestID string) (*model.RequestDetail, error) {
	args := m.Called(ctx, callerID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestDetail), args.Error(1)
}

func (m *MockAccessService) ListMyPermissionRequests(ctx context.Context, callerID string, req model.ListPermissionRequestsReq) (*model.RequestPage, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestPage), args.Error(1)
}

func (m *MockAccessService) ListPendingForApprover(ctx context.Context, callerID string, req model.ListPermissionRequestsReq) (*model.RequestPage, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestPage), args.Error(1)
}

func (m *MockAccessService) ListPermissionRequests(ctx context.Context, req model.ListPermissionRequestsReq) (*model.RequestPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestPage), args.Error(1)
}

func (m *MockAccessService) GetApplicableBusinessUnits(ctx context.Context, callerID string) ([]*model.BusinessUnit, error) {
	args := m.Called(ctx, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BusinessUnit), args.Error(1)
}

func (m *MockAccessService) ProcessApprovedRequest(ctx context.Context, req *model.PermissionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccessService) AddGroupMember(ctx context.Context, callerID string, groupID string, req model.AddUnitMemberReq) error {
	args := m.Called(ctx, callerID, groupID, req)
	return args.Error(0)
}

func (m *MockAccessService) RemoveGroupMember(ctx context.Context, callerID string, groupID string, userID string, req model.MemberReasonReq) error {
	args := m.Called(ctx, callerID, groupID, userID, req)
	return args.Error(0)
}

func (m *MockAccessService) RemoveBusinessUnitMember(ctx context.Context, callerID string, unitID string, userID string, req model.MemberReasonReq) error {
	args := m.Called(ctx, callerID, unitID, userID, req)
	return args.Error(0)
}

func (m *MockAccessService) ExitVirtualGroup(ctx context.Context, callerID string, groupID string, req model.MemberReasonReq) error {
	args := m.Called(ctx, callerID, groupID, req)
	return args.Error(0)
}

func (m *MockAccessService) ExitBusinessUnit(ctx context.Context, callerID string, unitID string, req model.MemberReasonReq) error {
	args := m.Called(ctx, callerID, unitID, req)
	return args.Error(0)
}

func (m *MockAccessService) GetMemberChangeLogs(ctx context.Context, req model.GetMemberChangeLogsReq) (*model.GetMemberChangeLogsResp, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GetMemberChangeLogsResp), args.Error(1)
}

func (m *MockAccessService) AssignTask(ctx context.Context, callerID string, taskID string, req model.AssignTaskReq) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) ClaimTask(ctx context.Context, callerID string, taskID string) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) UnclaimTask(ctx context.Context, callerID string, taskID string) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) DelegateTask(ctx context.Context, callerID string, taskID string, req model.DelegateTaskReq) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) TransferTask(ctx context.Context, callerID string, taskID string, req model.TransferTaskReq) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) CompleteTask(ctx context.Context, callerID string, taskID string) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetTask(ctx context.Context, taskID string) (*model.TaskInfo, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetVisibleTask(ctx context.Context, callerID string, taskID string) (*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) CanSeeTask(ctx context.Context, task *model.TaskInfo, userID string) (bool, error) {
	args := m.Called(ctx, task, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) GetTaskHistory(ctx context.Context, callerID string, taskID string) ([]*model.TaskHistory, error) {
	args := m.Called(ctx, callerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskHistory), args.Error(1)
}

func (m *MockAccessService) GetGroupTaskHistory(ctx context.Context, callerID string, groupID string) ([]*model.TaskHistory, error) {
	args := m.Called(ctx, callerID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskHistory), args.Error(1)
}

func (m *MockAccessService) CanDelegate(ctx context.Context, task *model.TaskInfo, userID string) (bool, error) {
	args := m.Called(ctx, task, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) GetVisibleTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetGroupTasks(ctx context.Context, callerID string, groupID string) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, callerID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetAllVisibleTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetOverdueTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetDueSoonTasks(ctx context.Context, userID string, req model.ListTasksReq) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) GetHighPriorityTasks(ctx context.Context, userID string, req model.ListTasksReq) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockAccessService) CountTasks(ctx context.Context, userID string) (*model.TaskCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskCounts), args.Error(1)
}

func (m *MockAccessService) GetUsersByUnitAndRole(ctx context.Context, unitID string, roleID string) ([]*model.User, error) {
	args := m.Called(ctx, unitID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockAccessService) GetUsersByUnboundedRole(ctx context.Context, roleID string) ([]*model.User, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockAccessService) GetParentUnitID(ctx context.Context, unitID string) (string, error) {
	args := m.Called(ctx, unitID)
	return args.String(0), args.Error(1)
}

func (m *MockAccessService) GetCandidates(ctx context.Context, unitID string, roleID string) ([]*model.User, error) {
	args := m.Called(ctx, unitID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
