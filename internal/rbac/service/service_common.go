package service

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/metrics"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/notify"
	"taskrbac/internal/rbac/policy"
	"taskrbac/internal/rbac/repository"
	"taskrbac/internal/rbac/util"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type AccessService interface {
	// Role catalog and resolution
	CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.Role, error)
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	ListRoles(ctx context.Context, req model.ListRolesReq) ([]*model.Role, error)
	UpdateRoleStatus(ctx context.Context, callerID, roleID string, req model.UpdateRoleStatusReq) (*model.Role, error)
	GetUserRoles(ctx context.Context, userID string) ([]*model.Role, error)
	GetUserBuBoundedRoles(ctx context.Context, userID string) ([]*model.RoleWithUnits, error)
	GetUserBuUnboundedRoles(ctx context.Context, userID string) ([]*model.Role, error)
	HasRoleInBusinessUnit(ctx context.Context, userID, roleID, unitID string) (bool, error)
	GetUnactivatedBuBoundedRoles(ctx context.Context, userID string) ([]*model.Role, error)
	ShouldShowBuApplicationReminder(ctx context.Context, userID string) (bool, error)
	GetDontRemind(ctx context.Context, userID string) (bool, error)
	SetDontRemind(ctx context.Context, userID string, dontRemind bool) error
	ResetDontRemind(ctx context.Context, userID string) error

	// Permissions
	ListPermissions() []string
	GetUserPermissions(ctx context.Context, userID string) ([]string, error)
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
	GetRolePermissions(ctx context.Context, roleID string) ([]string, error)
	AssignRolePermissions(ctx context.Context, callerID, roleID string, req model.AssignRolePermissionsReq) ([]string, error)

	// Virtual groups
	CreateVirtualGroup(ctx context.Context, callerID string, req model.CreateVirtualGroupReq) (*model.VirtualGroup, error)
	ListVirtualGroups(ctx context.Context) ([]*model.VirtualGroup, error)
	BindRole(ctx context.Context, callerID, groupID string, req model.BindRoleReq) (*model.VirtualGroupRole, error)
	UnbindRole(ctx context.Context, callerID, groupID string) error
	GetBoundRole(ctx context.Context, groupID string) (*model.Role, error)
	GetBoundRoleID(ctx context.Context, groupID string) (string, bool, error)
	HasRole(ctx context.Context, groupID string) (bool, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]*model.VirtualGroupMember, error)

	// Business units
	CreateBusinessUnit(ctx context.Context, callerID string, req model.CreateBusinessUnitReq) (*model.BusinessUnit, error)
	ListBusinessUnits(ctx context.Context) ([]*model.BusinessUnit, error)
	AddUnitMember(ctx context.Context, callerID, unitID string, req model.AddUnitMemberReq) error
	RemoveUnitMember(ctx context.Context, callerID, unitID, userID string, req model.MemberReasonReq) error
	ListUnitMembers(ctx context.Context, unitID string) ([]*model.UserBusinessUnit, error)
	IsUnitMember(ctx context.Context, unitID, userID string) (bool, error)
	CountUnitMembers(ctx context.Context, unitID string) (int64, error)
	CountUserUnits(ctx context.Context, userID string) (int64, error)
	BindUnitRole(ctx context.Context, callerID, unitID string, req model.BindRoleReq) error
	UnbindUnitRole(ctx context.Context, callerID, unitID, roleID string) error
	ListUnitRoleIDs(ctx context.Context, unitID string) ([]string, error)
	IsUnitRoleEligible(ctx context.Context, unitID, roleID string) (bool, error)

	// Approvers
	AddApprover(ctx context.Context, callerID string, req model.AddApproverReq) (*model.Approver, error)
	RemoveApprover(ctx context.Context, callerID, approverID string) error
	RemoveApproverByTarget(ctx context.Context, callerID string, req model.ApproverTargetReq) error
	GetApprovers(ctx context.Context, targetType model.TargetType, targetID string) ([]*model.Approver, error)
	HasApprover(ctx context.Context, targetType model.TargetType, targetID string) (bool, error)
	IsApprover(ctx context.Context, targetType model.TargetType, targetID, userID string) (bool, error)
	IsAnyApprover(ctx context.Context, userID string) (bool, error)
	GetApproverTargetIDs(ctx context.Context, userID string, targetType model.TargetType) ([]string, error)

	// Permission requests
	CreatePermissionRequest(ctx context.Context, callerID string, req model.CreatePermissionRequestReq) (*model.PermissionRequest, error)
	ApprovePermissionRequest(ctx context.Context, callerID, requestID string, req model.ReviewPermissionRequestReq) (*model.PermissionRequest, error)
	RejectPermissionRequest(ctx context.Context, callerID, requestID string, req model.ReviewPermissionRequestReq) (*model.PermissionRequest, error)
	CancelPermissionRequest(ctx context.Context, callerID, requestID string) (*model.PermissionRequest, error)
	GetPermissionRequest(ctx context.Context, callerID, requestID string) (*model.RequestDetail, error)
	ListMyPermissionRequests(ctx context.Context, callerID string, req model.ListPermissionRequestsReq) (*model.RequestPage, error)
	ListPendingForApprover(ctx context.Context, callerID string, req model.ListPermissionRequestsReq) (*model.RequestPage, error)
	ListPermissionRequests(ctx context.Context, req model.ListPermissionRequestsReq) (*model.RequestPage, error)
	GetApplicableBusinessUnits(ctx context.Context, callerID string) ([]*model.BusinessUnit, error)

	// Membership
	ProcessApprovedRequest(ctx context.Context, req *model.PermissionRequest) error
	AddGroupMember(ctx context.Context, callerID, groupID string, req model.AddUnitMemberReq) error
	RemoveGroupMember(ctx context.Context, callerID, groupID, userID string, req model.MemberReasonReq) error
	RemoveBusinessUnitMember(ctx context.Context, callerID, unitID, userID string, req model.MemberReasonReq) error
	ExitVirtualGroup(ctx context.Context, callerID, groupID string, req model.MemberReasonReq) error
	ExitBusinessUnit(ctx context.Context, callerID, unitID string, req model.MemberReasonReq) error
	GetMemberChangeLogs(ctx context.Context, req model.GetMemberChangeLogsReq) (*model.GetMemberChangeLogsResp, error)

	// Tasks
	AssignTask(ctx context.Context, callerID, taskID string, req model.AssignTaskReq) (*model.TaskInfo, error)
	ClaimTask(ctx context.Context, callerID, taskID string) (*model.TaskInfo, error)
	UnclaimTask(ctx context.Context, callerID, taskID string) (*model.TaskInfo, error)
	DelegateTask(ctx context.Context, callerID, taskID string, req model.DelegateTaskReq) (*model.TaskInfo, error)
	TransferTask(ctx context.Context, callerID, taskID string, req model.TransferTaskReq) (*model.TaskInfo, error)
	CompleteTask(ctx context.Context, callerID, taskID string) (*model.TaskInfo, error)
	GetTask(ctx context.Context, taskID string) (*model.TaskInfo, error)
	CanDelegate(ctx context.Context, task *model.TaskInfo, userID string) (bool, error)
	GetVisibleTask(ctx context.Context, callerID, taskID string) (*model.TaskInfo, error)
	CanSeeTask(ctx context.Context, task *model.TaskInfo, userID string) (bool, error)
	GetTaskHistory(ctx context.Context, callerID, taskID string) ([]*model.TaskHistory, error)
	GetGroupTaskHistory(ctx context.Context, callerID, groupID string) ([]*model.TaskHistory, error)

	// Task queries
	GetVisibleTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error)
	GetGroupTasks(ctx context.Context, callerID, groupID string) ([]*model.TaskInfo, error)
	GetAllVisibleTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error)
	GetOverdueTasks(ctx context.Context, userID string) ([]*model.TaskInfo, error)
	GetDueSoonTasks(ctx context.Context, userID string, req model.ListTasksReq) ([]*model.TaskInfo, error)
	GetHighPriorityTasks(ctx context.Context, userID string, req model.ListTasksReq) ([]*model.TaskInfo, error)
	CountTasks(ctx context.Context, userID string) (*model.TaskCounts, error)

	// Assignment candidates
	GetUsersByUnitAndRole(ctx context.Context, unitID, roleID string) ([]*model.User, error)
	GetUsersByUnboundedRole(ctx context.Context, roleID string) ([]*model.User, error)
	GetParentUnitID(ctx context.Context, unitID string) (string, error)
	GetCandidates(ctx context.Context, unitID, roleID string) ([]*model.User, error)
}

// Deps are the collaborators of a Service. Optional ones get defaults in NewService.
type Deps struct {
	Repo       repository.AccessRepository
	Tasks      repository.TaskRepository
	History    repository.HistoryRepository
	Tx         repository.Transactor
	Policy     *policy.Engine
	Engine     adapter.TaskEngine
	Directory  adapter.Directory
	Membership adapter.MembershipChecker
	Notifier   notify.Notifier
	Metrics    *metrics.Metrics
	Clock      func() time.Time
}

type Service struct {
	Repo       repository.AccessRepository
	Tasks      repository.TaskRepository
	History    repository.HistoryRepository
	Tx         repository.Transactor
	Policy     *policy.Engine
	Engine     adapter.TaskEngine
	Directory  adapter.Directory
	Membership adapter.MembershipChecker
	Notifier   notify.Notifier
	Metrics    *metrics.Metrics

	now    func() time.Time
	tracer trace.Tracer
}

var _ AccessService = (*Service)(nil)

func NewService(deps Deps) *Service {
	if deps.Policy == nil {
		policyEngine, err := policy.NewEngine()
		if err != nil {
			// Policy engine is essential, panic if it fails to load
			panic("failed to initialize policy engine: " + err.Error())
		}
		deps.Policy = policyEngine
	}
	if deps.Tx == nil {
		deps.Tx = inline{}
	}
	if deps.Membership == nil {
		deps.Membership = adapter.NewLocalMembership(deps.Repo)
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return &Service{
		Repo:       deps.Repo,
		Tasks:      deps.Tasks,
		History:    deps.History,
		Tx:         deps.Tx,
		Policy:     deps.Policy,
		Engine:     deps.Engine,
		Directory:  deps.Directory,
		Membership: deps.Membership,
		Notifier:   deps.Notifier,
		Metrics:    deps.Metrics,
		now:        deps.Clock,
		tracer:     otel.Tracer("taskrbac/service"),
	}
}

// inline runs fn directly; used when no store transaction is available.
// A transient failure gets one replay, as the driver would give it.
type inline struct{}

func (inline) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if errors.Is(err, repository.ErrTransient) {
		return fn(ctx)
	}
	return err
}

// publish sends the event in the background; delivery never blocks or fails
// the operation that produced it.
func (s *Service) publish(event notify.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.Notifier.Publish(ctx, event); err != nil {
			s.Metrics.NotifyFailure()
			util.GetLogger().Warnw("failed to publish event",
				"event", event.Name,
				"subject", event.SubjectID,
				"error", err,
			)
		}
	}()
}
