package adapter

import (
	"context"
	"errors"
	"taskrbac/internal/rbac/model"
	"time"
)

var (
	// ErrEngine wraps every workflow engine failure other than a missing task.
	ErrEngine = errors.New("workflow engine call failed")
	// ErrDirectory wraps identity directory failures other than a missing user.
	ErrDirectory = errors.New("identity directory call failed")
)

// EngineTask is the workflow engine's view of a user task.
type EngineTask struct {
	ID                  string
	Name                string
	ProcessInstanceID   string
	ProcessDefinitionID string
	Assignee            string
	Priority            int
	DueDate             *time.Time
	CreateTime          time.Time
}

// TaskEngine mirrors assignment decisions into the external workflow engine.
type TaskEngine interface {
	// SetAssignee sets the engine assignee; an empty assignee clears it.
	SetAssignee(ctx context.Context, taskID, assignee string) error
	// GetTask returns nil when the engine has no such task.
	GetTask(ctx context.Context, taskID string) (*EngineTask, error)
	CompleteTask(ctx context.Context, taskID string) error
}

// Directory looks up users in the external identity provider.
type Directory interface {
	// FindUser returns nil when the user does not exist.
	FindUser(ctx context.Context, userID string) (*model.User, error)
	// FindUsersByIDs returns the users found; unknown ids are skipped.
	FindUsersByIDs(ctx context.Context, userIDs []string) ([]*model.User, error)
}

// UserCache is implemented by directories that cache lookups. Invalidate
// drops one user so the next lookup reaches the identity provider.
type UserCache interface {
	Invalidate(userID string)
}

// MembershipChecker answers eligibility questions for pool tasks.
type MembershipChecker interface {
	IsGroupMember(ctx context.Context, userID, groupID string) (bool, error)
	IsDeptRoleMember(ctx context.Context, userID, deptID, roleID string) (bool, error)
}
