package repository

import (
	"context"
	"taskrbac/internal/rbac/model"
	"taskrbac/internal/rbac/util"
	"time"
)

// HistoryRepository stores the append-only member change log and task trail.
type HistoryRepository interface {
	// AppendChangeLog creates a new change log record (append-only)
	AppendChangeLog(ctx context.Context, entry *model.MemberChangeLog) error
	// FindChangeLogs finds change log records with pagination and filtering
	FindChangeLogs(ctx context.Context, req model.GetMemberChangeLogsReq) ([]*model.MemberChangeLog, int64, error)
	// AppendTaskHistory records one task assignment action (append-only)
	AppendTaskHistory(ctx context.Context, entry *model.TaskHistory) error
	// FindTaskHistory returns a task's trail, newest first
	FindTaskHistory(ctx context.Context, taskID string) ([]*model.TaskHistory, error)
	// FindGroupTaskHistory returns the trail of tasks routed to a group, newest first
	FindGroupTaskHistory(ctx context.Context, groupID string) ([]*model.TaskHistory, error)
	// EnsureHistoryIndexes creates indexes for efficient querying
	EnsureHistoryIndexes(ctx context.Context) error
}

// HistoryEntry is a helper struct for creating change log records
type HistoryEntry struct {
	ChangeType model.ChangeType
	TargetType model.TargetType
	TargetID   string
	UserID     string
	RoleIDs    []string
	OperatorID string
	Reason     string
}

// ToChangeLog converts HistoryEntry to MemberChangeLog with id and timestamp
func (e *HistoryEntry) ToChangeLog() *model.MemberChangeLog {
	return &model.MemberChangeLog{
		ID:         util.NewID(),
		ChangeType: e.ChangeType,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		UserID:     e.UserID,
		RoleIDs:    e.RoleIDs,
		OperatorID: e.OperatorID,
		Reason:     e.Reason,
		CreatedAt:  time.Now(),
	}
}
