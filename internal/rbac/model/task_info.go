package model

import (
	"strings"
	"time"
)

// TaskInfo extends an engine task with assignment, claim and delegation state.
type TaskInfo struct {
	ID                  string         `bson:"_id" json:"id"`
	TaskID              string         `bson:"task_id" json:"task_id"`
	ProcessInstanceID   string         `bson:"process_instance_id" json:"process_instance_id"`
	ProcessDefinitionID string         `bson:"process_definition_id,omitempty" json:"process_definition_id,omitempty"`
	TaskName            string         `bson:"task_name,omitempty" json:"task_name,omitempty"`
	AssignmentType      AssignmentType `bson:"assignment_type" json:"assignment_type"`
	AssignmentTarget    string         `bson:"assignment_target" json:"assignment_target"`
	Priority            int            `bson:"priority" json:"priority"`
	DueDate             *time.Time     `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Status              TaskStatus     `bson:"status" json:"status"`

	ClaimedBy   string     `bson:"claimed_by,omitempty" json:"claimed_by,omitempty"`
	ClaimedTime *time.Time `bson:"claimed_time,omitempty" json:"claimed_time,omitempty"`

	DelegatedTo      string     `bson:"delegated_to,omitempty" json:"delegated_to,omitempty"`
	DelegatedBy      string     `bson:"delegated_by,omitempty" json:"delegated_by,omitempty"`
	DelegationReason string     `bson:"delegation_reason,omitempty" json:"delegation_reason,omitempty"`
	DelegatedTime    *time.Time `bson:"delegated_time,omitempty" json:"delegated_time,omitempty"`

	CompletedBy   string     `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
	CompletedTime *time.Time `bson:"completed_time,omitempty" json:"completed_time,omitempty"`

	CreatedTime time.Time `bson:"created_time" json:"created_time"`
	CreatedBy   string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedTime time.Time `bson:"updated_time" json:"updated_time"`
	UpdatedBy   string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Version     int64     `bson:"version" json:"version"`
}

func (t *TaskInfo) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

func (t *TaskInfo) IsDelegated() bool {
	return t.Status == TaskStatusDelegated && t.DelegatedTo != ""
}

func (t *TaskInfo) IsClaimed() bool {
	return t.ClaimedBy != ""
}

func (t *TaskInfo) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate != nil && t.DueDate.Before(now)
}

// CurrentAssignee resolves delegatee, then claimant, then direct user target.
// An unclaimed pool task has no individual owner and yields "".
func (t *TaskInfo) CurrentAssignee() string {
	if t.IsDelegated() {
		return t.DelegatedTo
	}
	if t.IsClaimed() {
		return t.ClaimedBy
	}
	if t.AssignmentType == AssignmentTypeUser {
		return t.AssignmentTarget
	}
	return ""
}

// Assign starts a fresh assignment cycle, dropping any claim or delegation.
func (t *TaskInfo) Assign(assignmentType AssignmentType, target string, priority int, dueDate *time.Time, operatorID string, now time.Time) {
	t.AssignmentType = assignmentType
	t.AssignmentTarget = target
	t.Priority = priority
	if dueDate != nil {
		t.DueDate = dueDate
	}
	t.Status = TaskStatusAssigned
	t.clearClaim()
	t.clearDelegation()
	t.UpdatedBy = operatorID
	t.UpdatedTime = now
}

func (t *TaskInfo) Claim(userID string, now time.Time) {
	t.ClaimedBy = userID
	t.ClaimedTime = &now
	t.UpdatedBy = userID
	t.UpdatedTime = now
}

func (t *TaskInfo) Unclaim(userID string, now time.Time) {
	t.clearClaim()
	t.UpdatedBy = userID
	t.UpdatedTime = now
}

func (t *TaskInfo) Delegate(to, by, reason string, now time.Time) {
	t.Status = TaskStatusDelegated
	t.DelegatedTo = to
	t.DelegatedBy = by
	t.DelegationReason = reason
	t.DelegatedTime = &now
	t.UpdatedBy = by
	t.UpdatedTime = now
}

// Complete freezes every other field as-is for audit.
func (t *TaskInfo) Complete(userID string, now time.Time) {
	t.Status = TaskStatusCompleted
	t.CompletedBy = userID
	t.CompletedTime = &now
	t.UpdatedBy = userID
	t.UpdatedTime = now
}

func (t *TaskInfo) clearClaim() {
	t.ClaimedBy = ""
	t.ClaimedTime = nil
}

func (t *TaskInfo) clearDelegation() {
	t.DelegatedTo = ""
	t.DelegatedBy = ""
	t.DelegationReason = ""
	t.DelegatedTime = nil
}

// ParseDeptRoleTarget splits "deptId:roleId".
func ParseDeptRoleTarget(target string) (deptID, roleID string, ok bool) {
	parts := strings.Split(target, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	deptID = strings.TrimSpace(parts[0])
	roleID = strings.TrimSpace(parts[1])
	if deptID == "" || roleID == "" {
		return "", "", false
	}
	return deptID, roleID, true
}

// DeptRoleTarget builds the composite target stored for DEPT_ROLE tasks.
func DeptRoleTarget(deptID, roleID string) string {
	return deptID + ":" + roleID
}

// ValidateAssignment checks an assignment before any persistence happens.
func ValidateAssignment(assignmentType AssignmentType, target string, priority int) *ErrorDetail {
	if !assignmentType.IsValid() {
		return &ErrorDetail{Code: CodeInvalidTarget, Message: "invalid assignment type: " + string(assignmentType)}
	}
	if strings.TrimSpace(target) == "" {
		return &ErrorDetail{Code: CodeInvalidTarget, Message: "assignment target is required"}
	}
	if assignmentType == AssignmentTypeDeptRole {
		if _, _, ok := ParseDeptRoleTarget(target); !ok {
			return &ErrorDetail{Code: CodeInvalidTarget, Message: "dept role target must be deptId:roleId"}
		}
	}
	if priority < MinPriority || priority > MaxPriority {
		return &ErrorDetail{Code: CodeInvalidPriority, Message: "priority must be between 0 and 100"}
	}
	return nil
}

// TaskFilter selects tasks; empty fields are ignored.
type TaskFilter struct {
	AssignmentType    AssignmentType
	AssignmentTargets []string
	Status            TaskStatus
	DelegatedTo       string
	ClaimedBy         string
	// UnclaimedOnly keeps tasks nobody has claimed.
	UnclaimedOnly bool
	// OpenOnly drops completed tasks.
	OpenOnly    bool
	DueBefore   *time.Time
	DueAfter    *time.Time
	MinPriority *int
	Limit       int64
}

// TaskHistory is one append-only entry of a task's assignment trail.
// GroupID is set while the task belongs to a virtual group pool.
type TaskHistory struct {
	ID               string         `bson:"_id" json:"id"`
	TaskID           string         `bson:"task_id" json:"task_id"`
	GroupID          string         `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Action           TaskAction     `bson:"action" json:"action"`
	AssignmentType   AssignmentType `bson:"assignment_type" json:"assignment_type"`
	AssignmentTarget string         `bson:"assignment_target" json:"assignment_target"`
	FromUserID       string         `bson:"from_user_id,omitempty" json:"from_user_id,omitempty"`
	ToUserID         string         `bson:"to_user_id,omitempty" json:"to_user_id,omitempty"`
	OperatorID       string         `bson:"operator_id" json:"operator_id"`
	Reason           string         `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
}

// TaskCounts summarizes a user's workload.
type TaskCounts struct {
	Todo    int64 `json:"todo"`
	Overdue int64 `json:"overdue"`
}
