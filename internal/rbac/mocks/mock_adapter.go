package mocks

import (
	"context"
	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/model"

	"github.com/stretchr/testify/mock"
)

// MockTaskEngine is a mock implementation of adapter.TaskEngine.
type MockTaskEngine struct {
	mock.Mock
}

var (
	_ adapter.TaskEngine        = (*MockTaskEngine)(nil)
	_ adapter.Directory         = (*MockDirectory)(nil)
	_ adapter.UserCache         = (*MockDirectory)(nil)
	_ adapter.MembershipChecker = (*MockMembershipChecker)(nil)
)

func (m *MockTaskEngine) SetAssignee(ctx context.Context, taskID, assignee string) error {
	args := m.Called(ctx, taskID, assignee)
	return args.Error(0)
}

func (m *MockTaskEngine) GetTask(ctx context.Context, taskID string) (*adapter.EngineTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adapter.EngineTask), args.Error(1)
}

func (m *MockTaskEngine) CompleteTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockDirectory is a mock implementation of adapter.Directory.
type MockDirectory struct {
	mock.Mock
	// Invalidated records the users dropped from the cache.
	Invalidated []string
}

func (m *MockDirectory) FindUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockDirectory) FindUsersByIDs(ctx context.Context, userIDs []string) ([]*model.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockDirectory) Invalidate(userID string) {
	m.Invalidated = append(m.Invalidated, userID)
}

// MockMembershipChecker is a mock implementation of adapter.MembershipChecker.
type MockMembershipChecker struct {
	mock.Mock
}

func (m *MockMembershipChecker) IsGroupMember(ctx context.Context, userID, groupID string) (bool, error) {
	args := m.Called(ctx, userID, groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipChecker) IsDeptRoleMember(ctx context.Context, userID, deptID, roleID string) (bool, error) {
	args := m.Called(ctx, userID, deptID, roleID)
	return args.Bool(0), args.Error(1)
}
