package mocks

import (
	"context"
	"taskrbac/internal/rbac/model"

	"github.com/stretchr/testify/mock"
)

// MockTaskRepository is a mock implementation of repository.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) EnsureTaskIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTask(ctx context.Context, taskID string) (*model.TaskInfo, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskInfo), args.Error(1)
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, task *model.TaskInfo) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, task *model.TaskInfo) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindTasks(ctx context.Context, filter model.TaskFilter) ([]*model.TaskInfo, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskInfo), args.Error(1)
}

func (m *MockTaskRepository) CountTasks(ctx context.Context, filter model.TaskFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}


// MockHistoryRepository records change logs and task trail entries. The
// append methods succeed without an expectation so tests only set one when
// they assert on the call.
type MockHistoryRepository struct {
	mock.Mock
	Entries     []*model.MemberChangeLog
	TaskEntries []*model.TaskHistory
}

func (m *MockHistoryRepository) AppendChangeLog(ctx context.Context, entry *model.MemberChangeLog) error {
	m.Entries = append(m.Entries, entry)
	if !m.expects("AppendChangeLog") {
		return nil
	}
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindChangeLogs(ctx context.Context, req model.GetMemberChangeLogsReq) ([]*model.MemberChangeLog, int64, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.MemberChangeLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockHistoryRepository) AppendTaskHistory(ctx context.Context, entry *model.TaskHistory) error {
	m.TaskEntries = append(m.TaskEntries, entry)
	if !m.expects("AppendTaskHistory") {
		return nil
	}
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindTaskHistory(ctx context.Context, taskID string) ([]*model.TaskHistory, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskHistory), args.Error(1)
}

func (m *MockHistoryRepository) FindGroupTaskHistory(ctx context.Context, groupID string) ([]*model.TaskHistory, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskHistory), args.Error(1)
}

func (m *MockHistoryRepository) EnsureHistoryIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHistoryRepository) expects(method string) bool {
	for _, c := range m.ExpectedCalls {
		if c.Method == method {
			return true
		}
	}
	return false
}
