package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskrbac/internal/rbac/adapter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
	User   string
}

func newEngineServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*adapter.FlowableClient, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path}
		call.User, _, _ = r.BasicAuth()
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		}
		*calls = append(*calls, call)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return adapter.NewFlowableClient(srv.URL+"/flowable-rest/service/", "admin", "secret", 2*time.Second), calls
}

func TestFlowableSetAssignee(t *testing.T) {
	client, calls := newEngineServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.SetAssignee(context.Background(), "T1", "U1"))
	require.NoError(t, client.SetAssignee(context.Background(), "T1", ""))

	require.Len(t, *calls, 2)
	first := (*calls)[0]
	assert.Equal(t, http.MethodPut, first.Method)
	assert.Equal(t, "/flowable-rest/service/runtime/tasks/T1", first.Path)
	assert.Equal(t, "admin", first.User)
	assert.Equal(t, "U1", first.Body["assignee"])

	second := (*calls)[1]
	assert.Contains(t, second.Body, "assignee")
	assert.Nil(t, second.Body["assignee"])
}

func TestFlowableGetTask(t *testing.T) {
	client, _ := newEngineServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flowable-rest/service/runtime/tasks/T1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "T1",
			"name": "Review invoice",
			"processInstanceId": "P1",
			"processDefinitionId": "invoice:1:4",
			"assignee": null,
			"priority": 50,
			"dueDate": "2026-03-01T09:00:00.000+0000",
			"createTime": "2026-02-20T08:30:00.000+0000"
		}`))
	})

	t.Run("found", func(t *testing.T) {
		task, err := client.GetTask(context.Background(), "T1")
		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Equal(t, "P1", task.ProcessInstanceID)
		assert.Equal(t, "Review invoice", task.Name)
		assert.Empty(t, task.Assignee)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), task.DueDate.UTC())
		assert.Equal(t, 2026, task.CreateTime.Year())
	})

	t.Run("missing task is nil", func(t *testing.T) {
		task, err := client.GetTask(context.Background(), "T404")
		require.NoError(t, err)
		assert.Nil(t, task)
	})
}

func TestFlowableCompleteTask(t *testing.T) {
	t.Run("posts complete action", func(t *testing.T) {
		client, calls := newEngineServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, client.CompleteTask(context.Background(), "T1"))
		require.Len(t, *calls, 1)
		assert.Equal(t, http.MethodPost, (*calls)[0].Method)
		assert.Equal(t, "complete", (*calls)[0].Body["action"])
	})

	t.Run("server error wraps ErrEngine", func(t *testing.T) {
		client, _ := newEngineServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.CompleteTask(context.Background(), "T1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, adapter.ErrEngine))
	})
}
