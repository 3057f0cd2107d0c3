package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// FlowableClient implements TaskEngine over the Flowable REST API.
type FlowableClient struct {
	client *resty.Client
}

func NewFlowableClient(baseURL, username, password string, timeout time.Duration) *FlowableClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if username != "" {
		client.SetBasicAuth(username, password)
	}
	return &FlowableClient{client: client}
}

type flowableTask struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	ProcessInstanceID   string       `json:"processInstanceId"`
	ProcessDefinitionID string       `json:"processDefinitionId"`
	Assignee            string       `json:"assignee"`
	Priority            int          `json:"priority"`
	DueDate             flowableTime `json:"dueDate"`
	CreateTime          flowableTime `json:"createTime"`
}

// flowableTime accepts the engine's "+0000" offsets as well as RFC 3339.
type flowableTime struct {
	time.Time
}

var flowableLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
}

func (t *flowableTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		// null or non-string leaves the zero time
		return nil
	}
	for _, layout := range flowableLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized engine time %q", s)
}

func (c *FlowableClient) SetAssignee(ctx context.Context, taskID, assignee string) error {
	body := map[string]interface{}{"assignee": nil}
	if assignee != "" {
		body["assignee"] = assignee
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("taskId", taskID).
		SetBody(body).
		Put("/runtime/tasks/{taskId}")
	if err != nil {
		return fmt.Errorf("%w: set assignee on %s: %v", ErrEngine, taskID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: set assignee on %s: status %d", ErrEngine, taskID, resp.StatusCode())
	}
	return nil
}

func (c *FlowableClient) GetTask(ctx context.Context, taskID string) (*EngineTask, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("taskId", taskID).
		SetResult(&flowableTask{}).
		Get("/runtime/tasks/{taskId}")
	if err != nil {
		return nil, fmt.Errorf("%w: get task %s: %v", ErrEngine, taskID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: get task %s: status %d", ErrEngine, taskID, resp.StatusCode())
	}

	ft := resp.Result().(*flowableTask)
	task := &EngineTask{
		ID:                  ft.ID,
		Name:                ft.Name,
		ProcessInstanceID:   ft.ProcessInstanceID,
		ProcessDefinitionID: ft.ProcessDefinitionID,
		Assignee:            ft.Assignee,
		Priority:            ft.Priority,
		CreateTime:          ft.CreateTime.Time,
	}
	if !ft.DueDate.IsZero() {
		due := ft.DueDate.Time
		task.DueDate = &due
	}
	return task, nil
}

func (c *FlowableClient) CompleteTask(ctx context.Context, taskID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("taskId", taskID).
		SetBody(map[string]string{"action": "complete"}).
		Post("/runtime/tasks/{taskId}")
	if err != nil {
		return fmt.Errorf("%w: complete task %s: %v", ErrEngine, taskID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: complete task %s: status %d", ErrEngine, taskID, resp.StatusCode())
	}
	return nil
}
