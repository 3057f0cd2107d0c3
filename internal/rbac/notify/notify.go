package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event names
const (
	EventRoleBound        = "role.bound"
	EventRoleUnbound      = "role.unbound"
	EventRequestCreated   = "request.created"
	EventRequestApproved  = "request.approved"
	EventRequestRejected  = "request.rejected"
	EventRequestCancelled = "request.cancelled"
	EventMemberJoined     = "member.joined"
	EventMemberRemoved    = "member.removed"
	EventMemberExited     = "member.exited"
	EventTaskAssigned     = "task.assigned"
	EventTaskClaimed      = "task.claimed"
	EventTaskUnclaimed    = "task.unclaimed"
	EventTaskDelegated    = "task.delegated"
	EventTaskTransferred  = "task.transferred"
	EventTaskCompleted    = "task.completed"
)

// Event is a domain fact; delivery is best effort.
type Event struct {
	Name       string            `json:"name"`
	SubjectID  string            `json:"subject_id"`
	ActorID    string            `json:"actor_id,omitempty"`
	Recipients []string          `json:"recipients,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisNotifier publishes events as JSON on a pub/sub channel.
type RedisNotifier struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisNotifier(client redis.UniversalClient, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
