package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"taskrbac/internal/rbac/metrics"
	"taskrbac/internal/rbac/model"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DirectoryClient implements Directory over the identity service REST API,
// with an expiring LRU in front of it.
type DirectoryClient struct {
	client  *resty.Client
	cache   *expirable.LRU[string, *model.User]
	metrics *metrics.Metrics
}

var (
	_ Directory = (*DirectoryClient)(nil)
	_ UserCache = (*DirectoryClient)(nil)
)

func NewDirectoryClient(baseURL string, timeout time.Duration, cacheSize int, cacheTTL time.Duration, m *metrics.Metrics) *DirectoryClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &DirectoryClient{
		client:  client,
		cache:   expirable.NewLRU[string, *model.User](cacheSize, nil, cacheTTL),
		metrics: m,
	}
}

func (d *DirectoryClient) FindUser(ctx context.Context, userID string) (*model.User, error) {
	if user, ok := d.cache.Get(userID); ok {
		d.metrics.DirectoryLookup(true)
		return user, nil
	}
	d.metrics.DirectoryLookup(false)

	resp, err := d.client.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		SetResult(&model.User{}).
		Get("/api/v1/users/{userId}")
	if err != nil {
		return nil, fmt.Errorf("%w: find user %s: %v", ErrDirectory, userID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: find user %s: status %d", ErrDirectory, userID, resp.StatusCode())
	}

	user := resp.Result().(*model.User)
	d.cache.Add(userID, user)
	return user, nil
}

type batchUsersReq struct {
	IDs []string `json:"ids"`
}

func (d *DirectoryClient) FindUsersByIDs(ctx context.Context, userIDs []string) ([]*model.User, error) {
	users := make([]*model.User, 0, len(userIDs))
	var missing []string
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if user, ok := d.cache.Get(id); ok {
			d.metrics.DirectoryLookup(true)
			users = append(users, user)
			continue
		}
		d.metrics.DirectoryLookup(false)
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return users, nil
	}

	var fetched []*model.User
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(batchUsersReq{IDs: missing}).
		SetResult(&fetched).
		Post("/api/v1/users/batch")
	if err != nil {
		return nil, fmt.Errorf("%w: batch lookup: %v", ErrDirectory, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: batch lookup: status %d", ErrDirectory, resp.StatusCode())
	}

	for _, user := range fetched {
		if user == nil || user.ID == "" {
			continue
		}
		d.cache.Add(user.ID, user)
		users = append(users, user)
	}
	return users, nil
}

func (d *DirectoryClient) Invalidate(userID string) {
	d.cache.Remove(userID)
}
