package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/metrics"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectoryServer(t *testing.T) (*adapter.DirectoryClient, *int32) {
	t.Helper()
	var hits int32

	users := map[string]string{
		"U1": `{"id":"U1","username":"alice","display_name":"Alice","active":true}`,
		"U2": `{"id":"U2","username":"bob","display_name":"Bob","active":false}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/users/batch" {
			var body struct {
				IDs []string `json:"ids"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			var found []string
			for _, id := range body.IDs {
				if u, ok := users[id]; ok {
					found = append(found, u)
				}
			}
			_, _ = w.Write([]byte("[" + strings.Join(found, ",") + "]"))
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
		u, ok := users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		_, _ = w.Write([]byte(u))
	}))
	t.Cleanup(srv.Close)

	return adapter.NewDirectoryClient(srv.URL, time.Second, 16, time.Minute, metrics.New()), &hits
}

func TestDirectoryFindUser(t *testing.T) {
	client, hits := newDirectoryServer(t)
	ctx := context.Background()

	user, err := client.FindUser(ctx, "U1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.True(t, user.Active)

	// served from cache
	_, err = client.FindUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	client.Invalidate("U1")
	_, err = client.FindUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))

	missing, err := client.FindUser(ctx, "U9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDirectoryFindUsersByIDs(t *testing.T) {
	client, hits := newDirectoryServer(t)
	ctx := context.Background()

	_, err := client.FindUser(ctx, "U1")
	require.NoError(t, err)

	users, err := client.FindUsersByIDs(ctx, []string{"U1", "U2", "U9", "U2"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "U1", users[0].ID)
	assert.Equal(t, "U2", users[1].ID)
	assert.False(t, users[1].Active)
	// one single lookup plus one batch for the misses
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))

	_, err = client.FindUsersByIDs(ctx, []string{"U1", "U2"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}
