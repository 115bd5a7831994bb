package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

// newBackend serves the real API over the in-memory store.
func newBackend(t *testing.T) *Client {
	t.Helper()

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		SessionPolicy:         config.SessionPolicySingle,
		BcryptCost:            bcrypt.MinCost,
	}

	m := repomanager.NewMemoryRepositoryManager()
	ts := services.NewTokenService(m, cfg)
	srv := httpapi.NewServer(cfg, logging.Nop{}, services.NewUserService(m, ts, cfg), ts, services.NewTaskService(m))

	hs := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(hs.Close)

	return New(hs.URL, 5*time.Second)
}

func TestClient_AgainstServer(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	reg, err := c.Register(ctx, RegisterRequest{
		Name: "Ana", Email: "ana@x.com", Password: "pw123456", PasswordConfirmation: "pw123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", reg.User.Name)

	auth, err := c.Login(ctx, "ana@x.com", "pw123456")
	require.NoError(t, err)
	token := auth.Token

	_, err = c.Me(ctx, reg.Token)
	assert.True(t, IsSessionInvalid(err), "login revokes the registration token")

	high := "high"
	task, err := c.CreateTask(ctx, token, TaskRequest{Title: "Buy milk", Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)

	pending := false
	tasks, err := c.ListTasks(ctx, token, TaskFilter{Completed: &pending})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	req := RequestFrom(task)
	req.Completed = true
	task, err = c.UpdateTask(ctx, token, task.ID, req)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	require.NotNil(t, task.Priority)
	assert.Equal(t, "high", *task.Priority)

	_, err = c.Login(ctx, "ana@x.com", "wrong-pass")
	assert.False(t, IsSessionInvalid(err))

	require.NoError(t, c.DeleteTask(ctx, token, task.ID))
	_, err = c.GetTask(ctx, token, task.ID)
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Logout(ctx, token))
	_, err = c.Me(ctx, token)
	assert.True(t, IsSessionInvalid(err))
}
