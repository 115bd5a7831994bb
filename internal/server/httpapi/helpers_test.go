package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

func testConfig() *config.Config {
	return &config.Config{
		EndpointAddrHTTP:      ":0",
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		SessionPolicy:         config.SessionPolicySingle,
		BcryptCost:            bcrypt.MinCost,
	}
}

type testAPI struct {
	t      *testing.T
	server *Server
}

func newTestAPI(t *testing.T, mutate ...func(*config.Config)) *testAPI {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	m := repomanager.NewMemoryRepositoryManager()
	ts := services.NewTokenService(m, cfg)
	us := services.NewUserService(m, ts, cfg)
	tks := services.NewTaskService(m)

	return &testAPI{t: t, server: NewServer(cfg, logging.Nop{}, us, ts, tks)}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), "body: %s", r.body)
}

func (r response) errBody(t *testing.T) errorResponse {
	t.Helper()
	var e errorResponse
	r.decode(t, &e)
	return e
}

// raw sends body exactly as given.
func (a *testAPI) raw(method, path, token string, body []byte) response {
	a.t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.App().Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	return response{status: resp.StatusCode, header: resp.Header, body: b}
}

func (a *testAPI) do(method, path, token string, body any) response {
	a.t.Helper()

	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(a.t, err)
	}
	return a.raw(method, path, token, b)
}

func (a *testAPI) register(name, email, password string) (string, userResponse) {
	a.t.Helper()

	r := a.do(http.MethodPost, "/register", "", map[string]any{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	})
	require.Equal(a.t, http.StatusCreated, r.status, "body: %s", r.body)

	var out struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}
	r.decode(a.t, &out)
	require.NotEmpty(a.t, out.Token)
	return out.Token, out.User
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()

	r := a.do(http.MethodPost, "/login", "", map[string]any{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, r.status, "body: %s", r.body)

	var out struct {
		Token string `json:"token"`
	}
	r.decode(a.t, &out)
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

// taskJSON mirrors the wire shape with raw optional fields so tests can
// tell null from absent values.
type taskJSON struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   bool    `json:"completed"`
	Priority    *string `json:"priority"`
}
