package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

// harness runs CLI invocations against an in-memory server, sharing one
// session file the way repeated shell commands would.
type harness struct {
	t         *testing.T
	serverURL string
	sessionDB string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		SessionPolicy:         config.SessionPolicyMulti,
		BcryptCost:            bcrypt.MinCost,
	}
	m := repomanager.NewMemoryRepositoryManager()
	ts := services.NewTokenService(m, cfg)
	srv := httpapi.NewServer(cfg, logging.Nop{}, services.NewUserService(m, ts, cfg), ts, services.NewTaskService(m))

	hs := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(hs.Close)

	t.Setenv("GOPHTASKS_SERVER", "")
	t.Setenv("GOPHTASKS_SESSION_DB", "")
	t.Setenv("GOPHTASKS_TIMEOUT", "")

	return &harness{
		t:         t,
		serverURL: hs.URL,
		sessionDB: filepath.Join(t.TempDir(), "session.db"),
	}
}

// run executes one command line with input fed to the prompts.
func (h *harness) run(input string, args ...string) (string, string, error) {
	h.t.Helper()

	var out, errOut bytes.Buffer
	full := append([]string{"--server", h.serverURL, "--session-db", h.sessionDB}, args...)
	err := Execute(context.Background(), full, strings.NewReader(input), &out, &errOut)
	return out.String(), errOut.String(), err
}

// stubTerminal makes password prompts read from the test input.
func stubTerminal(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}
