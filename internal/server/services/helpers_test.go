package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

// -------- test fakes --------

// fakeManager serves memory repositories unless a test swaps one out.
type fakeManager struct {
	*repomanager.MemoryRepositoryManager

	users  users.Repository
	tasks  tasks.Repository
	tokens tokens.Repository

	txCalls int
}

func newFakeManager() *fakeManager {
	return &fakeManager{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}
}

func (m *fakeManager) Users(db dbx.DBTX) users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users(db)
}

func (m *fakeManager) Tasks(db dbx.DBTX) tasks.Repository {
	if m.tasks != nil {
		return m.tasks
	}
	return m.MemoryRepositoryManager.Tasks(db)
}

func (m *fakeManager) Tokens(db dbx.DBTX) tokens.Repository {
	if m.tokens != nil {
		return m.tokens
	}
	return m.MemoryRepositoryManager.Tokens(db)
}

func (m *fakeManager) WithinTx(ctx context.Context, fn dbx.TxFunc) error {
	m.txCalls++
	return m.MemoryRepositoryManager.WithinTx(ctx, fn)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type failingUsers struct {
	users.Repository
	emailTakenErr error
	createErr     error
	getErr        error
}

func (f *failingUsers) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	if f.emailTakenErr != nil {
		return false, f.emailTakenErr
	}
	return f.Repository.EmailTaken(ctx, email, exceptID)
}

func (f *failingUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, u)
}

func (f *failingUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetByEmail(ctx, email)
}

type failingTokens struct {
	tokens.Repository
	getErr       error
	deleteAllErr error
}

func (f *failingTokens) Get(ctx context.Context, id string) (*models.Token, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.Get(ctx, id)
}

func (f *failingTokens) DeleteAllForUser(ctx context.Context, userID int64) error {
	if f.deleteAllErr != nil {
		return f.deleteAllErr
	}
	return f.Repository.DeleteAllForUser(ctx, userID)
}

type failingTasks struct {
	tasks.Repository
	listErr   error
	createErr error
}

func (f *failingTasks) List(ctx context.Context, userID int64, filter models.TaskFilter) ([]*models.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Repository.List(ctx, userID, filter)
}

func (f *failingTasks) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, t)
}

// -------- helpers --------

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		SessionPolicy:         config.SessionPolicySingle,
		BcryptCost:            bcrypt.MinCost,
	}
}

type testEnv struct {
	m      *fakeManager
	cfg    *config.Config
	tokens *TokenService
	users  *UserService
	tasks  *TaskService
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, f := range mutate {
		f(cfg)
	}
	m := newFakeManager()
	ts := NewTokenService(m, cfg)
	return &testEnv{
		m:      m,
		cfg:    cfg,
		tokens: ts,
		users:  NewUserService(m, ts, cfg),
		tasks:  NewTaskService(m),
	}
}

func (e *testEnv) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "pw123456", PasswordConfirmation: "pw123456",
	})
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
