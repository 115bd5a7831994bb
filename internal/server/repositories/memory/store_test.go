package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

func ptr[T any](v T) *T { return &v }

// newTestStore returns a store whose clock advances one second per call.
func newTestStore() *Store {
	s := NewStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func mustUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &models.User{Name: email, Email: email, PasswordHash: "h"})
	require.NoError(t, err)
	return u
}

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	ana := mustUser(t, s, "ana@x.com")

	_, err := s.Users().Create(ctx, &models.User{Name: "Other", Email: "ANA@X.COM"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := s.Users().GetByEmail(ctx, "Ana@X.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	taken, err := s.Users().EmailTaken(ctx, "ana@x.com", ana.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own email is not taken")

	taken, err = s.Users().EmailTaken(ctx, "ana@x.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUsers_Update(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	ana := mustUser(t, s, "ana@x.com")
	bob := mustUser(t, s, "bob@x.com")

	bob.Email = "ana@x.com"
	_, err := s.Users().Update(ctx, bob)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	ana.Name = "Ana B"
	got, err := s.Users().Update(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, "Ana B", got.Name)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	_, err = s.Users().Update(ctx, &models.User{ID: 99})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Users().GetByID(ctx, 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTasks_ListScopesOrdersAndFilters(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	ana := mustUser(t, s, "ana@x.com")
	bob := mustUser(t, s, "bob@x.com")

	repo := s.Tasks()
	create := func(owner int64, title string, desc *string, done bool, p *models.Priority) *models.Task {
		task, err := repo.Create(ctx, &models.Task{UserID: owner, Title: title, Description: desc, Completed: done, Priority: p})
		require.NoError(t, err)
		return task
	}

	milk := create(ana.ID, "Buy milk", nil, false, ptr(models.PriorityHigh))
	report := create(ana.ID, "Report", ptr("Quarterly MILK numbers"), true, nil)
	create(bob.ID, "Bob milk", nil, false, ptr(models.PriorityHigh))

	all, err := repo.List(ctx, ana.ID, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, report.ID, all[0].ID, "newest first")
	assert.Equal(t, milk.ID, all[1].ID)

	found, err := repo.List(ctx, ana.ID, models.TaskFilter{Search: ptr("milk")})
	require.NoError(t, err)
	assert.Len(t, found, 2, "search covers title and description")

	pending, err := repo.List(ctx, ana.ID, models.TaskFilter{Completed: ptr(false)})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, milk.ID, pending[0].ID)

	high, err := repo.List(ctx, ana.ID, models.TaskFilter{Priority: ptr(models.PriorityHigh), Search: ptr("MILK"), Completed: ptr(false)})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, ana.ID, high[0].UserID)

	none, err := repo.List(ctx, ana.ID, models.TaskFilter{Search: ptr("%")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none, "wildcards match literally")
}

func TestTasks_ListSameInstantNewestIDFirst(t *testing.T) {
	s := NewStore()
	frozen := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	ctx := context.Background()
	ana := mustUser(t, s, "ana@x.com")

	var ids []int64
	for _, title := range []string{"a", "b", "c"} {
		task, err := s.Tasks().Create(ctx, &models.Task{UserID: ana.ID, Title: title})
		require.NoError(t, err)
		require.True(t, frozen.Equal(task.CreatedAt))
		ids = append(ids, task.ID)
	}

	list, err := s.Tasks().List(ctx, ana.ID, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestTasks_ReturnsCopies(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	ana := mustUser(t, s, "ana@x.com")

	task, err := s.Tasks().Create(ctx, &models.Task{UserID: ana.ID, Title: "Buy milk", Description: ptr("2 litres")})
	require.NoError(t, err)

	*task.Description = "changed"
	task.Title = "changed"

	again, err := s.Tasks().Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", again.Title)
	assert.Equal(t, "2 litres", *again.Description)
}

func TestTasks_UpdateAndDeleteAreOwnerScoped(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	ana := mustUser(t, s, "ana@x.com")
	bob := mustUser(t, s, "bob@x.com")

	task, err := s.Tasks().Create(ctx, &models.Task{UserID: ana.ID, Title: "Buy milk"})
	require.NoError(t, err)

	_, err = s.Tasks().Update(ctx, &models.Task{ID: task.ID, UserID: bob.ID, Title: "hijacked"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Tasks().Delete(ctx, task.ID, bob.ID), common.ErrorNotFound)

	updated, err := s.Tasks().Update(ctx, &models.Task{ID: task.ID, UserID: ana.ID, Title: "Buy milk", Completed: true})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.Tasks().Delete(ctx, task.ID, ana.ID))
	assert.ErrorIs(t, s.Tasks().Delete(ctx, task.ID, ana.ID), common.ErrorNotFound)
	_, err = s.Tasks().GetForUpdate(ctx, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTasks_CreateRequiresOwner(t *testing.T) {
	s := newTestStore()
	_, err := s.Tasks().Create(context.Background(), &models.Task{UserID: 42, Title: "orphan"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTokens(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	repo := s.Tokens()

	for _, tok := range []*models.Token{
		{ID: "a", UserID: 1}, {ID: "b", UserID: 1}, {ID: "c", UserID: 1}, {ID: "z", UserID: 2},
	} {
		_, err := repo.Create(ctx, tok)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Token{ID: "a", UserID: 1})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.DeleteAllForUserExcept(ctx, 1, "c"))
	_, err = repo.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Get(ctx, "c")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAllForUser(ctx, 1))
	_, err = repo.Get(ctx, "c")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	other, err := repo.Get(ctx, "z")
	require.NoError(t, err)
	assert.Equal(t, int64(2), other.UserID)
}
