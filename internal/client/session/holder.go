// Package session tracks who the CLI is signed in as. The server stays the
// source of truth: Refresh asks it for the current user and the local copy
// follows whatever it says.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
)

type State string

const (
	StateAnonymous State = "anonymous"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateError     State = "error"
)

// ErrNotLoggedIn is returned by Token when there is no session.
var ErrNotLoggedIn = errors.New("not logged in")

// Fetcher returns the user a token belongs to. *api.Client implements it.
type Fetcher interface {
	Me(ctx context.Context, token string) (*api.User, error)
}

// Snapshot is a copy of the holder's state at one moment.
type Snapshot struct {
	State State
	User  *api.User
	Token string
	Err   error
}

type Holder struct {
	mu      sync.RWMutex
	store   *Store
	fetcher Fetcher

	state State
	user  *api.User
	token string
	err   error
}

func NewHolder(store *Store, fetcher Fetcher) *Holder {
	return &Holder{store: store, fetcher: fetcher, state: StateAnonymous}
}

func (h *Holder) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Snapshot{State: h.state, User: h.user, Token: h.token, Err: h.err}
}

// Token returns the current bearer token or ErrNotLoggedIn.
func (h *Holder) Token() (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == "" {
		return "", ErrNotLoggedIn
	}
	return h.token, nil
}

// Load restores the persisted session without contacting the server.
func (h *Holder) Load(ctx context.Context) error {
	token, user, err := h.store.Load(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.token, h.user, h.err = token, user, nil
	if token == "" {
		h.state = StateAnonymous
	} else {
		h.state = StateReady
	}
	return nil
}

// Begin adopts a freshly issued token and persists it.
func (h *Holder) Begin(ctx context.Context, token string, user *api.User) error {
	if err := h.store.Save(ctx, token, user); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state, h.token, h.user, h.err = StateReady, token, user, nil
	return nil
}

// Refresh re-reads the current user from the server. A rejected token ends
// the session; any other failure leaves the token in place with StateError.
func (h *Holder) Refresh(ctx context.Context) error {
	h.mu.Lock()
	token := h.token
	if token == "" {
		h.state, h.user, h.err = StateAnonymous, nil, nil
		h.mu.Unlock()
		return ErrNotLoggedIn
	}
	h.state = StateLoading
	h.mu.Unlock()

	user, err := h.fetcher.Me(ctx, token)
	if err != nil {
		return h.HandleError(ctx, err)
	}

	if err := h.store.Save(ctx, token, user); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state, h.user, h.err = StateReady, user, nil
	return nil
}

// Clear forgets the session locally.
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.state, h.token, h.user, h.err = StateAnonymous, "", nil, nil
	h.mu.Unlock()

	return h.store.Clear(ctx)
}

// HandleError looks at the outcome of an authenticated call. When the server
// rejected the token the session is cleared. err is returned either way.
func (h *Holder) HandleError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if api.IsSessionInvalid(err) {
		if cerr := h.Clear(ctx); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}

	h.mu.Lock()
	if h.state == StateLoading {
		h.state = StateError
		h.err = err
	}
	h.mu.Unlock()

	return err
}
