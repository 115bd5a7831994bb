// Package services contains server-side business logic: issuing and
// validating bearer tokens, account management and owner-scoped task work.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
)

// Session is what a valid bearer token resolves to.
type Session struct {
	User  *models.User
	Token *models.Token
}

// TokenService issues, validates and revokes bearer tokens. The value given
// to the client is a signed token naming the stored row; the row keeps only
// a digest of the value.
type TokenService struct {
	repomanager repomanager.RepositoryManager
	secretKey   []byte
	validity    time.Duration
	policy      string
}

func NewTokenService(m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		repomanager: m,
		secretKey:   []byte(cfg.SecretKey),
		validity:    cfg.TokenValidityDuration,
		policy:      cfg.SessionPolicy,
	}
}

// Issue creates a new token for the user next to any existing ones.
func (s *TokenService) Issue(ctx context.Context, userID int64, name string) (string, error) {
	return s.issue(ctx, s.repomanager.Conn(), userID, name)
}

// IssueExclusive revokes every token of the user and issues a new one in a
// single transaction.
func (s *TokenService) IssueExclusive(ctx context.Context, userID int64, name string) (string, error) {
	var value string
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tokens(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("revoke tokens: %w", err)
		}
		var err error
		value, err = s.issue(ctx, tx, userID, name)
		return err
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Login issues a token according to the configured session policy.
func (s *TokenService) Login(ctx context.Context, userID int64, name string) (string, error) {
	if s.policy == config.SessionPolicyMulti {
		return s.Issue(ctx, userID, name)
	}
	return s.IssueExclusive(ctx, userID, name)
}

func (s *TokenService) issue(ctx context.Context, db dbx.DBTX, userID int64, name string) (string, error) {
	id := uuid.NewString()

	value, err := auth.GenerateToken(userID, id, s.secretKey, s.validity)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	token := &models.Token{ID: id, UserID: userID, Name: name, Hash: auth.Digest(value)}
	if _, err := s.repomanager.Tokens(db).Create(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return value, nil
}

// Validate resolves a presented value to its session. Forged, expired,
// revoked or orphaned tokens fail with common.ErrInvalidToken or
// common.ErrTokenExpired. It has no side effects.
func (s *TokenService) Validate(ctx context.Context, value string) (*Session, error) {
	userID, tokenID, err := auth.ParseToken(value, s.secretKey)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(tokenID); err != nil {
		return nil, common.ErrInvalidToken
	}

	db := s.repomanager.Conn()

	token, err := s.repomanager.Tokens(db).Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("load token: %w", err)
	}

	if token.UserID != userID || !auth.DigestEqual(token.Hash, auth.Digest(value)) {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}

// Revoke deletes the token a value names. Values that do not verify are
// ignored, and revoking twice is fine.
func (s *TokenService) Revoke(ctx context.Context, value string) error {
	_, tokenID, err := auth.ParseToken(value, s.secretKey)
	if err != nil {
		return nil
	}
	return s.RevokeByID(ctx, tokenID)
}

func (s *TokenService) RevokeByID(ctx context.Context, tokenID string) error {
	if err := s.repomanager.Tokens(s.repomanager.Conn()).Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID int64) error {
	if err := s.repomanager.Tokens(s.repomanager.Conn()).DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

// RevokeOthers keeps only keepID among the user's tokens.
func (s *TokenService) RevokeOthers(ctx context.Context, userID int64, keepID string) error {
	return s.revokeOthers(ctx, s.repomanager.Conn(), userID, keepID)
}

func (s *TokenService) revokeOthers(ctx context.Context, db dbx.DBTX, userID int64, keepID string) error {
	if err := s.repomanager.Tokens(db).DeleteAllForUserExcept(ctx, userID, keepID); err != nil {
		return fmt.Errorf("revoke other tokens: %w", err)
	}
	return nil
}
