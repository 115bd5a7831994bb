package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/validation"
)

// CredentialError is a failed password check tied to a request field.
// It matches common.ErrInvalidCredentials under errors.Is.
type CredentialError struct {
	Field   string
	Message string
}

func (e *CredentialError) Error() string {
	return common.ErrInvalidCredentials.Error() + ": " + e.Field
}

func (e *CredentialError) Is(target error) bool {
	return target == common.ErrInvalidCredentials
}

// UserService owns accounts: registration, credential checks and profile
// updates.
type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	bcryptCost  int
	dummyHash   func() string
}

func NewUserService(m repomanager.RepositoryManager, tokens *TokenService, cfg *config.Config) *UserService {
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		bcryptCost:  cfg.BcryptCost,
		dummyHash:   auth.DummyHasher(cfg.BcryptCost),
	}
}

// Register validates the input and creates the user. Every problem is
// reported at once as validation.Errors.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	errs := validation.Struct(in)

	if !errs.Has("password") {
		checkPasswordPair(errs, in.Password, &in.PasswordConfirmation)
	}

	users := s.repomanager.Users(s.repomanager.Conn())

	if !errs.Has("email") {
		taken, err := users.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			errs.Add("email", msgEmailTaken)
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := users.Create(ctx, &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, validation.Field("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate returns the user owning the email/password pair or
// common.ErrInvalidCredentials. Unknown emails cost the same bcrypt work as
// a wrong password.
func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	in.normalize()
	if err := validation.Struct(in).OrNil(); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(s.dummyHash(), in.Password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !s.VerifyPassword(user, in.Password) {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) VerifyPassword(user *models.User, plaintext string) bool {
	return auth.CheckPassword(user.PasswordHash, plaintext)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces the user's name and email and, when a new password
// is given, its hash. Changing the password needs the current one and
// revokes every token of the user except currentTokenID.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, currentTokenID string, in ProfileInput) (*models.User, error) {
	in.normalize()
	errs := validation.Struct(in)

	changingPassword := in.Password != nil
	if changingPassword && !errs.Has("password") {
		checkPasswordPair(errs, *in.Password, in.PasswordConfirmation)
	}

	if !errs.Has("email") {
		taken, err := s.repomanager.Users(s.repomanager.Conn()).EmailTaken(ctx, in.Email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			errs.Add("email", msgEmailTaken)
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	next := *user
	next.Name = in.Name
	next.Email = in.Email

	if changingPassword {
		if in.PasswordCurrent == nil || !s.VerifyPassword(user, *in.PasswordCurrent) {
			return nil, &CredentialError{
				Field:   "password_current",
				Message: "The provided password does not match your current password.",
			}
		}
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = hash
	}

	var updated *models.User
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Users(tx).Update(ctx, &next)
		if err != nil {
			return err
		}
		if changingPassword {
			return s.tokens.revokeOthers(ctx, tx, user.ID, currentTokenID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, validation.Field("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return updated, nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// checkPasswordPair adds the password errors that struct tags cannot express.
func checkPasswordPair(errs validation.Errors, password string, confirmation *string) {
	if len(password) > maxPasswordBytes {
		errs.Add("password", msgPasswordTooLong)
		return
	}
	if confirmation == nil || *confirmation != password {
		errs.Add("password", msgPasswordMismatch)
	}
}
