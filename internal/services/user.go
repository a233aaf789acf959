package services

import (
	"context"
	"errors"

	"github.com/restu-lomboe/grip-principle/internal/store"
	"github.com/restu-lomboe/grip-principle/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown username and wrong password
	// so callers cannot distinguish which.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSamePassword indicates the new password equals the old one.
	ErrSamePassword = errors.New("new password must differ from old password")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// UserService owns credential hashing and verification. Plaintext passwords
// never leave this package and are never logged.
type UserService struct {
	repo         UserRepository
	publisher    Publisher
	auditChannel string
}

func NewUserService(repo UserRepository, publisher Publisher, auditChannel string) *UserService {
	return &UserService{
		repo:         repo,
		publisher:    publisher,
		auditChannel: auditChannel,
	}
}

// Register creates a new account with a bcrypt-hashed password. The prior
// existence check only provides a friendly conflict; the unique constraint
// on username is the authoritative signal, surfaced as ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, username, password string) (types.User, error) {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrUsernameTaken
		}
		return types.User{}, err
	}

	publishAudit(ctx, s.publisher, s.auditChannel, AuditEvent{
		Action:   "registered",
		Entity:   "user",
		ID:       user.ID,
		Username: user.Username,
	})
	return user, nil
}

// Authenticate verifies a username/password pair and returns the account.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the stored hash after verifying the old password.
// The old and new passwords must differ textually; that policy check applies
// even when the old password turns out to be wrong.
func (s *UserService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, username, string(hashed)); err != nil {
		return err
	}

	publishAudit(ctx, s.publisher, s.auditChannel, AuditEvent{
		Action:   "password_changed",
		Entity:   "user",
		ID:       user.ID,
		Username: user.Username,
	})
	return nil
}
