// ABOUTME: User service for login, profile retrieval, and account management
// ABOUTME: Login collapses unknown-email and wrong-password into one outcome

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/howlil/wakachat-server/internal/auth"
	"github.com/howlil/wakachat-server/internal/store"
)

// ErrInvalidCredentials is returned for any failed login, whether the
// email is unknown or the password is wrong. Callers must present the two
// cases identically to avoid account enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidRole is returned when creating a user with an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// UserStore defines what the service needs from storage
type UserStore interface {
	CreateUser(ctx context.Context, user *store.User) error
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	ListUsers(ctx context.Context) ([]*store.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Service handles user authentication and management.
type Service struct {
	store  UserStore
	codec  *auth.Codec
	logger *slog.Logger
}

// New creates a new user service.
func New(userStore UserStore, codec *auth.Codec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  userStore,
		codec:  codec,
		logger: logger.With("component", "user"),
	}
}

// Login verifies the credential pair and returns the public user together
// with a freshly issued session token. The token snapshots the user's id,
// email and role at issuance time.
func (s *Service) Login(ctx context.Context, email, password string) (*store.PublicUser, string, error) {
	email = strings.ToLower(email)

	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same bcrypt cost as the known-email path so response
		// timing doesn't reveal whether the account exists.
		auth.CompareDummy(password)
		s.logger.Debug("login failed", "email", email, "reason", "unknown email")
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		s.logger.Debug("login failed", "email", email, "reason", "wrong password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("login successful", "user_id", u.ID, "role", u.Role)
	return u.Public(), token, nil
}

// Profile returns the public projection of the user with the given ID.
// Returns store.ErrNotFound when the ID no longer resolves, e.g. the
// account was deleted after the token was issued.
func (s *Service) Profile(ctx context.Context, id string) (*store.PublicUser, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// CreateParams are the inputs for creating a user.
type CreateParams struct {
	Name     string
	Email    string
	Password string
	Role     store.Role
}

// Create hashes the password and stores a new user. The email is
// lowercased; a case-insensitive duplicate yields store.ErrEmailExists.
func (s *Service) Create(ctx context.Context, params CreateParams) (*store.PublicUser, error) {
	if !store.ValidRole(params.Role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, params.Role)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	u := &store.User{
		ID:           uuid.New().String(),
		Name:         params.Name,
		Email:        strings.ToLower(params.Email),
		PasswordHash: hash,
		Role:         params.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u.Public(), nil
}

// List returns the public projections of all users.
func (s *Service) List(ctx context.Context) ([]*store.PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]*store.PublicUser, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	return public, nil
}

// Delete removes a user by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}
