// Package auth issues and persists the local editing session against
// the moderation registry. Credentials are checked by exact match; a
// failed check surfaces a reason and leaves the session anonymous.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lumina/iris-studio/internal/logging"
	"github.com/lumina/iris-studio/internal/moderation"
	"github.com/lumina/iris-studio/internal/store"
)

var (
	ErrEmailTaken         = errors.New("this identity already exists in the registry")
	ErrUnknownIdentity    = errors.New("no studio identity found for this email")
	ErrInvalidCredentials = errors.New("invalid security key")
	ErrWeakPassword       = errors.New("security key must be at least 4 characters")
)

// Session is the persisted record of the logged-in identity.
type Session struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Provider string `json:"provider"`
}

type Service struct {
	registry moderation.Registry
	kv       store.Store
	logger   *slog.Logger
}

func NewService(registry moderation.Registry, kv store.Store, logger *slog.Logger) *Service {
	return &Service{registry: registry, kv: kv, logger: logger}
}

// Register creates a registry record and opens a session for it.
func (s *Service) Register(ctx context.Context, email, name, password string) (*Session, error) {
	email = moderation.NormalizeEmail(email)

	if len(password) < 4 {
		return nil, ErrWeakPassword
	}

	existing, err := s.registry.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("registry lookup failed: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if name == "" {
		name = "Creative Explorer"
	}

	user := &moderation.User{
		Email:     email,
		Name:      name,
		Password:  password,
		Avatar:    avatarFor(email),
		CreatedAt: time.Now(),
	}
	if err := s.registry.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create registry record: %w", err)
	}

	if s.logger != nil {
		logging.WithUser(s.logger, email).Info("identity registered")
	}

	return s.openSession(ctx, user)
}

// Login checks credentials against the registry record. The password
// must match exactly.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = moderation.NormalizeEmail(email)

	user, err := s.registry.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("registry lookup failed: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownIdentity
	}
	if user.Password != password {
		if s.logger != nil {
			logging.WithUser(s.logger, email).Warn("login rejected: credential mismatch")
		}
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

func (s *Service) openSession(ctx context.Context, user *moderation.User) (*Session, error) {
	session := &Session{
		ID:       uuid.NewString(),
		Name:     user.Name,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Provider: "email",
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Save(ctx, store.KeySession, data); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if s.logger != nil {
		logging.WithUser(s.logger, user.Email).Info("session opened")
	}
	return session, nil
}

// Logout drops the persisted session. The project itself is kept.
func (s *Service) Logout(ctx context.Context) error {
	return s.kv.Delete(ctx, store.KeySession)
}

// CurrentSession returns the persisted session, or nil when anonymous.
// A malformed record is treated as anonymous.
func (s *Service) CurrentSession(ctx context.Context) *Session {
	data, err := s.kv.Load(ctx, store.KeySession)
	if err != nil {
		return nil
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		if s.logger != nil {
			s.logger.Warn("malformed session record, treating as anonymous", "error", err)
		}
		return nil
	}
	return &session
}

func avatarFor(email string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + email
}
