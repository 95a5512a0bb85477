package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lumina/iris-studio/internal/db"
	"github.com/lumina/iris-studio/internal/moderation"
	"github.com/lumina/iris-studio/internal/store"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewService(moderation.NewSQLiteRegistry(database.Conn()), store.NewMemStore(), nil)
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "New@Example.com", "Newbie", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.Email != "new@example.com" {
		t.Errorf("session email = %q, want normalized", session.Email)
	}
	if session.Provider != "email" {
		t.Errorf("Provider = %q, want email", session.Provider)
	}
	if session.Avatar == "" {
		t.Error("Avatar not assigned")
	}

	login, err := svc.Login(ctx, "new@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.Name != "Newbie" {
		t.Errorf("Name = %q, want Newbie", login.Name)
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "A", "s3cret"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, "DUP@example.com", "B", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestService_RegisterWeakPassword(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Register(context.Background(), "weak@example.com", "W", "abc"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Register() error = %v, want ErrWeakPassword", err)
	}
}

func TestService_RegisterDefaultsName(t *testing.T) {
	svc := setupService(t)

	session, err := svc.Register(context.Background(), "anon@example.com", "", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.Name != "Creative Explorer" {
		t.Errorf("Name = %q, want Creative Explorer", session.Name)
	}
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	svc.Register(ctx, "u@example.com", "U", "correct")
	if _, err := svc.Login(ctx, "u@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_LoginUnknownIdentity(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, ErrUnknownIdentity) {
		t.Errorf("Login() error = %v, want ErrUnknownIdentity", err)
	}
}

func TestService_SessionPersistsAndLogoutClears(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if svc.CurrentSession(ctx) != nil {
		t.Fatal("session present before login")
	}

	svc.Register(ctx, "u@example.com", "U", "s3cret")
	if got := svc.CurrentSession(ctx); got == nil || got.Email != "u@example.com" {
		t.Fatalf("CurrentSession() = %+v, want open session", got)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if svc.CurrentSession(ctx) != nil {
		t.Error("session survived logout")
	}
}
