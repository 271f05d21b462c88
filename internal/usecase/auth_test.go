package usecase

import (
	"context"
	"fmt"
	"testing"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	pkgAuth "github.com/rvasilyev/storefront/internal/pkg/auth"
	testhelpers "github.com/rvasilyev/storefront/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64, role model.Role) (string, error) {
			return fmt.Sprintf("token-%d-%s", userID, role), nil
		},
		ParseFn: func(token string) (int64, model.Role, error) {
			var id int64
			var role string
			if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
				return 0, "", pkgAuth.ErrInvalidToken
			}
			return id, model.ParseRole(role), nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "alice", "password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if user.Role != model.RoleClient {
		t.Fatalf("registration must produce a client, got %q", user.Role)
	}
	if token != "token-1-CLIENT" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob", "secret"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "bob", "secret"); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "", "password"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "user", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol", "123456"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "carol", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1-CLIENT" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAuthenticateNotFound(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Authenticate(context.Background(), "absent", "pass"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, role, err := uc.ParseToken("token-42-ADMIN")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %q", role)
	}

	if _, _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "user", "pass"); err == nil {
		t.Fatal("expected hashing error")
	}
}

func TestAuthUseCaseRegisterRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = fmt.Errorf("db down")
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "user", "pass"); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestAuthUseCaseEnsureAdminCreates(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if err := uc.EnsureAdmin(context.Background(), "root", "secret"); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	admin, err := repo.GetByLogin(context.Background(), "root")
	if err != nil {
		t.Fatalf("expected admin in repository: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}
}

func TestAuthUseCaseEnsureAdminIdempotent(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if err := uc.EnsureAdmin(context.Background(), "root", "secret"); err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	if err := uc.EnsureAdmin(context.Background(), "root", "secret"); err != nil {
		t.Fatalf("second ensure should be a no-op, got %v", err)
	}
}

func TestAuthUseCaseEnsureAdminSkipsEmptyCredentials(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	if err := uc.EnsureAdmin(context.Background(), "", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Users) != 0 {
		t.Fatalf("no account should be created without credentials")
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	user, _, err := uc.Register(context.Background(), "dave", "pwd")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	fetched, err := uc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id returned error: %v", err)
	}
	if fetched.Login != user.Login {
		t.Fatalf("expected login %q, got %q", user.Login, fetched.Login)
	}
}

func TestAuthUseCaseTrimsLogin(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "  user  ", "pass"); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "  user  ", "pass"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
}
