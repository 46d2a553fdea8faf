package user

import (
	"context"
	"errors"
	"testing"

	"github.com/coursekit/coursekit/internal/testutil"
)

func newUserFixture(t *testing.T) (*UserUseCaseImpl, *UserMySQL) {
	t.Helper()
	conn := testutil.NewTestDB(t)
	repo := NewUserRepository(conn, testutil.NewIDGenerator())
	return NewUserUseCase(repo), repo
}

func TestSignUp(t *testing.T) {
	uc, repo := newUserFixture(t)
	ctx := context.Background()

	created, err := uc.SignUp(ctx, &UserModel{Username: "alice", Password: "hashed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.Username != "alice" {
		t.Fatalf("expected persisted user, got %+v", found)
	}
}

func TestSignUpDuplicateUsername(t *testing.T) {
	uc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := uc.SignUp(ctx, &UserModel{Username: "alice", Password: "hashed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := uc.SignUp(ctx, &UserModel{Username: "alice", Password: "other"})
	if !errors.Is(err, ErrDuplicatedUser) {
		t.Fatalf("expected ErrDuplicatedUser, got %v", err)
	}
}

func TestExists(t *testing.T) {
	uc, _ := newUserFixture(t)
	ctx := context.Background()

	existing, err := uc.Exists(ctx, &UserModel{Username: "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existing {
		t.Fatal("expected user to be absent")
	}

	if _, err := uc.SignUp(ctx, &UserModel{Username: "bob", Password: "hashed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	existing, err = uc.Exists(ctx, &UserModel{Username: "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !existing {
		t.Fatal("expected user to be present")
	}
}

func TestUpdateLogin(t *testing.T) {
	uc, repo := newUserFixture(t)
	ctx := context.Background()

	created, err := uc.SignUp(ctx, &UserModel{Username: "carol", Password: "hashed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created.LoginRetry = 3
	created.LastLogin = 1700000000
	if err := repo.UpdateLogin(ctx, created); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.LoginRetry != 3 || found.LastLogin != 1700000000 {
		t.Fatalf("expected login state to persist, got %+v", found)
	}
}
