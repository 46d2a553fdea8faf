package product

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/testutil"
	"github.com/coursekit/coursekit/internal/user"
	"pgregory.net/rapid"
)

type productFixture struct {
	uc         *ProductUseCaseImpl
	repo       *ProductMySQL
	userRepo   *user.UserMySQL
	lessonRepo *lesson.LessonMySQL
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	conn := testutil.NewTestDB(t)
	gen := testutil.NewIDGenerator()
	userRepo := user.NewUserRepository(conn, gen)
	lessonRepo := lesson.NewLessonRepository(conn, gen)
	repo := NewProductRepository(conn, gen)
	return &productFixture{
		uc:         NewProductUseCase(repo, userRepo, lessonRepo),
		repo:       repo,
		userRepo:   userRepo,
		lessonRepo: lessonRepo,
	}
}

func (f *productFixture) createUser(t *testing.T, username string) *user.UserModel {
	t.Helper()
	post := &user.UserModel{Username: username, Password: "hashed"}
	if err := f.userRepo.SaveUser(context.Background(), post); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return post
}

func TestCreateProductGrantsOwnerAccess(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")

	created, err := f.uc.CreateProduct(ctx, owner.ID, "Go course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.OwnerID != owner.ID {
		t.Fatalf("expected owner %s, got %s", owner.ID, created.OwnerID)
	}

	ok, err := f.repo.HasAccess(ctx, owner.ID, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected the owner to hold a grant on the created product")
	}
}

func TestCreateProductUnknownOwner(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.uc.CreateProduct(context.Background(), "missing", "Go course")
	if !errors.Is(err, user.ErrNoSuchUser) {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
}

func TestGetAccessibleProductsExcludesUngranted(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")

	granted, err := f.uc.CreateProduct(ctx, owner.ID, "granted course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.uc.CreateProduct(ctx, owner.ID, "hidden course"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.uc.GrantAccess(ctx, owner.ID, granted.ID, viewer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	visible, err := f.uc.GetAccessibleProducts(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != granted.ID {
		t.Fatalf("expected only the granted product, got %+v", visible)
	}
	if visible[0].OwnerName != "owner" {
		t.Fatalf("expected owner identity on listing, got %q", visible[0].OwnerName)
	}
}

func TestGrantAccessIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newProductFixture(t)
		ctx := context.Background()
		owner := f.createUser(t, "owner")
		viewer := f.createUser(t, "viewer")

		created, err := f.uc.CreateProduct(ctx, owner.ID, "Go course")
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		grants := rapid.IntRange(1, 5).Draw(rt, "grants")
		for i := 0; i < grants; i++ {
			if err := f.uc.GrantAccess(ctx, owner.ID, created.ID, viewer.ID); err != nil {
				rt.Fatalf("grant %d failed: %v", i, err)
			}
		}

		visible, err := f.uc.GetAccessibleProducts(ctx, viewer.ID)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if len(visible) != 1 {
			rt.Fatalf("expected a single product after %d grants, got %d", grants, len(visible))
		}
	})
}

func TestGrantAccessAuthorization(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	other := f.createUser(t, "other")
	viewer := f.createUser(t, "viewer")

	created, err := f.uc.CreateProduct(ctx, owner.ID, "Go course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.uc.GrantAccess(ctx, other.ID, created.ID, viewer.ID); !errors.Is(err, ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner, got %v", err)
	}
	if err := f.uc.GrantAccess(ctx, owner.ID, "missing", viewer.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := f.uc.GrantAccess(ctx, owner.ID, created.ID, "missing"); !errors.Is(err, user.ErrNoSuchUser) {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	other := f.createUser(t, "other")

	created, err := f.uc.CreateProduct(ctx, owner.ID, "old name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.UpdateProduct(ctx, other.ID, created.ID, "hijacked"); !errors.Is(err, ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner, got %v", err)
	}

	updated, err := f.uc.UpdateProduct(ctx, owner.ID, created.ID, "new name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "new name" {
		t.Fatalf("expected renamed product, got %q", updated.Name)
	}
}

func TestDeleteProductRemovesGrants(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")

	created, err := f.uc.CreateProduct(ctx, owner.ID, "Go course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.uc.GrantAccess(ctx, owner.ID, created.ID, viewer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.uc.DeleteProduct(ctx, viewer.ID, created.ID); !errors.Is(err, ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner, got %v", err)
	}
	if err := f.uc.DeleteProduct(ctx, owner.ID, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	visible, err := f.uc.GetAccessibleProducts(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected no products after delete, got %+v", visible)
	}
	found, err := f.repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected product row to be gone, got %+v", found)
	}
}

func TestAttachLesson(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")

	created, err := f.uc.CreateProduct(ctx, owner.ID, "Go course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target := &lesson.LessonModel{Name: "intro", VideoURL: "https://cdn.example.com/intro.mp4", Duration: 300}
	if err := f.lessonRepo.SaveLesson(ctx, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.uc.AttachLesson(ctx, owner.ID, created.ID, "missing"); !errors.Is(err, lesson.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
	// attaching twice is a no-op
	for i := 0; i < 2; i++ {
		if err := f.uc.AttachLesson(ctx, owner.ID, created.ID, target.ID); err != nil {
			t.Fatalf("attach %d failed: %v", i, err)
		}
	}

	byProduct, err := f.lessonRepo.GetLessonsByProducts(ctx, []string{created.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byProduct[created.ID]) != 1 {
		t.Fatalf("expected one attached lesson, got %d", len(byProduct[created.ID]))
	}
}

func TestGetAccessibleProductsMany(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")

	for i := 0; i < 5; i++ {
		created, err := f.uc.CreateProduct(ctx, owner.ID, fmt.Sprintf("course %d", i))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.uc.GrantAccess(ctx, owner.ID, created.ID, viewer.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	visible, err := f.uc.GetAccessibleProducts(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 5 {
		t.Fatalf("expected 5 products, got %d", len(visible))
	}
}
