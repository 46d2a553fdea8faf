package view

import (
	"context"
	"testing"

	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/product"
	"github.com/coursekit/coursekit/internal/progress"
	"github.com/coursekit/coursekit/internal/testutil"
	"github.com/coursekit/coursekit/internal/user"
)

type viewFixture struct {
	presenter    *Presenter
	userRepo     user.UserRepository
	lessonRepo   lesson.LessonRepository
	productRepo  product.ProductRepository
	progressRepo progress.ProgressRepository
	productUC    product.ProductUseCase
	progressUC   progress.ProgressUseCase
}

func newViewFixture(t *testing.T) *viewFixture {
	t.Helper()
	conn := testutil.NewTestDB(t)
	gen := testutil.NewIDGenerator()
	userRepo := user.NewUserRepository(conn, gen)
	lessonRepo := lesson.NewLessonRepository(conn, gen)
	productRepo := product.NewProductRepository(conn, gen)
	progressRepo := progress.NewProgressRepository(conn, gen)
	return &viewFixture{
		presenter:    NewPresenter(lessonRepo, progressRepo),
		userRepo:     userRepo,
		lessonRepo:   lessonRepo,
		productRepo:  productRepo,
		progressRepo: progressRepo,
		productUC:    product.NewProductUseCase(productRepo, userRepo, lessonRepo),
		progressUC:   progress.NewProgressUseCase(progressRepo, lessonRepo),
	}
}

func (f *viewFixture) createUser(t *testing.T, username string) *user.UserModel {
	t.Helper()
	post := &user.UserModel{Username: username, Password: "hashed"}
	if err := f.userRepo.SaveUser(context.Background(), post); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return post
}

func (f *viewFixture) createLesson(t *testing.T, name string, duration int) *lesson.LessonModel {
	t.Helper()
	post := &lesson.LessonModel{Name: name, VideoURL: "https://cdn.example.com/" + name + ".mp4", Duration: duration}
	if err := f.lessonRepo.SaveLesson(context.Background(), post); err != nil {
		t.Fatalf("failed to create lesson %s: %v", name, err)
	}
	return post
}

func TestShapeLessonsDefaults(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")

	watched := f.createLesson(t, "watched", 100)
	unwatched := f.createLesson(t, "unwatched", 200)
	if _, err := f.progressUC.RecordProgress(ctx, viewer.ID, watched.ID, 90); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shaped, err := f.presenter.ShapeLessons(ctx, viewer.ID, []*lesson.LessonModel{watched, unwatched})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shaped) != 2 {
		t.Fatalf("expected 2 shaped lessons, got %d", len(shaped))
	}

	byID := make(map[string]*LessonView)
	for _, item := range shaped {
		byID[item.ID] = item
	}
	if got := byID[watched.ID]; got.TimeWatched != 90 || !got.Completed {
		t.Fatalf("expected 90/completed for the watched lesson, got %+v", got)
	}
	if got := byID[unwatched.ID]; got.TimeWatched != 0 || got.Completed {
		t.Fatalf("expected zero watch state for the unwatched lesson, got %+v", got)
	}
}

func TestShapeLessonsViewerScoped(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")
	other := f.createUser(t, "other")

	target := f.createLesson(t, "intro", 100)
	if _, err := f.progressUC.RecordProgress(ctx, other.ID, target.ID, 95); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shaped, err := f.presenter.ShapeLessons(ctx, viewer.ID, []*lesson.LessonModel{target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shaped[0].TimeWatched != 0 || shaped[0].Completed {
		t.Fatalf("another user's progress must not leak into the view, got %+v", shaped[0])
	}
}

func TestShapeProducts(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")

	created, err := f.productUC.CreateProduct(ctx, owner.ID, "Go course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := f.createLesson(t, "first", 100)
	second := f.createLesson(t, "second", 200)
	if err := f.productUC.AttachLesson(ctx, owner.ID, created.ID, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.productUC.AttachLesson(ctx, owner.ID, created.ID, second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.productUC.GrantAccess(ctx, owner.ID, created.ID, viewer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.progressUC.RecordProgress(ctx, viewer.ID, first.ID, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	products, err := f.productRepo.GetProductsByUser(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shaped, err := f.presenter.ShapeProducts(ctx, viewer.ID, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shaped) != 1 {
		t.Fatalf("expected one shaped product, got %d", len(shaped))
	}

	got := shaped[0]
	if got.Owner == nil || got.Owner.ID != owner.ID || got.Owner.Username != "owner" {
		t.Fatalf("expected owner identity, got %+v", got.Owner)
	}
	if len(got.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(got.Lessons))
	}
	for _, item := range got.Lessons {
		switch item.ID {
		case first.ID:
			if item.TimeWatched != 50 || item.Completed {
				t.Fatalf("expected 50/incomplete for first lesson, got %+v", item)
			}
		case second.ID:
			if item.TimeWatched != 0 || item.Completed {
				t.Fatalf("expected zero watch state for second lesson, got %+v", item)
			}
		default:
			t.Fatalf("unexpected lesson %s", item.ID)
		}
	}
}

func TestShapeProductEmptyLessons(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")

	created, err := f.productUC.CreateProduct(ctx, owner.ID, "empty course")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shaped, err := f.presenter.ShapeProduct(ctx, owner.ID, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shaped.Lessons == nil || len(shaped.Lessons) != 0 {
		t.Fatalf("expected an empty lesson list, got %+v", shaped.Lessons)
	}
}
