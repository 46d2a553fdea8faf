package lesson

import (
	"context"
	"testing"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/testutil"
)

type lessonFixture struct {
	conn driver.ITransactionalDB
	repo *LessonMySQL
}

func newLessonFixture(t *testing.T) *lessonFixture {
	t.Helper()
	conn := testutil.NewTestDB(t)
	return &lessonFixture{conn, NewLessonRepository(conn, testutil.NewIDGenerator())}
}

func (f *lessonFixture) createLesson(t *testing.T, name string, duration int) *LessonModel {
	t.Helper()
	post := &LessonModel{Name: name, VideoURL: "https://cdn.example.com/" + name + ".mp4", Duration: duration}
	if err := f.repo.SaveLesson(context.Background(), post); err != nil {
		t.Fatalf("failed to create lesson %s: %v", name, err)
	}
	return post
}

func (f *lessonFixture) seedProduct(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.conn.ExecContext(ctx, `INSERT INTO product(id, "name", owner_id) VALUES($1,$2,$3)`, id, id, "owner"); err != nil {
		t.Fatalf("failed to seed product %s: %v", id, err)
	}
}

func (f *lessonFixture) attach(t *testing.T, productID, lessonID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.conn.ExecContext(ctx, `INSERT INTO product_lesson(product_id, lesson_id) VALUES($1,$2)`, productID, lessonID); err != nil {
		t.Fatalf("failed to attach lesson: %v", err)
	}
}

func (f *lessonFixture) grant(t *testing.T, userID, productID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.conn.ExecContext(ctx, `INSERT INTO product_access(id, user_id, product_id, created_at) VALUES($1,$2,$3,0)`,
		userID+":"+productID, userID, productID); err != nil {
		t.Fatalf("failed to grant access: %v", err)
	}
}

func TestSaveAndFindLesson(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()

	created := f.createLesson(t, "intro", 300)
	found, err := f.repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.Name != "intro" || found.Duration != 300 {
		t.Fatalf("expected persisted lesson, got %+v", found)
	}

	missing, err := f.repo.FindByID(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestGetAccessibleLessonsDeduplicates(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()

	shared := f.createLesson(t, "shared", 300)
	extra := f.createLesson(t, "extra", 120)
	f.seedProduct(t, "p1")
	f.seedProduct(t, "p2")
	// the shared lesson belongs to both granted products
	f.attach(t, "p1", shared.ID)
	f.attach(t, "p2", shared.ID)
	f.attach(t, "p2", extra.ID)
	f.grant(t, "viewer", "p1")
	f.grant(t, "viewer", "p2")

	lessons, err := f.repo.GetAccessibleLessons(ctx, "viewer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("expected 2 distinct lessons, got %d", len(lessons))
	}
}

func TestGetAccessibleLessonsNoGrants(t *testing.T) {
	f := newLessonFixture(t)

	shared := f.createLesson(t, "shared", 300)
	f.seedProduct(t, "p1")
	f.attach(t, "p1", shared.ID)

	lessons, err := f.repo.GetAccessibleLessons(context.Background(), "stranger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lessons) != 0 {
		t.Fatalf("expected no lessons without grants, got %d", len(lessons))
	}
}

func TestGetLessonsByProducts(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()

	first := f.createLesson(t, "first", 300)
	second := f.createLesson(t, "second", 120)
	f.seedProduct(t, "p1")
	f.seedProduct(t, "p2")
	f.seedProduct(t, "p3")
	f.attach(t, "p1", first.ID)
	f.attach(t, "p1", second.ID)
	f.attach(t, "p2", second.ID)

	byProduct, err := f.repo.GetLessonsByProducts(ctx, []string{"p1", "p2", "p3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byProduct["p1"]) != 2 {
		t.Fatalf("expected 2 lessons for p1, got %d", len(byProduct["p1"]))
	}
	if len(byProduct["p2"]) != 1 || byProduct["p2"][0].ID != second.ID {
		t.Fatalf("expected only the second lesson for p2, got %+v", byProduct["p2"])
	}
	if len(byProduct["p3"]) != 0 {
		t.Fatalf("expected no lessons for p3, got %d", len(byProduct["p3"]))
	}

	empty, err := f.repo.GetLessonsByProducts(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result for empty input, got %+v", empty)
	}
}
