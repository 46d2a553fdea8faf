package progress

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

type progressFixture struct {
	uc         *ProgressUseCaseImpl
	repo       *ProgressMySQL
	userRepo   *user.UserMySQL
	lessonRepo *lesson.LessonMySQL
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	conn := testutil.NewTestDB(t)
	gen := testutil.NewIDGenerator()
	userRepo := user.NewUserRepository(conn, gen)
	lessonRepo := lesson.NewLessonRepository(conn, gen)
	repo := NewProgressRepository(conn, gen)
	return &progressFixture{
		uc:         NewProgressUseCase(repo, lessonRepo),
		repo:       repo,
		userRepo:   userRepo,
		lessonRepo: lessonRepo,
	}
}

func (f *progressFixture) createUser(t *testing.T, username string) *user.UserModel {
	t.Helper()
	post := &user.UserModel{Username: username, Password: "hashed"}
	if err := f.userRepo.SaveUser(context.Background(), post); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return post
}

func (f *progressFixture) createLesson(t *testing.T, name string, duration int) *lesson.LessonModel {
	t.Helper()
	post := &lesson.LessonModel{Name: name, VideoURL: "https://cdn.example.com/" + name + ".mp4", Duration: duration}
	if err := f.lessonRepo.SaveLesson(context.Background(), post); err != nil {
		t.Fatalf("failed to create lesson %s: %v", name, err)
	}
	return post
}

func TestRecordProgressCompletionFlag(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")

	cases := []struct {
		watched   int
		completed bool
	}{
		{79, false},
		{80, true},
		{100, true},
	}
	for i, tc := range cases {
		target := f.createLesson(t, fmt.Sprintf("lesson%d", i), 100)
		created, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, tc.watched)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Completed != tc.completed {
			t.Fatalf("watched %d of 100: expected completed=%v, got %v", tc.watched, tc.completed, created.Completed)
		}
	}
}

func TestRecordProgressUnknownLesson(t *testing.T) {
	f := newProgressFixture(t)
	viewer := f.createUser(t, "viewer")

	_, err := f.uc.RecordProgress(context.Background(), viewer.ID, "missing", 10)
	if !errors.Is(err, lesson.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestRecordProgressDuplicate(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")
	target := f.createLesson(t, "intro", 100)

	if _, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, 20)
	if !errors.Is(err, ErrDuplicateProgress) {
		t.Fatalf("expected ErrDuplicateProgress, got %v", err)
	}
}

func TestCompletionThresholdProperty(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")

	seq := 0
	rapid.Check(t, func(rt *rapid.T) {
		duration := rapid.IntRange(1, 36000).Draw(rt, "duration")
		watched := rapid.IntRange(0, 72000).Draw(rt, "watched")

		seq++
		target := f.createLesson(t, fmt.Sprintf("prop%d", seq), duration)
		created, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, watched)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		expected := float64(watched) >= CompletionThreshold*float64(duration)
		if created.Completed != expected {
			rt.Fatalf("watched %d of %d: expected completed=%v, got %v", watched, duration, expected, created.Completed)
		}
	})
}

func TestUpdateProgressCrossesThreshold(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")
	target := f.createLesson(t, "intro", 100)

	created, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Completed {
		t.Fatal("expected an incomplete record")
	}

	updated, err := f.uc.UpdateProgress(ctx, viewer.ID, created.ID, 85)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Completed {
		t.Fatal("expected the update to mark the lesson completed")
	}

	stored, err := f.repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Completed || stored.TimeWatched != 85 {
		t.Fatalf("expected persisted state 85/completed, got %+v", stored)
	}
}

func TestUpdateProgressNeverReverts(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")
	target := f.createLesson(t, "intro", 100)

	created, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created.Completed {
		t.Fatal("expected a completed record")
	}

	updated, err := f.uc.UpdateProgress(ctx, viewer.ID, created.ID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Completed {
		t.Fatal("completed must not revert when watch time drops")
	}
	if updated.TimeWatched != 5 {
		t.Fatalf("expected watch time 5, got %d", updated.TimeWatched)
	}
}

func TestUpdateProgressOwnership(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")
	intruder := f.createUser(t, "intruder")
	target := f.createLesson(t, "intro", 100)

	created, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.UpdateProgress(ctx, intruder.ID, created.ID, 50); !errors.Is(err, ErrNotProgressOwner) {
		t.Fatalf("expected ErrNotProgressOwner, got %v", err)
	}
	if _, err := f.uc.UpdateProgress(ctx, viewer.ID, "missing", 50); !errors.Is(err, ErrProgressNotFound) {
		t.Fatalf("expected ErrProgressNotFound, got %v", err)
	}
}

func TestListProgress(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	viewer := f.createUser(t, "viewer")
	other := f.createUser(t, "other")

	for i := 0; i < 3; i++ {
		target := f.createLesson(t, fmt.Sprintf("lesson%d", i), 100)
		if _, err := f.uc.RecordProgress(ctx, viewer.ID, target.ID, 10*i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	hidden := f.createLesson(t, "hidden", 100)
	if _, err := f.uc.RecordProgress(ctx, other.ID, hidden.ID, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := f.uc.ListProgress(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records for the viewer, got %d", len(records))
	}
	for _, rec := range records {
		if rec.UserID != viewer.ID {
			t.Fatalf("expected only the viewer's records, got %+v", rec)
		}
	}
}
