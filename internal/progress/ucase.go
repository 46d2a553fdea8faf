package progress

import (
	"context"

	"github.com/coursekit/coursekit/internal/lesson"
	"go.elastic.co/apm"
)

// ProgressUseCaseImpl ...
type ProgressUseCaseImpl struct {
	ProgressRepository ProgressRepository
	LessonRepository   lesson.LessonRepository
}

var _ ProgressUseCase = &ProgressUseCaseImpl{}

// NewProgressUseCase ...
func NewProgressUseCase(
	ProgressRepository ProgressRepository,
	LessonRepository lesson.LessonRepository,
) *ProgressUseCaseImpl {
	return &ProgressUseCaseImpl{
		ProgressRepository: ProgressRepository,
		LessonRepository:   LessonRepository,
	}
}

// RecordProgress create the (user, lesson) progress record. The completed
// flag is final before the insert, so a row never exists in a state where
// the threshold holds but the flag is unset
func (pu *ProgressUseCaseImpl) RecordProgress(ctx context.Context, userID, lessonID string, timeWatched int) (*ProgressModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.RecordProgress", "service")
	defer apmSpan.End()

	target, err := pu.LessonRepository.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, lesson.ErrLessonNotFound
	}

	if existing, err := pu.ProgressRepository.FindByUserAndLesson(ctx, userID, lessonID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateProgress
	}

	post := &ProgressModel{
		UserID:      userID,
		LessonID:    lessonID,
		TimeWatched: timeWatched,
		Completed:   reachedThreshold(timeWatched, target.Duration),
	}
	if err := pu.ProgressRepository.SaveProgress(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateProgress set a new watched time on an existing record. The threshold
// is re-evaluated on every update, and completed never reverts once set
func (pu *ProgressUseCaseImpl) UpdateProgress(ctx context.Context, callerID, progressID string, timeWatched int) (*ProgressModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.UpdateProgress", "service")
	defer apmSpan.End()

	post, err := pu.ProgressRepository.FindByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrProgressNotFound
	}
	if post.UserID != callerID {
		return nil, ErrNotProgressOwner
	}

	target, err := pu.LessonRepository.FindByID(ctx, post.LessonID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, lesson.ErrLessonNotFound
	}

	post.TimeWatched = timeWatched
	if !post.Completed {
		post.Completed = reachedThreshold(timeWatched, target.Duration)
	}
	if err := pu.ProgressRepository.UpdateProgress(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListProgress all progress records of one user
func (pu *ProgressUseCaseImpl) ListProgress(ctx context.Context, userID string) ([]*ProgressModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.ListProgress", "service")
	defer apmSpan.End()

	return pu.ProgressRepository.FindByUser(ctx, userID)
}

func reachedThreshold(timeWatched, duration int) bool {
	return float64(timeWatched) >= CompletionThreshold*float64(duration)
}
