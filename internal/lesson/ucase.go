package lesson

import (
	"context"

	"go.elastic.co/apm"
)

// LessonUseCaseImpl ...
type LessonUseCaseImpl struct {
	LessonRepository LessonRepository
}

var _ LessonUseCase = &LessonUseCaseImpl{}

// NewLessonUseCase ...
func NewLessonUseCase(
	LessonRepository LessonRepository,
) *LessonUseCaseImpl {
	return &LessonUseCaseImpl{LessonRepository}
}

// CreateLesson persist a new lesson
func (lu *LessonUseCaseImpl) CreateLesson(ctx context.Context, post *LessonModel) (*LessonModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "LessonUseCaseImpl.CreateLesson", "service")
	defer apmSpan.End()

	if err := lu.LessonRepository.SaveLesson(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetAccessibleLessons lessons reachable through the user's granted products
func (lu *LessonUseCaseImpl) GetAccessibleLessons(ctx context.Context, userID string) ([]*LessonModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "LessonUseCaseImpl.GetAccessibleLessons", "service")
	defer apmSpan.End()

	return lu.LessonRepository.GetAccessibleLessons(ctx, userID)
}
