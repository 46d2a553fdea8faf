package lesson

import (
	"context"
	"errors"
)

// LessonModel a single course lesson with its video reference
type LessonModel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	VideoURL string `json:"video_url"`
	Duration int    `json:"duration"` // seconds
}

// ErrLessonNotFound referenced lesson does not exist
var ErrLessonNotFound = errors.New("Lesson not found")

type LessonRepository interface {
	SaveLesson(ctx context.Context, post *LessonModel) error
	FindByID(ctx context.Context, id string) (*LessonModel, error)
	// GetAccessibleLessons lessons belonging to any product the user is granted,
	// deduplicated across products
	GetAccessibleLessons(ctx context.Context, userID string) ([]*LessonModel, error)
	// GetLessonsByProducts lessons of each listed product, fetched in one query
	GetLessonsByProducts(ctx context.Context, productIDs []string) (map[string][]*LessonModel, error)
}

type LessonUseCase interface {
	CreateLesson(ctx context.Context, post *LessonModel) (*LessonModel, error)
	GetAccessibleLessons(ctx context.Context, userID string) ([]*LessonModel, error)
}
