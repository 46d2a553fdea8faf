package progress

import (
	"context"
	"errors"
)

// CompletionThreshold fraction of lesson duration that marks a lesson watched
const CompletionThreshold = 0.8

// ProgressModel a user's cumulative watch state for one lesson,
// unique per (user, lesson)
type ProgressModel struct {
	ID          string `json:"id"`
	UserID      string `json:"user"`
	LessonID    string `json:"lesson"`
	TimeWatched int    `json:"time_watched"` // seconds
	Completed   bool   `json:"completed"`
}

// ErrDuplicateProgress a record for the (user, lesson) pair already exists
var ErrDuplicateProgress = errors.New("Progress for this lesson is already recorded")

// ErrProgressNotFound referenced progress record does not exist
var ErrProgressNotFound = errors.New("Progress record not found")

// ErrNotProgressOwner progress record belongs to another user
var ErrNotProgressOwner = errors.New("Progress record belongs to another user")

type ProgressRepository interface {
	SaveProgress(ctx context.Context, post *ProgressModel) error
	FindByID(ctx context.Context, id string) (*ProgressModel, error)
	FindByUserAndLesson(ctx context.Context, userID, lessonID string) (*ProgressModel, error)
	// FindByUser all progress records of one user, fetched in one query
	FindByUser(ctx context.Context, userID string) ([]*ProgressModel, error)
	UpdateProgress(ctx context.Context, post *ProgressModel) error
}

type ProgressUseCase interface {
	RecordProgress(ctx context.Context, userID, lessonID string, timeWatched int) (*ProgressModel, error)
	UpdateProgress(ctx context.Context, callerID, progressID string, timeWatched int) (*ProgressModel, error)
	ListProgress(ctx context.Context, userID string) ([]*ProgressModel, error)
}
