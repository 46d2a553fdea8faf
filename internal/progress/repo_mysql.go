package progress

import (
	"context"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/uuid"
)

type ProgressMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ ProgressRepository = &ProgressMySQL{}

func NewProgressRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *ProgressMySQL {
	return &ProgressMySQL{Conn, UUIDGenerator}
}

// SaveProgress insert a progress record, the (user, lesson) unique key
// backs up the use case's duplicate check
func (repo *ProgressMySQL) SaveProgress(ctx context.Context, post *ProgressModel) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO lesson_progress(id, user_id, lesson_id, time_watched, completed)
	VALUES($1,$2,$3,$4,$5)`, post.ID, post.UserID, post.LessonID, post.TimeWatched, post.Completed)
	if driver.IsUniqueViolation(err) {
		return ErrDuplicateProgress
	}
	return err
}

func (repo *ProgressMySQL) FindByID(ctx context.Context, id string) (*ProgressModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, user_id, lesson_id, time_watched, completed
	FROM lesson_progress WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		item := new(ProgressModel)
		if err := row.Scan(&item.ID, &item.UserID, &item.LessonID, &item.TimeWatched, &item.Completed); err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, nil
}

func (repo *ProgressMySQL) FindByUserAndLesson(ctx context.Context, userID, lessonID string) (*ProgressModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, user_id, lesson_id, time_watched, completed
	FROM lesson_progress WHERE user_id=$1 AND lesson_id=$2`, userID, lessonID)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		item := new(ProgressModel)
		if err := row.Scan(&item.ID, &item.UserID, &item.LessonID, &item.TimeWatched, &item.Completed); err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, nil
}

func (repo *ProgressMySQL) FindByUser(ctx context.Context, userID string) ([]*ProgressModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT id, user_id, lesson_id, time_watched, completed
	FROM lesson_progress WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ProgressModel
	for rows.Next() {
		item := new(ProgressModel)
		err := rows.Scan(&item.ID, &item.UserID, &item.LessonID, &item.TimeWatched, &item.Completed)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *ProgressMySQL) UpdateProgress(ctx context.Context, post *ProgressModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE lesson_progress
	SET time_watched=$1,
			completed=$2
	WHERE id = $3`, post.TimeWatched, post.Completed, post.ID)
	return err
}
