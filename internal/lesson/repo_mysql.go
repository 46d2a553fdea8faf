package lesson

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/uuid"
)

type LessonMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ LessonRepository = &LessonMySQL{}

func NewLessonRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *LessonMySQL {
	return &LessonMySQL{Conn, UUIDGenerator}
}

func (repo *LessonMySQL) SaveLesson(ctx context.Context, post *LessonModel) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO lesson(id, "name", video_url, duration)
	VALUES($1,$2,$3,$4)`, post.ID, post.Name, post.VideoURL, post.Duration)
	return err
}

func (repo *LessonMySQL) FindByID(ctx context.Context, id string) (*LessonModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, "name", video_url, duration
	FROM lesson WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		item := new(LessonModel)
		if err := row.Scan(&item.ID, &item.Name, &item.VideoURL, &item.Duration); err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, nil
}

func (repo *LessonMySQL) GetAccessibleLessons(ctx context.Context, userID string) ([]*LessonModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT DISTINCT
    l.id, l."name", l.video_url, l.duration
FROM
    lesson l
        JOIN
    product_lesson pl ON (pl.lesson_id = l.id)
        JOIN
    product_access pa ON (pa.product_id = pl.product_id)
WHERE
    pa.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*LessonModel
	for rows.Next() {
		item := new(LessonModel)
		err := rows.Scan(&item.ID, &item.Name, &item.VideoURL, &item.Duration)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *LessonMySQL) GetLessonsByProducts(ctx context.Context, productIDs []string) (map[string][]*LessonModel, error) {
	result := make(map[string][]*LessonModel)
	if len(productIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(productIDs))
	args := make([]interface{}, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, fmt.Sprintf(`
SELECT
    pl.product_id, l.id, l."name", l.video_url, l.duration
FROM
    lesson l
        JOIN
    product_lesson pl ON (pl.lesson_id = l.id)
WHERE
    pl.product_id IN (%s)
	`, strings.Join(placeholders, ",")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		item := new(LessonModel)
		err := rows.Scan(&productID, &item.ID, &item.Name, &item.VideoURL, &item.Duration)
		if err != nil {
			return nil, err
		}
		result[productID] = append(result[productID], item)
	}
	return result, nil
}
