package product

import (
	"context"
	"database/sql"
	"time"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/uuid"
)

type ProductMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ ProductRepository = &ProductMySQL{}

func NewProductRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *ProductMySQL {
	return &ProductMySQL{Conn, UUIDGenerator}
}

func (repo *ProductMySQL) SaveProduct(ctx context.Context, post *ProductModel) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO product(id, "name", owner_id)
	VALUES($1,$2,$3)`, post.ID, post.Name, post.OwnerID)
	return err
}

func (repo *ProductMySQL) FindByID(ctx context.Context, id string) (*ProductModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT
    p.id, p."name", p.owner_id, u.username
FROM
    product p
        JOIN
    "user" u ON (u.id = p.owner_id)
WHERE
    p.id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		item := new(ProductModel)
		if err := row.Scan(&item.ID, &item.Name, &item.OwnerID, &item.OwnerName); err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, nil
}

func (repo *ProductMySQL) UpdateProduct(ctx context.Context, post *ProductModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE product
	SET "name"=$1
	WHERE id = $2`, post.Name, post.ID)
	return err
}

// DeleteProduct remove the product with its grants and lesson links
func (repo *ProductMySQL) DeleteProduct(ctx context.Context, id string) error {
	conn := repo.Conn
	if _, err := conn.ExecContext(ctx, `DELETE FROM product_access WHERE product_id=$1`, id); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM product_lesson WHERE product_id=$1`, id); err != nil {
		return err
	}
	_, err := conn.ExecContext(ctx, `DELETE FROM product WHERE id=$1`, id)
	return err
}

func (repo *ProductMySQL) AttachLesson(ctx context.Context, productID, lessonID string) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `INSERT INTO product_lesson(product_id, lesson_id)
	VALUES($1,$2)`, productID, lessonID)
	if driver.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// GrantAccess repeated grants hit the unique key and are treated as success
func (repo *ProductMySQL) GrantAccess(ctx context.Context, userID, productID string) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	id, err := UUIDGenerator.Generate()
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `INSERT INTO product_access(id, user_id, product_id, created_at)
	VALUES($1,$2,$3,$4)`, id, userID, productID, time.Now().Unix())
	if driver.IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (repo *ProductMySQL) HasAccess(ctx context.Context, userID, productID string) (bool, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT 1 FROM product_access
	WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return false, err
	}
	defer row.Close()
	return row.Next(), nil
}

func (repo *ProductMySQL) GetProductsByUser(ctx context.Context, userID string) ([]*ProductModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT DISTINCT
    p.id, p."name", p.owner_id, u.username
FROM
    product p
        JOIN
    product_access pa ON (pa.product_id = p.id)
        JOIN
    "user" u ON (u.id = p.owner_id)
WHERE
    pa.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ProductModel
	for rows.Next() {
		item := new(ProductModel)
		err := rows.Scan(&item.ID, &item.Name, &item.OwnerID, &item.OwnerName)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *ProductMySQL) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}

// WithTx bind a copy of the repository to the given transaction
func (repo *ProductMySQL) WithTx(tx driver.ITransactionalDB) ProductRepository {
	return &ProductMySQL{tx, repo.UUIDGenerator}
}
