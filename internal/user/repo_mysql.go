package user

import (
	"context"
	"database/sql"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/uuid"
)

type UserMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ UserRepository = &UserMySQL{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserMySQL {
	return &UserMySQL{Conn, UUIDGenerator}
}

// FindByCredential query user with provided credential
func (repo *UserMySQL) FindByCredential(ctx context.Context, post *UserModel) (*UserModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, username, password, login_retry, last_login
	FROM "user" WHERE username=$1`, post.Username)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		user := new(UserModel)
		if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.LoginRetry, &user.LastLogin); err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, nil
}

// FindByID query user by primary key
func (repo *UserMySQL) FindByID(ctx context.Context, id string) (*UserModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, username, password, login_retry, last_login
	FROM "user" WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		user := new(UserModel)
		if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.LoginRetry, &user.LastLogin); err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, nil
}

func (repo *UserMySQL) SaveUser(ctx context.Context, post *UserModel) error {
	conn := repo.Conn
	// generate id
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO "user"(id, username, password, last_login)
	VALUES($1,$2,$3,$4)`, post.ID, post.Username, post.Password, post.LastLogin)

	if driver.IsUniqueViolation(err) {
		return ErrDuplicatedUser
	}
	return err
}

func (repo *UserMySQL) UpdateLogin(ctx context.Context, post *UserModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE "user"
	SET login_retry=$1,
			last_login=$2
	WHERE id = $3`, post.LoginRetry, post.LastLogin, post.ID)
	return err
}

func (repo *UserMySQL) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}

// WithTx bind a copy of the repository to the given transaction
func (repo *UserMySQL) WithTx(tx driver.ITransactionalDB) UserRepository {
	return &UserMySQL{tx, repo.UUIDGenerator}
}
