package user

import (
	"context"
	"errors"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
)

// UserModel persisted user record
type UserModel struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"-"`
	LoginRetry int    `json:"-"`
	LastLogin  int64  `json:"-"`
}

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username is already registered")

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("Invalid credentials")

// ErrUserTooManyRetry login attempts exhausted
var ErrUserTooManyRetry = errors.New("Too many login attempts")

type UserRepository interface {
	FindByCredential(ctx context.Context, post *UserModel) (*UserModel, error)
	FindByID(ctx context.Context, id string) (*UserModel, error)
	SaveUser(ctx context.Context, post *UserModel) error
	UpdateLogin(ctx context.Context, post *UserModel) error
	BeginTx(ctx context.Context) (driver.ITransactionalDB, error)
	WithTx(tx driver.ITransactionalDB) UserRepository
}

type UserUseCase interface {
	SignUp(ctx context.Context, post *UserModel) (*UserModel, error)
	Exists(ctx context.Context, post *UserModel) (bool, error)
}
