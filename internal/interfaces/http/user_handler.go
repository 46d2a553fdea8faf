package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/coursekit/coursekit/internal/infrastructure/auth"
	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/validate"
	"github.com/coursekit/coursekit/internal/user"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler user related operations
type UserHandler struct {
	JWTUtil        *auth.JWTUtil
	UserRepository user.UserRepository
	KVStore        driver.KeyValueDB
	UserUseCase    user.UserUseCase
	Validator      validate.Validator
	MaximumRetry   int
	RetryTimeout   time.Duration
}

// NewUserHandler create an user controller instance
func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	UserRepository user.UserRepository,
	KVStore driver.KeyValueDB,
	UserUseCase user.UserUseCase,
	MaximumRetry int,
	RetryTimeout time.Duration,
	Validator validate.Validator,
) *UserHandler {
	handler := &UserHandler{
		JWTUtil:        JWTUtil,
		UserUseCase:    UserUseCase,
		Validator:      Validator,
		KVStore:        KVStore,
		UserRepository: UserRepository,
		MaximumRetry:   MaximumRetry,
		RetryTimeout:   RetryTimeout,
	}
	return handler
}

type signUpRequest struct {
	Username  string `json:"username" validate:"required,max=128"`
	Password1 string `json:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignIn validate credential and issue the session token
func (uh *UserHandler) HandleSignIn(c echo.Context) (err error) {
	ju := uh.JWTUtil
	repo := uh.UserRepository

	post := new(signInRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}

	ctx := c.Request().Context()
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	txRepo := repo.WithTx(tx)
	found, err := txRepo.FindByCredential(ctx, &user.UserModel{Username: post.Username})
	if err != nil {
		tx.Rollback(ctx)
		return err
	}
	if found == nil {
		tx.Rollback(ctx)
		return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, user.ErrNoSuchUser.Error()))
	}

	now := time.Now()
	if found.LoginRetry >= uh.MaximumRetry {
		if now.Sub(time.Unix(found.LastLogin, 0)) < uh.RetryTimeout {
			tx.Rollback(ctx)
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, user.ErrUserTooManyRetry.Error()))
		}
		// retry window elapsed
		found.LoginRetry = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(post.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			found.LoginRetry++
			found.LastLogin = now.Unix()
			if err := txRepo.UpdateLogin(ctx, found); err != nil {
				tx.Rollback(ctx)
				return err
			}
			if err := tx.Commit(ctx); err != nil {
				return err
			}
			return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, user.ErrNoSuchUser.Error()))
		}
		tx.Rollback(ctx)
		return err
	}

	found.LoginRetry = 0
	found.LastLogin = now.Unix()
	if err := txRepo.UpdateLogin(ctx, found); err != nil {
		tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	tokenStr, err := ju.GenerateTokenStr(found.ID, found.Username)
	if err != nil {
		return err
	}
	ju.SetClientToken(c, tokenStr)
	return c.JSON(http.StatusOK, found)
}

// HandleSignUp register a new user
func (uh *UserHandler) HandleSignUp(c echo.Context) (err error) {
	post := new(signUpRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}

	if err := uh.Validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	password, err := bcrypt.GenerateFromPassword([]byte(post.Password1), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	created, err := uh.UserUseCase.SignUp(c.Request().Context(), &user.UserModel{
		Username: post.Username,
		Password: string(password),
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicatedUser) {
			return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// HandleSignOut clear the session cookie and blacklist the token for its
// remaining lifetime
func (uh *UserHandler) HandleSignOut(c echo.Context) (err error) {
	ju := uh.JWTUtil
	kv := uh.KVStore

	if tokenStr, err := ju.ExtractToken(c); err == nil {
		if token, err := ju.Validate(tokenStr); err == nil {
			ju.ClearClientToken(c)
			return kv.SetEX(tokenStr, "", token.TimeRemaining())
		}
		return c.NoContent(http.StatusUnauthorized)
	}
	return nil
}

// HandleUserExists report whether a username is taken
func (uh *UserHandler) HandleUserExists(c echo.Context) (err error) {
	post := new(user.UserModel)
	post.Username = c.QueryParam("username")

	if err := uh.Validator.Empty("username", post.Username); err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", err))
	}

	existing, err := uh.UserUseCase.Exists(c.Request().Context(), post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, existing)
}
