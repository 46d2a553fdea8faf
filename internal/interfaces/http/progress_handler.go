package http

import (
	"net/http"

	"github.com/coursekit/coursekit/internal/infrastructure/auth"
	"github.com/coursekit/coursekit/internal/infrastructure/validate"
	"github.com/coursekit/coursekit/internal/progress"
	"github.com/labstack/echo/v4"
)

type ProgressHandler struct {
	progressUseCase progress.ProgressUseCase
	validator       validate.Validator
	jwtUtil         *auth.JWTUtil
}

func NewProgressHandler(
	ProgressUseCase progress.ProgressUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ProgressHandler {
	handler := &ProgressHandler{ProgressUseCase, Validator, JWTUtil}
	return handler
}

type recordProgressRequest struct {
	LessonID    string `json:"lesson" validate:"required"`
	TimeWatched int    `json:"time_watched" validate:"min=0"`
}

type updateProgressRequest struct {
	TimeWatched int `json:"time_watched" validate:"min=0"`
}

// HandleRecordProgress create the caller's progress record for a lesson
func (ph *ProgressHandler) HandleRecordProgress(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)

	post := new(recordProgressRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ph.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	created, err := ph.progressUseCase.RecordProgress(c.Request().Context(), claims.UID, post.LessonID, post.TimeWatched)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// HandleUpdateProgress update watch time on the caller's own record
func (ph *ProgressHandler) HandleUpdateProgress(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)
	progressID := c.Param("id")

	post := new(updateProgressRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ph.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	updated, err := ph.progressUseCase.UpdateProgress(c.Request().Context(), claims.UID, progressID, post.TimeWatched)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// HandleListProgress all progress records of the caller
func (ph *ProgressHandler) HandleListProgress(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)

	records, err := ph.progressUseCase.ListProgress(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
