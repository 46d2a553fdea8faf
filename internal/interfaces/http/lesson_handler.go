package http

import (
	"net/http"

	"github.com/coursekit/coursekit/internal/infrastructure/auth"
	"github.com/coursekit/coursekit/internal/infrastructure/validate"
	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/view"
	"github.com/labstack/echo/v4"
)

type LessonHandler struct {
	lessonUseCase lesson.LessonUseCase
	presenter     *view.Presenter
	validator     validate.Validator
	jwtUtil       *auth.JWTUtil
}

func NewLessonHandler(
	LessonUseCase lesson.LessonUseCase,
	Presenter *view.Presenter,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *LessonHandler {
	handler := &LessonHandler{LessonUseCase, Presenter, Validator, JWTUtil}
	return handler
}

type lessonRequest struct {
	Name     string `json:"name" validate:"required,max=256"`
	VideoURL string `json:"video_url" validate:"required,url"`
	Duration int    `json:"duration" validate:"required,min=1"`
}

// HandleGetLessons lessons from every product the caller is granted,
// deduplicated, shaped with the caller's watch state
func (lh *LessonHandler) HandleGetLessons(c echo.Context) (err error) {
	claims := lh.jwtUtil.GetContextToken(c)
	ctx := c.Request().Context()

	lessons, err := lh.lessonUseCase.GetAccessibleLessons(ctx, claims.UID)
	if err != nil {
		return err
	}
	shaped, err := lh.presenter.ShapeLessons(ctx, claims.UID, lessons)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shaped)
}

// HandleCreateLesson create a lesson
func (lh *LessonHandler) HandleCreateLesson(c echo.Context) (err error) {
	post := new(lessonRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := lh.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	created, err := lh.lessonUseCase.CreateLesson(c.Request().Context(), &lesson.LessonModel{
		Name:     post.Name,
		VideoURL: post.VideoURL,
		Duration: post.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
