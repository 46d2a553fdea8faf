package http

import (
	"errors"
	"net/http"

	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/product"
	"github.com/coursekit/coursekit/internal/progress"
	"github.com/coursekit/coursekit/internal/user"
	"github.com/labstack/echo/v4"
)

// writeDomainError translate well-known domain errors into REST responses,
// anything unrecognized bubbles up to the error handling middleware
func writeDomainError(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, lesson.ErrLessonNotFound),
		errors.Is(err, progress.ErrProgressNotFound):
		code = http.StatusNotFound
	case errors.Is(err, product.ErrNotProductOwner),
		errors.Is(err, progress.ErrNotProgressOwner):
		code = http.StatusForbidden
	case errors.Is(err, user.ErrNoSuchUser),
		errors.Is(err, progress.ErrDuplicateProgress):
		code = http.StatusBadRequest
	default:
		return err
	}
	return c.JSON(code, NewRESTStandardError(code, err.Error()))
}
