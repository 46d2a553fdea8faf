package http

import (
	"net/http"

	"github.com/coursekit/coursekit/internal/infrastructure/auth"
	"github.com/coursekit/coursekit/internal/infrastructure/validate"
	"github.com/coursekit/coursekit/internal/product"
	"github.com/coursekit/coursekit/internal/view"
	"github.com/labstack/echo/v4"
)

// ProductHandler product catalog and access grant operations
type ProductHandler struct {
	productUseCase product.ProductUseCase
	presenter      *view.Presenter
	validator      validate.Validator
	jwtUtil        *auth.JWTUtil
}

func NewProductHandler(
	ProductUseCase product.ProductUseCase,
	Presenter *view.Presenter,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ProductHandler {
	handler := &ProductHandler{ProductUseCase, Presenter, Validator, JWTUtil}
	return handler
}

type productRequest struct {
	Name string `json:"name" validate:"required,max=256"`
}

type grantAccessRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type attachLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
}

// HandleGetProducts products the caller holds a grant for, shaped with
// owner identity and per-lesson watch state
func (ph *ProductHandler) HandleGetProducts(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)
	ctx := c.Request().Context()

	products, err := ph.productUseCase.GetAccessibleProducts(ctx, claims.UID)
	if err != nil {
		return err
	}
	shaped, err := ph.presenter.ShapeProducts(ctx, claims.UID, products)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shaped)
}

// HandleCreateProduct create a product owned by the caller
func (ph *ProductHandler) HandleCreateProduct(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)

	post := new(productRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ph.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	ctx := c.Request().Context()
	created, err := ph.productUseCase.CreateProduct(ctx, claims.UID, post.Name)
	if err != nil {
		return writeDomainError(c, err)
	}
	shaped, err := ph.presenter.ShapeProduct(ctx, claims.UID, created)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, shaped)
}

// HandleUpdateProduct rename a product, owner only
func (ph *ProductHandler) HandleUpdateProduct(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)
	productID := c.Param("id")

	post := new(productRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ph.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	updated, err := ph.productUseCase.UpdateProduct(c.Request().Context(), claims.UID, productID, post.Name)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// HandleDeleteProduct delete a product and its grants, owner only
func (ph *ProductHandler) HandleDeleteProduct(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)
	productID := c.Param("id")

	if err := ph.productUseCase.DeleteProduct(c.Request().Context(), claims.UID, productID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGrantAccess grant another user viewing rights, owner only,
// repeated grants are a no-op
func (ph *ProductHandler) HandleGrantAccess(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)
	productID := c.Param("id")

	post := new(grantAccessRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ph.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	if err := ph.productUseCase.GrantAccess(c.Request().Context(), claims.UID, productID, post.UserID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleAttachLesson attach a lesson to a product, owner only
func (ph *ProductHandler) HandleAttachLesson(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)
	productID := c.Param("id")

	post := new(attachLessonRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ph.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	if err := ph.productUseCase.AttachLesson(c.Request().Context(), claims.UID, productID, post.LessonID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
