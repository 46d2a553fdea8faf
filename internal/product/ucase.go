package product

import (
	"context"

	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/user"
	"go.elastic.co/apm"
)

// ProductUseCaseImpl ...
type ProductUseCaseImpl struct {
	ProductRepository ProductRepository
	UserRepository    user.UserRepository
	LessonRepository  lesson.LessonRepository
}

var _ ProductUseCase = &ProductUseCaseImpl{}

// NewProductUseCase ...
func NewProductUseCase(
	ProductRepository ProductRepository,
	UserRepository user.UserRepository,
	LessonRepository lesson.LessonRepository,
) *ProductUseCaseImpl {
	return &ProductUseCaseImpl{
		ProductRepository: ProductRepository,
		UserRepository:    UserRepository,
		LessonRepository:  LessonRepository,
	}
}

// CreateProduct create a product owned by ownerID and grant the owner access
// to it, both in one transaction so a grant failure leaves no orphan product
func (pu *ProductUseCaseImpl) CreateProduct(ctx context.Context, ownerID, name string) (*ProductModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.CreateProduct", "service")
	defer apmSpan.End()

	owner, err := pu.UserRepository.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, user.ErrNoSuchUser
	}

	tx, err := pu.ProductRepository.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := pu.ProductRepository.WithTx(tx)

	post := &ProductModel{Name: name, OwnerID: ownerID, OwnerName: owner.Username}
	if err := repo.SaveProduct(ctx, post); err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err := repo.GrantAccess(ctx, ownerID, post.ID); err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return post, nil
}

// GetAccessibleProducts products the user holds a grant for
func (pu *ProductUseCaseImpl) GetAccessibleProducts(ctx context.Context, userID string) ([]*ProductModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.GetAccessibleProducts", "service")
	defer apmSpan.End()

	return pu.ProductRepository.GetProductsByUser(ctx, userID)
}

// GrantAccess give granteeID viewing rights, caller must own the product
func (pu *ProductUseCaseImpl) GrantAccess(ctx context.Context, callerID, productID, granteeID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.GrantAccess", "service")
	defer apmSpan.End()

	if _, err := pu.AuthorizeMutation(ctx, callerID, productID); err != nil {
		return err
	}
	grantee, err := pu.UserRepository.FindByID(ctx, granteeID)
	if err != nil {
		return err
	}
	if grantee == nil {
		return user.ErrNoSuchUser
	}
	return pu.ProductRepository.GrantAccess(ctx, granteeID, productID)
}

// AuthorizeMutation check callerID owns the product before any mutation
func (pu *ProductUseCaseImpl) AuthorizeMutation(ctx context.Context, callerID, productID string) (*ProductModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.AuthorizeMutation", "service")
	defer apmSpan.End()

	post, err := pu.ProductRepository.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrProductNotFound
	}
	if post.OwnerID != callerID {
		return nil, ErrNotProductOwner
	}
	return post, nil
}

// UpdateProduct rename the product, owner only
func (pu *ProductUseCaseImpl) UpdateProduct(ctx context.Context, callerID, productID, name string) (*ProductModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.UpdateProduct", "service")
	defer apmSpan.End()

	post, err := pu.AuthorizeMutation(ctx, callerID, productID)
	if err != nil {
		return nil, err
	}
	post.Name = name
	if err := pu.ProductRepository.UpdateProduct(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteProduct remove the product with its grants and lesson links, owner only
func (pu *ProductUseCaseImpl) DeleteProduct(ctx context.Context, callerID, productID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.DeleteProduct", "service")
	defer apmSpan.End()

	if _, err := pu.AuthorizeMutation(ctx, callerID, productID); err != nil {
		return err
	}

	tx, err := pu.ProductRepository.BeginTx(ctx)
	if err != nil {
		return err
	}
	repo := pu.ProductRepository.WithTx(tx)
	if err := repo.DeleteProduct(ctx, productID); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// AttachLesson link an existing lesson into the bundle, owner only
func (pu *ProductUseCaseImpl) AttachLesson(ctx context.Context, callerID, productID, lessonID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "ProductUseCaseImpl.AttachLesson", "service")
	defer apmSpan.End()

	if _, err := pu.AuthorizeMutation(ctx, callerID, productID); err != nil {
		return err
	}
	target, err := pu.LessonRepository.FindByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if target == nil {
		return lesson.ErrLessonNotFound
	}
	return pu.ProductRepository.AttachLesson(ctx, productID, lessonID)
}
