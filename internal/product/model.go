package product

import (
	"context"
	"errors"

	"github.com/coursekit/coursekit/internal/infrastructure/driver"
)

// ProductModel a purchasable bundle of lessons with one owning user.
// OwnerName is populated by queries joining the owner row.
type ProductModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"-"`
}

// ProductAccessModel a grant giving a user viewing rights to a product
type ProductAccessModel struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	CreatedAt int64  `json:"created_at"`
}

// ErrProductNotFound referenced product does not exist
var ErrProductNotFound = errors.New("Product not found")

// ErrNotProductOwner mutation attempted by a user other than the owner
var ErrNotProductOwner = errors.New("Only the product owner may perform this operation")

type ProductRepository interface {
	SaveProduct(ctx context.Context, post *ProductModel) error
	FindByID(ctx context.Context, id string) (*ProductModel, error)
	UpdateProduct(ctx context.Context, post *ProductModel) error
	DeleteProduct(ctx context.Context, id string) error
	AttachLesson(ctx context.Context, productID, lessonID string) error
	// GrantAccess create a viewing grant, repeated grants are a no-op
	GrantAccess(ctx context.Context, userID, productID string) error
	HasAccess(ctx context.Context, userID, productID string) (bool, error)
	// GetProductsByUser products the user holds a grant for, deduplicated,
	// owner identity included
	GetProductsByUser(ctx context.Context, userID string) ([]*ProductModel, error)
	BeginTx(ctx context.Context) (driver.ITransactionalDB, error)
	WithTx(tx driver.ITransactionalDB) ProductRepository
}

type ProductUseCase interface {
	// CreateProduct create the product and the owner's self-grant in one transaction
	CreateProduct(ctx context.Context, ownerID, name string) (*ProductModel, error)
	GetAccessibleProducts(ctx context.Context, userID string) ([]*ProductModel, error)
	GrantAccess(ctx context.Context, callerID, productID, granteeID string) error
	// AuthorizeMutation nil if callerID owns the product
	AuthorizeMutation(ctx context.Context, callerID, productID string) (*ProductModel, error)
	UpdateProduct(ctx context.Context, callerID, productID, name string) (*ProductModel, error)
	DeleteProduct(ctx context.Context, callerID, productID string) error
	AttachLesson(ctx context.Context, callerID, productID, lessonID string) error
}
