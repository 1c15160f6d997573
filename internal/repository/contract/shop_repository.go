package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/repository/specification"
)

type ShopRepository interface {
	// Shops
	CreateShop(ctx context.Context, shop *entity.Shop) error
	UpdateShop(ctx context.Context, shop *entity.Shop) error
	DeleteShop(ctx context.Context, id uuid.UUID) error
	FindAllShops(ctx context.Context, specs ...specification.Specification) ([]*entity.Shop, error)

	// Products
	CreateProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindAllProducts(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)

	// Product images
	CreateImage(ctx context.Context, image *entity.ProductImage) error
	DeleteImage(ctx context.Context, id uuid.UUID) error
	FindAllImages(ctx context.Context, specs ...specification.Specification) ([]*entity.ProductImage, error)
}
