package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/mapper"
	"github.com/emiflair/wazhop/internal/model"
	"github.com/emiflair/wazhop/internal/repository/contract"
	"github.com/emiflair/wazhop/internal/repository/specification"
)

type ShopRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShopMapper
}

func NewShopRepository(db *gorm.DB) contract.ShopRepository {
	return &ShopRepositoryImpl{
		db:     db,
		mapper: mapper.NewShopMapper(),
	}
}

func (r *ShopRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Shop implementation

func (r *ShopRepositoryImpl) CreateShop(ctx context.Context, shop *entity.Shop) error {
	m := r.mapper.ShopToModel(shop)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*shop = *r.mapper.ShopToEntity(m)
	return nil
}

func (r *ShopRepositoryImpl) UpdateShop(ctx context.Context, shop *entity.Shop) error {
	m := r.mapper.ShopToModel(shop)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*shop = *r.mapper.ShopToEntity(m)
	return nil
}

func (r *ShopRepositoryImpl) DeleteShop(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Shop{}, id).Error
}

func (r *ShopRepositoryImpl) FindAllShops(ctx context.Context, specs ...specification.Specification) ([]*entity.Shop, error) {
	var models []*model.Shop
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Shop, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ShopToEntity(m)
	}
	return entities, nil
}

// Product implementation

func (r *ShopRepositoryImpl) CreateProduct(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ShopRepositoryImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *ShopRepositoryImpl) FindAllProducts(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Product, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ProductToEntity(m)
	}
	return entities, nil
}

// Product image implementation

func (r *ShopRepositoryImpl) CreateImage(ctx context.Context, image *entity.ProductImage) error {
	m := r.mapper.ImageToModel(image)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*image = *r.mapper.ImageToEntity(m)
	return nil
}

func (r *ShopRepositoryImpl) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductImage{}, id).Error
}

func (r *ShopRepositoryImpl) FindAllImages(ctx context.Context, specs ...specification.Specification) ([]*entity.ProductImage, error) {
	var models []*model.ProductImage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ProductImage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ImageToEntity(m)
	}
	return entities, nil
}
