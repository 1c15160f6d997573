package mapper

import (
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/model"
)

type ShopMapper struct{}

func NewShopMapper() *ShopMapper {
	return &ShopMapper{}
}

func (m *ShopMapper) ShopToEntity(s *model.Shop) *entity.Shop {
	if s == nil {
		return nil
	}
	return &entity.Shop{
		Id:               s.Id,
		AccountId:        s.AccountId,
		Name:             s.Name,
		Slug:             s.Slug,
		IsActive:         s.IsActive,
		PlatformBranding: s.PlatformBranding,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *ShopMapper) ShopToModel(s *entity.Shop) *model.Shop {
	if s == nil {
		return nil
	}
	return &model.Shop{
		Id:               s.Id,
		AccountId:        s.AccountId,
		Name:             s.Name,
		Slug:             s.Slug,
		IsActive:         s.IsActive,
		PlatformBranding: s.PlatformBranding,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *ShopMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}
	return &entity.Product{
		Id:        p.Id,
		ShopId:    p.ShopId,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ShopMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}
	return &model.Product{
		Id:        p.Id,
		ShopId:    p.ShopId,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ShopMapper) ImageToEntity(i *model.ProductImage) *entity.ProductImage {
	if i == nil {
		return nil
	}
	return &entity.ProductImage{
		Id:         i.Id,
		ProductId:  i.ProductId,
		StorageKey: i.StorageKey,
		SizeBytes:  i.SizeBytes,
		CreatedAt:  i.CreatedAt,
	}
}

func (m *ShopMapper) ImageToModel(i *entity.ProductImage) *model.ProductImage {
	if i == nil {
		return nil
	}
	return &model.ProductImage{
		Id:         i.Id,
		ProductId:  i.ProductId,
		StorageKey: i.StorageKey,
		SizeBytes:  i.SizeBytes,
		CreatedAt:  i.CreatedAt,
	}
}
