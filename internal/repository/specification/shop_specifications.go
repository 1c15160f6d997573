package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopOwnedBy selects shops owned by an account.
type ShopOwnedBy struct {
	AccountID uuid.UUID
}

func (s ShopOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("account_id = ?", s.AccountID)
}

// ByShopID selects products belonging to one shop.
type ByShopID struct {
	ShopID uuid.UUID
}

func (s ByShopID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("shop_id = ?", s.ShopID)
}

// ByProductID selects images attached to one product.
type ByProductID struct {
	ProductID uuid.UUID
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id = ?", s.ProductID)
}
