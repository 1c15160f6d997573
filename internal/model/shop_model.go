package model

import (
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Slug             string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	IsActive         bool      `gorm:"not null;default:true"`
	PlatformBranding bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Shop) TableName() string {
	return "shops"
}

type Product struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopId uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Price  float64   `gorm:"type:decimal(10,2);not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

type ProductImage struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId  uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey string    `gorm:"type:varchar(512);not null"`
	SizeBytes  int64     `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
