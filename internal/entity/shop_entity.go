package entity

import (
	"time"

	"github.com/google/uuid"
)

// Shop is the top-level resource container an account owns. The oldest shop
// is the "primary" kept active when the account drops to free.
type Shop struct {
	Id               uuid.UUID
	AccountId        uuid.UUID
	Name             string
	Slug             string
	IsActive         bool
	PlatformBranding bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Product struct {
	Id        uuid.UUID
	ShopId    uuid.UUID
	Name      string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductImage struct {
	Id         uuid.UUID
	ProductId  uuid.UUID
	StorageKey string
	SizeBytes  int64
	CreatedAt  time.Time
}
