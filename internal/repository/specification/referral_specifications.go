package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferrerOwnedBy selects ledger rows belonging to one referrer.
type ReferrerOwnedBy struct {
	ReferrerID uuid.UUID
}

func (s ReferrerOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referrer_id = ?", s.ReferrerID)
}

// ByReferredID selects the referral record for one referred account.
type ByReferredID struct {
	ReferredID uuid.UUID
}

func (s ByReferredID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referred_id = ?", s.ReferredID)
}

// OpenPayouts selects payout requests still holding funds.
type OpenPayouts struct{}

func (s OpenPayouts) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", []string{"pending", "processing"})
}
