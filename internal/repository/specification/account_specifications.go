package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// PaidAccounts selects accounts on any paid tier.
type PaidAccounts struct{}

func (s PaidAccounts) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan <> ?", "free")
}

// StatusIs filters on subscription status.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscription_status = ?", s.Status)
}

// ExpiryWithin selects accounts whose plan expiry falls inside (From, Until].
// Used by the warning pass for the next-24h window.
type ExpiryWithin struct {
	From  time.Time
	Until time.Time
}

func (s ExpiryWithin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan_expiry > ? AND plan_expiry <= ?", s.From, s.Until)
}

// ExpiryPassed selects accounts already past their plan expiry.
type ExpiryPassed struct {
	Now time.Time
}

func (s ExpiryPassed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan_expiry IS NOT NULL AND plan_expiry <= ?", s.Now)
}

// NotWarnedForCurrentExpiry skips accounts already warned for their current
// expiry instant, keeping the warning pass idempotent.
type NotWarnedForCurrentExpiry struct{}

func (s NotWarnedForCurrentExpiry) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expiry_warned_for IS NULL OR expiry_warned_for <> plan_expiry")
}

// ReferredBy selects accounts referred by the given referrer.
type ReferredBy struct {
	ReferrerID uuid.UUID
}

func (s ReferredBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referred_by = ?", s.ReferrerID)
}
