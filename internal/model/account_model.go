package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Account struct {
	Id    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name  string    `gorm:"type:varchar(255);not null"`

	Plan                 string     `gorm:"type:varchar(20);not null;default:'free';index"`
	BillingPeriod        string     `gorm:"type:varchar(20);not null;default:'monthly'"`
	PlanExpiry           *time.Time `gorm:"index"`
	SubscriptionStatus   string     `gorm:"type:varchar(20);not null;default:'active'"`
	AutoRenew            bool       `gorm:"not null;default:false"`
	RenewalAttempts      int        `gorm:"not null;default:0"`
	LastRenewalAttempt   *time.Time
	RenewalFailureReason *string        `gorm:"type:varchar(255)"`
	SavedPaymentMethod   datatypes.JSON `gorm:"type:jsonb"`
	ExpiryWarnedFor      *time.Time

	ReferredBy       *uuid.UUID `gorm:"type:uuid;index"`
	StorageUsedBytes int64      `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
