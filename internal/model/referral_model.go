package model

import (
	"time"

	"github.com/google/uuid"
)

type ReferralRecord struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferrerId     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_referrer_referred"`
	ReferredId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_referrer_referred"`
	PlanAmount     float64   `gorm:"type:decimal(10,2);not null"`
	CommissionRate float64   `gorm:"type:decimal(5,4);not null"`

	Status            string    `gorm:"type:varchar(30);not null;index"`
	ActivationDate    time.Time `gorm:"not null"`
	EarningsStartDate *time.Time
	AccruedAmount     float64   `gorm:"type:decimal(10,2);not null;default:0"`
	TotalPaidOut      float64   `gorm:"type:decimal(10,2);not null;default:0"`
	LockedAmount      float64   `gorm:"type:decimal(10,2);not null;default:0"`
	LastStatusChange  time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReferralRecord) TableName() string {
	return "referral_records"
}

type PayoutRequest struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferrerId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount              float64   `gorm:"type:decimal(10,2);not null"`
	Status              string    `gorm:"type:varchar(20);not null;index"`
	RequestedAt         time.Time `gorm:"not null"`
	EstimatedPayoutDate time.Time `gorm:"not null"`
	Notes               string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PayoutRequest) TableName() string {
	return "payout_requests"
}
