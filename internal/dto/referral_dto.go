// FILE: internal/dto/referral_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReferralRecordResponse struct {
	Id                uuid.UUID  `json:"id"`
	ReferredId        uuid.UUID  `json:"referred_id"`
	Status            string     `json:"status"`
	ActivationDate    time.Time  `json:"activation_date"`
	EarningsStartDate *time.Time `json:"earnings_start_date,omitempty"`
	MonthlyCommission float64    `json:"monthly_commission"`
	AccruedAmount     float64    `json:"accrued_amount"`
	TotalPaidOut      float64    `json:"total_paid_out"`
	LockedAmount      float64    `json:"locked_amount"`
}

type PayoutRequestResponse struct {
	Id                  uuid.UUID `json:"id"`
	Amount              float64   `json:"amount"`
	Status              string    `json:"status"`
	RequestedAt         time.Time `json:"requested_at"`
	EstimatedPayoutDate time.Time `json:"estimated_payout_date"`
	Notes               string    `json:"notes,omitempty"`
}

type ReferralSnapshotResponse struct {
	TotalEarned         float64                   `json:"total_earned"`
	TotalPaidOut        float64                   `json:"total_paid_out"`
	LockedAmount        float64                   `json:"locked_amount"`
	WithdrawableBalance float64                   `json:"withdrawable_balance"`
	MonthlyEarnings     float64                   `json:"monthly_earnings"`
	TotalReferrals      int                       `json:"total_referrals"`
	ActiveReferrals     int                       `json:"active_referrals"`
	PendingReferrals    int                       `json:"pending_referrals"`
	Records             []*ReferralRecordResponse `json:"records"`
	PayoutRequests      []*PayoutRequestResponse  `json:"payout_requests"`
}

type PayoutRequestRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Notes  string  `json:"notes" validate:"max=500"`
}

// PlanChangedMessage rides the in-process bus from the subscription side to
// the referral ledger consumer.
type PlanChangedMessage struct {
	AccountId  uuid.UUID `json:"account_id"`
	OldPlan    string    `json:"old_plan"`
	NewPlan    string    `json:"new_plan"`
	OccurredAt time.Time `json:"occurred_at"`
}
