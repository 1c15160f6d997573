package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type ReferralStatus string
type PayoutStatus string

const (
	ReferralStatusPendingActivation ReferralStatus = "pending_activation"
	ReferralStatusActive            ReferralStatus = "active"
	ReferralStatusCancelled         ReferralStatus = "cancelled"

	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusPaid       PayoutStatus = "paid"
	PayoutStatusRejected   PayoutStatus = "rejected"
)

const accrualCycle = 30 * 24 * time.Hour

// ReferralRecord tracks commission for one referred account that ever
// reached a paid tier. Created on first premium upgrade, not on signup.
type ReferralRecord struct {
	Id             uuid.UUID
	ReferrerId     uuid.UUID
	ReferredId     uuid.UUID
	PlanAmount     float64 // commission base; the premium monthly price
	CommissionRate float64

	Status            ReferralStatus
	ActivationDate    time.Time // when the activation hold elapses
	EarningsStartDate *time.Time
	AccruedAmount     float64
	TotalPaidOut      float64
	LockedAmount      float64
	LastStatusChange  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthlyCommission is round(planAmount × commissionRate) to cents.
func (r *ReferralRecord) MonthlyCommission() float64 {
	return math.Round(r.PlanAmount*r.CommissionRate*100) / 100
}

// ResetToPending re-arms the record after the referred account re-reaches
// premium. The hold and the lock start over; accrued history is kept.
func (r *ReferralRecord) ResetToPending(now time.Time, activationDate time.Time) {
	r.Status = ReferralStatusPendingActivation
	r.ActivationDate = activationDate
	r.EarningsStartDate = nil
	r.LockedAmount = r.MonthlyCommission()
	r.LastStatusChange = now
}

// Activate releases the hold: earnings start at the activation date, not at
// the moment of the recomputation that observed it.
func (r *ReferralRecord) Activate(now time.Time) {
	r.Status = ReferralStatusActive
	start := r.ActivationDate
	r.EarningsStartDate = &start
	r.LockedAmount = 0
	r.LastStatusChange = now
}

// CancelRecord stops accrual and releases any remaining lock. Already
// accrued earnings stay withdrawable.
func (r *ReferralRecord) CancelRecord(now time.Time) {
	r.Status = ReferralStatusCancelled
	r.LockedAmount = 0
	r.LastStatusChange = now
}

// Accrue recomputes accruedAmount as floor(monthsElapsed) × monthlyCommission,
// clamped so repeated recomputations never decrease it.
func (r *ReferralRecord) Accrue(now time.Time) {
	if r.Status != ReferralStatusActive || r.EarningsStartDate == nil {
		return
	}
	elapsed := now.Sub(*r.EarningsStartDate)
	if elapsed < 0 {
		return
	}
	months := float64(int64(elapsed / accrualCycle))
	amount := math.Round(months*r.MonthlyCommission()*100) / 100
	if amount > r.AccruedAmount {
		r.AccruedAmount = amount
	}
}

// PayoutRequest is created by explicit user action and resolved out of band;
// the ledger only tracks its existence and locks funds against double-spend.
type PayoutRequest struct {
	Id                  uuid.UUID
	ReferrerId          uuid.UUID
	Amount              float64
	Status              PayoutStatus
	RequestedAt         time.Time
	EstimatedPayoutDate time.Time
	Notes               string
}

func (p *PayoutRequest) IsOpen() bool {
	return p.Status == PayoutStatusPending || p.Status == PayoutStatusProcessing
}

// LedgerSummary is derived fresh from the record list on every read.
// Nothing here is ever stored.
type LedgerSummary struct {
	TotalEarned         float64
	TotalPaidOut        float64
	LockedAmount        float64
	WithdrawableBalance float64
	MonthlyEarnings     float64
	TotalReferrals      int
	ActiveReferrals     int
	PendingReferrals    int
}

// BuildLedgerSummary is the escrow projection: locked = record holds plus
// open payout requests, withdrawable = max(0, earned − paid − locked).
func BuildLedgerSummary(records []*ReferralRecord, payouts []*PayoutRequest) *LedgerSummary {
	s := &LedgerSummary{}
	for _, r := range records {
		s.TotalReferrals++
		s.TotalEarned += r.AccruedAmount
		s.TotalPaidOut += r.TotalPaidOut
		s.LockedAmount += r.LockedAmount
		switch r.Status {
		case ReferralStatusActive:
			s.ActiveReferrals++
			s.MonthlyEarnings += r.MonthlyCommission()
		case ReferralStatusPendingActivation:
			s.PendingReferrals++
		}
	}
	for _, p := range payouts {
		if p.IsOpen() {
			s.LockedAmount += p.Amount
		}
	}
	s.WithdrawableBalance = s.TotalEarned - s.TotalPaidOut - s.LockedAmount
	if s.WithdrawableBalance < 0 {
		s.WithdrawableBalance = 0
	}
	return s
}
