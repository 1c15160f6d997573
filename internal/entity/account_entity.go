package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/apperrors"
)

type Plan string
type BillingPeriod string
type SubscriptionStatus string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"

	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Tier gives the total order free < pro < premium used to reject
// same-or-lower "upgrades". Unknown plans sort below free.
func (p Plan) Tier() int {
	switch p {
	case PlanFree:
		return 0
	case PlanPro:
		return 1
	case PlanPremium:
		return 2
	default:
		return -1
	}
}

// Duration is the billing cycle length anchored on the renewal instant.
func (b BillingPeriod) Duration() (time.Duration, error) {
	switch b {
	case BillingPeriodMonthly:
		return 30 * 24 * time.Hour, nil
	case BillingPeriodYearly:
		return 365 * 24 * time.Hour, nil
	default:
		return 0, apperrors.Validation("unknown billing period %q", b)
	}
}

// PaymentMethod is the saved gateway token used by auto-renewal.
// Only the renewal path reads it.
type PaymentMethod struct {
	Token  string `json:"token"`
	Last4  string `json:"last4"`
	Brand  string `json:"brand"`
	Expiry string `json:"expiry"`
}

// Account owns at most one subscription. All mutable billing counters live
// here and are mutated only through the transition methods below, never
// written directly by the scheduler.
type Account struct {
	Id    uuid.UUID
	Email string
	Name  string

	Plan                 Plan
	BillingPeriod        BillingPeriod
	PlanExpiry           *time.Time
	SubscriptionStatus   SubscriptionStatus
	AutoRenew            bool
	RenewalAttempts      int
	LastRenewalAttempt   *time.Time
	RenewalFailureReason *string
	SavedPaymentMethod   *PaymentMethod

	// ExpiryWarnedFor records the expiry instant an expiring-soon warning
	// was already sent for, so the warning pass never repeats itself.
	ExpiryWarnedFor *time.Time

	ReferredBy       *uuid.UUID
	StorageUsedBytes int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) IsPaid() bool {
	return a.Plan != PlanFree
}

// EffectivePlan collapses a past-expiry paid plan to free for read paths.
// The stored Plan field only changes through Expire().
func (a *Account) EffectivePlan(now time.Time) Plan {
	if a.Plan == PlanFree {
		return PlanFree
	}
	if a.PlanExpiry != nil && !a.PlanExpiry.After(now) {
		return PlanFree
	}
	return a.Plan
}

// IsActivePremium reports whether the account is a non-cancelled premium
// subscriber right now. The referral ledger keys commission accrual on this.
func (a *Account) IsActivePremium(now time.Time) bool {
	return a.EffectivePlan(now) == PlanPremium &&
		a.SubscriptionStatus != SubscriptionStatusCancelled
}

// UpgradeTo moves the account to a strictly higher paid tier. Expiry is
// anchored at now; renewal counters reset. autoRenew is left untouched
// unless the caller provides a value.
func (a *Account) UpgradeTo(plan Plan, period BillingPeriod, now time.Time, autoRenew *bool) error {
	if plan != PlanPro && plan != PlanPremium {
		return apperrors.Validation("plan %q is not a paid tier", plan)
	}
	if plan.Tier() <= a.Plan.Tier() {
		return apperrors.Conflict("INVALID_TRANSITION: %s is not an upgrade from %s", plan, a.Plan)
	}
	dur, err := period.Duration()
	if err != nil {
		return err
	}

	expiry := now.Add(dur)
	a.Plan = plan
	a.BillingPeriod = period
	a.PlanExpiry = &expiry
	a.SubscriptionStatus = SubscriptionStatusActive
	if autoRenew != nil {
		a.AutoRenew = *autoRenew
	}
	a.resetRenewalCounters()
	a.ExpiryWarnedFor = nil
	return nil
}

// ExtendAfterRenewal applies a successful charge: the new expiry extends
// from max(now, currentExpiry) so early renewals never lose paid-for time.
func (a *Account) ExtendAfterRenewal(now time.Time) error {
	if !a.IsPaid() {
		return apperrors.Validation("cannot renew a free plan")
	}
	dur, err := a.BillingPeriod.Duration()
	if err != nil {
		return err
	}

	anchor := now
	if a.PlanExpiry != nil && a.PlanExpiry.After(now) {
		anchor = *a.PlanExpiry
	}
	expiry := anchor.Add(dur)
	a.PlanExpiry = &expiry
	a.SubscriptionStatus = SubscriptionStatusActive
	a.resetRenewalCounters()
	a.ExpiryWarnedFor = nil
	return nil
}

// RecordRenewalFailure bumps the attempt counter without touching plan or
// expiry. The caller decides when the cap forces an expiry.
func (a *Account) RecordRenewalFailure(now time.Time, reason string) {
	a.RenewalAttempts++
	a.LastRenewalAttempt = &now
	a.RenewalFailureReason = &reason
}

// Cancel turns off auto-renewal; access continues until expiry.
func (a *Account) Cancel() error {
	if !a.IsPaid() {
		return apperrors.Validation("no active subscription to cancel")
	}
	a.AutoRenew = false
	a.SubscriptionStatus = SubscriptionStatusCancelled
	return nil
}

// Expire drops the account to free. System-invoked: the caller is expected
// to run plan enforcement and notify the referral ledger afterwards.
func (a *Account) Expire() {
	a.Plan = PlanFree
	a.PlanExpiry = nil
	a.SubscriptionStatus = SubscriptionStatusExpired
	a.AutoRenew = false
	a.ExpiryWarnedFor = nil
}

func (a *Account) SetAutoRenew(enabled bool) error {
	if !a.IsPaid() {
		return apperrors.Validation("auto-renew is not available on the free plan")
	}
	a.AutoRenew = enabled
	return nil
}

// MarkExpiryWarned pins the warning to the current expiry instant.
func (a *Account) MarkExpiryWarned() {
	if a.PlanExpiry == nil {
		return
	}
	warned := *a.PlanExpiry
	a.ExpiryWarnedFor = &warned
}

// NeedsExpiryWarning reports whether the current expiry still lacks a warning.
func (a *Account) NeedsExpiryWarning() bool {
	if a.PlanExpiry == nil {
		return false
	}
	return a.ExpiryWarnedFor == nil || !a.ExpiryWarnedFor.Equal(*a.PlanExpiry)
}

func (a *Account) resetRenewalCounters() {
	a.RenewalAttempts = 0
	a.LastRenewalAttempt = nil
	a.RenewalFailureReason = nil
}
