// Package pricing holds the money arithmetic for plans, coupons and referral
// commissions. Everything here is pure; nothing reads or writes state.
package pricing

import (
	"math"
	"time"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/entity"
)

type planKey struct {
	plan   entity.Plan
	period entity.BillingPeriod
}

// The fixed price table. An unknown (plan, period) combination is a
// configuration error, not a user error.
var priceTable = map[planKey]float64{
	{entity.PlanPro, entity.BillingPeriodMonthly}:     4.99,
	{entity.PlanPro, entity.BillingPeriodYearly}:      49.99,
	{entity.PlanPremium, entity.BillingPeriodMonthly}: 9.99,
	{entity.PlanPremium, entity.BillingPeriodYearly}:  99.99,
}

// Amount resolves the charge amount for a paid plan and billing period.
func Amount(plan entity.Plan, period entity.BillingPeriod) (float64, error) {
	price, ok := priceTable[planKey{plan, period}]
	if !ok {
		return 0, apperrors.Configuration("no price configured for plan=%s period=%s", plan, period)
	}
	return price, nil
}

// CommissionBase is the amount referral commission is computed from. The
// premium monthly price is used even for yearly subscribers; product has not
// asked for that to change.
func CommissionBase() float64 {
	return priceTable[planKey{entity.PlanPremium, entity.BillingPeriodMonthly}]
}

// MonthlyCommission is round(base × rate) to cents.
func MonthlyCommission(base, rate float64) float64 {
	return round2(base * rate)
}

// ApplyDiscount reduces amount by a coupon percentage, clamped to [0, 100].
func ApplyDiscount(amount, percent float64) float64 {
	if percent <= 0 {
		return round2(amount)
	}
	if percent >= 100 {
		return 0
	}
	return round2(amount * (100 - percent) / 100)
}

// ProratedRenewal credits the unexpired remainder of the current cycle
// against the next charge. remaining below zero counts as zero.
func ProratedRenewal(amount float64, remaining time.Duration, period entity.BillingPeriod) (float64, error) {
	cycle, err := period.Duration()
	if err != nil {
		return 0, err
	}
	if remaining <= 0 {
		return round2(amount), nil
	}
	if remaining >= cycle {
		return 0, nil
	}
	credit := amount * (remaining.Hours() / cycle.Hours())
	return round2(amount - credit), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
