package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/entity"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name   string
		plan   entity.Plan
		period entity.BillingPeriod
		want   float64
		ok     bool
	}{
		{"pro monthly", entity.PlanPro, entity.BillingPeriodMonthly, 4.99, true},
		{"pro yearly", entity.PlanPro, entity.BillingPeriodYearly, 49.99, true},
		{"premium monthly", entity.PlanPremium, entity.BillingPeriodMonthly, 9.99, true},
		{"premium yearly", entity.PlanPremium, entity.BillingPeriodYearly, 99.99, true},
		{"free has no price", entity.PlanFree, entity.BillingPeriodMonthly, 0, false},
		{"unknown plan", entity.Plan("platinum"), entity.BillingPeriodMonthly, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Amount(tt.plan, tt.period)
			if !tt.ok {
				assert.True(t, apperrors.IsKind(err, apperrors.KindConfiguration))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommissionBase(t *testing.T) {
	// The base is the premium monthly price regardless of the subscriber's
	// own billing period.
	assert.Equal(t, 9.99, CommissionBase())
}

func TestMonthlyCommission(t *testing.T) {
	assert.Equal(t, 0.50, MonthlyCommission(9.99, 0.05))
	assert.Equal(t, 1.00, MonthlyCommission(9.99, 0.10))
	assert.Zero(t, MonthlyCommission(9.99, 0))
}

func TestApplyDiscount(t *testing.T) {
	assert.Equal(t, 9.99, ApplyDiscount(9.99, 0))
	assert.Equal(t, 7.49, ApplyDiscount(9.99, 25))
	assert.Equal(t, 0.0, ApplyDiscount(9.99, 100))
	assert.Equal(t, 0.0, ApplyDiscount(9.99, 150))
	assert.Equal(t, 9.99, ApplyDiscount(9.99, -5))
}

func TestProratedRenewal(t *testing.T) {
	monthly := 30 * 24 * time.Hour

	t.Run("no time remaining charges full price", func(t *testing.T) {
		got, err := ProratedRenewal(9.99, 0, entity.BillingPeriodMonthly)
		assert.NoError(t, err)
		assert.Equal(t, 9.99, got)
	})

	t.Run("half cycle remaining charges half", func(t *testing.T) {
		got, err := ProratedRenewal(10.00, monthly/2, entity.BillingPeriodMonthly)
		assert.NoError(t, err)
		assert.Equal(t, 5.00, got)
	})

	t.Run("full cycle remaining charges nothing", func(t *testing.T) {
		got, err := ProratedRenewal(9.99, monthly, entity.BillingPeriodMonthly)
		assert.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("unknown period", func(t *testing.T) {
		_, err := ProratedRenewal(9.99, time.Hour, entity.BillingPeriod("weekly"))
		assert.Error(t, err)
	})
}
