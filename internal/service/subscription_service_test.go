package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/entity"
)

type subscriptionFixture struct {
	store     *memStore
	charger   *fakeCharger
	publisher *fakePublisher
	notifier  *fakeNotifier
	media     *fakeMediaStore
	svc       ISubscriptionService
}

func newSubscriptionFixture() *subscriptionFixture {
	store := newMemStore()
	factory := &memFactory{s: store}
	charger := &fakeCharger{}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	mediaStore := &fakeMediaStore{}

	enforcement := NewEnforcementService(factory, mediaStore, nopLogger{}, 3)
	svc := NewSubscriptionService(factory, charger, publisher, enforcement, notifier, nopLogger{}, 5*time.Second)

	return &subscriptionFixture{
		store:     store,
		charger:   charger,
		publisher: publisher,
		notifier:  notifier,
		media:     mediaStore,
		svc:       svc,
	}
}

func seedAccount(store *memStore, mutate func(*entity.Account)) uuid.UUID {
	a := &entity.Account{
		Id:    uuid.New(),
		Email: "owner@example.com",
		Name:  "Owner",
		Plan:  entity.PlanFree,
	}
	if mutate != nil {
		mutate(a)
	}
	store.putAccount(a)
	return a.Id
}

func TestUpgradeHappyPath(t *testing.T) {
	f := newSubscriptionFixture()
	id := seedAccount(f.store, nil)

	res, err := f.svc.Upgrade(context.Background(), id, &dto.UpgradeRequest{
		Plan:          "premium",
		BillingPeriod: "monthly",
		TransactionId: "txn-abc",
	})
	assert.NoError(t, err)
	assert.Equal(t, "premium", res.Plan)
	assert.Equal(t, "active", res.Status)
	assert.NotNil(t, res.PlanExpiry)

	// payment proof was verified before state moved
	assert.Equal(t, []string{"txn-abc"}, f.charger.verifyCalls)

	// persisted
	saved := f.store.account(id)
	assert.Equal(t, entity.PlanPremium, saved.Plan)

	// plan change announced for the referral ledger
	assert.Len(t, f.publisher.changes, 1)
	assert.Equal(t, entity.PlanFree, f.publisher.changes[0].oldPlan)
	assert.Equal(t, entity.PlanPremium, f.publisher.changes[0].newPlan)
}

func TestUpgradeRejectsNonIncrease(t *testing.T) {
	f := newSubscriptionFixture()
	expiry := time.Now().Add(20 * 24 * time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPremium
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
	})

	_, err := f.svc.Upgrade(context.Background(), id, &dto.UpgradeRequest{
		Plan:          "pro",
		BillingPeriod: "monthly",
		TransactionId: "txn-abc",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// nothing persisted
	assert.Equal(t, entity.PlanPremium, f.store.account(id).Plan)
	assert.Empty(t, f.publisher.changes)
}

func TestUpgradeFailsWhenVerificationFails(t *testing.T) {
	f := newSubscriptionFixture()
	f.charger.verifyErr = apperrors.Payment(nil, "transaction not settled")
	id := seedAccount(f.store, nil)

	_, err := f.svc.Upgrade(context.Background(), id, &dto.UpgradeRequest{
		Plan:          "pro",
		BillingPeriod: "yearly",
		TransactionId: "txn-bad",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))
	assert.Equal(t, entity.PlanFree, f.store.account(id).Plan)
}

func TestUpgradeStoresSavedCard(t *testing.T) {
	f := newSubscriptionFixture()
	id := seedAccount(f.store, nil)

	_, err := f.svc.Upgrade(context.Background(), id, &dto.UpgradeRequest{
		Plan:          "premium",
		BillingPeriod: "yearly",
		TransactionId: "txn-abc",
		SaveCard:      true,
		CardToken:     "tok_42",
		CardLast4:     "4242",
		CardBrand:     "visa",
	})
	assert.NoError(t, err)

	saved := f.store.account(id)
	assert.NotNil(t, saved.SavedPaymentMethod)
	assert.Equal(t, "tok_42", saved.SavedPaymentMethod.Token)
	assert.Equal(t, "4242", saved.SavedPaymentMethod.Last4)
}

func TestAttemptRenewalSuccess(t *testing.T) {
	f := newSubscriptionFixture()
	expiry := time.Now().Add(-24 * time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPremium
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
		a.AutoRenew = true
		a.RenewalAttempts = 2
		a.SavedPaymentMethod = &entity.PaymentMethod{Token: "tok_42"}
	})

	account, err := f.svc.AttemptRenewal(context.Background(), id)
	assert.NoError(t, err)
	assert.Zero(t, account.RenewalAttempts)
	assert.True(t, account.PlanExpiry.After(time.Now()))

	// the charge used the stored token and the plan price
	assert.Len(t, f.charger.chargeCalls, 1)
	assert.Equal(t, "tok_42", f.charger.chargeCalls[0].Token)
	assert.Equal(t, 9.99, f.charger.chargeCalls[0].Amount)

	assert.Equal(t, []string{"renewal_success"}, f.notifier.kinds())
}

func TestAttemptRenewalFailurePersistsCounters(t *testing.T) {
	f := newSubscriptionFixture()
	f.charger.chargeErr = declined()
	expiry := time.Now().Add(-24 * time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPro
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
		a.AutoRenew = true
		a.SavedPaymentMethod = &entity.PaymentMethod{Token: "tok_42"}
	})

	account, err := f.svc.AttemptRenewal(context.Background(), id)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))
	assert.Equal(t, 1, account.RenewalAttempts)

	// failure state was committed; plan and expiry untouched
	saved := f.store.account(id)
	assert.Equal(t, 1, saved.RenewalAttempts)
	assert.Equal(t, entity.PlanPro, saved.Plan)
	assert.Equal(t, expiry.Unix(), saved.PlanExpiry.Unix())
	assert.NotNil(t, saved.RenewalFailureReason)
}

func TestAttemptRenewalWithoutSavedMethod(t *testing.T) {
	f := newSubscriptionFixture()
	expiry := time.Now().Add(-time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPro
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
		a.AutoRenew = true
	})

	_, err := f.svc.AttemptRenewal(context.Background(), id)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))
	assert.Empty(t, f.charger.chargeCalls)
	assert.Equal(t, 1, f.store.account(id).RenewalAttempts)
}

func TestRenewRejectedOnFreePlan(t *testing.T) {
	f := newSubscriptionFixture()
	id := seedAccount(f.store, nil)

	_, err := f.svc.Renew(context.Background(), id)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCancelKeepsAccess(t *testing.T) {
	f := newSubscriptionFixture()
	expiry := time.Now().Add(10 * 24 * time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPremium
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
		a.AutoRenew = true
	})

	res, err := f.svc.Cancel(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", res.Status)
	assert.False(t, res.AutoRenew)
	assert.Equal(t, "premium", res.Plan)

	saved := f.store.account(id)
	assert.Equal(t, entity.SubscriptionStatusCancelled, saved.SubscriptionStatus)
	assert.NotNil(t, saved.PlanExpiry)
}

func TestToggleAutoRenew(t *testing.T) {
	f := newSubscriptionFixture()
	expiry := time.Now().Add(time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPro
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
	})

	res, err := f.svc.ToggleAutoRenew(context.Background(), id, true)
	assert.NoError(t, err)
	assert.True(t, res.AutoRenew)

	free := seedAccount(f.store, nil)
	_, err = f.svc.ToggleAutoRenew(context.Background(), free, true)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGetStatusUnknownAccount(t *testing.T) {
	f := newSubscriptionFixture()
	_, err := f.svc.GetStatus(context.Background(), uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDowngradeToFreeIsDestructive(t *testing.T) {
	f := newSubscriptionFixture()
	expiry := time.Now().Add(15 * 24 * time.Hour)
	id := seedAccount(f.store, func(a *entity.Account) {
		a.Plan = entity.PlanPremium
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
		a.StorageUsedBytes = 12345
	})

	primary := &entity.Shop{Id: uuid.New(), AccountId: id, Name: "First", CreatedAt: time.Now().Add(-48 * time.Hour)}
	second := &entity.Shop{Id: uuid.New(), AccountId: id, Name: "Second", CreatedAt: time.Now()}
	f.store.putShop(primary)
	f.store.putShop(second)

	stats, err := f.svc.DowngradeToFree(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "destructive", stats.Mode)
	assert.Equal(t, 1, stats.ShopsDeleted)

	saved := f.store.account(id)
	assert.Equal(t, entity.PlanFree, saved.Plan)
	assert.Nil(t, saved.PlanExpiry)
	assert.Zero(t, saved.StorageUsedBytes)

	assert.Contains(t, f.notifier.kinds(), "downgraded")
	assert.Len(t, f.publisher.changes, 1)
	assert.Equal(t, entity.PlanFree, f.publisher.changes[0].newPlan)
}
