package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/emiflair/wazhop/internal/entity"
)

type renewalFixture struct {
	store     *memStore
	charger   *fakeCharger
	publisher *fakePublisher
	notifier  *fakeNotifier
	svc       IRenewalService
}

func newRenewalFixture() *renewalFixture {
	store := newMemStore()
	factory := &memFactory{s: store}
	charger := &fakeCharger{}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}

	enforcement := NewEnforcementService(factory, &fakeMediaStore{}, nopLogger{}, 3)
	subscriptions := NewSubscriptionService(factory, charger, publisher, enforcement, notifier, nopLogger{}, 5*time.Second)
	svc := NewRenewalService(factory, subscriptions, enforcement, publisher, notifier, nopLogger{}, 3, 24*time.Hour)

	return &renewalFixture{
		store:     store,
		charger:   charger,
		publisher: publisher,
		notifier:  notifier,
		svc:       svc,
	}
}

func seedExpiring(store *memStore, expiry time.Time, mutate func(*entity.Account)) uuid.UUID {
	return seedAccount(store, func(a *entity.Account) {
		a.Plan = entity.PlanPremium
		a.BillingPeriod = entity.BillingPeriodMonthly
		a.PlanExpiry = &expiry
		a.SubscriptionStatus = entity.SubscriptionStatusActive
		a.AutoRenew = true
		a.SavedPaymentMethod = &entity.PaymentMethod{Token: "tok_42"}
		if mutate != nil {
			mutate(a)
		}
	})
}

func TestWarningPassNotifiesOncePerExpiry(t *testing.T) {
	f := newRenewalFixture()
	id := seedExpiring(f.store, time.Now().Add(12*time.Hour), nil)

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Warned)
	assert.Equal(t, []string{"warning"}, f.notifier.kinds())

	saved := f.store.account(id)
	assert.NotNil(t, saved.ExpiryWarnedFor)
	assert.True(t, saved.ExpiryWarnedFor.Equal(*saved.PlanExpiry))

	// a second pass against the same expiry stays quiet
	stats, err = f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, stats.Warned)
	assert.Len(t, f.notifier.kinds(), 1)
}

func TestWarningPassIgnoresDistantExpiry(t *testing.T) {
	f := newRenewalFixture()
	seedExpiring(f.store, time.Now().Add(5*24*time.Hour), nil)

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, stats.Warned)
	assert.Empty(t, f.notifier.kinds())
}

func TestExpiryPassRenewsSuccessfully(t *testing.T) {
	f := newRenewalFixture()
	expiry := time.Now().Add(-2 * time.Hour)
	id := seedExpiring(f.store, expiry, nil)

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Renewed)
	assert.Zero(t, stats.Expired)

	saved := f.store.account(id)
	assert.Equal(t, entity.PlanPremium, saved.Plan)
	assert.Zero(t, saved.RenewalAttempts)
	assert.True(t, saved.PlanExpiry.After(time.Now()))
	assert.Equal(t, []string{"renewal_success"}, f.notifier.kinds())
}

func TestExpiryPassRetriesBeforeCap(t *testing.T) {
	f := newRenewalFixture()
	f.charger.chargeErr = declined()
	id := seedExpiring(f.store, time.Now().Add(-time.Hour), nil)

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.RenewalFailures)
	assert.Zero(t, stats.Expired)

	saved := f.store.account(id)
	assert.Equal(t, entity.PlanPremium, saved.Plan)
	assert.Equal(t, 1, saved.RenewalAttempts)
	assert.Equal(t, []string{"renewal_failed"}, f.notifier.kinds())
	assert.Empty(t, f.publisher.changes)
}

func TestExpiryPassExpiresAtAttemptCap(t *testing.T) {
	f := newRenewalFixture()
	f.charger.chargeErr = declined()
	id := seedExpiring(f.store, time.Now().Add(-time.Hour), func(a *entity.Account) {
		a.RenewalAttempts = 2
	})

	// account with a second shop so enforcement has something to deactivate
	primary := &entity.Shop{Id: uuid.New(), AccountId: id, Name: "First", IsActive: true, CreatedAt: time.Now().Add(-48 * time.Hour)}
	extra := &entity.Shop{Id: uuid.New(), AccountId: id, Name: "Second", IsActive: true, CreatedAt: time.Now()}
	f.store.putShop(primary)
	f.store.putShop(extra)

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.RenewalFailures)
	assert.Equal(t, 1, stats.Expired)

	saved := f.store.account(id)
	assert.Equal(t, entity.PlanFree, saved.Plan)
	assert.Nil(t, saved.PlanExpiry)
	assert.Equal(t, entity.SubscriptionStatusExpired, saved.SubscriptionStatus)

	// enforcement was non-destructive: extra shop deactivated, nothing deleted
	assert.True(t, f.store.shops[primary.Id].IsActive)
	assert.False(t, f.store.shops[extra.Id].IsActive)
	assert.Len(t, f.store.shops, 2)

	assert.Equal(t, []string{"downgraded"}, f.notifier.kinds())
	assert.Len(t, f.publisher.changes, 1)
	assert.Equal(t, entity.PlanPremium, f.publisher.changes[0].oldPlan)
	assert.Equal(t, entity.PlanFree, f.publisher.changes[0].newPlan)
}

func TestExpiryPassLapsesWithoutAutoRenew(t *testing.T) {
	f := newRenewalFixture()
	id := seedExpiring(f.store, time.Now().Add(-time.Hour), func(a *entity.Account) {
		a.AutoRenew = false
	})

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Expired)
	assert.Zero(t, stats.Renewed)

	// no charge was even attempted
	assert.Empty(t, f.charger.chargeCalls)
	assert.Equal(t, entity.PlanFree, f.store.account(id).Plan)
	assert.Equal(t, []string{"expired"}, f.notifier.kinds())
}

func TestExpiryPassSkipsOnNonPaymentFault(t *testing.T) {
	f := newRenewalFixture()
	// an unpriceable plan is a configuration fault, not a card problem
	id := seedExpiring(f.store, time.Now().Add(-time.Hour), func(a *entity.Account) {
		a.Plan = entity.Plan("platinum")
	})

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Expired)

	// no attempt consumed, account left untouched for a human
	saved := f.store.account(id)
	assert.Zero(t, saved.RenewalAttempts)
	assert.Equal(t, entity.Plan("platinum"), saved.Plan)
}

func TestPassStopsOnCancelledContext(t *testing.T) {
	f := newRenewalFixture()
	seedExpiring(f.store, time.Now().Add(-time.Hour), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.RunPeriodicPass(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.charger.chargeCalls)
}

func TestWarningThenRenewalReArmsWarning(t *testing.T) {
	f := newRenewalFixture()
	id := seedExpiring(f.store, time.Now().Add(6*time.Hour), nil)

	// first pass warns
	_, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"warning"}, f.notifier.kinds())

	// simulate time passing the expiry: next pass renews and clears the marker
	past := time.Now().Add(-time.Minute)
	a := f.store.account(id)
	a.PlanExpiry = &past
	f.store.putAccount(a)

	stats, err := f.svc.RunPeriodicPass(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Renewed)
	assert.Nil(t, f.store.account(id).ExpiryWarnedFor)
}
