// FILE: internal/service/renewal_service.go
package service

import (
	"context"
	"time"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/pkg/logger"
	"github.com/emiflair/wazhop/internal/repository/specification"
	"github.com/emiflair/wazhop/internal/repository/unitofwork"
)

// PassStats summarizes one periodic billing pass.
type PassStats struct {
	Warned          int
	Renewed         int
	RenewalFailures int
	Expired         int
	Skipped         int
	Processed       int
}

type IRenewalService interface {
	// RunPeriodicPass is the single scheduler entry point: warn accounts
	// expiring soon, then renew or expire accounts already past expiry.
	// Idempotent; safe to invoke on a fixed interval. Per-account failures
	// are logged and never abort the batch.
	RunPeriodicPass(ctx context.Context) (*PassStats, error)
}

type renewalService struct {
	uowFactory    unitofwork.RepositoryFactory
	subscriptions ISubscriptionService
	enforcement   IEnforcementService
	publisher     IPlanChangePublisher
	notifier      Notifier
	log           logger.ILogger
	maxAttempts   int
	warningWindow time.Duration
}

func NewRenewalService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptions ISubscriptionService,
	enforcement IEnforcementService,
	publisher IPlanChangePublisher,
	notifier Notifier,
	log logger.ILogger,
	maxAttempts int,
	warningWindow time.Duration,
) IRenewalService {
	return &renewalService{
		uowFactory:    uowFactory,
		subscriptions: subscriptions,
		enforcement:   enforcement,
		publisher:     publisher,
		notifier:      notifier,
		log:           log,
		maxAttempts:   maxAttempts,
		warningWindow: warningWindow,
	}
}

func (s *renewalService) RunPeriodicPass(ctx context.Context) (*PassStats, error) {
	stats := &PassStats{}
	now := time.Now()

	if err := s.warningPass(ctx, now, stats); err != nil {
		return stats, err
	}
	if err := s.expiryPass(ctx, now, stats); err != nil {
		return stats, err
	}

	s.log.Info("Renewal", "periodic pass completed", map[string]interface{}{
		"warned":           stats.Warned,
		"renewed":          stats.Renewed,
		"renewal_failures": stats.RenewalFailures,
		"expired":          stats.Expired,
		"skipped":          stats.Skipped,
		"processed":        stats.Processed,
	})
	return stats, nil
}

// warningPass notifies active paid accounts expiring inside the window,
// once per expiry instant.
func (s *renewalService) warningPass(ctx context.Context, now time.Time, stats *PassStats) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	accounts, err := uow.AccountRepository().FindAll(ctx,
		specification.PaidAccounts{},
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
		specification.ExpiryWithin{From: now, Until: now.Add(s.warningWindow)},
		specification.NotWarnedForCurrentExpiry{},
	)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Processed++

		s.notifier.NotifyExpiryWarning(*account)
		account.MarkExpiryWarned()
		if err := uow.AccountRepository().Update(ctx, account); err != nil {
			s.log.Error("Renewal", "failed to mark expiry warning", map[string]interface{}{
				"account_id": account.Id,
				"error":      err.Error(),
			})
			continue
		}
		stats.Warned++
	}
	return nil
}

// expiryPass renews or expires every paid account past its expiry. The loop
// checks for cancellation only between accounts so a shutdown never leaves an
// account mid-transition.
func (s *renewalService) expiryPass(ctx context.Context, now time.Time, stats *PassStats) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	accounts, err := uow.AccountRepository().FindAll(ctx,
		specification.PaidAccounts{},
		specification.ExpiryPassed{Now: now},
	)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Processed++
		s.processExpiredAccount(ctx, account, stats)
	}
	return nil
}

// processExpiredAccount is the per-account error boundary: nothing escapes.
func (s *renewalService) processExpiredAccount(ctx context.Context, account *entity.Account, stats *PassStats) {
	if !account.AutoRenew {
		// User cancelled or never enabled auto-renew: lapse directly.
		s.forceExpire(ctx, account, stats, func(a entity.Account, oldPlan entity.Plan) {
			s.notifier.NotifySubscriptionExpired(a, oldPlan)
		})
		return
	}

	updated, err := s.subscriptions.AttemptRenewal(ctx, account.Id)
	if err == nil {
		stats.Renewed++
		return
	}

	if !apperrors.IsKind(err, apperrors.KindPayment) {
		// Configuration or data faults never consume a renewal attempt;
		// log with context and leave the account for a human.
		s.log.Error("Renewal", "renewal skipped", map[string]interface{}{
			"account_id": account.Id,
			"error":      err.Error(),
		})
		stats.Skipped++
		return
	}

	stats.RenewalFailures++
	if updated == nil {
		updated = account
	}

	if updated.RenewalAttempts >= s.maxAttempts {
		s.log.Warn("Renewal", "attempt cap reached, expiring account", map[string]interface{}{
			"account_id": updated.Id,
			"attempts":   updated.RenewalAttempts,
			"reason":     err.Error(),
		})
		s.forceExpire(ctx, updated, stats, func(a entity.Account, oldPlan entity.Plan) {
			s.notifier.NotifyPlanDowngraded(a, oldPlan)
		})
		return
	}

	s.log.Warn("Renewal", "charge failed, will retry", map[string]interface{}{
		"account_id": updated.Id,
		"attempts":   updated.RenewalAttempts,
		"remaining":  s.maxAttempts - updated.RenewalAttempts,
		"reason":     err.Error(),
	})
	s.notifier.NotifyRenewalFailed(*updated, updated.RenewalAttempts, err.Error())
}

// forceExpire drops the account to free, runs non-destructive enforcement
// and announces the plan change so the referral ledger can react.
func (s *renewalService) forceExpire(ctx context.Context, account *entity.Account, stats *PassStats, notify func(entity.Account, entity.Plan)) {
	oldPlan := account.Plan
	account.Expire()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		s.log.Error("Renewal", "failed to begin expire transaction", map[string]interface{}{
			"account_id": account.Id,
			"error":      err.Error(),
		})
		return
	}
	defer uow.Rollback()

	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		s.log.Error("Renewal", "failed to persist expiry", map[string]interface{}{
			"account_id": account.Id,
			"error":      err.Error(),
		})
		return
	}
	if err := uow.Commit(); err != nil {
		s.log.Error("Renewal", "failed to commit expiry", map[string]interface{}{
			"account_id": account.Id,
			"error":      err.Error(),
		})
		return
	}
	stats.Expired++

	if _, err := s.enforcement.EnforceFreePlan(ctx, account.Id, false); err != nil {
		s.log.Error("Renewal", "post-expiry enforcement failed", map[string]interface{}{
			"account_id": account.Id,
			"error":      err.Error(),
		})
	}

	notify(*account, oldPlan)

	if s.publisher != nil && oldPlan != entity.PlanFree {
		if err := s.publisher.PublishPlanChange(ctx, account.Id, oldPlan, entity.PlanFree); err != nil {
			s.log.Warn("Renewal", "failed to publish plan change", map[string]interface{}{
				"account_id": account.Id,
				"error":      err.Error(),
			})
		}
	}
}
