// FILE: internal/service/subscription_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/pkg/logger"
	"github.com/emiflair/wazhop/internal/repository/specification"
	"github.com/emiflair/wazhop/internal/repository/unitofwork"
	"github.com/emiflair/wazhop/pkg/payment"
	"github.com/emiflair/wazhop/pkg/pricing"
)

type ISubscriptionService interface {
	Upgrade(ctx context.Context, accountId uuid.UUID, req *dto.UpgradeRequest) (*dto.SubscriptionStatusResponse, error)
	Renew(ctx context.Context, accountId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	Cancel(ctx context.Context, accountId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	ToggleAutoRenew(ctx context.Context, accountId uuid.UUID, enabled bool) (*dto.SubscriptionStatusResponse, error)
	GetStatus(ctx context.Context, accountId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	DowngradeToFree(ctx context.Context, accountId uuid.UUID) (*dto.EnforcementStatsResponse, error)

	// AttemptRenewal is the charge-and-extend path shared with the renewal
	// scheduler. On a charge failure the bumped attempt counters are already
	// persisted; the returned account reflects them alongside the error.
	AttemptRenewal(ctx context.Context, accountId uuid.UUID) (*entity.Account, error)
}

type subscriptionService struct {
	uowFactory    unitofwork.RepositoryFactory
	charger       payment.Charger
	publisher     IPlanChangePublisher
	enforcement   IEnforcementService
	notifier      Notifier
	log           logger.ILogger
	chargeTimeout time.Duration
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	charger payment.Charger,
	publisher IPlanChangePublisher,
	enforcement IEnforcementService,
	notifier Notifier,
	log logger.ILogger,
	chargeTimeout time.Duration,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory:    uowFactory,
		charger:       charger,
		publisher:     publisher,
		enforcement:   enforcement,
		notifier:      notifier,
		log:           log,
		chargeTimeout: chargeTimeout,
	}
}

func (s *subscriptionService) Upgrade(ctx context.Context, accountId uuid.UUID, req *dto.UpgradeRequest) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}

	plan := entity.Plan(req.Plan)
	period := entity.BillingPeriod(req.BillingPeriod)

	// Price must resolve before we touch the gateway.
	amount, err := pricing.Amount(plan, period)
	if err != nil {
		return nil, err
	}

	// Payment proof: the client already charged through the gateway; confirm
	// the reference settled before any state moves.
	verifyCtx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()
	if _, err := s.charger.VerifyTransaction(verifyCtx, req.TransactionId); err != nil {
		return nil, err
	}

	now := time.Now()
	oldPlan := account.EffectivePlan(now)

	if err := account.UpgradeTo(plan, period, now, req.AutoRenew); err != nil {
		return nil, err
	}

	if req.SaveCard {
		account.SavedPaymentMethod = &entity.PaymentMethod{
			Token:  req.CardToken,
			Last4:  req.CardLast4,
			Brand:  req.CardBrand,
			Expiry: req.CardExp,
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("Subscription", "account upgraded", map[string]interface{}{
		"account_id": accountId,
		"plan":       plan,
		"period":     period,
		"amount":     amount,
	})

	s.publishPlanChange(ctx, accountId, oldPlan, account.Plan)

	return s.toStatusResponse(account, now), nil
}

func (s *subscriptionService) Renew(ctx context.Context, accountId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	account, err := s.AttemptRenewal(ctx, accountId)
	if err != nil {
		return nil, err
	}
	return s.toStatusResponse(account, time.Now()), nil
}

func (s *subscriptionService) AttemptRenewal(ctx context.Context, accountId uuid.UUID) (*entity.Account, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}
	if !account.IsPaid() {
		return nil, apperrors.Validation("cannot renew a free plan")
	}

	// An unknown plan/period combination is a configuration fault, not a
	// chargeable failure: it never consumes a renewal attempt.
	amount, err := pricing.Amount(account.Plan, account.BillingPeriod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chargeErr := s.chargeSavedMethod(ctx, account, amount)
	if chargeErr != nil {
		account.RecordRenewalFailure(now, chargeErr.Error())
	} else if err := account.ExtendAfterRenewal(now); err != nil {
		return nil, err
	}

	// Charge outcome and counters commit together.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if chargeErr != nil {
		return account, chargeErr
	}

	s.notifier.NotifyRenewalSuccess(*account, amount)
	return account, nil
}

func (s *subscriptionService) chargeSavedMethod(ctx context.Context, account *entity.Account, amount float64) error {
	if account.SavedPaymentMethod == nil {
		return apperrors.Payment(nil, "no saved payment method")
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()

	_, err := s.charger.ChargeSavedMethod(chargeCtx, payment.ChargeRequest{
		AccountId:   account.Id,
		Token:       account.SavedPaymentMethod.Token,
		Amount:      amount,
		OrderId:     fmt.Sprintf("renewal-%s-%d", account.Id, time.Now().Unix()),
		Description: fmt.Sprintf("%s plan renewal (%s)", account.Plan, account.BillingPeriod),
	})
	return err
}

func (s *subscriptionService) Cancel(ctx context.Context, accountId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}

	if err := account.Cancel(); err != nil {
		return nil, err
	}
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info("Subscription", "subscription cancelled", map[string]interface{}{
		"account_id":  accountId,
		"plan_expiry": account.PlanExpiry,
	})
	return s.toStatusResponse(account, time.Now()), nil
}

func (s *subscriptionService) ToggleAutoRenew(ctx context.Context, accountId uuid.UUID, enabled bool) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}

	if err := account.SetAutoRenew(enabled); err != nil {
		return nil, err
	}
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, err
	}
	return s.toStatusResponse(account, time.Now()), nil
}

func (s *subscriptionService) GetStatus(ctx context.Context, accountId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}
	return s.toStatusResponse(account, time.Now()), nil
}

// DowngradeToFree is the explicit, confirmed downgrade: plan drops to free
// immediately and destructive enforcement reclaims everything over-limit.
func (s *subscriptionService) DowngradeToFree(ctx context.Context, accountId uuid.UUID) (*dto.EnforcementStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}

	now := time.Now()
	oldPlan := account.EffectivePlan(now)

	if account.IsPaid() {
		account.Expire()
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()
		if err := uow.AccountRepository().Update(ctx, account); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	stats, err := s.enforcement.EnforceFreePlan(ctx, accountId, true)
	if err != nil {
		return nil, err
	}

	if oldPlan != entity.PlanFree {
		s.notifier.NotifyPlanDowngraded(*account, oldPlan)
		s.publishPlanChange(ctx, accountId, oldPlan, entity.PlanFree)
	}
	return stats, nil
}

func (s *subscriptionService) publishPlanChange(ctx context.Context, accountId uuid.UUID, oldPlan, newPlan entity.Plan) {
	if s.publisher == nil || oldPlan == newPlan {
		return
	}
	if err := s.publisher.PublishPlanChange(ctx, accountId, oldPlan, newPlan); err != nil {
		s.log.Warn("Subscription", "failed to publish plan change", map[string]interface{}{
			"account_id": accountId,
			"old_plan":   oldPlan,
			"new_plan":   newPlan,
			"error":      err.Error(),
		})
	}
}

func (s *subscriptionService) toStatusResponse(account *entity.Account, now time.Time) *dto.SubscriptionStatusResponse {
	res := &dto.SubscriptionStatusResponse{
		AccountId:       account.Id,
		Plan:            string(account.Plan),
		EffectivePlan:   string(account.EffectivePlan(now)),
		Status:          string(account.SubscriptionStatus),
		PlanExpiry:      account.PlanExpiry,
		AutoRenew:       account.AutoRenew,
		RenewalAttempts: account.RenewalAttempts,
	}
	if account.IsPaid() {
		res.BillingPeriod = string(account.BillingPeriod)
	}
	if account.PlanExpiry != nil && account.PlanExpiry.After(now) {
		res.DaysRemaining = int(account.PlanExpiry.Sub(now).Hours() / 24)
	}
	if account.SavedPaymentMethod != nil {
		res.HasSavedCard = true
		res.SavedCardLast4 = account.SavedPaymentMethod.Last4
		res.SavedCardBrand = account.SavedPaymentMethod.Brand
	}
	if account.RenewalFailureReason != nil {
		res.RenewalFailureNote = *account.RenewalFailureReason
	}
	return res
}
