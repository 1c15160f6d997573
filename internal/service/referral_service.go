// FILE: internal/service/referral_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/pkg/keymutex"
	"github.com/emiflair/wazhop/internal/pkg/logger"
	"github.com/emiflair/wazhop/internal/repository/specification"
	"github.com/emiflair/wazhop/internal/repository/unitofwork"
	"github.com/emiflair/wazhop/pkg/events"
	pktNats "github.com/emiflair/wazhop/pkg/nats"
	"github.com/emiflair/wazhop/pkg/pricing"
)

type IReferralService interface {
	// HandlePlanChange reacts to a referred account's plan moving across the
	// premium boundary: creates or re-arms the commission record on the way
	// up, cancels it on the way down.
	HandlePlanChange(ctx context.Context, accountId uuid.UUID, oldPlan, newPlan entity.Plan) error

	// GetSnapshot recomputes every record for the referrer and returns the
	// freshly derived summary. Nothing in the summary is ever cached.
	GetSnapshot(ctx context.Context, referrerId uuid.UUID) (*dto.ReferralSnapshotResponse, error)

	RequestPayout(ctx context.Context, referrerId uuid.UUID, req *dto.PayoutRequestRequest) (*dto.PayoutRequestResponse, error)
}

type referralService struct {
	uowFactory     unitofwork.RepositoryFactory
	perReferrer    *keymutex.KeyMutex
	log            logger.ILogger
	eventPublisher *pktNats.Publisher // optional mirror to the external bus
	commissionRate float64
	activationHold time.Duration
	payoutSLA      time.Duration
	minimumPayout  float64
}

func NewReferralService(
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	eventPublisher *pktNats.Publisher,
	commissionRate float64,
	activationHoldDays int,
	payoutSLADays int,
	minimumPayout float64,
) IReferralService {
	return &referralService{
		uowFactory:     uowFactory,
		perReferrer:    keymutex.New(),
		log:            log,
		eventPublisher: eventPublisher,
		commissionRate: commissionRate,
		activationHold: time.Duration(activationHoldDays) * 24 * time.Hour,
		payoutSLA:      time.Duration(payoutSLADays) * 24 * time.Hour,
		minimumPayout:  minimumPayout,
	}
}

func (s *referralService) HandlePlanChange(ctx context.Context, accountId uuid.UUID, oldPlan, newPlan entity.Plan) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return err
	}
	if account == nil || account.ReferredBy == nil {
		return nil // nobody earns on this account
	}
	referrerId := *account.ReferredBy

	s.perReferrer.Lock(referrerId.String())
	defer s.perReferrer.Unlock(referrerId.String())

	now := time.Now()

	record, err := uow.ReferralRepository().FindOneRecord(ctx, specification.ByReferredID{ReferredID: accountId})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	switch {
	case newPlan == entity.PlanPremium:
		if record == nil {
			// First time the referred account reaches premium.
			record = &entity.ReferralRecord{
				Id:             uuid.New(),
				ReferrerId:     referrerId,
				ReferredId:     accountId,
				PlanAmount:     pricing.CommissionBase(),
				CommissionRate: s.commissionRate,
				Status:         entity.ReferralStatusPendingActivation,
				ActivationDate: now.Add(s.activationHold),
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			record.LockedAmount = record.MonthlyCommission()
			record.LastStatusChange = now
			if err := uow.ReferralRepository().CreateRecord(ctx, record); err != nil {
				return err
			}
			s.log.Info("Referral", "referral record created", map[string]interface{}{
				"referrer_id": referrerId,
				"referred_id": accountId,
			})
		} else if record.Status == entity.ReferralStatusCancelled {
			// Re-reached premium: hold and lock start over.
			record.ResetToPending(now, now.Add(s.activationHold))
			if err := uow.ReferralRepository().UpdateRecord(ctx, record); err != nil {
				return err
			}
		}
		// pending or already active: nothing to do.

	case record != nil && record.Status != entity.ReferralStatusCancelled:
		record.CancelRecord(now)
		if err := uow.ReferralRepository().UpdateRecord(ctx, record); err != nil {
			return err
		}
		s.log.Info("Referral", "referral record cancelled", map[string]interface{}{
			"referrer_id": referrerId,
			"referred_id": accountId,
			"new_plan":    newPlan,
		})
	}

	return uow.Commit()
}

func (s *referralService) GetSnapshot(ctx context.Context, referrerId uuid.UUID) (*dto.ReferralSnapshotResponse, error) {
	s.perReferrer.Lock(referrerId.String())
	defer s.perReferrer.Unlock(referrerId.String())

	records, payouts, summary, err := s.recompute(ctx, referrerId, time.Now())
	if err != nil {
		return nil, err
	}

	res := &dto.ReferralSnapshotResponse{
		TotalEarned:         summary.TotalEarned,
		TotalPaidOut:        summary.TotalPaidOut,
		LockedAmount:        summary.LockedAmount,
		WithdrawableBalance: summary.WithdrawableBalance,
		MonthlyEarnings:     summary.MonthlyEarnings,
		TotalReferrals:      summary.TotalReferrals,
		ActiveReferrals:     summary.ActiveReferrals,
		PendingReferrals:    summary.PendingReferrals,
		Records:             make([]*dto.ReferralRecordResponse, 0, len(records)),
		PayoutRequests:      make([]*dto.PayoutRequestResponse, 0, len(payouts)),
	}
	for _, r := range records {
		res.Records = append(res.Records, &dto.ReferralRecordResponse{
			Id:                r.Id,
			ReferredId:        r.ReferredId,
			Status:            string(r.Status),
			ActivationDate:    r.ActivationDate,
			EarningsStartDate: r.EarningsStartDate,
			MonthlyCommission: r.MonthlyCommission(),
			AccruedAmount:     r.AccruedAmount,
			TotalPaidOut:      r.TotalPaidOut,
			LockedAmount:      r.LockedAmount,
		})
	}
	for _, p := range payouts {
		res.PayoutRequests = append(res.PayoutRequests, &dto.PayoutRequestResponse{
			Id:                  p.Id,
			Amount:              p.Amount,
			Status:              string(p.Status),
			RequestedAt:         p.RequestedAt,
			EstimatedPayoutDate: p.EstimatedPayoutDate,
			Notes:               p.Notes,
		})
	}
	return res, nil
}

func (s *referralService) RequestPayout(ctx context.Context, referrerId uuid.UUID, req *dto.PayoutRequestRequest) (*dto.PayoutRequestResponse, error) {
	if req.Amount < s.minimumPayout {
		return nil, apperrors.Validation("payout amount %.2f is below the %.2f minimum", req.Amount, s.minimumPayout)
	}

	s.perReferrer.Lock(referrerId.String())
	defer s.perReferrer.Unlock(referrerId.String())

	now := time.Now()

	// Balance checks run against a fresh recomputation, never a stale read.
	_, _, summary, err := s.recompute(ctx, referrerId, now)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	open, err := uow.ReferralRepository().FindOnePayout(ctx,
		specification.ReferrerOwnedBy{ReferrerID: referrerId},
		specification.OpenPayouts{},
	)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperrors.Conflict("a payout request is already pending")
	}
	if req.Amount > summary.WithdrawableBalance {
		return nil, apperrors.Validation("payout amount %.2f exceeds withdrawable balance %.2f", req.Amount, summary.WithdrawableBalance)
	}

	payout := &entity.PayoutRequest{
		Id:                  uuid.New(),
		ReferrerId:          referrerId,
		Amount:              req.Amount,
		Status:              entity.PayoutStatusPending,
		RequestedAt:         now,
		EstimatedPayoutDate: now.Add(s.payoutSLA),
		Notes:               req.Notes,
	}

	if err := uow.ReferralRepository().CreatePayout(ctx, payout); err != nil {
		return nil, err
	}

	s.log.Info("Referral", "payout requested", map[string]interface{}{
		"referrer_id": referrerId,
		"amount":      req.Amount,
		"due_by":      payout.EstimatedPayoutDate,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "PAYOUT_REQUESTED",
			Data: map[string]interface{}{
				"payout_id":   payout.Id,
				"referrer_id": referrerId,
				"amount":      payout.Amount,
				"due_by":      payout.EstimatedPayoutDate,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("Referral", "failed to publish payout event", map[string]interface{}{
				"payout_id": payout.Id,
				"error":     err.Error(),
			})
		}
	}

	return &dto.PayoutRequestResponse{
		Id:                  payout.Id,
		Amount:              payout.Amount,
		Status:              string(payout.Status),
		RequestedAt:         payout.RequestedAt,
		EstimatedPayoutDate: payout.EstimatedPayoutDate,
		Notes:               payout.Notes,
	}, nil
}

// recompute walks every record for the referrer, applies the activation /
// cancellation / accrual rules against the referred accounts' current state,
// persists what changed, and derives the summary. Callers hold the
// per-referrer lock.
func (s *referralService) recompute(ctx context.Context, referrerId uuid.UUID, now time.Time) ([]*entity.ReferralRecord, []*entity.PayoutRequest, *entity.LedgerSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	records, err := uow.ReferralRepository().FindAllRecords(ctx,
		specification.ReferrerOwnedBy{ReferrerID: referrerId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, nil, nil, err
	}

	var dirty []*entity.ReferralRecord
	for _, record := range records {
		referred, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: record.ReferredId})
		if err != nil {
			return nil, nil, nil, err
		}
		stillPremium := referred != nil && referred.IsActivePremium(now)

		switch record.Status {
		case entity.ReferralStatusPendingActivation:
			if record.ActivationDate.After(now) {
				continue // hold still running
			}
			if stillPremium {
				record.Activate(now)
				// Earnings are backdated to the activation date, so cycles
				// that elapsed before this read already count.
				record.Accrue(now)
			} else {
				record.CancelRecord(now)
			}
			dirty = append(dirty, record)

		case entity.ReferralStatusActive:
			if !stillPremium {
				record.CancelRecord(now)
				dirty = append(dirty, record)
				continue
			}
			before := record.AccruedAmount
			record.Accrue(now)
			if record.AccruedAmount != before {
				dirty = append(dirty, record)
			}
		}
	}

	if len(dirty) > 0 {
		if err := uow.Begin(ctx); err != nil {
			return nil, nil, nil, err
		}
		defer uow.Rollback()
		for _, record := range dirty {
			if err := uow.ReferralRepository().UpdateRecord(ctx, record); err != nil {
				return nil, nil, nil, err
			}
		}
		if err := uow.Commit(); err != nil {
			return nil, nil, nil, err
		}
	}

	payouts, err := uow.ReferralRepository().FindAllPayouts(ctx,
		specification.ReferrerOwnedBy{ReferrerID: referrerId},
		specification.OrderBy{Field: "requested_at", Desc: true},
	)
	if err != nil {
		return nil, nil, nil, err
	}

	return records, payouts, entity.BuildLedgerSummary(records, payouts), nil
}
