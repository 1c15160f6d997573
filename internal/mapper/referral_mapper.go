package mapper

import (
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/model"
)

type ReferralMapper struct{}

func NewReferralMapper() *ReferralMapper {
	return &ReferralMapper{}
}

func (m *ReferralMapper) RecordToEntity(r *model.ReferralRecord) *entity.ReferralRecord {
	if r == nil {
		return nil
	}
	return &entity.ReferralRecord{
		Id:                r.Id,
		ReferrerId:        r.ReferrerId,
		ReferredId:        r.ReferredId,
		PlanAmount:        r.PlanAmount,
		CommissionRate:    r.CommissionRate,
		Status:            entity.ReferralStatus(r.Status),
		ActivationDate:    r.ActivationDate,
		EarningsStartDate: r.EarningsStartDate,
		AccruedAmount:     r.AccruedAmount,
		TotalPaidOut:      r.TotalPaidOut,
		LockedAmount:      r.LockedAmount,
		LastStatusChange:  r.LastStatusChange,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (m *ReferralMapper) RecordToModel(r *entity.ReferralRecord) *model.ReferralRecord {
	if r == nil {
		return nil
	}
	return &model.ReferralRecord{
		Id:                r.Id,
		ReferrerId:        r.ReferrerId,
		ReferredId:        r.ReferredId,
		PlanAmount:        r.PlanAmount,
		CommissionRate:    r.CommissionRate,
		Status:            string(r.Status),
		ActivationDate:    r.ActivationDate,
		EarningsStartDate: r.EarningsStartDate,
		AccruedAmount:     r.AccruedAmount,
		TotalPaidOut:      r.TotalPaidOut,
		LockedAmount:      r.LockedAmount,
		LastStatusChange:  r.LastStatusChange,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (m *ReferralMapper) PayoutToEntity(p *model.PayoutRequest) *entity.PayoutRequest {
	if p == nil {
		return nil
	}
	return &entity.PayoutRequest{
		Id:                  p.Id,
		ReferrerId:          p.ReferrerId,
		Amount:              p.Amount,
		Status:              entity.PayoutStatus(p.Status),
		RequestedAt:         p.RequestedAt,
		EstimatedPayoutDate: p.EstimatedPayoutDate,
		Notes:               p.Notes,
	}
}

func (m *ReferralMapper) PayoutToModel(p *entity.PayoutRequest) *model.PayoutRequest {
	if p == nil {
		return nil
	}
	return &model.PayoutRequest{
		Id:                  p.Id,
		ReferrerId:          p.ReferrerId,
		Amount:              p.Amount,
		Status:              string(p.Status),
		RequestedAt:         p.RequestedAt,
		EstimatedPayoutDate: p.EstimatedPayoutDate,
		Notes:               p.Notes,
	}
}
