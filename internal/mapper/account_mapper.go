package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/model"
)

type AccountMapper struct{}

func NewAccountMapper() *AccountMapper {
	return &AccountMapper{}
}

func (m *AccountMapper) ToEntity(a *model.Account) *entity.Account {
	if a == nil {
		return nil
	}
	var method *entity.PaymentMethod
	if len(a.SavedPaymentMethod) > 0 {
		var pm entity.PaymentMethod
		if err := json.Unmarshal(a.SavedPaymentMethod, &pm); err == nil && pm.Token != "" {
			method = &pm
		}
	}
	return &entity.Account{
		Id:                   a.Id,
		Email:                a.Email,
		Name:                 a.Name,
		Plan:                 entity.Plan(a.Plan),
		BillingPeriod:        entity.BillingPeriod(a.BillingPeriod),
		PlanExpiry:           a.PlanExpiry,
		SubscriptionStatus:   entity.SubscriptionStatus(a.SubscriptionStatus),
		AutoRenew:            a.AutoRenew,
		RenewalAttempts:      a.RenewalAttempts,
		LastRenewalAttempt:   a.LastRenewalAttempt,
		RenewalFailureReason: a.RenewalFailureReason,
		SavedPaymentMethod:   method,
		ExpiryWarnedFor:      a.ExpiryWarnedFor,
		ReferredBy:           a.ReferredBy,
		StorageUsedBytes:     a.StorageUsedBytes,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

func (m *AccountMapper) ToModel(a *entity.Account) *model.Account {
	if a == nil {
		return nil
	}
	var method datatypes.JSON
	if a.SavedPaymentMethod != nil {
		if raw, err := json.Marshal(a.SavedPaymentMethod); err == nil {
			method = raw
		}
	}
	return &model.Account{
		Id:                   a.Id,
		Email:                a.Email,
		Name:                 a.Name,
		Plan:                 string(a.Plan),
		BillingPeriod:        string(a.BillingPeriod),
		PlanExpiry:           a.PlanExpiry,
		SubscriptionStatus:   string(a.SubscriptionStatus),
		AutoRenew:            a.AutoRenew,
		RenewalAttempts:      a.RenewalAttempts,
		LastRenewalAttempt:   a.LastRenewalAttempt,
		RenewalFailureReason: a.RenewalFailureReason,
		SavedPaymentMethod:   method,
		ExpiryWarnedFor:      a.ExpiryWarnedFor,
		ReferredBy:           a.ReferredBy,
		StorageUsedBytes:     a.StorageUsedBytes,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}
