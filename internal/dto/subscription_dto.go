// FILE: internal/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpgradeRequest struct {
	Plan          string `json:"plan" validate:"required,oneof=pro premium"`
	BillingPeriod string `json:"billing_period" validate:"required,oneof=monthly yearly"`

	// TransactionId is the gateway reference for the charge the client
	// already performed; it is verified server-side before any state moves.
	TransactionId string `json:"transaction_id" validate:"required"`

	AutoRenew *bool `json:"auto_renew,omitempty"`

	// Optional card token to store for future auto-renewal charges.
	SaveCard  bool   `json:"save_card"`
	CardToken string `json:"card_token,omitempty" validate:"required_if=SaveCard true"`
	CardLast4 string `json:"card_last4,omitempty"`
	CardBrand string `json:"card_brand,omitempty"`
	CardExp   string `json:"card_exp,omitempty"`
}

type RenewRequest struct {
	// Empty on purpose: renewal always charges the saved payment method.
}

type AutoRenewRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type EnforceFreeRequest struct {
	Destructive bool `json:"destructive"`

	// Destructive enforcement deletes shops and media; the client must say
	// so twice, once in the button and once here.
	Confirm bool `json:"confirm" validate:"required_if=Destructive true,omitempty,eq=true"`
}

type SubscriptionStatusResponse struct {
	AccountId          uuid.UUID  `json:"account_id"`
	Plan               string     `json:"plan"`
	EffectivePlan      string     `json:"effective_plan"`
	BillingPeriod      string     `json:"billing_period,omitempty"`
	Status             string     `json:"status"`
	PlanExpiry         *time.Time `json:"plan_expiry,omitempty"`
	DaysRemaining      int        `json:"days_remaining"`
	AutoRenew          bool       `json:"auto_renew"`
	RenewalAttempts    int        `json:"renewal_attempts"`
	HasSavedCard       bool       `json:"has_saved_card"`
	SavedCardLast4     string     `json:"saved_card_last4,omitempty"`
	SavedCardBrand     string     `json:"saved_card_brand,omitempty"`
	RenewalFailureNote string     `json:"renewal_failure_note,omitempty"`
}

type EnforcementStatsResponse struct {
	Mode                string `json:"mode"`
	ShopsDeactivated    int    `json:"shops_deactivated"`
	ShopsDeleted        int    `json:"shops_deleted"`
	ProductsDeleted     int    `json:"products_deleted"`
	ImagesDeleted       int    `json:"images_deleted"`
	MediaDeleteFailures int    `json:"media_delete_failures"`
	StorageReclaimed    int64  `json:"storage_reclaimed_bytes"`
}
