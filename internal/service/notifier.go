// FILE: internal/service/notifier.go
package service

import (
	"github.com/emiflair/wazhop/internal/entity"
)

// Notifier is the fire-and-forget notification capability. Implementations
// must never block the caller or surface delivery errors; the billing pass
// treats a lost notification as acceptable, a stalled pass is not.
type Notifier interface {
	NotifyExpiryWarning(account entity.Account)
	NotifyRenewalSuccess(account entity.Account, amount float64)
	NotifyRenewalFailed(account entity.Account, attempt int, reason string)
	NotifySubscriptionExpired(account entity.Account, oldPlan entity.Plan)
	NotifyPlanDowngraded(account entity.Account, oldPlan entity.Plan)
}
