// FILE: internal/pkg/mailer/notifier.go
package mailer

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/pkg/logger"
)

// EmailNotifier delivers billing notifications over SMTP. Sends run in a
// goroutine so a slow mail server never blocks a billing pass, and a
// short-lived cache suppresses duplicate sends for the same account+event.
type EmailNotifier struct {
	emails   IEmailService
	log      logger.ILogger
	recently *cache.Cache
	maxTries int
}

func NewEmailNotifier(emails IEmailService, log logger.ILogger, maxRenewalAttempts int) *EmailNotifier {
	return &EmailNotifier{
		emails:   emails,
		log:      log,
		recently: cache.New(24*time.Hour, 1*time.Hour),
		maxTries: maxRenewalAttempts,
	}
}

func (n *EmailNotifier) dispatch(key string, send func() error) {
	if _, dup := n.recently.Get(key); dup {
		return
	}
	n.recently.Set(key, struct{}{}, cache.DefaultExpiration)

	go func() {
		if err := send(); err != nil {
			n.log.Warn("Notifier", "email send failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}()
}

func (n *EmailNotifier) NotifyExpiryWarning(account entity.Account) {
	if account.PlanExpiry == nil {
		return
	}
	expiry := *account.PlanExpiry
	key := fmt.Sprintf("warning:%s:%d", account.Id, expiry.Unix())
	n.dispatch(key, func() error {
		return n.emails.SendExpiryWarning(account.Email, string(account.Plan), expiry)
	})
}

func (n *EmailNotifier) NotifyRenewalSuccess(account entity.Account, amount float64) {
	if account.PlanExpiry == nil {
		return
	}
	expiry := *account.PlanExpiry
	key := fmt.Sprintf("renewed:%s:%d", account.Id, expiry.Unix())
	n.dispatch(key, func() error {
		return n.emails.SendRenewalSuccess(account.Email, string(account.Plan), expiry, amount)
	})
}

func (n *EmailNotifier) NotifyRenewalFailed(account entity.Account, attempt int, reason string) {
	key := fmt.Sprintf("renewal-failed:%s:%d", account.Id, attempt)
	n.dispatch(key, func() error {
		return n.emails.SendRenewalFailed(account.Email, attempt, n.maxTries, reason)
	})
}

func (n *EmailNotifier) NotifySubscriptionExpired(account entity.Account, oldPlan entity.Plan) {
	key := fmt.Sprintf("expired:%s", account.Id)
	n.dispatch(key, func() error {
		return n.emails.SendSubscriptionExpired(account.Email, string(oldPlan))
	})
}

func (n *EmailNotifier) NotifyPlanDowngraded(account entity.Account, oldPlan entity.Plan) {
	key := fmt.Sprintf("downgraded:%s:%s:%s", account.Id, oldPlan, account.Plan)
	n.dispatch(key, func() error {
		return n.emails.SendPlanDowngraded(account.Email, string(oldPlan), string(account.Plan))
	})
}
