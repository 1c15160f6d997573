// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendExpiryWarning(toEmail, plan string, expiry time.Time) error
	SendRenewalSuccess(toEmail, plan string, newExpiry time.Time, amount float64) error
	SendRenewalFailed(toEmail string, attempt, maxAttempts int, reason string) error
	SendSubscriptionExpired(toEmail, plan string) error
	SendPlanDowngraded(toEmail, oldPlan, newPlan string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // Added to construct links
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	// Get Frontend URL from ENV or default to a safe placeholder
	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}

func (s *emailService) SendExpiryWarning(toEmail, plan string, expiry time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your %s plan is about to expire</h2>
			<p>Your subscription expires on <b>%s</b>.</p>
			<p>To keep your shops online without interruption, renew before that date:</p>
			<a href="%s/billing" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Renew Now</a>
			<p>If auto-renew is on and your card is saved, we will handle it for you.</p>
		</div>
	`, plan, expiry.Format("January 2, 2006"), s.frontendURL)

	return s.send(toEmail, "Your subscription is expiring soon", body)
}

func (s *emailService) SendRenewalSuccess(toEmail, plan string, newExpiry time.Time, amount float64) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment received</h2>
			<p>Your <b>%s</b> plan was renewed for <b>$%.2f</b>.</p>
			<p>It is now active until <b>%s</b>.</p>
			<p>Thanks for staying with us!</p>
		</div>
	`, plan, amount, newExpiry.Format("January 2, 2006"))

	return s.send(toEmail, "Subscription renewed", body)
}

func (s *emailService) SendRenewalFailed(toEmail string, attempt, maxAttempts int, reason string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>We couldn't renew your subscription</h2>
			<p>Charge attempt %d of %d failed: %s</p>
			<p>Please update your payment method, or we will retry on the next billing run:</p>
			<a href="%s/billing" style="background-color: #DC3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Update Payment Method</a>
		</div>
	`, attempt, maxAttempts, reason, s.frontendURL)

	return s.send(toEmail, "Renewal payment failed", body)
}

func (s *emailService) SendSubscriptionExpired(toEmail, plan string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your %s plan has expired</h2>
			<p>Your account is back on the free plan. Shops beyond the free limit have been deactivated, but nothing is deleted yet.</p>
			<p>Upgrade again at any time to restore them:</p>
			<a href="%s/billing" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reactivate</a>
		</div>
	`, plan, s.frontendURL)

	return s.send(toEmail, "Subscription expired", body)
}

func (s *emailService) SendPlanDowngraded(toEmail, oldPlan, newPlan string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Plan changed</h2>
			<p>Your account moved from <b>%s</b> to <b>%s</b>.</p>
			<p>Content above the new plan's limits has been adjusted. Check your dashboard for details.</p>
		</div>
	`, oldPlan, newPlan)

	return s.send(toEmail, "Your plan has changed", body)
}
