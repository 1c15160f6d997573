package bootstrap

import (
	"log"

	"github.com/emiflair/wazhop/internal/config"
	"github.com/emiflair/wazhop/internal/controller"
	"github.com/emiflair/wazhop/internal/pkg/logger"
	"github.com/emiflair/wazhop/internal/pkg/mailer"
	"github.com/emiflair/wazhop/internal/repository/unitofwork"
	"github.com/emiflair/wazhop/internal/service"
	"github.com/emiflair/wazhop/pkg/media"
	"github.com/emiflair/wazhop/pkg/payment"

	pktNats "github.com/emiflair/wazhop/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SubscriptionController controller.ISubscriptionController
	ReferralController     controller.IReferralController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// RenewalService is the scheduler entry point; cmd/scheduler drives it.
	RenewalService service.IRenewalService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)
	notifier := mailer.NewEmailNotifier(emailService, sysLogger, cfg.Billing.MaxRenewalAttempts)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (external billing event mirror; optional)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	charger := payment.NewMidtransCharger(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction)
	mediaStore := media.NewLocalStore(cfg.App.UploadDir)

	// 3. Services
	publisherService := service.NewPlanChangePublisher(pubSub, service.PlanChangedTopic, natsPub)

	enforcementService := service.NewEnforcementService(
		uowFactory,
		mediaStore,
		sysLogger,
		cfg.Billing.FreeMaxProducts,
	)

	subscriptionService := service.NewSubscriptionService(
		uowFactory,
		charger,
		publisherService,
		enforcementService,
		notifier,
		sysLogger,
		cfg.Billing.ChargeTimeout,
	)

	renewalService := service.NewRenewalService(
		uowFactory,
		subscriptionService,
		enforcementService,
		publisherService,
		notifier,
		sysLogger,
		cfg.Billing.MaxRenewalAttempts,
		cfg.Billing.WarningWindow,
	)

	referralService := service.NewReferralService(
		uowFactory,
		sysLogger,
		natsPub,
		cfg.Billing.CommissionRate,
		cfg.Billing.ActivationHoldDays,
		cfg.Billing.PayoutSLADays,
		cfg.Billing.MinimumPayout,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		service.PlanChangedTopic,
		referralService,
	)

	// 4. Controllers
	return &Container{
		SubscriptionController: controller.NewSubscriptionController(subscriptionService, enforcementService),
		ReferralController:     controller.NewReferralController(referralService),

		ConsumerService: consumerService,
		RenewalService:  renewalService,
		Logger:          sysLogger,
	}
}
