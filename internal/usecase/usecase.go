package usecase

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/config"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/hikvision"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/notify"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/razorpay"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/repository"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	BranchUsecaseInterface
	MemberUsecaseInterface
	BillingUsecaseInterface
	StaffUsecaseInterface
	ClassUsecaseInterface
	MarketingUsecaseInterface
	FinanceUsecaseInterface
	IntegrationUsecaseInterface
	NotificationUsecaseInterface
	WebsiteUsecaseInterface
	AnalyticsUsecaseInterface

	// Wait blocks until background work started by requests has finished.
	Wait()
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	cfg *config.Config,
	publisher notify.Publisher,
) InterfaceUsecase {
	hik := hikvision.NewFactory(log, cfg.Hikvision.BaseURL, cfg.Hikvision.RequestTimeout, hikvision.RetryOptions{
		MaxRetries:    cfg.Hikvision.MaxRetries,
		InitialDelay:  cfg.Hikvision.InitialDelay,
		MaxDelay:      cfg.Hikvision.MaxDelay,
		BackoffFactor: cfg.Hikvision.BackoffFactor,
	})
	payments := razorpay.New(log, razorpay.Options{
		BaseURL:       cfg.Razorpay.BaseURL,
		KeyID:         cfg.Razorpay.KeyID,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		Timeout:       cfg.Razorpay.RequestTimeout,
	})

	return domain.New(log, ctx, repo, cfg.HTTP.RequestTimeout, domain.Deps{
		Payments: payments,
		AccessControl: func(creds hikvision.Credentials) domain.AccessClient {
			return hik.Client(creds)
		},
		Publisher: publisher,
		Billing: domain.Billing{
			Currency:       cfg.Razorpay.Currency,
			TaxRate:        cfg.Billing.Tax(),
			ReferralReward: cfg.Billing.Reward(),
			ReminderDays:   cfg.Jobs.ReminderDays,
		},
		VendorTimeout:  vendorTimeout(cfg.Hikvision),
		ExpiryInterval: cfg.Jobs.ExpiryInterval,
	})
}

// vendorTimeout bounds one Hikvision operation including every retry and backoff sleep.
func vendorTimeout(h config.HikvisionConfig) time.Duration {
	attempts := time.Duration(h.MaxRetries + 1)
	return h.RequestTimeout*attempts + h.MaxDelay*time.Duration(h.MaxRetries)
}
