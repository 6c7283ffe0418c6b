package services

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/platform/config"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
)

// Adapters groups the outbound integrations the services depend on.
type Adapters struct {
	Gateway     external.PaymentGateway
	RateCache   external.RateCache
	RateSources []external.RateSource
	Metrics     *metrics.Recorder
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, adapters Adapters) (*portssvc.ServiceContainer, error) {
	feePolicy, err := ParseDonationFeePolicy(cfg.DonationFeePolicy)
	if err != nil {
		return nil, err
	}

	container := &portssvc.ServiceContainer{}

	fees := NewFeeEngine(domain.DefaultFeeSchedule())
	container.Fee = fees

	rates := NewExchangeRateService(
		adapters.RateCache,
		adapters.RateSources,
		WithSourceTimeout(cfg.RateProviderTimeout),
		WithCacheTTL(cfg.RateCacheTTL),
		WithBatchConcurrency(cfg.RateBatchConcurrency),
		WithRateMetrics(adapters.Metrics),
	)
	container.ExchangeRate = rates

	wallets := NewWalletService(repos.WalletRepo, repos.TransactionRepo)
	container.Wallet = wallets

	// Transfers are shared by donations and payments so every money movement
	// goes through the same plans.
	transfers := NewTransferService(
		repos.WalletRepo,
		repos.TransactionRepo,
		repos.UnitOfWork,
		fees,
		rates,
		WithDonationFeePolicy(feePolicy),
		WithTransferMetrics(adapters.Metrics),
	)
	container.Transfer = transfers
	container.Donation = NewDonationService(repos.DonationRepo, repos.TransactionRepo, repos.UnitOfWork, transfers, cfg.DonationMessageMaxLength)
	container.Payment = NewPaymentService(repos.TransactionRepo, repos.UnitOfWork, adapters.Gateway, transfers)

	return container, nil
}
