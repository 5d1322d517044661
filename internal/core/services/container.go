package services

import (
	"time"

	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
)

// Container holds all the services and manages their dependencies
type Container struct {
	Family       portssvc.FamilySvcFacade
	Account      portssvc.AccountSvcFacade
	Currency     portssvc.CurrencySvcFacade
	ExchangeRate portssvc.ExchangeRateSvcFacade
	Normalizer   portssvc.NormalizerSvcFacade
	Entry        portssvc.EntrySvcFacade
	Balance      portssvc.BalanceSvcFacade
	Transfer     portssvc.TransferSvcFacade
	Sync         portssvc.SyncSvcFacade
}

// ContainerConfig carries the tunables the services need.
type ContainerConfig struct {
	ProviderTimeout time.Duration
	TransferMatch   TransferMatchConfig
	Sync            SyncConfig
}

// NewContainer creates a new service container with properly initialized
// dependencies. rateProvider, bankProvider and publisher may be nil in
// reduced deployments (e.g. manual-entry only).
func NewContainer(repos *portsrepo.RepositoryProvider, rateProvider portssvc.RateProvider, bankProvider portssvc.BankDataProvider, publisher portssvc.EntryEventPublisher, cfg ContainerConfig) *Container {
	container := &Container{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.Family = NewFamilyService(repos.FamilyRepo, container.Currency)
	container.Account = NewAccountService(repos.AccountRepo, container.Family, container.Currency)
	container.Normalizer = NewNormalizerService(repos.ExchangeRateRepo, rateProvider, cfg.ProviderTimeout)
	container.Entry = NewEntryService(repos.EntryRepo, container.Account, container.Currency, publisher)
	container.Balance = NewBalanceService(repos.EntryRepo, repos.BalanceRepo, repos.AccountRepo, container.Account, container.Normalizer)
	container.Transfer = NewTransferService(repos.EntryRepo, repos.TransferRepo, repos.FamilyRepo, container.Normalizer, cfg.TransferMatch)
	container.Sync = NewSyncService(repos.SyncRepo, repos.EntryRepo, container.Account, container.Currency, container.Balance, container.Transfer, bankProvider, cfg.Sync)

	return container
}
