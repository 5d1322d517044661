package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service container.
type RepositoryProvider struct {
	FamilyRepo       FamilyRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	EntryRepo        EntryRepositoryFacade
	BalanceRepo      BalanceRepositoryFacade
	TransferRepo     TransferRepositoryFacade
	SyncRepo         SyncRunRepositoryFacade
}
