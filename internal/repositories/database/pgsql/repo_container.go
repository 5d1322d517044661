package pgsql

import (
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository against one shared
// connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		FamilyRepo:       newPgxFamilyRepository(pool),
		AccountRepo:      newPgxAccountRepository(pool),
		CurrencyRepo:     newPgxCurrencyRepository(pool),
		ExchangeRateRepo: newPgxExchangeRateRepository(pool),
		EntryRepo:        newPgxEntryRepository(pool),
		BalanceRepo:      newPgxBalanceRepository(pool),
		TransferRepo:     newPgxTransferRepository(pool),
		SyncRepo:         newPgxSyncRunRepository(pool),
	}
}
