package pgsql

import (
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WalletRepo:      newPgxWalletRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		DonationRepo:    newPgxDonationRepository(dbPool),
		UnitOfWork:      newPgxUnitOfWork(dbPool),
	}
}
