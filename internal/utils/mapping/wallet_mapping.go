package mapping

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/models"
)

// ToModelWallet converts a domain Wallet to a model Wallet
func ToModelWallet(d domain.Wallet) models.Wallet {
	return models.Wallet{
		WalletID:          d.WalletID,
		OwnerID:           d.OwnerID,
		CurrencyCode:      d.CurrencyCode,
		Balance:           d.Balance,
		IsActive:          d.IsActive,
		TotalDeposits:     d.Totals.Deposits,
		TotalWithdrawals:  d.Totals.Withdrawals,
		TotalFees:         d.Totals.Fees,
		TotalTransfers:    d.Totals.Transfers,
		TotalDonations:    d.Totals.Donations,
		LastTransactionAt: d.LastTransactionAt,
		Version:           d.Version,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWallet converts a model Wallet to a domain Wallet
func ToDomainWallet(m models.Wallet) domain.Wallet {
	return domain.Wallet{
		WalletID:     m.WalletID,
		OwnerID:      m.OwnerID,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		IsActive:     m.IsActive,
		Totals: domain.WalletTotals{
			Deposits:    m.TotalDeposits,
			Withdrawals: m.TotalWithdrawals,
			Fees:        m.TotalFees,
			Transfers:   m.TotalTransfers,
			Donations:   m.TotalDonations,
		},
		LastTransactionAt: m.LastTransactionAt,
		Version:           m.Version,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainWalletSlice converts a slice of model Wallets to a slice of domain Wallets
func ToDomainWalletSlice(ms []models.Wallet) []domain.Wallet {
	ds := make([]domain.Wallet, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWallet(m)
	}
	return ds
}
