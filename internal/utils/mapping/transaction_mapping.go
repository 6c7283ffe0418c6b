package mapping

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/models"
)

// ToModelLedgerTransaction converts a domain LedgerTransaction to a model LedgerTransaction
func ToModelLedgerTransaction(d domain.LedgerTransaction) models.LedgerTransaction {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return models.LedgerTransaction{
		TransactionID:        d.TransactionID,
		WalletID:             d.WalletID,
		Type:                 string(d.Type),
		Amount:               d.Amount,
		CurrencyCode:         d.CurrencyCode,
		Fee:                  d.Fee,
		RelatedWalletID:      nullable(d.RelatedWalletID),
		RelatedTransactionID: nullable(d.RelatedTransactionID),
		Status:               string(d.Status),
		Reference:            nullable(d.Reference),
		PaymentIntentID:      nullable(d.PaymentIntentID),
		PayoutID:             nullable(d.PayoutID),
		Description:          d.Description,
		Metadata:             metadata,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerTransaction converts a model LedgerTransaction to a domain LedgerTransaction
func ToDomainLedgerTransaction(m models.LedgerTransaction) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID:        m.TransactionID,
		WalletID:             m.WalletID,
		Type:                 domain.TransactionType(m.Type),
		Amount:               m.Amount,
		CurrencyCode:         m.CurrencyCode,
		Fee:                  m.Fee,
		RelatedWalletID:      deref(m.RelatedWalletID),
		RelatedTransactionID: deref(m.RelatedTransactionID),
		Status:               domain.TransactionStatus(m.Status),
		Reference:            deref(m.Reference),
		PaymentIntentID:      deref(m.PaymentIntentID),
		PayoutID:             deref(m.PayoutID),
		Description:          m.Description,
		Metadata:             m.Metadata,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerTransactionSlice converts a slice of model entries to domain entries
func ToDomainLedgerTransactionSlice(ms []models.LedgerTransaction) []domain.LedgerTransaction {
	ds := make([]domain.LedgerTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerTransaction(m)
	}
	return ds
}
