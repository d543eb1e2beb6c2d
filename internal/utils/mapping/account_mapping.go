package mapping

import (
	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/SscSPs/ledger_service/internal/models"
)

// ToModelAccount converts domain.Account to models.Account for DB storage
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		OwnerName:    d.OwnerName,
		AccountType:  string(d.AccountType),
		CurrencyCode: d.CurrencyCode,
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainAccount converts models.Account from DB to domain.Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		OwnerName:    m.OwnerName,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		Status:       domain.AccountStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainAccountSlice converts a slice of models.Account to a slice of domain.Account
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
