package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is one imported statement row. Everything except the match link and
// the posted flag is immutable after import, and rows are never deleted.
type BankTransaction struct {
	ID          string
	AccountID   string
	ImportBatch string
	EffectiveAt time.Time
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
	Description string
	Channel     string

	// MatchedPayInID is owned by the binder. Empty when unbound.
	MatchedPayInID string

	// Posted is set by the posting engine and cleared by a reversal.
	Posted bool

	ImportedAt time.Time
}

// Bound reports whether a pay-in is linked to the transaction.
func (t *BankTransaction) Bound() bool {
	return t.MatchedPayInID != ""
}

// IsCredit reports whether money came into the account.
func (t *BankTransaction) IsCredit() bool {
	return t.Credit.IsPositive()
}
