package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the income record of one posting. Reversal voids it in place.
type LedgerEntry struct {
	ID          string
	BankTxnID   string
	PayInID     string
	HouseID     string
	Amount      decimal.Decimal
	EffectiveAt time.Time
	PostedAt    time.Time
	PostedBy    string

	VoidedAt    time.Time
	VoidedBy    string
	VoidReason  string
	ReversalRef string
}

// Voided reports whether the entry has been reversed.
func (e *LedgerEntry) Voided() bool {
	return !e.VoidedAt.IsZero()
}

// Allocation is the share of a posting applied to one invoice. Rows are immutable;
// a reversal inserts a compensating row with the negated amount and ReversesID set.
type Allocation struct {
	ID string

	// PostingID is the ledger entry (posting event) this share came from.
	PostingID string
	BankTxnID string
	InvoiceID string
	Amount    decimal.Decimal

	ReversesID string
	CreatedAt  time.Time
}

// Compensating reports whether the row offsets an earlier allocation.
func (a *Allocation) Compensating() bool {
	return a.ReversesID != ""
}
