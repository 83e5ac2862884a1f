// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/models"
)

// Store is the ledger's single logical data store.
// Every mutating operation of the core runs inside WithTx, so a check and the write
// that depends on it commit together or not at all.
type Store interface {
	Queries

	// WithTx runs fn inside one serialized transaction. Returning an error from fn, or
	// cancelling ctx, rolls everything back.
	WithTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Queries are the reads and writes available both on the store and inside a transaction.
// Lookups of missing rows return an errs NotFound error.
type Queries interface {
	BankTransactions
	PayIns
	Invoices
	Ledger
	Periods
	Bookkeeping
	AuditLog
}

// BankTransactions holds imported statement rows.
type BankTransactions interface {
	// InsertBankTransaction stores an imported row. Duplicate IDs are a Conflict.
	InsertBankTransaction(ctx context.Context, txn *models.BankTransaction) error
	GetBankTransaction(ctx context.Context, id string) (*models.BankTransaction, error)

	// ListCreditsByAmount returns credit rows of exactly amount, bound or not.
	// An empty accountID matches every account.
	ListCreditsByAmount(ctx context.Context, amount decimal.Decimal, accountID string) ([]models.BankTransaction, error)

	// BindTxn links the row to payInID only if it is currently unbound.
	BindTxn(ctx context.Context, txnID, payInID string) (bool, error)
	UnbindTxn(ctx context.Context, txnID string) error
	SetTxnPosted(ctx context.Context, txnID string, posted bool) error
}

// PayInFilter narrows ListPayIns. Zero fields match everything.
type PayInFilter struct {
	HouseID string
	Status  models.PayInStatus
}

// PayIns holds resident payment claims.
type PayIns interface {
	InsertPayIn(ctx context.Context, p *models.PayIn) error
	GetPayIn(ctx context.Context, id string) (*models.PayIn, error)
	ListPayIns(ctx context.Context, filter PayInFilter) ([]models.PayIn, error)

	// UpdatePayIn writes the lifecycle fields (status, posting status, reasons,
	// amount, claimed time, reversal time). The link is changed only via BindPayIn.
	UpdatePayIn(ctx context.Context, p *models.PayIn) error

	// BindPayIn links the pay-in to txnID only if it is currently unbound.
	BindPayIn(ctx context.Context, payInID, txnID string, at time.Time) (bool, error)
	UnbindPayIn(ctx context.Context, payInID string) error
}

// Invoices holds house invoices.
type Invoices interface {
	InsertInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)

	// ListOpenInvoices returns OPEN and PARTIAL invoices of a house.
	ListOpenInvoices(ctx context.Context, houseID string) ([]models.Invoice, error)

	// UpdateInvoicePayment writes AmountPaid and Status.
	UpdateInvoicePayment(ctx context.Context, inv *models.Invoice) error
}

// Ledger holds income records and their allocations.
type Ledger interface {
	InsertLedgerEntry(ctx context.Context, e *models.LedgerEntry) error

	// GetActiveLedgerEntry returns the non-voided entry of a pay-in.
	GetActiveLedgerEntry(ctx context.Context, payInID string) (*models.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, payInID string) ([]models.LedgerEntry, error)
	VoidLedgerEntry(ctx context.Context, e *models.LedgerEntry) error

	InsertAllocation(ctx context.Context, a *models.Allocation) error

	// ListAllocations returns every row of a posting, compensating rows included,
	// in insertion order.
	ListAllocations(ctx context.Context, postingID string) ([]models.Allocation, error)
}

// Periods holds accounting period state, snapshot history and unlock logs.
type Periods interface {
	// GetPeriod returns the current state of a month, NotFound if it was never locked.
	GetPeriod(ctx context.Context, key models.PeriodKey) (*models.Period, error)
	SavePeriod(ctx context.Context, p *models.Period) error

	InsertSnapshot(ctx context.Context, s *models.Snapshot) error
	ListSnapshots(ctx context.Context, key models.PeriodKey) ([]models.Snapshot, error)

	InsertUnlockLog(ctx context.Context, e *models.UnlockLogEntry) error
	ListUnlockLogs(ctx context.Context, key models.PeriodKey) ([]models.UnlockLogEntry, error)

	// AggregatePeriod computes snapshot totals for the month [start, end) as of now.
	AggregatePeriod(ctx context.Context, key models.PeriodKey, start, end time.Time) (models.SnapshotData, error)
}

// Bookkeeping holds expenses, credit notes and the house registry.
type Bookkeeping interface {
	InsertExpense(ctx context.Context, e *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, e *models.Expense) error

	InsertCreditNote(ctx context.Context, n *models.CreditNote) error

	UpsertHouse(ctx context.Context, h *models.House) error
}

// AuditFilter narrows ListAudit. Zero fields match everything.
type AuditFilter struct {
	Kind    models.AuditKind
	Subject string
}

// AuditLog is append-only.
type AuditLog interface {
	AppendAudit(ctx context.Context, e *models.AuditEntry) error

	// LastAudit returns the newest entry, or nil when the log is empty.
	LastAudit(ctx context.Context) (*models.AuditEntry, error)
	ListAudit(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error)
}
