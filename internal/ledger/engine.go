// Package ledger turns matched bank payments into ledger postings.
//
// The Engine owns every mutating reconciliation operation: binding a pay-in to a bank
// transaction, posting the binding against the house's invoices, reversing a posting,
// the pay-in lifecycle, and dated bookkeeping (expenses, credit notes). Each operation
// runs as one store transaction, so either all of its effects commit or none do, and
// dated operations check the period lock inside that same transaction.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/audit"
	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/matcher"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/period"
	"github.com/mmynk/estateledger/internal/storage"
)

// Engine runs reconciliation and posting operations against a store.
type Engine struct {
	store   storage.Store
	periods *period.Manager
	audit   *audit.Logger
	match   matcher.Options
	now     func() time.Time
}

// New creates an Engine.
func New(store storage.Store, periods *period.Manager, auditLog *audit.Logger, match matcher.Options) *Engine {
	return &Engine{
		store:   store,
		periods: periods,
		audit:   auditLog,
		match:   match,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FindMatchCandidates ranks the bank transactions that could back a pay-in.
// It never mutates anything.
func (e *Engine) FindMatchCandidates(ctx context.Context, payInID string) (*models.PayIn, matcher.Result, error) {
	p, err := e.store.GetPayIn(ctx, payInID)
	if err != nil {
		return nil, matcher.Result{}, err
	}
	txns, err := e.store.ListCreditsByAmount(ctx, p.Amount, p.AccountID)
	if err != nil {
		return nil, matcher.Result{}, err
	}
	return p, matcher.Find(*p, txns, e.match), nil
}

// checkAmount validates a positive amount with at most two decimal places.
func checkAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return errs.Validation(errs.CodeInvalidAmount, "%s must be positive, got %s", field, d.String()).With("field", field)
	}
	if !d.Equal(d.Round(models.MinorUnits)) {
		return errs.Validation(errs.CodeInvalidAmount, "%s has more than %d decimal places: %s", field, models.MinorUnits, d.String()).
			With("field", field)
	}
	if !models.InRange(d) {
		return errs.Validation(errs.CodeInvalidAmount, "%s must be below %s, got %s", field, models.FormatAmount(models.MaxAmount), d.String()).
			With("field", field)
	}
	return nil
}

func required(field, value string) error {
	if value == "" {
		return errs.Validation(errs.CodeInvalidArgument, "%s is required", field).With("field", field)
	}
	return nil
}
