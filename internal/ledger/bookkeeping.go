package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// ExpenseInput holds the editable fields of an expense.
type ExpenseInput struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	IncurredAt  time.Time
	Status      models.ExpenseStatus
}

func (in ExpenseInput) validate() error {
	if err := required("category", strings.TrimSpace(in.Category)); err != nil {
		return err
	}
	if err := checkAmount("amount", in.Amount); err != nil {
		return err
	}
	if in.IncurredAt.IsZero() {
		return errs.Validation(errs.CodeInvalidArgument, "incurred_at is required").With("field", "incurred_at")
	}
	switch in.Status {
	case "", models.ExpensePending, models.ExpensePaid:
	default:
		return errs.Validation(errs.CodeInvalidArgument, "unknown expense status %q", in.Status).With("field", "status")
	}
	return nil
}

// RecordExpense stores a new expense. Its date must fall in an open period.
func (e *Engine) RecordExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exp := &models.Expense{
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Amount:      in.Amount,
		IncurredAt:  in.IncurredAt.UTC(),
		Status:      in.Status,
	}
	if exp.Status == "" {
		exp.Status = models.ExpensePending
	}

	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		if err := e.periods.EnsureOpen(ctx, q, exp.IncurredAt); err != nil {
			return err
		}
		return q.InsertExpense(ctx, exp)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Expense recorded", "expense_id", exp.ID, "amount", models.FormatAmount(exp.Amount))
	return exp, nil
}

// UpdateExpense edits an expense. Both its current and its new date must fall in open periods.
func (e *Engine) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var exp *models.Expense
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		var err error
		if exp, err = q.GetExpense(ctx, id); err != nil {
			return err
		}
		if err := e.periods.EnsureOpen(ctx, q, exp.IncurredAt); err != nil {
			return err
		}
		if err := e.periods.EnsureOpen(ctx, q, in.IncurredAt); err != nil {
			return err
		}
		exp.Category = strings.TrimSpace(in.Category)
		exp.Description = in.Description
		exp.Amount = in.Amount
		exp.IncurredAt = in.IncurredAt.UTC()
		if in.Status != "" {
			exp.Status = in.Status
		}
		return q.UpdateExpense(ctx, exp)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Expense updated", "expense_id", exp.ID)
	return exp, nil
}

// GetExpense returns an expense by ID.
func (e *Engine) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return e.store.GetExpense(ctx, id)
}

// IssueCreditNote reduces what a house owes. Its date must fall in an open period.
func (e *Engine) IssueCreditNote(ctx context.Context, houseID string, amount decimal.Decimal, issuedAt time.Time, reason string) (*models.CreditNote, error) {
	if err := required("house_id", houseID); err != nil {
		return nil, err
	}
	if err := checkAmount("amount", amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, errs.Validation(errs.CodeReasonRequired, "a reason is required to issue a credit note")
	}
	if issuedAt.IsZero() {
		issuedAt = e.now()
	}

	note := &models.CreditNote{HouseID: houseID, Amount: amount, IssuedAt: issuedAt.UTC(), Reason: strings.TrimSpace(reason)}
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		if err := e.periods.EnsureOpen(ctx, q, note.IssuedAt); err != nil {
			return err
		}
		return q.InsertCreditNote(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Credit note issued", "credit_note_id", note.ID, "house_id", houseID, "amount", models.FormatAmount(amount))
	return note, nil
}
