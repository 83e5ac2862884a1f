package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// ImportBankTransactions stores a batch of statement rows. The batch is all-or-nothing:
// one invalid or duplicate row rejects every row.
func (e *Engine) ImportBankTransactions(ctx context.Context, batchID string, txns []models.BankTransaction) (string, error) {
	if len(txns) == 0 {
		return "", errs.Validation(errs.CodeInvalidArgument, "import batch is empty")
	}
	if batchID == "" {
		batchID = uuid.New().String()
	}
	seen := make(map[string]bool, len(txns))
	for i := range txns {
		if err := validateTxn(&txns[i]); err != nil {
			return "", err
		}
		if seen[txns[i].ID] {
			return "", errs.Conflict(errs.CodeDuplicate, "transaction %s appears twice in the batch", txns[i].ID)
		}
		seen[txns[i].ID] = true
	}

	now := e.now()
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		for i := range txns {
			txn := txns[i]
			txn.ImportBatch = batchID
			txn.ImportedAt = now
			txn.MatchedPayInID = ""
			txn.Posted = false
			if err := q.InsertBankTransaction(ctx, &txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	slog.Info("Bank transactions imported", "batch", batchID, "count", len(txns))
	return batchID, nil
}

func validateTxn(txn *models.BankTransaction) error {
	if err := required("id", txn.ID); err != nil {
		return err
	}
	if txn.EffectiveAt.IsZero() {
		return errs.Validation(errs.CodeInvalidArgument, "transaction %s has no effective time", txn.ID)
	}
	if txn.Debit.IsNegative() || txn.Credit.IsNegative() {
		return errs.Validation(errs.CodeInvalidAmount, "transaction %s has a negative amount", txn.ID)
	}
	if txn.Debit.IsPositive() == txn.Credit.IsPositive() {
		return errs.Validation(errs.CodeInvalidAmount, "transaction %s must have exactly one of debit or credit", txn.ID)
	}
	for _, d := range []struct {
		field string
		v     decimal.Decimal
	}{{"debit", txn.Debit}, {"credit", txn.Credit}, {"balance", txn.Balance}} {
		if !d.v.Equal(d.v.Round(models.MinorUnits)) {
			return errs.Validation(errs.CodeInvalidAmount, "transaction %s %s has more than %d decimal places", txn.ID, d.field, models.MinorUnits)
		}
		if !models.InRange(d.v) {
			return errs.Validation(errs.CodeInvalidAmount, "transaction %s %s is out of range: %s", txn.ID, d.field, d.v.String()).
				With("field", d.field)
		}
	}
	txn.EffectiveAt = txn.EffectiveAt.UTC()
	return nil
}

// IssueInvoice records what a house owes for a billing period. The period must be open.
func (e *Engine) IssueInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := required("house_id", inv.HouseID); err != nil {
		return err
	}
	key, err := models.ParsePeriodKey(inv.Period)
	if err != nil {
		return errs.Validation(errs.CodeInvalidArgument, "%v", err).With("field", "period")
	}
	if err := checkAmount("amount_due", inv.AmountDue); err != nil {
		return err
	}
	inv.Period = key.String()
	inv.AmountPaid = decimal.Zero
	inv.Status = models.InvoiceOpen

	start, _ := key.Bounds(e.periods.Location())
	err = e.store.WithTx(ctx, func(q storage.Queries) error {
		if err := e.periods.EnsureOpen(ctx, q, start); err != nil {
			return err
		}
		return q.InsertInvoice(ctx, inv)
	})
	if err != nil {
		return err
	}
	slog.Info("Invoice issued", "invoice_id", inv.ID, "house_id", inv.HouseID, "period", inv.Period)
	return nil
}

// GetInvoice returns an invoice by ID.
func (e *Engine) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return e.store.GetInvoice(ctx, id)
}

// RegisterHouse adds a house to the registry or updates its occupancy.
func (e *Engine) RegisterHouse(ctx context.Context, h *models.House) error {
	if err := required("id", h.ID); err != nil {
		return err
	}
	return e.store.UpsertHouse(ctx, h)
}
