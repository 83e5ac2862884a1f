package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// Bind links a bank transaction and a pay-in as the same real-world payment.
// Both links are set with compare-and-swap updates, so two operators racing to bind
// the same transaction end with exactly one binding and one ConflictError.
func (e *Engine) Bind(ctx context.Context, txnID, payInID string) error {
	if err := required("txn_id", txnID); err != nil {
		return err
	}
	if err := required("payin_id", payInID); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		txn, err := q.GetBankTransaction(ctx, txnID)
		if err != nil {
			return err
		}
		p, err := q.GetPayIn(ctx, payInID)
		if err != nil {
			return err
		}

		if txn.Bound() {
			return txnAlreadyBound(txn)
		}
		if p.Matched() {
			return errs.Conflict(errs.CodePayInAlreadyBound, "pay-in %s is already bound to transaction %s", p.ID, p.MatchedTxnID).
				With("bound_to", p.MatchedTxnID)
		}
		if !p.Bindable() {
			return errs.Conflict(errs.CodePayInNotBindable, "pay-in %s cannot be bound in status %s/%s", p.ID, p.Status, p.PostingStatus).
				With("status", string(p.Status))
		}
		if !txn.IsCredit() {
			return errs.Validation(errs.CodeNotACredit, "transaction %s is not a credit", txn.ID)
		}
		if !txn.Credit.Equal(p.Amount) {
			return errs.Validation(errs.CodeAmountMismatch, "transaction %s credit %s does not equal pay-in amount %s",
				txn.ID, models.FormatAmount(txn.Credit), models.FormatAmount(p.Amount)).
				With("credit", models.FormatAmount(txn.Credit)).
				With("amount", models.FormatAmount(p.Amount))
		}

		ok, err := q.BindTxn(ctx, txn.ID, p.ID)
		if err != nil {
			return err
		}
		if !ok {
			if current, err := q.GetBankTransaction(ctx, txn.ID); err == nil {
				return txnAlreadyBound(current)
			}
			return errs.Conflict(errs.CodeTxnAlreadyBound, "transaction %s is already bound", txn.ID)
		}
		ok, err = q.BindPayIn(ctx, p.ID, txn.ID, e.now())
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflict(errs.CodePayInAlreadyBound, "pay-in %s is already bound", p.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Bound transaction", "txn_id", txnID, "payin_id", payInID)
	return nil
}

func txnAlreadyBound(txn *models.BankTransaction) error {
	return errs.Conflict(errs.CodeTxnAlreadyBound, "transaction %s is already bound to pay-in %s", txn.ID, txn.MatchedPayInID).
		With("bound_to", txn.MatchedPayInID)
}

// Unbind clears the link of a bound transaction. A posted pay-in must be reversed first.
// Invoices and the ledger are not touched.
func (e *Engine) Unbind(ctx context.Context, txnID string) error {
	if err := required("txn_id", txnID); err != nil {
		return err
	}

	var payInID string
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		txn, err := q.GetBankTransaction(ctx, txnID)
		if err != nil {
			return err
		}
		if !txn.Bound() {
			return errs.State(errs.CodeNotBound, "transaction %s is not bound", txn.ID)
		}
		p, err := q.GetPayIn(ctx, txn.MatchedPayInID)
		if err != nil {
			return err
		}
		if p.PostingStatus == models.Posted {
			return errs.State(errs.CodeAlreadyPosted, "pay-in %s is posted; reverse the posting before unbinding", p.ID).
				With("payin_id", p.ID)
		}

		payInID = p.ID
		if err := q.UnbindTxn(ctx, txn.ID); err != nil {
			return err
		}
		return q.UnbindPayIn(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	slog.Info("Unbound transaction", "txn_id", txnID, "payin_id", payInID)
	return nil
}
