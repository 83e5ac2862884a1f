package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// ReverseResult describes an undone posting.
type ReverseResult struct {
	PayIn         models.PayIn
	Entry         models.LedgerEntry
	Compensations []models.Allocation
	Message       string
}

// Reverse undoes the financial effect of the posting of txnID. Each allocation gets a
// compensating row with the negated amount, invoice balances return to their
// pre-posting values, and the ledger entry is voided. Nothing is deleted.
// The transaction and pay-in stay linked; re-posting needs an unbind and a fresh bind.
func (e *Engine) Reverse(ctx context.Context, txnID, reason string, actor auth.Actor) (*ReverseResult, error) {
	if err := actor.Require(auth.CapReversePosting); err != nil {
		return nil, err
	}
	if err := required("txn_id", txnID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation(errs.CodeReasonRequired, "a reason is required to reverse a posting")
	}

	var res *ReverseResult
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		txn, err := q.GetBankTransaction(ctx, txnID)
		if err != nil {
			return err
		}
		if !txn.Bound() {
			return errs.State(errs.CodeNotPosted, "transaction %s has no posting", txn.ID)
		}
		p, err := q.GetPayIn(ctx, txn.MatchedPayInID)
		if err != nil {
			return err
		}
		if p.PostingStatus != models.Posted {
			return errs.State(errs.CodeNotPosted, "pay-in %s is not posted (%s)", p.ID, p.PostingStatus).
				With("posting_status", string(p.PostingStatus))
		}

		entry, err := q.GetActiveLedgerEntry(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := e.periods.EnsureOpen(ctx, q, entry.EffectiveAt); err != nil {
			return err
		}

		allocs, err := q.ListAllocations(ctx, entry.ID)
		if err != nil {
			return err
		}
		now := e.now()
		ref := uuid.New().String()
		var comps []models.Allocation
		for _, a := range allocs {
			if a.Compensating() {
				continue
			}
			comp := &models.Allocation{
				PostingID:  entry.ID,
				BankTxnID:  a.BankTxnID,
				InvoiceID:  a.InvoiceID,
				Amount:     a.Amount.Neg(),
				ReversesID: a.ID,
				CreatedAt:  now,
			}
			if err := q.InsertAllocation(ctx, comp); err != nil {
				return err
			}
			inv, err := q.GetInvoice(ctx, a.InvoiceID)
			if err != nil {
				return err
			}
			if err := inv.ApplyPayment(comp.Amount); err != nil {
				return errs.Internal(err, "failed to reverse allocation on invoice %s", inv.ID)
			}
			if err := q.UpdateInvoicePayment(ctx, inv); err != nil {
				return err
			}
			comps = append(comps, *comp)
		}

		entry.VoidedAt = now
		entry.VoidedBy = actor.ID
		entry.VoidReason = reason
		entry.ReversalRef = ref
		if err := q.VoidLedgerEntry(ctx, entry); err != nil {
			return err
		}

		p.PostingStatus = models.Reversed
		p.ReversedAt = now
		p.RebindRequired = true
		if err := q.UpdatePayIn(ctx, p); err != nil {
			return err
		}
		if err := q.SetTxnPosted(ctx, txn.ID, false); err != nil {
			return err
		}

		if err := e.audit.Append(ctx, q, &models.AuditEntry{
			ID:      ref,
			Kind:    models.AuditPostingReversal,
			Subject: txn.ID,
			Actor:   actor.ID,
			Reason:  reason,
			At:      now,
		}); err != nil {
			return err
		}

		res = &ReverseResult{
			PayIn:         *p,
			Entry:         *entry,
			Compensations: comps,
			Message: fmt.Sprintf("posting of %s for house %s reversed; unbind and bind again to re-post",
				models.FormatAmount(entry.Amount), p.HouseID),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Posting reversed", "txn_id", txnID, "payin_id", res.PayIn.ID, "ledger_id", res.Entry.ID, "actor", actor.ID)
	return res, nil
}
