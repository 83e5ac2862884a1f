package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/estateledger/internal/allocation"
	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// PostStatus tags the successful outcomes of ConfirmAndPost. Ambiguous and blocked
// outcomes are returned as coded errors.
type PostStatus string

const (
	StatusPosted        PostStatus = "posted"
	StatusAlreadyPosted PostStatus = "already_posted"
)

// PostResult describes the posting of a bound transaction.
type PostResult struct {
	Status      PostStatus
	PayIn       models.PayIn
	Entry       models.LedgerEntry
	Allocations []models.Allocation
}

// ConfirmAndPost records the payment bound to txnID in the ledger and allocates it to the
// house's open invoices, oldest first.
//
// Posting is idempotent: if the pay-in is already posted the existing entry and
// allocations are returned with StatusAlreadyPosted and nothing is written. The
// idempotency check runs in the same transaction as the writes, so concurrent duplicate
// calls produce exactly one ledger entry.
func (e *Engine) ConfirmAndPost(ctx context.Context, txnID string, actor auth.Actor) (*PostResult, error) {
	if err := required("txn_id", txnID); err != nil {
		return nil, err
	}

	var res *PostResult
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		txn, err := q.GetBankTransaction(ctx, txnID)
		if err != nil {
			return err
		}
		if !txn.Bound() {
			return errs.State(errs.CodeNotMatched, "transaction %s is not bound to a pay-in", txn.ID)
		}
		p, err := q.GetPayIn(ctx, txn.MatchedPayInID)
		if err != nil {
			return err
		}

		if p.PostingStatus == models.Posted {
			res, err = existingPosting(ctx, q, p)
			return err
		}
		if !p.BoundSinceReversal() {
			return errs.State(errs.CodeRebindRequired,
				"pay-in %s was reversed; unbind and bind again before re-posting", p.ID).With("payin_id", p.ID)
		}
		if !postable(p) {
			return errs.State(errs.CodePayInNotPostable, "pay-in %s cannot be posted in status %s", p.ID, p.Status).
				With("status", string(p.Status))
		}
		if err := e.periods.EnsureOpen(ctx, q, txn.EffectiveAt); err != nil {
			return err
		}

		invoices, err := q.ListOpenInvoices(ctx, p.HouseID)
		if err != nil {
			return err
		}
		plan, err := allocation.Allocate(txn.Credit, invoices)
		if err != nil {
			if ae, ok := errs.As(err); ok && ae.Kind == errs.KindAmbiguous {
				return ae.With("house_id", p.HouseID)
			}
			return err
		}

		now := e.now()
		entry := &models.LedgerEntry{
			BankTxnID:   txn.ID,
			PayInID:     p.ID,
			HouseID:     p.HouseID,
			Amount:      txn.Credit,
			EffectiveAt: txn.EffectiveAt,
			PostedAt:    now,
			PostedBy:    actor.ID,
		}
		if err := q.InsertLedgerEntry(ctx, entry); err != nil {
			return err
		}

		byID := make(map[string]*models.Invoice, len(invoices))
		for i := range invoices {
			byID[invoices[i].ID] = &invoices[i]
		}
		allocs := make([]models.Allocation, 0, len(plan.Lines))
		for _, line := range plan.Lines {
			a := &models.Allocation{
				PostingID: entry.ID,
				BankTxnID: txn.ID,
				InvoiceID: line.InvoiceID,
				Amount:    line.Amount,
				CreatedAt: now,
			}
			if err := q.InsertAllocation(ctx, a); err != nil {
				return err
			}
			inv := byID[line.InvoiceID]
			if err := inv.ApplyPayment(line.Amount); err != nil {
				return errs.Internal(err, "failed to apply allocation to invoice %s", inv.ID)
			}
			if err := q.UpdateInvoicePayment(ctx, inv); err != nil {
				return err
			}
			allocs = append(allocs, *a)
		}

		p.Status = models.PayInAccepted
		p.PostingStatus = models.Posted
		p.RebindRequired = false
		if err := q.UpdatePayIn(ctx, p); err != nil {
			return err
		}
		if err := q.SetTxnPosted(ctx, txn.ID, true); err != nil {
			return err
		}

		res = &PostResult{Status: StatusPosted, PayIn: *p, Entry: *entry, Allocations: allocs}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Posting confirmed",
		"txn_id", txnID,
		"payin_id", res.PayIn.ID,
		"ledger_id", res.Entry.ID,
		"status", res.Status,
		"allocations", len(res.Allocations),
	)
	return res, nil
}

// postable reports whether a bound pay-in may be posted now.
func postable(p *models.PayIn) bool {
	switch p.Status {
	case models.PayInSubmitted, models.PayInPending:
		return true
	case models.PayInAccepted:
		return p.PostingStatus == models.Reversed
	}
	return false
}

func existingPosting(ctx context.Context, q storage.Queries, p *models.PayIn) (*PostResult, error) {
	entry, err := q.GetActiveLedgerEntry(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	allocs, err := q.ListAllocations(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	return &PostResult{Status: StatusAlreadyPosted, PayIn: *p, Entry: *entry, Allocations: allocs}, nil
}

// GetPosting returns the active posting of a pay-in, or NotFound when it is not posted.
func (e *Engine) GetPosting(ctx context.Context, payInID string) (*PostResult, error) {
	p, err := e.store.GetPayIn(ctx, payInID)
	if err != nil {
		return nil, err
	}
	if p.PostingStatus != models.Posted {
		return nil, errs.NotFound("pay-in %s has no active posting", p.ID)
	}
	res, err := existingPosting(ctx, e.store, p)
	if err != nil {
		return nil, err
	}
	res.Status = StatusPosted
	return res, nil
}

// Posting is one ledger entry of a pay-in together with every allocation row written
// against it. A reversed posting carries its original rows and their compensations.
type Posting struct {
	Entry       models.LedgerEntry
	Allocations []models.Allocation
}

// ListPostings returns the posting history of a pay-in, voided entries included,
// oldest first. A pay-in that was never posted has an empty history.
func (e *Engine) ListPostings(ctx context.Context, payInID string) (*models.PayIn, []Posting, error) {
	p, err := e.store.GetPayIn(ctx, payInID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := e.store.ListLedgerEntries(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	postings := make([]Posting, 0, len(entries))
	for _, entry := range entries {
		allocs, err := e.store.ListAllocations(ctx, entry.ID)
		if err != nil {
			return nil, nil, err
		}
		postings = append(postings, Posting{Entry: entry, Allocations: allocs})
	}
	return p, postings, nil
}
