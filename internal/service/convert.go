package service

import (
	"github.com/mmynk/estateledger/internal/matcher"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/pkg/api"
)

func payInToAPI(p *models.PayIn) api.PayIn {
	return api.PayIn{
		ID:             p.ID,
		HouseID:        p.HouseID,
		AccountID:      p.AccountID,
		Amount:         models.FormatAmount(p.Amount),
		ClaimedAt:      p.ClaimedAt,
		Status:         string(p.Status),
		PostingStatus:  string(p.PostingStatus),
		MatchedTxnID:   p.MatchedTxnID,
		BoundAt:        p.BoundAt,
		ReversedAt:     p.ReversedAt,
		RebindRequired: p.RebindRequired,
		RejectReason:   p.RejectReason,
		CancelReason:   p.CancelReason,
		SubmittedBy:    p.SubmittedBy,
		SubmittedAt:    p.SubmittedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func txnToAPI(t *models.BankTransaction) api.BankTransaction {
	return api.BankTransaction{
		ID:             t.ID,
		AccountID:      t.AccountID,
		ImportBatch:    t.ImportBatch,
		EffectiveAt:    t.EffectiveAt,
		Debit:          models.FormatAmount(t.Debit),
		Credit:         models.FormatAmount(t.Credit),
		Balance:        models.FormatAmount(t.Balance),
		Description:    t.Description,
		Channel:        t.Channel,
		MatchedPayInID: t.MatchedPayInID,
		Posted:         t.Posted,
		ImportedAt:     t.ImportedAt,
	}
}

func entryToAPI(e *models.LedgerEntry) api.LedgerEntry {
	return api.LedgerEntry{
		ID:          e.ID,
		BankTxnID:   e.BankTxnID,
		PayInID:     e.PayInID,
		HouseID:     e.HouseID,
		Amount:      models.FormatAmount(e.Amount),
		EffectiveAt: e.EffectiveAt,
		PostedAt:    e.PostedAt,
		PostedBy:    e.PostedBy,
		VoidedAt:    e.VoidedAt,
		VoidedBy:    e.VoidedBy,
		VoidReason:  e.VoidReason,
		ReversalRef: e.ReversalRef,
	}
}

func allocationsToAPI(allocs []models.Allocation) []api.Allocation {
	out := make([]api.Allocation, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, api.Allocation{
			ID:         a.ID,
			PostingID:  a.PostingID,
			BankTxnID:  a.BankTxnID,
			InvoiceID:  a.InvoiceID,
			Amount:     models.FormatAmount(a.Amount),
			ReversesID: a.ReversesID,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}

func invoiceToAPI(inv *models.Invoice) api.Invoice {
	return api.Invoice{
		ID:         inv.ID,
		HouseID:    inv.HouseID,
		Period:     inv.Period,
		AmountDue:  models.FormatAmount(inv.AmountDue),
		AmountPaid: models.FormatAmount(inv.AmountPaid),
		Status:     string(inv.Status),
		IssuedAt:   inv.IssuedAt,
	}
}

func matchResultToAPI(res matcher.Result) ([]api.Candidate, []api.NearMiss) {
	candidates := make([]api.Candidate, 0, len(res.Candidates))
	for i := range res.Candidates {
		c := &res.Candidates[i]
		candidates = append(candidates, api.Candidate{
			Txn:            txnToAPI(&c.Txn),
			TimeDiffSecs:   int64(c.TimeDiff.Seconds()),
			TimeDiffMillis: c.TimeDiff.Milliseconds(),
			IsPerfectMatch: c.IsPerfectMatch,
			ExactTime:      c.ExactTime,
		})
	}
	var nearMisses []api.NearMiss
	for i := range res.NearMisses {
		n := &res.NearMisses[i]
		nearMisses = append(nearMisses, api.NearMiss{
			Txn:            txnToAPI(&n.Txn),
			TimeDiffSecs:   int64(n.TimeDiff.Seconds()),
			TimeDiffMillis: n.TimeDiff.Milliseconds(),
			Reason:         n.Reason,
			BoundTo:        n.BoundTo,
		})
	}
	return candidates, nearMisses
}

func snapshotToAPI(s *models.Snapshot) api.Snapshot {
	return api.Snapshot{
		ID:              s.ID,
		Period:          s.Key.String(),
		Version:         s.Version,
		LockedBy:        s.LockedBy,
		LockedAt:        s.LockedAt,
		Notes:           s.Notes,
		ARBalance:       models.FormatAmount(s.Data.ARBalance),
		CashReceived:    models.FormatAmount(s.Data.CashReceived),
		ExpensesPaid:    models.FormatAmount(s.Data.ExpensesPaid),
		ExpensesPending: models.FormatAmount(s.Data.ExpensesPending),
		CreditNotes:     models.FormatAmount(s.Data.CreditNotes),
		InvoiceCount:    s.Data.InvoiceCount,
		OccupiedHouses:  s.Data.OccupiedHouses,
		ComputedAt:      s.Data.ComputedAt,
	}
}

func periodToAPI(p *models.Period) api.Period {
	out := api.Period{
		Period:   p.Key.String(),
		Status:   string(p.Status),
		LockedBy: p.LockedBy,
		LockedAt: p.LockedAt,
		Notes:    p.Notes,
	}
	if p.Snapshot != nil {
		snap := snapshotToAPI(p.Snapshot)
		out.Snapshot = &snap
	}
	return out
}

func unlockToAPI(e *models.UnlockLogEntry) api.UnlockLog {
	return api.UnlockLog{
		ID:         e.ID,
		Period:     e.Key.String(),
		UnlockedBy: e.UnlockedBy,
		Reason:     e.Reason,
		UnlockedAt: e.UnlockedAt,
	}
}

func auditToAPI(e *models.AuditEntry) api.AuditEntry {
	return api.AuditEntry{
		ID:       e.ID,
		Seq:      e.Seq,
		Kind:     string(e.Kind),
		Subject:  e.Subject,
		Actor:    e.Actor,
		Reason:   e.Reason,
		At:       e.At,
		PrevHash: e.PrevHash,
		Hash:     e.Hash,
	}
}

func expenseToAPI(e *models.Expense) api.Expense {
	return api.Expense{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      models.FormatAmount(e.Amount),
		IncurredAt:  e.IncurredAt,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func creditNoteToAPI(c *models.CreditNote) api.CreditNote {
	return api.CreditNote{
		ID:       c.ID,
		HouseID:  c.HouseID,
		Amount:   models.FormatAmount(c.Amount),
		IssuedAt: c.IssuedAt,
		Reason:   c.Reason,
	}
}
