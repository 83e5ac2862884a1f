package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

const ledgerColumns = `id, bank_txn_id, payin_id, house_id, amount, effective_at, posted_at, posted_by,
	voided_at, voided_by, void_reason, reversal_ref`

// InsertLedgerEntry persists the income record of a posting.
func (q *queries) InsertLedgerEntry(ctx context.Context, e *models.LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.PostedAt.IsZero() {
		e.PostedAt = time.Now().UTC()
	}

	amount, err := minor("amount", e.Amount)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (`+ledgerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BankTxnID, e.PayInID, e.HouseID, amount, unixOf(e.EffectiveAt),
		unixOf(e.PostedAt), e.PostedBy, unixOf(e.VoidedAt), e.VoidedBy, e.VoidReason, e.ReversalRef,
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeAlreadyPosted, "pay-in %s already has an active ledger entry", e.PayInID)
	}
	if err != nil {
		return errs.Internal(err, "failed to insert ledger entry")
	}
	return nil
}

// GetActiveLedgerEntry returns the non-voided entry of a pay-in.
func (q *queries) GetActiveLedgerEntry(ctx context.Context, payInID string) (*models.LedgerEntry, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE payin_id = ? AND voided_at = 0`,
		payInID,
	)
	e, err := scanLedgerEntry(row)
	if err != nil {
		return nil, notFound(err, "active ledger entry for pay-in", payInID)
	}
	return e, nil
}

// ListLedgerEntries returns every entry of a pay-in, voided ones included.
func (q *queries) ListLedgerEntries(ctx context.Context, payInID string) ([]models.LedgerEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE payin_id = ? ORDER BY posted_at, rowid`,
		payInID,
	)
	if err != nil {
		return nil, errs.Internal(err, "failed to list ledger entries")
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, errs.Internal(err, "failed to scan ledger entry")
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate ledger entries")
	}
	return entries, nil
}

// VoidLedgerEntry marks an active entry as reversed.
func (q *queries) VoidLedgerEntry(ctx context.Context, e *models.LedgerEntry) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE ledger_entries SET voided_at = ?, voided_by = ?, void_reason = ?, reversal_ref = ?
		 WHERE id = ? AND voided_at = 0`,
		unixOf(e.VoidedAt), e.VoidedBy, e.VoidReason, e.ReversalRef, e.ID,
	)
	if err != nil {
		return errs.Internal(err, "failed to void ledger entry %s", e.ID)
	}
	return mustAffect(res, "active ledger entry", e.ID)
}

// InsertAllocation persists one allocation row.
func (q *queries) InsertAllocation(ctx context.Context, a *models.Allocation) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	amount, err := minor("amount", a.Amount)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO allocations (id, posting_id, bank_txn_id, invoice_id, amount, reverses_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PostingID, a.BankTxnID, a.InvoiceID, amount, nullString(a.ReversesID), unixOf(a.CreatedAt),
	)
	if err != nil {
		return errs.Internal(err, "failed to insert allocation")
	}
	return nil
}

// ListAllocations returns the rows of a posting in insertion order.
func (q *queries) ListAllocations(ctx context.Context, postingID string) ([]models.Allocation, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, posting_id, bank_txn_id, invoice_id, amount, reverses_id, created_at
		 FROM allocations WHERE posting_id = ? ORDER BY rowid`,
		postingID,
	)
	if err != nil {
		return nil, errs.Internal(err, "failed to list allocations")
	}
	defer rows.Close()

	var allocs []models.Allocation
	for rows.Next() {
		var (
			a                 models.Allocation
			amount, createdAt int64
			reverses          sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.PostingID, &a.BankTxnID, &a.InvoiceID, &amount, &reverses, &createdAt); err != nil {
			return nil, errs.Internal(err, "failed to scan allocation")
		}
		a.Amount = models.FromMinor(amount)
		a.ReversesID = reverses.String
		a.CreatedAt = timeOf(createdAt)
		allocs = append(allocs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate allocations")
	}
	return allocs, nil
}

func scanLedgerEntry(s scanner) (*models.LedgerEntry, error) {
	var (
		e                   models.LedgerEntry
		amount, effectiveAt int64
		postedAt, voidedAt  int64
	)
	if err := s.Scan(&e.ID, &e.BankTxnID, &e.PayInID, &e.HouseID, &amount, &effectiveAt, &postedAt, &e.PostedBy,
		&voidedAt, &e.VoidedBy, &e.VoidReason, &e.ReversalRef); err != nil {
		return nil, err
	}
	e.Amount = models.FromMinor(amount)
	e.EffectiveAt = timeOf(effectiveAt)
	e.PostedAt = timeOf(postedAt)
	e.VoidedAt = timeOf(voidedAt)
	return &e, nil
}
