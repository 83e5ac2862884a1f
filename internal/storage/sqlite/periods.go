package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

// GetPeriod returns the current state of a month together with its latest snapshot.
func (q *queries) GetPeriod(ctx context.Context, key models.PeriodKey) (*models.Period, error) {
	p := &models.Period{Key: key}
	var (
		status   string
		lockedAt int64
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT status, locked_by, locked_at, notes FROM periods WHERE year = ? AND month = ?`,
		key.Year, key.Month,
	).Scan(&status, &p.LockedBy, &lockedAt, &p.Notes)
	if err != nil {
		return nil, notFound(err, "period", key.String())
	}
	p.Status = models.PeriodStatus(status)
	p.LockedAt = timeOf(lockedAt)

	row := q.db.QueryRowContext(ctx,
		`SELECT id, version, data, locked_by, locked_at, notes FROM period_snapshots
		 WHERE year = ? AND month = ? ORDER BY version DESC LIMIT 1`,
		key.Year, key.Month,
	)
	snap, err := scanSnapshot(row, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, errs.Internal(err, "failed to get snapshot for %s", key)
	default:
		p.Snapshot = snap
	}
	return p, nil
}

// SavePeriod inserts or updates the lock state of a month.
func (q *queries) SavePeriod(ctx context.Context, p *models.Period) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO periods (year, month, status, locked_by, locked_at, notes) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (year, month) DO UPDATE SET
		     status = excluded.status, locked_by = excluded.locked_by,
		     locked_at = excluded.locked_at, notes = excluded.notes`,
		p.Key.Year, p.Key.Month, string(p.Status), p.LockedBy, unixOf(p.LockedAt), p.Notes,
	)
	if err != nil {
		return errs.Internal(err, "failed to save period %s", p.Key)
	}
	return nil
}

// InsertSnapshot appends the next snapshot version of a month.
func (q *queries) InsertSnapshot(ctx context.Context, s *models.Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM period_snapshots WHERE year = ? AND month = ?`,
		s.Key.Year, s.Key.Month,
	).Scan(&s.Version); err != nil {
		return errs.Internal(err, "failed to compute snapshot version")
	}

	data, err := json.Marshal(s.Data)
	if err != nil {
		return errs.Internal(err, "failed to encode snapshot")
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO period_snapshots (id, year, month, version, data, locked_by, locked_at, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Key.Year, s.Key.Month, s.Version, string(data), s.LockedBy, unixOf(s.LockedAt), s.Notes,
	)
	if err != nil {
		return errs.Internal(err, "failed to insert snapshot")
	}
	return nil
}

// ListSnapshots returns every snapshot of a month, oldest first.
func (q *queries) ListSnapshots(ctx context.Context, key models.PeriodKey) ([]models.Snapshot, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, version, data, locked_by, locked_at, notes FROM period_snapshots
		 WHERE year = ? AND month = ? ORDER BY version`,
		key.Year, key.Month,
	)
	if err != nil {
		return nil, errs.Internal(err, "failed to list snapshots")
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows, key)
		if err != nil {
			return nil, errs.Internal(err, "failed to scan snapshot")
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate snapshots")
	}
	return snaps, nil
}

// InsertUnlockLog appends an unlock audit row.
func (q *queries) InsertUnlockLog(ctx context.Context, e *models.UnlockLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.UnlockedAt.IsZero() {
		e.UnlockedAt = time.Now().UTC()
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO unlock_logs (id, year, month, unlocked_by, reason, unlocked_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Key.Year, e.Key.Month, e.UnlockedBy, e.Reason, unixOf(e.UnlockedAt),
	)
	if err != nil {
		return errs.Internal(err, "failed to insert unlock log")
	}
	return nil
}

// ListUnlockLogs returns the unlock history of a month, oldest first.
func (q *queries) ListUnlockLogs(ctx context.Context, key models.PeriodKey) ([]models.UnlockLogEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, unlocked_by, reason, unlocked_at FROM unlock_logs
		 WHERE year = ? AND month = ? ORDER BY unlocked_at, rowid`,
		key.Year, key.Month,
	)
	if err != nil {
		return nil, errs.Internal(err, "failed to list unlock logs")
	}
	defer rows.Close()

	var logs []models.UnlockLogEntry
	for rows.Next() {
		e := models.UnlockLogEntry{Key: key}
		var unlockedAt int64
		if err := rows.Scan(&e.ID, &e.UnlockedBy, &e.Reason, &unlockedAt); err != nil {
			return nil, errs.Internal(err, "failed to scan unlock log")
		}
		e.UnlockedAt = timeOf(unlockedAt)
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate unlock logs")
	}
	return logs, nil
}

// AggregatePeriod computes the snapshot totals of a month as of now.
// The AR balance covers every invoice up to and including the month.
func (q *queries) AggregatePeriod(ctx context.Context, key models.PeriodKey, start, end time.Time) (models.SnapshotData, error) {
	var (
		ar, cash, paid, pending, credits int64
		data                             models.SnapshotData
	)
	from, to := unixOf(start), unixOf(end)
	period := key.String()

	err := q.db.QueryRowContext(ctx,
		`SELECT
		     (SELECT COALESCE(SUM(amount_due - amount_paid), 0) FROM invoices WHERE period <= ?),
		     (SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		         WHERE voided_at = 0 AND effective_at >= ? AND effective_at < ?),
		     (SELECT COALESCE(SUM(amount), 0) FROM expenses
		         WHERE status = 'PAID' AND incurred_at >= ? AND incurred_at < ?),
		     (SELECT COALESCE(SUM(amount), 0) FROM expenses
		         WHERE status = 'PENDING' AND incurred_at >= ? AND incurred_at < ?),
		     (SELECT COALESCE(SUM(amount), 0) FROM credit_notes WHERE issued_at >= ? AND issued_at < ?),
		     (SELECT COUNT(*) FROM invoices WHERE period = ?),
		     (SELECT COUNT(*) FROM houses WHERE occupied = 1)`,
		period, from, to, from, to, from, to, from, to, period,
	).Scan(&ar, &cash, &paid, &pending, &credits, &data.InvoiceCount, &data.OccupiedHouses)
	if err != nil {
		return models.SnapshotData{}, errs.Internal(err, "failed to aggregate period %s", key)
	}

	data.ARBalance = models.FromMinor(ar)
	data.CashReceived = models.FromMinor(cash)
	data.ExpensesPaid = models.FromMinor(paid)
	data.ExpensesPending = models.FromMinor(pending)
	data.CreditNotes = models.FromMinor(credits)
	return data, nil
}

func scanSnapshot(s scanner, key models.PeriodKey) (*models.Snapshot, error) {
	snap := &models.Snapshot{Key: key}
	var (
		data     string
		lockedAt int64
	)
	if err := s.Scan(&snap.ID, &snap.Version, &data, &snap.LockedBy, &lockedAt, &snap.Notes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, err
	}
	snap.LockedAt = timeOf(lockedAt)
	return snap, nil
}
