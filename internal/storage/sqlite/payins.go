package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

const payInColumns = `id, house_id, account_id, amount, claimed_at, status, posting_status,
	matched_txn_id, bound_at, reversed_at, rebind_required, reject_reason, cancel_reason,
	submitted_by, submitted_at, updated_at`

// InsertPayIn persists a new pay-in claim.
func (q *queries) InsertPayIn(ctx context.Context, p *models.PayIn) error {
	// Generate ID if not set
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	if p.PostingStatus == "" {
		p.PostingStatus = models.Unposted
	}

	amount, err := minor("amount", p.Amount)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO payins (`+payInColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.HouseID, p.AccountID, amount, unixOf(p.ClaimedAt),
		string(p.Status), string(p.PostingStatus), nullString(p.MatchedTxnID),
		unixOf(p.BoundAt), unixOf(p.ReversedAt), boolInt(p.RebindRequired), p.RejectReason, p.CancelReason,
		p.SubmittedBy, unixOf(p.SubmittedAt), unixOf(p.UpdatedAt),
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeDuplicate, "pay-in %s already exists", p.ID)
	}
	if err != nil {
		return errs.Internal(err, "failed to insert pay-in")
	}
	return nil
}

// GetPayIn retrieves a pay-in by ID.
func (q *queries) GetPayIn(ctx context.Context, id string) (*models.PayIn, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+payInColumns+` FROM payins WHERE id = ?`, id)
	p, err := scanPayIn(row)
	if err != nil {
		return nil, notFound(err, "pay-in", id)
	}
	return p, nil
}

// ListPayIns retrieves pay-ins, newest submission first.
func (q *queries) ListPayIns(ctx context.Context, filter storage.PayInFilter) ([]models.PayIn, error) {
	var (
		where []string
		args  []any
	)
	if filter.HouseID != "" {
		where = append(where, "house_id = ?")
		args = append(args, filter.HouseID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + payInColumns + ` FROM payins`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY submitted_at DESC, id"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Internal(err, "failed to list pay-ins")
	}
	defer rows.Close()

	var payIns []models.PayIn
	for rows.Next() {
		p, err := scanPayIn(rows)
		if err != nil {
			return nil, errs.Internal(err, "failed to scan pay-in")
		}
		payIns = append(payIns, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate pay-ins")
	}
	return payIns, nil
}

// UpdatePayIn writes the lifecycle fields of a pay-in.
func (q *queries) UpdatePayIn(ctx context.Context, p *models.PayIn) error {
	amount, err := minor("amount", p.Amount)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`UPDATE payins SET amount = ?, claimed_at = ?, status = ?, posting_status = ?, reversed_at = ?,
		 rebind_required = ?, reject_reason = ?, cancel_reason = ?, updated_at = ? WHERE id = ?`,
		amount, unixOf(p.ClaimedAt), string(p.Status), string(p.PostingStatus),
		unixOf(p.ReversedAt), boolInt(p.RebindRequired), p.RejectReason, p.CancelReason, unixOf(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return errs.Internal(err, "failed to update pay-in %s", p.ID)
	}
	return mustAffect(res, "pay-in", p.ID)
}

// BindPayIn sets the match link only when it is currently empty.
func (q *queries) BindPayIn(ctx context.Context, payInID, txnID string, at time.Time) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE payins SET matched_txn_id = ?, bound_at = ?, rebind_required = 0, updated_at = ?
		 WHERE id = ? AND matched_txn_id IS NULL`,
		txnID, unixOf(at), unixOf(at), payInID,
	)
	if isUniqueConstraintError(err) {
		return false, nil
	}
	if err != nil {
		return false, errs.Internal(err, "failed to bind pay-in %s", payInID)
	}
	return affected(res)
}

// UnbindPayIn clears the match link. bound_at is kept so history stays legible.
func (q *queries) UnbindPayIn(ctx context.Context, payInID string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE payins SET matched_txn_id = NULL, updated_at = ? WHERE id = ?`,
		unixOf(time.Now().UTC()), payInID,
	)
	if err != nil {
		return errs.Internal(err, "failed to unbind pay-in %s", payInID)
	}
	return mustAffect(res, "pay-in", payInID)
}

func scanPayIn(s scanner) (*models.PayIn, error) {
	var (
		p                              models.PayIn
		amount                         int64
		claimedAt, boundAt, reversedAt int64
		submittedAt, updatedAt         int64
		status, postingStatus          string
		matched                        sql.NullString
		rebind                         int
	)
	if err := s.Scan(&p.ID, &p.HouseID, &p.AccountID, &amount, &claimedAt, &status, &postingStatus,
		&matched, &boundAt, &reversedAt, &rebind, &p.RejectReason, &p.CancelReason, &p.SubmittedBy, &submittedAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Amount = models.FromMinor(amount)
	p.ClaimedAt = timeOf(claimedAt)
	p.Status = models.PayInStatus(status)
	p.PostingStatus = models.PostingStatus(postingStatus)
	p.MatchedTxnID = matched.String
	p.BoundAt = timeOf(boundAt)
	p.ReversedAt = timeOf(reversedAt)
	p.RebindRequired = rebind == 1
	p.SubmittedAt = timeOf(submittedAt)
	p.UpdatedAt = timeOf(updatedAt)
	return &p, nil
}
