package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

const auditColumns = `seq, id, kind, subject, actor, reason, at, prev_hash, hash`

// AppendAudit appends an entry and fills in its sequence number.
// The caller computes the hash chain.
func (q *queries) AppendAudit(ctx context.Context, e *models.AuditEntry) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, kind, subject, actor, reason, at, prev_hash, hash) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Subject, e.Actor, e.Reason, unixOf(e.At), e.PrevHash, e.Hash,
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeDuplicate, "audit entry %s already exists", e.ID)
	}
	if err != nil {
		return errs.Internal(err, "failed to append audit entry")
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return errs.Internal(err, "failed to read audit sequence")
	}
	e.Seq = seq
	return nil
}

// LastAudit returns the newest entry, or nil when the log is empty.
func (q *queries) LastAudit(ctx context.Context) (*models.AuditEntry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM audit_log ORDER BY seq DESC LIMIT 1`)
	e, err := scanAudit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to read last audit entry")
	}
	return e, nil
}

// ListAudit returns matching entries in sequence order.
func (q *queries) ListAudit(ctx context.Context, filter storage.AuditFilter) ([]models.AuditEntry, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, filter.Subject)
	}
	query := `SELECT ` + auditColumns + ` FROM audit_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Internal(err, "failed to list audit log")
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, errs.Internal(err, "failed to scan audit entry")
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate audit log")
	}
	return entries, nil
}

func scanAudit(s scanner) (*models.AuditEntry, error) {
	var (
		e    models.AuditEntry
		kind string
		at   int64
	)
	if err := s.Scan(&e.Seq, &e.ID, &kind, &e.Subject, &e.Actor, &e.Reason, &at, &e.PrevHash, &e.Hash); err != nil {
		return nil, err
	}
	e.Kind = models.AuditKind(kind)
	e.At = timeOf(at)
	return &e, nil
}
