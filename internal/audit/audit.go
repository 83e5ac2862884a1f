// Package audit records privileged ledger actions in an append-only, hash-chained log.
//
// Each entry's hash covers its own fields and the previous entry's hash, so editing or
// removing any row breaks every hash after it. Entries are appended through the caller's
// transaction and commit together with the action they describe.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// Logger appends and verifies audit entries.
type Logger struct {
	store storage.Store
	now   func() time.Time
}

// New creates a Logger over store.
func New(store storage.Store) *Logger {
	return &Logger{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Append chains entry onto the log inside q. ID and At are filled in when empty.
func (l *Logger) Append(ctx context.Context, q storage.AuditLog, entry *models.AuditEntry) error {
	if entry.Kind == "" || entry.Subject == "" || entry.Actor == "" {
		return errs.Validation(errs.CodeInvalidArgument, "audit entry needs kind, subject and actor")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = l.now()
	}

	last, err := q.LastAudit(ctx)
	if err != nil {
		return err
	}
	entry.PrevHash = ""
	if last != nil {
		entry.PrevHash = last.Hash
	}
	entry.Hash = Hash(entry)

	if err := q.AppendAudit(ctx, entry); err != nil {
		return err
	}
	slog.Debug("audit entry appended", "kind", entry.Kind, "subject", entry.Subject, "actor", entry.Actor, "seq", entry.Seq)
	return nil
}

// List returns entries matching filter in append order.
func (l *Logger) List(ctx context.Context, filter storage.AuditFilter) ([]models.AuditEntry, error) {
	return l.store.ListAudit(ctx, filter)
}

// VerifyResult reports the outcome of a chain check.
type VerifyResult struct {
	Entries int
	Valid   bool
	// BrokenSeq is the sequence number of the first entry whose hash does not
	// match, zero when the chain is valid.
	BrokenSeq int64
}

// Verify recomputes the whole chain.
func (l *Logger) Verify(ctx context.Context) (VerifyResult, error) {
	entries, err := l.store.ListAudit(ctx, storage.AuditFilter{})
	if err != nil {
		return VerifyResult{}, err
	}
	return VerifyChain(entries), nil
}

// VerifyChain checks entries, which must be the full log in sequence order.
func VerifyChain(entries []models.AuditEntry) VerifyResult {
	res := VerifyResult{Entries: len(entries), Valid: true}
	prev := ""
	for i := range entries {
		e := &entries[i]
		if e.PrevHash != prev || Hash(e) != e.Hash {
			res.Valid = false
			res.BrokenSeq = e.Seq
			return res
		}
		prev = e.Hash
	}
	return res
}

// Hash computes the chain hash of an entry from its fields and PrevHash.
func Hash(e *models.AuditEntry) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		e.ID, e.Kind, e.Subject, e.Actor, e.Reason,
		strconv.FormatInt(e.At.UnixNano(), 10), e.PrevHash)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
