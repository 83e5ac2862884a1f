// Package period freezes accounting months and guards them against further financial edits.
//
// A month moves DRAFT -> LOCKED -> DRAFT -> ... Each lock appends a new versioned snapshot;
// each unlock appends an UnlockLogEntry and an audit entry. Nothing in the history is
// rewritten. EnsureOpen is the single check every dated financial mutation goes through.
package period

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmynk/estateledger/internal/audit"
	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// MinUnlockReason is the minimum unlock reason length, in characters.
const MinUnlockReason = 10

// Manager locks and unlocks accounting periods.
type Manager struct {
	store storage.Store
	audit *audit.Logger
	loc   *time.Location
	now   func() time.Time
}

// NewManager creates a Manager. Period boundaries are computed in loc.
func NewManager(store storage.Store, auditLog *audit.Logger, loc *time.Location) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{
		store: store,
		audit: auditLog,
		loc:   loc,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Location returns the accounting timezone.
func (m *Manager) Location() *time.Location {
	return m.loc
}

// Lock freezes a month and records a snapshot of its totals as of now.
func (m *Manager) Lock(ctx context.Context, key models.PeriodKey, notes string, actor auth.Actor) (*models.Period, error) {
	if err := actor.Require(auth.CapLockPeriod); err != nil {
		return nil, err
	}
	if !key.Valid() {
		return nil, errs.Validation(errs.CodeInvalidArgument, "invalid period %04d-%02d", key.Year, key.Month)
	}

	var locked *models.Period
	err := m.store.WithTx(ctx, func(q storage.Queries) error {
		current, err := q.GetPeriod(ctx, key)
		switch {
		case errs.KindOf(err) == errs.KindNotFound:
		case err != nil:
			return err
		case current.Status == models.PeriodLocked:
			return errs.Conflict(errs.CodePeriodAlreadyLocked, "period %s is already locked by %s", key, current.LockedBy).
				With("period", key.String()).
				With("locked_by", current.LockedBy)
		}

		at := m.now()
		start, end := key.Bounds(m.loc)
		data, err := q.AggregatePeriod(ctx, key, start, end)
		if err != nil {
			return err
		}
		data.ComputedAt = at

		snap := &models.Snapshot{Key: key, LockedBy: actor.ID, LockedAt: at, Notes: notes, Data: data}
		if err := q.InsertSnapshot(ctx, snap); err != nil {
			return err
		}

		locked = &models.Period{
			Key:      key,
			Status:   models.PeriodLocked,
			LockedBy: actor.ID,
			LockedAt: at,
			Notes:    notes,
			Snapshot: snap,
		}
		if err := q.SavePeriod(ctx, locked); err != nil {
			return err
		}
		return m.audit.Append(ctx, q, &models.AuditEntry{
			Kind:    models.AuditPeriodLock,
			Subject: key.String(),
			Actor:   actor.ID,
			Reason:  notes,
			At:      at,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Period locked", "period", key.String(), "actor", actor.ID, "snapshot_version", locked.Snapshot.Version)
	return locked, nil
}

// Unlock reopens a locked month. Only actors holding UNLOCK_PERIOD may do so, and only
// with a reason of at least MinUnlockReason characters.
func (m *Manager) Unlock(ctx context.Context, key models.PeriodKey, reason string, actor auth.Actor) (*models.UnlockLogEntry, error) {
	if err := actor.Require(auth.CapUnlockPeriod); err != nil {
		return nil, err
	}
	if !key.Valid() {
		return nil, errs.Validation(errs.CodeInvalidArgument, "invalid period %04d-%02d", key.Year, key.Month)
	}
	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < MinUnlockReason {
		return nil, errs.Validation(errs.CodeReasonTooShort,
			"unlock reason must be at least %d characters, got %d", MinUnlockReason, n)
	}

	var entry *models.UnlockLogEntry
	err := m.store.WithTx(ctx, func(q storage.Queries) error {
		current, err := q.GetPeriod(ctx, key)
		if errs.KindOf(err) == errs.KindNotFound || (err == nil && current.Status != models.PeriodLocked) {
			return errs.State(errs.CodePeriodNotLocked, "period %s is not locked", key).With("period", key.String())
		}
		if err != nil {
			return err
		}

		at := m.now()
		entry = &models.UnlockLogEntry{Key: key, UnlockedBy: actor.ID, Reason: reason, UnlockedAt: at}
		if err := q.InsertUnlockLog(ctx, entry); err != nil {
			return err
		}

		// Lock metadata stays on the row so the current state still names the last locker.
		current.Status = models.PeriodDraft
		if err := q.SavePeriod(ctx, current); err != nil {
			return err
		}
		return m.audit.Append(ctx, q, &models.AuditEntry{
			Kind:    models.AuditPeriodUnlock,
			Subject: key.String(),
			Actor:   actor.ID,
			Reason:  reason,
			At:      at,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Period unlocked", "period", key.String(), "actor", actor.ID)
	return entry, nil
}

// Get returns a month's status and latest snapshot. A month never locked is DRAFT.
func (m *Manager) Get(ctx context.Context, key models.PeriodKey) (*models.Period, error) {
	if !key.Valid() {
		return nil, errs.Validation(errs.CodeInvalidArgument, "invalid period %04d-%02d", key.Year, key.Month)
	}
	p, err := m.store.GetPeriod(ctx, key)
	if errs.KindOf(err) == errs.KindNotFound {
		return &models.Period{Key: key, Status: models.PeriodDraft}, nil
	}
	return p, err
}

// ListSnapshots returns every snapshot taken for a month, oldest first.
func (m *Manager) ListSnapshots(ctx context.Context, key models.PeriodKey) ([]models.Snapshot, error) {
	if !key.Valid() {
		return nil, errs.Validation(errs.CodeInvalidArgument, "invalid period %04d-%02d", key.Year, key.Month)
	}
	return m.store.ListSnapshots(ctx, key)
}

// ListUnlockLogs returns a month's unlock history, oldest first.
func (m *Manager) ListUnlockLogs(ctx context.Context, key models.PeriodKey) ([]models.UnlockLogEntry, error) {
	if !key.Valid() {
		return nil, errs.Validation(errs.CodeInvalidArgument, "invalid period %04d-%02d", key.Year, key.Month)
	}
	return m.store.ListUnlockLogs(ctx, key)
}

// EnsureOpen fails with PERIOD_LOCKED when the month containing at is locked.
// It reads through q so the check shares the caller's transaction.
func (m *Manager) EnsureOpen(ctx context.Context, q storage.Periods, at time.Time) error {
	key := models.PeriodOf(at, m.loc)
	p, err := q.GetPeriod(ctx, key)
	if errs.KindOf(err) == errs.KindNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if p.Status == models.PeriodLocked {
		return errs.State(errs.CodePeriodLocked, "period %s is locked by %s", key, p.LockedBy).
			With("period", key.String())
	}
	return nil
}
