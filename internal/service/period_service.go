package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/estateledger/internal/audit"
	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/metrics"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/period"
	"github.com/mmynk/estateledger/internal/storage"
	"github.com/mmynk/estateledger/pkg/api"
)

// PeriodService implements the Connect PeriodService: locking months and reading the
// audit trail.
type PeriodService struct {
	periods *period.Manager
	audit   *audit.Logger
	metrics *metrics.Metrics
}

var _ api.PeriodServiceHandler = (*PeriodService)(nil)

// NewPeriodService creates a new PeriodService. m may be nil.
func NewPeriodService(periods *period.Manager, auditLog *audit.Logger, m *metrics.Metrics) *PeriodService {
	return &PeriodService{periods: periods, audit: auditLog, metrics: m}
}

// LockPeriod closes a month and freezes its totals.
func (s *PeriodService) LockPeriod(ctx context.Context, req *connect.Request[api.LockPeriodRequest]) (*connect.Response[api.PeriodResponse], error) {
	actor, err := requireActor(ctx, "")
	if err != nil {
		return nil, err
	}
	slog.Info("LockPeriod request received", "period", req.Msg.Period, "actor_id", actor.ID)

	key, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError("LockPeriod", err)
	}
	p, err := s.periods.Lock(ctx, key, req.Msg.Notes, actor)
	if err != nil {
		return nil, toConnectError("LockPeriod", err)
	}
	s.metrics.PeriodTransition("lock")

	slog.Info("Period locked", "period", key.String(), "version", p.Snapshot.Version)
	return connect.NewResponse(&api.PeriodResponse{Period: periodToAPI(p)}), nil
}

// UnlockPeriod reopens a locked month.
func (s *PeriodService) UnlockPeriod(ctx context.Context, req *connect.Request[api.UnlockPeriodRequest]) (*connect.Response[api.UnlockPeriodResponse], error) {
	actor, err := requireActor(ctx, "")
	if err != nil {
		return nil, err
	}
	slog.Info("UnlockPeriod request received", "period", req.Msg.Period, "actor_id", actor.ID)

	key, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError("UnlockPeriod", err)
	}
	entry, err := s.periods.Unlock(ctx, key, req.Msg.Reason, actor)
	if err != nil {
		return nil, toConnectError("UnlockPeriod", err)
	}
	s.metrics.PeriodTransition("unlock")

	p, err := s.periods.Get(ctx, key)
	if err != nil {
		return nil, toConnectError("UnlockPeriod", err)
	}

	slog.Info("Period unlocked", "period", key.String(), "unlock_id", entry.ID)
	return connect.NewResponse(&api.UnlockPeriodResponse{
		Unlock: unlockToAPI(entry),
		Period: periodToAPI(p),
	}), nil
}

// GetPeriod returns the state of a month with its latest snapshot.
func (s *PeriodService) GetPeriod(ctx context.Context, req *connect.Request[api.GetPeriodRequest]) (*connect.Response[api.PeriodResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	key, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError("GetPeriod", err)
	}
	p, err := s.periods.Get(ctx, key)
	if err != nil {
		return nil, toConnectError("GetPeriod", err)
	}
	return connect.NewResponse(&api.PeriodResponse{Period: periodToAPI(p)}), nil
}

// ListSnapshots returns every snapshot version of a month.
func (s *PeriodService) ListSnapshots(ctx context.Context, req *connect.Request[api.ListSnapshotsRequest]) (*connect.Response[api.ListSnapshotsResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	key, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError("ListSnapshots", err)
	}
	snaps, err := s.periods.ListSnapshots(ctx, key)
	if err != nil {
		return nil, toConnectError("ListSnapshots", err)
	}

	out := make([]api.Snapshot, 0, len(snaps))
	for i := range snaps {
		out = append(out, snapshotToAPI(&snaps[i]))
	}
	return connect.NewResponse(&api.ListSnapshotsResponse{Snapshots: out}), nil
}

// ListUnlockLogs returns the unlock history of a month.
func (s *PeriodService) ListUnlockLogs(ctx context.Context, req *connect.Request[api.ListUnlockLogsRequest]) (*connect.Response[api.ListUnlockLogsResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	key, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError("ListUnlockLogs", err)
	}
	logs, err := s.periods.ListUnlockLogs(ctx, key)
	if err != nil {
		return nil, toConnectError("ListUnlockLogs", err)
	}

	out := make([]api.UnlockLog, 0, len(logs))
	for i := range logs {
		out = append(out, unlockToAPI(&logs[i]))
	}
	return connect.NewResponse(&api.ListUnlockLogsResponse{Unlocks: out}), nil
}

// ListAudit returns audit entries, optionally by kind and subject.
func (s *PeriodService) ListAudit(ctx context.Context, req *connect.Request[api.ListAuditRequest]) (*connect.Response[api.ListAuditResponse], error) {
	if _, err := requireActor(ctx, auth.CapLockPeriod); err != nil {
		return nil, err
	}
	entries, err := s.audit.List(ctx, storage.AuditFilter{
		Kind:    models.AuditKind(req.Msg.Kind),
		Subject: req.Msg.Subject,
	})
	if err != nil {
		return nil, toConnectError("ListAudit", err)
	}

	out := make([]api.AuditEntry, 0, len(entries))
	for i := range entries {
		out = append(out, auditToAPI(&entries[i]))
	}
	return connect.NewResponse(&api.ListAuditResponse{Entries: out}), nil
}

// VerifyAudit recomputes the audit hash chain.
func (s *PeriodService) VerifyAudit(ctx context.Context, req *connect.Request[api.VerifyAuditRequest]) (*connect.Response[api.VerifyAuditResponse], error) {
	if _, err := requireActor(ctx, auth.CapLockPeriod); err != nil {
		return nil, err
	}
	res, err := s.audit.Verify(ctx)
	if err != nil {
		return nil, toConnectError("VerifyAudit", err)
	}
	if !res.Valid {
		slog.Error("Audit chain broken", "seq", res.BrokenSeq)
	}
	return connect.NewResponse(&api.VerifyAuditResponse{
		Entries:   res.Entries,
		Valid:     res.Valid,
		BrokenSeq: res.BrokenSeq,
	}), nil
}
