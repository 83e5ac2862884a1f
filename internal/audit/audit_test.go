package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
	"github.com/mmynk/estateledger/internal/storage/sqlite"
)

func newTestLogger(t *testing.T) (*Logger, *sqlite.SQLiteStore) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func TestAppendChainsEntries(t *testing.T) {
	ctx := context.Background()
	logger, store := newTestLogger(t)

	first := &models.AuditEntry{Kind: models.AuditPeriodLock, Subject: "2025-03", Actor: "admin"}
	second := &models.AuditEntry{Kind: models.AuditPeriodUnlock, Subject: "2025-03", Actor: "root", Reason: "late statement"}

	err := store.WithTx(ctx, func(q storage.Queries) error {
		if err := logger.Append(ctx, q, first); err != nil {
			return err
		}
		return logger.Append(ctx, q, second)
	})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.False(t, first.At.IsZero())
	assert.Empty(t, first.PrevHash)
	assert.Equal(t, first.Hash, second.PrevHash)
	assert.NotEqual(t, first.Hash, second.Hash)

	res, err := logger.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.Entries)
}

func TestAppendRollsBackWithCaller(t *testing.T) {
	ctx := context.Background()
	logger, store := newTestLogger(t)

	_ = store.WithTx(ctx, func(q storage.Queries) error {
		require.NoError(t, logger.Append(ctx, q, &models.AuditEntry{Kind: models.AuditPayInReject, Subject: "P1", Actor: "staff"}))
		return errs.State(errs.CodeInvalidTransition, "abort")
	})

	entries, err := logger.List(ctx, storage.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendRequiresFields(t *testing.T) {
	ctx := context.Background()
	logger, store := newTestLogger(t)

	err := logger.Append(ctx, store, &models.AuditEntry{Kind: models.AuditPayInCancel, Actor: "staff"})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	logger, store := newTestLogger(t)

	for _, e := range []*models.AuditEntry{
		{Kind: models.AuditPostingReversal, Subject: "T1", Actor: "admin", Reason: "wrong house"},
		{Kind: models.AuditPayInCancel, Subject: "P9", Actor: "staff", Reason: "duplicate"},
		{Kind: models.AuditPostingReversal, Subject: "T2", Actor: "admin", Reason: "bounced"},
	} {
		require.NoError(t, logger.Append(ctx, store, e))
	}

	reversals, err := logger.List(ctx, storage.AuditFilter{Kind: models.AuditPostingReversal})
	require.NoError(t, err)
	require.Len(t, reversals, 2)
	assert.Equal(t, "T1", reversals[0].Subject)
	assert.Equal(t, "T2", reversals[1].Subject)

	bySubject, err := logger.List(ctx, storage.AuditFilter{Subject: "P9"})
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, models.AuditPayInCancel, bySubject[0].Kind)
}

func TestVerifyChainDetectsTampering(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	build := func() []models.AuditEntry {
		var chain []models.AuditEntry
		prev := ""
		for i, subject := range []string{"2025-01", "2025-02", "2025-03"} {
			e := models.AuditEntry{ID: subject, Seq: int64(i + 1), Kind: models.AuditPeriodLock, Subject: subject, Actor: "admin", At: at, PrevHash: prev}
			e.Hash = Hash(&e)
			prev = e.Hash
			chain = append(chain, e)
		}
		return chain
	}

	tests := []struct {
		name       string
		tamper     func([]models.AuditEntry) []models.AuditEntry
		wantValid  bool
		wantBroken int64
	}{
		{
			name:      "untouched",
			tamper:    func(c []models.AuditEntry) []models.AuditEntry { return c },
			wantValid: true,
		},
		{
			name: "edited reason",
			tamper: func(c []models.AuditEntry) []models.AuditEntry {
				c[1].Reason = "rewritten"
				return c
			},
			wantBroken: 2,
		},
		{
			name: "removed entry",
			tamper: func(c []models.AuditEntry) []models.AuditEntry {
				return append(c[:1], c[2:]...)
			},
			wantBroken: 3,
		},
		{
			name:      "empty log",
			tamper:    func([]models.AuditEntry) []models.AuditEntry { return nil },
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := VerifyChain(tt.tamper(build()))
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantBroken, res.BrokenSeq)
		})
	}
}
