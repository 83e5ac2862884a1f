package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

func TestPostAllocatesOldestFirst(t *testing.T) {
	f := newFixture(t)
	newer := f.invoice("H1", "2025-03", "700.00")
	older := f.invoice("H1", "2025-02", "800.00")
	other := f.invoice("H2", "2025-01", "100.00")
	p := f.bound("T1", "H1", "1500.00")

	res, err := f.engine.ConfirmAndPost(f.ctx, "T1", staff)
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, res.Status)

	require.Len(t, res.Allocations, 2)
	assert.Equal(t, older.ID, res.Allocations[0].InvoiceID)
	assert.True(t, res.Allocations[0].Amount.Equal(d("800.00")))
	assert.Equal(t, newer.ID, res.Allocations[1].InvoiceID)
	assert.True(t, res.Allocations[1].Amount.Equal(d("700.00")))

	sum := res.Allocations[0].Amount.Add(res.Allocations[1].Amount)
	assert.True(t, sum.Equal(res.Entry.Amount), "allocations must sum to the posted amount")

	for _, inv := range []*models.Invoice{older, newer} {
		got := f.reload(inv)
		assert.Equal(t, models.InvoicePaid, got.Status)
		assert.True(t, got.AmountPaid.Equal(got.AmountDue))
	}
	assert.Equal(t, models.InvoiceOpen, f.reload(other).Status, "other houses are untouched")

	gotPayIn, err := f.store.GetPayIn(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayInAccepted, gotPayIn.Status)
	assert.Equal(t, models.Posted, gotPayIn.PostingStatus)

	txn, err := f.store.GetBankTransaction(f.ctx, "T1")
	require.NoError(t, err)
	assert.True(t, txn.Posted)

	assert.Equal(t, "T1", res.Entry.BankTxnID)
	assert.Equal(t, staff.ID, res.Entry.PostedBy)
	assert.True(t, res.Entry.EffectiveAt.Equal(bankAt))
}

func TestPostPartialLastInvoice(t *testing.T) {
	f := newFixture(t)
	older := f.invoice("H1", "2025-01", "800.00")
	newer := f.invoice("H1", "2025-02", "700.00")
	f.bound("T1", "H1", "1000.00")

	res, err := f.engine.ConfirmAndPost(f.ctx, "T1", staff)
	require.NoError(t, err)
	require.Len(t, res.Allocations, 2)

	assert.Equal(t, models.InvoicePaid, f.reload(older).Status)
	got := f.reload(newer)
	assert.Equal(t, models.InvoicePartial, got.Status)
	assert.True(t, got.AmountPaid.Equal(d("200.00")))
}

func TestPostIdempotent(t *testing.T) {
	f := newFixture(t)
	f.invoice("H1", "2025-02", "800.00")
	f.invoice("H1", "2025-03", "700.00")
	p := f.bound("T1", "H1", "1500.00")

	first, err := f.engine.ConfirmAndPost(f.ctx, "T1", staff)
	require.NoError(t, err)
	second, err := f.engine.ConfirmAndPost(f.ctx, "T1", admin)
	require.NoError(t, err)

	assert.Equal(t, StatusPosted, first.Status)
	assert.Equal(t, StatusAlreadyPosted, second.Status)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)
	assert.Equal(t, staff.ID, second.Entry.PostedBy)
	require.Len(t, second.Allocations, len(first.Allocations))
	for i := range first.Allocations {
		assert.Equal(t, first.Allocations[i].ID, second.Allocations[i].ID)
		assert.True(t, first.Allocations[i].Amount.Equal(second.Allocations[i].Amount))
	}

	entries, err := f.store.ListLedgerEntries(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	posting, err := f.engine.GetPosting(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Entry.ID, posting.Entry.ID)
}

func TestConcurrentDuplicatePost(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice("H1", "2025-03", "1500.00")
	p := f.bound("T1", "H1", "1500.00")

	const clicks = 8
	results := make([]*PostResult, clicks)
	failures := make([]error, clicks)
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], failures[i] = f.engine.ConfirmAndPost(f.ctx, "T1", staff)
		}(i)
	}
	wg.Wait()

	posted := 0
	for i := range results {
		require.NoError(t, failures[i])
		if results[i].Status == StatusPosted {
			posted++
		}
		assert.Equal(t, results[0].Entry.ID, results[i].Entry.ID)
	}
	assert.Equal(t, 1, posted)

	entries, err := f.store.ListLedgerEntries(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	allocs, err := f.store.ListAllocations(f.ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Len(t, allocs, 1)
	assert.True(t, f.reload(inv).AmountPaid.Equal(d("1500.00")))
}

func TestPostAmbiguous(t *testing.T) {
	f := newFixture(t)
	a := f.invoice("H1", "2025-02", "800.00")
	b := f.invoice("H1", "2025-03", "700.00")
	p := f.bound("T1", "H1", "2000.00")

	res, err := f.engine.ConfirmAndPost(f.ctx, "T1", staff)
	assert.Nil(t, res)
	assertCode(t, err, errs.CodeAmbiguous)
	assert.Equal(t, errs.KindAmbiguous, errs.KindOf(err))

	e, _ := errs.As(err)
	assert.Equal(t, "500.00", e.Fields["excess"])
	assert.Equal(t, "1500.00", e.Fields["outstanding"])
	assert.Equal(t, "H1", e.Fields["house_id"])
	assert.NotEmpty(t, e.Fields["hint"])

	for _, inv := range []*models.Invoice{a, b} {
		got := f.reload(inv)
		assert.True(t, got.AmountPaid.IsZero())
		assert.Equal(t, models.InvoiceOpen, got.Status)
	}
	entries, err := f.store.ListLedgerEntries(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	gotPayIn, err := f.store.GetPayIn(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayInSubmitted, gotPayIn.Status)
	assert.Equal(t, models.Unposted, gotPayIn.PostingStatus)
	assert.True(t, gotPayIn.Matched(), "binding survives an ambiguous posting")
}

func TestPostNoOpenInvoices(t *testing.T) {
	f := newFixture(t)
	f.bound("T1", "H1", "50.00")

	_, err := f.engine.ConfirmAndPost(f.ctx, "T1", staff)
	assertCode(t, err, errs.CodeAmbiguous)
	e, _ := errs.As(err)
	assert.Equal(t, "50.00", e.Fields["excess"])
}

func TestPostUnbound(t *testing.T) {
	f := newFixture(t)
	f.credit("T1", "1500.00", bankAt)

	_, err := f.engine.ConfirmAndPost(f.ctx, "T1", staff)
	assertCode(t, err, errs.CodeNotMatched)

	_, err = f.engine.ConfirmAndPost(f.ctx, "missing", staff)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
