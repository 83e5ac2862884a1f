package matcher

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/estateledger/internal/models"
)

var base = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func credit(id, amt string, at time.Time) models.BankTransaction {
	return models.BankTransaction{ID: id, AccountID: "acc-1", Credit: amount(amt), EffectiveAt: at}
}

func TestFind(t *testing.T) {
	payIn := models.PayIn{ID: "p1", HouseID: "h1", Amount: amount("1500.00"), ClaimedAt: base.Add(5 * time.Second)}

	tests := []struct {
		name           string
		txns           []models.BankTransaction
		wantCandidates []string
		wantMisses     []string
		validate       func(t *testing.T, res Result)
	}{
		{
			name:           "35 seconds apart is a perfect match",
			txns:           []models.BankTransaction{credit("t1", "1500.00", base.Add(40*time.Second))},
			wantCandidates: []string{"t1"},
			validate: func(t *testing.T, res Result) {
				c := res.Candidates[0]
				assert.Equal(t, 35*time.Second, c.TimeDiff)
				assert.True(t, c.IsPerfectMatch)
				assert.False(t, c.ExactTime)
			},
		},
		{
			name: "sorted by time difference",
			txns: []models.BankTransaction{
				credit("far", "1500", base.Add(55*time.Second)),
				credit("exact", "1500.00", base.Add(5*time.Second)),
				credit("before", "1500.00", base.Add(-10*time.Second)),
			},
			wantCandidates: []string{"exact", "before", "far"},
			validate: func(t *testing.T, res Result) {
				assert.True(t, res.Candidates[0].ExactTime)
				assert.Equal(t, 15*time.Second, res.Candidates[1].TimeDiff)
			},
		},
		{
			name: "amount must match to the minor unit",
			txns: []models.BankTransaction{
				credit("t1", "1500.01", base),
				credit("t2", "1499.99", base),
			},
		},
		{
			name: "debits are ignored",
			txns: []models.BankTransaction{
				{ID: "d1", Debit: amount("1500.00"), EffectiveAt: base},
			},
		},
		{
			name: "outside window reported as near miss",
			txns: []models.BankTransaction{
				credit("late", "1500.00", base.Add(10*time.Minute)),
				credit("later", "1500.00", base.Add(2*time.Hour)),
				credit("wrong-amount", "1400.00", base),
			},
			wantMisses: []string{"late", "later"},
			validate: func(t *testing.T, res Result) {
				assert.Equal(t, ReasonOutsideWindow, res.NearMisses[0].Reason)
				assert.Equal(t, 10*time.Minute-5*time.Second, res.NearMisses[0].TimeDiff)
			},
		},
		{
			name: "bound transaction in window is a near miss naming the holder",
			txns: []models.BankTransaction{
				{ID: "t1", Credit: amount("1500.00"), EffectiveAt: base, MatchedPayInID: "other"},
			},
			wantMisses: []string{"t1"},
			validate: func(t *testing.T, res Result) {
				assert.Equal(t, ReasonAlreadyBound, res.NearMisses[0].Reason)
				assert.Equal(t, "other", res.NearMisses[0].BoundTo)
			},
		},
		{
			name: "near misses suppressed when a candidate exists",
			txns: []models.BankTransaction{
				credit("ok", "1500.00", base),
				credit("late", "1500.00", base.Add(time.Hour)),
			},
			wantCandidates: []string{"ok"},
		},
		{
			name: "transaction bound to this pay-in is not suggested again",
			txns: []models.BankTransaction{
				{ID: "mine", Credit: amount("1500.00"), EffectiveAt: base, MatchedPayInID: "p1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Find(payIn, tt.txns, Options{})
			assert.Equal(t, tt.wantCandidates, candidateIDs(res))
			assert.Equal(t, tt.wantMisses, missIDs(res))
			if tt.validate != nil {
				tt.validate(t, res)
			}
		})
	}
}

func TestFind_AccountScope(t *testing.T) {
	payIn := models.PayIn{ID: "p1", Amount: amount("100"), ClaimedAt: base, AccountID: "acc-2"}
	txns := []models.BankTransaction{credit("t1", "100", base)}

	res := Find(payIn, txns, Options{})
	assert.Empty(t, res.Candidates)

	txns[0].AccountID = "acc-2"
	res = Find(payIn, txns, Options{})
	assert.Equal(t, []string{"t1"}, candidateIDs(res))
}

func TestFind_CustomWindowAndLimit(t *testing.T) {
	payIn := models.PayIn{ID: "p1", Amount: amount("20"), ClaimedAt: base}
	var txns []models.BankTransaction
	for i := 1; i <= 5; i++ {
		txns = append(txns, credit(fmt.Sprintf("t%d", i), "20", base.Add(time.Duration(i)*time.Minute)))
	}

	res := Find(payIn, txns, Options{Window: 2 * time.Minute})
	assert.Equal(t, []string{"t1", "t2"}, candidateIDs(res))

	res = Find(payIn, txns, Options{Window: 10 * time.Second, NearMissLimit: 3})
	require.Len(t, res.NearMisses, 3)
	assert.Equal(t, "t1", res.NearMisses[0].Txn.ID)
}

func TestFind_TiesBreakByID(t *testing.T) {
	payIn := models.PayIn{ID: "p1", Amount: amount("5"), ClaimedAt: base}
	txns := []models.BankTransaction{credit("b", "5", base), credit("a", "5", base)}

	res := Find(payIn, txns, Options{})
	assert.Equal(t, []string{"a", "b"}, candidateIDs(res))
}

func candidateIDs(res Result) []string {
	var ids []string
	for _, c := range res.Candidates {
		ids = append(ids, c.Txn.ID)
	}
	return ids
}

func missIDs(res Result) []string {
	var ids []string
	for _, m := range res.NearMisses {
		ids = append(ids, m.Txn.ID)
	}
	return ids
}
