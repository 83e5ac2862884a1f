// Package matcher ranks bank transactions that could be the real-world payment behind
// a resident's pay-in claim.
//
// Matching is guidance for an operator and never binds anything itself. The amount
// must match to the minor unit; the only tolerance is the time window between the
// claimed time and the bank's effective time.
package matcher

import (
	"sort"
	"time"

	"github.com/mmynk/estateledger/internal/models"
)

// DefaultWindow is the largest claimed-versus-effective time difference accepted.
const DefaultWindow = 60 * time.Second

// DefaultNearMissLimit caps the diagnostics returned when nothing matches.
const DefaultNearMissLimit = 10

// Near-miss reasons.
const (
	ReasonOutsideWindow = "OUTSIDE_WINDOW"
	ReasonAlreadyBound  = "ALREADY_BOUND"
)

// Options tunes the finder.
type Options struct {
	Window        time.Duration
	NearMissLimit int
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.NearMissLimit <= 0 {
		o.NearMissLimit = DefaultNearMissLimit
	}
	return o
}

// Candidate is an unbound bank transaction that may be bound to the pay-in.
type Candidate struct {
	Txn      models.BankTransaction
	TimeDiff time.Duration

	// IsPerfectMatch is true when the amount matches exactly inside the window.
	IsPerfectMatch bool

	// ExactTime is true when the bank time equals the claimed time.
	ExactTime bool
}

// NearMiss is an exact-amount transaction that was not offered as a candidate.
type NearMiss struct {
	Txn      models.BankTransaction
	TimeDiff time.Duration
	Reason   string

	// BoundTo is the pay-in already holding the transaction, for ALREADY_BOUND.
	BoundTo string
}

// Result is the ranked output of Find.
type Result struct {
	Candidates []Candidate
	NearMisses []NearMiss
}

// Find ranks txns against the pay-in. txns may include rows of any amount or binding
// state; only credits equal to the pay-in amount are considered. Near misses are only
// reported when no candidate survives.
func Find(payIn models.PayIn, txns []models.BankTransaction, opts Options) Result {
	opts = opts.withDefaults()

	var res Result
	var misses []NearMiss
	for _, txn := range txns {
		if !txn.IsCredit() || !txn.Credit.Equal(payIn.Amount) {
			continue
		}
		if payIn.AccountID != "" && txn.AccountID != payIn.AccountID {
			continue
		}
		diff := absDuration(txn.EffectiveAt.Sub(payIn.ClaimedAt))

		switch {
		case txn.Bound() && txn.MatchedPayInID == payIn.ID:
			// already bound to this pay-in; nothing to suggest
		case txn.Bound():
			if diff <= opts.Window {
				misses = append(misses, NearMiss{Txn: txn, TimeDiff: diff, Reason: ReasonAlreadyBound, BoundTo: txn.MatchedPayInID})
			}
		case diff <= opts.Window:
			res.Candidates = append(res.Candidates, Candidate{
				Txn:            txn,
				TimeDiff:       diff,
				IsPerfectMatch: true,
				ExactTime:      diff == 0,
			})
		default:
			misses = append(misses, NearMiss{Txn: txn, TimeDiff: diff, Reason: ReasonOutsideWindow})
		}
	}

	if len(res.Candidates) > 0 {
		sort.SliceStable(res.Candidates, func(i, j int) bool {
			return less(res.Candidates[i].TimeDiff, res.Candidates[j].TimeDiff, &res.Candidates[i].Txn, &res.Candidates[j].Txn)
		})
		return res
	}

	sort.SliceStable(misses, func(i, j int) bool {
		return less(misses[i].TimeDiff, misses[j].TimeDiff, &misses[i].Txn, &misses[j].Txn)
	})
	if len(misses) > opts.NearMissLimit {
		misses = misses[:opts.NearMissLimit]
	}
	res.NearMisses = misses
	return res
}

// less orders by time difference, then effective time, then id, so ties are stable
// across calls.
func less(di, dj time.Duration, a, b *models.BankTransaction) bool {
	if di != dj {
		return di < dj
	}
	if !a.EffectiveAt.Equal(b.EffectiveAt) {
		return a.EffectiveAt.Before(b.EffectiveAt)
	}
	return a.ID < b.ID
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
