package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayInStatus is the review status of a resident's payment claim.
type PayInStatus string

const (
	PayInSubmitted        PayInStatus = "SUBMITTED"
	PayInPending          PayInStatus = "PENDING"
	PayInRejectedNeedsFix PayInStatus = "REJECTED_NEEDS_FIX"
	PayInAccepted         PayInStatus = "ACCEPTED"
	PayInRejected         PayInStatus = "REJECTED"
	PayInCancelled        PayInStatus = "CANCELLED"
)

// PostingStatus tracks the ledger effect of a pay-in, independent of its review status.
type PostingStatus string

const (
	Unposted PostingStatus = "UNPOSTED"
	Posted   PostingStatus = "POSTED"
	Reversed PostingStatus = "REVERSED"
)

// PayIn is a resident-submitted payment claim awaiting confirmation against the bank.
type PayIn struct {
	ID      string
	HouseID string

	// AccountID optionally scopes matching to one collection account.
	AccountID string

	Amount    decimal.Decimal
	ClaimedAt time.Time

	Status        PayInStatus
	PostingStatus PostingStatus

	// MatchedTxnID is the bound bank transaction. Empty when unbound.
	MatchedTxnID string
	BoundAt      time.Time
	ReversedAt   time.Time

	// RebindRequired is set by a reversal and cleared by the next bind.
	RebindRequired bool

	RejectReason string
	CancelReason string

	// SubmittedBy is the actor who filed the claim. Only they or a reconciler may
	// resubmit or cancel it.
	SubmittedBy string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Matched is derived from the link rather than stored as a status.
func (p *PayIn) Matched() bool {
	return p.MatchedTxnID != ""
}

// Bindable reports whether the pay-in may be linked to a bank transaction.
// A reversed posting may be rebound so it can go through a fresh post cycle.
func (p *PayIn) Bindable() bool {
	switch p.Status {
	case PayInSubmitted, PayInPending:
		return true
	case PayInAccepted:
		return p.PostingStatus == Reversed
	}
	return false
}

// BoundSinceReversal reports whether the current binding was made after the last
// reversal. Re-posting a reversed pay-in needs a fresh binding.
func (p *PayIn) BoundSinceReversal() bool {
	return p.PostingStatus != Reversed || !p.RebindRequired
}
