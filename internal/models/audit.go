package models

import "time"

// AuditKind names the action an audit entry records.
type AuditKind string

const (
	AuditPeriodLock      AuditKind = "PERIOD_LOCK"
	AuditPeriodUnlock    AuditKind = "PERIOD_UNLOCK"
	AuditPostingReversal AuditKind = "POSTING_REVERSAL"
	AuditPayInReject     AuditKind = "PAYIN_REJECT"
	AuditPayInCancel     AuditKind = "PAYIN_CANCEL"
)

// AuditEntry is one row of the append-only, hash-chained audit log.
type AuditEntry struct {
	ID       string
	Seq      int64
	Kind     AuditKind
	Subject  string
	Actor    string
	Reason   string
	At       time.Time
	PrevHash string
	Hash     string
}
