package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the lock state of an accounting month.
type PeriodStatus string

const (
	PeriodDraft  PeriodStatus = "DRAFT"
	PeriodLocked PeriodStatus = "LOCKED"
)

// PeriodKey identifies an accounting month.
type PeriodKey struct {
	Year  int
	Month int
}

// PeriodOf returns the key of the month containing t in loc.
func PeriodOf(t time.Time, loc *time.Location) PeriodKey {
	lt := t.In(loc)
	return PeriodKey{Year: lt.Year(), Month: int(lt.Month())}
}

func (k PeriodKey) String() string {
	return BillingPeriod(k.Year, k.Month)
}

// Valid reports whether the key names a real month.
func (k PeriodKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Year >= 1900 && k.Year <= 9999
}

// Bounds returns the half-open interval [start, end) of the month in loc.
func (k PeriodKey) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// ParsePeriodKey parses "YYYY-MM".
func ParsePeriodKey(s string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("invalid period %q, want YYYY-MM", s)
	}
	return PeriodKey{Year: t.Year(), Month: int(t.Month())}, nil
}

// Period is the current lock state of a month. Snapshot is the most recent one taken.
type Period struct {
	Key      PeriodKey
	Status   PeriodStatus
	LockedBy string
	LockedAt time.Time
	Notes    string
	Snapshot *Snapshot
}

// Snapshot is the set of totals frozen when a period is locked. Each lock adds a new
// version; earlier versions stay queryable.
type Snapshot struct {
	ID       string
	Key      PeriodKey
	Version  int
	LockedBy string
	LockedAt time.Time
	Notes    string
	Data     SnapshotData
}

// SnapshotData holds the aggregate totals of a period at lock time.
type SnapshotData struct {
	ARBalance       decimal.Decimal `json:"ar_balance"`
	CashReceived    decimal.Decimal `json:"cash_received"`
	ExpensesPaid    decimal.Decimal `json:"expenses_paid"`
	ExpensesPending decimal.Decimal `json:"expenses_pending"`
	CreditNotes     decimal.Decimal `json:"credit_notes"`
	InvoiceCount    int             `json:"invoice_count"`
	OccupiedHouses  int             `json:"occupied_houses"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// UnlockLogEntry records why a locked period was reopened. Append-only.
type UnlockLogEntry struct {
	ID         string
	Key        PeriodKey
	UnlockedBy string
	Reason     string
	UnlockedAt time.Time
}
