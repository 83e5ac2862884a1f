package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from due and paid amounts.
type InvoiceStatus string

const (
	InvoiceOpen    InvoiceStatus = "OPEN"
	InvoicePartial InvoiceStatus = "PARTIAL"
	InvoicePaid    InvoiceStatus = "PAID"
)

// Invoice is an amount a house owes for one billing period ("YYYY-MM").
type Invoice struct {
	ID         string
	HouseID    string
	Period     string
	AmountDue  decimal.Decimal
	AmountPaid decimal.Decimal
	Status     InvoiceStatus
	IssuedAt   time.Time
}

// Outstanding is what remains to be paid, never negative.
func (i *Invoice) Outstanding() decimal.Decimal {
	rem := i.AmountDue.Sub(i.AmountPaid)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// StatusFor computes the invoice status for the given amounts.
func StatusFor(due, paid decimal.Decimal) InvoiceStatus {
	switch {
	case !paid.IsPositive():
		return InvoiceOpen
	case paid.LessThan(due):
		return InvoicePartial
	default:
		return InvoicePaid
	}
}

// ApplyPayment adjusts AmountPaid by delta (negative for reversals) and recomputes Status.
func (i *Invoice) ApplyPayment(delta decimal.Decimal) error {
	paid := i.AmountPaid.Add(delta)
	if paid.IsNegative() {
		return fmt.Errorf("invoice %s: paid amount would become %s", i.ID, FormatAmount(paid))
	}
	if paid.GreaterThan(i.AmountDue) {
		return fmt.Errorf("invoice %s: paid amount %s exceeds due %s", i.ID, FormatAmount(paid), FormatAmount(i.AmountDue))
	}
	i.AmountPaid = paid
	i.Status = StatusFor(i.AmountDue, paid)
	return nil
}

// BillingPeriod formats a year and month as an invoice period key.
func BillingPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
