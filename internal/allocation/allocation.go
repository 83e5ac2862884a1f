// Package allocation distributes a posted amount across a house's outstanding invoices.
//
// The algorithm is oldest-period-first, ties broken by invoice ID, and requires the
// amount to be fully absorbed by existing invoices. It is a pure computation: the
// caller persists the plan inside its own transaction.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

// HintCreditNoteOrOtherHouse is returned with AMBIGUOUS results: the excess has to be
// issued as a credit note or applied to another house by a person.
const HintCreditNoteOrOtherHouse = "CREDIT_NOTE_OR_OTHER_HOUSE"

// Line is the share of the amount applied to one invoice.
type Line struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// Plan is the full allocation of an amount.
type Plan struct {
	Lines []Line
	Total decimal.Decimal
}

// Allocate plans how amount pays down invoices. Invoices that are PAID or have nothing
// outstanding are skipped. An amount larger than the house's total outstanding yields
// an AMBIGUOUS error carrying the excess; nothing is allocated in that case.
func Allocate(amount decimal.Decimal, invoices []models.Invoice) (Plan, error) {
	if !amount.IsPositive() {
		return Plan{}, errs.Validation(errs.CodeInvalidAmount, "allocation amount must be positive, got %s", models.FormatAmount(amount))
	}

	open := make([]models.Invoice, 0, len(invoices))
	outstanding := decimal.Zero
	for _, inv := range invoices {
		if inv.Status == models.InvoicePaid || !inv.Outstanding().IsPositive() {
			continue
		}
		open = append(open, inv)
		outstanding = outstanding.Add(inv.Outstanding())
	}

	if amount.GreaterThan(outstanding) {
		excess := amount.Sub(outstanding)
		return Plan{}, errs.Ambiguous("amount %s exceeds outstanding invoices %s by %s",
			models.FormatAmount(amount), models.FormatAmount(outstanding), models.FormatAmount(excess)).
			With("excess", models.FormatAmount(excess)).
			With("outstanding", models.FormatAmount(outstanding)).
			With("hint", HintCreditNoteOrOtherHouse)
	}

	sort.SliceStable(open, func(i, j int) bool {
		if open[i].Period != open[j].Period {
			return open[i].Period < open[j].Period
		}
		return open[i].ID < open[j].ID
	})

	plan := Plan{Total: amount}
	remaining := amount
	for _, inv := range open {
		if !remaining.IsPositive() {
			break
		}
		share := decimal.Min(remaining, inv.Outstanding())
		plan.Lines = append(plan.Lines, Line{InvoiceID: inv.ID, Amount: share})
		remaining = remaining.Sub(share)
	}

	return plan, nil
}

// Sum adds up the plan lines.
func (p Plan) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Amount)
	}
	return total
}
