package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func invoice(id, period, due, paid string) models.Invoice {
	return models.Invoice{
		ID:         id,
		HouseID:    "h1",
		Period:     period,
		AmountDue:  d(due),
		AmountPaid: d(paid),
		Status:     models.StatusFor(d(due), d(paid)),
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		invoices []models.Invoice
		want     []Line
	}{
		{
			name:   "oldest first, both paid in full",
			amount: "1500.00",
			invoices: []models.Invoice{
				invoice("inv-b", "2025-02", "700.00", "0"),
				invoice("inv-a", "2025-01", "800.00", "0"),
			},
			want: []Line{{"inv-a", d("800.00")}, {"inv-b", d("700.00")}},
		},
		{
			name:   "partial last invoice",
			amount: "1000",
			invoices: []models.Invoice{
				invoice("inv-a", "2025-01", "800", "0"),
				invoice("inv-b", "2025-02", "700", "0"),
			},
			want: []Line{{"inv-a", d("800")}, {"inv-b", d("200")}},
		},
		{
			name:   "amount exhausted before later invoices",
			amount: "300",
			invoices: []models.Invoice{
				invoice("inv-a", "2025-01", "800", "0"),
				invoice("inv-b", "2025-02", "700", "0"),
			},
			want: []Line{{"inv-a", d("300")}},
		},
		{
			name:   "uses remainder of partially paid invoice",
			amount: "600",
			invoices: []models.Invoice{
				invoice("inv-a", "2025-01", "800", "500"),
				invoice("inv-b", "2025-02", "700", "0"),
			},
			want: []Line{{"inv-a", d("300")}, {"inv-b", d("300")}},
		},
		{
			name:   "paid invoices skipped",
			amount: "50",
			invoices: []models.Invoice{
				invoice("inv-a", "2024-12", "800", "800"),
				invoice("inv-b", "2025-01", "100", "0"),
			},
			want: []Line{{"inv-b", d("50")}},
		},
		{
			name:   "same period ordered by id",
			amount: "150",
			invoices: []models.Invoice{
				invoice("inv-2", "2025-01", "100", "0"),
				invoice("inv-1", "2025-01", "100", "0"),
			},
			want: []Line{{"inv-1", d("100")}, {"inv-2", d("50")}},
		},
		{
			name:   "no rounding drift on thirds",
			amount: "100.00",
			invoices: []models.Invoice{
				invoice("inv-1", "2025-01", "33.33", "0"),
				invoice("inv-2", "2025-02", "33.33", "0"),
				invoice("inv-3", "2025-03", "33.34", "0"),
			},
			want: []Line{{"inv-1", d("33.33")}, {"inv-2", d("33.33")}, {"inv-3", d("33.34")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Allocate(d(tt.amount), tt.invoices)
			require.NoError(t, err)
			require.Len(t, plan.Lines, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.InvoiceID, plan.Lines[i].InvoiceID)
				assert.True(t, want.Amount.Equal(plan.Lines[i].Amount), "line %d: got %s want %s", i, plan.Lines[i].Amount, want.Amount)
			}
			assert.True(t, plan.Sum().Equal(d(tt.amount)), "sum %s != amount %s", plan.Sum(), tt.amount)
		})
	}
}

func TestAllocate_Ambiguous(t *testing.T) {
	invoices := []models.Invoice{
		invoice("inv-a", "2025-01", "800.00", "0"),
		invoice("inv-b", "2025-02", "700.00", "0"),
	}

	plan, err := Allocate(d("2000.00"), invoices)
	require.Error(t, err)
	assert.Empty(t, plan.Lines)

	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindAmbiguous, e.Kind)
	assert.Equal(t, errs.CodeAmbiguous, e.Code)
	assert.Equal(t, "500.00", e.Fields["excess"])
	assert.Equal(t, "1500.00", e.Fields["outstanding"])
	assert.Equal(t, HintCreditNoteOrOtherHouse, e.Fields["hint"])
}

func TestAllocate_NoInvoicesIsAmbiguous(t *testing.T) {
	_, err := Allocate(d("10"), nil)
	assert.True(t, errs.Is(err, errs.CodeAmbiguous))
}

func TestAllocate_RejectsNonPositive(t *testing.T) {
	for _, amt := range []string{"0", "-5"} {
		_, err := Allocate(d(amt), []models.Invoice{invoice("i", "2025-01", "10", "0")})
		assert.Equal(t, errs.KindValidation, errs.KindOf(err), amt)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	invoices := []models.Invoice{
		invoice("inv-b", "2025-02", "700", "0"),
		invoice("inv-a", "2025-01", "800", "0"),
	}
	_, err := Allocate(d("900"), invoices)
	require.NoError(t, err)
	assert.Equal(t, "inv-b", invoices[0].ID)
	assert.True(t, invoices[0].AmountPaid.IsZero())
}
