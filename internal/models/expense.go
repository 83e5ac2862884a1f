package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus tracks whether the estate has paid an expense yet.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "PENDING"
	ExpensePaid    ExpenseStatus = "PAID"
)

// Expense is money the estate spends (maintenance, security, utilities).
type Expense struct {
	ID          string
	Category    string
	Description string
	Amount      decimal.Decimal
	IncurredAt  time.Time
	Status      ExpenseStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreditNote reduces what a house owes outside the normal payment flow.
type CreditNote struct {
	ID       string
	HouseID  string
	Amount   decimal.Decimal
	IssuedAt time.Time
	Reason   string
}

// House is a dwelling in the estate, maintained by the house registry.
type House struct {
	ID       string
	Label    string
	Occupied bool
}
