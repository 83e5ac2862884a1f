package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

const expenseColumns = `id, category, description, amount, incurred_at, status, created_at, updated_at`

// InsertExpense persists a new expense.
func (q *queries) InsertExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = models.ExpensePending
	}

	amount, err := minor("amount", e.Amount)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Category, e.Description, amount, unixOf(e.IncurredAt),
		string(e.Status), unixOf(e.CreatedAt), unixOf(e.UpdatedAt),
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeDuplicate, "expense %s already exists", e.ID)
	}
	if err != nil {
		return errs.Internal(err, "failed to insert expense")
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (q *queries) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var (
		e                                models.Expense
		amount                           int64
		incurredAt, createdAt, updatedAt int64
		status                           string
	)
	err := q.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Category, &e.Description, &amount, &incurredAt, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFound(err, "expense", id)
	}
	e.Amount = models.FromMinor(amount)
	e.IncurredAt = timeOf(incurredAt)
	e.Status = models.ExpenseStatus(status)
	e.CreatedAt = timeOf(createdAt)
	e.UpdatedAt = timeOf(updatedAt)
	return &e, nil
}

// UpdateExpense writes every mutable field of an expense.
func (q *queries) UpdateExpense(ctx context.Context, e *models.Expense) error {
	amount, err := minor("amount", e.Amount)
	if err != nil {
		return err
	}
	e.UpdatedAt = time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`UPDATE expenses SET category = ?, description = ?, amount = ?, incurred_at = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		e.Category, e.Description, amount, unixOf(e.IncurredAt),
		string(e.Status), unixOf(e.UpdatedAt), e.ID,
	)
	if err != nil {
		return errs.Internal(err, "failed to update expense %s", e.ID)
	}
	return mustAffect(res, "expense", e.ID)
}

// InsertCreditNote persists a credit note.
func (q *queries) InsertCreditNote(ctx context.Context, n *models.CreditNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	amount, err := minor("amount", n.Amount)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO credit_notes (id, house_id, amount, issued_at, reason) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.HouseID, amount, unixOf(n.IssuedAt), n.Reason,
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeDuplicate, "credit note %s already exists", n.ID)
	}
	if err != nil {
		return errs.Internal(err, "failed to insert credit note")
	}
	return nil
}

// UpsertHouse registers a house or updates its label and occupancy.
func (q *queries) UpsertHouse(ctx context.Context, h *models.House) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO houses (id, label, occupied) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET label = excluded.label, occupied = excluded.occupied`,
		h.ID, h.Label, boolInt(h.Occupied),
	)
	if err != nil {
		return errs.Internal(err, "failed to save house %s", h.ID)
	}
	return nil
}
