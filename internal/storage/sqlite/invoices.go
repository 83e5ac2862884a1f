package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

const invoiceColumns = `id, house_id, period, amount_due, amount_paid, status, issued_at`

// InsertInvoice persists an issued invoice.
func (q *queries) InsertInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = time.Now().UTC()
	}
	if inv.Status == "" {
		inv.Status = models.StatusFor(inv.AmountDue, inv.AmountPaid)
	}

	due, err := minor("amount_due", inv.AmountDue)
	if err != nil {
		return err
	}
	paid, err := minor("amount_paid", inv.AmountPaid)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.HouseID, inv.Period, due, paid,
		string(inv.Status), unixOf(inv.IssuedAt),
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeDuplicate, "invoice %s already exists", inv.ID)
	}
	if err != nil {
		return errs.Internal(err, "failed to insert invoice")
	}
	return nil
}

// GetInvoice retrieves an invoice by ID.
func (q *queries) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, notFound(err, "invoice", id)
	}
	return inv, nil
}

// ListOpenInvoices returns a house's unpaid invoices, oldest period first.
func (q *queries) ListOpenInvoices(ctx context.Context, houseID string) ([]models.Invoice, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE house_id = ? AND status IN ('OPEN', 'PARTIAL')
		 ORDER BY period, id`,
		houseID,
	)
	if err != nil {
		return nil, errs.Internal(err, "failed to list invoices for house %s", houseID)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, errs.Internal(err, "failed to scan invoice")
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate invoices")
	}
	return invoices, nil
}

// UpdateInvoicePayment writes the paid amount and status of an invoice.
func (q *queries) UpdateInvoicePayment(ctx context.Context, inv *models.Invoice) error {
	paid, err := minor("amount_paid", inv.AmountPaid)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE invoices SET amount_paid = ?, status = ? WHERE id = ?`,
		paid, string(inv.Status), inv.ID,
	)
	if err != nil {
		return errs.Internal(err, "failed to update invoice %s", inv.ID)
	}
	return mustAffect(res, "invoice", inv.ID)
}

func scanInvoice(s scanner) (*models.Invoice, error) {
	var (
		inv                 models.Invoice
		due, paid, issuedAt int64
		status              string
	)
	if err := s.Scan(&inv.ID, &inv.HouseID, &inv.Period, &due, &paid, &status, &issuedAt); err != nil {
		return nil, err
	}
	inv.AmountDue = models.FromMinor(due)
	inv.AmountPaid = models.FromMinor(paid)
	inv.Status = models.InvoiceStatus(status)
	inv.IssuedAt = timeOf(issuedAt)
	return &inv, nil
}
