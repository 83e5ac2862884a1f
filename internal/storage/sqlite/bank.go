package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
)

const bankTxnColumns = `id, account_id, import_batch, effective_at, debit, credit, balance,
	description, channel, matched_payin_id, posted, imported_at`

// InsertBankTransaction persists an imported statement row.
func (q *queries) InsertBankTransaction(ctx context.Context, txn *models.BankTransaction) error {
	if txn.ImportedAt.IsZero() {
		txn.ImportedAt = time.Now().UTC()
	}

	debit, err := minor("debit", txn.Debit)
	if err != nil {
		return err
	}
	credit, err := minor("credit", txn.Credit)
	if err != nil {
		return err
	}
	balance, err := minor("balance", txn.Balance)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx,
		`INSERT INTO bank_transactions (`+bankTxnColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.AccountID, txn.ImportBatch, unixOf(txn.EffectiveAt),
		debit, credit, balance,
		txn.Description, txn.Channel, nullString(txn.MatchedPayInID), boolInt(txn.Posted), unixOf(txn.ImportedAt),
	)
	if isUniqueConstraintError(err) {
		return errs.Conflict(errs.CodeDuplicate, "bank transaction %s already imported", txn.ID)
	}
	if err != nil {
		return errs.Internal(err, "failed to insert bank transaction %s", txn.ID)
	}
	return nil
}

// GetBankTransaction retrieves a statement row by ID.
func (q *queries) GetBankTransaction(ctx context.Context, id string) (*models.BankTransaction, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+bankTxnColumns+` FROM bank_transactions WHERE id = ?`, id)
	txn, err := scanBankTxn(row)
	if err != nil {
		return nil, notFound(err, "bank transaction", id)
	}
	return txn, nil
}

// ListCreditsByAmount returns credit rows of exactly amount.
func (q *queries) ListCreditsByAmount(ctx context.Context, amount decimal.Decimal, accountID string) ([]models.BankTransaction, error) {
	credit, err := models.ToMinor(amount)
	if err != nil {
		// No stored credit can be that large.
		return nil, nil
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+bankTxnColumns+` FROM bank_transactions
		 WHERE credit = ? AND credit > 0 AND (? = '' OR account_id = ?)
		 ORDER BY effective_at, id`,
		credit, accountID, accountID,
	)
	if err != nil {
		return nil, errs.Internal(err, "failed to list bank transactions")
	}
	defer rows.Close()

	var txns []models.BankTransaction
	for rows.Next() {
		txn, err := scanBankTxn(rows)
		if err != nil {
			return nil, errs.Internal(err, "failed to scan bank transaction")
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err, "failed to iterate bank transactions")
	}
	return txns, nil
}

// BindTxn sets the match link only when it is currently empty.
func (q *queries) BindTxn(ctx context.Context, txnID, payInID string) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE bank_transactions SET matched_payin_id = ? WHERE id = ? AND matched_payin_id IS NULL`,
		payInID, txnID,
	)
	if isUniqueConstraintError(err) {
		return false, nil
	}
	if err != nil {
		return false, errs.Internal(err, "failed to bind bank transaction %s", txnID)
	}
	return affected(res)
}

// UnbindTxn clears the match link.
func (q *queries) UnbindTxn(ctx context.Context, txnID string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE bank_transactions SET matched_payin_id = NULL WHERE id = ?`, txnID)
	if err != nil {
		return errs.Internal(err, "failed to unbind bank transaction %s", txnID)
	}
	return mustAffect(res, "bank transaction", txnID)
}

// SetTxnPosted flags a row as posted to the ledger.
func (q *queries) SetTxnPosted(ctx context.Context, txnID string, posted bool) error {
	res, err := q.db.ExecContext(ctx, `UPDATE bank_transactions SET posted = ? WHERE id = ?`, boolInt(posted), txnID)
	if err != nil {
		return errs.Internal(err, "failed to update bank transaction %s", txnID)
	}
	return mustAffect(res, "bank transaction", txnID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBankTxn(s scanner) (*models.BankTransaction, error) {
	var (
		txn                     models.BankTransaction
		effectiveAt, importedAt int64
		debit, credit, balance  int64
		matched                 sql.NullString
		posted                  int
	)
	if err := s.Scan(&txn.ID, &txn.AccountID, &txn.ImportBatch, &effectiveAt, &debit, &credit, &balance,
		&txn.Description, &txn.Channel, &matched, &posted, &importedAt); err != nil {
		return nil, err
	}
	txn.EffectiveAt = timeOf(effectiveAt)
	txn.ImportedAt = timeOf(importedAt)
	txn.Debit = models.FromMinor(debit)
	txn.Credit = models.FromMinor(credit)
	txn.Balance = models.FromMinor(balance)
	txn.MatchedPayInID = matched.String
	txn.Posted = posted == 1
	return &txn, nil
}
