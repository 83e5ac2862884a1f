package sqlite

import "database/sql"

// schema sets up the ledger tables. These run on startup to ensure tables exist.
// Money columns hold integer minor units; time columns hold Unix nanoseconds (0 = unset).
// Link columns carry partial unique indexes so a row can be bound at most once, and
// history tables reject UPDATE and DELETE through triggers.
const schema = `
CREATE TABLE IF NOT EXISTS bank_transactions (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    import_batch TEXT NOT NULL DEFAULT '',
    effective_at INTEGER NOT NULL,
    debit INTEGER NOT NULL DEFAULT 0,
    credit INTEGER NOT NULL DEFAULT 0,
    balance INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    channel TEXT NOT NULL DEFAULT '',
    matched_payin_id TEXT,
    posted INTEGER NOT NULL DEFAULT 0,
    imported_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payins (
    id TEXT PRIMARY KEY,
    house_id TEXT NOT NULL,
    account_id TEXT NOT NULL DEFAULT '',
    amount INTEGER NOT NULL,
    claimed_at INTEGER NOT NULL,
    status TEXT NOT NULL,
    posting_status TEXT NOT NULL DEFAULT 'UNPOSTED',
    matched_txn_id TEXT,
    bound_at INTEGER NOT NULL DEFAULT 0,
    reversed_at INTEGER NOT NULL DEFAULT 0,
    rebind_required INTEGER NOT NULL DEFAULT 0,
    reject_reason TEXT NOT NULL DEFAULT '',
    cancel_reason TEXT NOT NULL DEFAULT '',
    submitted_by TEXT NOT NULL DEFAULT '',
    submitted_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS invoices (
    id TEXT PRIMARY KEY,
    house_id TEXT NOT NULL,
    period TEXT NOT NULL,
    amount_due INTEGER NOT NULL,
    amount_paid INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    issued_at INTEGER NOT NULL,
    CHECK (amount_paid >= 0 AND amount_paid <= amount_due)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    id TEXT PRIMARY KEY,
    bank_txn_id TEXT NOT NULL,
    payin_id TEXT NOT NULL,
    house_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    effective_at INTEGER NOT NULL,
    posted_at INTEGER NOT NULL,
    posted_by TEXT NOT NULL DEFAULT '',
    voided_at INTEGER NOT NULL DEFAULT 0,
    voided_by TEXT NOT NULL DEFAULT '',
    void_reason TEXT NOT NULL DEFAULT '',
    reversal_ref TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (bank_txn_id) REFERENCES bank_transactions(id),
    FOREIGN KEY (payin_id) REFERENCES payins(id)
);

CREATE TABLE IF NOT EXISTS allocations (
    id TEXT PRIMARY KEY,
    posting_id TEXT NOT NULL,
    bank_txn_id TEXT NOT NULL,
    invoice_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    reverses_id TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (posting_id) REFERENCES ledger_entries(id),
    FOREIGN KEY (invoice_id) REFERENCES invoices(id),
    FOREIGN KEY (reverses_id) REFERENCES allocations(id)
);

CREATE TABLE IF NOT EXISTS periods (
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    status TEXT NOT NULL,
    locked_by TEXT NOT NULL DEFAULT '',
    locked_at INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (year, month)
);

CREATE TABLE IF NOT EXISTS period_snapshots (
    id TEXT PRIMARY KEY,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    version INTEGER NOT NULL,
    data TEXT NOT NULL,
    locked_by TEXT NOT NULL,
    locked_at INTEGER NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    UNIQUE (year, month, version)
);

CREATE TABLE IF NOT EXISTS unlock_logs (
    id TEXT PRIMARY KEY,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    unlocked_by TEXT NOT NULL,
    reason TEXT NOT NULL,
    unlocked_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount INTEGER NOT NULL,
    incurred_at INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS credit_notes (
    id TEXT PRIMARY KEY,
    house_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    issued_at INTEGER NOT NULL,
    reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS houses (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL DEFAULT '',
    occupied INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS audit_log (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    subject TEXT NOT NULL,
    actor TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    at INTEGER NOT NULL,
    prev_hash TEXT NOT NULL DEFAULT '',
    hash TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_bank_txn_matched ON bank_transactions(matched_payin_id) WHERE matched_payin_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_bank_txn_credit ON bank_transactions(credit);
CREATE UNIQUE INDEX IF NOT EXISTS idx_payins_matched ON payins(matched_txn_id) WHERE matched_txn_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_payins_house ON payins(house_id);
CREATE INDEX IF NOT EXISTS idx_invoices_house_status ON invoices(house_id, status);
CREATE INDEX IF NOT EXISTS idx_invoices_period ON invoices(period);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_active_payin ON ledger_entries(payin_id) WHERE voided_at = 0;
CREATE INDEX IF NOT EXISTS idx_ledger_effective ON ledger_entries(effective_at);
CREATE INDEX IF NOT EXISTS idx_allocations_posting ON allocations(posting_id);
CREATE INDEX IF NOT EXISTS idx_unlock_logs_period ON unlock_logs(year, month);

CREATE TRIGGER IF NOT EXISTS bank_transactions_no_delete BEFORE DELETE ON bank_transactions
BEGIN SELECT RAISE(ABORT, 'bank transactions are never deleted'); END;

CREATE TRIGGER IF NOT EXISTS allocations_no_update BEFORE UPDATE ON allocations
BEGIN SELECT RAISE(ABORT, 'allocations are immutable'); END;

CREATE TRIGGER IF NOT EXISTS allocations_no_delete BEFORE DELETE ON allocations
BEGIN SELECT RAISE(ABORT, 'allocations are immutable'); END;

CREATE TRIGGER IF NOT EXISTS ledger_entries_no_delete BEFORE DELETE ON ledger_entries
BEGIN SELECT RAISE(ABORT, 'ledger entries are voided, never deleted'); END;

CREATE TRIGGER IF NOT EXISTS period_snapshots_no_update BEFORE UPDATE ON period_snapshots
BEGIN SELECT RAISE(ABORT, 'snapshots are immutable'); END;

CREATE TRIGGER IF NOT EXISTS unlock_logs_no_update BEFORE UPDATE ON unlock_logs
BEGIN SELECT RAISE(ABORT, 'unlock logs are append-only'); END;

CREATE TRIGGER IF NOT EXISTS unlock_logs_no_delete BEFORE DELETE ON unlock_logs
BEGIN SELECT RAISE(ABORT, 'unlock logs are append-only'); END;

CREATE TRIGGER IF NOT EXISTS audit_log_no_update BEFORE UPDATE ON audit_log
BEGIN SELECT RAISE(ABORT, 'audit log is append-only'); END;

CREATE TRIGGER IF NOT EXISTS audit_log_no_delete BEFORE DELETE ON audit_log
BEGIN SELECT RAISE(ABORT, 'audit log is append-only'); END;

CREATE TRIGGER IF NOT EXISTS payins_no_delete_accepted BEFORE DELETE ON payins
WHEN OLD.status = 'ACCEPTED'
BEGIN SELECT RAISE(ABORT, 'accepted pay-ins are never deleted'); END;
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
