// Package models defines the core domain models of the estate back-office ledger.
//
// # Reconciliation models
//
//   - BankTransaction: an imported, authoritative bank statement row
//   - PayIn: a resident's claim of having paid, matched against a BankTransaction
//   - Invoice: an amount a house owes for a billing period
//   - LedgerEntry: the income record created when a matched pay-in is posted
//   - Allocation: the share of a posting applied to one invoice
//
// # Period closing models
//
//   - Period and Snapshot: a month's lock state and the totals frozen at lock time
//   - UnlockLogEntry: the audited reason for reopening a locked month
//   - Expense, CreditNote, House: the inputs the snapshot aggregates
//
// # Design Principles
//
//  1. Money is decimal.Decimal with two places, never float64
//  2. Relationships are ID strings, not pointers
//  3. Rows that carry accounting history are voided or compensated, never deleted
package models
