package api

import "time"

// PayIn is a resident payment claim.
type PayIn struct {
	ID             string    `json:"id"`
	HouseID        string    `json:"house_id"`
	AccountID      string    `json:"account_id,omitempty"`
	Amount         string    `json:"amount"`
	ClaimedAt      time.Time `json:"claimed_at"`
	Status         string    `json:"status"`
	PostingStatus  string    `json:"posting_status"`
	MatchedTxnID   string    `json:"matched_txn_id,omitempty"`
	BoundAt        time.Time `json:"bound_at,omitzero"`
	ReversedAt     time.Time `json:"reversed_at,omitzero"`
	RebindRequired bool      `json:"rebind_required,omitempty"`
	RejectReason   string    `json:"reject_reason,omitempty"`
	CancelReason   string    `json:"cancel_reason,omitempty"`
	SubmittedBy    string    `json:"submitted_by,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BankTransaction is an imported statement row.
type BankTransaction struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	ImportBatch    string    `json:"import_batch,omitempty"`
	EffectiveAt    time.Time `json:"effective_at"`
	Debit          string    `json:"debit,omitempty"`
	Credit         string    `json:"credit,omitempty"`
	Balance        string    `json:"balance,omitempty"`
	Description    string    `json:"description,omitempty"`
	Channel        string    `json:"channel,omitempty"`
	MatchedPayInID string    `json:"matched_payin_id,omitempty"`
	Posted         bool      `json:"posted,omitempty"`
	ImportedAt     time.Time `json:"imported_at,omitzero"`
}

// LedgerEntry is the income record of a posting.
type LedgerEntry struct {
	ID          string    `json:"id"`
	BankTxnID   string    `json:"bank_txn_id"`
	PayInID     string    `json:"payin_id"`
	HouseID     string    `json:"house_id"`
	Amount      string    `json:"amount"`
	EffectiveAt time.Time `json:"effective_at"`
	PostedAt    time.Time `json:"posted_at"`
	PostedBy    string    `json:"posted_by"`
	VoidedAt    time.Time `json:"voided_at,omitzero"`
	VoidedBy    string    `json:"voided_by,omitempty"`
	VoidReason  string    `json:"void_reason,omitempty"`
	ReversalRef string    `json:"reversal_ref,omitempty"`
}

// Allocation is the share of a posting applied to one invoice.
type Allocation struct {
	ID         string    `json:"id"`
	PostingID  string    `json:"posting_id"`
	BankTxnID  string    `json:"bank_txn_id"`
	InvoiceID  string    `json:"invoice_id"`
	Amount     string    `json:"amount"`
	ReversesID string    `json:"reverses_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Invoice is an amount a house owes for a billing period.
type Invoice struct {
	ID         string    `json:"id"`
	HouseID    string    `json:"house_id"`
	Period     string    `json:"period"`
	AmountDue  string    `json:"amount_due"`
	AmountPaid string    `json:"amount_paid"`
	Status     string    `json:"status"`
	IssuedAt   time.Time `json:"issued_at"`
}

// Candidate is a bank transaction that may be bound to a pay-in.
type Candidate struct {
	Txn            BankTransaction `json:"txn"`
	TimeDiffSecs   int64           `json:"time_diff_secs"`
	TimeDiffMillis int64           `json:"time_diff_ms"`
	IsPerfectMatch bool            `json:"is_perfect_match"`
	ExactTime      bool            `json:"exact_time"`
}

// NearMiss is an exact-amount transaction that was not offered as a candidate.
type NearMiss struct {
	Txn            BankTransaction `json:"txn"`
	TimeDiffSecs   int64           `json:"time_diff_secs"`
	TimeDiffMillis int64           `json:"time_diff_ms"`
	Reason         string          `json:"reason"`
	BoundTo        string          `json:"bound_to,omitempty"`
}

// Period is the lock state of an accounting month.
type Period struct {
	Period   string    `json:"period"`
	Status   string    `json:"status"`
	LockedBy string    `json:"locked_by,omitempty"`
	LockedAt time.Time `json:"locked_at,omitzero"`
	Notes    string    `json:"notes,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Snapshot is one frozen set of period totals.
type Snapshot struct {
	ID              string    `json:"id"`
	Period          string    `json:"period"`
	Version         int       `json:"version"`
	LockedBy        string    `json:"locked_by"`
	LockedAt        time.Time `json:"locked_at"`
	Notes           string    `json:"notes,omitempty"`
	ARBalance       string    `json:"ar_balance"`
	CashReceived    string    `json:"cash_received"`
	ExpensesPaid    string    `json:"expenses_paid"`
	ExpensesPending string    `json:"expenses_pending"`
	CreditNotes     string    `json:"credit_notes"`
	InvoiceCount    int       `json:"invoice_count"`
	OccupiedHouses  int       `json:"occupied_houses"`
	ComputedAt      time.Time `json:"computed_at"`
}

// UnlockLog records why a period was reopened.
type UnlockLog struct {
	ID         string    `json:"id"`
	Period     string    `json:"period"`
	UnlockedBy string    `json:"unlocked_by"`
	Reason     string    `json:"reason"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AuditEntry is one row of the hash-chained audit log.
type AuditEntry struct {
	ID       string    `json:"id"`
	Seq      int64     `json:"seq"`
	Kind     string    `json:"kind"`
	Subject  string    `json:"subject"`
	Actor    string    `json:"actor"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
	PrevHash string    `json:"prev_hash,omitempty"`
	Hash     string    `json:"hash"`
}

// Expense is money the estate spends.
type Expense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      string    `json:"amount"`
	IncurredAt  time.Time `json:"incurred_at"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreditNote reduces what a house owes.
type CreditNote struct {
	ID       string    `json:"id"`
	HouseID  string    `json:"house_id"`
	Amount   string    `json:"amount"`
	IssuedAt time.Time `json:"issued_at"`
	Reason   string    `json:"reason"`
}

// House is a dwelling in the estate.
type House struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Occupied bool   `json:"occupied"`
}

// ---- ReconcileService ----

type SubmitPayInRequest struct {
	HouseID   string    `json:"house_id"`
	AccountID string    `json:"account_id,omitempty"`
	Amount    string    `json:"amount"`
	ClaimedAt time.Time `json:"claimed_at"`
}

type ResubmitPayInRequest struct {
	PayInID   string    `json:"payin_id"`
	Amount    string    `json:"amount"`
	ClaimedAt time.Time `json:"claimed_at"`
}

type RejectPayInRequest struct {
	PayInID string `json:"payin_id"`
	Reason  string `json:"reason"`
	// NeedsFix sends the claim back to the resident instead of rejecting it for good.
	NeedsFix bool `json:"needs_fix,omitempty"`
}

type CancelPayInRequest struct {
	PayInID string `json:"payin_id"`
	Reason  string `json:"reason"`
}

type GetPayInRequest struct {
	PayInID string `json:"payin_id"`
}

// PayInResponse is returned by every pay-in lifecycle call.
type PayInResponse struct {
	PayIn PayIn `json:"payin"`
}

type ListPayInsRequest struct {
	HouseID string `json:"house_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type ListPayInsResponse struct {
	PayIns []PayIn `json:"payins"`
}

type FindMatchCandidatesRequest struct {
	PayInID string `json:"payin_id"`
}

type FindMatchCandidatesResponse struct {
	PayIn      PayIn       `json:"payin"`
	Candidates []Candidate `json:"candidates"`
	NearMisses []NearMiss  `json:"near_misses,omitempty"`
}

type BindRequest struct {
	TxnID   string `json:"txn_id"`
	PayInID string `json:"payin_id"`
}

type BindResponse struct {
	TxnID   string `json:"txn_id"`
	PayInID string `json:"payin_id"`
}

type UnbindRequest struct {
	TxnID string `json:"txn_id"`
}

type UnbindResponse struct {
	TxnID string `json:"txn_id"`
}

type ConfirmAndPostRequest struct {
	TxnID string `json:"txn_id"`
}

type GetPostingRequest struct {
	PayInID string `json:"payin_id"`
}

// PostingResponse describes a posting. Status is "posted" when this call wrote the
// entry and "already_posted" when an earlier call did.
type PostingResponse struct {
	Status      string       `json:"status"`
	PayIn       PayIn        `json:"payin"`
	Entry       LedgerEntry  `json:"entry"`
	Allocations []Allocation `json:"allocations"`
}

type ListPostingsRequest struct {
	PayInID string `json:"payin_id"`
}

// PostingRecord is one ledger entry with the allocation rows written against it.
// Rows with reverses_id set are compensations of a reversal.
type PostingRecord struct {
	Entry       LedgerEntry  `json:"entry"`
	Allocations []Allocation `json:"allocations"`
}

// ListPostingsResponse holds the full posting history of a pay-in, voided entries included.
type ListPostingsResponse struct {
	PayIn    PayIn           `json:"payin"`
	Postings []PostingRecord `json:"postings"`
}

type ReversePostingRequest struct {
	TxnID  string `json:"txn_id"`
	Reason string `json:"reason"`
}

type ReversePostingResponse struct {
	PayIn         PayIn        `json:"payin"`
	Entry         LedgerEntry  `json:"entry"`
	Compensations []Allocation `json:"compensations"`
	Message       string       `json:"message"`
}

// ---- PeriodService ----

type LockPeriodRequest struct {
	Period string `json:"period"`
	Notes  string `json:"notes,omitempty"`
}

type UnlockPeriodRequest struct {
	Period string `json:"period"`
	Reason string `json:"reason"`
}

type GetPeriodRequest struct {
	Period string `json:"period"`
}

type PeriodResponse struct {
	Period Period `json:"period"`
}

type UnlockPeriodResponse struct {
	Unlock UnlockLog `json:"unlock"`
	Period Period    `json:"period"`
}

type ListSnapshotsRequest struct {
	Period string `json:"period"`
}

type ListSnapshotsResponse struct {
	Snapshots []Snapshot `json:"snapshots"`
}

type ListUnlockLogsRequest struct {
	Period string `json:"period"`
}

type ListUnlockLogsResponse struct {
	Unlocks []UnlockLog `json:"unlocks"`
}

type ListAuditRequest struct {
	Kind    string `json:"kind,omitempty"`
	Subject string `json:"subject,omitempty"`
}

type ListAuditResponse struct {
	Entries []AuditEntry `json:"entries"`
}

type VerifyAuditRequest struct{}

type VerifyAuditResponse struct {
	Entries   int   `json:"entries"`
	Valid     bool  `json:"valid"`
	BrokenSeq int64 `json:"broken_seq,omitempty"`
}

// ---- FeedService ----

type ImportBankTransactionsRequest struct {
	BatchID      string            `json:"batch_id,omitempty"`
	Transactions []BankTransaction `json:"transactions"`
}

type ImportBankTransactionsResponse struct {
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
}

type IssueInvoiceRequest struct {
	ID        string `json:"id,omitempty"`
	HouseID   string `json:"house_id"`
	Period    string `json:"period"`
	AmountDue string `json:"amount_due"`
}

type GetInvoiceRequest struct {
	InvoiceID string `json:"invoice_id"`
}

type InvoiceResponse struct {
	Invoice Invoice `json:"invoice"`
}

type RegisterHouseRequest struct {
	House House `json:"house"`
}

type HouseResponse struct {
	House House `json:"house"`
}

// ---- ExpenseService ----

type RecordExpenseRequest struct {
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      string    `json:"amount"`
	IncurredAt  time.Time `json:"incurred_at"`
	Status      string    `json:"status,omitempty"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string    `json:"expense_id"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      string    `json:"amount"`
	IncurredAt  time.Time `json:"incurred_at"`
	Status      string    `json:"status,omitempty"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type IssueCreditNoteRequest struct {
	HouseID  string    `json:"house_id"`
	Amount   string    `json:"amount"`
	IssuedAt time.Time `json:"issued_at"`
	Reason   string    `json:"reason"`
}

type CreditNoteResponse struct {
	CreditNote CreditNote `json:"credit_note"`
}
