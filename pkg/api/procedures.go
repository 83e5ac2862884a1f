package api

// Fully-qualified service names.
const (
	ReconcileServiceName = "estate.reconcile.v1.ReconcileService"
	PeriodServiceName    = "estate.period.v1.PeriodService"
	FeedServiceName      = "estate.feed.v1.FeedService"
	ExpenseServiceName   = "estate.expense.v1.ExpenseService"
)

// ReconcileService procedures.
const (
	ReconcileSubmitPayInProcedure         = "/" + ReconcileServiceName + "/SubmitPayIn"
	ReconcileResubmitPayInProcedure       = "/" + ReconcileServiceName + "/ResubmitPayIn"
	ReconcileRejectPayInProcedure         = "/" + ReconcileServiceName + "/RejectPayIn"
	ReconcileCancelPayInProcedure         = "/" + ReconcileServiceName + "/CancelPayIn"
	ReconcileGetPayInProcedure            = "/" + ReconcileServiceName + "/GetPayIn"
	ReconcileListPayInsProcedure          = "/" + ReconcileServiceName + "/ListPayIns"
	ReconcileFindMatchCandidatesProcedure = "/" + ReconcileServiceName + "/FindMatchCandidates"
	ReconcileBindProcedure                = "/" + ReconcileServiceName + "/Bind"
	ReconcileUnbindProcedure              = "/" + ReconcileServiceName + "/Unbind"
	ReconcileConfirmAndPostProcedure      = "/" + ReconcileServiceName + "/ConfirmAndPost"
	ReconcileReversePostingProcedure      = "/" + ReconcileServiceName + "/ReversePosting"
	ReconcileGetPostingProcedure          = "/" + ReconcileServiceName + "/GetPosting"
	ReconcileListPostingsProcedure        = "/" + ReconcileServiceName + "/ListPostings"
)

// PeriodService procedures.
const (
	PeriodLockProcedure           = "/" + PeriodServiceName + "/LockPeriod"
	PeriodUnlockProcedure         = "/" + PeriodServiceName + "/UnlockPeriod"
	PeriodGetProcedure            = "/" + PeriodServiceName + "/GetPeriod"
	PeriodListSnapshotsProcedure  = "/" + PeriodServiceName + "/ListSnapshots"
	PeriodListUnlockLogsProcedure = "/" + PeriodServiceName + "/ListUnlockLogs"
	PeriodListAuditProcedure      = "/" + PeriodServiceName + "/ListAudit"
	PeriodVerifyAuditProcedure    = "/" + PeriodServiceName + "/VerifyAudit"
)

// FeedService procedures.
const (
	FeedImportBankTransactionsProcedure = "/" + FeedServiceName + "/ImportBankTransactions"
	FeedIssueInvoiceProcedure           = "/" + FeedServiceName + "/IssueInvoice"
	FeedGetInvoiceProcedure             = "/" + FeedServiceName + "/GetInvoice"
	FeedRegisterHouseProcedure          = "/" + FeedServiceName + "/RegisterHouse"
)

// ExpenseService procedures.
const (
	ExpenseRecordProcedure          = "/" + ExpenseServiceName + "/RecordExpense"
	ExpenseUpdateProcedure          = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseGetProcedure             = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseIssueCreditNoteProcedure = "/" + ExpenseServiceName + "/IssueCreditNote"
)
