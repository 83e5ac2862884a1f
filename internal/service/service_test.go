package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/estateledger/internal/audit"
	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/ledger"
	"github.com/mmynk/estateledger/internal/matcher"
	"github.com/mmynk/estateledger/internal/middleware"
	"github.com/mmynk/estateledger/internal/period"
	"github.com/mmynk/estateledger/internal/storage/sqlite"
	"github.com/mmynk/estateledger/pkg/api"
)

var (
	claimedAt = time.Date(2025, time.March, 10, 10, 0, 5, 0, time.UTC)
	bankAt    = time.Date(2025, time.March, 10, 10, 0, 40, 0, time.UTC)
)

// clients bundles the service clients of one caller.
type clients struct {
	reconcile api.ReconcileServiceClient
	period    api.PeriodServiceClient
	feed      api.FeedServiceClient
	expense   api.ExpenseServiceClient
}

type testServer struct {
	url string
	jwt *auth.JWTManager
}

// as returns clients authenticated as the given actor. An empty ID gives anonymous clients.
func (s *testServer) as(t *testing.T, id string, role auth.Role) clients {
	t.Helper()
	var opts []connect.ClientOption
	if id != "" {
		token, err := s.jwt.Generate(auth.Actor{ID: id, Role: role})
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		opts = append(opts, api.WithToken(token))
	}
	return clients{
		reconcile: api.NewReconcileServiceClient(http.DefaultClient, s.url, opts...),
		period:    api.NewPeriodServiceClient(http.DefaultClient, s.url, opts...),
		feed:      api.NewFeedServiceClient(http.DefaultClient, s.url, opts...),
		expense:   api.NewExpenseServiceClient(http.DefaultClient, s.url, opts...),
	}
}

// setupTestServer creates a test server with every ledger service behind actor auth.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	auditLog := audit.New(store)
	periods := period.NewManager(store, auditLog, time.UTC)
	engine := ledger.New(store, periods, auditLog, matcher.Options{})
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(api.NewReconcileServiceHandler(NewReconcileService(engine, nil), interceptors))
	mux.Handle(api.NewPeriodServiceHandler(NewPeriodService(periods, auditLog, nil), interceptors))
	mux.Handle(api.NewFeedServiceHandler(NewFeedService(engine), interceptors))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(engine), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, jwt: jwtManager}
}

func expectError(t *testing.T, err error, code connect.Code, ledgerCode string) api.ErrorInfo {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", ledgerCode)
	}
	if got := connect.CodeOf(err); got != code {
		t.Errorf("expected connect code %v, got %v (%v)", code, got, err)
	}
	info, ok := api.ErrorInfoOf(err)
	if !ok {
		t.Fatalf("expected error detail on %v", err)
	}
	if info.Code != ledgerCode {
		t.Errorf("expected ledger code %s, got %s", ledgerCode, info.Code)
	}
	return info
}

// seed registers a house with February and March invoices, a 1500.00 credit and a
// resident claim for it. It returns the pay-in ID.
func seed(t *testing.T, ctx context.Context, admin, resident clients, claim string) string {
	t.Helper()

	if _, err := admin.feed.RegisterHouse(ctx, connect.NewRequest(&api.RegisterHouseRequest{
		House: api.House{ID: "h-12", Label: "12 Palm Grove", Occupied: true},
	})); err != nil {
		t.Fatalf("RegisterHouse failed: %v", err)
	}
	for _, inv := range []api.IssueInvoiceRequest{
		{ID: "inv-feb", HouseID: "h-12", Period: "2025-02", AmountDue: "800.00"},
		{ID: "inv-mar", HouseID: "h-12", Period: "2025-03", AmountDue: "700.00"},
	} {
		if _, err := admin.feed.IssueInvoice(ctx, connect.NewRequest(&inv)); err != nil {
			t.Fatalf("IssueInvoice %s failed: %v", inv.ID, err)
		}
	}

	importResp, err := admin.feed.ImportBankTransactions(ctx, connect.NewRequest(&api.ImportBankTransactionsRequest{
		Transactions: []api.BankTransaction{
			{ID: "txn-1", AccountID: "acc-main", EffectiveAt: bankAt, Credit: "1500.00", Description: "TRANSFER 12 PALM"},
		},
	}))
	if err != nil {
		t.Fatalf("ImportBankTransactions failed: %v", err)
	}
	if importResp.Msg.Imported != 1 || importResp.Msg.BatchID == "" {
		t.Errorf("unexpected import response: %+v", importResp.Msg)
	}

	submitResp, err := resident.reconcile.SubmitPayIn(ctx, connect.NewRequest(&api.SubmitPayInRequest{
		HouseID:   "h-12",
		Amount:    claim,
		ClaimedAt: claimedAt,
	}))
	if err != nil {
		t.Fatalf("SubmitPayIn failed: %v", err)
	}
	if submitResp.Msg.PayIn.Status != "SUBMITTED" {
		t.Errorf("status: expected SUBMITTED, got %s", submitResp.Msg.PayIn.Status)
	}
	return submitResp.Msg.PayIn.ID
}

func TestReconcileFlow(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	admin := srv.as(t, "ann", auth.RoleAdmin)
	staff := srv.as(t, "sam", auth.RoleStaff)
	resident := srv.as(t, "res-1", auth.RoleResident)
	root := srv.as(t, "root", auth.RoleSuperadmin)

	payInID := seed(t, ctx, admin, resident, "1500.00")

	// Find candidates
	findResp, err := staff.reconcile.FindMatchCandidates(ctx, connect.NewRequest(&api.FindMatchCandidatesRequest{PayInID: payInID}))
	if err != nil {
		t.Fatalf("FindMatchCandidates failed: %v", err)
	}
	if len(findResp.Msg.Candidates) != 1 {
		t.Fatalf("candidates: expected 1, got %d", len(findResp.Msg.Candidates))
	}
	cand := findResp.Msg.Candidates[0]
	if cand.Txn.ID != "txn-1" || cand.TimeDiffSecs != 35 || !cand.IsPerfectMatch {
		t.Errorf("unexpected candidate: %+v", cand)
	}

	// Residents cannot bind
	_, err = resident.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: "txn-1", PayInID: payInID}))
	info := expectError(t, err, connect.CodePermissionDenied, "FORBIDDEN")
	if info.Fields["capability"] != "RECONCILE" {
		t.Errorf("capability: expected RECONCILE, got %q", info.Fields["capability"])
	}

	if _, err := staff.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: "txn-1", PayInID: payInID})); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// Post
	postResp, err := staff.reconcile.ConfirmAndPost(ctx, connect.NewRequest(&api.ConfirmAndPostRequest{TxnID: "txn-1"}))
	if err != nil {
		t.Fatalf("ConfirmAndPost failed: %v", err)
	}
	if postResp.Msg.Status != "posted" {
		t.Errorf("status: expected posted, got %s", postResp.Msg.Status)
	}
	if postResp.Msg.Entry.Amount != "1500.00" {
		t.Errorf("entry amount: expected 1500.00, got %s", postResp.Msg.Entry.Amount)
	}
	if len(postResp.Msg.Allocations) != 2 {
		t.Fatalf("allocations: expected 2, got %d", len(postResp.Msg.Allocations))
	}
	if a := postResp.Msg.Allocations[0]; a.InvoiceID != "inv-feb" || a.Amount != "800.00" {
		t.Errorf("first allocation: expected inv-feb 800.00, got %s %s", a.InvoiceID, a.Amount)
	}
	if a := postResp.Msg.Allocations[1]; a.InvoiceID != "inv-mar" || a.Amount != "700.00" {
		t.Errorf("second allocation: expected inv-mar 700.00, got %s %s", a.InvoiceID, a.Amount)
	}

	// Posting twice is a no-op
	again, err := staff.reconcile.ConfirmAndPost(ctx, connect.NewRequest(&api.ConfirmAndPostRequest{TxnID: "txn-1"}))
	if err != nil {
		t.Fatalf("second ConfirmAndPost failed: %v", err)
	}
	if again.Msg.Status != "already_posted" || again.Msg.Entry.ID != postResp.Msg.Entry.ID {
		t.Errorf("expected already_posted with entry %s, got %s %s", postResp.Msg.Entry.ID, again.Msg.Status, again.Msg.Entry.ID)
	}

	getResp, err := resident.reconcile.GetPosting(ctx, connect.NewRequest(&api.GetPostingRequest{PayInID: payInID}))
	if err != nil {
		t.Fatalf("GetPosting failed: %v", err)
	}
	if getResp.Msg.Entry.ID != postResp.Msg.Entry.ID {
		t.Errorf("GetPosting: expected entry %s, got %s", postResp.Msg.Entry.ID, getResp.Msg.Entry.ID)
	}

	// Lock March; the posting can no longer be reversed
	lockResp, err := admin.period.LockPeriod(ctx, connect.NewRequest(&api.LockPeriodRequest{Period: "2025-03", Notes: "month end"}))
	if err != nil {
		t.Fatalf("LockPeriod failed: %v", err)
	}
	snap := lockResp.Msg.Period.Snapshot
	if lockResp.Msg.Period.Status != "LOCKED" || snap == nil {
		t.Fatalf("expected LOCKED period with snapshot, got %+v", lockResp.Msg.Period)
	}
	if snap.Version != 1 || snap.CashReceived != "1500.00" || snap.ARBalance != "0.00" || snap.OccupiedHouses != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	_, err = admin.reconcile.ReversePosting(ctx, connect.NewRequest(&api.ReversePostingRequest{TxnID: "txn-1", Reason: "duplicate transfer"}))
	info = expectError(t, err, connect.CodeFailedPrecondition, "PERIOD_LOCKED")
	if info.Fields["period"] != "2025-03" {
		t.Errorf("period field: expected 2025-03, got %q", info.Fields["period"])
	}

	// Unlock needs a superadmin and a real reason
	_, err = admin.period.UnlockPeriod(ctx, connect.NewRequest(&api.UnlockPeriodRequest{Period: "2025-03", Reason: "fixing a duplicate transfer"}))
	expectError(t, err, connect.CodePermissionDenied, "FORBIDDEN")

	_, err = root.period.UnlockPeriod(ctx, connect.NewRequest(&api.UnlockPeriodRequest{Period: "2025-03", Reason: "oops"}))
	expectError(t, err, connect.CodeInvalidArgument, "REASON_TOO_SHORT")

	unlockResp, err := root.period.UnlockPeriod(ctx, connect.NewRequest(&api.UnlockPeriodRequest{Period: "2025-03", Reason: "fixing a duplicate transfer"}))
	if err != nil {
		t.Fatalf("UnlockPeriod failed: %v", err)
	}
	if unlockResp.Msg.Period.Status != "DRAFT" || unlockResp.Msg.Unlock.UnlockedBy != "root" {
		t.Errorf("unexpected unlock response: %+v", unlockResp.Msg)
	}

	// Staff cannot reverse, admins can
	_, err = staff.reconcile.ReversePosting(ctx, connect.NewRequest(&api.ReversePostingRequest{TxnID: "txn-1", Reason: "duplicate transfer"}))
	expectError(t, err, connect.CodePermissionDenied, "FORBIDDEN")

	revResp, err := admin.reconcile.ReversePosting(ctx, connect.NewRequest(&api.ReversePostingRequest{TxnID: "txn-1", Reason: "duplicate transfer"}))
	if err != nil {
		t.Fatalf("ReversePosting failed: %v", err)
	}
	if revResp.Msg.PayIn.PostingStatus != "REVERSED" || revResp.Msg.Entry.VoidedAt.IsZero() {
		t.Errorf("expected reversed pay-in and voided entry, got %+v", revResp.Msg)
	}
	if len(revResp.Msg.Compensations) != 2 || revResp.Msg.Compensations[0].Amount != "-800.00" {
		t.Errorf("unexpected compensations: %+v", revResp.Msg.Compensations)
	}

	// The reversed posting stays readable with its originals and compensations
	histResp, err := resident.reconcile.ListPostings(ctx, connect.NewRequest(&api.ListPostingsRequest{PayInID: payInID}))
	if err != nil {
		t.Fatalf("ListPostings failed: %v", err)
	}
	if len(histResp.Msg.Postings) != 1 {
		t.Fatalf("expected 1 posting in history, got %d", len(histResp.Msg.Postings))
	}
	hist := histResp.Msg.Postings[0]
	if hist.Entry.ID != postResp.Msg.Entry.ID || hist.Entry.VoidReason != "duplicate transfer" {
		t.Errorf("unexpected history entry: %+v", hist.Entry)
	}
	if len(hist.Allocations) != 4 || hist.Allocations[0].Amount != "800.00" || hist.Allocations[2].ReversesID != hist.Allocations[0].ID {
		t.Errorf("unexpected history allocations: %+v", hist.Allocations)
	}

	invResp, err := resident.feed.GetInvoice(ctx, connect.NewRequest(&api.GetInvoiceRequest{InvoiceID: "inv-feb"}))
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if invResp.Msg.Invoice.AmountPaid != "0.00" || invResp.Msg.Invoice.Status != "OPEN" {
		t.Errorf("expected restored invoice, got %+v", invResp.Msg.Invoice)
	}

	// Audit trail: lock, unlock, reversal
	auditResp, err := admin.period.ListAudit(ctx, connect.NewRequest(&api.ListAuditRequest{}))
	if err != nil {
		t.Fatalf("ListAudit failed: %v", err)
	}
	var kinds []string
	for _, e := range auditResp.Msg.Entries {
		kinds = append(kinds, e.Kind)
	}
	if len(kinds) != 3 || kinds[0] != "PERIOD_LOCK" || kinds[1] != "PERIOD_UNLOCK" || kinds[2] != "POSTING_REVERSAL" {
		t.Errorf("unexpected audit kinds: %v", kinds)
	}

	verifyResp, err := admin.period.VerifyAudit(ctx, connect.NewRequest(&api.VerifyAuditRequest{}))
	if err != nil {
		t.Fatalf("VerifyAudit failed: %v", err)
	}
	if !verifyResp.Msg.Valid || verifyResp.Msg.Entries != 3 {
		t.Errorf("expected a valid chain of 3, got %+v", verifyResp.Msg)
	}
}

func TestConfirmAndPostAmbiguous(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	admin := srv.as(t, "ann", auth.RoleAdmin)
	resident := srv.as(t, "res-1", auth.RoleResident)

	seed(t, ctx, admin, resident, "1500.00")

	if _, err := admin.feed.ImportBankTransactions(ctx, connect.NewRequest(&api.ImportBankTransactionsRequest{
		Transactions: []api.BankTransaction{{ID: "txn-2", AccountID: "acc-main", EffectiveAt: bankAt, Credit: "2000.00"}},
	})); err != nil {
		t.Fatalf("ImportBankTransactions failed: %v", err)
	}
	submitResp, err := resident.reconcile.SubmitPayIn(ctx, connect.NewRequest(&api.SubmitPayInRequest{
		HouseID: "h-12", Amount: "2000.00", ClaimedAt: claimedAt,
	}))
	if err != nil {
		t.Fatalf("SubmitPayIn failed: %v", err)
	}
	if _, err := admin.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: "txn-2", PayInID: submitResp.Msg.PayIn.ID})); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	_, err = admin.reconcile.ConfirmAndPost(ctx, connect.NewRequest(&api.ConfirmAndPostRequest{TxnID: "txn-2"}))
	info := expectError(t, err, connect.CodeFailedPrecondition, "AMBIGUOUS")
	if info.Fields["excess"] != "500.00" || info.Fields["outstanding"] != "1500.00" {
		t.Errorf("unexpected ambiguity fields: %v", info.Fields)
	}

	// Nothing was written
	payIn, err := admin.reconcile.GetPayIn(ctx, connect.NewRequest(&api.GetPayInRequest{PayInID: submitResp.Msg.PayIn.ID}))
	if err != nil {
		t.Fatalf("GetPayIn failed: %v", err)
	}
	if payIn.Msg.PayIn.PostingStatus != "UNPOSTED" {
		t.Errorf("posting status: expected UNPOSTED, got %s", payIn.Msg.PayIn.PostingStatus)
	}
}

func TestBindConflicts(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	admin := srv.as(t, "ann", auth.RoleAdmin)
	resident := srv.as(t, "res-1", auth.RoleResident)

	first := seed(t, ctx, admin, resident, "1500.00")
	second, err := resident.reconcile.SubmitPayIn(ctx, connect.NewRequest(&api.SubmitPayInRequest{
		HouseID: "h-12", Amount: "1500.00", ClaimedAt: claimedAt,
	}))
	if err != nil {
		t.Fatalf("SubmitPayIn failed: %v", err)
	}

	if _, err := admin.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: "txn-1", PayInID: first})); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	_, err = admin.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: "txn-1", PayInID: second.Msg.PayIn.ID}))
	info := expectError(t, err, connect.CodeAlreadyExists, "TXN_ALREADY_BOUND")
	if info.Fields["bound_to"] != first {
		t.Errorf("bound_to: expected %s, got %q", first, info.Fields["bound_to"])
	}

	// The second claim now sees the credit as a near miss
	findResp, err := admin.reconcile.FindMatchCandidates(ctx, connect.NewRequest(&api.FindMatchCandidatesRequest{PayInID: second.Msg.PayIn.ID}))
	if err != nil {
		t.Fatalf("FindMatchCandidates failed: %v", err)
	}
	if len(findResp.Msg.Candidates) != 0 || len(findResp.Msg.NearMisses) != 1 {
		t.Fatalf("expected no candidates and one near miss, got %+v", findResp.Msg)
	}
	if nm := findResp.Msg.NearMisses[0]; nm.Reason != matcher.ReasonAlreadyBound || nm.BoundTo != first {
		t.Errorf("unexpected near miss: %+v", nm)
	}

	if _, err := admin.reconcile.Unbind(ctx, connect.NewRequest(&api.UnbindRequest{TxnID: "txn-1"})); err != nil {
		t.Fatalf("Unbind failed: %v", err)
	}
	if _, err := admin.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: "txn-1", PayInID: second.Msg.PayIn.ID})); err != nil {
		t.Fatalf("Bind after unbind failed: %v", err)
	}
}

func TestCancelOwnership(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	admin := srv.as(t, "ann", auth.RoleAdmin)
	resident := srv.as(t, "res-1", auth.RoleResident)
	neighbour := srv.as(t, "res-2", auth.RoleResident)

	payInID := seed(t, ctx, admin, resident, "1500.00")

	_, err := neighbour.reconcile.CancelPayIn(ctx, connect.NewRequest(&api.CancelPayInRequest{PayInID: payInID, Reason: "not mine"}))
	expectError(t, err, connect.CodePermissionDenied, "FORBIDDEN")

	resp, err := resident.reconcile.CancelPayIn(ctx, connect.NewRequest(&api.CancelPayInRequest{PayInID: payInID, Reason: "sent twice"}))
	if err != nil {
		t.Fatalf("CancelPayIn failed: %v", err)
	}
	if resp.Msg.PayIn.Status != "CANCELLED" || resp.Msg.PayIn.SubmittedBy != "res-1" {
		t.Errorf("unexpected pay-in: %+v", resp.Msg.PayIn)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := setupTestServer(t)
	anon := srv.as(t, "", "")

	_, err := anon.period.GetPeriod(context.Background(), connect.NewRequest(&api.GetPeriodRequest{Period: "2025-03"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated, got %v", err)
	}

	bad := api.NewPeriodServiceClient(http.DefaultClient, srv.url, api.WithToken("not-a-token"))
	_, err = bad.GetPeriod(context.Background(), connect.NewRequest(&api.GetPeriodRequest{Period: "2025-03"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated for a bad token, got %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	admin := srv.as(t, "ann", auth.RoleAdmin)
	resident := srv.as(t, "res-1", auth.RoleResident)
	staff := srv.as(t, "sam", auth.RoleStaff)

	_, err := resident.reconcile.SubmitPayIn(ctx, connect.NewRequest(&api.SubmitPayInRequest{
		HouseID: "h-12", Amount: "10.005", ClaimedAt: claimedAt,
	}))
	expectError(t, err, connect.CodeInvalidArgument, "INVALID_AMOUNT")

	_, err = admin.period.GetPeriod(ctx, connect.NewRequest(&api.GetPeriodRequest{Period: "March"}))
	expectError(t, err, connect.CodeInvalidArgument, "INVALID_ARGUMENT")

	_, err = admin.reconcile.GetPayIn(ctx, connect.NewRequest(&api.GetPayInRequest{PayInID: "missing"}))
	expectError(t, err, connect.CodeNotFound, "NOT_FOUND")

	_, err = staff.feed.ImportBankTransactions(ctx, connect.NewRequest(&api.ImportBankTransactionsRequest{
		Transactions: []api.BankTransaction{{ID: "txn-9", AccountID: "acc", EffectiveAt: bankAt, Credit: "1.00"}},
	}))
	expectError(t, err, connect.CodePermissionDenied, "FORBIDDEN")

	periodResp, err := admin.period.GetPeriod(ctx, connect.NewRequest(&api.GetPeriodRequest{Period: "2025-03"}))
	if err != nil {
		t.Fatalf("GetPeriod failed: %v", err)
	}
	if periodResp.Msg.Period.Status != "DRAFT" {
		t.Errorf("status: expected DRAFT for a never-locked month, got %s", periodResp.Msg.Period.Status)
	}
}

func TestExpensesAndCreditNotes(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	admin := srv.as(t, "ann", auth.RoleAdmin)
	staff := srv.as(t, "sam", auth.RoleStaff)
	resident := srv.as(t, "res-1", auth.RoleResident)

	_, err := resident.expense.RecordExpense(ctx, connect.NewRequest(&api.RecordExpenseRequest{
		Category: "security", Amount: "300.00", IncurredAt: claimedAt,
	}))
	expectError(t, err, connect.CodePermissionDenied, "FORBIDDEN")

	recResp, err := staff.expense.RecordExpense(ctx, connect.NewRequest(&api.RecordExpenseRequest{
		Category: "security", Description: "night guard", Amount: "300.00", IncurredAt: claimedAt,
	}))
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if recResp.Msg.Expense.Status != "PENDING" {
		t.Errorf("status: expected PENDING, got %s", recResp.Msg.Expense.Status)
	}

	updResp, err := staff.expense.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: recResp.Msg.Expense.ID, Category: "security", Amount: "320.00", IncurredAt: claimedAt, Status: "PAID",
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if updResp.Msg.Expense.Amount != "320.00" || updResp.Msg.Expense.Status != "PAID" {
		t.Errorf("unexpected update: %+v", updResp.Msg.Expense)
	}

	if _, err := staff.expense.IssueCreditNote(ctx, connect.NewRequest(&api.IssueCreditNoteRequest{
		HouseID: "h-12", Amount: "25.00", IssuedAt: claimedAt, Reason: "water outage",
	})); err != nil {
		t.Fatalf("IssueCreditNote failed: %v", err)
	}

	lockResp, err := admin.period.LockPeriod(ctx, connect.NewRequest(&api.LockPeriodRequest{Period: "2025-03"}))
	if err != nil {
		t.Fatalf("LockPeriod failed: %v", err)
	}
	snap := lockResp.Msg.Period.Snapshot
	if snap.ExpensesPaid != "320.00" || snap.ExpensesPending != "0.00" || snap.CreditNotes != "25.00" {
		t.Errorf("unexpected snapshot totals: %+v", snap)
	}

	_, err = staff.expense.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: recResp.Msg.Expense.ID, Category: "security", Amount: "330.00", IncurredAt: claimedAt, Status: "PAID",
	}))
	expectError(t, err, connect.CodeFailedPrecondition, "PERIOD_LOCKED")

	_, err = admin.period.LockPeriod(ctx, connect.NewRequest(&api.LockPeriodRequest{Period: "2025-03"}))
	expectError(t, err, connect.CodeAlreadyExists, "PERIOD_ALREADY_LOCKED")
}
