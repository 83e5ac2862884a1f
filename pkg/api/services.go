package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// handlerOptions and clientOptions put the JSON codec ahead of caller options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// ReconcileServiceHandler is implemented by the server side of ReconcileService.
type ReconcileServiceHandler interface {
	SubmitPayIn(context.Context, *connect.Request[SubmitPayInRequest]) (*connect.Response[PayInResponse], error)
	ResubmitPayIn(context.Context, *connect.Request[ResubmitPayInRequest]) (*connect.Response[PayInResponse], error)
	RejectPayIn(context.Context, *connect.Request[RejectPayInRequest]) (*connect.Response[PayInResponse], error)
	CancelPayIn(context.Context, *connect.Request[CancelPayInRequest]) (*connect.Response[PayInResponse], error)
	GetPayIn(context.Context, *connect.Request[GetPayInRequest]) (*connect.Response[PayInResponse], error)
	ListPayIns(context.Context, *connect.Request[ListPayInsRequest]) (*connect.Response[ListPayInsResponse], error)
	FindMatchCandidates(context.Context, *connect.Request[FindMatchCandidatesRequest]) (*connect.Response[FindMatchCandidatesResponse], error)
	Bind(context.Context, *connect.Request[BindRequest]) (*connect.Response[BindResponse], error)
	Unbind(context.Context, *connect.Request[UnbindRequest]) (*connect.Response[UnbindResponse], error)
	ConfirmAndPost(context.Context, *connect.Request[ConfirmAndPostRequest]) (*connect.Response[PostingResponse], error)
	ReversePosting(context.Context, *connect.Request[ReversePostingRequest]) (*connect.Response[ReversePostingResponse], error)
	GetPosting(context.Context, *connect.Request[GetPostingRequest]) (*connect.Response[PostingResponse], error)
	ListPostings(context.Context, *connect.Request[ListPostingsRequest]) (*connect.Response[ListPostingsResponse], error)
}

// NewReconcileServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewReconcileServiceHandler(svc ReconcileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, ReconcileSubmitPayInProcedure, svc.SubmitPayIn, opts)
	handle(mux, ReconcileResubmitPayInProcedure, svc.ResubmitPayIn, opts)
	handle(mux, ReconcileRejectPayInProcedure, svc.RejectPayIn, opts)
	handle(mux, ReconcileCancelPayInProcedure, svc.CancelPayIn, opts)
	handle(mux, ReconcileGetPayInProcedure, svc.GetPayIn, opts)
	handle(mux, ReconcileListPayInsProcedure, svc.ListPayIns, opts)
	handle(mux, ReconcileFindMatchCandidatesProcedure, svc.FindMatchCandidates, opts)
	handle(mux, ReconcileBindProcedure, svc.Bind, opts)
	handle(mux, ReconcileUnbindProcedure, svc.Unbind, opts)
	handle(mux, ReconcileConfirmAndPostProcedure, svc.ConfirmAndPost, opts)
	handle(mux, ReconcileReversePostingProcedure, svc.ReversePosting, opts)
	handle(mux, ReconcileGetPostingProcedure, svc.GetPosting, opts)
	handle(mux, ReconcileListPostingsProcedure, svc.ListPostings, opts)
	return "/" + ReconcileServiceName + "/", mux
}

// ReconcileServiceClient is a client for ReconcileService.
type ReconcileServiceClient interface {
	SubmitPayIn(context.Context, *connect.Request[SubmitPayInRequest]) (*connect.Response[PayInResponse], error)
	ResubmitPayIn(context.Context, *connect.Request[ResubmitPayInRequest]) (*connect.Response[PayInResponse], error)
	RejectPayIn(context.Context, *connect.Request[RejectPayInRequest]) (*connect.Response[PayInResponse], error)
	CancelPayIn(context.Context, *connect.Request[CancelPayInRequest]) (*connect.Response[PayInResponse], error)
	GetPayIn(context.Context, *connect.Request[GetPayInRequest]) (*connect.Response[PayInResponse], error)
	ListPayIns(context.Context, *connect.Request[ListPayInsRequest]) (*connect.Response[ListPayInsResponse], error)
	FindMatchCandidates(context.Context, *connect.Request[FindMatchCandidatesRequest]) (*connect.Response[FindMatchCandidatesResponse], error)
	Bind(context.Context, *connect.Request[BindRequest]) (*connect.Response[BindResponse], error)
	Unbind(context.Context, *connect.Request[UnbindRequest]) (*connect.Response[UnbindResponse], error)
	ConfirmAndPost(context.Context, *connect.Request[ConfirmAndPostRequest]) (*connect.Response[PostingResponse], error)
	ReversePosting(context.Context, *connect.Request[ReversePostingRequest]) (*connect.Response[ReversePostingResponse], error)
	GetPosting(context.Context, *connect.Request[GetPostingRequest]) (*connect.Response[PostingResponse], error)
	ListPostings(context.Context, *connect.Request[ListPostingsRequest]) (*connect.Response[ListPostingsResponse], error)
}

// NewReconcileServiceClient constructs a client for ReconcileService. baseURL is the server root,
// for example http://localhost:8080.
func NewReconcileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReconcileServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &reconcileServiceClient{
		submitPayIn:         connect.NewClient[SubmitPayInRequest, PayInResponse](httpClient, baseURL+ReconcileSubmitPayInProcedure, opts...),
		resubmitPayIn:       connect.NewClient[ResubmitPayInRequest, PayInResponse](httpClient, baseURL+ReconcileResubmitPayInProcedure, opts...),
		rejectPayIn:         connect.NewClient[RejectPayInRequest, PayInResponse](httpClient, baseURL+ReconcileRejectPayInProcedure, opts...),
		cancelPayIn:         connect.NewClient[CancelPayInRequest, PayInResponse](httpClient, baseURL+ReconcileCancelPayInProcedure, opts...),
		getPayIn:            connect.NewClient[GetPayInRequest, PayInResponse](httpClient, baseURL+ReconcileGetPayInProcedure, opts...),
		listPayIns:          connect.NewClient[ListPayInsRequest, ListPayInsResponse](httpClient, baseURL+ReconcileListPayInsProcedure, opts...),
		findMatchCandidates: connect.NewClient[FindMatchCandidatesRequest, FindMatchCandidatesResponse](httpClient, baseURL+ReconcileFindMatchCandidatesProcedure, opts...),
		bind:                connect.NewClient[BindRequest, BindResponse](httpClient, baseURL+ReconcileBindProcedure, opts...),
		unbind:              connect.NewClient[UnbindRequest, UnbindResponse](httpClient, baseURL+ReconcileUnbindProcedure, opts...),
		confirmAndPost:      connect.NewClient[ConfirmAndPostRequest, PostingResponse](httpClient, baseURL+ReconcileConfirmAndPostProcedure, opts...),
		reversePosting:      connect.NewClient[ReversePostingRequest, ReversePostingResponse](httpClient, baseURL+ReconcileReversePostingProcedure, opts...),
		getPosting:          connect.NewClient[GetPostingRequest, PostingResponse](httpClient, baseURL+ReconcileGetPostingProcedure, opts...),
		listPostings:        connect.NewClient[ListPostingsRequest, ListPostingsResponse](httpClient, baseURL+ReconcileListPostingsProcedure, opts...),
	}
}

type reconcileServiceClient struct {
	submitPayIn         *connect.Client[SubmitPayInRequest, PayInResponse]
	resubmitPayIn       *connect.Client[ResubmitPayInRequest, PayInResponse]
	rejectPayIn         *connect.Client[RejectPayInRequest, PayInResponse]
	cancelPayIn         *connect.Client[CancelPayInRequest, PayInResponse]
	getPayIn            *connect.Client[GetPayInRequest, PayInResponse]
	listPayIns          *connect.Client[ListPayInsRequest, ListPayInsResponse]
	findMatchCandidates *connect.Client[FindMatchCandidatesRequest, FindMatchCandidatesResponse]
	bind                *connect.Client[BindRequest, BindResponse]
	unbind              *connect.Client[UnbindRequest, UnbindResponse]
	confirmAndPost      *connect.Client[ConfirmAndPostRequest, PostingResponse]
	reversePosting      *connect.Client[ReversePostingRequest, ReversePostingResponse]
	getPosting          *connect.Client[GetPostingRequest, PostingResponse]
	listPostings        *connect.Client[ListPostingsRequest, ListPostingsResponse]
}

func (c *reconcileServiceClient) SubmitPayIn(ctx context.Context, req *connect.Request[SubmitPayInRequest]) (*connect.Response[PayInResponse], error) {
	return c.submitPayIn.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) ResubmitPayIn(ctx context.Context, req *connect.Request[ResubmitPayInRequest]) (*connect.Response[PayInResponse], error) {
	return c.resubmitPayIn.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) RejectPayIn(ctx context.Context, req *connect.Request[RejectPayInRequest]) (*connect.Response[PayInResponse], error) {
	return c.rejectPayIn.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) CancelPayIn(ctx context.Context, req *connect.Request[CancelPayInRequest]) (*connect.Response[PayInResponse], error) {
	return c.cancelPayIn.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) GetPayIn(ctx context.Context, req *connect.Request[GetPayInRequest]) (*connect.Response[PayInResponse], error) {
	return c.getPayIn.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) ListPayIns(ctx context.Context, req *connect.Request[ListPayInsRequest]) (*connect.Response[ListPayInsResponse], error) {
	return c.listPayIns.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) FindMatchCandidates(ctx context.Context, req *connect.Request[FindMatchCandidatesRequest]) (*connect.Response[FindMatchCandidatesResponse], error) {
	return c.findMatchCandidates.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) Bind(ctx context.Context, req *connect.Request[BindRequest]) (*connect.Response[BindResponse], error) {
	return c.bind.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) Unbind(ctx context.Context, req *connect.Request[UnbindRequest]) (*connect.Response[UnbindResponse], error) {
	return c.unbind.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) ConfirmAndPost(ctx context.Context, req *connect.Request[ConfirmAndPostRequest]) (*connect.Response[PostingResponse], error) {
	return c.confirmAndPost.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) ReversePosting(ctx context.Context, req *connect.Request[ReversePostingRequest]) (*connect.Response[ReversePostingResponse], error) {
	return c.reversePosting.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) GetPosting(ctx context.Context, req *connect.Request[GetPostingRequest]) (*connect.Response[PostingResponse], error) {
	return c.getPosting.CallUnary(ctx, req)
}

func (c *reconcileServiceClient) ListPostings(ctx context.Context, req *connect.Request[ListPostingsRequest]) (*connect.Response[ListPostingsResponse], error) {
	return c.listPostings.CallUnary(ctx, req)
}

// PeriodServiceHandler is implemented by the server side of PeriodService.
type PeriodServiceHandler interface {
	LockPeriod(context.Context, *connect.Request[LockPeriodRequest]) (*connect.Response[PeriodResponse], error)
	UnlockPeriod(context.Context, *connect.Request[UnlockPeriodRequest]) (*connect.Response[UnlockPeriodResponse], error)
	GetPeriod(context.Context, *connect.Request[GetPeriodRequest]) (*connect.Response[PeriodResponse], error)
	ListSnapshots(context.Context, *connect.Request[ListSnapshotsRequest]) (*connect.Response[ListSnapshotsResponse], error)
	ListUnlockLogs(context.Context, *connect.Request[ListUnlockLogsRequest]) (*connect.Response[ListUnlockLogsResponse], error)
	ListAudit(context.Context, *connect.Request[ListAuditRequest]) (*connect.Response[ListAuditResponse], error)
	VerifyAudit(context.Context, *connect.Request[VerifyAuditRequest]) (*connect.Response[VerifyAuditResponse], error)
}

// NewPeriodServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewPeriodServiceHandler(svc PeriodServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, PeriodLockProcedure, svc.LockPeriod, opts)
	handle(mux, PeriodUnlockProcedure, svc.UnlockPeriod, opts)
	handle(mux, PeriodGetProcedure, svc.GetPeriod, opts)
	handle(mux, PeriodListSnapshotsProcedure, svc.ListSnapshots, opts)
	handle(mux, PeriodListUnlockLogsProcedure, svc.ListUnlockLogs, opts)
	handle(mux, PeriodListAuditProcedure, svc.ListAudit, opts)
	handle(mux, PeriodVerifyAuditProcedure, svc.VerifyAudit, opts)
	return "/" + PeriodServiceName + "/", mux
}

// PeriodServiceClient is a client for PeriodService.
type PeriodServiceClient interface {
	LockPeriod(context.Context, *connect.Request[LockPeriodRequest]) (*connect.Response[PeriodResponse], error)
	UnlockPeriod(context.Context, *connect.Request[UnlockPeriodRequest]) (*connect.Response[UnlockPeriodResponse], error)
	GetPeriod(context.Context, *connect.Request[GetPeriodRequest]) (*connect.Response[PeriodResponse], error)
	ListSnapshots(context.Context, *connect.Request[ListSnapshotsRequest]) (*connect.Response[ListSnapshotsResponse], error)
	ListUnlockLogs(context.Context, *connect.Request[ListUnlockLogsRequest]) (*connect.Response[ListUnlockLogsResponse], error)
	ListAudit(context.Context, *connect.Request[ListAuditRequest]) (*connect.Response[ListAuditResponse], error)
	VerifyAudit(context.Context, *connect.Request[VerifyAuditRequest]) (*connect.Response[VerifyAuditResponse], error)
}

// NewPeriodServiceClient constructs a client for PeriodService. baseURL is the server root,
// for example http://localhost:8080.
func NewPeriodServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PeriodServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &periodServiceClient{
		lockPeriod:     connect.NewClient[LockPeriodRequest, PeriodResponse](httpClient, baseURL+PeriodLockProcedure, opts...),
		unlockPeriod:   connect.NewClient[UnlockPeriodRequest, UnlockPeriodResponse](httpClient, baseURL+PeriodUnlockProcedure, opts...),
		getPeriod:      connect.NewClient[GetPeriodRequest, PeriodResponse](httpClient, baseURL+PeriodGetProcedure, opts...),
		listSnapshots:  connect.NewClient[ListSnapshotsRequest, ListSnapshotsResponse](httpClient, baseURL+PeriodListSnapshotsProcedure, opts...),
		listUnlockLogs: connect.NewClient[ListUnlockLogsRequest, ListUnlockLogsResponse](httpClient, baseURL+PeriodListUnlockLogsProcedure, opts...),
		listAudit:      connect.NewClient[ListAuditRequest, ListAuditResponse](httpClient, baseURL+PeriodListAuditProcedure, opts...),
		verifyAudit:    connect.NewClient[VerifyAuditRequest, VerifyAuditResponse](httpClient, baseURL+PeriodVerifyAuditProcedure, opts...),
	}
}

type periodServiceClient struct {
	lockPeriod     *connect.Client[LockPeriodRequest, PeriodResponse]
	unlockPeriod   *connect.Client[UnlockPeriodRequest, UnlockPeriodResponse]
	getPeriod      *connect.Client[GetPeriodRequest, PeriodResponse]
	listSnapshots  *connect.Client[ListSnapshotsRequest, ListSnapshotsResponse]
	listUnlockLogs *connect.Client[ListUnlockLogsRequest, ListUnlockLogsResponse]
	listAudit      *connect.Client[ListAuditRequest, ListAuditResponse]
	verifyAudit    *connect.Client[VerifyAuditRequest, VerifyAuditResponse]
}

func (c *periodServiceClient) LockPeriod(ctx context.Context, req *connect.Request[LockPeriodRequest]) (*connect.Response[PeriodResponse], error) {
	return c.lockPeriod.CallUnary(ctx, req)
}

func (c *periodServiceClient) UnlockPeriod(ctx context.Context, req *connect.Request[UnlockPeriodRequest]) (*connect.Response[UnlockPeriodResponse], error) {
	return c.unlockPeriod.CallUnary(ctx, req)
}

func (c *periodServiceClient) GetPeriod(ctx context.Context, req *connect.Request[GetPeriodRequest]) (*connect.Response[PeriodResponse], error) {
	return c.getPeriod.CallUnary(ctx, req)
}

func (c *periodServiceClient) ListSnapshots(ctx context.Context, req *connect.Request[ListSnapshotsRequest]) (*connect.Response[ListSnapshotsResponse], error) {
	return c.listSnapshots.CallUnary(ctx, req)
}

func (c *periodServiceClient) ListUnlockLogs(ctx context.Context, req *connect.Request[ListUnlockLogsRequest]) (*connect.Response[ListUnlockLogsResponse], error) {
	return c.listUnlockLogs.CallUnary(ctx, req)
}

func (c *periodServiceClient) ListAudit(ctx context.Context, req *connect.Request[ListAuditRequest]) (*connect.Response[ListAuditResponse], error) {
	return c.listAudit.CallUnary(ctx, req)
}

func (c *periodServiceClient) VerifyAudit(ctx context.Context, req *connect.Request[VerifyAuditRequest]) (*connect.Response[VerifyAuditResponse], error) {
	return c.verifyAudit.CallUnary(ctx, req)
}

// FeedServiceHandler is implemented by the server side of FeedService.
type FeedServiceHandler interface {
	ImportBankTransactions(context.Context, *connect.Request[ImportBankTransactionsRequest]) (*connect.Response[ImportBankTransactionsResponse], error)
	IssueInvoice(context.Context, *connect.Request[IssueInvoiceRequest]) (*connect.Response[InvoiceResponse], error)
	GetInvoice(context.Context, *connect.Request[GetInvoiceRequest]) (*connect.Response[InvoiceResponse], error)
	RegisterHouse(context.Context, *connect.Request[RegisterHouseRequest]) (*connect.Response[HouseResponse], error)
}

// NewFeedServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewFeedServiceHandler(svc FeedServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, FeedImportBankTransactionsProcedure, svc.ImportBankTransactions, opts)
	handle(mux, FeedIssueInvoiceProcedure, svc.IssueInvoice, opts)
	handle(mux, FeedGetInvoiceProcedure, svc.GetInvoice, opts)
	handle(mux, FeedRegisterHouseProcedure, svc.RegisterHouse, opts)
	return "/" + FeedServiceName + "/", mux
}

// FeedServiceClient is a client for FeedService.
type FeedServiceClient interface {
	ImportBankTransactions(context.Context, *connect.Request[ImportBankTransactionsRequest]) (*connect.Response[ImportBankTransactionsResponse], error)
	IssueInvoice(context.Context, *connect.Request[IssueInvoiceRequest]) (*connect.Response[InvoiceResponse], error)
	GetInvoice(context.Context, *connect.Request[GetInvoiceRequest]) (*connect.Response[InvoiceResponse], error)
	RegisterHouse(context.Context, *connect.Request[RegisterHouseRequest]) (*connect.Response[HouseResponse], error)
}

// NewFeedServiceClient constructs a client for FeedService. baseURL is the server root,
// for example http://localhost:8080.
func NewFeedServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FeedServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &feedServiceClient{
		importBankTransactions: connect.NewClient[ImportBankTransactionsRequest, ImportBankTransactionsResponse](httpClient, baseURL+FeedImportBankTransactionsProcedure, opts...),
		issueInvoice:           connect.NewClient[IssueInvoiceRequest, InvoiceResponse](httpClient, baseURL+FeedIssueInvoiceProcedure, opts...),
		getInvoice:             connect.NewClient[GetInvoiceRequest, InvoiceResponse](httpClient, baseURL+FeedGetInvoiceProcedure, opts...),
		registerHouse:          connect.NewClient[RegisterHouseRequest, HouseResponse](httpClient, baseURL+FeedRegisterHouseProcedure, opts...),
	}
}

type feedServiceClient struct {
	importBankTransactions *connect.Client[ImportBankTransactionsRequest, ImportBankTransactionsResponse]
	issueInvoice           *connect.Client[IssueInvoiceRequest, InvoiceResponse]
	getInvoice             *connect.Client[GetInvoiceRequest, InvoiceResponse]
	registerHouse          *connect.Client[RegisterHouseRequest, HouseResponse]
}

func (c *feedServiceClient) ImportBankTransactions(ctx context.Context, req *connect.Request[ImportBankTransactionsRequest]) (*connect.Response[ImportBankTransactionsResponse], error) {
	return c.importBankTransactions.CallUnary(ctx, req)
}

func (c *feedServiceClient) IssueInvoice(ctx context.Context, req *connect.Request[IssueInvoiceRequest]) (*connect.Response[InvoiceResponse], error) {
	return c.issueInvoice.CallUnary(ctx, req)
}

func (c *feedServiceClient) GetInvoice(ctx context.Context, req *connect.Request[GetInvoiceRequest]) (*connect.Response[InvoiceResponse], error) {
	return c.getInvoice.CallUnary(ctx, req)
}

func (c *feedServiceClient) RegisterHouse(ctx context.Context, req *connect.Request[RegisterHouseRequest]) (*connect.Response[HouseResponse], error) {
	return c.registerHouse.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of ExpenseService.
type ExpenseServiceHandler interface {
	RecordExpense(context.Context, *connect.Request[RecordExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	IssueCreditNote(context.Context, *connect.Request[IssueCreditNoteRequest]) (*connect.Response[CreditNoteResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, ExpenseRecordProcedure, svc.RecordExpense, opts)
	handle(mux, ExpenseUpdateProcedure, svc.UpdateExpense, opts)
	handle(mux, ExpenseGetProcedure, svc.GetExpense, opts)
	handle(mux, ExpenseIssueCreditNoteProcedure, svc.IssueCreditNote, opts)
	return "/" + ExpenseServiceName + "/", mux
}

// ExpenseServiceClient is a client for ExpenseService.
type ExpenseServiceClient interface {
	RecordExpense(context.Context, *connect.Request[RecordExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	IssueCreditNote(context.Context, *connect.Request[IssueCreditNoteRequest]) (*connect.Response[CreditNoteResponse], error)
}

// NewExpenseServiceClient constructs a client for ExpenseService. baseURL is the server root,
// for example http://localhost:8080.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		recordExpense:   connect.NewClient[RecordExpenseRequest, ExpenseResponse](httpClient, baseURL+ExpenseRecordProcedure, opts...),
		updateExpense:   connect.NewClient[UpdateExpenseRequest, ExpenseResponse](httpClient, baseURL+ExpenseUpdateProcedure, opts...),
		getExpense:      connect.NewClient[GetExpenseRequest, ExpenseResponse](httpClient, baseURL+ExpenseGetProcedure, opts...),
		issueCreditNote: connect.NewClient[IssueCreditNoteRequest, CreditNoteResponse](httpClient, baseURL+ExpenseIssueCreditNoteProcedure, opts...),
	}
}

type expenseServiceClient struct {
	recordExpense   *connect.Client[RecordExpenseRequest, ExpenseResponse]
	updateExpense   *connect.Client[UpdateExpenseRequest, ExpenseResponse]
	getExpense      *connect.Client[GetExpenseRequest, ExpenseResponse]
	issueCreditNote *connect.Client[IssueCreditNoteRequest, CreditNoteResponse]
}

func (c *expenseServiceClient) RecordExpense(ctx context.Context, req *connect.Request[RecordExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) IssueCreditNote(ctx context.Context, req *connect.Request[IssueCreditNoteRequest]) (*connect.Response[CreditNoteResponse], error) {
	return c.issueCreditNote.CallUnary(ctx, req)
}
