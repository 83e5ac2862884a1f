package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/ledger"
	"github.com/mmynk/estateledger/internal/metrics"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
	"github.com/mmynk/estateledger/pkg/api"
)

// ReconcileService implements the Connect ReconcileService: the pay-in lifecycle,
// matching, binding, posting and reversal.
type ReconcileService struct {
	engine  *ledger.Engine
	metrics *metrics.Metrics
}

var _ api.ReconcileServiceHandler = (*ReconcileService)(nil)

// NewReconcileService creates a new ReconcileService. m may be nil.
func NewReconcileService(engine *ledger.Engine, m *metrics.Metrics) *ReconcileService {
	return &ReconcileService{engine: engine, metrics: m}
}

// SubmitPayIn records a resident's payment claim.
func (s *ReconcileService) SubmitPayIn(ctx context.Context, req *connect.Request[api.SubmitPayInRequest]) (*connect.Response[api.PayInResponse], error) {
	actor, err := requireActor(ctx, auth.CapSubmitPayIn)
	if err != nil {
		return nil, err
	}
	slog.Info("SubmitPayIn request received", "house_id", req.Msg.HouseID, "amount", req.Msg.Amount, "actor_id", actor.ID)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("SubmitPayIn", err)
	}
	p, err := s.engine.SubmitPayIn(ctx, ledger.PayInClaim{
		HouseID:     req.Msg.HouseID,
		AccountID:   req.Msg.AccountID,
		Amount:      amount,
		ClaimedAt:   req.Msg.ClaimedAt,
		SubmittedBy: actor.ID,
	})
	if err != nil {
		return nil, toConnectError("SubmitPayIn", err)
	}

	slog.Info("Pay-in submitted", "payin_id", p.ID)
	return connect.NewResponse(&api.PayInResponse{PayIn: payInToAPI(p)}), nil
}

// ResubmitPayIn corrects a claim that was sent back for a fix.
func (s *ReconcileService) ResubmitPayIn(ctx context.Context, req *connect.Request[api.ResubmitPayInRequest]) (*connect.Response[api.PayInResponse], error) {
	actor, err := requireActor(ctx, auth.CapSubmitPayIn)
	if err != nil {
		return nil, err
	}
	slog.Info("ResubmitPayIn request received", "payin_id", req.Msg.PayInID, "actor_id", actor.ID)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("ResubmitPayIn", err)
	}
	p, err := s.engine.Resubmit(ctx, req.Msg.PayInID, amount, req.Msg.ClaimedAt, actor)
	if err != nil {
		return nil, toConnectError("ResubmitPayIn", err)
	}
	return connect.NewResponse(&api.PayInResponse{PayIn: payInToAPI(p)}), nil
}

// RejectPayIn turns a claim down, optionally asking the resident to fix it.
func (s *ReconcileService) RejectPayIn(ctx context.Context, req *connect.Request[api.RejectPayInRequest]) (*connect.Response[api.PayInResponse], error) {
	actor, err := requireActor(ctx, auth.CapReconcile)
	if err != nil {
		return nil, err
	}
	slog.Info("RejectPayIn request received", "payin_id", req.Msg.PayInID, "needs_fix", req.Msg.NeedsFix, "actor_id", actor.ID)

	p, err := s.engine.Reject(ctx, req.Msg.PayInID, req.Msg.Reason, req.Msg.NeedsFix, actor)
	if err != nil {
		return nil, toConnectError("RejectPayIn", err)
	}
	return connect.NewResponse(&api.PayInResponse{PayIn: payInToAPI(p)}), nil
}

// CancelPayIn withdraws a claim.
func (s *ReconcileService) CancelPayIn(ctx context.Context, req *connect.Request[api.CancelPayInRequest]) (*connect.Response[api.PayInResponse], error) {
	actor, err := requireActor(ctx, auth.CapSubmitPayIn)
	if err != nil {
		return nil, err
	}
	slog.Info("CancelPayIn request received", "payin_id", req.Msg.PayInID, "actor_id", actor.ID)

	p, err := s.engine.Cancel(ctx, req.Msg.PayInID, req.Msg.Reason, actor)
	if err != nil {
		return nil, toConnectError("CancelPayIn", err)
	}
	return connect.NewResponse(&api.PayInResponse{PayIn: payInToAPI(p)}), nil
}

// GetPayIn retrieves a pay-in by ID.
func (s *ReconcileService) GetPayIn(ctx context.Context, req *connect.Request[api.GetPayInRequest]) (*connect.Response[api.PayInResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	p, err := s.engine.GetPayIn(ctx, req.Msg.PayInID)
	if err != nil {
		return nil, toConnectError("GetPayIn", err)
	}
	return connect.NewResponse(&api.PayInResponse{PayIn: payInToAPI(p)}), nil
}

// ListPayIns lists pay-ins, optionally by house and status.
func (s *ReconcileService) ListPayIns(ctx context.Context, req *connect.Request[api.ListPayInsRequest]) (*connect.Response[api.ListPayInsResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	payIns, err := s.engine.ListPayIns(ctx, storage.PayInFilter{
		HouseID: req.Msg.HouseID,
		Status:  models.PayInStatus(req.Msg.Status),
	})
	if err != nil {
		return nil, toConnectError("ListPayIns", err)
	}

	out := make([]api.PayIn, 0, len(payIns))
	for i := range payIns {
		out = append(out, payInToAPI(&payIns[i]))
	}
	slog.Info("ListPayIns successful", "count", len(out))
	return connect.NewResponse(&api.ListPayInsResponse{PayIns: out}), nil
}

// FindMatchCandidates ranks bank credits that could be the pay-in's transfer.
func (s *ReconcileService) FindMatchCandidates(ctx context.Context, req *connect.Request[api.FindMatchCandidatesRequest]) (*connect.Response[api.FindMatchCandidatesResponse], error) {
	if _, err := requireActor(ctx, auth.CapReconcile); err != nil {
		return nil, err
	}
	slog.Info("FindMatchCandidates request received", "payin_id", req.Msg.PayInID)

	p, res, err := s.engine.FindMatchCandidates(ctx, req.Msg.PayInID)
	if err != nil {
		return nil, toConnectError("FindMatchCandidates", err)
	}
	candidates, nearMisses := matchResultToAPI(res)

	slog.Info("FindMatchCandidates successful", "payin_id", p.ID, "candidates", len(candidates), "near_misses", len(nearMisses))
	return connect.NewResponse(&api.FindMatchCandidatesResponse{
		PayIn:      payInToAPI(p),
		Candidates: candidates,
		NearMisses: nearMisses,
	}), nil
}

// Bind links a bank transaction to a pay-in.
func (s *ReconcileService) Bind(ctx context.Context, req *connect.Request[api.BindRequest]) (*connect.Response[api.BindResponse], error) {
	actor, err := requireActor(ctx, auth.CapReconcile)
	if err != nil {
		return nil, err
	}
	slog.Info("Bind request received", "txn_id", req.Msg.TxnID, "payin_id", req.Msg.PayInID, "actor_id", actor.ID)

	err = s.engine.Bind(ctx, req.Msg.TxnID, req.Msg.PayInID)
	s.metrics.Bind(metrics.Outcome(err, ""))
	if err != nil {
		return nil, toConnectError("Bind", err)
	}
	return connect.NewResponse(&api.BindResponse{TxnID: req.Msg.TxnID, PayInID: req.Msg.PayInID}), nil
}

// Unbind removes the link of an unposted transaction.
func (s *ReconcileService) Unbind(ctx context.Context, req *connect.Request[api.UnbindRequest]) (*connect.Response[api.UnbindResponse], error) {
	actor, err := requireActor(ctx, auth.CapReconcile)
	if err != nil {
		return nil, err
	}
	slog.Info("Unbind request received", "txn_id", req.Msg.TxnID, "actor_id", actor.ID)

	if err := s.engine.Unbind(ctx, req.Msg.TxnID); err != nil {
		return nil, toConnectError("Unbind", err)
	}
	return connect.NewResponse(&api.UnbindResponse{TxnID: req.Msg.TxnID}), nil
}

// ConfirmAndPost posts the payment bound to a transaction.
func (s *ReconcileService) ConfirmAndPost(ctx context.Context, req *connect.Request[api.ConfirmAndPostRequest]) (*connect.Response[api.PostingResponse], error) {
	actor, err := requireActor(ctx, auth.CapReconcile)
	if err != nil {
		return nil, err
	}
	slog.Info("ConfirmAndPost request received", "txn_id", req.Msg.TxnID, "actor_id", actor.ID)

	res, err := s.engine.ConfirmAndPost(ctx, req.Msg.TxnID, actor)
	if err != nil {
		s.metrics.Posting(metrics.Outcome(err, ""))
		return nil, toConnectError("ConfirmAndPost", err)
	}
	s.metrics.Posting(string(res.Status))

	slog.Info("ConfirmAndPost successful", "txn_id", req.Msg.TxnID, "status", res.Status, "entry_id", res.Entry.ID, "allocations", len(res.Allocations))
	return connect.NewResponse(postingToAPI(res)), nil
}

// ReversePosting undoes a posting.
func (s *ReconcileService) ReversePosting(ctx context.Context, req *connect.Request[api.ReversePostingRequest]) (*connect.Response[api.ReversePostingResponse], error) {
	actor, err := requireActor(ctx, auth.CapReversePosting)
	if err != nil {
		return nil, err
	}
	slog.Info("ReversePosting request received", "txn_id", req.Msg.TxnID, "actor_id", actor.ID)

	res, err := s.engine.Reverse(ctx, req.Msg.TxnID, req.Msg.Reason, actor)
	s.metrics.Reversal(metrics.Outcome(err, ""))
	if err != nil {
		return nil, toConnectError("ReversePosting", err)
	}

	slog.Info("Posting reversed", "txn_id", req.Msg.TxnID, "entry_id", res.Entry.ID)
	return connect.NewResponse(&api.ReversePostingResponse{
		PayIn:         payInToAPI(&res.PayIn),
		Entry:         entryToAPI(&res.Entry),
		Compensations: allocationsToAPI(res.Compensations),
		Message:       res.Message,
	}), nil
}

// GetPosting returns the active posting of a pay-in.
func (s *ReconcileService) GetPosting(ctx context.Context, req *connect.Request[api.GetPostingRequest]) (*connect.Response[api.PostingResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	res, err := s.engine.GetPosting(ctx, req.Msg.PayInID)
	if err != nil {
		return nil, toConnectError("GetPosting", err)
	}
	return connect.NewResponse(postingToAPI(res)), nil
}

// ListPostings returns every posting a pay-in has had, reversed ones included.
func (s *ReconcileService) ListPostings(ctx context.Context, req *connect.Request[api.ListPostingsRequest]) (*connect.Response[api.ListPostingsResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	p, postings, err := s.engine.ListPostings(ctx, req.Msg.PayInID)
	if err != nil {
		return nil, toConnectError("ListPostings", err)
	}
	records := make([]api.PostingRecord, 0, len(postings))
	for i := range postings {
		records = append(records, api.PostingRecord{
			Entry:       entryToAPI(&postings[i].Entry),
			Allocations: allocationsToAPI(postings[i].Allocations),
		})
	}
	return connect.NewResponse(&api.ListPostingsResponse{PayIn: payInToAPI(p), Postings: records}), nil
}

func postingToAPI(res *ledger.PostResult) *api.PostingResponse {
	return &api.PostingResponse{
		Status:      string(res.Status),
		PayIn:       payInToAPI(&res.PayIn),
		Entry:       entryToAPI(&res.Entry),
		Allocations: allocationsToAPI(res.Allocations),
	}
}
