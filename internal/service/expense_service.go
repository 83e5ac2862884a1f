package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/ledger"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/pkg/api"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	engine *ledger.Engine
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(engine *ledger.Engine) *ExpenseService {
	return &ExpenseService{engine: engine}
}

// RecordExpense adds an expense to an open period.
func (s *ExpenseService) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	actor, err := requireActor(ctx, auth.CapManageExpenses)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordExpense request received", "category", req.Msg.Category, "amount", req.Msg.Amount, "actor_id", actor.ID)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("RecordExpense", err)
	}
	exp, err := s.engine.RecordExpense(ctx, ledger.ExpenseInput{
		Category:    req.Msg.Category,
		Description: req.Msg.Description,
		Amount:      amount,
		IncurredAt:  req.Msg.IncurredAt,
		Status:      models.ExpenseStatus(req.Msg.Status),
	})
	if err != nil {
		return nil, toConnectError("RecordExpense", err)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: expenseToAPI(exp)}), nil
}

// UpdateExpense edits an expense. Both its old and new dates must be in open periods.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	actor, err := requireActor(ctx, auth.CapManageExpenses)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID, "actor_id", actor.ID)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("UpdateExpense", err)
	}
	exp, err := s.engine.UpdateExpense(ctx, req.Msg.ExpenseID, ledger.ExpenseInput{
		Category:    req.Msg.Category,
		Description: req.Msg.Description,
		Amount:      amount,
		IncurredAt:  req.Msg.IncurredAt,
		Status:      models.ExpenseStatus(req.Msg.Status),
	})
	if err != nil {
		return nil, toConnectError("UpdateExpense", err)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: expenseToAPI(exp)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	exp, err := s.engine.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError("GetExpense", err)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: expenseToAPI(exp)}), nil
}

// IssueCreditNote reduces what a house owes.
func (s *ExpenseService) IssueCreditNote(ctx context.Context, req *connect.Request[api.IssueCreditNoteRequest]) (*connect.Response[api.CreditNoteResponse], error) {
	actor, err := requireActor(ctx, auth.CapManageExpenses)
	if err != nil {
		return nil, err
	}
	slog.Info("IssueCreditNote request received", "house_id", req.Msg.HouseID, "amount", req.Msg.Amount, "actor_id", actor.ID)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("IssueCreditNote", err)
	}
	cn, err := s.engine.IssueCreditNote(ctx, req.Msg.HouseID, amount, req.Msg.IssuedAt, req.Msg.Reason)
	if err != nil {
		return nil, toConnectError("IssueCreditNote", err)
	}
	return connect.NewResponse(&api.CreditNoteResponse{CreditNote: creditNoteToAPI(cn)}), nil
}
