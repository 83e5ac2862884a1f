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

// FeedService implements the Connect FeedService: the bank statement, billing and house
// registry feeds the ledger consumes.
type FeedService struct {
	engine *ledger.Engine
}

var _ api.FeedServiceHandler = (*FeedService)(nil)

// NewFeedService creates a new FeedService.
func NewFeedService(engine *ledger.Engine) *FeedService {
	return &FeedService{engine: engine}
}

// ImportBankTransactions stores a batch of statement rows, all or nothing.
func (s *FeedService) ImportBankTransactions(ctx context.Context, req *connect.Request[api.ImportBankTransactionsRequest]) (*connect.Response[api.ImportBankTransactionsResponse], error) {
	actor, err := requireActor(ctx, auth.CapImportFeeds)
	if err != nil {
		return nil, err
	}
	slog.Info("ImportBankTransactions request received", "batch_id", req.Msg.BatchID, "count", len(req.Msg.Transactions), "actor_id", actor.ID)

	txns := make([]models.BankTransaction, 0, len(req.Msg.Transactions))
	for _, in := range req.Msg.Transactions {
		txn, err := txnFromAPI(in)
		if err != nil {
			return nil, toConnectError("ImportBankTransactions", err)
		}
		txns = append(txns, txn)
	}

	batchID, err := s.engine.ImportBankTransactions(ctx, req.Msg.BatchID, txns)
	if err != nil {
		return nil, toConnectError("ImportBankTransactions", err)
	}
	return connect.NewResponse(&api.ImportBankTransactionsResponse{BatchID: batchID, Imported: len(txns)}), nil
}

// IssueInvoice records what a house owes for a billing period.
func (s *FeedService) IssueInvoice(ctx context.Context, req *connect.Request[api.IssueInvoiceRequest]) (*connect.Response[api.InvoiceResponse], error) {
	if _, err := requireActor(ctx, auth.CapImportFeeds); err != nil {
		return nil, err
	}
	slog.Info("IssueInvoice request received", "house_id", req.Msg.HouseID, "period", req.Msg.Period)

	due, err := parseAmount("amount_due", req.Msg.AmountDue)
	if err != nil {
		return nil, toConnectError("IssueInvoice", err)
	}
	inv := &models.Invoice{ID: req.Msg.ID, HouseID: req.Msg.HouseID, Period: req.Msg.Period, AmountDue: due}
	if err := s.engine.IssueInvoice(ctx, inv); err != nil {
		return nil, toConnectError("IssueInvoice", err)
	}
	return connect.NewResponse(&api.InvoiceResponse{Invoice: invoiceToAPI(inv)}), nil
}

// GetInvoice retrieves an invoice by ID.
func (s *FeedService) GetInvoice(ctx context.Context, req *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.InvoiceResponse], error) {
	if _, err := requireActor(ctx, ""); err != nil {
		return nil, err
	}
	inv, err := s.engine.GetInvoice(ctx, req.Msg.InvoiceID)
	if err != nil {
		return nil, toConnectError("GetInvoice", err)
	}
	return connect.NewResponse(&api.InvoiceResponse{Invoice: invoiceToAPI(inv)}), nil
}

// RegisterHouse adds a house or updates its occupancy.
func (s *FeedService) RegisterHouse(ctx context.Context, req *connect.Request[api.RegisterHouseRequest]) (*connect.Response[api.HouseResponse], error) {
	if _, err := requireActor(ctx, auth.CapImportFeeds); err != nil {
		return nil, err
	}
	h := &models.House{ID: req.Msg.House.ID, Label: req.Msg.House.Label, Occupied: req.Msg.House.Occupied}
	if err := s.engine.RegisterHouse(ctx, h); err != nil {
		return nil, toConnectError("RegisterHouse", err)
	}
	return connect.NewResponse(&api.HouseResponse{House: api.House{ID: h.ID, Label: h.Label, Occupied: h.Occupied}}), nil
}

func txnFromAPI(in api.BankTransaction) (models.BankTransaction, error) {
	debit, err := parseOptionalAmount("debit", in.Debit)
	if err != nil {
		return models.BankTransaction{}, err
	}
	credit, err := parseOptionalAmount("credit", in.Credit)
	if err != nil {
		return models.BankTransaction{}, err
	}
	balance, err := parseOptionalAmount("balance", in.Balance)
	if err != nil {
		return models.BankTransaction{}, err
	}
	return models.BankTransaction{
		ID:          in.ID,
		AccountID:   in.AccountID,
		EffectiveAt: in.EffectiveAt,
		Debit:       debit,
		Credit:      credit,
		Balance:     balance,
		Description: in.Description,
		Channel:     in.Channel,
	}, nil
}
