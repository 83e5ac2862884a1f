package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/internal/storage"
)

// PayInClaim is what a resident reports when claiming a transfer.
type PayInClaim struct {
	HouseID string
	// AccountID optionally restricts matching to one collection account.
	AccountID string
	Amount    decimal.Decimal
	ClaimedAt time.Time
	// SubmittedBy is the filing actor.
	SubmittedBy string
}

func (c PayInClaim) validate() error {
	if err := required("house_id", c.HouseID); err != nil {
		return err
	}
	if err := checkAmount("amount", c.Amount); err != nil {
		return err
	}
	if c.ClaimedAt.IsZero() {
		return errs.Validation(errs.CodeInvalidArgument, "claimed_at is required").With("field", "claimed_at")
	}
	return nil
}

// SubmitPayIn records a new resident claim in SUBMITTED.
func (e *Engine) SubmitPayIn(ctx context.Context, claim PayInClaim) (*models.PayIn, error) {
	if err := claim.validate(); err != nil {
		return nil, err
	}
	p := &models.PayIn{
		HouseID:       claim.HouseID,
		AccountID:     claim.AccountID,
		Amount:        claim.Amount,
		ClaimedAt:     claim.ClaimedAt.UTC(),
		Status:        models.PayInSubmitted,
		PostingStatus: models.Unposted,
		SubmittedBy:   claim.SubmittedBy,
	}
	if err := e.store.InsertPayIn(ctx, p); err != nil {
		return nil, err
	}
	slog.Info("Pay-in submitted", "payin_id", p.ID, "house_id", p.HouseID, "amount", models.FormatAmount(p.Amount))
	return p, nil
}

// Resubmit corrects a pay-in that was rejected as fixable, moving it to PENDING.
func (e *Engine) Resubmit(ctx context.Context, payInID string, amount decimal.Decimal, claimedAt time.Time, actor auth.Actor) (*models.PayIn, error) {
	var p *models.PayIn
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		var err error
		if p, err = q.GetPayIn(ctx, payInID); err != nil {
			return err
		}
		if err := checkSubmitter(p, actor); err != nil {
			return err
		}
		if p.Status != models.PayInRejectedNeedsFix {
			return invalidTransition(p, models.PayInPending)
		}
		if err := (PayInClaim{HouseID: p.HouseID, Amount: amount, ClaimedAt: claimedAt}).validate(); err != nil {
			return err
		}
		p.Amount = amount
		p.ClaimedAt = claimedAt.UTC()
		p.Status = models.PayInPending
		p.RejectReason = ""
		return q.UpdatePayIn(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Pay-in resubmitted", "payin_id", p.ID, "actor", actor.ID)
	return p, nil
}

// Reject refuses an unbound claim. With needsFix the resident may correct and resubmit it.
func (e *Engine) Reject(ctx context.Context, payInID, reason string, needsFix bool, actor auth.Actor) (*models.PayIn, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation(errs.CodeReasonRequired, "a reason is required to reject a pay-in")
	}

	target := models.PayInRejected
	if needsFix {
		target = models.PayInRejectedNeedsFix
	}

	var p *models.PayIn
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		var err error
		if p, err = q.GetPayIn(ctx, payInID); err != nil {
			return err
		}
		if p.Status != models.PayInSubmitted && p.Status != models.PayInPending {
			return invalidTransition(p, target)
		}
		if p.Matched() {
			return errs.State(errs.CodePayInBound, "pay-in %s is bound to transaction %s; unbind it first", p.ID, p.MatchedTxnID).
				With("bound_to", p.MatchedTxnID)
		}
		p.Status = target
		p.RejectReason = reason
		if err := q.UpdatePayIn(ctx, p); err != nil {
			return err
		}
		return e.audit.Append(ctx, q, &models.AuditEntry{
			Kind:    models.AuditPayInReject,
			Subject: p.ID,
			Actor:   actor.ID,
			Reason:  reason,
		})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Pay-in rejected", "payin_id", p.ID, "status", p.Status, "actor", actor.ID)
	return p, nil
}

// Cancel withdraws an unbound claim that was never accepted.
func (e *Engine) Cancel(ctx context.Context, payInID, reason string, actor auth.Actor) (*models.PayIn, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation(errs.CodeReasonRequired, "a reason is required to cancel a pay-in")
	}

	var p *models.PayIn
	err := e.store.WithTx(ctx, func(q storage.Queries) error {
		var err error
		if p, err = q.GetPayIn(ctx, payInID); err != nil {
			return err
		}
		if err := checkSubmitter(p, actor); err != nil {
			return err
		}
		switch p.Status {
		case models.PayInSubmitted, models.PayInPending, models.PayInRejectedNeedsFix:
		default:
			return invalidTransition(p, models.PayInCancelled)
		}
		if p.Matched() {
			return errs.State(errs.CodePayInBound, "pay-in %s is bound to transaction %s; unbind it first", p.ID, p.MatchedTxnID).
				With("bound_to", p.MatchedTxnID)
		}
		p.Status = models.PayInCancelled
		p.CancelReason = reason
		if err := q.UpdatePayIn(ctx, p); err != nil {
			return err
		}
		return e.audit.Append(ctx, q, &models.AuditEntry{
			Kind:    models.AuditPayInCancel,
			Subject: p.ID,
			Actor:   actor.ID,
			Reason:  reason,
		})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Pay-in cancelled", "payin_id", p.ID, "actor", actor.ID)
	return p, nil
}

// checkSubmitter lets the filing actor or a reconciler act on a claim.
func checkSubmitter(p *models.PayIn, actor auth.Actor) error {
	if actor.HasCapability(auth.CapReconcile) {
		return nil
	}
	if actor.ID != "" && actor.ID == p.SubmittedBy {
		return nil
	}
	return errs.Unauthorized("actor %s did not submit pay-in %s", actor.ID, p.ID).With("payin_id", p.ID)
}

// GetPayIn returns a pay-in by ID.
func (e *Engine) GetPayIn(ctx context.Context, id string) (*models.PayIn, error) {
	return e.store.GetPayIn(ctx, id)
}

// ListPayIns returns pay-ins matching filter, newest first.
func (e *Engine) ListPayIns(ctx context.Context, filter storage.PayInFilter) ([]models.PayIn, error) {
	return e.store.ListPayIns(ctx, filter)
}

func invalidTransition(p *models.PayIn, to models.PayInStatus) error {
	return errs.State(errs.CodeInvalidTransition, "pay-in %s cannot move from %s to %s", p.ID, p.Status, to).
		With("status", string(p.Status))
}
