package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/errs"
	"github.com/mmynk/estateledger/internal/middleware"
	"github.com/mmynk/estateledger/internal/models"
	"github.com/mmynk/estateledger/pkg/api"
)

// connectCode maps an error kind to the transport status.
func connectCode(kind errs.Kind) connect.Code {
	switch kind {
	case errs.KindValidation:
		return connect.CodeInvalidArgument
	case errs.KindConflict:
		return connect.CodeAlreadyExists
	case errs.KindState, errs.KindAmbiguous:
		return connect.CodeFailedPrecondition
	case errs.KindAuthorization:
		return connect.CodePermissionDenied
	case errs.KindNotFound:
		return connect.CodeNotFound
	default:
		return connect.CodeInternal
	}
}

// toConnectError converts a ledger error into a Connect error carrying the code, message
// and fields as a detail. Internal causes are logged and never sent to the caller.
func toConnectError(op string, err error) error {
	e, ok := errs.As(err)
	if !ok {
		e = errs.Internal(err, "internal error")
	}
	if e.Kind == errs.KindInternal {
		slog.Error(op+" failed", "error", err)
		e = &errs.Error{Kind: errs.KindInternal, Code: errs.CodeInternal, Message: "internal error"}
	} else {
		slog.Warn(op+" refused", "code", e.Code, "error", e.Message)
	}

	connectErr := connect.NewError(connectCode(e.Kind), errors.New(e.Message))
	detail, derr := api.NewErrorDetail(api.ErrorInfo{Code: e.Code, Message: e.Message, Fields: e.Fields})
	if derr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// requireActor returns the authenticated actor and checks c when it is not empty.
func requireActor(ctx context.Context, c auth.Capability) (auth.Actor, error) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return auth.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if c == "" {
		return actor, nil
	}
	if err := actor.Require(c); err != nil {
		return auth.Actor{}, toConnectError("authorize", err)
	}
	return actor, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := models.ParseAmount(s)
	if err != nil {
		return decimal.Zero, errs.Validation(errs.CodeInvalidAmount, "%s: %v", field, err).With("field", field)
	}
	return d, nil
}

func parsePeriod(s string) (models.PeriodKey, error) {
	key, err := models.ParsePeriodKey(s)
	if err != nil {
		return models.PeriodKey{}, errs.Validation(errs.CodeInvalidArgument, "%v", err).With("field", "period")
	}
	return key, nil
}

// parseOptionalAmount treats an empty string as zero.
func parseOptionalAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, s)
}
