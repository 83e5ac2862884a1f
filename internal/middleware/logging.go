package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/estateledger/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Failed calls carry the ledger error code and its detail fields (period, bound_to,
// excess...), so a blocked posting can be traced from the log alone.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			actorID := GetActorID(ctx) // empty if pre-auth

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err == nil {
				slog.Info("RPC ok",
					"procedure", procedure,
					"actor_id", actorID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				slog.Error("RPC error",
					"procedure", procedure,
					"error", err,
					"actor_id", actorID,
					"duration_ms", duration,
				)
				return resp, err
			}

			attrs := []any{
				"procedure", procedure,
				"code", connectErr.Code(),
				"error", connectErr.Message(),
				"actor_id", actorID,
				"duration_ms", duration,
			}
			if info, ok := api.ErrorInfoOf(connectErr); ok {
				attrs = append(attrs, "ledger_code", info.Code)
				if len(info.Fields) > 0 {
					attrs = append(attrs, "details", info.Fields)
				}
			}
			level := slog.LevelWarn
			if connectErr.Code() == connect.CodeInternal {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "RPC error", attrs...)
			return resp, err
		}
	}
}
