// Command ledgerctl is an operator client for the ledger server.
//
// Usage:
//
//	ledgerctl token -id ann -role admin
//	LEDGER_TOKEN=... ledgerctl lock -period 2025-03 -notes "month end"
//	ledgerctl candidates -payin <id>
//	ledgerctl bind -txn <id> -payin <id>
//	ledgerctl post -txn <id>
//	ledgerctl reverse -txn <id> -reason "duplicate transfer"
//	ledgerctl postings -payin <id>
//	ledgerctl unlock -period 2025-03 -reason "correcting a duplicate transfer"
//	ledgerctl period -period 2025-03
//	ledgerctl verify-audit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/estateledger/internal/auth"
	"github.com/mmynk/estateledger/internal/config"
	"github.com/mmynk/estateledger/pkg/api"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

type command struct {
	flags *flag.FlagSet
	run   func(ctx context.Context, c clients) (any, error)
}

type clients struct {
	reconcile api.ReconcileServiceClient
	period    api.PeriodServiceClient
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name, args := os.Args[1], os.Args[2:]

	if name == "token" {
		if err := mintToken(args); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	cmds := commands()
	cmd, ok := cmds[name]
	if !ok {
		usage()
		os.Exit(2)
	}
	server := cmd.flags.String("server", getEnv("LEDGER_SERVER", "http://localhost:8080"), "ledger server URL")
	token := cmd.flags.String("token", os.Getenv("LEDGER_TOKEN"), "actor token")
	cmd.flags.Parse(args)

	opts := []connect.ClientOption{api.WithToken(*token)}
	c := clients{
		reconcile: api.NewReconcileServiceClient(http.DefaultClient, *server, opts...),
		period:    api.NewPeriodServiceClient(http.DefaultClient, *server, opts...),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := cmd.run(ctx, c)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func commands() map[string]*command {
	cmds := make(map[string]*command)
	add := func(name string, setup func(fs *flag.FlagSet) func(context.Context, clients) (any, error)) {
		fs := flag.NewFlagSet(name, flag.ExitOnError)
		cmds[name] = &command{flags: fs, run: setup(fs)}
	}

	add("candidates", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		payIn := fs.String("payin", "", "pay-in ID")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.reconcile.FindMatchCandidates(ctx, connect.NewRequest(&api.FindMatchCandidatesRequest{PayInID: *payIn}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("bind", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		txn := fs.String("txn", "", "bank transaction ID")
		payIn := fs.String("payin", "", "pay-in ID")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.reconcile.Bind(ctx, connect.NewRequest(&api.BindRequest{TxnID: *txn, PayInID: *payIn}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("unbind", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		txn := fs.String("txn", "", "bank transaction ID")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.reconcile.Unbind(ctx, connect.NewRequest(&api.UnbindRequest{TxnID: *txn}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("post", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		txn := fs.String("txn", "", "bank transaction ID")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.reconcile.ConfirmAndPost(ctx, connect.NewRequest(&api.ConfirmAndPostRequest{TxnID: *txn}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("reverse", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		txn := fs.String("txn", "", "bank transaction ID")
		reason := fs.String("reason", "", "why the posting is reversed")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.reconcile.ReversePosting(ctx, connect.NewRequest(&api.ReversePostingRequest{TxnID: *txn, Reason: *reason}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("postings", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		payIn := fs.String("payin", "", "pay-in ID")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.reconcile.ListPostings(ctx, connect.NewRequest(&api.ListPostingsRequest{PayInID: *payIn}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("lock", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		period := fs.String("period", "", "month to lock, YYYY-MM")
		notes := fs.String("notes", "", "lock notes")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.period.LockPeriod(ctx, connect.NewRequest(&api.LockPeriodRequest{Period: *period, Notes: *notes}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("unlock", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		period := fs.String("period", "", "month to unlock, YYYY-MM")
		reason := fs.String("reason", "", "why the period is reopened")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.period.UnlockPeriod(ctx, connect.NewRequest(&api.UnlockPeriodRequest{Period: *period, Reason: *reason}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("period", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		period := fs.String("period", "", "month, YYYY-MM")
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.period.GetPeriod(ctx, connect.NewRequest(&api.GetPeriodRequest{Period: *period}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	add("verify-audit", func(fs *flag.FlagSet) func(context.Context, clients) (any, error) {
		return func(ctx context.Context, c clients) (any, error) {
			resp, err := c.period.VerifyAudit(ctx, connect.NewRequest(&api.VerifyAuditRequest{}))
			if err != nil {
				return nil, err
			}
			return resp.Msg, nil
		}
	})
	return cmds
}

// mintToken signs an actor token with the server's JWT_SECRET.
func mintToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	id := fs.String("id", "", "actor ID")
	role := fs.String("role", "", "resident, staff, admin or superadmin")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	r, err := auth.ParseRole(*role)
	if err != nil {
		return err
	}
	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(auth.Actor{ID: *id, Role: r})
	if err != nil {
		return err
	}
	fmt.Println(token)
	// Stdout stays the bare token so it can be captured into LEDGER_TOKEN.
	caps := make([]string, 0, len(r.Capabilities()))
	for _, c := range r.Capabilities() {
		caps = append(caps, string(c))
	}
	fmt.Fprintf(os.Stderr, "%s (%s) may: %s\n", *id, r, strings.Join(caps, ", "))
	return nil
}

func printError(err error) {
	if info, ok := api.ErrorInfoOf(err); ok {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", info.Code, info.Message)
		for k, v := range info.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", k, v)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ledgerctl <token|candidates|bind|unbind|post|reverse|postings|lock|unlock|period|verify-audit> [flags]")
}
