package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ContentRanker/internal/app"
	"ContentRanker/internal/config"
	"ContentRanker/internal/logging"
)

const usage = `usage: contentranker <command> [flags]

commands:
  related  -id ID [-limit N] [-json] [-explain]   rank related items for a record
  classify -id ID [-json]                         show the purpose classification of a record
  list     [-json]                                classify every catalog record
  import   [-db PATH]                             copy the catalog into the SQLite store
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)

	if err := run(ctx, application, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.Application, args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(errOut)

	switch cmd {
	case "related":
		var (
			id      = fs.String("id", "", "focal record identifier")
			limit   = fs.Int("limit", 0, "maximum related items (0 = configured default)")
			asJSON  = fs.Bool("json", false, "print JSON")
			explain = fs.Bool("explain", false, "print per-signal score breakdown")
		)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("related: -id is required")
		}
		return application.Related(ctx, out, app.RelatedOptions{ID: *id, Limit: *limit, JSON: *asJSON, Explain: *explain})
	case "classify":
		var (
			id     = fs.String("id", "", "record identifier")
			asJSON = fs.Bool("json", false, "print JSON")
		)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("classify: -id is required")
		}
		return application.Classify(ctx, out, *id, *asJSON)
	case "list":
		asJSON := fs.Bool("json", false, "print JSON")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return application.List(ctx, out, *asJSON)
	case "import":
		dbPath := fs.String("db", "", "SQLite path (defaults to storage.path)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return application.Import(ctx, out, *dbPath)
	default:
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
