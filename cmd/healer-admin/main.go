package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aimspurefied/healer-ui-api/config"
	"github.com/aimspurefied/healer-ui-api/internal/bootstrap"
	"github.com/aimspurefied/healer-ui-api/internal/resource"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger(config.ObservabilityConfig{LogFormat: "text"})

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"resources": {
			name:        "resources",
			description: "List the backend collections the dashboard manages",
			run:         runResources,
		},
		"list": {
			name:        "list",
			description: "Fetch a collection and print it as a table",
			run:         runList,
		},
		"export": {
			name:        "export",
			description: "Fetch a collection and write its spreadsheet export",
			run:         runExport,
		},
		"sms-balance": {
			name:        "sms-balance",
			description: "Query the SMS gateway balance",
			run:         runSMSBalance,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: healer-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(os.Stdout, "  %-14s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func buildServices(ctx *commandContext) (bootstrap.ServiceContainer, error) {
	return bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &ctx.Config,
		Logger: ctx.Logger,
	})
}

func runResources(ctx *commandContext, _ []string) error {
	services, err := buildServices(ctx)
	if err != nil {
		return err
	}
	names := services.Registry.Names()
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stdout, "%s\n", name); err != nil {
			return err
		}
	}
	return nil
}

func runList(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := fs.String("q", "", "free-text filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: healer-admin list [-q text] <resource>")
	}

	ctl, _, err := lookupController(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if err := ctl.Fetch(ctx.Ctx); err != nil {
		return err
	}
	ctl.SetQuery(*query)

	return printDerived(ctl)
}

func runExport(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "output path (defaults to the dated filename)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: healer-admin export [-o path] <resource>")
	}

	ctl, _, err := lookupController(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if err := ctl.Fetch(ctx.Ctx); err != nil {
		return err
	}

	file, err := ctl.Export()
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = file.Name
	}
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return writef(os.Stdout, "wrote %s (%d bytes)\n", path, len(file.Content))
}

func runSMSBalance(ctx *commandContext, _ []string) error {
	services, err := buildServices(ctx)
	if err != nil {
		return err
	}
	if services.Balance == nil {
		return fmt.Errorf("SMS_BALANCE_URL is not configured")
	}
	balance, err := services.Balance.Fetch(ctx.Ctx)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "balance: %.2f\n", balance)
}

func lookupController(ctx *commandContext, name string) (resource.Handle, bootstrap.ServiceContainer, error) {
	services, err := buildServices(ctx)
	if err != nil {
		return nil, services, err
	}
	ctl, ok := services.Registry.Lookup(name)
	if !ok {
		names := services.Registry.Names()
		sort.Strings(names)
		return nil, services, fmt.Errorf("unknown resource %q (known: %s)", name, strings.Join(names, ", "))
	}
	return ctl, services, nil
}

// printDerived renders the controller's derived view, one JSON object
// per line, with a trailing count.
func printDerived(ctl resource.Handle) error {
	raw, err := json.Marshal(ctl.Derived())
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		if err := writef(w, "%s\n", row); err != nil {
			return err
		}
	}
	if err := writef(w, "total\t%d\n", len(rows)); err != nil {
		return err
	}
	return w.Flush()
}
