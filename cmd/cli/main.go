package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amirasaad/fxconvert/infra/initializer"
	"github.com/amirasaad/fxconvert/internal/screen"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
	"github.com/amirasaad/fxconvert/pkg/session"
)

const usage = `Usage: fxconvert <command> [arguments]
Commands:
  convert <amount> <from> <to>   convert once, e.g. convert 10 CAD USD
  tui                            open the interactive converter
  health                         check the configured rate provider`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit status. Users see
// conversion.UserMessage; causes go to the log.
func run(ctx context.Context, cfg *config.App, args []string, stdout, logOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	switch args[0] {
	case "convert":
		if len(args) != 4 {
			fmt.Fprintln(stdout, "Usage: convert <amount> <from> <to>")
			return 1
		}
		return convertOnce(ctx, cfg, args[1], args[2], args[3], stdout, logOut)
	case "tui":
		return runScreen(ctx, cfg, stdout)
	case "health":
		return health(ctx, cfg, stdout, logOut)
	default:
		fmt.Fprintln(stdout, "Unknown command:", args[0])
		fmt.Fprintln(stdout, usage)
		return 1
	}
}

func convertOnce(ctx context.Context, cfg *config.App, amount, from, to string, stdout, logOut io.Writer) int {
	deps, err := initializer.InitializeDependencies(cfg, logOut)
	if err != nil {
		fmt.Fprintln(stdout, "Failed to initialize:", err)
		return 1
	}
	defer deps.Close() //nolint: errcheck

	res, err := deps.Engine.Convert(ctx, from, to, amount)
	if err != nil {
		fmt.Fprintln(stdout, conversion.UserMessage(err))
		return 1
	}
	fmt.Fprintf(stdout, "%s %s = %s %s\n", strconv.FormatFloat(res.Amount, 'f', -1, 64), res.Base, res.Converted, res.Dest)
	fmt.Fprintf(stdout, "rate %s\n", res.Rate)
	return 0
}

// runScreen logs to the configured file because the screen owns the terminal.
func runScreen(ctx context.Context, cfg *config.App, stdout io.Writer) int {
	logFile, err := initializer.OpenLogFile(cfg.Log.File)
	if err != nil {
		fmt.Fprintln(stdout, "Failed to open log file:", err)
		return 1
	}
	defer logFile.Close() //nolint: errcheck

	deps, err := initializer.InitializeDependencies(cfg, logFile)
	if err != nil {
		fmt.Fprintln(stdout, "Failed to initialize:", err)
		return 1
	}
	defer deps.Close() //nolint: errcheck

	s := session.New(deps.Engine, deps.Logger)
	if err := screen.Run(ctx, s, tea.WithAltScreen(), tea.WithContext(ctx)); err != nil {
		deps.Logger.Error("Terminal screen failed", "error", err)
		fmt.Fprintln(stdout, "Terminal screen failed:", err)
		return 1
	}
	return 0
}

func health(ctx context.Context, cfg *config.App, stdout, logOut io.Writer) int {
	deps, err := initializer.InitializeDependencies(cfg, logOut)
	if err != nil {
		fmt.Fprintln(stdout, "Failed to initialize:", err)
		return 1
	}
	defer deps.Close() //nolint: errcheck

	name := deps.Provider.Name()
	if err := deps.Provider.CheckHealth(ctx); err != nil {
		deps.Logger.Error("Provider health check failed", "provider", name, "error", err)
		fmt.Fprintf(stdout, "%s: %s\n", name, conversion.UserMessage(err))
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok\n", name)
	return 0
}
