package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/chess-tools/internal/announce"
	"github.com/pfrederiksen/chess-tools/internal/chesscom"
	"github.com/pfrederiksen/chess-tools/internal/config"
	"github.com/pfrederiksen/chess-tools/internal/logger"
	"github.com/pfrederiksen/chess-tools/internal/scraper"
	"github.com/pfrederiksen/chess-tools/internal/server"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitFetchErrors = 2
)

// errFetchFailures is returned after output was written when at least one
// tournament page could not be fetched.
var errFetchFailures = errors.New("some tournaments could not be fetched")

var (
	flagLogLevel string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chess-tools",
		Short: "Chess tournament tools over MCP",
		Long: `Chess tournament tools for agents and humans.
Scrapes upcoming French chess tournaments, looks up chess.com games and posts
announcements, exposed as MCP tool servers or as direct commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (or env: LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newServeCmd(),
		newStdioCmd(),
		newTournamentsCmd(),
		newTournamentCmd(),
		newLastGameCmd(),
		newAnnounceCmd(),
	)

	return cmd
}

// app carries the collaborators built from configuration.
type app struct {
	cfg      *config.Config
	scraper  *scraper.Scraper
	games    *chesscom.Client
	discord  announce.Announcer
	telegram announce.Announcer
}

// newApp loads configuration, installs the default logger on the command's
// stderr and builds the clients.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagVerbose {
		level = "debug"
	}
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(lvl, cmd.ErrOrStderr()))

	a := &app{
		cfg:     cfg,
		scraper: scraper.New(cfg.Scraper),
		games:   chesscom.NewClient(cfg.ChessCom.BaseURL),
	}

	if cfg.Discord.WebhookURL != "" {
		d, err := announce.NewDiscord(cfg.Discord.WebhookURL)
		if err != nil {
			return nil, err
		}
		a.discord = d
	}

	if cfg.Telegram.Enabled() {
		tg, err := announce.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		a.telegram = tg
	}

	return a, nil
}

func (a *app) chessTools() server.ChessTools {
	return server.ChessTools{
		Tournaments: a.scraper,
		Games:       a.games,
		Discord:     a.discord,
		Telegram:    a.telegram,
	}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errFetchFailures):
		return ExitFetchErrors
	default:
		return ExitError
	}
}

// run executes the command tree and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
