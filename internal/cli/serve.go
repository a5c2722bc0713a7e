package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pfrederiksen/chess-tools/internal/logger"
	"github.com/pfrederiksen/chess-tools/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	flagHost       string
	flagPort       int
	flagStdioServe string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chess and math MCP servers over streamable HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagHost, "host", "", "Listen host (or env: HOST, default 0.0.0.0)")
	cmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (or env: PORT, default 10000)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		a.cfg.Server.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		a.cfg.Server.Port = flagPort
	}

	handler := server.Handler(
		server.NewChessServer(a.chessTools()),
		server.NewMathServer(),
		a.cfg.Server.SpaceHost,
	)

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", logger.Fields{
			"addr":     srv.Addr,
			"telegram": a.telegram != nil,
			"discord":  a.discord != nil,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("Server stopped", nil)
	return nil
}

func newStdioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve one MCP server over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE:  runStdio,
	}

	cmd.Flags().StringVar(&flagStdioServe, "server", "chess", "Server to expose: chess or math")

	return cmd
}

func runStdio(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var s *mcp.Server
	switch flagStdioServe {
	case "chess":
		s = server.NewChessServer(a.chessTools())
	case "math":
		s = server.NewMathServer()
	default:
		return fmt.Errorf("invalid server: %s (must be 'chess' or 'math')", flagStdioServe)
	}

	logger.Info("Serving over stdio", logger.Fields{"server": flagStdioServe})
	if err := s.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}
