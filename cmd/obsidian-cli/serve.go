package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/obsidian-cli/internal/rpc"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the vault to MCP clients",
		Long: `Serve the vault over the Model Context Protocol on stdin/stdout. With
--listen, an HTTP server also answers JSON requests at POST /request,
MCP streamable HTTP sessions at /mcp and health checks at GET /health.
The server runs until interrupted.`,
		Example: `obsidian-cli --vault ~/notes serve
obsidian-cli --vault ~/notes serve --listen 127.0.0.1:8765`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireVault(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.verbosef(cmd, "Starting MCP server for vault: %s", a.state.Vault)
			a.verbosef(cmd, "Server will run until interrupted (Ctrl+C)")

			if err := a.serve(ctx, listen); err != nil {
				return err
			}
			a.verbosef(cmd, "MCP server stopped.")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Also serve HTTP on this address (e.g. 127.0.0.1:8765)")
	return cmd
}

// serve runs the MCP stdio server and, when listen is set, the HTTP
// server until ctx is cancelled. Cancellation is a clean shutdown.
func (a *app) serve(ctx context.Context, listen string) error {
	server := a.newMCPServer()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := server.Run(gCtx, &mcp.StdioTransport{})
		if err != nil && gCtx.Err() == nil {
			return fmt.Errorf("error running server: %w", err)
		}
		return nil
	})

	if listen != "" {
		mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil)
		httpServer := &http.Server{
			Addr:              listen,
			Handler:           rpc.NewRouter(rpc.NewHandler(a.fs, a.search, a.logger), mcpHandler),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			a.logger.Info("starting HTTP server", "address", listen)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			a.logger.Info("shutting down HTTP server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("HTTP server shutdown error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}
