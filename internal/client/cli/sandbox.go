package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopkeeper/internal/marketfake"
)

const sandboxShutdownTimeout = 10 * time.Second

func (c *Cli) newSandboxCmd() *cobra.Command {
	var (
		addr    string
		credits int64
	)
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Запустить локальный fake маркетплейс",
		Long: `Поднимает in-process маркетплейс с тем же API для проб без сети.
Подпись challenge в песочнице: sig:<pubkey>:<challenge>.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSandbox(cmd.Context(), addr, credits)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "адрес для прослушивания")
	cmd.Flags().Int64Var(&credits, "credits", 100, "стартовый баланс кредитов")
	return cmd
}

func (c *Cli) runSandbox(ctx context.Context, addr string, credits int64) error {
	fake := marketfake.New(
		marketfake.WithLogger(c.logger),
		marketfake.WithCredits(credits),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	c.io.Success("✓ Sandbox marketplace listening on http://%s", listener.Addr())
	c.io.Printf("Use it with: shopkeeper --api-url http://%s auth login\n", listener.Addr())
	c.io.Println("Sign challenges as sig:<pubkey>:<challenge>. Press Ctrl+C to stop.")

	select {
	case err := <-errCh:
		return fmt.Errorf("sandbox server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), sandboxShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sandbox shutdown error: %w", err)
	}
	c.io.Println("Sandbox stopped.")
	return nil
}
