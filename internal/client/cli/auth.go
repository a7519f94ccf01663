package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopkeeper/internal/client/auth"
)

func (c *Cli) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Вход и выход агента",
		Long: `Вход выполняется через challenge, подписанный внешним кошельком агента.
Ключи и подписи shopkeeper не хранит: сохраняется только bearer токен.`,
	}

	var pubkey string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Войти через подпись challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogin(cmd.Context(), pubkey)
		},
	}
	loginCmd.Flags().StringVarP(&pubkey, "pubkey", "k", "", "публичный ключ агента")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённую сессию",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogout(cmd.Context())
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Показать статус авторизации",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAuthStatus(cmd.Context())
		},
	}

	var agentID string
	importCmd := &cobra.Command{
		Use:   "import-token",
		Short: "Сохранить уже выданный bearer токен",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImportToken(cmd.Context(), agentID)
		},
	}
	importCmd.Flags().StringVar(&agentID, "agent-id", "", "agent_id, если токен не содержит subject")

	cmd.AddCommand(loginCmd, logoutCmd, statusCmd, importCmd)
	return cmd
}

func (c *Cli) runLogin(ctx context.Context, pubkey string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	if pubkey == "" {
		var err error
		pubkey, err = c.io.ReadInput("Public key: ")
		if err != nil {
			return fmt.Errorf("failed to read public key: %w", err)
		}
	}

	session, err := c.authService.Login(ctx, pubkey, c.signer)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Success("✓ Logged in as %s", agentLabel(session.AgentName, session.AgentID))
	if !session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return err
	}
	c.io.Success("✓ Logged out")
	return nil
}

func (c *Cli) runImportToken(ctx context.Context, agentID string) error {
	token, err := c.io.ReadSecret("Bearer token: ")
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	session, err := c.authService.ImportToken(ctx, token, agentID)
	if err != nil {
		return err
	}
	c.io.Success("✓ Token saved for agent %s", session.AgentID)
	return nil
}

func (c *Cli) runAuthStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.authService.Current(ctx)
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'shopkeeper auth login' to authenticate.")
		return nil
	case errors.Is(err, auth.ErrSessionExpired):
		c.io.Warn("⚠️  Token has expired. Please login again.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Agent:  %s\n", agentLabel(session.AgentName, session.AgentID))
	c.io.Printf("Server: %s\n", session.BaseURL)
	if !session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
		c.io.Printf("Time remaining: %s\n", session.ExpiresAt.Sub(c.now()).Round(time.Second))
	}
	return nil
}

func agentLabel(name, id string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
