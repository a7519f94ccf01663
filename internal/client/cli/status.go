package cli

import (
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopkeeper/internal/client/auth"
	"github.com/iudanet/shopkeeper/internal/models"
)

// historyTail сколько последних записей истории показывает status
const historyTail = 5

func (c *Cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Показать состояние локального хранилища и синхронизации",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus(cmd.Context())
		},
	}
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	session, err := c.authService.Current(ctx)
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		c.io.Println("Agent: not authenticated")
	case errors.Is(err, auth.ErrSessionExpired):
		c.io.Warn("Agent: session expired")
	case err != nil:
		return fmt.Errorf("failed to check authentication: %w", err)
	default:
		c.io.Printf("Agent: %s\n", agentLabel(session.AgentName, session.AgentID))
	}
	c.io.Printf("API:   %s\n", c.cfg.APIURL)
	c.io.Printf("Store: %s\n", c.cfg.StorePath)
	c.io.Println()

	counts := make(map[models.Status]int)
	products := c.store.ListProducts()
	for _, p := range products {
		counts[p.Status]++
	}
	c.io.Printf("Products: %d (draft %d, ready %d, synced %d, modified %d)\n",
		len(products),
		counts[models.StatusDraft], counts[models.StatusReady],
		counts[models.StatusSynced], counts[models.StatusModified])

	if pending := c.syncer.PendingCount(); pending > 0 {
		c.io.Warn("⚠️  Pending sync: %d record(s) waiting to be pushed", pending)
		c.io.Println("Run 'shopkeeper sync push' to publish them.")
	} else {
		c.io.Success("✓ All products synchronized with marketplace")
	}

	if last := c.store.LastSync(); last != nil {
		c.io.Printf("Last sync: %s (%s ago)\n", last.Format(time.RFC3339), c.now().Sub(*last).Round(time.Second))
	}

	history := c.store.History()
	if len(history) > historyTail {
		history = history[len(history)-historyTail:]
	}
	tmpl := template.Must(template.New("history").Funcs(templateFuncs).Parse(historyTemplate))
	if err := tmpl.Execute(c.io, history); err != nil {
		return err
	}
	c.io.Println()
	return nil
}
