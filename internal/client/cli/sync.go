package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/iudanet/shopkeeper/internal/client/sync"
)

func (c *Cli) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Синхронизация с маркетплейсом",
		Long: `push отправляет манифест локальных изменений, pull забирает покупки,
отзывы и статистику. watch выполняет push и pull по расписанию.`,
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Отправить локальные изменения",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := c.currentAgent(cmd.Context())
			if err != nil {
				return err
			}
			return c.runPush(cmd.Context(), agentID)
		},
	}

	var since string
	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Получить покупки, отзывы и статистику",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.currentAgent(cmd.Context()); err != nil {
				return err
			}
			return c.runPull(cmd.Context(), since)
		},
	}
	pullCmd.Flags().StringVar(&since, "since", "", "курсор предыдущего pull (по умолчанию сохранённый)")

	var (
		schedule string
		noPull   bool
	)
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Синхронизировать по расписанию до остановки",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = c.cfg.WatchSchedule
			}
			return c.runWatch(cmd.Context(), schedule, !noPull)
		},
	}
	watchCmd.Flags().StringVar(&schedule, "schedule", "", "расписание в формате cron или @every (по умолчанию watch_schedule)")
	watchCmd.Flags().BoolVar(&noPull, "no-pull", false, "выполнять только push")

	cmd.AddCommand(pushCmd, pullCmd, watchCmd)
	return cmd
}

func (c *Cli) runPush(ctx context.Context, agentID string) error {
	c.io.Println("=== Push ===")

	report, err := c.syncer.Push(ctx, agentID)
	if err != nil {
		return describeSyncError(err)
	}

	c.io.Println()
	if report.Actionable == 0 {
		c.io.Success("✓ Nothing to push, marketplace is up to date")
	} else {
		c.io.Success("✓ Push completed")
	}
	c.io.Printf("Created: %d\n", report.Summary.Created)
	c.io.Printf("Updated: %d\n", report.Summary.Updated)
	c.io.Printf("Deleted: %d\n", report.Summary.Deleted)

	if report.Result.HasErrors() {
		c.io.Println()
		c.io.Warn("⚠️  Rejected by marketplace: %d record(s)", len(report.Result.Errors))
		for _, recErr := range report.Result.Errors {
			c.io.Printf("  • %s: %s\n", recErr.LocalID, recErr.Error)
		}
		c.io.Println("Fix the products and run 'shopkeeper sync push' again.")
	}

	if report.Billing != nil {
		c.io.Println()
		c.io.Printf("Credits charged:   %d\n", report.Billing.CreditsCharged)
		c.io.Printf("Credits remaining: %d\n", report.Billing.CreditsRemaining)
	}
	return nil
}

func (c *Cli) runPull(ctx context.Context, since string) error {
	c.io.Println("=== Pull ===")

	resp, err := c.syncer.Pull(ctx, since)
	if err != nil {
		return describeSyncError(err)
	}

	c.io.Println()
	c.io.Success("✓ Pull completed")
	c.io.Printf("New purchases: %d\n", len(resp.Purchases))
	c.io.Printf("New reviews:   %d\n", len(resp.Reviews))
	if resp.Stats != nil {
		c.io.Println()
		c.io.Printf("Total sales:    %d\n", resp.Stats.TotalSales)
		c.io.Printf("Total revenue:  %d\n", resp.Stats.TotalRevenue)
		c.io.Printf("Average rating: %.2f (%d review(s))\n", resp.Stats.AverageRating, resp.Stats.ReviewCount)
	}
	return nil
}

// runWatch выполняет push и pull по расписанию, пока ctx не отменён.
// Запуски не перекрываются: следующий пропускается, пока идёт предыдущий.
func (c *Cli) runWatch(ctx context.Context, schedule string, pull bool) error {
	agentID, err := c.currentAgent(ctx)
	if err != nil {
		return err
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(c.logger.Handler(), slog.LevelDebug))
	scheduler := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := scheduler.AddFunc(schedule, func() { c.syncOnce(ctx, agentID, pull) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.io.Printf("Watching for changes (%s). Press Ctrl+C to stop.\n", schedule)
	scheduler.Start()

	<-ctx.Done()
	// Дожидаемся завершения текущего запуска
	<-scheduler.Stop().Done()

	c.io.Println("Watch stopped.")
	return nil
}

// syncOnce один запуск watch. Ошибки не прерывают расписание.
// Документ перечитывается каждый запуск: его могли изменить другие команды.
func (c *Cli) syncOnce(ctx context.Context, agentID string, pull bool) {
	c.store.Load(ctx)
	if err := c.runPush(ctx, agentID); err != nil {
		c.io.Warn("⚠️  %v", err)
		var syncErr *sync.SyncError
		if errors.As(err, &syncErr) && syncErr.Kind == sync.KindAuth {
			return
		}
	}
	if !pull {
		return
	}
	if err := c.runPull(ctx, ""); err != nil {
		c.io.Warn("⚠️  %v", err)
	}
}

// describeSyncError добавляет к ошибке подсказку, что делать дальше
func describeSyncError(err error) error {
	var syncErr *sync.SyncError
	if !errors.As(err, &syncErr) {
		return err
	}
	switch {
	case syncErr.Kind == sync.KindAuth:
		return fmt.Errorf("%w. Please run 'shopkeeper auth login'", err)
	case syncErr.Kind == sync.KindStorage:
		return fmt.Errorf("%w. The marketplace answered but the result was not saved locally. Check disk space and permissions, then run the command again", err)
	case syncErr.Retryable:
		return fmt.Errorf("%w. Local data is unchanged, try again later", err)
	}
	return err
}
