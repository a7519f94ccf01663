package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Покупки и отзывы, полученные через pull",
	}

	var (
		productID string
		limit     int
	)

	purchasesCmd := &cobra.Command{
		Use:   "purchases",
		Short: "Список покупок",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPurchases(cmd.Context(), productID, limit)
		},
	}

	reviewsCmd := &cobra.Command{
		Use:   "reviews",
		Short: "Список отзывов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReviews(cmd.Context(), productID, limit)
		},
	}

	cmd.PersistentFlags().StringVar(&productID, "product", "", "remote_id продукта")
	cmd.PersistentFlags().IntVar(&limit, "limit", 20, "ограничение количества записей (0 - без ограничения)")

	cmd.AddCommand(purchasesCmd, reviewsCmd)
	return cmd
}

func (c *Cli) runPurchases(ctx context.Context, productID string, limit int) error {
	purchases, err := c.activity.ListPurchases(ctx, productID, limit)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}
	if len(purchases) == 0 {
		c.io.Println("No purchases yet. Run 'shopkeeper sync pull' to fetch new ones.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRODUCT\tBUYER\tAMOUNT")
	var total int64
	for _, p := range purchases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.PurchasedAt.Format(time.DateTime), p.ProductID, p.BuyerID, p.Amount)
		total += p.Amount
	}
	if err := w.Flush(); err != nil {
		return err
	}
	c.io.Printf("\nShown: %d purchase(s), %d total\n", len(purchases), total)
	return nil
}

func (c *Cli) runReviews(ctx context.Context, productID string, limit int) error {
	reviews, err := c.activity.ListReviews(ctx, productID, limit)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}
	if len(reviews) == 0 {
		c.io.Println("No reviews yet. Run 'shopkeeper sync pull' to fetch new ones.")
		return nil
	}

	for _, r := range reviews {
		c.io.Printf("%s  %s  %d/5  %s\n", r.CreatedAt.Format(time.DateTime), r.ProductID, r.Rating, r.AuthorID)
		if r.Comment != "" {
			c.io.Printf("    %s\n", r.Comment)
		}
	}
	return nil
}
