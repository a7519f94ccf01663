package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iudanet/shopkeeper/internal/client/store"
	"github.com/iudanet/shopkeeper/internal/models"
	"github.com/iudanet/shopkeeper/internal/validation"
)

// productFlags значения флагов create/update
type productFlags struct {
	name        string
	description string
	category    string
	delivery    string
	payload     string
	file        string
	price       int64
	ready       bool
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.name, "name", "n", "", "название продукта")
	fs.StringVarP(&f.description, "description", "d", "", "описание")
	fs.StringVarP(&f.category, "category", "c", "", "категория (slug)")
	fs.Int64VarP(&f.price, "price", "p", 0, "цена в минимальных единицах валюты")
	fs.StringVar(&f.delivery, "delivery", "", "способ доставки (download, repo, api, manual)")
	fs.StringVar(&f.payload, "payload", "", "данные доставки: URL, репозиторий, endpoint или инструкция")
	fs.StringVar(&f.file, "file", "", "файл продукта: считается content_hash и размер")
}

// fields собирает частичное обновление только из заданных флагов
func (f *productFlags) fields(fs *pflag.FlagSet) (models.ProductFields, error) {
	var fields models.ProductFields
	if fs.Changed("name") {
		fields.Name = &f.name
	}
	if fs.Changed("description") {
		fields.Description = &f.description
	}
	if fs.Changed("category") {
		fields.CategoryID = &f.category
	}
	if fs.Changed("price") {
		fields.Price = &f.price
	}
	if fs.Changed("delivery") {
		d := models.DeliveryType(strings.ToLower(f.delivery))
		fields.DeliveryType = &d
	}
	if fs.Changed("payload") {
		fields.DeliveryPayload = &f.payload
	}
	if f.file != "" {
		hash, size, err := validation.HashFile(f.file)
		if err != nil {
			return fields, fmt.Errorf("failed to hash product file: %w", err)
		}
		fields.ContentHash = &hash
		fields.FileSizeBytes = &size
	}
	return fields, nil
}

func (c *Cli) newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Управление продуктами",
		Long:    `Создание, изменение, удаление и просмотр продуктов в локальном хранилище.`,
	}

	var create productFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Создать черновик продукта",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := create.fields(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runProductCreate(cmd.Context(), fields, create.ready)
		},
	}
	create.register(createCmd.Flags())
	createCmd.Flags().BoolVar(&create.ready, "ready", false, "сразу пометить продукт готовым к публикации")

	var update productFlags
	updateCmd := &cobra.Command{
		Use:   "update <local_id>",
		Short: "Изменить продукт",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := update.fields(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runProductUpdate(cmd.Context(), args[0], fields)
		},
	}
	update.register(updateCmd.Flags())

	readyCmd := &cobra.Command{
		Use:   "ready <local_id>",
		Short: "Пометить черновик готовым к публикации",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProductReady(cmd.Context(), args[0])
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <local_id>",
		Aliases: []string{"rm"},
		Short:   "Удалить продукт",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProductDelete(cmd.Context(), args[0])
		},
	}

	var listStatus, listFormat string
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Список продуктов",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProductList(listStatus, listFormat)
		},
	}
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "фильтр по статусу (draft, ready, synced, modified)")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "формат вывода (table, json)")

	showCmd := &cobra.Command{
		Use:   "show <local_id>",
		Short: "Показать продукт",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProductShow(args[0])
		},
	}

	cmd.AddCommand(createCmd, updateCmd, readyCmd, deleteCmd, listCmd, showCmd)
	return cmd
}

func (c *Cli) runProductCreate(ctx context.Context, fields models.ProductFields, ready bool) error {
	if fields.DeliveryType == nil {
		manual := models.DeliveryManual
		fields.DeliveryType = &manual
	}

	draft := &models.LocalProduct{}
	fields.ApplyTo(draft)
	if err := validation.ValidateProduct(draft); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	var product *models.LocalProduct
	err := c.store.Mutate(ctx, func(m *store.Manager) error {
		product = m.CreateProduct(fields)
		if ready {
			p, err := m.MarkReady(product.LocalID)
			if err != nil {
				return err
			}
			product = p
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	c.io.Success("✓ Product created: %s", product.LocalID)
	c.io.Printf("Status: %s\n", product.Status)
	if product.Status == models.StatusDraft {
		c.io.Println("Run 'shopkeeper product ready " + product.LocalID + "' to publish it on next push.")
	}
	return nil
}

func (c *Cli) runProductUpdate(ctx context.Context, localID string, fields models.ProductFields) error {
	if fields.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	var product *models.LocalProduct
	err := c.store.Mutate(ctx, func(m *store.Manager) error {
		current, err := m.GetProduct(localID)
		if err != nil {
			return err
		}
		fields.ApplyTo(current)
		if err := validation.ValidateProduct(current); err != nil {
			return fmt.Errorf("invalid product: %w", err)
		}
		product, err = m.UpdateProduct(localID, fields)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	c.io.Success("✓ Product updated: %s", product.LocalID)
	c.io.Printf("Status: %s\n", product.Status)
	return nil
}

func (c *Cli) runProductReady(ctx context.Context, localID string) error {
	var product *models.LocalProduct
	err := c.store.Mutate(ctx, func(m *store.Manager) error {
		current, err := m.GetProduct(localID)
		if err != nil {
			return err
		}
		// Черновик мог быть создан без проверок, проверяем перед публикацией
		if err := validation.ValidateProduct(current); err != nil {
			return fmt.Errorf("product is not ready for publishing: %w", err)
		}
		product, err = m.MarkReady(localID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark product ready: %w", err)
	}

	c.io.Success("✓ Product %s is %s", product.LocalID, product.Status)
	return nil
}

func (c *Cli) runProductDelete(ctx context.Context, localID string) error {
	var remoteID string
	err := c.store.Mutate(ctx, func(m *store.Manager) error {
		current, err := m.GetProduct(localID)
		if err != nil {
			return err
		}
		remoteID = current.RemoteID
		return m.DeleteProduct(localID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	c.io.Success("✓ Product deleted: %s", localID)
	if remoteID != "" {
		c.io.Println("It will be removed from the marketplace on next 'shopkeeper sync push'.")
	}
	return nil
}

func (c *Cli) runProductList(status, format string) error {
	var statuses []models.Status
	if status != "" {
		s := models.Status(strings.ToLower(status))
		if !s.Valid() {
			return fmt.Errorf("unknown status %q. Use: draft, ready, synced, modified", status)
		}
		statuses = append(statuses, s)
	}
	products := c.store.ListProducts(statuses...)

	switch format {
	case "json":
		encoder := json.NewEncoder(c.io)
		encoder.SetIndent("", "  ")
		return encoder.Encode(products)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q. Use: table, json", format)
	}

	if len(products) == 0 {
		c.io.Println("No products found.")
		c.io.Println()
		c.io.Println("Use 'shopkeeper product create' to add your first product.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOCAL ID\tNAME\tPRICE\tDELIVERY\tSTATUS\tREMOTE ID")
	for _, p := range products {
		remote := p.RemoteID
		if remote == "" {
			remote = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			p.LocalID, truncate(p.Name, 30), p.Price, p.DeliveryType, p.Status, remote)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	c.io.Printf("\nTotal: %d product(s)\n", len(products))
	return nil
}

func (c *Cli) runProductShow(localID string) error {
	product, err := c.store.GetProduct(localID)
	if err != nil {
		return err
	}
	tmpl := template.Must(template.New("product").Funcs(templateFuncs).Parse(productTemplate))
	return tmpl.Execute(c.io, product)
}

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length-3]) + "..."
}
