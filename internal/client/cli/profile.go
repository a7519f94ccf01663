package cli

import (
	"context"
	"fmt"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopkeeper/internal/client/store"
	"github.com/iudanet/shopkeeper/internal/models"
	"github.com/iudanet/shopkeeper/internal/validation"
)

func (c *Cli) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Профиль витрины",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Показать профиль витрины",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProfileShow()
		},
	}

	var (
		name, tagline, description string
		links                      map[string]string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Изменить профиль витрины",
		Long: `Изменяет только переданные поля профиля.
Ссылка с пустым URL удаляется: --link blog=`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields models.ProfileFields
			if cmd.Flags().Changed("name") {
				fields.Name = &name
			}
			if cmd.Flags().Changed("tagline") {
				fields.Tagline = &tagline
			}
			if cmd.Flags().Changed("description") {
				fields.Description = &description
			}
			fields.Links = links
			return c.runProfileSet(cmd.Context(), fields)
		},
	}
	setCmd.Flags().StringVarP(&name, "name", "n", "", "название витрины")
	setCmd.Flags().StringVarP(&tagline, "tagline", "t", "", "короткий слоган")
	setCmd.Flags().StringVarP(&description, "description", "d", "", "описание витрины")
	setCmd.Flags().StringToStringVar(&links, "link", nil, "ссылка name=url, можно указывать несколько раз")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func (c *Cli) runProfileShow() error {
	tmpl := template.Must(template.New("profile").Parse(profileTemplate))
	return tmpl.Execute(c.io, c.store.Profile())
}

func (c *Cli) runProfileSet(ctx context.Context, fields models.ProfileFields) error {
	if fields.Name == nil && fields.Tagline == nil && fields.Description == nil && len(fields.Links) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	err := c.store.Mutate(ctx, func(m *store.Manager) error {
		next := m.Profile()
		fields.ApplyTo(&next)
		if err := validation.ValidateProfile(next); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}
		m.UpdateProfile(fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	c.io.Success("✓ Store profile updated")
	return nil
}
