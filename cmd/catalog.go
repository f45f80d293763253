package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	tomlrepo "github.com/bnema/vmsim/internal/adapters/repo/toml"
	"github.com/bnema/vmsim/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and initialize the program and level catalog",
	}

	cmd.AddCommand(newCatalogShowCmd(app), newCatalogInitCmd(app))

	return cmd
}

func newCatalogShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show programs and levels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := app.repo.Load(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(catalog)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), formatCatalog(catalog))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newCatalogInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in catalog to the catalog path for editing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exists, err := app.repo.Exists()
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("catalog already exists at %s (use --force to overwrite)", app.repo.Path())
			}

			catalog, err := tomlrepo.DefaultCatalog()
			if err != nil {
				return err
			}
			if err := app.repo.Save(cmd.Context(), catalog); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote catalog to %s\n", app.repo.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing catalog file")

	return cmd
}

func formatCatalog(catalog domain.Catalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Programs (%d):\n", len(catalog.Programs))
	for _, program := range catalog.Programs {
		flags := ""
		if !program.Removable {
			flags = " [pinned]"
		}
		fmt.Fprintf(&b, "  %-12s %-20s size %d%s\n", program.ID, program.Name, program.Size, flags)
	}

	fmt.Fprintf(&b, "Levels (%d):\n", len(catalog.Levels))
	for i, level := range catalog.Levels {
		ids := make([]string, 0, len(level.Sequence))
		for _, id := range level.Sequence {
			ids = append(ids, string(id))
		}
		fmt.Fprintf(&b, "  %d. %s (RAM %d): %s\n", i+1, level.Name, level.Capacity, strings.Join(ids, ", "))
	}

	return b.String()
}
