package cmd

import (
	"fmt"

	"github.com/bnema/vmsim/internal/adapters/tui"
	"github.com/spf13/cobra"
)

func newPlayCmd(app *app) *cobra.Command {
	var instant bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the simulator interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := app.newSimulator(cmd.Context(), instant)
			if err != nil {
				return err
			}

			if err := tui.New(sim).Run(cmd.Context()); err != nil {
				return fmt.Errorf("run board: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&instant, "instant", false, "Skip simulated load, swap and close delays")

	return cmd
}
