package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	boardadapter "github.com/bnema/vmsim/internal/adapters/render/board"
	"github.com/bnema/vmsim/internal/adapters/script"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var scriptPath string
	var asJSON bool
	var instant bool
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scripted session and print the final board",
		Long:  "Run reads one intent per line (mode, capacity, level, start, move, toggle, advance, reset, menu) from --script or stdin and plays them in order. Rejected moves are reported and the run continues.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := readScript(cmd, scriptPath)
			if err != nil {
				return err
			}

			sim, err := app.newSimulator(cmd.Context(), instant)
			if err != nil {
				return err
			}

			var report script.Report
			play := func(ctx context.Context, observe script.StepObserver) error {
				var runErr error
				report, runErr = script.RunObserved(ctx, sim, steps, observe)
				return runErr
			}

			if asJSON {
				if err := play(cmd.Context(), nil); err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			busyText := func() string { return sim.Snapshot().BusyText }
			if err := playWithProgress(cmd.Context(), cmd.ErrOrStderr(), len(steps), busyText, play); err != nil {
				return err
			}

			return writeReport(cmd, app, report, showHistory)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Script file to run (default: stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the step results and final snapshot as JSON")
	cmd.Flags().BoolVar(&instant, "instant", false, "Skip simulated load, swap and close delays")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Include the move history in the final board")

	return cmd
}

func readScript(cmd *cobra.Command, path string) ([]script.Step, error) {
	var source io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer file.Close()
		source = file
	}

	steps, err := script.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(steps) == 0 {
		return nil, errors.New("script has no steps")
	}

	return steps, nil
}

func writeReport(cmd *cobra.Command, app *app, report script.Report, showHistory bool) error {
	out := cmd.OutOrStdout()
	for _, step := range report.Steps {
		var err error
		if step.Accepted {
			_, err = fmt.Fprintf(out, "[ok]       line %d: %s (score %d)\n", step.Line, step.Step, step.Score)
		} else {
			_, err = fmt.Fprintf(out, "[rejected] line %d: %s: %s\n", step.Line, step.Step, step.Rejection)
		}
		if err != nil {
			return err
		}
	}

	rendered, err := app.boardRenderer(report.Final, boardadapter.RenderOptions{ShowHistory: showHistory})
	if err != nil {
		return fmt.Errorf("render board: %w", err)
	}

	_, err = fmt.Fprintf(out, "\n%s\n", rendered)
	return err
}
