package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vmsim",
		Short:         "Virtual memory simulator: juggle programs between RAM, swap and storage",
		Long:          "vmsim is a teaching simulator for virtual memory. Load programs from secondary storage into a fixed amount of RAM, mark them inactive, and swap them to virtual memory to make room, either freely or through a series of challenge levels.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPlayCmd(app),
		newRunCmd(app),
		newCatalogCmd(app),
	)

	return rootCmd
}
