package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var storeFlag string

	ctx := newCommandContext(&configFlag, &storeFlag)

	rootCmd := &cobra.Command{
		Use:           "serialq",
		Short:         "Inspect and manage a serial queue store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&storeFlag, "store", "s", "", "Store name (overrides store.name)")

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newSkipFirstCommand(ctx))
	rootCmd.AddCommand(newClearCommand(ctx))

	return rootCmd
}
