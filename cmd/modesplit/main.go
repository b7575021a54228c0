// SPDX-License-Identifier: MIT

// Command modesplit runs the nested-logit mode-choice model over a project
// directory holding modesplit.yaml and its inputs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:           "modesplit",
		Short:         "Nested-logit mode choice: skims and land use in, trips by mode out",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug records")

	rootCmd.AddCommand(runCmd(&verbose))
	rootCmd.AddCommand(validateCmd(&verbose))
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd(verbose *bool) *cobra.Command {
	var noStore bool
	var by string
	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Run every configured purpose, print mode shares and persist the run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			breakdown, err := parseBreakdown(by)
			if err != nil {
				return err
			}
			return runModel(cmd.Context(), args[0], runOptions{verbose: *verbose, store: !noStore, breakdown: breakdown})
		},
	}
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip writing the run to the database")
	cmd.Flags().StringVar(&by, "by", "", "split VMT and PMT by period, ownership or purpose")
	return cmd
}

func validateCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Check parameter tables, rules and trip tables without solving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0], *verbose)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "modesplit", version)
		},
	}
}
