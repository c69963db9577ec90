/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for deprecss.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"bennypowers.dev/deprecss/cmd/lint"
	"bennypowers.dev/deprecss/cmd/list"
	"bennypowers.dev/deprecss/cmd/version"
	"bennypowers.dev/deprecss/internal/cli"
	"bennypowers.dev/deprecss/internal/logger"
	internalversion "bennypowers.dev/deprecss/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "deprecss",
	Short: "Flag references to deprecated CSS custom properties",
	Long: `deprecss finds var() references to CSS custom properties whose declarations
carry a @deprecated comment, following @import chains across files and packages.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command and exits with the status the command asks for.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(internalversion.Full()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log absorbed resolution and read failures")

	rootCmd.AddCommand(lint.Cmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
