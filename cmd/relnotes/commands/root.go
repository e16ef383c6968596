// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Relnotes - Relnotes annotates a Git repository's commit history with release and issue metadata for documentation workflows.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the relnotes root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("RELNOTES_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "relnotes",
		Short:         "Relnotes - release and issue annotations for commit history",
		Long:          "Relnotes resolves each commit's nearest release tags (Follows/Precedes) and infers which tracked issues a commit relates to.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().String("repo", ".", "path inside the repository to operate on")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of relnotes",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "relnotes version %s\n", version)
		},
	})

	cmd.AddCommand(NewLineageCommand())
	cmd.AddCommand(NewAttributionCommand())
	cmd.AddCommand(NewIndexCommand())
	cmd.AddCommand(NewTagsCommand())
	cmd.AddCommand(NewIssuesCommand())

	return cmd
}
