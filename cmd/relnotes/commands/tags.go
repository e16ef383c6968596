// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTagsCommand returns the `relnotes tags` command.
func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List release tags matching the configured pattern",
		RunE:  runTags,
	}

	cmd.Flags().String("pattern", "", "release tag glob (default from .relnotes.yaml)")

	return cmd
}

func runTags(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	tags, err := ws.repo.ResolveTags(ws.tagPattern(cmd))
	if err != nil {
		return asExit(err)
	}

	out := cmd.OutOrStdout()
	for _, t := range tags {
		fmt.Fprintf(out, "%s  %s\n", t.Target.Short(), t.Name)
	}
	if len(tags) == 0 {
		fmt.Fprintln(out, "(no matching tags)")
	}
	return nil
}
