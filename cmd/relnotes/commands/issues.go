// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIssuesCommand returns the `relnotes issues` command.
func NewIssuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "List known issues from the issue directory",
		RunE:  runIssues,
	}
}

func runIssues(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	issues, err := ws.store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, issue := range issues {
		fmt.Fprintf(out, "%-7s %s\n", issue.State, issue.Slug)
	}
	if len(issues) == 0 {
		fmt.Fprintln(out, "(no known issues)")
	}
	return nil
}
