// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/relnotes/pkg/gitgraph"
	"github.com/bartekus/relnotes/pkg/lineage"
)

// NewLineageCommand returns the `relnotes lineage` command.
func NewLineageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage <revision>",
		Short: "Resolve the nearest release tags around a commit",
		Long:  "Resolves the nearest preceding release tag (Follows) and the nearest following release tag (Precedes) for a commit, matched against the release tag pattern.",
		Args:  cobra.ExactArgs(1),
		RunE:  runLineage,
	}

	cmd.Flags().String("pattern", "", "release tag glob (default from .relnotes.yaml)")
	cmd.Flags().String("format", "text", "Output format: text (default) or json")

	return cmd
}

type lineageReport struct {
	Commit   gitgraph.CommitRef `json:"commit"`
	Follows  *lineage.Tag       `json:"follows,omitempty"`
	Precedes *lineage.Tag       `json:"precedes,omitempty"`
}

func runLineage(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	ref, err := ws.repo.ResolveRevision(args[0])
	if err != nil {
		return asExit(err)
	}

	result, err := lineage.New(ws.repo).Lineage(ref, ws.tagPattern(cmd))
	if err != nil {
		return asExit(err)
	}
	report := lineageReport{Commit: ref, Follows: result.Follows, Precedes: result.Precedes}

	switch format, _ := cmd.Flags().GetString("format"); format {
	case "text":
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Commit:   %s\n", report.Commit)
		fmt.Fprintf(out, "Follows:  %s\n", formatLineageTag(report.Follows))
		fmt.Fprintf(out, "Precedes: %s\n", formatLineageTag(report.Precedes))
		return nil

	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
		_, err = cmd.OutOrStdout().Write(data)
		return err

	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}
}

func formatLineageTag(t *lineage.Tag) string {
	if t == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s (distance %d)", t.Name, t.Distance)
}
