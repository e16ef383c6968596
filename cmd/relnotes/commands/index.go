// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/relnotes/pkg/attribution"
	"github.com/bartekus/relnotes/pkg/gitgraph"
	"github.com/bartekus/relnotes/pkg/lineage"
)

// NewIndexCommand returns the `relnotes index` command.
func NewIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Annotate every commit with lineage and attribution",
		Long:  "Lists all commits in topological order with their Follows/Precedes tags and primary issue. The tag set and commit order are resolved once and reused across the whole listing.",
		RunE:  runIndex,
	}

	cmd.Flags().String("pattern", "", "release tag glob (default from .relnotes.yaml)")
	cmd.Flags().String("format", "text", "Output format: text (default) or json")

	return cmd
}

type indexRow struct {
	Commit     gitgraph.CommitRef `json:"commit"`
	Subject    string             `json:"subject"`
	Follows    *lineage.Tag       `json:"follows,omitempty"`
	Precedes   *lineage.Tag       `json:"precedes,omitempty"`
	Primary    string             `json:"primary,omitempty"`
	Referenced []string           `json:"referenced"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	// One traversal serves every commit in the listing.
	snap, err := lineage.New(ws.repo).Snapshot(ws.tagPattern(cmd))
	if err != nil {
		return asExit(err)
	}
	extractor := attribution.NewExtractor(ws.store)

	var rows []indexRow
	for _, ref := range snap.Commits() {
		line, err := snap.Lineage(ref)
		if err != nil {
			return asExit(err)
		}
		info, err := ws.repo.CommitInfo(ref)
		if err != nil {
			return asExit(err)
		}
		touched, err := ws.repo.TouchedPaths(ref)
		if err != nil {
			return asExit(err)
		}
		attr := extractor.Attribute(info.Message, touched)

		rows = append(rows, indexRow{
			Commit:     ref,
			Subject:    info.Subject(),
			Follows:    line.Follows,
			Precedes:   line.Precedes,
			Primary:    attr.Primary,
			Referenced: attr.Referenced,
		})
	}

	switch format, _ := cmd.Flags().GetString("format"); format {
	case "text":
		out := cmd.OutOrStdout()
		for _, row := range rows {
			fmt.Fprintf(out, "%s  %-10s %-10s %-14s %s\n",
				row.Commit.Short(),
				orDash(tagName(row.Follows)),
				orDash(tagName(row.Precedes)),
				orDash(row.Primary),
				row.Subject,
			)
		}
		return nil

	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
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

func tagName(t *lineage.Tag) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
