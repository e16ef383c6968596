// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/relnotes/pkg/attribution"
	"github.com/bartekus/relnotes/pkg/gitgraph"
)

// NewAttributionCommand returns the `relnotes attribution` command.
func NewAttributionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribution <revision>",
		Short: "Infer which tracked issues a commit relates to",
		Long:  "Scans the commit message and touched files for issue references and selects at most one primary issue (directive match first, single touched issue file second, otherwise none).",
		Args:  cobra.ExactArgs(1),
		RunE:  runAttribution,
	}

	cmd.Flags().String("format", "text", "Output format: text (default) or json")

	return cmd
}

type attributionReport struct {
	Commit gitgraph.CommitRef `json:"commit"`
	attribution.Result
}

func runAttribution(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	ref, err := ws.repo.ResolveRevision(args[0])
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

	result := attribution.NewExtractor(ws.store).Attribute(info.Message, touched)
	report := attributionReport{Commit: ref, Result: result}

	switch format, _ := cmd.Flags().GetString("format"); format {
	case "text":
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Commit:     %s\n", report.Commit)
		if report.Primary == "" {
			fmt.Fprintf(out, "Primary:    (none)\n")
		} else {
			fmt.Fprintf(out, "Primary:    %s (%s)\n", report.Primary, report.PrimarySource)
		}
		if len(report.Referenced) == 0 {
			fmt.Fprintf(out, "Referenced: (none)\n")
		} else {
			fmt.Fprintf(out, "Referenced: %s\n", strings.Join(report.Referenced, ", "))
		}
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
