// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bartekus/relnotes/cmd/relnotes/internal/clierr"
	"github.com/bartekus/relnotes/internal/config"
	"github.com/bartekus/relnotes/internal/issuestore"
	"github.com/bartekus/relnotes/internal/projectroot"
	"github.com/bartekus/relnotes/pkg/gitgraph"
)

// workspace bundles everything a command needs: the repository root, the
// loaded configuration, the graph accessor, and the issue store.
type workspace struct {
	root  string
	cfg   config.Config
	repo  *gitgraph.Repo
	store *issuestore.Store
}

// openWorkspace locates the repository from the --repo flag, loads
// .relnotes.yaml, and opens the graph accessor.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	start, _ := cmd.Flags().GetString("repo")

	root, err := projectroot.Find(start)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "locating repository", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	var opts []gitgraph.Option
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, gitgraph.WithLogger(logger))
	}

	repo, err := gitgraph.Open(root, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	return &workspace{
		root:  root,
		cfg:   cfg,
		repo:  repo,
		store: issuestore.New(root, cfg.IssuesDir),
	}, nil
}

// tagPattern resolves the effective pattern: --pattern flag when set,
// otherwise the configured default.
func (ws *workspace) tagPattern(cmd *cobra.Command) string {
	if pattern, _ := cmd.Flags().GetString("pattern"); pattern != "" {
		return pattern
	}
	return ws.cfg.TagPattern
}

// asExit maps engine caller-errors (unknown revision, malformed pattern) to
// usage exit codes; everything else passes through for the default failure
// code.
func asExit(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gitgraph.ErrInvalidPattern) || errors.Is(err, gitgraph.ErrUnknownCommit) {
		return clierr.Wrap(clierr.CodeUsage, "invalid argument", err)
	}
	return err
}
