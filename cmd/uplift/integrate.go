package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/uplift/pkg/config"
	"github.com/arthur-debert/uplift/pkg/fetch"
	"github.com/arthur-debert/uplift/pkg/filesystem"
	"github.com/arthur-debert/uplift/pkg/integrate"
	"github.com/arthur-debert/uplift/pkg/registry"
	"github.com/arthur-debert/uplift/pkg/types"
)

func newIntegrateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "integrate <upstream-version>",
		Short: "Fetch and transform one upstream release",
		Long: `Fetch the given SurrealDB release, restructure it into the library
layout selected by the active transformation version, and record the
result. When the tree already carries the requested release, the run
is a no-op unless --force is given.`,
		Example: `  uplift integrate 2.3.10
  uplift integrate 2.3.10 --force`,
		// Usage prints for a missing version argument, while runtime
		// failures stay a one-line message
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Usage()
				return fmt.Errorf("requires exactly one upstream version argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			upstreamVersion := args[0]

			projectRoot, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			cfg, err := buildConfig(projectRoot)
			if err != nil {
				return err
			}

			result, err := integrate.Integrate(cmd.Context(), cfg, upstreamVersion, force)
			if err != nil {
				return err
			}

			switch result.Outcome {
			case types.OutcomeAlreadyIntegrated:
				fmt.Printf("surrealdb %s already integrated (transform %s), nothing to do\n",
					result.UpstreamVersion, result.TransformVersion)
			default:
				fmt.Printf("integrated surrealdb %s (transform %s)\n",
					result.UpstreamVersion, result.TransformVersion)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete and re-fetch the tree even if already integrated")

	return cmd
}

// buildConfig wires the injected pipeline configuration from the tool
// settings for the given project root
func buildConfig(projectRoot string) (*types.Config, error) {
	settings, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()
	scratchDir := filepath.Join(projectRoot, settings.Tree.ScratchDir)

	return &types.Config{
		FS:                      fs,
		ProjectRoot:             projectRoot,
		TreePath:                filepath.Join(projectRoot, settings.Tree.Dir),
		PointerPath:             filepath.Join(projectRoot, filepath.FromSlash(settings.Transform.PointerFile)),
		LockPath:                filepath.Join(projectRoot, settings.Tree.LockFile),
		DefaultTransformVersion: settings.Transform.DefaultVersion,
		Transforms:              registry.Transforms,
		Fetcher: fetch.NewHTTPFetcher(fs, nil,
			settings.Upstream.URLTemplate, settings.Upstream.Project, scratchDir),
	}, nil
}
