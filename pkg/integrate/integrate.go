// Package integrate is the pipeline orchestrator. It resolves the
// active transformation version, performs the idempotency check against
// the state marker, manages the source tree lifecycle (clean, fetch,
// extract, rename), dispatches the transformation procedure, and
// reports the outcome. The state marker itself is written by the
// procedure, not here, so the marker always reflects exactly what was
// applied.
package integrate

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/logging"
	"github.com/arthur-debert/uplift/pkg/marker"
	"github.com/arthur-debert/uplift/pkg/types"
)

// Integrate runs the pipeline for one upstream release. With force
// false and a marker matching the requested release, it returns the
// already-integrated outcome without any network or filesystem work.
func Integrate(ctx context.Context, cfg *types.Config, upstreamVersion string, force bool) (types.IntegrateResult, error) {
	var result types.IntegrateResult
	logger := logging.GetLogger("integrate")
	done := logging.LogOperationStart(logger, "integrate")
	defer done()

	if _, err := semver.NewVersion(upstreamVersion); err != nil {
		return result, errors.Wrapf(err, errors.ErrInvalidInput,
			"upstream version %q is not a semantic version", upstreamVersion)
	}

	release, err := acquireLock(cfg.FS, cfg.LockPath)
	if err != nil {
		return result, err
	}
	defer release()

	// The pointer is advisory: unreadable falls back to the default
	active := cfg.Transforms.Active(cfg.FS, cfg.PointerPath, cfg.DefaultTransformVersion)
	logger.Info().Str("transform", active).Str("upstream", upstreamVersion).Bool("force", force).
		Msg("Integration requested")

	// Idempotency check. The marker's presence is the sole signal; its
	// content decides skip vs. re-run.
	m, err := marker.Read(cfg.FS, cfg.MarkerPath())
	if err != nil {
		return result, err
	}
	if m != nil && !force && m.Matches(upstreamVersion) {
		logger.Info().Str("upstream", upstreamVersion).Msg("Already integrated, nothing to do")
		return types.IntegrateResult{
			Outcome:          types.OutcomeAlreadyIntegrated,
			TransformVersion: m.TransformVersion,
			UpstreamVersion:  m.UpstreamVersion,
		}, nil
	}

	// Validate compatibility and resolve the procedure before touching
	// the tree: a missing procedure or an out-of-range release must
	// surface with zero mutation.
	if err := cfg.Transforms.Compatible(active, upstreamVersion); err != nil {
		return result, err
	}
	proc, err := cfg.Transforms.Resolve(active)
	if err != nil {
		return result, err
	}

	// Tree lifecycle reset. A transformed tree cannot safely receive a
	// second structural transformation, so the only safe re-entry point
	// is a pristine re-extraction.
	treeExists := false
	if info, statErr := cfg.FS.Stat(cfg.TreePath); statErr == nil && info.IsDir() {
		treeExists = true
	}
	if treeExists && (force || m != nil) {
		logger.Info().Str("tree", cfg.TreePath).Msg("Deleting stale source tree")
		if err := cfg.FS.RemoveAll(cfg.TreePath); err != nil {
			return result, errors.Wrapf(err, errors.ErrTreeReset, "failed to delete %s", cfg.TreePath)
		}
	}

	// Fetch and extract under the scratch name, then rename onto the
	// fixed path; a failed fetch leaves nothing mounted there.
	extracted, err := cfg.Fetcher.Fetch(ctx, upstreamVersion)
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			return result, errors.Wrapf(err, errors.ErrFetch, "fetch of %s failed", upstreamVersion)
		}
		return result, err
	}
	if err := cfg.FS.Rename(extracted, cfg.TreePath); err != nil {
		return result, errors.Wrapf(err, errors.ErrFetch,
			"failed to move extraction into place at %s (re-run with --force to clear a leftover tree)", cfg.TreePath)
	}

	logger.Info().Str("transform", active).Str("tree", cfg.TreePath).Msg("Applying transformation")
	if err := proc.Apply(ctx, cfg.FS, cfg.TreePath, upstreamVersion); err != nil {
		// The tree is left as the procedure left it, for inspection;
		// recovery is an operator re-run with force.
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			return result, errors.Wrapf(err, errors.ErrProcedureExecute, "transformation %s failed", active)
		}
		return result, err
	}

	return types.IntegrateResult{
		Outcome:          types.OutcomeIntegrated,
		TransformVersion: active,
		UpstreamVersion:  upstreamVersion,
	}, nil
}
