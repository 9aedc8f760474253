package transform

import (
	"context"
	_ "embed"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/logging"
	"github.com/arthur-debert/uplift/pkg/manifest"
	"github.com/arthur-debert/uplift/pkg/marker"
	"github.com/arthur-debert/uplift/pkg/registry"
	"github.com/arthur-debert/uplift/pkg/types"
)

//go:embed templates/lib.rs
var libEntryPoint []byte

const (
	// V2Version is the transformation version this procedure implements
	V2Version = "v2.0"

	// V2Compat is the range of upstream releases V2 can transform
	V2Compat = ">=2.0.0, <3.0.0"

	// LibMember is the workspace member the procedure adds
	LibMember = "lib/surrealdb-lib"

	// LibName is the synthesized package's name
	LibName = "surrealdb-lib"
)

// V2Submodules are the application-layout sub-directories relocated
// into the library skeleton. Each is declared as a public sub-module by
// the synthesized entry point.
var V2Submodules = []string{"net", "rpc", "telemetry"}

func init() {
	if err := registry.Transforms.Register(NewV2(), V2Compat); err != nil {
		panic(err)
	}
}

// V2 converts the upstream 2.x application layout into the library
// layout. Every edit is idempotent: directory creation tolerates
// existing directories, relocations skip absent sources, and the
// workspace patch inserts by content match. The state marker write is
// the last operation and the commit point of the whole run.
type V2 struct{}

// NewV2 creates the v2.0 transformation procedure
func NewV2() *V2 {
	return &V2{}
}

// Version returns the transformation version identifier
func (p *V2) Version() string {
	return V2Version
}

// Apply runs the transformation against the extracted source tree
func (p *V2) Apply(ctx context.Context, filesystem types.FS, treePath, upstreamVersion string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrProcedureExecute, "transformation canceled before start")
	}

	logger := logging.GetLogger("transform.v2")
	phase := types.PhaseUnvalidated
	logPhase := func(next types.Phase) {
		phase = next
		logger.Debug().Str("phase", string(phase)).Str("tree", treePath).Msg("Phase complete")
	}

	// Precondition: the tree must still look like the upstream
	// application layout. Fail fast with no mutation otherwise.
	srcDir := filepath.Join(treePath, "src")
	if info, err := filesystem.Stat(srcDir); err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrPrecondition,
			"source tree %s has no src directory; not an upstream application layout", treePath)
	}
	logPhase(types.PhaseValidated)

	skeleton := filepath.Join(treePath, filepath.FromSlash(LibMember), "src")
	if err := filesystem.MkdirAll(skeleton, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrProcedureExecute, "failed to create skeleton %s", skeleton)
	}
	logPhase(types.PhaseSkeletonCreated)

	for _, sub := range V2Submodules {
		if err := relocate(filesystem, filepath.Join(srcDir, sub), filepath.Join(skeleton, sub), logger); err != nil {
			return err
		}
	}
	logPhase(types.PhaseRelocated)

	libRoot := filepath.Join(treePath, filepath.FromSlash(LibMember))
	if err := filesystem.WriteFile(filepath.Join(libRoot, "src", "lib.rs"), libEntryPoint, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrProcedureExecute, "failed to write library entry point")
	}
	pkgVersion := upstreamVersion
	if pkgVersion == "" {
		pkgVersion = "0.0.0"
	}
	if err := manifest.WriteLibManifest(filesystem, filepath.Join(libRoot, "Cargo.toml"), LibName, pkgVersion); err != nil {
		return err
	}
	logPhase(types.PhaseArtifactsSynthesized)

	changed, err := manifest.EnsureMember(filesystem, filepath.Join(treePath, "Cargo.toml"), LibMember)
	if err != nil {
		return err
	}
	logger.Debug().Bool("changed", changed).Msg("Workspace manifest patched")
	logPhase(types.PhaseManifestPatched)

	// Commit point: nothing after this write has side effects
	m := &types.Marker{TransformVersion: V2Version, UpstreamVersion: upstreamVersion}
	if err := marker.Write(filesystem, filepath.Join(treePath, types.MarkerFileName), m); err != nil {
		return err
	}
	logPhase(types.PhaseCommitted)

	return nil
}

// relocate moves src to dst, skipping silently when src is absent so a
// re-run against a tree where some relocations already happened does
// not fail.
func relocate(filesystem types.FS, src, dst string, logger zerolog.Logger) error {
	if _, err := filesystem.Stat(src); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("src", src).Msg("Sub-directory absent, skipping relocation")
			return nil
		}
		return errors.Wrapf(err, errors.ErrProcedureExecute, "failed to inspect %s", src)
	}

	if err := filesystem.Rename(src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrProcedureExecute, "failed to relocate %s to %s", src, dst)
	}
	logger.Debug().Str("src", src).Str("dst", dst).Msg("Relocated sub-directory")
	return nil
}
