package registry

import (
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/logging"
	"github.com/arthur-debert/uplift/pkg/types"
)

// TransformRegistry maps transformation versions to procedures and to
// the semver range of upstream releases each procedure covers. One
// transformation version serves a whole compatibility range, so the
// mapping is explicit rather than a naming convention the operator has
// to keep in their head.
type TransformRegistry struct {
	mu         sync.RWMutex
	procedures Registry[types.Procedure]
	compat     map[string]*semver.Constraints
}

// NewTransformRegistry creates an empty transformation registry
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{
		procedures: New[types.Procedure](),
		compat:     make(map[string]*semver.Constraints),
	}
}

// Register adds a procedure with its upstream compatibility range,
// e.g. Register(proc, ">=2.0.0, <3.0.0")
func (r *TransformRegistry) Register(proc types.Procedure, compatRange string) error {
	constraints, err := semver.NewConstraint(compatRange)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput,
			"invalid compatibility range %q for transformation %s", compatRange, proc.Version())
	}

	if err := r.procedures.Register(proc.Version(), proc); err != nil {
		return err
	}

	r.mu.Lock()
	r.compat[proc.Version()] = constraints
	r.mu.Unlock()
	return nil
}

// Resolve returns the procedure registered for the transformation version
func (r *TransformRegistry) Resolve(transformVersion string) (types.Procedure, error) {
	proc, err := r.procedures.Get(transformVersion)
	if err != nil {
		return nil, errors.Newf(errors.ErrProcedureNotFound,
			"no transformation procedure registered for %s (have: %s)",
			transformVersion, strings.Join(r.procedures.List(), ", "))
	}
	return proc, nil
}

// Compatible reports whether the upstream release falls inside the
// transformation version's declared range
func (r *TransformRegistry) Compatible(transformVersion, upstreamVersion string) error {
	r.mu.RLock()
	constraints, ok := r.compat[transformVersion]
	r.mu.RUnlock()
	if !ok {
		return errors.Newf(errors.ErrProcedureNotFound,
			"no transformation procedure registered for %s", transformVersion)
	}

	version, err := semver.NewVersion(upstreamVersion)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput,
			"upstream version %q is not a semantic version", upstreamVersion)
	}

	if !constraints.Check(version) {
		return errors.Newf(errors.ErrCompat,
			"upstream %s is outside transformation %s's compatibility range %s",
			upstreamVersion, transformVersion, constraints)
	}
	return nil
}

// Active reads the single-line pointer file naming the active
// transformation version. The pointer is advisory, not safety-critical:
// a missing or unreadable file falls back to the compiled-in default
// rather than aborting the run.
func (r *TransformRegistry) Active(fs types.FS, pointerPath, fallback string) string {
	logger := logging.GetLogger("registry")

	data, err := fs.ReadFile(pointerPath)
	if err != nil {
		logger.Warn().Err(err).Str("pointer", pointerPath).Str("fallback", fallback).
			Msg("Pointer file unreadable, using default transformation version")
		return fallback
	}

	version := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	if version == "" {
		logger.Warn().Str("pointer", pointerPath).Str("fallback", fallback).
			Msg("Pointer file empty, using default transformation version")
		return fallback
	}
	return version
}

var _ types.TransformResolver = (*TransformRegistry)(nil)

// Transforms is the process-wide registry that procedure packages
// register into from their init() functions.
var Transforms = NewTransformRegistry()
