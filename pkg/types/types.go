package types

import (
	"context"
	"strings"
)

// Marker is the persisted record of which transformation version and
// which upstream release were last applied to a source tree. Its
// presence is the sole idempotency signal; it is written only after a
// transformation completes successfully.
type Marker struct {
	// TransformVersion is the transformation procedure applied, e.g. "v2.0"
	TransformVersion string
	// UpstreamVersion is the upstream release transformed, e.g. "2.3.10".
	// May be empty when the procedure was invoked without one.
	UpstreamVersion string
}

// Matches reports whether the marker records the given upstream release.
// A marker without an upstream version never matches, forcing a re-run.
func (m *Marker) Matches(upstreamVersion string) bool {
	if m == nil || m.UpstreamVersion == "" {
		return false
	}
	return m.UpstreamVersion == upstreamVersion
}

// Encode renders the marker's two-line wire format:
// transformation version, then the optional upstream version.
func (m *Marker) Encode() []byte {
	var b strings.Builder
	b.WriteString(m.TransformVersion)
	b.WriteString("\n")
	if m.UpstreamVersion != "" {
		b.WriteString(m.UpstreamVersion)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Phase names a step of the transformation state machine. Phases only
// move forward within a run; any failure before Committed leaves the
// tree without a marker.
type Phase string

const (
	PhaseUnvalidated          Phase = "Unvalidated"
	PhaseValidated            Phase = "Validated"
	PhaseSkeletonCreated      Phase = "SkeletonCreated"
	PhaseRelocated            Phase = "Relocated"
	PhaseArtifactsSynthesized Phase = "ArtifactsSynthesized"
	PhaseManifestPatched      Phase = "ManifestPatched"
	PhaseCommitted            Phase = "Committed"
)

// Procedure is a transformation procedure: a named, self-contained
// sequence of idempotent filesystem edits converting the upstream
// application layout into the target library layout. One concrete
// variant exists per transformation version.
type Procedure interface {
	// Version returns the transformation version identifier, e.g. "v2.0"
	Version() string

	// Apply runs the transformation against the extracted source tree.
	// Writing the state marker is the procedure's final step and the
	// commit point of the whole pipeline.
	Apply(ctx context.Context, fs FS, treePath, upstreamVersion string) error
}

// Fetcher downloads and extracts one upstream release. It returns the
// path of the extracted top-level directory, which the orchestrator
// renames onto the fixed tree path. A failed fetch must never leave
// anything at the fixed tree path.
type Fetcher interface {
	Fetch(ctx context.Context, upstreamVersion string) (string, error)
}

// TransformResolver is the registry surface the orchestrator needs:
// pointer-file resolution, procedure lookup, and the compatibility
// predicate tying transformation versions to upstream release ranges.
type TransformResolver interface {
	// Active reads the single-line pointer file naming the active
	// transformation version, falling back to fallback when the file
	// is missing or unreadable (the pointer is advisory).
	Active(fs FS, pointerPath, fallback string) string

	// Resolve returns the procedure registered for the version
	Resolve(transformVersion string) (Procedure, error)

	// Compatible reports whether the upstream release falls inside the
	// transformation version's declared compatibility range
	Compatible(transformVersion, upstreamVersion string) error
}

// Outcome distinguishes a run that did work from an idempotent skip
type Outcome string

const (
	OutcomeIntegrated        Outcome = "integrated"
	OutcomeAlreadyIntegrated Outcome = "already-integrated"
)

// IntegrateResult describes a successful orchestrator run
type IntegrateResult struct {
	Outcome          Outcome
	TransformVersion string
	UpstreamVersion  string
}
