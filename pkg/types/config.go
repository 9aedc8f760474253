package types

import "path/filepath"

// MarkerFileName is the fixed name of the state marker inside the source tree
const MarkerFileName = ".uplift-state"

// Config carries everything the orchestrator needs, injected rather
// than read from ambient files so tests can swap the filesystem,
// fetcher, and registry wholesale.
type Config struct {
	// FS is the filesystem all pipeline mutations go through
	FS FS

	// ProjectRoot is the host project directory the pipeline works under
	ProjectRoot string

	// TreePath is the fixed path of the source tree
	TreePath string

	// PointerPath is the single-line file naming the active transformation version
	PointerPath string

	// LockPath is the advisory lock file enforcing one invocation at a time
	LockPath string

	// DefaultTransformVersion is used when the pointer file is unreadable
	DefaultTransformVersion string

	// Transforms resolves transformation versions to procedures
	Transforms TransformResolver

	// Fetcher downloads and extracts upstream releases
	Fetcher Fetcher
}

// MarkerPath returns the fixed marker location inside the source tree
func (c *Config) MarkerPath() string {
	return filepath.Join(c.TreePath, MarkerFileName)
}
