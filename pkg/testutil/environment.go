package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/arthur-debert/uplift/pkg/filesystem"
	"github.com/arthur-debert/uplift/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a filesystem and a project root for
// pipeline tests
type TestEnvironment struct {
	FS          types.FS
	ProjectRoot string
	Type        EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
		env.ProjectRoot = "/virtual/project"
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		env.ProjectRoot = t.TempDir()
	}

	if err := env.FS.MkdirAll(env.ProjectRoot, 0755); err != nil {
		t.Fatalf("failed to create project root: %v", err)
	}

	return env
}

// Path joins elems onto the project root
func (env *TestEnvironment) Path(elems ...string) string {
	return filepath.Join(append([]string{env.ProjectRoot}, elems...)...)
}

// WriteFile writes a file under the project root, creating parents
func (env *TestEnvironment) WriteFile(rel, content string) {
	env.t.Helper()
	path := env.Path(rel)
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile reads a file under the project root
func (env *TestEnvironment) ReadFile(rel string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(env.Path(rel))
	if err != nil {
		env.t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether a path under the project root exists
func (env *TestEnvironment) Exists(rel string) bool {
	_, err := env.FS.Stat(env.Path(rel))
	return err == nil
}
