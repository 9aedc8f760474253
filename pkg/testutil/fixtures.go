package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/uplift/pkg/types"
)

// UpstreamManifest is the workspace manifest a fresh upstream
// extraction carries
const UpstreamManifest = `[workspace]
members = ["src"]

[workspace.package]
edition = "2021"
`

// WriteUpstreamTree writes a realistic extracted upstream tree at root:
// the application-layout anchor (src), the sub-directories the v2.0
// transformation relocates, and the workspace manifest.
func WriteUpstreamTree(t *testing.T, fs types.FS, root string) {
	t.Helper()

	files := map[string]string{
		"Cargo.toml":           UpstreamManifest,
		"src/main.rs":          "fn main() { server::run(); }\n",
		"src/net/mod.rs":       "pub struct Server;\npub struct ServerConfig;\n",
		"src/net/listen.rs":    "pub fn listen() {}\n",
		"src/rpc/mod.rs":       "pub fn dispatch() {}\n",
		"src/telemetry/mod.rs": "pub fn init() {}\n",
	}

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// StubFetcher plants an upstream tree fixture instead of downloading.
// It mirrors the real fetcher's contract: the returned path lives in a
// scratch directory and the fixed tree path is never touched.
type StubFetcher struct {
	T          *testing.T
	FS         types.FS
	ScratchDir string
	Project    string

	// FailWith, when set, makes Fetch fail without writing anything
	FailWith error

	// Calls counts Fetch invocations, for no-network assertions
	Calls int
}

// Fetch implements types.Fetcher
func (s *StubFetcher) Fetch(_ context.Context, upstreamVersion string) (string, error) {
	s.Calls++
	if s.FailWith != nil {
		return "", s.FailWith
	}

	root := filepath.Join(s.ScratchDir, fmt.Sprintf("%s-%s", s.Project, upstreamVersion))
	if err := s.FS.RemoveAll(s.ScratchDir); err != nil {
		return "", err
	}
	WriteUpstreamTree(s.T, s.FS, root)
	return root, nil
}

var _ types.Fetcher = (*StubFetcher)(nil)
