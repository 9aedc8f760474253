package transform_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/manifest"
	"github.com/arthur-debert/uplift/pkg/marker"
	"github.com/arthur-debert/uplift/pkg/testutil"
	"github.com/arthur-debert/uplift/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshTree(t *testing.T) *testutil.TestEnvironment {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	testutil.WriteUpstreamTree(t, env.FS, env.Path("surrealdb"))
	return env
}

func TestApplyTransformsTree(t *testing.T) {
	env := freshTree(t)
	proc := transform.NewV2()

	require.NoError(t, proc.Apply(context.Background(), env.FS, env.Path("surrealdb"), "2.3.10"))

	// Library entry point declares the three relocated sub-modules
	lib := env.ReadFile("surrealdb/lib/surrealdb-lib/src/lib.rs")
	for _, sub := range transform.V2Submodules {
		assert.Contains(t, lib, "pub mod "+sub+";")
	}
	assert.Contains(t, lib, "pub use net::{Server, ServerConfig};")
	assert.Contains(t, lib, "trait ServerExtension")
	assert.Contains(t, lib, "fn on_startup")
	assert.Contains(t, lib, "fn on_shutdown")
	assert.Contains(t, lib, "fn augment_routes")

	// Relocations moved the sub-directories out of the application layout
	assert.True(t, env.Exists("surrealdb/lib/surrealdb-lib/src/net/mod.rs"))
	assert.True(t, env.Exists("surrealdb/lib/surrealdb-lib/src/net/listen.rs"))
	assert.False(t, env.Exists("surrealdb/src/net"))
	assert.False(t, env.Exists("surrealdb/src/rpc"))
	assert.False(t, env.Exists("surrealdb/src/telemetry"))
	// Remainder of the application layout is untouched
	assert.True(t, env.Exists("surrealdb/src/main.rs"))

	// Package manifest carries the upstream release identifier
	pkg := env.ReadFile("surrealdb/lib/surrealdb-lib/Cargo.toml")
	assert.Contains(t, pkg, `version = '2.3.10'`)

	// Workspace manifest lists the new member exactly once
	members, err := manifest.Members(env.FS, env.Path("surrealdb/Cargo.toml"))
	require.NoError(t, err)
	occurrences := 0
	for _, m := range members {
		if m == transform.LibMember {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)

	// Marker holds exactly the two-line record
	assert.Equal(t, "v2.0\n2.3.10\n", env.ReadFile("surrealdb/.uplift-state"))
}

func TestApplyPreconditionFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	// Tree exists but has no src anchor
	env.WriteFile("surrealdb/Cargo.toml", testutil.UpstreamManifest)

	err := transform.NewV2().Apply(context.Background(), env.FS, env.Path("surrealdb"), "2.3.10")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrecondition))

	// No mutation happened
	assert.False(t, env.Exists("surrealdb/lib"))
	assert.False(t, marker.Exists(env.FS, env.Path("surrealdb/.uplift-state")))
}

func TestApplyToleratesAbsentSubdirectory(t *testing.T) {
	env := freshTree(t)
	// Simulate a changed upstream layout: rpc is gone
	require.NoError(t, env.FS.RemoveAll(env.Path("surrealdb/src/rpc")))

	err := transform.NewV2().Apply(context.Background(), env.FS, env.Path("surrealdb"), "2.3.10")
	require.NoError(t, err, "absent sub-directory must be skipped, not fatal")

	assert.True(t, env.Exists("surrealdb/lib/surrealdb-lib/src/net"))
	assert.False(t, env.Exists("surrealdb/lib/surrealdb-lib/src/rpc"))
	assert.True(t, marker.Exists(env.FS, env.Path("surrealdb/.uplift-state")))
}

func TestApplyCommitOrdering(t *testing.T) {
	env := freshTree(t)
	// Sabotage the workspace manifest so the patch step fails
	env.WriteFile("surrealdb/Cargo.toml", "[workspace]\nresolver = \"2\"\n")

	err := transform.NewV2().Apply(context.Background(), env.FS, env.Path("surrealdb"), "2.3.10")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestPatch))

	// Failure before the commit point leaves no marker
	assert.False(t, marker.Exists(env.FS, env.Path("surrealdb/.uplift-state")),
		"no marker may be observable unless every structural step completed")
}

func TestApplyTwiceKeepsManifestClean(t *testing.T) {
	env := freshTree(t)
	proc := transform.NewV2()
	ctx := context.Background()

	require.NoError(t, proc.Apply(ctx, env.FS, env.Path("surrealdb"), "2.3.10"))
	require.NoError(t, proc.Apply(ctx, env.FS, env.Path("surrealdb"), "2.3.10"),
		"re-running against an already-transformed tree must not fail")

	members, err := manifest.Members(env.FS, env.Path("surrealdb/Cargo.toml"))
	require.NoError(t, err)
	count := 0
	for _, m := range members {
		if m == transform.LibMember {
			count++
		}
	}
	assert.Equal(t, 1, count, "member must never be duplicated")
}

func TestApplyWithoutUpstreamVersion(t *testing.T) {
	env := freshTree(t)

	require.NoError(t, transform.NewV2().Apply(context.Background(), env.FS, env.Path("surrealdb"), ""))

	// Marker omits the second line when no upstream version was supplied
	assert.Equal(t, "v2.0\n", env.ReadFile("surrealdb/.uplift-state"))

	pkg := env.ReadFile("surrealdb/lib/surrealdb-lib/Cargo.toml")
	assert.True(t, strings.Contains(pkg, "0.0.0"))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "v2.0", transform.NewV2().Version())
}
