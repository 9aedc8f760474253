package marker_test

import (
	"testing"

	"github.com/arthur-debert/uplift/pkg/filesystem"
	"github.com/arthur-debert/uplift/pkg/marker"
	"github.com/arthur-debert/uplift/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFS(t *testing.T) types.FS {
	t.Helper()
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/tree", 0755))
	return fs
}

func TestReadMissingMarker(t *testing.T) {
	fs := memFS(t)

	m, err := marker.Read(fs, "/tree/.uplift-state")
	require.NoError(t, err)
	assert.Nil(t, m, "missing marker reads as nil, not as an error")
}

func TestWriteReadRoundTrip(t *testing.T) {
	fs := memFS(t)
	path := "/tree/.uplift-state"

	in := &types.Marker{TransformVersion: "v2.0", UpstreamVersion: "2.3.10"}
	require.NoError(t, marker.Write(fs, path, in))

	// Exact wire format: two lines, trailing newline
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2.0\n2.3.10\n", string(data))

	out, err := marker.Read(fs, path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteWithoutUpstreamVersion(t *testing.T) {
	fs := memFS(t)
	path := "/tree/.uplift-state"

	require.NoError(t, marker.Write(fs, path, &types.Marker{TransformVersion: "v2.0"}))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2.0\n", string(data))

	out, err := marker.Read(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "v2.0", out.TransformVersion)
	assert.Empty(t, out.UpstreamVersion)
	assert.False(t, out.Matches("2.3.10"))
}

func TestWriteRejectsEmptyTransformVersion(t *testing.T) {
	fs := memFS(t)

	assert.Error(t, marker.Write(fs, "/tree/.uplift-state", &types.Marker{}))
	assert.Error(t, marker.Write(fs, "/tree/.uplift-state", nil))
}

func TestReadRejectsEmptyMarker(t *testing.T) {
	fs := memFS(t)
	require.NoError(t, fs.WriteFile("/tree/.uplift-state", []byte("\n"), 0644))

	_, err := marker.Read(fs, "/tree/.uplift-state")
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	fs := memFS(t)
	path := "/tree/.uplift-state"

	assert.False(t, marker.Exists(fs, path))
	require.NoError(t, marker.Write(fs, path, &types.Marker{TransformVersion: "v2.0"}))
	assert.True(t, marker.Exists(fs, path))
}
