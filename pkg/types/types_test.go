package types_test

import (
	"testing"

	"github.com/arthur-debert/uplift/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestMarkerMatches(t *testing.T) {
	tests := []struct {
		name     string
		marker   *types.Marker
		upstream string
		want     bool
	}{
		{
			name:     "matching versions",
			marker:   &types.Marker{TransformVersion: "v2.0", UpstreamVersion: "2.3.10"},
			upstream: "2.3.10",
			want:     true,
		},
		{
			name:     "different upstream version",
			marker:   &types.Marker{TransformVersion: "v2.0", UpstreamVersion: "2.3.10"},
			upstream: "2.4.0",
			want:     false,
		},
		{
			name:     "marker without upstream version never matches",
			marker:   &types.Marker{TransformVersion: "v2.0"},
			upstream: "2.3.10",
			want:     false,
		},
		{
			name:     "nil marker never matches",
			marker:   nil,
			upstream: "2.3.10",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.marker.Matches(tt.upstream))
		})
	}
}

func TestMarkerEncode(t *testing.T) {
	full := &types.Marker{TransformVersion: "v2.0", UpstreamVersion: "2.3.10"}
	assert.Equal(t, "v2.0\n2.3.10\n", string(full.Encode()))

	// Second line is omittable when no upstream version was supplied
	partial := &types.Marker{TransformVersion: "v2.0"}
	assert.Equal(t, "v2.0\n", string(partial.Encode()))
}

func TestConfigMarkerPath(t *testing.T) {
	cfg := &types.Config{TreePath: "/work/surrealdb"}
	assert.Equal(t, "/work/surrealdb/.uplift-state", cfg.MarkerPath())
}
