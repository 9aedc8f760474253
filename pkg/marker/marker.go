// Package marker reads and writes the state marker: the two-line record
// inside the source tree naming the transformation version and upstream
// release last applied. Its existence is the idempotency flag for the
// whole pipeline, so it is written in a single operation and only as
// the final step of a successful transformation.
package marker

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/types"
)

// Read loads the marker at path. A missing marker is not an error: it
// returns (nil, nil), which callers interpret as "not yet integrated".
func Read(filesystem types.FS, path string) (*types.Marker, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read state marker %s", path)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	m := &types.Marker{TransformVersion: strings.TrimSpace(lines[0])}
	if m.TransformVersion == "" {
		return nil, errors.Newf(errors.ErrConfigLoad, "state marker %s has no transformation version", path)
	}
	if len(lines) > 1 {
		m.UpstreamVersion = strings.TrimSpace(lines[1])
	}
	return m, nil
}

// Write persists the marker in one WriteFile call; there is no partial
// two-line state on disk.
func Write(filesystem types.FS, path string, m *types.Marker) error {
	if m == nil || m.TransformVersion == "" {
		return errors.New(errors.ErrInvalidInput, "marker requires a transformation version")
	}
	if err := filesystem.WriteFile(path, m.Encode(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrMarkerWrite, "failed to write state marker %s", path)
	}
	return nil
}

// Exists reports whether a marker file is present at path
func Exists(filesystem types.FS, path string) bool {
	info, err := filesystem.Stat(path)
	return err == nil && !info.IsDir()
}
