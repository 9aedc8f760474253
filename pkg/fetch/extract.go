package fetch

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/logging"
	"github.com/arthur-debert/uplift/pkg/types"
)

// extractTarGz unpacks a gzip-compressed tar stream under dest. Entry
// paths are confined to dest; an entry escaping it fails the whole
// extraction. Regular files and directories are materialized, other
// entry types (symlinks, devices) are skipped.
func extractTarGz(filesystem types.FS, r io.Reader, dest string) error {
	logger := logging.GetLogger("fetch")

	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrap(err, errors.ErrFetch, "archive is not gzip-compressed")
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrFetch, "corrupt archive")
		}

		target, err := confine(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := filesystem.MkdirAll(target, fs.FileMode(header.Mode)&0777); err != nil {
				return errors.Wrapf(err, errors.ErrFetch, "failed to create %s", target)
			}
		case tar.TypeReg:
			if err := writeEntry(filesystem, tr, target, fs.FileMode(header.Mode)&0777); err != nil {
				return err
			}
		default:
			logger.Trace().Str("entry", header.Name).Uint8("type", uint8(header.Typeflag)).
				Msg("Skipping unsupported archive entry")
		}
	}
}

func writeEntry(filesystem types.FS, tr *tar.Reader, target string, mode fs.FileMode) error {
	if err := filesystem.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFetch, "failed to create parent of %s", target)
	}

	if mode == 0 {
		mode = 0644
	}
	out, err := filesystem.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFetch, "failed to create %s", target)
	}

	if _, err := io.Copy(out, tr); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFetch, "failed to write %s", target)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFetch, "failed to close %s", target)
	}
	return nil
}

// confine resolves an archive entry name under dest and rejects
// absolute paths and parent-directory escapes.
func confine(dest, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrFetch, "archive entry %q escapes extraction directory", name)
	}
	return filepath.Join(dest, cleaned), nil
}
