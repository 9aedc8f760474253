// Package config loads uplift's tool configuration: embedded defaults,
// then an optional uplift.toml in the project root, then UPLIFT_*
// environment variables. Pipeline state (pointer file, state marker)
// is not configuration and lives with the tree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/uplift/pkg/errors"
)

// Settings is the resolved tool configuration
type Settings struct {
	Upstream  UpstreamSettings  `koanf:"upstream"`
	Transform TransformSettings `koanf:"transform"`
	Tree      TreeSettings      `koanf:"tree"`
}

// UpstreamSettings describes where release archives come from
type UpstreamSettings struct {
	// Project is the upstream project name; the archive's top-level
	// entry is expected to be <project>-<version>
	Project string `koanf:"project"`
	// URLTemplate is the deterministic download locator, parameterized
	// only by the upstream release identifier
	URLTemplate string `koanf:"url_template"`
}

// TransformSettings selects the transformation procedure
type TransformSettings struct {
	// DefaultVersion is the fallback when the pointer file is unreadable
	DefaultVersion string `koanf:"default_version"`
	// PointerFile names the single-line current-pointer record,
	// relative to the project root
	PointerFile string `koanf:"pointer_file"`
}

// TreeSettings places the source tree and the pipeline's scratch space
type TreeSettings struct {
	Dir        string `koanf:"dir"`
	ScratchDir string `koanf:"scratch_dir"`
	LockFile   string `koanf:"lock_file"`
}

// Load resolves settings for the given project root
func Load(projectRoot string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	// 2. Project config file if it exists
	for _, filename := range []string{".uplift.toml", "uplift.toml"} {
		path := filepath.Join(projectRoot, filename)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
			}
			break
		}
	}

	// 3. Environment overrides: UPLIFT_UPSTREAM__URL_TEMPLATE -> upstream.url_template
	if err := k.Load(env.Provider("UPLIFT_", ".", func(s string) string {
		key := strings.TrimPrefix(s, "UPLIFT_")
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal config")
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (s *Settings) validate() error {
	if s.Upstream.Project == "" {
		return errors.New(errors.ErrConfigLoad, "upstream.project must not be empty")
	}
	if !strings.Contains(s.Upstream.URLTemplate, "%s") {
		return errors.Newf(errors.ErrConfigLoad,
			"upstream.url_template %q must contain a %%s version placeholder", s.Upstream.URLTemplate)
	}
	if s.Transform.DefaultVersion == "" {
		return errors.New(errors.ErrConfigLoad, "transform.default_version must not be empty")
	}
	return nil
}

// DownloadURL builds the archive locator for one upstream release
func (s *Settings) DownloadURL(upstreamVersion string) string {
	return fmt.Sprintf(s.Upstream.URLTemplate, upstreamVersion)
}

// ArchiveRoot is the top-level entry name expected inside the archive
func (s *Settings) ArchiveRoot(upstreamVersion string) string {
	return fmt.Sprintf("%s-%s", s.Upstream.Project, upstreamVersion)
}
