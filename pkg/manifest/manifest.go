// Package manifest mutates the workspace manifest at the root of the
// source tree. The membership list is edited through a full TOML
// parse/mutate/serialize round trip rather than anchored text
// insertion, so a manifest whose shape drifted upstream surfaces as an
// error instead of a silently malformed write.
package manifest

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/uplift/pkg/errors"
	"github.com/arthur-debert/uplift/pkg/types"
)

// EnsureMember inserts member into the workspace members list if it is
// not already present. Returns whether the manifest was modified.
// Insertion is idempotent by content match: re-running against an
// already-patched manifest is a no-op.
func EnsureMember(fs types.FS, manifestPath, member string) (bool, error) {
	data, err := fs.ReadFile(manifestPath)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrManifestPatch,
			"failed to read workspace manifest %s", manifestPath)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return false, errors.Wrapf(err, errors.ErrManifestPatch,
			"workspace manifest %s is not valid TOML", manifestPath)
	}

	workspace, ok := doc["workspace"].(map[string]interface{})
	if !ok {
		return false, errors.Newf(errors.ErrManifestPatch,
			"workspace manifest %s has no [workspace] table", manifestPath)
	}

	rawMembers, ok := workspace["members"].([]interface{})
	if !ok {
		return false, errors.Newf(errors.ErrManifestPatch,
			"workspace manifest %s has no members list", manifestPath)
	}

	for _, raw := range rawMembers {
		if existing, ok := raw.(string); ok && existing == member {
			return false, nil
		}
	}

	workspace["members"] = append(rawMembers, member)

	out, err := toml.Marshal(doc)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrManifestPatch,
			"failed to serialize workspace manifest %s", manifestPath)
	}
	if err := fs.WriteFile(manifestPath, out, 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrManifestPatch,
			"failed to write workspace manifest %s", manifestPath)
	}
	return true, nil
}

// Members returns the workspace members list
func Members(fs types.FS, manifestPath string) ([]string, error) {
	data, err := fs.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestPatch,
			"failed to read workspace manifest %s", manifestPath)
	}

	var doc struct {
		Workspace struct {
			Members []string `toml:"members"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestPatch,
			"workspace manifest %s is not valid TOML", manifestPath)
	}
	return doc.Workspace.Members, nil
}

// PackageManifest is the synthesized manifest of the library component,
// parameterized by the upstream release identifier.
type PackageManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
		Publish bool   `toml:"publish"`
	} `toml:"package"`
}

// WriteLibManifest synthesizes the library component's package manifest
func WriteLibManifest(fs types.FS, path, name, version string) error {
	var m PackageManifest
	m.Package.Name = name
	m.Package.Version = version
	m.Package.Edition = "2021"
	m.Package.Publish = false

	out, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestPatch, "failed to serialize package manifest %s", path)
	}
	if err := fs.WriteFile(path, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestPatch, "failed to write package manifest %s", path)
	}
	return nil
}
