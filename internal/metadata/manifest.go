package metadata

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestFile is the default filename for a unit manifest placed next to
// the metadata dump.
const ManifestFile = "unit.toml"

// Manifest describes the analyzed unit: its name, version, and the platform
// namespaces whose types are treated as outside the analyzed set.
type Manifest struct {
	// Name is the human-readable name of the compiled unit
	Name string `toml:"name"`

	// Version of the analyzed artifact
	Version string `toml:"version,omitempty"`

	// PlatformRoot is the root type every class implicitly extends;
	// inheritance edges to it are not recorded
	PlatformRoot string `toml:"platform_root,omitempty"`

	// PlatformNamespaces are package prefixes classified as platform or
	// standard-library code
	PlatformNamespaces []string `toml:"platform_namespaces,omitempty"`
}

// DefaultManifest returns the manifest used when none is supplied.
func DefaultManifest() *Manifest {
	return &Manifest{
		PlatformRoot: "java.lang.Object",
		PlatformNamespaces: []string{
			"java.", "javax.", "jakarta.", "jdk.", "sun.", "kotlin.",
		},
	}
}

// ParseManifest parses a unit.toml manifest from the given path. Fields the
// manifest leaves unset fall back to defaults.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, err
	}

	def := DefaultManifest()
	if m.PlatformRoot == "" {
		m.PlatformRoot = def.PlatformRoot
	}
	if len(m.PlatformNamespaces) == 0 {
		m.PlatformNamespaces = def.PlatformNamespaces
	}
	return m, nil
}
