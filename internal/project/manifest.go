package project

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest is the fortasr.toml project file: source files, the module
// search path, and optional overrides of the §6.4 runtime-library
// environment variables.
type Manifest struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`

	ModulePath []string `toml:"module_path"`

	RuntimeLibraryDir       string `toml:"runtime_library_dir"`
	RuntimeLibraryHeaderDir string `toml:"runtime_library_header_dir"`
}

// LoadManifest reads and decodes a fortasr.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read manifest: %w", err)
	}
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("project: decode manifest %s: %w", path, err)
	}
	return &m, nil
}
