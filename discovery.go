// FILE: lixenwraith/configer/discovery.go
package configer

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiscoveryOptions configures default setting file discovery.
type DiscoveryOptions struct {
	// Base name of the setting file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Directories to search, relative to the base directory (in order)
	Dirs []string

	// Environment variable naming an explicit setting file
	EnvVar string
}

// DefaultDiscoveryOptions returns the layout the CLI expects: setting/default.* first,
// then default.* in the working directory.
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		Name:       "default",
		Extensions: []string{".toml", ".yaml", ".yml"},
		Dirs:       []string{"setting", "."},
		EnvVar:     "CONFIGER_SETTING",
	}
}

// DiscoverSetting finds the default setting file under base. An explicit path in the
// environment variable wins and must exist.
func DiscoverSetting(base string, opts DiscoveryOptions) (string, error) {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("%w: %s (from %s)", ErrConfigNotFound, path, opts.EnvVar)
			}
			return path, nil
		}
	}

	var tried []string
	for _, dir := range opts.Dirs {
		for _, ext := range opts.Extensions {
			path := filepath.Join(base, dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
			tried = append(tried, path)
		}
	}

	return "", fmt.Errorf("%w: searched %v", ErrConfigNotFound, tried)
}
