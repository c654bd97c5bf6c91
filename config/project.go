package config

import (
	"os"
	"path/filepath"
)

// findProjectConfig walks up from the working directory looking for
// nextappd.toml, the way am.findProjectConfig looks for am.toml/config.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, "nextappd.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
