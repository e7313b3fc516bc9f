// Package configpaths resolves the locations searched for configuration files.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "whirlwind"), nil
}

// ConfigCandidatePaths returns the JSON, YAML and TOML configuration file
// candidates in loading order: the user config directory first, then the
// working directory, then an explicitly supplied path (sorted into the list
// matching its extension, so it wins within its format).
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	var dirs []string
	if d, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, ".")

	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, "whirlwind.json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, "whirlwind.yaml"), filepath.Join(d, "whirlwind.yml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, "whirlwind.toml"))
	}

	switch strings.ToLower(filepath.Ext(userPath)) {
	case ".json":
		jsonPaths = append(jsonPaths, userPath)
	case ".yaml", ".yml":
		yamlPaths = append(yamlPaths, userPath)
	case ".toml":
		tomlPaths = append(tomlPaths, userPath)
	}
	return jsonPaths, yamlPaths, tomlPaths
}
