package paths

import (
	"os"
	"path/filepath"
)

const appName = "coldpitch"

// ConfigDir returns $XDG_CONFIG_HOME/coldpitch or ~/.config/coldpitch as fallback.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/coldpitch or ~/.local/share/coldpitch as fallback.
// History and logs live here.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, appName), nil
}
