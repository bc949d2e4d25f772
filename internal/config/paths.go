package config

import (
	"os"
	"path/filepath"
)

// KompisPath returns the root directory for Kompis data.
// It uses $KOMPIS_PATH if set, otherwise defaults to ~/.kompis.
func KompisPath() string {
	if v := os.Getenv("KOMPIS_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".kompis")
	}
	return filepath.Join(home, ".kompis")
}

// ConfigPath returns the path to the Kompis config file.
func ConfigPath() string {
	return filepath.Join(KompisPath(), "config.jsonc")
}

// DotenvPath returns the path to the Kompis .env file.
func DotenvPath() string {
	return filepath.Join(KompisPath(), ".env")
}

// SessionsPath returns the directory where session transcripts are stored.
func SessionsPath() string {
	return filepath.Join(KompisPath(), "sessions")
}
