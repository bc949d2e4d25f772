package config

import (
	"fmt"
	"os"
	"strings"
)

// LoadDotenv seeds the process environment from a .env file, the usual
// home for provider API keys. Variables already set in the environment
// win over the file; a missing file is not an error.
func LoadDotenv(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range parseDotenv(string(raw)) {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// parseDotenv extracts KEY=VALUE pairs, one per line. Blank lines,
// comments, and lines without "=" are skipped. An "export " prefix is
// tolerated so a file can double as a shell script.
func parseDotenv(raw string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = stripQuotes(strings.TrimSpace(value))
	}
	return vars
}

func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	head, tail := s[0], s[len(s)-1]
	if head == tail && (head == '"' || head == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
