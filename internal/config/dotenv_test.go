package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotenv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDotenv(t *testing.T) {
	vars := parseDotenv(`# provider keys
OPENAI_API_KEY=sk-test
export TAVILY_API_KEY=tvly-test
QUOTED="with spaces"
SINGLE='kept'
SPACED = trimmed

not-a-pair
=no-key
`)

	want := map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"TAVILY_API_KEY": "tvly-test",
		"QUOTED":         "with spaces",
		"SINGLE":         "kept",
		"SPACED":         "trimmed",
	}
	if len(vars) != len(want) {
		t.Fatalf("got %d vars, want %d: %v", len(vars), len(want), vars)
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %q, want %q", k, vars[k], v)
		}
	}
}

func TestLoadDotenvSetsEnv(t *testing.T) {
	path := writeDotenv(t, "KOMPIS_DOTENV_TEST_KEY=from-file\n")
	os.Unsetenv("KOMPIS_DOTENV_TEST_KEY")
	t.Cleanup(func() { os.Unsetenv("KOMPIS_DOTENV_TEST_KEY") })

	if err := LoadDotenv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("KOMPIS_DOTENV_TEST_KEY"); got != "from-file" {
		t.Errorf("got %q", got)
	}
}

func TestLoadDotenvEnvironmentWins(t *testing.T) {
	path := writeDotenv(t, "KOMPIS_DOTENV_KEEP=from-file\n")
	t.Setenv("KOMPIS_DOTENV_KEEP", "from-env")

	if err := LoadDotenv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("KOMPIS_DOTENV_KEEP"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}

func TestLoadDotenvMissingFile(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file should be fine: %v", err)
	}
}
