package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// writeConfig writes a TOML config to a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmdguard.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "info"
log_allowed = true
safe_prefixes = ["make ", "go test"]

[[deny]]
id = "terraform-destroy"
pattern = '\bterraform\s+destroy'
reason = "terraform destroy is blocked"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Level() = %v, want %v", cfg.Level(), zerolog.InfoLevel)
	}
	if !cfg.LogAllowed {
		t.Error("LogAllowed = false, want true")
	}
	if len(cfg.SafePrefixes) != 2 || cfg.SafePrefixes[0] != "make " {
		t.Errorf("SafePrefixes = %v", cfg.SafePrefixes)
	}

	sigs := cfg.Signatures()
	if len(sigs) != 1 {
		t.Fatalf("Signatures() returned %d entries, want 1", len(sigs))
	}
	if sigs[0].ID != "terraform-destroy" {
		t.Errorf("signature ID = %q", sigs[0].ID)
	}
	if !sigs[0].Pattern.MatchString("terraform destroy -auto-approve") {
		t.Error("configured pattern does not match its target command")
	}
	if !sigs[0].Pattern.MatchString("TERRAFORM DESTROY") {
		t.Error("configured pattern is not case-insensitive")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Deny) != 0 || cfg.LogAllowed || cfg.LogLevel != "" {
		t.Errorf("empty config = %+v, want zero values", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Load(""); err == nil {
		t.Error("expected an error for an empty path")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	if _, err := Load(writeConfig(t, "log_level = [broken")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"bad log level",
			`log_level = "loud"`,
			"log_level",
		},
		{
			"missing id",
			"[[deny]]\npattern = 'x'\nreason = 'r'",
			"id is required",
		},
		{
			"missing reason",
			"[[deny]]\nid = 'x'\npattern = 'x'",
			"reason is required",
		},
		{
			"missing pattern",
			"[[deny]]\nid = 'x'\nreason = 'r'",
			"pattern is required",
		},
		{
			"invalid pattern",
			"[[deny]]\nid = 'bad-rule'\npattern = '(unclosed'\nreason = 'r'",
			"bad-rule",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	_, err := Load(writeConfig(t, `
log_level = "loud"

[[deny]]
pattern = '(unclosed'
reason = "r"
`))
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"log_level", "id is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error %q does not mention %q", err, want)
		}
	}
}
