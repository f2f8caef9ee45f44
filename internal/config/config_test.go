package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/unbound-force/kempt/internal/loader"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kempt.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	n, err := cfg.MaxSourceBytes()
	if err != nil {
		t.Fatalf("MaxSourceBytes() failed: %v", err)
	}
	if n != 1<<20 {
		t.Errorf("MaxSourceBytes() = %d, want %d", n, 1<<20)
	}
	lang, err := cfg.Language()
	if err != nil || lang != loader.Python {
		t.Errorf("Language() = %q, %v, want python", lang, err)
	}
	if cfg.Format.Autopep8 != "autopep8" || cfg.Format.Timeout != 30*time.Second {
		t.Errorf("unexpected formatter defaults: %+v", cfg.Format)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
format:
  language: Go
  level: 1
  autopep8: /opt/py/bin/autopep8
  timeout: 2s
highlight:
  terminal_style: github
export:
  image_timeout: 5s
  max_source_size: 500 kB
log:
  file: /tmp/kempt.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Format.Level != 1 {
		t.Errorf("Format.Level = %d, want 1", cfg.Format.Level)
	}
	if lang, _ := cfg.Language(); lang != loader.Go {
		t.Errorf("Language() = %q, want go", lang)
	}
	if cfg.Format.Autopep8 != "/opt/py/bin/autopep8" || cfg.Format.Timeout != 2*time.Second {
		t.Errorf("unexpected formatter settings: %+v", cfg.Format)
	}
	if cfg.Highlight.TerminalStyle != "github" {
		t.Errorf("TerminalStyle = %q, want github", cfg.Highlight.TerminalStyle)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Highlight.ImageStyle != "dracula" || !cfg.Highlight.LineNumbers {
		t.Errorf("expected highlight defaults to survive, got %+v", cfg.Highlight)
	}
	if cfg.Export.ImageTimeout != 5*time.Second {
		t.Errorf("ImageTimeout = %s, want 5s", cfg.Export.ImageTimeout)
	}
	if n, _ := cfg.MaxSourceBytes(); n != 500000 {
		t.Errorf("MaxSourceBytes() = %d, want 500000", n)
	}
	if cfg.Log.File != "/tmp/kempt.log" {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Format.Level != 2 {
		t.Errorf("expected defaults, got level %d", cfg.Format.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "format: [", "parsing config"},
		{"bad level", "format:\n  level: 7\n", "format.level"},
		{"bad size", "export:\n  max_source_size: lots\n", "max_source_size"},
		{"empty log", "log:\n  file: \"\"\n", "log.file"},
		{"negative timeout", "export:\n  image_timeout: -1s\n", "image_timeout"},
		{"bad language", "format:\n  language: rust\n", "format.language"},
		{"negative format timeout", "format:\n  timeout: -1s\n", "format.timeout"},
		{"empty autopep8", "format:\n  autopep8: \"\"\n", "format.autopep8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLanguage_Empty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format.Language = ""
	lang, err := cfg.Language()
	if err != nil || lang != loader.DefaultLanguage {
		t.Errorf("Language() = %q, %v, want the default", lang, err)
	}
}
