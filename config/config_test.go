package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func load(t *testing.T, flagArgs []string, args []string) (Config, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "spool-pager"}
	if err := RegisterFlags(cmd); err != nil {
		t.Fatalf("RegisterFlags() error = %v", err)
	}
	if err := cmd.ParseFlags(flagArgs); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return LoadConfig(cmd, args)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SPOOL_PATH", "")

	cfg, err := load(t, nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.MailPath != DefaultMailPath {
		t.Errorf("MailPath = %q, want %q", cfg.MailPath, DefaultMailPath)
	}
	if cfg.SingleFile() {
		t.Error("SingleFile() = true without a user")
	}
	if cfg.Format != "blankline" {
		t.Errorf("Format = %q, want blankline", cfg.Format)
	}
	if !cfg.DecodeHeaders {
		t.Error("DecodeHeaders should default to true")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadConfig_UserAndFlags(t *testing.T) {
	t.Setenv("SPOOL_PATH", "")

	cfg, err := load(t, []string{"--path", "/srv/mail/", "--skip", "root", "--skip", "nobody", "--log-level", "WARNING"}, []string{"alice"})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.SingleFile() || cfg.SpoolPath() != "/srv/mail/alice" {
		t.Errorf("SpoolPath() = %q, want /srv/mail/alice", cfg.SpoolPath())
	}
	if strings.Join(cfg.Skip, ",") != "root,nobody" {
		t.Errorf("Skip = %v", cfg.Skip)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadConfig_EnvOverridesDefault(t *testing.T) {
	t.Setenv("SPOOL_PATH", "/tmp/spool")

	cfg, err := load(t, nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MailPath != "/tmp/spool" {
		t.Errorf("MailPath = %q, want /tmp/spool", cfg.MailPath)
	}

	cfg, err = load(t, []string{"--path", "/flag"}, nil)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MailPath != "/flag" {
		t.Errorf("MailPath = %q, want the flag value", cfg.MailPath)
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("SPOOL_PATH", "")

	path := filepath.Join(t.TempDir(), "pager.yaml")
	content := `path: /home/mail
skip:
  - root
format: mboxrd
decode_headers: false
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(t, []string{"--config", path, "--log-level", "error"}, nil)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.MailPath != "/home/mail" {
		t.Errorf("MailPath = %q, want /home/mail", cfg.MailPath)
	}
	if len(cfg.Skip) != 1 || cfg.Skip[0] != "root" {
		t.Errorf("Skip = %v, want [root]", cfg.Skip)
	}
	if cfg.Format != "mboxrd" {
		t.Errorf("Format = %q, want mboxrd", cfg.Format)
	}
	if cfg.DecodeHeaders {
		t.Error("DecodeHeaders should come from the file")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want the flag value", cfg.LogLevel)
	}
}

func TestLoadConfig_FileErrors(t *testing.T) {
	if _, err := load(t, []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, nil); err == nil {
		t.Error("expected error for a missing config file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("skip: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := load(t, []string{"--config", path}, nil); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Setenv("SPOOL_PATH", "")

	tests := []struct {
		name     string
		flagArgs []string
		args     []string
	}{
		{name: "bad format", flagArgs: []string{"--format", "maildir"}},
		{name: "bad log level", flagArgs: []string{"--log-level", "trace"}},
		{name: "mixed filters", flagArgs: []string{"--include-header", "a", "--exclude-body", "b"}},
		{name: "user with separator", args: []string{"../etc/passwd"}},
		{name: "dot dot user", args: []string{".."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(t, tt.flagArgs, tt.args); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
