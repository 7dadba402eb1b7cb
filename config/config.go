package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultMailPath is the system spool directory.
const DefaultMailPath = "/var/mail"

// Config captures all options needed to load and page mailboxes.
type Config struct {
	User          string
	MailPath      string
	Skip          []string
	Format        string
	DecodeHeaders bool
	LogLevel      string
	LogDir        string
	IncludeHeader []string
	IncludeBody   []string
	ExcludeHeader []string
	ExcludeBody   []string
}

// SingleFile reports whether a single user's spool is paged.
func (c Config) SingleFile() bool {
	return c.User != ""
}

// SpoolPath is the file paged in single-file mode.
func (c Config) SpoolPath() string {
	return filepath.Join(c.MailPath, c.User)
}

// fileConfig is the optional YAML file. Explicit flags override it.
type fileConfig struct {
	Path          string   `yaml:"path"`
	Skip          []string `yaml:"skip"`
	Format        string   `yaml:"format"`
	DecodeHeaders *bool    `yaml:"decode_headers"`
	LogLevel      string   `yaml:"log_level"`
	LogDir        string   `yaml:"log_dir"`
}

// RegisterFlags attaches the shared CLI flags to cmd and its subcommands.
func RegisterFlags(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.String("path", DefaultMailPath, "Directory holding the mail spool files (falls back to SPOOL_PATH env var)")
	flags.StringArray("skip", nil, "Mailbox name to leave out in directory mode (repeatable)")
	flags.String("format", "blankline", "Spool format: blankline or mboxrd")
	flags.Bool("decode-headers", true, "Decode RFC 2047 encoded words in the To: line")
	flags.String("config", "", "Optional YAML file with defaults for path, skip, format and logging")
	flags.String("log-level", "warn", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Write logs to a file in this directory instead of stderr")
	flags.StringArray("include-header", nil, "Regex allow-list applied to message headers (mutually exclusive with exclude flags)")
	flags.StringArray("include-body", nil, "Regex allow-list applied to message bodies (mutually exclusive with exclude flags)")
	flags.StringArray("exclude-header", nil, "Regex block-list applied to message headers (mutually exclusive with include flags)")
	flags.StringArray("exclude-body", nil, "Regex block-list applied to message bodies (mutually exclusive with include flags)")

	return cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
}

// LoadConfig converts the parsed flags and positional args into a validated
// Config. Precedence is flag, then environment, then config file, then default.
func LoadConfig(cmd *cobra.Command, args []string) (Config, error) {
	flags := cmd.Flags()

	mailPath, err := flags.GetString("path")
	if err != nil {
		return Config{}, err
	}
	skip, err := flags.GetStringArray("skip")
	if err != nil {
		return Config{}, err
	}
	format, err := flags.GetString("format")
	if err != nil {
		return Config{}, err
	}
	decodeHeaders, err := flags.GetBool("decode-headers")
	if err != nil {
		return Config{}, err
	}
	configFile, err := flags.GetString("config")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return Config{}, err
	}
	includeHeader, err := flags.GetStringArray("include-header")
	if err != nil {
		return Config{}, err
	}
	includeBody, err := flags.GetStringArray("include-body")
	if err != nil {
		return Config{}, err
	}
	excludeHeader, err := flags.GetStringArray("exclude-header")
	if err != nil {
		return Config{}, err
	}
	excludeBody, err := flags.GetStringArray("exclude-body")
	if err != nil {
		return Config{}, err
	}

	if configFile != "" {
		file, err := readFile(configFile)
		if err != nil {
			return Config{}, err
		}
		if file.Path != "" && !flags.Changed("path") {
			mailPath = file.Path
		}
		if len(file.Skip) > 0 && !flags.Changed("skip") {
			skip = file.Skip
		}
		if file.Format != "" && !flags.Changed("format") {
			format = file.Format
		}
		if file.DecodeHeaders != nil && !flags.Changed("decode-headers") {
			decodeHeaders = *file.DecodeHeaders
		}
		if file.LogLevel != "" && !flags.Changed("log-level") {
			logLevel = file.LogLevel
		}
		if file.LogDir != "" && !flags.Changed("log-dir") {
			logDir = file.LogDir
		}
	}

	if env := os.Getenv("SPOOL_PATH"); env != "" && !flags.Changed("path") {
		mailPath = env
	}

	logLevel = strings.ToLower(logLevel)
	if logLevel == "warning" {
		logLevel = "warn"
	}

	var user string
	if len(args) > 0 {
		user = strings.TrimSpace(args[0])
	}

	cfg := Config{
		User:          user,
		MailPath:      filepath.Clean(mailPath),
		Skip:          skip,
		Format:        strings.ToLower(format),
		DecodeHeaders: decodeHeaders,
		LogLevel:      logLevel,
		LogDir:        logDir,
		IncludeHeader: includeHeader,
		IncludeBody:   includeBody,
		ExcludeHeader: excludeHeader,
		ExcludeBody:   excludeBody,
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	return file, nil
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.MailPath) == "" {
		return fmt.Errorf("--path must not be empty")
	}
	if strings.ContainsRune(cfg.User, filepath.Separator) || cfg.User == "." || cfg.User == ".." {
		return fmt.Errorf("invalid user name %q", cfg.User)
	}

	switch cfg.Format {
	case "blankline", "mboxrd":
	default:
		return fmt.Errorf("invalid --format: %s", cfg.Format)
	}

	includeActive := len(cfg.IncludeHeader) > 0 || len(cfg.IncludeBody) > 0
	excludeActive := len(cfg.ExcludeHeader) > 0 || len(cfg.ExcludeBody) > 0
	if includeActive && excludeActive {
		return fmt.Errorf("include and exclude flags are mutually exclusive")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}
