package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"altd/internal/common/fsutil"
	"altd/internal/config"
)

// options mirrors the command-line flags. Only flags the user set override
// the config file.
type options struct {
	configPath   string
	addr         string
	defaultModel string
	logLevel     string
	logFormat    string
	noPreload    bool
	maxUploadMB  int
	corsOrigins  string
	swagger      bool
	databaseURL  string
	ollamaURL    string
	catalogFile  string
}

func newRootCmd() *cobra.Command { return newRootCmdWith(&options{}) }

// newRootCmdWith constructs the daemon command with flags bound to opts.
func newRootCmdWith(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "altd",
		Short:         "Alt-text captioning daemon",
		Long:          "altd serves an HTTP API that turns uploaded images into alt text using pluggable captioning models.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .json or .toml); defaults ALTD_CONFIG, ./altd.yaml or ~/.config/altd/config.yaml")
	f.StringVar(&opts.addr, "addr", config.DefaultAddr, "HTTP listen address, e.g. :8080")
	f.StringVar(&opts.defaultModel, "default-model", config.DefaultModel, "Model used when a request names none")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	f.StringVar(&opts.logFormat, "log-format", "console", "Log format: console|json")
	f.BoolVar(&opts.noPreload, "no-preload", false, "Do not load the default model at startup")
	f.IntVar(&opts.maxUploadMB, "max-upload-mb", config.DefaultMaxUploadMB, "Maximum upload size in MiB")
	f.StringVar(&opts.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (default *)")
	f.BoolVar(&opts.swagger, "swagger", false, "Serve Swagger UI under /swagger/")
	f.StringVar(&opts.databaseURL, "database-url", "", "Postgres DSN for the caption cache")
	f.StringVar(&opts.ollamaURL, "ollama-url", "", "Ollama base URL")
	f.StringVar(&opts.catalogFile, "catalog", "", "Extra model catalog file")
	return cmd
}

// resolveConfig layers defaults < config file < environment (unset fields
// only) < explicit flags.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	var cfg config.Config
	path := opts.configPath
	if path == "" {
		path = os.Getenv("ALTD_CONFIG")
	}
	if path == "" {
		if p, ok := fsutil.FirstExisting("altd.yaml", "altd.toml", "altd.json", "~/.config/altd/config.yaml"); ok {
			path = p
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	config.ApplyEnv(&cfg)

	changed := cmd.Flags().Changed
	if changed("addr") {
		cfg.Addr = opts.addr
	}
	if changed("default-model") {
		cfg.DefaultModel = opts.defaultModel
	}
	if changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if changed("no-preload") {
		cfg.NoPreload = opts.noPreload
	}
	if changed("max-upload-mb") {
		cfg.MaxUploadMB = opts.maxUploadMB
	}
	if changed("cors-origins") {
		cfg.CORSOrigins = splitCSV(opts.corsOrigins)
	}
	if changed("swagger") {
		cfg.Swagger = opts.swagger
	}
	if changed("database-url") {
		cfg.Cache.DSN = opts.databaseURL
	}
	if changed("ollama-url") {
		cfg.Ollama.BaseURL = opts.ollamaURL
	}
	if changed("catalog") {
		cfg.CatalogFile = opts.catalogFile
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
