// Package cli defines the claimdeck command tree.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/claimdeck/internal/app"
	"github.com/five82/claimdeck/internal/config"
	"github.com/five82/claimdeck/internal/logging"
	"github.com/five82/claimdeck/internal/prefs"
	"github.com/five82/claimdeck/internal/query"
)

const envPrefix = "CLAIMDECK"

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the claimdeck command and its subcommands. Each call
// gets its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "claimdeck",
		Short: "Terminal dashboard for an insurance claims API",
		Long: `claimdeck lists, filters, sorts and searches insurance claims served by a
claims REST API, in a scrolling table or a card grid.

Settings are read from (highest priority first):
  1. command line flags
  2. environment variables (CLAIMDECK_API_URL, CLAIMDECK_POLL_SECONDS, ...)
  3. ~/.config/claimdeck/config.toml
  4. built-in defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, v)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default "+config.DefaultConfigPath+")")
	flags.String("api-url", "", "claims API base URL")
	flags.Int("poll", 0, "refresh interval in seconds")
	flags.Int("cache", 0, "seconds a fetched collection stays fresh")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-file", "", "log file path")
	flags.String("where", "", "filter expression, e.g. \"amount > 1000 && status == 'Approved'\"")
	cmd.Flags().String("prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	cmd.Flags().Int("search-delay", 0, "search debounce in milliseconds")

	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("poll_seconds", flags.Lookup("poll"))
	_ = v.BindPFlag("cache_seconds", flags.Lookup("cache"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_file", flags.Lookup("log-file"))
	_ = v.BindPFlag("where", flags.Lookup("where"))
	_ = v.BindPFlag("prefs", cmd.Flags().Lookup("prefs"))
	_ = v.BindPFlag("search_delay_ms", cmd.Flags().Lookup("search-delay"))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(newListCmd(v), newConfigCmd(v), newLogsCmd(v), newVersionCmd())
	return cmd
}

func runDashboard(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	where, err := query.ParseExpr(v.GetString("where"))
	if err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	prefsPath := v.GetString("prefs")
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("preferences unreadable, using defaults", "error", err)
	}

	return app.Run(cmd.Context(), app.Options{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Where:     where,
		Logger:    logger,
	})
}

// loadConfig reads the TOML file named by the config key and applies the
// flag and environment overrides on top.
func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v.IsSet("api_url") {
		cfg.APIURL = strings.TrimSpace(v.GetString("api_url"))
	}
	if v.IsSet("poll_seconds") {
		cfg.PollSeconds = v.GetInt("poll_seconds")
	}
	if v.IsSet("cache_seconds") {
		cfg.CacheSeconds = v.GetInt("cache_seconds")
	}
	if v.IsSet("search_delay_ms") {
		cfg.SearchDelayMS = v.GetInt("search_delay_ms")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString("log_level")))
	}
	if v.IsSet("log_file") {
		path, err := config.ExpandPath(v.GetString("log_file"))
		if err != nil {
			return config.Config{}, fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
