package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/view"
)

// envPrefix is the prefix of environment overrides, e.g. POKEDEX_BASE_URL.
const envPrefix = "POKEDEX"

// settings is the effective CLI configuration.
type settings struct {
	BaseURL     string
	PerPage     int
	LogLevel    string
	LogPretty   bool
	UserAgent   string
	Timeout     time.Duration
	Output      string
	MetricsAddr string
	LogFile     string
}

// app bundles what every subcommand needs.
type app struct {
	settings settings
	client   *client.Client
	store    *cache.Store

	// logFile is the --log-file handle, nil when logging to stderr
	logFile *os.File
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var a app

	rootCmd := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse the Pokémon catalog",
		Long: `A terminal client for the public PokeAPI.

Without a subcommand it starts the interactive browser. The list and show
subcommands print tables (or JSON/YAML/TOML) for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			s, err := loadSettings(v)
			if err != nil {
				return err
			}

			var (
				logOutput io.Writer = cmd.ErrOrStderr()
				logFile   *os.File
			)
			if s.LogFile != "" {
				logFile, err = os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				logOutput = logFile
			}
			logging.Setup(logging.Config{
				Level:  logging.ParseLevel(s.LogLevel),
				Pretty: s.LogPretty,
				Output: logOutput,
			})

			built, err := newApp(s)
			if err != nil {
				if logFile != nil {
					_ = logFile.Close()
				}
				return err
			}
			built.logFile = logFile
			a = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (YAML)")
	flags.String("base-url", client.DefaultBaseURL, "API base URL")
	flags.Int("per-page", client.DefaultLimit, "entries per page")
	flags.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	flags.Bool("log-pretty", false, "human-readable log output")
	flags.String("user-agent", client.DefaultUserAgent, "User-Agent header")
	flags.Duration("timeout", 0, "per-request timeout (0 = none)")
	flags.StringP("output", "o", "table", "output format (table, json, yaml, toml)")
	flags.String("metrics-addr", "", "serve /metrics and /health on this address")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	for _, name := range []string{"config", "base-url", "per-page", "log-level", "log-pretty", "user-agent", "timeout", "output", "metrics-addr", "log-file"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	browseCmd := newBrowseCommand(&a)
	rootCmd.RunE = browseCmd.RunE
	rootCmd.Flags().AddFlagSet(browseCmd.Flags())

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(newListCommand(&a))
	rootCmd.AddCommand(newShowCommand(&a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// initConfig wires environment variables and the optional config file into v.
func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfgFile := v.GetString("config")
	if cfgFile == "" {
		return nil
	}

	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// loadSettings reads and validates the effective configuration.
func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		BaseURL:     v.GetString("base-url"),
		PerPage:     v.GetInt("per-page"),
		LogLevel:    v.GetString("log-level"),
		LogPretty:   v.GetBool("log-pretty"),
		UserAgent:   v.GetString("user-agent"),
		Timeout:     v.GetDuration("timeout"),
		Output:      strings.ToLower(v.GetString("output")),
		MetricsAddr: v.GetString("metrics-addr"),
		LogFile:     v.GetString("log-file"),
	}

	if s.PerPage <= 0 {
		return s, fmt.Errorf("per-page must be > 0 (got %d)", s.PerPage)
	}
	if s.Output != "table" && !structuredFormats[s.Output] {
		return s, fmt.Errorf("unknown output format %q", s.Output)
	}
	return s, nil
}

// newApp builds the client and the shared cache store.
func newApp(s settings) (*app, error) {
	cfg := client.DefaultConfig()
	cfg.BaseURL = s.BaseURL
	cfg.UserAgent = s.UserAgent
	cfg.Timeout = s.Timeout

	c, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	log.Debug().
		Str("base_url", cfg.BaseURL).
		Int("per_page", s.PerPage).
		Dur("timeout", s.Timeout).
		Msg("Configuration loaded")

	return &app{settings: s, client: c, store: cache.NewStore()}, nil
}

// close releases the log file and points the global logger back at stderr.
func (a *app) close(stderr io.Writer) error {
	if a.logFile == nil {
		return nil
	}
	log.Logger = log.Logger.Output(stderr)

	err := a.logFile.Close()
	a.logFile = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// controller returns a view controller over the app's store and client.
func (a *app) controller(opts ...view.Option) *view.Controller {
	opts = append([]view.Option{view.WithPerPage(a.settings.PerPage)}, opts...)
	return view.NewController(a.store, a.client, opts...)
}

// startBackground runs the cache janitor and, if configured, the metrics
// endpoint until ctx is done.
func (a *app) startBackground(ctx context.Context) {
	go a.store.Run(ctx, time.Minute)

	if a.settings.MetricsAddr != "" {
		go func() {
			if err := serveMetrics(ctx, a.settings.MetricsAddr); err != nil {
				log.Error().Err(err).Str("addr", a.settings.MetricsAddr).Msg("Metrics server failed")
			}
		}()
	}
}
