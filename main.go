package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"SimTuning/internal/constants"
	"SimTuning/internal/logging"
	"SimTuning/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type options struct {
	addr        string
	configPath  string
	envPrefix   string
	logLevel    string
	dev         bool
	fallback    bool
	checkFormat string
	overrides   map[string]*float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flagName maps a canonical constant name to its override flag, e.g.
// STEALTH_MIN_DIST -> stealth-min-dist.
func flagName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

func newRootCmd() *cobra.Command {
	def := server.DefaultAppConfig()
	opts := &options{overrides: make(map[string]*float64)}

	rootCmd := &cobra.Command{
		Use:   "simtuning",
		Short: "Load and serve the simulation tuning constants",
		Long: `simtuning resolves the physics and electronic-warfare tuning constants once
at startup and serves the result read-only over HTTP and WebSocket.

Values are taken, highest precedence first, from command-line flags,
environment variables (prefix + canonical name), the constants data file
(.json, .yaml, .msgpack or .lua) and compiled-in defaults.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", def.ConfigPath, "path to the constants data file")
	pf.StringVar(&opts.envPrefix, "env-prefix", def.EnvPrefix, "prefix for constant environment variables (empty disables)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.dev, "dev", false, "human-readable development logging")
	pf.BoolVar(&opts.fallback, "fallback-defaults", false, "use compiled-in defaults when the configured constants are rejected")
	for _, f := range constants.DefaultSchema() {
		v := new(float64)
		opts.overrides[f.Name] = v
		pf.Float64Var(v, flagName(f.Name), f.Default, "override "+f.Name)
	}

	rootCmd.Flags().StringVar(&opts.addr, "addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve the constants, print them and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}
	checkCmd.Flags().StringVar(&opts.checkFormat, "format", "yaml", "output format (yaml or json)")
	rootCmd.AddCommand(checkCmd)

	return rootCmd
}

// appConfig turns the parsed flags into an AppConfig. Only constants whose
// flags were set on the command line become overrides.
func appConfig(cmd *cobra.Command, opts *options) server.AppConfig {
	cfg := server.AppConfig{
		ConfigPath:         opts.configPath,
		EnvPrefix:          opts.envPrefix,
		FallbackToDefaults: opts.fallback,
		Overrides:          constants.Values{},
	}
	for name, v := range opts.overrides {
		if cmd.Flags().Changed(flagName(name)) {
			cfg.Overrides[name] = *v
		}
	}
	return cfg
}

func runServe(cmd *cobra.Command, opts *options) error {
	logger, err := logging.New(opts.logLevel, opts.dev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = server.StartApp(ctx, opts.addr, appConfig(cmd, opts), constants.Default(), logger)
	if err != nil {
		logger.Error("constants server stopped", zap.Error(err))
	}
	return err
}

func runCheck(cmd *cobra.Command, opts *options) error {
	logger, err := logging.New(opts.logLevel, opts.dev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store := constants.NewStore(constants.DefaultSchema())
	if err := server.LoadConstants(appConfig(cmd, opts), store, logger); err != nil {
		return err
	}
	tbl := store.MustGet()

	var out []byte
	switch opts.checkFormat {
	case "json":
		out, err = json.MarshalIndent(tbl, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(tbl)
	default:
		return fmt.Errorf("unknown format %q", opts.checkFormat)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
