package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voltdesk/cmd/voltdesk/tui"
	"voltdesk/internal/api"
	"voltdesk/internal/config"
	"voltdesk/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the state shared by every command of one invocation.
type app struct {
	// Global flags
	configPath string
	apiURL     string
	timeout    time.Duration
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// client builds the backend client from the resolved configuration.
func (a *app) client() *api.Client {
	return api.NewClient(api.Config{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.GetAPITimeout(),
	})
}

// setup loads configuration, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.API.Timeout = a.timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if err := logging.Initialize(logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.LogDir(),
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return fmt.Errorf("failed to initialize file logging: %w", err)
	}
	logging.Boot("voltdesk starting, backend=%s", cfg.API.BaseURL)
	logging.BootDebug("config loaded from %s", path)

	// The TUI owns the terminal, so console logging is for one-shot commands only.
	if !a.verbose || cmd.Root() == cmd {
		a.logger = zap.NewNop()
		return nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zc.OutputPaths = []string{"stderr"}
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	logging.CloseAll()
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	var tab, document string

	rootCmd := &cobra.Command{
		Use:   "voltdesk",
		Short: "voltdesk - terminal client for the electrical/electronics assistant",
		Long: `voltdesk talks to the electrical/electronics assistant backend.

Run without arguments to start the interactive interface with three tabs:
  chat        general Q&A about circuits and components
  doc-qa      upload a PDF and ask questions about it
  calculator  Ohm's law and RLC impedance

Subcommands run a single request and print the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), tui.Options{
				Backend:  a.client(),
				Config:   a.cfg,
				Tab:      tab,
				Document: document,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ~/.config/voltdesk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend base URL (or set VOLTDESK_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Request timeout, 0 waits indefinitely")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.Flags().StringVar(&tab, "tab", "", "Initial tab: chat, doc-qa or calculator")
	rootCmd.Flags().StringVar(&document, "file", "", "Preselect a document for upload")

	rootCmd.AddCommand(newAskCmd(a))
	rootCmd.AddCommand(newDocCmd(a))
	rootCmd.AddCommand(newCalcCmd(a))
	rootCmd.AddCommand(newPingCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// execute runs the command tree. Cobra skips post-run hooks when a command
// fails, so the log file is closed here on every path.
func execute(ctx context.Context, a *app, root *cobra.Command) error {
	defer a.teardown()
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := execute(ctx, a, newRootCmd(a)); err != nil {
		printer{out: os.Stdout, errOut: os.Stderr}.failure("%v", err)
		stop()
		os.Exit(1)
	}
}
