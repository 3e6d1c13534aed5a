package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/studiowebux/authdialog/internal/auth"
	"github.com/studiowebux/authdialog/internal/authserver"
	"github.com/studiowebux/authdialog/internal/cli"
	"github.com/studiowebux/authdialog/internal/config"
	"github.com/studiowebux/authdialog/internal/keybinds"
	"github.com/studiowebux/authdialog/internal/tui"
	"github.com/studiowebux/authdialog/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "authdialog",
	Short: "Terminal login, registration and password recovery",
	Long: `authdialog shows a login dialog that adapts its layout to the terminal size.

On success it prints the destination to continue to. Point it at an Identity
Toolkit compatible backend with auth.endpoint in ~/.authdialog/config.yaml,
or run one locally with 'authdialog serve'.

Examples:
  authdialog                                 # Start the dialog
  authdialog --post-login-path /settings     # Continue to /settings after login
  authdialog layout 1024 600                 # Show the layout for a viewport
  authdialog layout 80 24 --cells -o json    # Same, for a terminal size
  authdialog serve                           # Run the development backend
  authdialog keybinds                        # Show the effective keybinds`,
	Version: version.Current,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout <width> <height>",
	Short: "Print the dialog layout resolved for a viewport",
	Long: `Resolve the dialog layout for a viewport given in pixels.

With --cells the dimensions are terminal columns and rows, converted to
pixels with the configured cell size.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayout(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development auth backend",
	Long: `Run a local backend speaking the Identity Toolkit accounts API.

Accounts are stored in SQLite. Password reset codes are logged instead of
mailed. The server stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Show the effective keybinds and config problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybinds(cmd)
	},
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the default keybinds as a config section",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ExportKeybinds(cmd.OutOrStdout())
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password with a reset code",
	Long: `Complete a password reset started from the dialog.

The reset code and the new password are prompted for unless given as flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResetPassword(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

// Flags for root command
var (
	flagConfig        string
	flagPostLoginPath string
)

// Flags for layout
var (
	layoutOutput string
	layoutCells  bool
)

// Flags for serve
var (
	serveAddr string
	serveDB   string
)

// Flags for keybinds
var keybindsRaw bool

// Flags for reset-password
var (
	resetCode       string
	resetAccessible bool
)

// Flags for version
var versionCheck bool

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ~/.authdialog/config.yaml)")
	rootCmd.Flags().StringVar(&flagPostLoginPath, "post-login-path", "", "Destination after a successful login")

	layoutCmd.Flags().StringVarP(&layoutOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml)")
	layoutCmd.Flags().BoolVar(&layoutCells, "cells", false, "Dimensions are terminal columns and rows")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database (default server.database)")

	keybindsCmd.Flags().BoolVar(&keybindsRaw, "raw", false, "Print markdown without rendering")

	resetPasswordCmd.Flags().StringVar(&resetCode, "code", "", "Reset code from the backend log")
	resetPasswordCmd.Flags().BoolVar(&resetAccessible, "accessible", false, "Use plain prompts")

	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check update.releases_url for a newer release")

	keybindsCmd.AddCommand(keybindsExportCmd)

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig initializes ~/.authdialog and reads the config file
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigFile
	}
	return config.Load(path)
}

// newClient builds the auth client for the configured endpoint
func newClient(cfg *config.Config, log *logrus.Entry) *auth.Client {
	return auth.NewClient(auth.Config{
		Endpoint:   cfg.Auth.Endpoint,
		APIKey:     cfg.Auth.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Auth.Timeout},
		Logger:     log,
	})
}

// runTUI starts the interactive dialog
func runTUI(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := fileLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	registry, result := keybinds.LoadOrDefault(cfg.Keybinds)
	if result.HasErrors() {
		log.WithField("report", result.String()).Warn("invalid keybind config, using defaults")
	} else if result.HasWarnings() {
		log.WithField("report", result.String()).Info("keybind config warnings")
	}

	res, err := tui.Run(tui.Options{
		Backend:            newClient(cfg, log.WithField("component", "auth")),
		Keybinds:           registry,
		Breakpoints:        cfg.Breakpoints(),
		Cells:              cfg.Terminal.CellMetrics,
		ResizeDebounce:     cfg.Terminal.ResizeDebounce,
		RequestTimeout:     cfg.Auth.Timeout,
		PostLoginPath:      flagPostLoginPath,
		DefaultDestination: cfg.DefaultDestination,
		Logger:             log.WithField("component", "tui"),
	})
	if err != nil {
		return fmt.Errorf("dialog failed: %w", err)
	}

	if res == nil {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Destination)
	return nil
}

// runLayout prints the layout resolved for the given viewport
func runLayout(cmd *cobra.Command, args []string) error {
	width, err := cli.ParseDimension(args[0])
	if err != nil {
		return err
	}
	height, err := cli.ParseDimension(args[1])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return cli.Layout(cmd.OutOrStdout(), cli.LayoutOptions{
		Width:       width,
		Height:      height,
		Cells:       layoutCells,
		Metrics:     cfg.Terminal.CellMetrics,
		Breakpoints: cfg.Breakpoints(),
		Format:      layoutOutput,
	})
}

// runServe runs the development backend until interrupted
func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := stderrLogger(cfg.Log)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	dbPath := serveDB
	if dbPath == "" {
		dbPath = cfg.Server.Database
	}

	store, err := authserver.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := authserver.DefaultOptions()
	opts.APIKey = cfg.Auth.APIKey
	opts.MaxFailedLogins = cfg.Server.MaxFailedLogins
	opts.LockoutWindow = cfg.Server.LockoutWindow
	opts.TokenTTL = cfg.Server.TokenTTL
	opts.ResetCodeTTL = cfg.Server.ResetCodeTTL
	opts.Logger = log.WithField("component", "authserver")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts.Logger.WithFields(logrus.Fields{
		"addr":     addr,
		"database": dbPath,
	}).Info("development backend starting")

	return authserver.New(store, opts).ListenAndServe(ctx, addr)
}

// runKeybinds prints the effective keybinds
func runKeybinds(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, result := keybinds.LoadOrDefault(cfg.Keybinds)
	return cli.Keybinds(cmd.OutOrStdout(), registry, result, cli.KeybindsOptions{Raw: keybindsRaw})
}

// runResetPassword completes a password reset
func runResetPassword(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return cli.ResetPassword(cmd.Context(), cmd.OutOrStdout(), newClient(cfg, nil), cli.ResetOptions{
		Code:       resetCode,
		Accessible: resetAccessible,
	})
}

// runVersion prints the version and optionally checks for a newer one
func runVersion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "authdialog %s\n", version.Current)

	if !versionCheck {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	update, err := version.Check(cmd.Context(), cfg.Update.ReleasesURL, version.Current)
	if errors.Is(err, version.ErrNoReleaseURL) {
		fmt.Fprintf(out, "Update check skipped: set update.releases_url or %s\n", config.EnvReleasesURL)
		return nil
	}
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if update.Available {
		fmt.Fprintf(out, "A newer version is available: %s\n%s\n", update.Latest, update.URL)
	} else {
		fmt.Fprintln(out, "You are up to date")
	}
	return nil
}
