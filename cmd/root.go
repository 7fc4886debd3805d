package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/portal/internal/client"
	"github.com/joescharf/portal/internal/output"
	"github.com/joescharf/portal/internal/service"
	"github.com/joescharf/portal/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui  *output.UI
	app *appServices

	verbose bool
	dryRun  bool
)

// appServices is the single store adapter and the services built on it.
type appServices struct {
	store    store.Store
	projects *service.ProjectService
	tickets  *service.TicketService
	logger   *slog.Logger
}

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Customer portal - track client projects and their tickets",
	Long: `portal manages client projects and the tickets filed against them.
Data lives in a local SQLite file or on a remote portal API, selected
with the backend setting.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	closeServices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rootRun()
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/portal/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "Persistence backend: local or remote")
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDirFunc()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PORTAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers every config key with its default value.
func setDefaults() {
	dir, _ := configDirFunc()

	viper.SetDefault("backend", backendLocal)
	viper.SetDefault("db_path", filepath.Join(dir, "portal.db"))
	viper.SetDefault("api_url", client.DefaultBaseURL)
	viper.SetDefault("api_key", "")
	viper.SetDefault("http_timeout", "0s")
	viper.SetDefault("port", 8000)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// Services are opened lazily so config/version run without a database.
}

// rootRun handles `portal` with no subcommand: show the dashboard.
func rootRun() error {
	if _, err := getServices(); err != nil {
		return err
	}
	return statusRun()
}

const (
	backendLocal  = "local"
	backendRemote = "remote"
)

// newLogger builds the diagnostics logger from logging.level; --verbose forces debug.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("logging.level"))); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore constructs the one store adapter selected by the backend setting.
func openStore(logger *slog.Logger) (store.Store, error) {
	switch backend := viper.GetString("backend"); backend {
	case backendLocal, "":
		dbPath := viper.GetString("db_path")
		if dbPath == "" {
			logger.Debug("db_path empty, keeping data in memory")
			return store.NewLocalStore(nil, logger), nil
		}
		kv, err := store.NewSQLiteKV(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := kv.Migrate(context.Background()); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Debug("using local store", "db_path", dbPath)
		return store.NewLocalStore(kv, logger), nil

	case backendRemote:
		c := client.New(viper.GetString("api_url"),
			client.WithTimeout(viper.GetDuration("http_timeout")),
			client.WithAPIKey(viper.GetString("api_key")),
			client.WithLogger(logger),
		)
		logger.Debug("using remote store", "api_url", c.BaseURL())
		return c, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, backendLocal, backendRemote)
	}
}

// getServices returns the shared services, opening the store on first call.
func getServices() (*appServices, error) {
	if app != nil {
		return app, nil
	}

	logger := newLogger()
	s, err := openStore(logger)
	if err != nil {
		return nil, err
	}

	app = &appServices{
		store:    s,
		projects: service.NewProjectService(s, logger),
		tickets:  service.NewTicketService(s, logger),
		logger:   logger,
	}
	return app, nil
}

func closeServices() {
	if app == nil {
		return
	}
	if err := app.store.Close(); err != nil {
		app.logger.Warn("closing store", "error", err)
	}
	app = nil
}
