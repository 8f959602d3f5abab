package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-study-tracker/internal/analyzer"
	"github.com/penwyp/go-study-tracker/internal/config"
	"github.com/penwyp/go-study-tracker/internal/data/cache"
	"github.com/penwyp/go-study-tracker/internal/data/store"
	"github.com/penwyp/go-study-tracker/internal/util"
)

var (
	// Logging related
	debug bool

	// Config and data paths
	cfgFile string
	dataDir string

	// Output related
	outputFormat string
	timezone     string

	// Window selection
	subject     string
	granularity string
	shift       int
	at          string

	rootCmd = &cobra.Command{
		Use:   "go-study-tracker [flags]",
		Short: "Track and chart time spent studying",
		Long: heredoc.Doc(`
			go-study-tracker records study sessions per subject and reports the
			time spent in a day, week, month or year.

			Sessions are stored as hourly samples in one parquet file per subject
			under the data directory. Without a subcommand a report of the current
			period is printed.
		`),
		Example: heredoc.Doc(`
			go-study-tracker                                   # Today, default subject, as a table
			go-study-tracker --subject Math -g week            # This week for Math
			go-study-tracker -g month --shift -1 -o chart      # Last month as a bar chart
			go-study-tracker -g year --at 2023-06-01 -o json   # Year 2023 as JSON
			go-study-tracker -g week -o share                  # Share of each subject this week
		`),
		SilenceUsage: true,
		RunE:         runReport,
	}
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default ~/.config/go-study-tracker/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "",
		"Data directory holding subject files (default "+config.DefaultDataDir+")")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone setting (e.g., Asia/Shanghai, UTC, Local)")

	// Window selection
	rootCmd.Flags().StringVarP(&subject, "subject", "s", "",
		"Subject to report (default from config, else the first subject)")
	rootCmd.Flags().StringVarP(&granularity, "granularity", "g", "",
		"Zoom level (day, week, month, year)")
	rootCmd.Flags().IntVar(&shift, "shift", 0,
		"Move the window by whole periods, negative for the past")
	rootCmd.Flags().StringVar(&at, "at", "",
		"Report the period containing this time (e.g., 2024-03-11, 2024-03-11 15:04)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary, chart, share)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// environment is what every command needs after configuration is resolved.
type environment struct {
	config   *config.Config
	location *time.Location
	store    *store.Store
}

// setup loads configuration, applies flag overrides, initializes logging and
// the time provider and opens the store.
func setup(cmd *cobra.Command, consoleLogs bool) (*environment, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := initLogging(cfg, consoleLogs); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, err
	}
	loc := util.GetTimeProvider().Location()

	st, err := store.New(store.Config{
		DataDir:  cfg.DataDir,
		Location: loc,
		Cache: cache.NewSampleCache(cache.Options{
			MaxSubjects: cfg.Cache.MaxSubjects,
			TTL:         cfg.Cache.TTL,
		}),
	})
	if err != nil {
		return nil, err
	}
	util.LogDebug("environment ready",
		util.F("data_dir", cfg.DataDir),
		util.F("timezone", loc.String()))

	return &environment{config: cfg, location: loc, store: st}, nil
}

// applyFlagOverrides copies explicitly set persistent flags over config values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.DataDir = expandPath(dataDir)
	}
	if flags.Changed("timezone") {
		cfg.Timezone = timezone
	}
	if debug {
		cfg.Log.Level = "debug"
	}
}

func initLogging(cfg *config.Config, console bool) error {
	if cfg.Log.File != "" {
		if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
			return err
		}
	}
	return util.InitLogger(util.LoggerConfig{
		Level:   cfg.Log.Level,
		Format:  util.ParseLogFormat(cfg.Log.Format),
		File:    cfg.Log.File,
		Console: console,
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	if err := env.store.EnsureDefaultSubject(); err != nil {
		return fmt.Errorf("failed to prepare data directory: %w", err)
	}

	if cmd.Flags().Changed("granularity") {
		env.config.Granularity = strings.ToLower(granularity)
		if err := env.config.Validate(); err != nil {
			return err
		}
	}

	reportSubject := subject
	if !cmd.Flags().Changed("subject") {
		// the configured default only applies once it has been created
		reportSubject = env.config.Subject
		if !env.store.Exists(reportSubject) {
			reportSubject = ""
		}
	}

	var atTime time.Time
	if at != "" {
		atTime, err = util.GetTimeProvider().ParseInLocation(at)
		if err != nil {
			return err
		}
	}

	reportConfig := &analyzer.Config{
		Subject:     reportSubject,
		Granularity: env.config.DefaultGranularity(),
		Shift:       shift,
		At:          atTime,
		Output:      strings.ToLower(outputFormat),
		Location:    env.location,
		WeekStart:   env.config.WeekStartDay(),
	}

	a := analyzer.New(reportConfig, env.store, cmd.OutOrStdout())
	return a.Run(cmd.Context())
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	return config.ExpandPath(path)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
