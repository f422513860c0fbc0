// Command winegallery serves, browses and maintains the wine catalog.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/config"
)

var (
	// configFile is set by the --config flag.
	configFile string
	// logLevel overrides log.level when set.
	logLevel string

	// v, settings and logger are populated by loadRuntime before any
	// subcommand runs.
	v        *viper.Viper
	settings config.Settings
	logger   = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "winegallery",
	Short: "WineGallery is a faceted wine catalog and recommendation quiz",
	Long: `WineGallery loads a wine catalog and lets you filter it by text, country,
type, vintage, style, flavor tags and price, sort and page the results, and
answer a five-question quiz for a short list of recommendations.

It runs as an HTTP API (serve), an interactive terminal (browse), a one-shot
query tool (query, quiz), or an MCP tool server (mcp).`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadRuntime,
	PersistentPostRunE: func(*cobra.Command, []string) error { _ = logger.Sync(); return nil },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./winegallery.yaml or ~/.config/winegallery/winegallery.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("catalog", "", "catalog source: a .csv/.yaml/.json file, \"sqlite\", or empty for the built-in dataset")
	rootCmd.PersistentFlags().String("db", "", "snapshot database path")

	rootCmd.AddCommand(
		serveCmd,
		browseCmd,
		queryCmd,
		quizCmd,
		importCmd,
		snapshotsCmd,
		backupCmd,
		restoreCmd,
		mcpCmd,
		versionCmd,
	)
}

// loadRuntime reads configuration, applies flag overrides, validates the
// result and builds the logger.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	var err error
	v, err = config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"catalog.source": "catalog",
		"database.path":  "db",
		"server.host":    "host",
		"server.port":    "port",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	if logLevel != "" {
		v.Set("log.level", logLevel)
	}

	settings, err = config.LoadSettings(config.New(v))
	if err != nil {
		return err
	}

	logger, err = newLogger(settings.Log)
	return err
}

func newLogger(s config.LogSettings) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(s.ZapLevel())
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
