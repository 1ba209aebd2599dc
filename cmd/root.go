package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alme-learn/alme/internal/app"
	"github.com/alme-learn/alme/internal/config"
	"github.com/alme-learn/alme/internal/feed"
	"github.com/alme-learn/alme/internal/logger"
	"github.com/alme-learn/alme/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "alme",
	Short:        "Adaptive learning platform",
	Long:         "ALME serves an adaptive learning API: a skill graph, quizzes that advance mastery, dashboards and a study network.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ALME_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and resolves the database path using the --db
// flag (highest priority), then ALME_DB or the config file, then the default
// XDG path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration and wires an App. Callers close the app and sync
// the logger.
func openApp(cmd *cobra.Command) (*app.App, *config.Config, *logger.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Mode)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := app.New(cmd.Context(), app.Options{
		DSN:       cfg.DBPath,
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		LLM:       cfg.LLM,
		Feed:      feed.DefaultConfig(),
		Log:       log,
	})
	if err != nil {
		log.Sync()
		return nil, nil, nil, err
	}
	return a, cfg, log, nil
}
