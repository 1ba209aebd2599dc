package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alme-learn/alme/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		a, cfg, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		if seed, _ := cmd.Flags().GetBool("seed"); seed {
			report, err := a.Seed(ctx, app.DefaultSeedOptions())
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("Seed complete", "report", report.String())
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}
		log.Info("Starting server", "addr", cfg.Server.Addr(), "mode", cfg.Mode, "db", cfg.DBPath)
		return a.Server(cfg.Server.CORSOrigins).Run(ctx, cfg.Server.Addr(), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	},
}

func init() {
	serveCmd.Flags().Bool("seed", true, "Seed demo content into empty collections on startup")
	serveCmd.Flags().IntP("port", "p", 0, "Listen port (overrides config)")
}
