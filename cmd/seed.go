package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alme-learn/alme/internal/app"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the demo curriculum, content and accounts",
	Long:  "Seed fills empty collections only, so it is safe to run more than once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		opts := app.DefaultSeedOptions()
		if v, _ := cmd.Flags().GetString("admin-email"); v != "" {
			opts.AdminEmail = v
		}
		if v, _ := cmd.Flags().GetString("admin-password"); v != "" {
			opts.AdminPassword = v
		}

		report, err := a.Seed(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Println(report)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("admin-email", "", "Admin account email (default admin@alme.dev)")
	seedCmd.Flags().String("admin-password", "", "Admin account password")
}
