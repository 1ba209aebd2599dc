package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/alme-learn/alme/internal/store"
	"github.com/alme-learn/alme/internal/ui/report"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <email>",
	Short: "Show a learner's dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		ctx := cmd.Context()
		u, err := a.Store.GetUserByEmail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("find learner %s: %w", args[0], err)
		}
		if u.Role == store.RoleStudent {
			if _, err := a.Progress.InitializeForUser(ctx, u.ID, nil); err != nil {
				return err
			}
		}
		d, err := a.Dashboards.Dashboard(ctx, u.ID)
		if err != nil {
			return err
		}
		lipgloss.Println(report.Dashboard(u.Name, d))
		return nil
	},
}
