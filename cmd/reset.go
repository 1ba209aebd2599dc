package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <email>",
	Short: "Reset a learner's progress to the initial state",
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
		if err := a.Progress.DeleteUser(ctx, u.ID); err != nil {
			return err
		}
		if _, err := a.Progress.InitializeForUser(ctx, u.ID, nil); err != nil {
			return err
		}
		fmt.Printf("Progress reset for %s\n", u.Email)
		return nil
	},
}
