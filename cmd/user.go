package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage learner accounts",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners with their completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		students, err := a.Accounts.Students(cmd.Context())
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Println("No learners registered.")
			return nil
		}

		fmt.Printf("%-24s  %-32s  %-8s  %8s  %s\n", "Name", "Email", "Status", "Progress", "Joined")
		fmt.Println(strings.Repeat("─", 92))
		for _, s := range students {
			fmt.Printf("%-24s  %-32s  %-8s  %7d%%  %s\n",
				truncate(s.Name, 24), truncate(s.Email, 32), s.Status, s.Progress,
				s.JoinedAt.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var userStatusCmd = &cobra.Command{
	Use:   "status <email> <active|blocked>",
	Short: "Block or reactivate an account",
	Args:  cobra.ExactArgs(2),
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
			return fmt.Errorf("find user %s: %w", args[0], err)
		}
		if _, err := a.Accounts.SetStatus(ctx, u.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", u.Email, args[1])
		return nil
	},
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userStatusCmd)
}
