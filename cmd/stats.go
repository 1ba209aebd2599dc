package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		st, err := a.Store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		rows := []struct {
			label string
			value string
		}{
			{"Students", fmt.Sprint(st.TotalStudents)},
			{"Active now", fmt.Sprint(st.ActiveNow)},
			{"Quizzes", fmt.Sprint(st.TotalQuizzes)},
			{"Attempts", fmt.Sprint(st.TotalAttempts)},
			{"At risk", fmt.Sprint(st.AtRisk)},
			{"Completion", fmt.Sprintf("%.1f%%", st.CompletionRate)},
			{"Books", fmt.Sprint(st.TotalBooks)},
			{"Circles", fmt.Sprint(st.TotalCircles)},
			{"Posts", fmt.Sprint(st.TotalPosts)},
		}
		fmt.Println(strings.Repeat("─", 28))
		for _, r := range rows {
			fmt.Printf("%-14s %12s\n", r.label, r.value)
		}
		fmt.Println(strings.Repeat("─", 28))
		return nil
	},
}
