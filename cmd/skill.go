package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/ui/report"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse and edit the skill graph",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills in curriculum order (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		skills := a.Curriculum.Skills()
		if category != "" {
			var filtered []skillgraph.Skill
			for _, s := range skills {
				if strings.EqualFold(string(s.Category), category) {
					filtered = append(filtered, s)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("no skills found for category %q", category)
			}
			skills = filtered
		}

		lipgloss.Println(report.Skills(skills))
		return nil
	},
}

var skillAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Add a skill to the graph",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		requires, _ := cmd.Flags().GetStringSlice("requires")

		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		sk := skillgraph.Skill{
			ID:         skillgraph.ID(args[0]),
			Name:       args[1],
			Category:   skillgraph.Category(category),
			Difficulty: difficulty,
		}
		for _, r := range requires {
			sk.Prerequisites = append(sk.Prerequisites, skillgraph.ID(r))
		}
		if _, err := a.Curriculum.AddSkill(cmd.Context(), sk); err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", sk.Name, sk.ID)
		return nil
	},
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a skill nothing depends on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		if err := a.Curriculum.RemoveSkill(cmd.Context(), skillgraph.ID(args[0])); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("category", "", "Filter by category (e.g. Frontend, Language)")

	skillAddCmd.Flags().String("category", string(skillgraph.CategoryFrontend), "Skill category")
	skillAddCmd.Flags().Int("difficulty", 1, "Difficulty from 1 to 10")
	skillAddCmd.Flags().StringSlice("requires", nil, "Prerequisite skill IDs")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillRemoveCmd)
}
