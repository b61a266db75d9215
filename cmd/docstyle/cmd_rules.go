package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"docstyle/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules and their configured severities",
	Run: func(cmd *cobra.Command, args []string) {
		idStyle := lipgloss.NewStyle().Bold(true)
		sevStyle := lipgloss.NewStyle().Faint(true)
		offStyle := lipgloss.NewStyle().Faint(true).Strikethrough(true)

		w := cmd.OutOrStdout()
		for _, r := range rules.All() {
			enabled, sev := styleGuide.Resolve(r.ID(), "", r.DefaultSeverity())
			if !enabled {
				fmt.Fprintf(w, "%s %s\n    %s\n",
					offStyle.Render(r.ID()), sevStyle.Render("(disabled)"), r.Description())
				continue
			}
			fmt.Fprintf(w, "%s %s\n    %s\n",
				idStyle.Render(r.ID()),
				sevStyle.Render("("+sev.String()+")"),
				r.Description())
		}
	},
}
