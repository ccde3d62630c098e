package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/tier"
)

// tiersCommand lists the feature tiers.
func (c *CLI) tiersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List feature tiers and their limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderTierTable(tier.All(), tier.Resolve(c.Config.Tier).Name))
			return nil
		},
	}
}

// renderTierTable shows one row per tier; the active tier is highlighted.
func renderTierTable(tiers []tier.Config, active string) string {
	rows := make([][]string, len(tiers))
	for i, t := range tiers {
		rows[i] = []string{t.Name, t.Limit(), mark(t.FlowHighlighting), mark(t.InteractionLabels), mark(t.PDFExport)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Tier", "Screens", "Highlighting", "Labels", "PDF").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(tiers) && tiers[row].Name == active {
				return cellStyle.Foreground(colorCyan).Bold(true)
			}
			return cellStyle.Foreground(colorWhite)
		}).
		Render()
}

func mark(ok bool) string {
	if ok {
		return iconSuccess
	}
	return "—"
}
