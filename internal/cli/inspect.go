package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/graph"
)

// inspectCommand opens an interactive browser over the screens of a flow.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags requestFlags
		page  string
	)

	cmd := &cobra.Command{
		Use:   "inspect [document|graph.json]",
		Short: "Browse the screens and transitions of a flow",
		Long: `Browse the screens and transitions of a flow interactively.

The input is either a document (scanned first) or a graph.json written by
'scan'. Select a screen to list its outgoing transitions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadFlow(cmd.Context(), args[0], page, &flags)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newFlowModel(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "page id or name (default: first page)")
	flags.bindTier(cmd)

	return cmd
}

// loadFlow reads a graph file or scans a document.
func (c *CLI) loadFlow(ctx context.Context, input, page string, flags *requestFlags) (flow.Graph, error) {
	if strings.HasSuffix(input, ".graph.json") {
		return graph.ReadGraphFile(input)
	}
	src, err := c.openSource(input, page)
	if err != nil {
		return flow.Graph{}, err
	}
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return flow.Graph{}, err
	}
	defer runner.Close()
	return runner.Scan(ctx, src, c.requestOptions(flags))
}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// FlowModel is the bubbletea model of the inspect command.
type FlowModel struct {
	Graph  flow.Graph
	Cursor int
	Offset int
	Height int
	// Open shows the outgoing transitions of the screen under the cursor.
	Open bool

	starts map[string]bool
}

func newFlowModel(g flow.Graph) FlowModel {
	starts := make(map[string]bool, len(g.StartingPointIDs))
	for _, id := range g.StartingPointIDs {
		starts[id] = true
	}
	return FlowModel{Graph: g, Height: 15, starts: starts}
}

func (m FlowModel) Init() tea.Cmd { return nil }

func (m FlowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = min(m.Offset, m.Cursor)
			}
		case "down", "j":
			if m.Cursor < len(m.Graph.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Open = !m.Open
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m FlowModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Screens"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ transitions  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Graph.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		start := " "
		if m.starts[n.ID] {
			start = StyleSuccess.Render("●")
		}
		line := fmt.Sprintf("%s%s %-28s %s", cursor, start, n.Name,
			listDimStyle.Render(fmt.Sprintf("%d out · %d in", m.Graph.OutDegree(n.ID), m.Graph.InDegree(n.ID))))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Open && m.Cursor < len(m.Graph.Nodes) {
		b.WriteString("\n")
		b.WriteString(m.transitions(m.Graph.Nodes[m.Cursor]))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))
	return b.String()
}

// transitions renders the outgoing transitions of n as a table.
func (m FlowModel) transitions(n flow.ScreenNode) string {
	var rows [][]string
	for _, e := range m.Graph.Edges {
		if e.SourceID != n.ID {
			continue
		}
		target := e.TargetID
		if t, ok := m.Graph.Node(e.TargetID); ok {
			target = t.Name
		}
		rows = append(rows, []string{diagram.TriggerLabel(e.Trigger), strings.ToLower(e.Action), target})
	}
	if len(rows) == 0 {
		return listDimStyle.Render("  no outgoing transitions") + "\n"
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Trigger", "Action", "Target").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render() + "\n"
}
