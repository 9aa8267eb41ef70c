package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		inputFormat string
		parity      bool
	)

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse the states of an automaton interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadAutomaton(args[0], inputFormat)
			if err != nil {
				return err
			}
			if parity {
				opts := pipeline.Options{
					PrettyPrint: true,
					MaxSets:     c.Config.Convert.MaxSets,
					MaxStates:   c.Config.Convert.MaxStates,
				}
				if err := opts.ValidateAndSetDefaults(); err != nil {
					return err
				}
				if g, _, err = pipeline.Transform(cmd.Context(), g, opts); err != nil {
					return err
				}
			}
			_, err = tea.NewProgram(NewStateListModel(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", pipeline.FormatAuto, "input format: auto, hoa, json")
	cmd.Flags().BoolVar(&parity, "parity", false, "convert to a parity automaton first")
	return cmd
}

// =============================================================================
// StateListModel - Interactive state browser
// =============================================================================

// StateListModel is the bubbletea model for browsing the states of an
// automaton. The edges of the state under the cursor are shown below the list.
type StateListModel struct {
	Graph  *automaton.Graph
	Cursor int
	Height int
	Offset int
	// History holds the states visited with enter, for backspace.
	History []int
}

// NewStateListModel creates a new state list model.
func NewStateListModel(g *automaton.Graph) StateListModel {
	m := StateListModel{Graph: g, Height: 10}
	if init := g.InitStates(); len(init) > 0 {
		m = m.jump(init[0])
	}
	return m
}

func (m StateListModel) Init() tea.Cmd {
	return nil
}

func (m StateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := m.Graph.NumStates()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m = m.jump(m.Cursor - 1)
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m = m.jump(m.Cursor + 1)
			}
		case "enter":
			// Follow the first edge leaving the selected state.
			for e := range m.Graph.Out(m.Cursor) {
				m.History = append(m.History, m.Cursor)
				m = m.jump(e.Dsts()[0])
				break
			}
		case "backspace":
			if len(m.History) > 0 {
				prev := m.History[len(m.History)-1]
				m.History = m.History[:len(m.History)-1]
				m = m.jump(prev)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the edge table.
		m.Height = max(msg.Height/2-4, 3)
		m = m.jump(m.Cursor)
	}
	return m, nil
}

// jump moves the cursor to s and scrolls it into view.
func (m StateListModel) jump(s int) StateListModel {
	m.Cursor = s
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m StateListModel) View() string {
	g := m.Graph
	var b strings.Builder

	title := "States"
	if name := g.Name(); name != "" {
		title = name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(g.Acceptance().String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if g.NumStates() == 0 {
		b.WriteString(listDimStyle.Render("  no states"))
		return b.String()
	}

	init := g.InitStates()
	end := min(m.Offset+m.Height, g.NumStates())
	for s := m.Offset; s < end; s++ {
		cursor := "  "
		if s == m.Cursor {
			cursor = "▸ "
		}
		marker := " "
		if slices.Contains(init, s) {
			marker = StyleSuccess.Render("→")
		}
		line := fmt.Sprintf("%s%s %-6s %-30s %s", cursor, marker, strconv.Itoa(s), g.StateName(s),
			listDimStyle.Render(fmt.Sprintf("%d edges", g.OutDegree(s))))
		if s == m.Cursor {
			line = listSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(edgeTable(g, m.Cursor).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, g.NumStates())))
	return b.String()
}
