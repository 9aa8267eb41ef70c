package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/pipeline"
)

// loadAutomaton reads and decodes an automaton file.
func loadAutomaton(path, format string) (*automaton.Graph, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return pipeline.Parse(data, inputFormat(format, data))
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		inputFormat string
		edges       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize an automaton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadAutomaton(args[0], inputFormat)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSummary(w, g)
			if edges {
				fmt.Fprintln(w)
				fmt.Fprintln(w, edgeTable(g, -1).Render())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", pipeline.FormatAuto, "input format: auto, hoa, json")
	cmd.Flags().BoolVarP(&edges, "edges", "e", false, "list every edge")
	return cmd
}

// summary lists the key facts about g in display order.
func summary(g *automaton.Graph) [][2]string {
	cond := g.Acceptance()
	rows := [][2]string{}
	if name := g.Name(); name != "" {
		rows = append(rows, [2]string{"Name", name})
	}
	rows = append(rows,
		[2]string{"States", strconv.Itoa(g.NumStates())},
		[2]string{"Edges", strconv.Itoa(g.NumEdges())},
		[2]string{"Initial", formatStates(g.InitStates())},
		[2]string{"APs", formatAPs(g.Dict().APs())},
		[2]string{"Acceptance", cond.String()},
	)
	if name := cond.Name(); name != "" {
		rows = append(rows, [2]string{"Kind", name})
	}
	rows = append(rows,
		[2]string{"Existential", yesNo(g.IsExistential())},
		[2]string{"Parity", parityStyle(cond)},
	)
	return rows
}

func parityStyle(cond acc.Condition) string {
	max, odd, ok := cond.ParityStyle()
	if !ok {
		return "no"
	}
	style := "min"
	if max {
		style = "max"
	}
	if odd {
		return style + " odd"
	}
	return style + " even"
}

func printSummary(w io.Writer, g *automaton.Graph) {
	fmt.Fprintln(w, StyleTitle.Render("Automaton"))
	for _, kv := range summary(g) {
		printKeyValue(w, kv[0], kv[1])
	}
}

// edgeTable renders the edges of state s, or of every state when s < 0.
func edgeTable(g *automaton.Graph, s int) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	d := g.Dict()

	var rows [][]string
	addState := func(src int) {
		for e := range g.Out(src) {
			marks := ""
			if !e.Acc.IsEmpty() {
				marks = e.Acc.String()
			}
			rows = append(rows, []string{
				stateLabel(g, e.Src),
				d.FormatNames(e.Cond),
				formatStates(e.Dsts()),
				marks,
			})
		}
	}
	if s >= 0 {
		addState(s)
	} else {
		for src := range g.NumStates() {
			addState(src)
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("From", "Guard", "To", "Marks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
}

func stateLabel(g *automaton.Graph, s int) string {
	if name := g.StateName(s); name != "" {
		return fmt.Sprintf("%d %s", s, StyleDim.Render("("+name+")"))
	}
	return strconv.Itoa(s)
}

func formatStates(ss []int) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " & ")
}

func formatAPs(aps []string) string {
	if len(aps) == 0 {
		return "none"
	}
	quoted := make([]string, len(aps))
	for i, ap := range aps {
		quoted[i] = strconv.Quote(ap)
	}
	return strings.Join(quoted, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
