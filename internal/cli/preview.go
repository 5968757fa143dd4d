package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/tree"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// previewCommand creates the preview command, an interactive table of the
// boxes of a layout.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags layoutFlags
		printOnce bool
	)

	cmd := &cobra.Command{
		Use:   "preview <tree>",
		Short: "Browse the layout of a tree document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, opts, err := c.prepare(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			res, _, err := c.computeLayout(cmd.Context(), doc, opts, flags.noCache)
			if err != nil {
				return err
			}

			m := NewBoxListModel(doc.Tree, res)
			if printOnce {
				m.Height = len(m.Rows)
				fmt.Fprintln(stdout, m.View())
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&printOnce, "print", false, "print the table once instead of starting the interactive view")

	return cmd
}

// BoxRow is one laid out box as shown in the preview.
type BoxRow struct {
	Index int
	Depth int
	Label string
	ID    string
	Rect  boxtree.Rect
	Text  boxtree.Point
}

// BoxListModel is the bubbletea model of the preview.
type BoxListModel struct {
	Rows   []BoxRow
	Canvas boxtree.Size
	Cursor int
	Offset int
	Height int
}

// NewBoxListModel lists the boxes of res in pre-order, indented by depth.
func NewBoxListModel(t *tree.Tree[boxtree.Box], res *boxtree.Result) BoxListModel {
	depths := tree.Flatten(tree.Walk(t, func(_ boxtree.Box, depth int) int { return depth }))
	rows := make([]BoxRow, res.NodeCount())
	for i := range rows {
		rows[i] = BoxRow{
			Index: i,
			Label: res.Labels[i],
			Rect:  res.BgRects[i],
			Text:  res.TextAnchors[i],
		}
		if i < len(depths) {
			rows[i].Depth = depths[i]
		}
		if i < len(res.IDs) {
			rows[i].ID = res.IDs[i]
		}
	}
	return BoxListModel{Rows: rows, Canvas: res.Canvas, Height: 15}
}

func (m BoxListModel) Init() tea.Cmd {
	return nil
}

func (m BoxListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	m.Offset = scrollOffset(m.Cursor, m.Offset, m.Height)
	return m, nil
}

// scrollOffset keeps the cursor within the visible window.
func scrollOffset(cursor, offset, height int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

func (m BoxListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %gx%g px · %d boxes", m.Canvas.Width, m.Canvas.Height, len(m.Rows))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", r.Depth) + r.Label,
			r.ID,
			fmt.Sprintf("%g", r.Rect.X),
			fmt.Sprintf("%g", r.Rect.Y),
			fmt.Sprintf("%gx%g", r.Rect.Width, r.Rect.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Label", "ID", "X", "Y", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Rows) > 0 {
		r := m.Rows[m.Cursor]
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] text anchor (%g, %g)", m.Cursor+1, len(m.Rows), r.Text.X, r.Text.Y)))
	}
	return b.String()
}
