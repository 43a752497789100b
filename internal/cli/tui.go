package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwolf/schemascope/pkg/diagram"
	"github.com/mwolf/schemascope/pkg/schema"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ObjectListModel - Interactive schema object selection
// =============================================================================

// schemaObject is one row in the object picker.
type schemaObject struct {
	ID      string
	Kind    string
	Columns int
	Refs    int
}

// ObjectListModel is the bubbletea model for interactive object selection.
type ObjectListModel struct {
	Objects  []schemaObject
	Cursor   int
	Selected *schemaObject
	Height   int
	Offset   int
}

// NewObjectListModel creates an object list model from a schema graph.
// Tables and views are listed first, then triggers and routines.
func NewObjectListModel(g schema.Graph) ObjectListModel {
	refs := make(map[string]int)
	for _, r := range g.Relationships {
		refs[r.From]++
		refs[r.To]++
	}

	var objects []schemaObject
	for _, t := range g.Tables {
		objects = append(objects, schemaObject{ID: t.ID, Kind: diagram.KindTable, Columns: len(t.Columns), Refs: refs[t.ID]})
	}
	for _, v := range g.Views {
		objects = append(objects, schemaObject{ID: v.ID, Kind: diagram.KindView, Columns: len(v.Columns), Refs: refs[v.ID]})
	}
	for _, t := range g.Triggers {
		objects = append(objects, schemaObject{ID: t.ID, Kind: diagram.KindTrigger})
	}
	for _, r := range g.Routines {
		objects = append(objects, schemaObject{ID: r.ID, Kind: diagram.KindRoutine})
	}

	return ObjectListModel{
		Objects: objects,
		Height:  15,
	}
}

func (m ObjectListModel) Init() tea.Cmd {
	return nil
}

func (m ObjectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Objects)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			obj := m.Objects[m.Cursor]
			// Only tables and views have a focus layout.
			if obj.Kind != diagram.KindTable && obj.Kind != diagram.KindView {
				return m, nil
			}
			m.Selected = &obj
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ObjectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Object"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ focus  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Objects) {
		end = len(m.Objects)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		o := m.Objects[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		cols := "—"
		if o.Columns > 0 {
			cols = fmt.Sprintf("%d", o.Columns)
		}
		refsStr := "—"
		if o.Refs > 0 {
			refsStr = fmt.Sprintf("%d", o.Refs)
		}
		rows = append(rows, []string{cursor, o.ID, o.Kind, cols, refsStr})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Object", "Kind", "Columns", "Refs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Objects) {
				return lipgloss.NewStyle()
			}
			o := m.Objects[actualIdx]
			focusable := o.Kind == diagram.KindTable || o.Kind == diagram.KindView

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				if focusable {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Foreground(colorDim).Bold(true)
			}
			if !focusable {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Objects))))

	return b.String()
}
