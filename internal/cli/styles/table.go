package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/webbridge/internal/domain/entity"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// OutcomeTableColumns returns columns for the outcome journal table.
func OutcomeTableColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Method", Width: 36},
		{Title: "Renderer", Width: 9},
		{Title: "Result", Width: 9},
		{Title: "Latency", Width: 10},
		{Title: "When", Width: 10},
		{Title: "Detail", Width: 30},
	}
}

// OutcomeRow converts an outcome to a table row.
func OutcomeRow(o *entity.Outcome) table.Row {
	return table.Row{
		strconv.FormatInt(o.ID, 10),
		string(o.Method),
		o.RendererID.String(),
		string(o.Result),
		FormatLatency(o.Latency),
		RelativeTime(o.At),
		o.Detail,
	}
}
