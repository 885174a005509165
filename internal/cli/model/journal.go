// Package model holds the Bubble Tea models of the interactive commands.
package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/webbridge/internal/application/usecase"
	"github.com/bnema/webbridge/internal/cli/styles"
)

// JournalModel browses the newest journaled outcomes.
type JournalModel struct {
	output  *usecase.ListOutcomesOutput
	table   table.Model
	loading bool
	err     error
	width   int
	height  int

	ctx   context.Context
	uc    *usecase.ListOutcomesUseCase
	limit int
	theme *styles.Theme
}

// NewJournalModel creates a journal browser showing up to limit outcomes.
func NewJournalModel(ctx context.Context, theme *styles.Theme, uc *usecase.ListOutcomesUseCase, limit int) JournalModel {
	return JournalModel{
		ctx:     ctx,
		uc:      uc,
		limit:   limit,
		theme:   theme,
		loading: true,
		width:   100,
		height:  24,
	}
}

type outcomesLoadedMsg struct {
	output *usecase.ListOutcomesOutput
	err    error
}

// Init implements tea.Model.
func (m JournalModel) Init() tea.Cmd {
	return m.load
}

func (m JournalModel) load() tea.Msg {
	out, err := m.uc.Execute(m.ctx, usecase.ListOutcomesInput{Limit: m.limit})
	return outcomesLoadedMsg{output: out, err: err}
}

// Update implements tea.Model.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateTable()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.load
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case outcomesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.output = msg.output
		m.updateTable()
	}

	return m, nil
}

func (m *JournalModel) updateTable() {
	if m.output == nil {
		return
	}
	rows := make([]table.Row, len(m.output.Outcomes))
	for i, o := range m.output.Outcomes {
		rows[i] = styles.OutcomeRow(o)
	}

	height := max(min(len(rows), m.height-8), 3)
	m.table = styles.NewStyledTable(m.theme, styles.OutcomeTableColumns(), rows, m.width-4, height)
}

// View implements tea.Model.
func (m JournalModel) View() string {
	t := m.theme

	if m.loading {
		return t.Box.Render(styles.NewLoading(t, "Loading journal...").View())
	}
	if m.err != nil {
		return t.Box.Render(t.ErrorStyle.Render("Error: " + m.err.Error()))
	}
	if m.output == nil || len(m.output.Outcomes) == 0 {
		return t.Box.Render(t.Subtle.Render("No outcomes journaled yet"))
	}

	badges := []string{t.Badge.Render(fmt.Sprintf("%d total", m.output.Total))}
	for _, c := range m.output.Counts {
		badges = append(badges, " ", t.StatusBadge(fmt.Sprintf("%d %s", c.Count, c.Result), t.Background, t.ResultColor(c.Result)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		t.Title.Render("Host round trips"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, badges...),
		"",
		m.table.View(),
		"",
		t.HelpKey.Render("r")+t.HelpDesc.Render(" reload  ")+t.HelpKey.Render("q")+t.HelpDesc.Render(" quit"),
	)
}
