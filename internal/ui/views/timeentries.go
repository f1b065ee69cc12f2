package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dp-coding/zammad-tui/internal/shared"
	ui "github.com/dp-coding/zammad-tui/internal/ui/styles"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

// BackToTicketsMsg tells the app router to return to the ticket list.
type BackToTicketsMsg struct{}

type entriesLoadedMsg struct {
	entries []zammad.TimeAccountingEntry
	err     error
}

type TimeEntriesModel struct {
	svc    *zammad.Service
	ticket zammad.Ticket

	width    int
	height   int
	loading  bool
	spinner  spinner.Model
	viewport viewport.Model
	errText  string
}

func NewTimeEntriesModel(svc *zammad.Service, ticket zammad.Ticket, width, height int) TimeEntriesModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return TimeEntriesModel{
		svc:     svc,
		ticket:  ticket,
		width:   width,
		height:  height,
		loading: true,
		spinner: s,
	}
}

func (m TimeEntriesModel) Init() tea.Cmd {
	return tea.Batch(m.fetchEntries, m.spinner.Tick)
}

func (m TimeEntriesModel) fetchEntries() tea.Msg {
	entries, err := m.svc.TimeAccountingEntries(m.ticket.ID)
	return entriesLoadedMsg{entries: entries, err: err}
}

func (m TimeEntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = m.width - 6
		m.viewport.Height = m.height - 7
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = zammad.UserMessage(msg.err)
			return m, nil
		}
		m.viewport = viewport.New(m.width-6, m.height-7)
		m.viewport.SetContent(renderEntries(msg.entries))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "enter":
			return m, func() tea.Msg { return BackToTicketsMsg{} }
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		case "r":
			m.loading = true
			return m, tea.Batch(m.fetchEntries, m.spinner.Tick)
		}
	}
	return m, nil
}

func renderEntries(entries []zammad.TimeAccountingEntry) string {
	if len(entries) == 0 {
		return "No time entries recorded for this ticket."
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "Time: %s, Created: %s", e.TimeUnit, shared.PrettyTime(e.CreatedAt))
		if e.Note != "" {
			fmt.Fprintf(&b, "\n  Note: %s", e.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m TimeEntriesModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := ui.TitleStyle.Render(fmt.Sprintf("Time Entries — %s", m.ticket.String()))
	title = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title)

	if m.loading {
		loading := lipgloss.NewStyle().Bold(true).Foreground(ui.Highlight).MarginLeft(2)
		return lipgloss.JoinVertical(lipgloss.Left, title, "", loading.Render("Loading time entries... ")+m.spinner.View())
	}

	var body string
	if m.errText != "" {
		body = ui.ErrorStyle.Render(m.errText)
	} else {
		body = ui.PanelStyle.Width(m.width - 2).Render(m.viewport.View())
	}

	help := ui.HelpStyle.Render("[↑ ↓] scroll    [r] reload    [esc] back")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)
}
