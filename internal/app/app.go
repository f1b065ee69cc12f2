package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dp-coding/zammad-tui/internal/tracker"
	"github.com/dp-coding/zammad-tui/internal/ui/views"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

type Page int

const (
	TicketsView Page = iota
	SettingsView
	TimeEntriesView
)

// AppModel routes between the views and owns the service and tracker
// lifecycle. On every exit path it flushes an active time recording before
// the program stops.
type AppModel struct {
	svc *zammad.Service
	trk *tracker.Tracker

	currentPage Page
	routes      map[Page]tea.Model
	width       int
	height      int
}

func New(svc *zammad.Service, trk *tracker.Tracker) AppModel {
	page := TicketsView
	if !svc.IsConfigured() {
		page = SettingsView
	}
	return AppModel{
		svc:         svc,
		trk:         trk,
		currentPage: page,
		routes:      map[Page]tea.Model{},
	}
}

func (m AppModel) route() tea.Model {
	if m.routes[m.currentPage] == nil {
		switch m.currentPage {
		case TicketsView:
			m.routes[m.currentPage] = views.NewTicketsModel(m.svc, m.trk)
		case SettingsView:
			m.routes[m.currentPage] = views.NewSettingsModel(m.svc)
		}
	}
	return m.routes[m.currentPage]
}

func (m AppModel) Init() tea.Cmd {
	return m.route().Init()
}

// shutdown posts an in-flight time recording synchronously. Failures are
// logged inside Flush, never shown: the terminal may already be restoring.
func (m AppModel) shutdown() tea.Cmd {
	m.trk.Flush(m.svc)
	return tea.Quit
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.shutdown()
		case "q":
			// settings and detail panes consume q themselves
			if m.currentPage == TicketsView {
				if tm, ok := m.routes[TicketsView].(views.TicketsModel); !ok || !tm.Busy() {
					return m, m.shutdown()
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case views.ShowTimeEntriesMsg:
		m.currentPage = TimeEntriesView
		m.routes[TimeEntriesView] = views.NewTimeEntriesModel(m.svc, msg.Ticket, m.width, m.height)
		return m, m.routes[TimeEntriesView].Init()

	case views.BackToTicketsMsg:
		m.currentPage = TicketsView
		delete(m.routes, TimeEntriesView)
		return m, nil

	case views.OpenSettingsMsg:
		m.currentPage = SettingsView
		m.routes[SettingsView] = views.NewSettingsModel(m.svc)
		return m, m.routes[SettingsView].Init()

	case views.SettingsSavedMsg, views.CloseSettingsMsg:
		m.currentPage = TicketsView
		// force a refetch with the new credentials
		delete(m.routes, TicketsView)
		return m, m.route().Init()
	}

	var cmd tea.Cmd
	m.routes[m.currentPage], cmd = m.route().Update(msg)
	return m, cmd
}

func (m AppModel) View() string {
	route := m.routes[m.currentPage]
	if route == nil {
		return ""
	}
	return route.View()
}

func NewProgram(svc *zammad.Service, trk *tracker.Tracker) *tea.Program {
	return tea.NewProgram(New(svc, trk), tea.WithAltScreen())
}
