package views

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dp-coding/zammad-tui/internal/gitutil"
	"github.com/dp-coding/zammad-tui/internal/shared"
	"github.com/dp-coding/zammad-tui/internal/tracker"
	ui "github.com/dp-coding/zammad-tui/internal/ui/styles"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

// ShowTimeEntriesMsg asks the app router to open the time entries view for a
// ticket.
type ShowTimeEntriesMsg struct {
	Ticket zammad.Ticket
}

// OpenSettingsMsg asks the app router to open the settings view.
type OpenSettingsMsg struct{}

type ticketsLoadedMsg struct {
	tickets []zammad.Ticket
	err     error
}

type detailLoadedMsg struct {
	ticket   zammad.Ticket
	tags     []string
	articles []articleView
	err      error
}

type articleView struct {
	author string
	when   string
	body   string
}

type branchCreatedMsg struct {
	name string
	err  error
}

type entryPostedMsg struct {
	ticket  zammad.Ticket
	elapsed string
	err     error
}

type clockTickMsg time.Time

type TicketsModel struct {
	svc *zammad.Service
	trk *tracker.Tracker

	width  int
	height int

	loading bool
	spinner spinner.Model

	tickets []zammad.Ticket
	cursor  int
	offset  int

	showDetail     bool
	detailTicket   zammad.Ticket
	detailViewport viewport.Model

	// pending ticket waiting for the user to confirm discarding the active
	// recording
	confirmSwitch *zammad.Ticket

	status  string
	isError bool
}

func NewTicketsModel(svc *zammad.Service, trk *tracker.Tracker) TicketsModel {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width == 0 {
		width, height = 120, 24
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return TicketsModel{
		svc:     svc,
		trk:     trk,
		width:   width,
		height:  height,
		loading: true,
		spinner: s,
	}
}

func (m TicketsModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchTickets, m.spinner.Tick}
	if _, ok := m.trk.Active(); ok {
		cmds = append(cmds, clockTick())
	}
	return tea.Batch(cmds...)
}

func (m TicketsModel) fetchTickets() tea.Msg {
	tickets, err := m.svc.TicketsForCurrentUser()
	if err == nil {
		// newest first, matching the numbering of the remote instance
		sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID > tickets[j].ID })
	}
	return ticketsLoadedMsg{tickets: tickets, err: err}
}

func (m TicketsModel) fetchDetail(ticket zammad.Ticket) tea.Cmd {
	return func() tea.Msg {
		tags, err := m.svc.TicketTags(ticket.ID)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		articles, err := m.svc.TicketArticles(ticket.ID)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		rendered := make([]articleView, 0, len(articles))
		for _, a := range articles {
			body := a.Body
			if strings.Contains(a.ContentType, "html") {
				body = shared.StripHTML(body)
			}
			rendered = append(rendered, articleView{
				author: m.resolveAuthor(a),
				when:   shared.PrettyTime(a.CreatedAt),
				body:   body,
			})
		}
		return detailLoadedMsg{ticket: ticket, tags: tags, articles: rendered}
	}
}

// resolveAuthor looks the article author up through the user cache. Failure
// degrades to the sender address or a placeholder, never an error.
func (m TicketsModel) resolveAuthor(a zammad.Article) string {
	if a.CreatedByID > 0 {
		if user, err := m.svc.UserByID(a.CreatedByID); err == nil {
			if name := user.FullName(); name != "" {
				return name
			}
		}
	}
	if a.From != "" {
		return a.From
	}
	return "unknown"
}

func (m TicketsModel) createBranch(ticket zammad.Ticket) tea.Cmd {
	return func() tea.Msg {
		repo, err := gitutil.Discover()
		if err != nil {
			return branchCreatedMsg{err: err}
		}
		if _, err := repo.CurrentBranch(); err != nil {
			return branchCreatedMsg{err: err}
		}
		name := gitutil.BranchName(gitutil.DefaultPrefix, ticket.ID, ticket.Title)
		if err := repo.CheckoutNewBranch(name); err != nil {
			return branchCreatedMsg{err: err}
		}
		return branchCreatedMsg{name: name}
	}
}

func (m TicketsModel) stopRecording() tea.Cmd {
	return func() tea.Msg {
		ticket, elapsed, err := m.trk.Stop()
		if err != nil {
			return entryPostedMsg{err: err}
		}
		if _, err := m.svc.CreateTimeAccountingEntry(ticket.ID, elapsed, ""); err != nil {
			return entryPostedMsg{err: err}
		}
		return entryPostedMsg{ticket: ticket, elapsed: elapsed}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

// Busy reports whether the view consumes the q key itself (detail pane or
// confirmation prompt open) instead of letting it quit the program.
func (m TicketsModel) Busy() bool {
	return m.showDetail || m.confirmSwitch != nil
}

func (m TicketsModel) selected() (zammad.Ticket, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tickets) {
		return zammad.Ticket{}, false
	}
	return m.tickets[m.cursor], true
}

func (m TicketsModel) visibleRows() int {
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m TicketsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.showDetail {
			m.detailViewport.Width = m.width - 6
			m.detailViewport.Height = m.height - 8
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ticketsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status, m.isError = zammad.UserMessage(msg.err), true
			return m, nil
		}
		m.tickets = msg.tickets
		if m.cursor >= len(m.tickets) {
			m.cursor = 0
			m.offset = 0
		}
		m.status, m.isError = fmt.Sprintf("Loaded %d tickets", len(m.tickets)), false
		return m, nil

	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status, m.isError = zammad.UserMessage(msg.err), true
			return m, nil
		}
		m.showDetail = true
		m.detailTicket = msg.ticket
		m.detailViewport = viewport.New(m.width-6, m.height-8)
		m.detailViewport.SetContent(m.renderDetail(msg))
		return m, nil

	case branchCreatedMsg:
		if msg.err != nil {
			m.status, m.isError = fmt.Sprintf("Cannot create branch: %v", msg.err), true
		} else {
			m.status, m.isError = fmt.Sprintf("Created and checked out branch %q", msg.name), false
		}
		return m, nil

	case entryPostedMsg:
		if msg.err != nil {
			m.status, m.isError = zammad.UserMessage(msg.err), true
			return m, nil
		}
		m.status = fmt.Sprintf("Recorded %s for ticket #%d: %s", msg.elapsed, msg.ticket.ID, msg.ticket.Title)
		m.isError = false
		if m.confirmSwitch != nil {
			next := *m.confirmSwitch
			m.confirmSwitch = nil
			if err := m.trk.Start(next); err == nil {
				return m, clockTick()
			}
		}
		return m, nil

	case clockTickMsg:
		if _, ok := m.trk.Active(); ok {
			return m, clockTick()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TicketsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmSwitch != nil {
		switch msg.String() {
		case "y", "Y":
			return m, m.stopRecording()
		case "n", "N", "esc":
			m.confirmSwitch = nil
			m.status, m.isError = "", false
		}
		return m, nil
	}

	if m.showDetail {
		switch msg.String() {
		case "esc", "enter", "q":
			m.showDetail = false
		case "up", "k":
			m.detailViewport.ScrollUp(1)
		case "down", "j":
			m.detailViewport.ScrollDown(1)
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset--
			}
		}
	case "down", "j":
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.visibleRows() {
				m.offset++
			}
		}
	case "enter":
		if ticket, ok := m.selected(); ok {
			m.loading = true
			return m, tea.Batch(m.fetchDetail(ticket), m.spinner.Tick)
		}
	case "r":
		m.svc.ClearUserCache()
		m.svc.ClearTagCache()
		m.svc.ClearArticleCache()
		m.loading = true
		return m, tea.Batch(m.fetchTickets, m.spinner.Tick)
	case "b":
		if ticket, ok := m.selected(); ok {
			return m, m.createBranch(ticket)
		}
	case "o":
		if ticket, ok := m.selected(); ok {
			openInBrowser(fmt.Sprintf("%s/#ticket/zoom/%d", m.svc.BaseURL(), ticket.ID))
		}
	case "t":
		if ticket, ok := m.selected(); ok {
			return m, func() tea.Msg { return ShowTimeEntriesMsg{Ticket: ticket} }
		}
	case "s":
		return m.toggleRecording()
	case "?":
		return m, func() tea.Msg { return OpenSettingsMsg{} }
	}
	return m, nil
}

func (m TicketsModel) toggleRecording() (tea.Model, tea.Cmd) {
	ticket, ok := m.selected()
	if !ok {
		return m, nil
	}

	active, recording := m.trk.Active()
	if !recording {
		if err := m.trk.Start(ticket); err != nil {
			m.status, m.isError = err.Error(), true
			return m, nil
		}
		m.status, m.isError = fmt.Sprintf("Started recording for ticket #%d", ticket.ID), false
		return m, clockTick()
	}

	if active.Ticket.ID == ticket.ID {
		return m, m.stopRecording()
	}

	// switching tickets needs an explicit confirmation before the active
	// recording is stopped and posted
	m.confirmSwitch = &ticket
	m.status = fmt.Sprintf("Already recording for ticket #%d. Stop it and record for #%d? [y/n]",
		active.Ticket.ID, ticket.ID)
	m.isError = false
	return m, nil
}

func (m TicketsModel) renderDetail(msg detailLoadedMsg) string {
	t := msg.ticket

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.String())
	fmt.Fprintf(&b, "- State: %s\n", t.State)
	fmt.Fprintf(&b, "- Priority: %s\n", t.Priority)
	fmt.Fprintf(&b, "- Group: %s\n", t.Group)
	if t.Customer != "" {
		fmt.Fprintf(&b, "- Customer: %s\n", t.Customer)
	}
	if t.OrganizationName != "" {
		fmt.Fprintf(&b, "- Organization: %s\n", t.OrganizationName)
	}
	if len(msg.tags) > 0 {
		fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(msg.tags, ", "))
	}
	fmt.Fprintf(&b, "- Created: %s\n", shared.PrettyTime(t.CreatedAt))

	for _, a := range msg.articles {
		fmt.Fprintf(&b, "\n---\n**%s** · %s\n\n%s\n", a.author, a.when, a.body)
	}

	rendered, err := glamour.Render(b.String(), "dark")
	if err != nil {
		return b.String()
	}
	return rendered
}

func (m TicketsModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.loading {
		loading := lipgloss.NewStyle().Bold(true).Foreground(ui.Highlight).MarginLeft(2)
		return loading.Render("Loading tickets... ") + m.spinner.View()
	}

	var mainView string
	if m.showDetail {
		mainView = m.viewDetail()
	} else {
		mainView = m.viewList()
	}

	help := m.helpLine()
	statusLine := ""
	if m.status != "" {
		style := ui.StatusStyle
		if m.isError {
			style = ui.ErrorStyle
		}
		statusLine = style.Render(shared.Truncate(m.status, m.width-2))
	}

	paddingHeight := m.height - lipgloss.Height(mainView) - 3
	if paddingHeight < 0 {
		paddingHeight = 0
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		strings.Repeat("\n", paddingHeight),
		statusLine,
		ui.HelpStyle.Render(help),
	)
}

func (m TicketsModel) viewList() string {
	title := ui.TitleStyle.Render("Zammad Tickets")
	if rec, ok := m.trk.Active(); ok {
		clock := tracker.FormatClock(m.trk.Elapsed())
		title += "  " + ui.RecordingStyle.Render(fmt.Sprintf("● #%d %s", rec.Ticket.ID, clock))
	}
	title = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title)

	if len(m.tickets) == 0 {
		empty := ui.HelpStyle.Render("No open tickets found for the current user.")
		return lipgloss.JoinVertical(lipgloss.Left, title, "", empty)
	}

	selectedStyle := lipgloss.NewStyle().Foreground(ui.Highlight).Bold(true)
	rowStyle := lipgloss.NewStyle()

	var rows []string
	end := min(m.offset+m.visibleRows(), len(m.tickets))
	for i := m.offset; i < end; i++ {
		t := m.tickets[i]
		marker := "  "
		style := rowStyle
		if i == m.cursor {
			marker = "> "
			style = selectedStyle
		}
		if rec, ok := m.trk.Active(); ok && rec.Ticket.ID == t.ID {
			marker = ui.RecordingStyle.Render("● ")
		}
		org := t.OrganizationName
		if org != "" {
			org = "  [" + org + "]"
		}
		line := fmt.Sprintf("%s#%s  %s%s", marker, t.Number, shared.Truncate(t.Title, m.width-20), org)
		rows = append(rows, style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, "", lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m TicketsModel) viewDetail() string {
	panel := ui.PanelStyle.Width(m.width - 2)
	header := ui.TitleStyle.Render(m.detailTicket.String())
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.detailViewport.View()))
}

func (m TicketsModel) helpLine() string {
	if m.confirmSwitch != nil {
		return "[y] stop and switch    [n] keep current recording"
	}
	if m.showDetail {
		return "[↑ ↓] scroll    [esc] back"
	}
	help := "[↑ ↓] navigate    [enter] details    [r] refresh    [?] settings    [q] quit"
	if _, ok := m.selected(); ok {
		help = "[↑ ↓] navigate    [enter] details    [b] branch    [o] open    [s] record    [t] time entries    [r] refresh    [q] quit"
		if _, recording := m.trk.Active(); recording {
			help = strings.Replace(help, "[s] record", "[s] stop recording", 1)
		}
	}
	return help
}
