package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ui "github.com/dp-coding/zammad-tui/internal/ui/styles"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

// SettingsSavedMsg tells the app router that the credentials were persisted
// and the ticket view can take over.
type SettingsSavedMsg struct{}

// CloseSettingsMsg tells the app router the user backed out without saving.
type CloseSettingsMsg struct{}

type SettingsModel struct {
	svc *zammad.Service

	inputs     []textinput.Model
	focusIndex int
	width      int
	height     int
	status     string
}

func NewSettingsModel(svc *zammad.Service) SettingsModel {
	url := textinput.New()
	url.Placeholder = "https://your-instance.zammad.com"
	url.SetValue(svc.BaseURL())
	url.Focus()
	url.CharLimit = 200
	url.Width = 48

	token := textinput.New()
	token.Placeholder = "API token"
	token.EchoMode = textinput.EchoPassword
	token.CharLimit = 200
	token.Width = 48

	return SettingsModel{
		svc:    svc,
		inputs: []textinput.Model{url, token},
	}
}

func (m SettingsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.svc.IsConfigured() {
				return m, func() tea.Msg { return CloseSettingsMsg{} }
			}
			return m, nil
		case "enter":
			if m.focusIndex == len(m.inputs)-1 {
				return m.save()
			}
			return m.moveFocus(1)
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m SettingsModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.focusIndex = (m.focusIndex + delta + len(m.inputs)) % len(m.inputs)
	var cmds []tea.Cmd
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds = append(cmds, m.inputs[i].Focus())
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m SettingsModel) save() (tea.Model, tea.Cmd) {
	url := strings.TrimSpace(m.inputs[0].Value())
	token := strings.TrimSpace(m.inputs[1].Value())
	if url == "" || token == "" {
		m.status = "Both the Zammad URL and the API token are required."
		return m, nil
	}
	if err := m.svc.Initialize(url, token); err != nil {
		m.status = "Failed to save settings: " + err.Error()
		return m, nil
	}
	return m, func() tea.Msg { return SettingsSavedMsg{} }
}

func (m SettingsModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := ui.TitleStyle.Render("Zammad Settings")

	labelWidth := 12
	urlLabel := ui.SubtitleStyle.Width(labelWidth).Render("URL:")
	tokenLabel := ui.SubtitleStyle.Width(labelWidth).Render("API token:")

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left, urlLabel, m.inputs[0].View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Left, tokenLabel, m.inputs[1].View()),
	)
	formBox := ui.PanelStyle.Render(form)

	lines := []string{title, "", formBox}
	if m.status != "" {
		lines = append(lines, "", ui.ErrorStyle.Render(m.status))
	}
	lines = append(lines, "", ui.HelpStyle.Render("Tab to switch fields • Enter on the token field saves • Esc to go back"))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
}
