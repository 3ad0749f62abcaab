package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webled/webled/internal/client"
)

// DefaultRefreshInterval is how often the panel polls the device for its
// LED state when no command is in flight.
const DefaultRefreshInterval = 2 * time.Second

// panelState tracks the panel's connection lifecycle
type panelState int

const (
	stateConnecting panelState = iota
	statePassword
	stateReady
	stateFailed
)

// Messages for async connection and command results
type connectedMsg struct {
	client *client.Client
	on     bool
}

type connectFailedMsg struct {
	err error
}

type ledStateMsg struct {
	on bool
}

type commandFailedMsg struct {
	err error
}

type refreshTickMsg struct{}

// panelKeyMap defines key bindings for the connected panel
type panelKeyMap struct {
	On      key.Binding
	Off     key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k panelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.On, k.Off, k.Toggle, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k panelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.On, k.Off, k.Toggle},
		{k.Refresh, k.Quit},
	}
}

// failedKeyMap defines key bindings for the failure screen
type failedKeyMap struct {
	Retry key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k failedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k failedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retry, k.Quit},
	}
}

// PanelModel is the interactive LED control panel. It dials the device's
// command port, authenticates, and then maps key presses to LED_ON, LED_OFF
// and STAT commands while polling the state in the background.
type PanelModel struct {
	// Connection parameters
	URL      string
	Password string

	// Session state
	state  panelState
	client *client.Client
	ledOn  bool
	busy   bool

	lastErr    error
	lastUpdate time.Time

	// UI state
	Width           int
	Height          int
	RefreshInterval time.Duration

	Spinner       spinner.Model
	PasswordInput textinput.Model
	Help          help.Model
	Keys          panelKeyMap
	FailedKeys    failedKeyMap
}

// NewPanelModel creates a panel for the given device URL. If password is
// empty, the panel prompts for one before connecting.
func NewPanelModel(url, password string, refresh time.Duration) PanelModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'
	passwordInput.CharLimit = 64
	passwordInput.Width = 30

	keys := panelKeyMap{
		On: key.NewBinding(
			key.WithKeys("o", "1"),
			key.WithHelp("o", "led on"),
		),
		Off: key.NewBinding(
			key.WithKeys("f", "0"),
			key.WithHelp("f", "led off"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t", " "),
			key.WithHelp("t/space", "toggle"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	failedKeys := failedKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reconnect"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}

	state := stateConnecting
	if password == "" {
		state = statePassword
		passwordInput.Focus()
	}

	return PanelModel{
		URL:             url,
		Password:        password,
		state:           state,
		RefreshInterval: refresh,
		Spinner:         s,
		PasswordInput:   passwordInput,
		Help:            help.New(),
		Keys:            keys,
		FailedKeys:      failedKeys,
	}
}

// Init starts the connection attempt (or waits for the password prompt)
func (m PanelModel) Init() tea.Cmd {
	if m.state == statePassword {
		return textinput.Blink
	}
	return tea.Batch(
		connectCmd(m.URL, m.Password),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case statePassword:
			return m.updatePasswordEntry(msg)
		case stateReady:
			return m.updateReady(msg)
		case stateFailed:
			return m.updateFailed(msg)
		}
		return m, nil

	case connectedMsg:
		m.state = stateReady
		m.client = msg.client
		m.ledOn = msg.on
		m.lastErr = nil
		m.lastUpdate = time.Now()
		return m, m.scheduleRefresh()

	case connectFailedMsg:
		if errors.Is(msg.err, client.ErrBadPassword) {
			m.state = statePassword
			m.lastErr = msg.err
			m.PasswordInput.SetValue("")
			m.PasswordInput.Focus()
			return m, textinput.Blink
		}
		m.state = stateFailed
		m.lastErr = msg.err
		return m, nil

	case ledStateMsg:
		m.busy = false
		m.ledOn = msg.on
		m.lastErr = nil
		m.lastUpdate = time.Now()
		return m, nil

	case commandFailedMsg:
		// The session is line-ordered, so a failed exchange means the
		// connection is no longer usable.
		m.busy = false
		m.state = stateFailed
		m.lastErr = msg.err
		m.closeClient()
		return m, nil

	case refreshTickMsg:
		if m.state != stateReady {
			return m, nil
		}
		if m.busy {
			return m, m.scheduleRefresh()
		}
		m.busy = true
		return m, tea.Batch(ledCmd(m.client.Stat), m.scheduleRefresh())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if m.state == statePassword {
		var cmd tea.Cmd
		m.PasswordInput, cmd = m.PasswordInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updatePasswordEntry handles keyboard input on the password prompt
func (m PanelModel) updatePasswordEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "enter":
		m.Password = m.PasswordInput.Value()
		m.state = stateConnecting
		m.lastErr = nil
		m.PasswordInput.Blur()
		return m, tea.Batch(
			connectCmd(m.URL, m.Password),
			m.Spinner.Tick,
		)
	}

	var cmd tea.Cmd
	m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	return m, cmd
}

// updateReady handles keyboard input while connected
func (m PanelModel) updateReady(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.On):
		return m.issue(m.client.On)

	case key.Matches(msg, m.Keys.Off):
		return m.issue(m.client.Off)

	case key.Matches(msg, m.Keys.Toggle):
		if m.ledOn {
			return m.issue(m.client.Off)
		}
		return m.issue(m.client.On)

	case key.Matches(msg, m.Keys.Refresh):
		return m.issue(m.client.Stat)
	}

	return m, nil
}

// updateFailed handles keyboard input on the failure screen
func (m PanelModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.FailedKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.FailedKeys.Retry):
		m.state = stateConnecting
		m.lastErr = nil
		return m, tea.Batch(
			connectCmd(m.URL, m.Password),
			m.Spinner.Tick,
		)
	}

	return m, nil
}

// issue runs a single client command. The client carries one line-ordered
// session, so only one command may be in flight at a time.
func (m PanelModel) issue(op func() (bool, error)) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	return m, ledCmd(op)
}

// scheduleRefresh arms the next background STAT poll
func (m PanelModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// closeClient releases the device session, if any
func (m *PanelModel) closeClient() {
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
}

// Close shuts down the device session once the program has exited
func (m PanelModel) Close() {
	m.closeClient()
}

// View renders the panel for the current state
func (m PanelModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}

	switch m.state {
	case stateConnecting:
		return m.viewConnecting()
	case statePassword:
		return m.viewPassword()
	case stateFailed:
		return m.viewFailed(width)
	default:
		return m.viewReady(width)
	}
}

// viewConnecting renders the spinner while the dial is in flight
func (m PanelModel) viewConnecting() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Connecting to %s...\n", m.Spinner.View(), m.URL))
	return b.String()
}

// viewPassword renders the password prompt
func (m PanelModel) viewPassword() string {
	var b strings.Builder

	b.WriteString(RenderTitle("  WEBLED CONTROL PANEL"))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("  " + m.URL))
	b.WriteString("\n\n")

	if m.lastErr != nil {
		b.WriteString("  ")
		b.WriteString(RenderError("access denied, try again"))
		b.WriteString("\n\n")
	}

	b.WriteString("  Password: ")
	b.WriteString(m.PasswordInput.View())
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("  enter connect • esc quit"))
	b.WriteString("\n")

	return b.String()
}

// viewReady renders the lamp and device details
func (m PanelModel) viewReady(width int) string {
	var b strings.Builder

	lamp := renderLamp(m.ledOn)
	if m.busy {
		lamp += SubtitleStyle.Render("  (updating...)")
	}

	details := lipgloss.JoinVertical(lipgloss.Left,
		StatusKeyStyle.Render("Device:")+" "+StatusValueStyle.Render(m.URL),
		StatusKeyStyle.Render("Updated:")+" "+StatusValueStyle.Render(m.lastUpdate.Format("15:04:05")),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("WEBLED CONTROL PANEL"),
		lamp,
		"",
		details,
	)

	b.WriteString(PanelBoxStyle(width).Render(content))
	b.WriteString("\n")
	b.WriteString(m.Help.View(m.Keys))
	b.WriteString("\n")

	return b.String()
}

// viewFailed renders the connection failure screen
func (m PanelModel) viewFailed(width int) string {
	var b strings.Builder

	msg := "connection failed"
	if m.lastErr != nil {
		msg = m.lastErr.Error()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		ErrorMessageStyle.Render(FailureMarker+"  CONNECTION LOST"),
		"",
		StatusKeyStyle.Render("Device:")+" "+StatusValueStyle.Render(m.URL),
		StatusKeyStyle.Render("Error:")+" "+ErrorMessageStyle.Render(msg),
	)

	b.WriteString(ErrorBoxStyle(width).Render(content))
	b.WriteString("\n")
	b.WriteString(m.Help.View(m.FailedKeys))
	b.WriteString("\n")

	return b.String()
}

// renderLamp renders the LED indicator line
func renderLamp(on bool) string {
	if on {
		return LampOnStyle.Render("  ⬤  LED ON")
	}
	return LampOffStyle.Render("  ◯  LED OFF")
}

// connectCmd dials the device and reads the initial LED state
func connectCmd(url, password string) tea.Cmd {
	return func() tea.Msg {
		c, err := client.Dial(client.Options{
			URL:      url,
			Password: password,
		})
		if err != nil {
			return connectFailedMsg{err: err}
		}

		on, err := c.Stat()
		if err != nil {
			c.Close()
			return connectFailedMsg{err: err}
		}

		return connectedMsg{client: c, on: on}
	}
}

// ledCmd runs one command against the device session
func ledCmd(op func() (bool, error)) tea.Cmd {
	return func() tea.Msg {
		on, err := op()
		if err != nil {
			return commandFailedMsg{err: err}
		}
		return ledStateMsg{on: on}
	}
}
