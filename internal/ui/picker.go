package ui

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webled/webled/internal/discovery"
)

// Messages for async discovery
type scanStartMsg struct{}
type scanCompleteMsg struct {
	devices []*discovery.Device
	err     error
}

// pickerKeyMap defines key bindings for the device list
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for manual address entry
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel},
	}
}

// deviceItem wraps a Device for use with bubbles/list
type deviceItem struct {
	device *discovery.Device
}

// FilterValue lets the list filter by instance, IP or hostname
func (d deviceItem) FilterValue() string {
	return d.device.Instance + " " + d.device.IP + " " + d.device.Hostname
}

// Title returns the device name for list display
func (d deviceItem) Title() string {
	return d.device.Instance
}

// Description returns device details for list display
func (d deviceItem) Description() string {
	return fmt.Sprintf("%s:%d", d.device.IP, d.device.Port)
}

// deviceDelegate renders each discovered device as a bordered card
type deviceDelegate struct {
	width int
}

func (d deviceDelegate) Height() int { return 6 } // Card height including borders

func (d deviceDelegate) Spacing() int { return 1 }

func (d deviceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d deviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	di, ok := item.(deviceItem)
	if !ok {
		return
	}

	device := di.device
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedItemStyle.Render("→ " + device.Instance))
	} else {
		content.WriteString(ItemStyle.Render("  " + device.Instance))
	}
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("  Command:  %s\n", device.URL()))
	content.WriteString(fmt.Sprintf("  Panel:    %s", device.PanelURL()))

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		MarginLeft(2)

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}
	cardStyle = cardStyle.Width(cardWidth)

	if selected {
		cardStyle = cardStyle.BorderForeground(OnColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// PickerModel is the device discovery screen. It scans the local network
// for announced devices and lets the user pick one or type an address.
type PickerModel struct {
	// Discovery state
	Scanning    bool
	ScanTimeout time.Duration
	DeviceList  list.Model
	Selected    bool
	Err         error

	// Manual address entry state
	ManualMode bool
	AddrInput  textinput.Model

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          pickerKeyMap
	ManualKeys    manualKeyMap
}

// NewPickerModel creates a discovery screen model
func NewPickerModel(scanTimeout time.Duration) PickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	addrInput := textinput.New()
	addrInput.Placeholder = "192.168.4.1:8080"
	addrInput.CharLimit = 64
	addrInput.Width = 30

	delegate := deviceDelegate{width: MinTerminalWidth}
	deviceList := list.New([]list.Item{}, delegate, 0, 0)
	deviceList.Title = "Discovered Devices"
	deviceList.SetShowStatusBar(false)
	deviceList.SetFilteringEnabled(true)
	deviceList.Styles.Title = TitleStyle

	keys := pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "connect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	manualKeys := manualKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	if scanTimeout <= 0 {
		scanTimeout = discovery.DefaultScanTimeout
	}

	return PickerModel{
		ScanTimeout: scanTimeout,
		DeviceList:  deviceList,
		AddrInput:   addrInput,
		Spinner:     s,
		Help:        help.New(),
		Keys:        keys,
		ManualKeys:  manualKeys,
	}
}

// Init starts scanning immediately
func (m PickerModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanCmd(m.ScanTimeout),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DeviceList.SetWidth(msg.Width - 4)
		m.DeviceList.SetHeight(msg.Height - 8)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.devices))
		for i, dev := range msg.devices {
			items[i] = deviceItem{device: dev}
		}
		m.DeviceList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.ManualMode && !m.Scanning {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input in device list mode
func (m PickerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "enter", " ":
		if m.DeviceList.SelectedItem() != nil {
			m.Selected = true
			return m, nil
		}

	case "r":
		if !m.Scanning {
			m.DeviceList.SetItems([]list.Item{})
			m.Err = nil
			return m, tea.Batch(
				func() tea.Msg { return scanStartMsg{} },
				scanCmd(m.ScanTimeout),
				m.Spinner.Tick,
			)
		}

	case "m":
		m.ManualMode = true
		m.AddrInput.SetValue("")
		m.AddrInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	if !m.Scanning {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
	}
	return m, cmd
}

// updateManualMode handles keyboard input during manual address entry
func (m PickerModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ManualMode = false
		m.AddrInput.SetValue("")
		m.AddrInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.AddrInput.Value())
		if value != "" {
			device := manualDevice(value)
			items := append([]list.Item{deviceItem{device: device}}, m.DeviceList.Items()...)
			m.DeviceList.SetItems(items)
			m.DeviceList.Select(0)
			m.ManualMode = false
			m.AddrInput.SetValue("")
			m.AddrInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.AddrInput, cmd = m.AddrInput.Update(msg)
	return m, cmd
}

// manualDevice builds a Device from a typed "host" or "host:port" address
func manualDevice(addr string) *discovery.Device {
	host, portStr, err := net.SplitHostPort(addr)
	port := discovery.DefaultPort
	if err != nil {
		host = addr
	} else if p, perr := strconv.Atoi(portStr); perr == nil && p > 0 && p <= 65535 {
		port = p
	}

	return &discovery.Device{
		Instance:     "manual",
		Hostname:     host,
		IP:           host,
		Port:         port,
		DiscoveredAt: time.Now(),
	}
}

// View renders the discovery screen
func (m PickerModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}

	var content string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
	case m.Scanning:
		content = m.renderScanning(width)
	default:
		content = m.renderResults()
	}

	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(m.ManualKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return content + "\n" + helpText + "\n"
}

// renderScanning renders the scan progress display
func (m PickerModel) renderScanning(width int) string {
	elapsed := int(time.Since(m.ScanStartTime).Seconds())

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR DEVICES", m.Spinner.View())),
		"",
		SubtitleStyle.Render("Scanning your network for webled devices..."),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", elapsed)),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the device list or a "nothing found" message
func (m PickerModel) renderResults() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString("  ")
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the device is powered on\n")
		b.WriteString("    • Check you are on the same network as the device\n")
		b.WriteString("    • Try 'm' to enter the address manually\n")

	} else if len(m.DeviceList.Items()) == 0 {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warningStyle.Render("⚠ No devices found on your network"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the device is powered on\n")
		b.WriteString("    • Check the server was started with discovery enabled\n")
		b.WriteString("    • Try 'r' to rescan or 'm' to enter the address manually\n")

	} else {
		b.WriteString(m.DeviceList.View())
	}

	return b.String()
}

// renderManualEntry renders the manual address dialog
func (m PickerModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Enter device address (host or host:port)"))
	b.WriteString("\n\n")
	b.WriteString("  Address: ")
	b.WriteString(m.AddrInput.View())
	b.WriteString("\n")

	return b.String()
}

// SelectedDevice returns the chosen device, if any
func (m PickerModel) SelectedDevice() *discovery.Device {
	if !m.Selected {
		return nil
	}
	if item, ok := m.DeviceList.SelectedItem().(deviceItem); ok {
		return item.device
	}
	return nil
}

// scanCmd performs one mDNS scan as a background command
func scanCmd(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		scanner := discovery.NewScanner()
		scanner.Timeout = timeout

		devices, err := scanner.ScanForDevices()
		return scanCompleteMsg{devices: devices, err: err}
	}
}
