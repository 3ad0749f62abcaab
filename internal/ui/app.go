package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies the active screen in the panel application
type Screen string

const (
	ScreenPicker Screen = "picker"
	ScreenPanel  Screen = "panel"
)

// Options configures the interactive panel application.
type Options struct {
	// URL is the device command endpoint. When empty the app opens with
	// the discovery screen instead.
	URL string

	// Password is sent during the login exchange. When empty the panel
	// prompts for it.
	Password string

	// RefreshInterval is how often the panel polls the LED state.
	RefreshInterval time.Duration

	// ScanTimeout bounds each discovery scan.
	ScanTimeout time.Duration
}

// AppModel coordinates the discovery and panel screens
type AppModel struct {
	CurrentScreen Screen

	Picker PickerModel
	Panel  PanelModel

	opts Options

	Width  int
	Height int
}

// NewAppModel creates the application model. It starts on the panel when a
// device URL is already known, otherwise on the discovery screen.
func NewAppModel(opts Options) AppModel {
	model := AppModel{opts: opts}

	if opts.URL != "" {
		model.CurrentScreen = ScreenPanel
		model.Panel = NewPanelModel(opts.URL, opts.Password, opts.RefreshInterval)
	} else {
		model.CurrentScreen = ScreenPicker
		model.Picker = NewPickerModel(opts.ScanTimeout)
	}

	return model
}

// Init initializes the starting screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenPicker:
		return m.Picker.Init()
	default:
		return m.Panel.Init()
	}
}

// Update routes messages to the active screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Panel.Width = msg.Width
		m.Panel.Height = msg.Height
		// The picker resizes its embedded list, so route the message through
		if m.CurrentScreen == ScreenPicker {
			updated, cmd := m.Picker.Update(msg)
			m.Picker = updated.(PickerModel)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.CurrentScreen {
	case ScreenPicker:
		updated, cmd := m.Picker.Update(msg)
		m.Picker = updated.(PickerModel)

		// Open the panel once a device has been chosen
		if m.Picker.Selected {
			if device := m.Picker.SelectedDevice(); device != nil {
				m.CurrentScreen = ScreenPanel
				m.Panel = NewPanelModel(device.URL(), m.opts.Password, m.opts.RefreshInterval)
				m.Panel.Width = m.Width
				m.Panel.Height = m.Height
				return m, m.Panel.Init()
			}
		}
		return m, cmd

	default:
		updated, cmd := m.Panel.Update(msg)
		m.Panel = updated.(PanelModel)
		return m, cmd
	}
}

// View renders the active screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenPicker:
		return m.Picker.View()
	default:
		return m.Panel.View()
	}
}

// Run starts the interactive panel application and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return err
	}

	// Release the device session held by the panel, if any
	if app, ok := final.(AppModel); ok {
		app.Panel.Close()
	}
	return nil
}
