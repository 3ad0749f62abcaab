// Package ui provides terminal UI components for the webled-ctl CLI.
//
// This package uses Bubble Tea and Lipgloss for two output patterns:
//
//   - Printer: styled "run once and exit" output for the one-shot
//     commands (stat, on, off, discover)
//   - Panel application: an interactive control panel that holds a
//     command session open and maps key presses to device commands
//
// # Panel Application
//
// The panel application is started with Run and is made of two screens.
// The picker scans the local network for announced devices and lets the
// user choose one (or type an address manually). The panel then dials
// the chosen device's command endpoint, runs the login exchange, and
// shows the LED state, polling it in the background so changes made by
// other clients show up too.
//
// Example:
//
//	err := ui.Run(ui.Options{
//	    URL:      "ws://192.168.4.1:8080",
//	    Password: "secret",
//	})
//
// When Options.URL is empty the app opens on the discovery screen
// instead. When Options.Password is empty the panel prompts for it.
//
// # Logging Integration
//
// The interactive panel owns the terminal while it runs, so commands
// that start it should leave the log level at its default silent
// setting. Set WEBLED_LOG_LEVEL to "debug", "info", "warn", or "error"
// to force logging output.
package ui
