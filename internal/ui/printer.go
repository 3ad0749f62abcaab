package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/webled/webled/internal/discovery"
)

// Printer provides methods for printing styled command output to a writer.
// This is how the one-shot CLI commands render their results.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintState prints the LED state as a lamp line
func (p *Printer) PrintState(on bool) {
	p.Println(renderLamp(on))
}

// PrintSuccess prints a success line with a check marker
func (p *Printer) PrintSuccess(text string) {
	p.Println(RenderSuccess(text))
}

// PrintError prints an error box with optional troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	var lines []string

	lines = append(lines, ErrorMessageStyle.Render(FailureMarker+"  "+strings.ToUpper(title)))

	if err != nil {
		lines = append(lines, "")
		lines = append(lines, ErrorMessageStyle.Render("Error: "+err.Error()))
	}

	if len(troubleshooting) > 0 {
		lines = append(lines, "")
		lines = append(lines, SubtitleStyle.Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			lines = append(lines, SubtitleStyle.Render("  • "+tip))
		}
	}

	content := strings.Join(lines, "\n")
	p.Println(ErrorBoxStyle(p.width).Render(content))
}

// PrintDevice prints one discovered device with its endpoints
func (p *Printer) PrintDevice(device *discovery.Device) {
	name := SelectedItemStyle.Render(device.Instance)
	p.Println("  " + name)
	p.Println(StatusKeyStyle.Render("    Command:") + " " + StatusValueStyle.Render(device.URL()))
	p.Println(StatusKeyStyle.Render("    Panel:") + " " + StatusValueStyle.Render(device.PanelURL()))
}

// PrintDeviceList prints the results of a discovery scan
func (p *Printer) PrintDeviceList(devices []*discovery.Device) {
	if len(devices) == 0 {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		p.Println(warningStyle.Render("⚠ No devices found"))
		return
	}

	p.Println(TitleStyle.Render("Discovered devices"))
	for _, device := range devices {
		p.PrintDevice(device)
		p.Newline()
	}
}
