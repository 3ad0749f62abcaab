package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/webled/webled/internal/client"
	"github.com/webled/webled/internal/discovery"
	"github.com/webled/webled/internal/ui"
)

// Command flags
var (
	deviceURL   string
	password    string
	scanTimeout int
	watchEvery  int
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceURL, "url", "", "Device command endpoint, e.g. ws://192.168.4.1:8080 (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Session password")

	// Add subcommands directly to root
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(tuiCmd)
}

// statCmd reads the LED state
var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Read the LED state",
	Long: `Connect to the device, authenticate, and send a single STAT command.

The device answers with its current LED state.`,
	Example: `  # Read state with auto-discovery
  webled-ctl stat

  # Read state from a specific device
  webled-ctl stat --url ws://192.168.4.1:8080 --password secret`,
	RunE: runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	return withSession(func(c *client.Client, p *ui.Printer) error {
		on, err := c.Stat()
		if err != nil {
			return fmt.Errorf("STAT failed: %w", err)
		}
		p.PrintState(on)
		return nil
	})
}

// onCmd turns the LED on
var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the LED on",
	Example: `  # Turn on with auto-discovery
  webled-ctl on

  # Turn on a specific device
  webled-ctl on --url ws://192.168.4.1:8080 --password secret`,
	RunE: runOn,
}

func runOn(cmd *cobra.Command, args []string) error {
	return withSession(func(c *client.Client, p *ui.Printer) error {
		on, err := c.On()
		if err != nil {
			return fmt.Errorf("LED_ON failed: %w", err)
		}
		p.PrintState(on)
		return nil
	})
}

// offCmd turns the LED off
var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the LED off",
	Example: `  # Turn off with auto-discovery
  webled-ctl off

  # Turn off a specific device
  webled-ctl off --url ws://192.168.4.1:8080 --password secret`,
	RunE: runOff,
}

func runOff(cmd *cobra.Command, args []string) error {
	return withSession(func(c *client.Client, p *ui.Printer) error {
		on, err := c.Off()
		if err != nil {
			return fmt.Errorf("LED_OFF failed: %w", err)
		}
		p.PrintState(on)
		return nil
	})
}

// rawCmd sends an arbitrary command line
var rawCmd = &cobra.Command{
	Use:   "raw <line>",
	Short: "Send a raw command line",
	Long: `Send one arbitrary line to the device and print the reply line.

Useful for exercising the device's command dispatcher directly. Lines the
device does not recognize come back as "UNKNOWN REQUEST: <line>".`,
	Example: `  # Equivalent of 'webled-ctl stat'
  webled-ctl raw STAT

  # See how the device answers an unknown command
  webled-ctl raw HELLO`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	return withSession(func(c *client.Client, p *ui.Printer) error {
		reply, err := c.Raw(args[0])
		if err != nil {
			return fmt.Errorf("command failed: %w", err)
		}
		p.Println(reply)
		return nil
	})
}

// watchCmd follows the LED state
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the LED state",
	Long: `Poll the device with STAT and print every state change.

The watcher holds one command session open and polls at the given
interval, so changes made by other clients or the browser panel show up
here. Stop with Ctrl-C.`,
	Example: `  # Watch with the default 2s poll interval
  webled-ctl watch

  # Poll faster
  webled-ctl watch --interval 1 --url ws://192.168.4.1:8080`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchEvery, "interval", 2, "Poll interval in seconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchEvery < 1 {
		return fmt.Errorf("invalid --interval: %d (must be at least 1)", watchEvery)
	}

	return withSession(func(c *client.Client, p *ui.Printer) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := c.Watch(ctx, time.Duration(watchEvery)*time.Second, func(on bool) {
			stamp := time.Now().Format("15:04:05")
			state := "OFF"
			if on {
				state = "ON"
			}
			p.Println(fmt.Sprintf("%s  LED %s", stamp, state))
		})

		// Ctrl-C is the normal way out
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}

// discoverCmd scans for devices on the network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan for webled devices on the network",
	Long: `Scan for webled devices using mDNS/DNS-SD discovery.

This command listens for _webled._tcp announcements and displays every
discovered device with its command endpoint and browser panel address.
Servers announce only when started with --announce.`,
	Example: `  # Scan for 10 seconds (default)
  webled-ctl discover

  # Quick 3-second scan
  webled-ctl discover --timeout 3`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for webled devices (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printer := ui.NewPrinter(nil)
	printer.PrintDeviceList(devices)

	if len(devices) == 0 {
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the server is running and was started with --announce")
		fmt.Println("  - Check that you are on the same network as the device")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --url to specify the endpoint manually if discovery fails")
		return nil
	}

	fmt.Println("Use 'webled-ctl stat --url <endpoint>' to read the LED state")
	fmt.Println("Use 'webled-ctl tui' for the interactive panel")

	return nil
}

// tuiCmd launches the interactive control panel
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive control panel",
	Long: `Launch an interactive terminal panel for the LED.

The panel shows the live LED state and maps key presses to device
commands. Without --url it first scans the network and lets you pick a
device; without --password it prompts before connecting.`,
	Example: `  # Launch with discovery
  webled-ctl tui
  # Or simply (the panel is the default):
  webled-ctl

  # Connect straight to a device
  webled-ctl tui --url ws://192.168.4.1:8080 --password secret`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := ui.Options{
		Password:    password,
		ScanTimeout: time.Duration(scanTimeout) * time.Second,
	}
	if deviceURL != "" {
		opts.URL = normalizeURL(deviceURL)
	}

	if err := ui.Run(opts); err != nil {
		return fmt.Errorf("panel error: %w", err)
	}
	return nil
}

// withSession resolves the device endpoint, dials it, runs fn, and closes
// the session afterwards.
func withSession(fn func(c *client.Client, p *ui.Printer) error) error {
	url, err := resolveURL()
	if err != nil {
		return err
	}

	c, err := client.Dial(client.Options{
		URL:      url,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, client.ErrBadPassword) {
			return fmt.Errorf("device at %s rejected the password (use --password)", url)
		}
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer c.Close()

	return fn(c, ui.NewPrinter(nil))
}

// resolveURL returns the command endpoint from --url, or discovers it
func resolveURL() (string, error) {
	if deviceURL != "" {
		return normalizeURL(deviceURL), nil
	}

	// Try discovery
	fmt.Println("No device URL specified, attempting auto-discovery...")
	devices, err := discovery.ScanForDevices(5 * time.Second)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		return "", fmt.Errorf("no devices found. Use --url to specify the endpoint manually")
	}

	if len(devices) > 1 {
		fmt.Printf("Found %d devices:\n", len(devices))
		for i, device := range devices {
			fmt.Printf("%d. %s (%s)\n", i+1, device.Instance, device.URL())
		}
		return "", fmt.Errorf("multiple devices found. Use --url to specify which one")
	}

	// Exactly one device found
	device := devices[0]
	fmt.Printf("Found device: %s (%s)\n\n", device.Instance, device.URL())
	return device.URL(), nil
}

// normalizeURL turns "host", "host:port" or a full URL into a ws:// URL
func normalizeURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	if _, _, err := net.SplitHostPort(raw); err == nil {
		return "ws://" + raw
	}
	return "ws://" + net.JoinHostPort(raw, strconv.Itoa(discovery.DefaultPort))
}
