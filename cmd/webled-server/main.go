// Webled-server is a network control plane for an LED peripheral.
//
// It runs two listeners: an HTTP/1.0 port that serves the browser control
// panel, and a WebSocket command port that speaks a password-gated,
// line-oriented protocol (STAT, LED_ON, LED_OFF). The WebSocket handshake
// and framing are implemented in this repository so the wire behavior is
// fully under its control.
//
// Usage:
//
//	webled-server serve [flags]
//
// See 'webled-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webled/webled/internal/config"
	"github.com/webled/webled/internal/device"
	"github.com/webled/webled/internal/server"
	"github.com/webled/webled/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "webled-server",
	Short: "Webled LED Control Server",
	Long: `A standalone server exposing an LED peripheral over the network.

The server accepts browser connections on the HTTP port (serving the
control panel page) and command connections on the WebSocket port. Command
sessions authenticate with a password and then exchange text lines: STAT,
LED_ON and LED_OFF each answer with the LED state.

Note: For controlling a running server from the terminal, use the separate
'webled-ctl' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	configPath   string
	host         string
	httpPort     int
	wsPort       int
	password     string
	wwwDir       string
	logLevel     string
	announce     bool
	instance     string
	singleClient bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LED control server",
	Long: `Start the webled server with both listeners.

Settings come from the configuration file (see 'webled-server config init'),
and any flag given on the command line overrides the file value. Without a
configuration file the built-in defaults are used: HTTP on port 80,
WebSocket commands on port 8080, an empty password, and the embedded
control panel page.

With --announce the command port is registered as a _webled._tcp mDNS
service so 'webled-ctl discover' can find it.`,
	Example: `  # Start with defaults (config file if present, else built-ins)
  webled-server serve

  # Development ports and verbose logging
  webled-server serve --http-port 8000 --ws-port 8080 --log-level debug

  # Protect sessions with a password and announce on the local network
  webled-server serve --password secret --announce

  # Serve the panel from a directory instead of the embedded bundle
  webled-server serve --www ./www`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: OS config directory)")
	serveCmd.Flags().StringVar(&host, "host", "", "Bind host (empty = all interfaces)")
	serveCmd.Flags().IntVar(&httpPort, "http-port", config.DefaultHTTPPort, "Static file port")
	serveCmd.Flags().IntVar(&wsPort, "ws-port", config.DefaultWSPort, "WebSocket command port")
	serveCmd.Flags().StringVar(&password, "password", "", "Session password (empty accepts an empty line)")
	serveCmd.Flags().StringVar(&wwwDir, "www", "", "Static file directory (empty serves the embedded panel)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&announce, "announce", false, "Announce the command port via mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", config.DefaultInstance, "mDNS instance name")
	serveCmd.Flags().BoolVar(&singleClient, "single-client", false, "Allow only one command session per client host")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags the user actually set override the file values
	flags := cmd.Flags()
	if flags.Changed("host") {
		settings.Server.Host = host
	}
	if flags.Changed("http-port") {
		settings.Server.HTTPPort = httpPort
	}
	if flags.Changed("ws-port") {
		settings.Server.WSPort = wsPort
	}
	if flags.Changed("password") {
		settings.Auth.Password = password
	}
	if flags.Changed("www") {
		settings.Server.WWWDir = wwwDir
	}
	if flags.Changed("log-level") {
		settings.LogLevel = logLevel
	}
	if flags.Changed("announce") {
		settings.Discovery.Announce = announce
	}
	if flags.Changed("instance") {
		settings.Discovery.Instance = instance
	}
	if flags.Changed("single-client") {
		settings.Server.SingleClientPerHost = singleClient
	}
	if settings.LogLevel == "" {
		settings.LogLevel = logLevel
	}

	if dir := settings.Server.WWWDir; dir != "" {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("www directory does not exist: %s", dir)
		}
		if err != nil {
			return fmt.Errorf("cannot access www directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("www path is not a directory: %s", dir)
		}
	}

	srv, err := server.New(settings, server.LEDHandler(device.NewLED()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Config commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the server configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Write a configuration file populated with the default settings.

The file is created at the OS configuration directory unless --config
points elsewhere. Fails if the file already exists.`,
	Example: `  # Create the default config file
  webled-server config init

  # Create it at a specific path
  webled-server config init --config ./webled.yaml`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: OS config directory)")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(configPath); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		resolved, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		path = resolved
	}

	fmt.Printf("Created config file: %s\n", path)
	return nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webled-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
