// Package config provides configuration management for the webled server.
//
// This package manages a YAML-based settings file that controls the two served
// ports, the session password, protocol limits and timeouts, and discovery
// behavior. The configuration follows OS-specific conventions for storage
// location, and every field can be overridden by command-line flags.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/webled/config.yaml or $HOME/.config/webled/config.yaml
//   - macOS: $HOME/.config/webled/config.yaml
//   - Windows: %LOCALAPPDATA%\webled\config.yaml
//
// # Usage Example
//
//	// Load settings (missing file yields defaults)
//	settings, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Adjust and persist atomically
//	settings.Server.WSPort = 8266
//	if err := settings.Save(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// File operations are protected by a mutex to ensure atomic writes.
package config
