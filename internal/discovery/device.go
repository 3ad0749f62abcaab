package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered webled endpoint on the network
type Device struct {
	// Instance is the mDNS instance name (e.g., "webled")
	Instance string

	// Hostname is the mDNS hostname (e.g., "bench-pi.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.4.16")
	IP string

	// Port is the command port the device listens on
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "path=/", "http=80"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("webled %q (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// URL returns the WebSocket URL for the device command port
func (d *Device) URL() string {
	return fmt.Sprintf("ws://%s:%d", d.IP, d.Port)
}

// PanelURL returns the HTTP URL of the control panel, using the "http" TXT
// record when the device advertises one
func (d *Device) PanelURL() string {
	if port := d.GetMetadata("http"); port != "" {
		return fmt.Sprintf("http://%s:%s", d.IP, port)
	}
	return fmt.Sprintf("http://%s", d.IP)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
