// Package discovery provides mDNS-based discovery of webled servers.
//
// This package implements multicast DNS (mDNS) service discovery so clients
// can locate webled servers on the local network without configuration.
// Servers advertise themselves using the "_webled._tcp" service type, and
// the same package carries both sides: Announcer for servers and Scanner
// for clients.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for "_webled._tcp" service advertisements
//  3. Collects endpoint information (instance, hostname, IP, command port)
//  4. Returns a list of discovered devices after the timeout period
//
// # Usage Example
//
//	// Discover servers with 10-second timeout
//	devices, err := discovery.ScanForDevices(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Print discovered servers
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s\n", device.Instance, device.URL())
//	}
//
// # Advertising
//
// A server announces itself with an Announcer:
//
//	ann := discovery.NewAnnouncer("webled", 8080, 80)
//	if err := ann.Register(); err != nil {
//	    log.Fatal(err)
//	}
//	defer ann.Shutdown()
//
// The service port in the advertisement is the WebSocket command port; the
// HTTP panel port travels in the "http" TXT record.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// Scanners are safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference. An Announcer must be registered and
// shut down from a single goroutine.
package discovery
