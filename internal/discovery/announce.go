package discovery

import (
	"fmt"
	"strconv"

	"github.com/grandcat/zeroconf"
)

// Announcer advertises a webled server over mDNS so clients can find it
// without knowing its address. The service port is the command port; the
// HTTP panel port travels in a TXT record.
type Announcer struct {
	// Instance is the mDNS instance name to advertise under
	Instance string

	// Port is the WebSocket command port
	Port int

	// HTTPPort is the control panel port, 0 to omit it from TXT records
	HTTPPort int

	server *zeroconf.Server
}

// NewAnnouncer creates an announcer for the given instance and ports
func NewAnnouncer(instance string, port, httpPort int) *Announcer {
	return &Announcer{
		Instance: instance,
		Port:     port,
		HTTPPort: httpPort,
	}
}

// txtRecords builds the TXT payload for the advertisement
func (a *Announcer) txtRecords() []string {
	records := []string{"path=/"}
	if a.HTTPPort > 0 {
		records = append(records, "http="+strconv.Itoa(a.HTTPPort))
	}
	return records
}

// Register starts advertising the service. The advertisement stays active
// until Shutdown is called.
func (a *Announcer) Register() error {
	if a.server != nil {
		return fmt.Errorf("announcer already registered")
	}
	if a.Instance == "" {
		return fmt.Errorf("announcer requires an instance name")
	}
	if a.Port < 1 || a.Port > 65535 {
		return fmt.Errorf("invalid announce port: %d", a.Port)
	}

	server, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.txtRecords(), nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server
	return nil
}

// Shutdown stops the advertisement. Safe to call when Register never ran.
func (a *Announcer) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
