package discovery

import (
	"testing"
	"time"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Instance: "webled",
		Hostname: "bench-pi.local",
		IP:       "192.168.4.16",
		Port:     8080,
	}

	expected := `webled "webled" (bench-pi.local) at 192.168.4.16:8080`
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_URL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name: "default command port",
			device: &Device{
				IP:   "192.168.4.16",
				Port: 8080,
			},
			expected: "ws://192.168.4.16:8080",
		},
		{
			name: "custom port",
			device: &Device{
				IP:   "10.0.0.5",
				Port: 8266,
			},
			expected: "ws://10.0.0.5:8266",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.URL(); got != tt.expected {
				t.Errorf("Device.URL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_PanelURL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name: "http port from TXT record",
			device: &Device{
				IP:       "192.168.4.16",
				Metadata: map[string]string{"http": "8000"},
			},
			expected: "http://192.168.4.16:8000",
		},
		{
			name: "no http record falls back to default port",
			device: &Device{
				IP: "192.168.4.16",
			},
			expected: "http://192.168.4.16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.PanelURL(); got != tt.expected {
				t.Errorf("Device.PanelURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{
		Metadata: map[string]string{
			"path": "/",
			"http": "80",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "existing key",
			key:      "path",
			expected: "/",
		},
		{
			name:     "another existing key",
			key:      "http",
			expected: "80",
		},
		{
			name:     "non-existent key",
			key:      "missing",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := device.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Device.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestDevice_GetMetadata_NilMap(t *testing.T) {
	device := &Device{
		Metadata: nil,
	}

	if got := device.GetMetadata("anything"); got != "" {
		t.Errorf("Device.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestDevice_DiscoveredAt(t *testing.T) {
	now := time.Now()
	device := &Device{
		Instance:     "webled",
		DiscoveredAt: now,
	}

	if device.DiscoveredAt != now {
		t.Errorf("Device.DiscoveredAt = %v, want %v", device.DiscoveredAt, now)
	}
}
