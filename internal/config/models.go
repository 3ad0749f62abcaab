package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Auth failure policies. On a wrong password the session either receives the
// password prompt again or is closed outright.
const (
	AuthFailurePrompt     = "prompt"
	AuthFailureDisconnect = "disconnect"
)

// Settings represents the entire server configuration file.
type Settings struct {
	Version   int               `yaml:"version"`
	Server    ServerSettings    `yaml:"server"`
	Auth      AuthSettings      `yaml:"auth"`
	Limits    LimitSettings     `yaml:"limits"`
	Discovery DiscoverySettings `yaml:"discovery"`
	LogLevel  string            `yaml:"log_level,omitempty"`
}

// ServerSettings controls the listeners and the static file source.
type ServerSettings struct {
	Host                string `yaml:"host,omitempty"`    // Bind host; empty binds all interfaces
	HTTPPort            int    `yaml:"http_port"`         // Static file port
	WSPort              int    `yaml:"ws_port"`           // WebSocket command port
	WWWDir              string `yaml:"www_dir,omitempty"` // Static file directory; empty serves the embedded bundle
	SingleClientPerHost bool   `yaml:"single_client_per_host"`
}

// AuthSettings controls the session password gate.
type AuthSettings struct {
	Password  string `yaml:"password"`   // Session password; empty password matches an empty line
	OnFailure string `yaml:"on_failure"` // "prompt" or "disconnect"
}

// LimitSettings bounds per-session buffers and connection timeouts.
// Timeouts are expressed in seconds.
type LimitSettings struct {
	MaxLineLength    int `yaml:"max_line_length"`
	MaxFramePayload  int `yaml:"max_frame_payload"`
	IdleReadSeconds  int `yaml:"idle_read_seconds"`
	WriteWaitSeconds int `yaml:"write_wait_seconds"`
}

// DiscoverySettings controls mDNS announcement of the command port.
type DiscoverySettings struct {
	Announce bool   `yaml:"announce"`
	Instance string `yaml:"instance,omitempty"` // Service instance name
}

// Default values. The line buffer and frame cap match the reference firmware.
const (
	DefaultHTTPPort         = 80
	DefaultWSPort           = 8080
	DefaultMaxLineLength    = 256
	DefaultMaxFramePayload  = 8192
	DefaultIdleReadSeconds  = 60
	DefaultWriteWaitSeconds = 10
	DefaultInstance         = "webled"
)

// NewSettings creates a Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Server: ServerSettings{
			HTTPPort: DefaultHTTPPort,
			WSPort:   DefaultWSPort,
		},
		Auth: AuthSettings{
			OnFailure: AuthFailurePrompt,
		},
		Limits: LimitSettings{
			MaxLineLength:    DefaultMaxLineLength,
			MaxFramePayload:  DefaultMaxFramePayload,
			IdleReadSeconds:  DefaultIdleReadSeconds,
			WriteWaitSeconds: DefaultWriteWaitSeconds,
		},
		Discovery: DiscoverySettings{
			Announce: false,
			Instance: DefaultInstance,
		},
	}
}

// fillDefaults replaces zero values with defaults after a partial file load.
func (s *Settings) fillDefaults() {
	if s.Server.HTTPPort == 0 {
		s.Server.HTTPPort = DefaultHTTPPort
	}
	if s.Server.WSPort == 0 {
		s.Server.WSPort = DefaultWSPort
	}
	if s.Auth.OnFailure == "" {
		s.Auth.OnFailure = AuthFailurePrompt
	}
	if s.Limits.MaxLineLength == 0 {
		s.Limits.MaxLineLength = DefaultMaxLineLength
	}
	if s.Limits.MaxFramePayload == 0 {
		s.Limits.MaxFramePayload = DefaultMaxFramePayload
	}
	if s.Limits.IdleReadSeconds == 0 {
		s.Limits.IdleReadSeconds = DefaultIdleReadSeconds
	}
	if s.Limits.WriteWaitSeconds == 0 {
		s.Limits.WriteWaitSeconds = DefaultWriteWaitSeconds
	}
	if s.Discovery.Instance == "" {
		s.Discovery.Instance = DefaultInstance
	}
}

// Validate checks that the settings are internally consistent. A port of
// zero is allowed and means an OS-assigned ephemeral port.
func (s *Settings) Validate() error {
	if s.Server.HTTPPort < 0 || s.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d (must be 0-65535)", s.Server.HTTPPort)
	}
	if s.Server.WSPort < 0 || s.Server.WSPort > 65535 {
		return fmt.Errorf("invalid ws_port: %d (must be 0-65535)", s.Server.WSPort)
	}
	if s.Server.HTTPPort != 0 && s.Server.HTTPPort == s.Server.WSPort {
		return fmt.Errorf("http_port and ws_port must differ (both %d)", s.Server.HTTPPort)
	}
	if s.Auth.OnFailure != AuthFailurePrompt && s.Auth.OnFailure != AuthFailureDisconnect {
		return fmt.Errorf("invalid auth on_failure: %q (must be %q or %q)",
			s.Auth.OnFailure, AuthFailurePrompt, AuthFailureDisconnect)
	}
	if s.Limits.MaxLineLength < 1 {
		return fmt.Errorf("invalid max_line_length: %d", s.Limits.MaxLineLength)
	}
	if s.Limits.MaxFramePayload < 1 {
		return fmt.Errorf("invalid max_frame_payload: %d", s.Limits.MaxFramePayload)
	}
	if s.Limits.IdleReadSeconds < 1 {
		return fmt.Errorf("invalid idle_read_seconds: %d", s.Limits.IdleReadSeconds)
	}
	if s.Limits.WriteWaitSeconds < 1 {
		return fmt.Errorf("invalid write_wait_seconds: %d", s.Limits.WriteWaitSeconds)
	}
	return nil
}

// HTTPAddr returns the listen address for the static file port.
func (s *ServerSettings) HTTPAddr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
}

// WSAddr returns the listen address for the WebSocket command port.
func (s *ServerSettings) WSAddr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.WSPort))
}

// IdleReadTimeout returns the idle read deadline as a duration.
func (l *LimitSettings) IdleReadTimeout() time.Duration {
	return time.Duration(l.IdleReadSeconds) * time.Second
}

// WriteTimeout returns the write deadline as a duration.
func (l *LimitSettings) WriteTimeout() time.Duration {
	return time.Duration(l.WriteWaitSeconds) * time.Second
}
