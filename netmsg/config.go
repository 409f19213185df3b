package netmsg

import (
	"crypto/tls"
	"time"
)

// Role defines the network topology role.
type Role uint8

const (
	RoleNone   Role = iota // Network disabled (local simulation only)
	RoleClient             // Connects to a server
	RoleServer             // Accepts connections and runs the authoritative simulation
)

// Config holds transport configuration.
type Config struct {
	Role Role

	// Address to bind (server) or connect to (client).
	Address string

	// TLS configuration (nil = plaintext, debug only).
	TLS *tls.Config

	MaxPeers int

	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	DisconnectTimeout time.Duration

	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	RecvQueueSize   int
}

// DefaultConfig returns production-safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Role:              RoleNone,
		Address:           ":7777",
		TLS:               nil,
		MaxPeers:          16,
		ConnectTimeout:    5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: 10 * time.Second,
		DisconnectTimeout: 30 * time.Second,
		ReadBufferSize:    64 * 1024,
		WriteBufferSize:   64 * 1024,
		SendQueueSize:     256,
		RecvQueueSize:     256,
	}
}

// DebugConfig returns config with TLS disabled for local testing.
func DebugConfig(role Role, addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role = role
	cfg.Address = addr
	cfg.TLS = nil
	return cfg
}
