package models

import (
	"net"
	"slices"
	"strconv"
	"time"
)

// DaemonInfo is what presenced publishes in ~/.nuvion-presence/daemon.yaml
// so the CLI and the launcher's webview can find its loopback API.
type DaemonInfo struct {
	Version      int       `yaml:"version"`
	Host         string    `yaml:"host"`
	Port         int       `yaml:"port"`
	PID          int       `yaml:"pid"`
	StartedAt    time.Time `yaml:"started_at"`
	BuildVersion string    `yaml:"build_version"`
	// Services lists the fully qualified gRPC services on Addr. The
	// webview reaches the same port over gRPC-Web.
	Services []string `yaml:"services"`
}

// NewDaemonInfo describes a daemon started now by this process.
func NewDaemonInfo(host string, port, pid int, buildVersion string, services ...string) *DaemonInfo {
	return &DaemonInfo{
		Version:      1,
		Host:         host,
		Port:         port,
		PID:          pid,
		StartedAt:    time.Now().UTC(),
		BuildVersion: buildVersion,
		Services:     services,
	}
}

// Addr returns the host:port to dial.
func (d *DaemonInfo) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// Serves reports whether the daemon advertises the named gRPC service.
// Files written before services were recorded advertise nothing.
func (d *DaemonInfo) Serves(service string) bool {
	return slices.Contains(d.Services, service)
}
