// Package zeroconf registers the signage agent as an mDNS/DNS-SD service so
// fleet tooling can discover devices on the LAN without static inventory.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"
)

// Service manages mDNS service registration.
type Service struct {
	name string // instance name / hostname
	port int
	txt  []string
}

// New creates a zeroconf Service advertising on the given port. name should
// be the hostname; txt carries device metadata (name, room, version).
func New(name string, port int, txt []string) *Service {
	return &Service{name: name, port: port, txt: txt}
}

// Start registers the mDNS service and blocks until ctx is cancelled, at
// which point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	server, err := zeroconf.Register(
		s.name,       // instance name
		"_http._tcp", // service type
		"local.",     // domain
		s.port,       // port
		s.txt,        // TXT records
		nil,          // ifaces — nil means all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	slog.Info("zeroconf: registered mDNS service", "name", s.name, "port", s.port, "txt", s.txt)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}
