package preview

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/dashpanel/internal/logging"
	"github.com/muurk/dashpanel/internal/version"
)

const (
	// ServiceType is the mDNS service type the preview server registers
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultServiceName is used when no instance name is configured
	DefaultServiceName = "dashpanel"

	// previewTXTMarker identifies dashpanel instances among other HTTP services
	previewTXTMarker = "app=dashpanel"
)

// Endpoint is a preview server found on the local network.
type Endpoint struct {
	Instance string
	Host     string
	Port     int
	Path     string
}

// URL returns the websocket URL of the endpoint.
func (e Endpoint) URL() string {
	return fmt.Sprintf("ws://%s:%d%s", e.Host, e.Port, e.Path)
}

// Advertise registers a preview server listening on port over mDNS.
// Call Shutdown on the result to withdraw the announcement.
func Advertise(instance string, port int) (*zeroconf.Server, error) {
	if instance == "" {
		instance = DefaultServiceName
	}
	txt := []string{
		previewTXTMarker,
		"path=/ws",
		"version=" + version.Version,
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising preview server",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return server, nil
}

// Browse looks for advertised preview servers until timeout expires.
func Browse(ctx context.Context, timeout time.Duration) ([]Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var mu sync.Mutex
	endpoints := make([]Endpoint, 0)

	go func() {
		for entry := range entries {
			if ep, ok := parseServiceEntry(entry); ok {
				mu.Lock()
				endpoints = append(endpoints, ep)
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for preview servers: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	logging.Debug("mDNS browse complete", zap.Int("found", len(endpoints)))
	return slices.Clone(endpoints), nil
}

// parseServiceEntry keeps entries carrying the dashpanel TXT marker.
func parseServiceEntry(entry *zeroconf.ServiceEntry) (Endpoint, bool) {
	if entry == nil {
		return Endpoint{}, false
	}

	marked := false
	path := "/ws"
	for _, txt := range entry.Text {
		switch {
		case txt == previewTXTMarker:
			marked = true
		case strings.HasPrefix(txt, "path="):
			path = strings.TrimPrefix(txt, "path=")
		}
	}
	if !marked {
		return Endpoint{}, false
	}

	host := entry.HostName
	if len(entry.AddrIPv4) > 0 {
		host = entry.AddrIPv4[0].String()
	}
	return Endpoint{
		Instance: entry.Instance,
		Host:     host,
		Port:     entry.Port,
		Path:     path,
	}, true
}
