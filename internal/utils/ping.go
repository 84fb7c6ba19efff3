package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// PubChemPingTimeout bounds the health probe of the compound lookup service.
const PubChemPingTimeout = 1500 * time.Millisecond

// PingService checks that a TCP connection can be opened to the host of
// serviceURL. The port defaults from the scheme.
func PingService(ctx context.Context, serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	host := parsedURL.Hostname()
	if host == "" {
		return fmt.Errorf("invalid URL %q: missing host", serviceURL)
	}

	port := parsedURL.Port()
	if port == "" {
		port = "80"
		if parsedURL.Scheme == "https" {
			port = "443"
		}
	}
	address := net.JoinHostPort(host, port)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}
