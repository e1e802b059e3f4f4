// Package client provides a minimal DNS client used both by the debug CLI
// tool and by the resolver's own outbound sub-queries: build a question,
// send it over UDP to a single server, and decode whatever comes back.
package client

import (
	"fmt"
	"math/rand"
	"net"
	"time"

	"dnsresolver/pkg/dns"
)

// Client sends one query at a time over UDP. Each call to Query opens its
// own socket via net.DialTimeout, so the kernel hands out a fresh
// ephemeral source port per outbound query rather than the client reusing
// one connection across lookups.
type Client struct {
	Timeout time.Duration
}

// New returns a Client with the given per-query timeout.
func New(timeout time.Duration) *Client {
	return &Client{Timeout: timeout}
}

// Query sends a single question of type qtype for domain to server
// ("host:port") and returns the decoded response. The response is
// rejected if its transaction ID doesn't match the query's.
func (c *Client) Query(server, domain string, qtype dns.QType, recursionDesired bool) (*dns.Message, error) {
	query := &dns.Message{
		Header: dns.Header{
			ID:               uint16(rand.Intn(65536)),
			Opcode:           dns.OpcodeQuery,
			RecursionDesired: recursionDesired,
		},
		Question: []dns.Question{{Name: domain, Type: qtype, Class: dns.ClassIN}},
	}

	queryBytes, err := query.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	conn, err := net.DialTimeout("udp", server, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", server, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(c.Timeout)); err != nil {
		return nil, fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := conn.Write(queryBytes); err != nil {
		return nil, fmt.Errorf("failed to write query: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.Timeout)); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}
	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", server, err)
	}

	response, err := dns.Decode(buf[:n])
	if err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", server, err)
	}
	if response.Header.ID != query.Header.ID {
		return nil, fmt.Errorf("response ID %d does not match query ID %d", response.Header.ID, query.Header.ID)
	}

	return response, nil
}
