// Package resolver implements iterative DNS resolution: starting from a
// root hint, it walks NS/glue delegations until an answer or a terminal
// failure is reached.
package resolver

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"dnsresolver/pkg/client"
	"dnsresolver/pkg/dns"
)

// Resolver walks the delegation chain for a question, starting from a
// configured root-hint server, with a bounded number of hops and a
// per-hop receive timeout.
type Resolver struct {
	client   *client.Client
	rootHint string
	maxDepth int
	gluePort string // port dialed at a glue address; New sets it to "53"
	logger   *slog.Logger
}

// New returns a Resolver seeded from rootHint ("host:port"), bounding
// delegation depth at maxDepth and each hop's receive wait at hopTimeout.
func New(rootHint string, maxDepth int, hopTimeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:   client.New(hopTimeout),
		rootHint: rootHint,
		maxDepth: maxDepth,
		gluePort: "53",
		logger:   logger,
	}
}

// Resolve walks delegations for (name, qtype) and returns the terminal
// response message. It never performs sideband resolution of NS names
// that lack glue: a missing glue record, a hop timeout, or exceeding the
// depth bound all fail with *dns.ServerError.
func (r *Resolver) Resolve(name string, qtype dns.QType) (*dns.Message, error) {
	server := r.rootHint

	for hop := 0; hop < r.maxDepth; hop++ {
		r.logger.Debug("resolver hop", "hop", hop, "server", server, "name", name, "type", qtype)

		resp, err := r.client.Query(server, name, qtype, false)
		if err != nil {
			return nil, &dns.ServerError{Reason: fmt.Sprintf("hop %d to %s: %v", hop, server, err)}
		}

		if matchesQuestion(resp, name, qtype) {
			return resp, nil
		}

		next, ok := nextServer(resp, r.gluePort)
		if !ok {
			return nil, &dns.ServerError{Reason: fmt.Sprintf("hop %d: no glue found for any delegation at %s", hop, server)}
		}
		server = next
	}

	return nil, &dns.ServerError{Reason: fmt.Sprintf("recursion depth exceeded %d hops", r.maxDepth)}
}

// matchesQuestion reports whether resp carries at least one answer record
// for the original question — the terminal condition for resolution.
func matchesQuestion(resp *dns.Message, name string, qtype dns.QType) bool {
	for _, rr := range resp.Answer {
		if rr.Name == name && rr.Type == qtype {
			return true
		}
	}
	return false
}

// nextServer scans resp's authority section for NS records and its
// additional section for a matching A/AAAA glue record, returning the
// first "host:port" it can build from a glue address and port.
func nextServer(resp *dns.Message, port string) (string, bool) {
	nsOwners := make(map[string]bool, len(resp.Authority))
	for _, rr := range resp.Authority {
		if rr.Type == dns.TypeNS {
			if ns, ok := rr.RData.(*dns.NSData); ok {
				nsOwners[ns.Target] = true
			}
		}
	}
	if len(nsOwners) == 0 {
		return "", false
	}

	for _, rr := range resp.Additional {
		if !nsOwners[rr.Name] {
			continue
		}
		switch rdata := rr.RData.(type) {
		case *dns.AData:
			return net.JoinHostPort(rdata.Address.String(), port), true
		case *dns.AAAAData:
			return net.JoinHostPort(rdata.Address.String(), port), true
		}
	}
	return "", false
}
