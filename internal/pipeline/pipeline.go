// Package pipeline implements the request handling state machine: given
// one decoded query, decide whether to answer from cache, answer
// authoritatively from a local zone, drop it silently as blocked, fail it
// outright, or hand it to the resolver.
package pipeline

import (
	"errors"
	"log/slog"
	"time"

	"dnsresolver/internal/blocklist"
	"dnsresolver/internal/cache"
	"dnsresolver/internal/zone"
	"dnsresolver/pkg/dns"
)

// Resolver is satisfied by internal/resolver.Resolver; declared here so
// this package doesn't import concrete resolver internals it doesn't
// need.
type Resolver interface {
	Resolve(name string, qtype dns.QType) (*dns.Message, error)
}

// Pipeline holds the collaborators a query is routed through. Handle
// consults them in the order cache, blocklist, zones, resolver.
type Pipeline struct {
	Cache     *cache.Cache
	Zones     *zone.Store
	Blocklist *blocklist.List
	Resolver  Resolver
	Logger    *slog.Logger
}

// New returns a Pipeline wired to the given collaborators.
func New(c *cache.Cache, zones *zone.Store, bl *blocklist.List, r Resolver, logger *slog.Logger) *Pipeline {
	return &Pipeline{Cache: c, Zones: zones, Blocklist: bl, Resolver: r, Logger: logger}
}

// Handle decides how to answer request, returning the response message to
// send back, or (nil, false) if the query must be dropped with no
// response at all (the blocklist case).
func (p *Pipeline) Handle(request *dns.Message) (*dns.Message, bool) {
	if request.Header.Opcode != dns.OpcodeQuery {
		return p.errorResponse(request, &dns.NotImplementedError{Reason: "only standard queries are supported"}), true
	}
	if len(request.Question) != 1 {
		return p.errorResponse(request, &dns.NotImplementedError{Reason: "exactly one question is required"}), true
	}

	question := request.Question[0]

	if rr, ok := p.Cache.Get(cache.Key{Owner: question.Name, Type: question.Type, Class: question.Class}); ok {
		return p.answer(request, []dns.ResourceRecord{rr}, false), true
	}

	if dns.LabelCount(question.Name) < 2 {
		return p.errorResponse(request, &dns.NameError{Reason: "query name has fewer than two labels"}), true
	}

	if p.Blocklist.Blocked(question.Name) {
		p.Logger.Debug("dropping blocked query", "name", question.Name)
		return nil, false
	}

	if records, ok := p.Zones.Lookup(question.Name, question.Type); ok {
		return p.answer(request, records, true), true
	}

	resolved, err := p.Resolver.Resolve(question.Name, question.Type)
	if err != nil {
		return p.errorResponse(request, err), true
	}

	for _, rr := range resolved.Answer {
		key := cache.Key{Owner: rr.Name, Type: rr.Type, Class: rr.Class}
		p.Cache.Set(key, rr, time.Duration(rr.TTL)*time.Second)
	}

	resolved.Header.ID = request.Header.ID
	return resolved, true
}

// answer builds a successful response carrying the request's transaction
// ID and question, with answers set and the authoritative bit set only
// when the answer came from a locally-configured zone.
func (p *Pipeline) answer(request *dns.Message, answers []dns.ResourceRecord, authoritative bool) *dns.Message {
	return &dns.Message{
		Header: dns.Header{
			ID:                 request.Header.ID,
			Response:           true,
			Opcode:             dns.OpcodeQuery,
			Authoritative:      authoritative,
			RecursionDesired:   request.Header.RecursionDesired,
			RecursionAvailable: true,
			RCode:              dns.RCodeNoError,
		},
		Question: request.Question,
		Answer:   answers,
	}
}

// errorResponse builds a response that carries no answers and the RCODE
// of err, preserving the request's transaction ID.
func (p *Pipeline) errorResponse(request *dns.Message, err error) *dns.Message {
	rcode := dns.RCodeServerError
	var coded dns.CodedError
	if errors.As(err, &coded) {
		rcode = coded.RCode()
	}
	p.Logger.Debug("failing query", "error", err, "rcode", rcode)
	return &dns.Message{
		Header: dns.Header{
			ID:                 request.Header.ID,
			Response:           true,
			Opcode:             request.Header.Opcode,
			RecursionDesired:   request.Header.RecursionDesired,
			RecursionAvailable: true,
			RCode:              rcode,
		},
		Question: request.Question,
	}
}
