// Package records builds dns.ResourceRecord values out of the plain
// strings and numbers the zone file loader decodes from YAML.
// It is the resource-type-aware counterpart to pkg/dns's wire codec: the
// codec knows how to serialize an already-built dns.RData, this package
// knows how to get from "a YAML mapping with a domain field" to one.
package records

import (
	"fmt"
	"net"

	"dnsresolver/pkg/dns"
)

// A builds an A resource record from an owner name and an IPv4 address
// string. It returns an error for anything net.ParseIP rejects or for an
// address that parses but isn't IPv4.
func A(owner string, class dns.QClass, ttl uint32, addr string) (dns.ResourceRecord, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return dns.ResourceRecord{}, fmt.Errorf("invalid IP address: %q", addr)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return dns.ResourceRecord{}, fmt.Errorf("not an IPv4 address: %q", addr)
	}
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeA,
		Class: class,
		TTL:   ttl,
		RData: &dns.AData{Address: ip4},
	}, nil
}

// AAAA builds an AAAA resource record from an owner name and an IPv6
// address string.
func AAAA(owner string, class dns.QClass, ttl uint32, addr string) (dns.ResourceRecord, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return dns.ResourceRecord{}, fmt.Errorf("invalid IP address: %q", addr)
	}
	if ip.To4() != nil {
		return dns.ResourceRecord{}, fmt.Errorf("not an IPv6 address: %q", addr)
	}
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeAAAA,
		Class: class,
		TTL:   ttl,
		RData: &dns.AAAAData{Address: ip.To16()},
	}, nil
}

// NS builds an NS resource record pointing at nameserver.
func NS(owner string, class dns.QClass, ttl uint32, nameserver string) dns.ResourceRecord {
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeNS,
		Class: class,
		TTL:   ttl,
		RData: &dns.NSData{Target: nameserver},
	}
}

// CNAME builds a CNAME resource record pointing at target.
func CNAME(owner string, class dns.QClass, ttl uint32, target string) dns.ResourceRecord {
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeCNAME,
		Class: class,
		TTL:   ttl,
		RData: &dns.CNAMEData{Target: target},
	}
}

// MX builds an MX resource record.
func MX(owner string, class dns.QClass, ttl uint32, preference uint16, exchange string) dns.ResourceRecord {
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeMX,
		Class: class,
		TTL:   ttl,
		RData: &dns.MXData{Preference: preference, Exchange: exchange},
	}
}

// SOAFields is the set of values a zone file supplies for an SOA record:
// PrimaryNS and ResponsibleEmail come from the document's fqdn and email
// fields, the five timers from the fields of the same names. The
// document's domain field has no counterpart here.
type SOAFields struct {
	PrimaryNS        string
	ResponsibleEmail string
	Serial           uint32
	Refresh          uint32
	Retry            uint32
	Expire           uint32
	Minimum          uint32
}

// SOA builds an SOA resource record.
func SOA(owner string, class dns.QClass, ttl uint32, f SOAFields) dns.ResourceRecord {
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeSOA,
		Class: class,
		TTL:   ttl,
		RData: &dns.SOAData{
			PrimaryNS:        f.PrimaryNS,
			ResponsibleEmail: f.ResponsibleEmail,
			Serial:           f.Serial,
			Refresh:          f.Refresh,
			Retry:            f.Retry,
			Expire:           f.Expire,
			Minimum:          f.Minimum,
		},
	}
}
