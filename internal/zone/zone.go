// Package zone loads locally-configured authoritative zones from YAML
// documents and serves exact-match lookups against them.
package zone

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dnsresolver/pkg/dns"
	"dnsresolver/pkg/records"
)

// Zone is an in-memory authoritative zone: a default TTL, an origin
// domain, and an ordered set of records loaded from one YAML document.
type Zone struct {
	DefaultTTL uint32
	Origin     string
	Records    []dns.ResourceRecord
}

// Store is the set of zones loaded at startup. Lookups are exact-match
// against the precomputed (owner, type) pairs; no wildcard or suffix
// matching is performed.
type Store struct {
	zones []Zone
}

// Load reads every YAML document in every file under dir and returns the
// resulting Store. A directory that doesn't exist is created empty and
// an empty Store is returned — this is not an error. Any parse error, or
// a zone with zero or more than one SOA record, is fatal.
func Load(dir string, logger *slog.Logger) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("failed to create zones directory %s: %w", dir, mkErr)
			}
			logger.Info("zones directory did not exist, created empty", "dir", dir)
			return &Store{}, nil
		}
		return nil, fmt.Errorf("failed to read zones directory %s: %w", dir, err)
	}

	store := &Store{}
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		zones, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load zone file %s: %w", path, err)
		}
		store.zones = append(store.zones, zones...)
	}

	logger.Info("loaded zones", "dir", dir, "count", len(store.zones))
	return store, nil
}

func loadFile(path string) ([]Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var zones []Zone
	dec := yaml.NewDecoder(f)
	for {
		var doc zoneDocument
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		z, err := doc.toZone()
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// zoneDocument is the 1:1 shape of a zone YAML document.
type zoneDocument struct {
	TTL     uint32        `yaml:"ttl"`
	Origin  string        `yaml:"origin"`
	Records []recordEntry `yaml:"records"`
}

type recordEntry struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Class string    `yaml:"class"`
	TTL   *uint32   `yaml:"ttl"`
	Data  yaml.Node `yaml:"data"`
}

type soaEntry struct {
	Domain  string `yaml:"domain"`
	FQDN    string `yaml:"fqdn"`
	Email   string `yaml:"email"`
	Serial  uint32 `yaml:"serial"`
	Refresh uint32 `yaml:"refresh"`
	Retry   uint32 `yaml:"retry"`
	Expire  uint32 `yaml:"expire"`
	Minimum uint32 `yaml:"minimum"`
}

type mxEntry struct {
	Preference uint16 `yaml:"preference"`
	Exchange   string `yaml:"exchange"`
}

func (doc zoneDocument) toZone() (Zone, error) {
	z := Zone{DefaultTTL: doc.TTL, Origin: doc.Origin}

	soaCount := 0
	for _, r := range doc.Records {
		owner := fqdn(r.Name, doc.Origin)
		ttl := doc.TTL
		if r.TTL != nil {
			ttl = *r.TTL
		}
		class := dns.ClassIN

		switch r.Type {
		case "A":
			var addr string
			if err := r.Data.Decode(&addr); err != nil {
				return Zone{}, fmt.Errorf("invalid A record data for %s: %w", owner, err)
			}
			rr, err := records.A(owner, class, ttl, addr)
			if err != nil {
				return Zone{}, fmt.Errorf("invalid A record for %s: %w", owner, err)
			}
			z.Records = append(z.Records, rr)

		case "AAAA":
			var addr string
			if err := r.Data.Decode(&addr); err != nil {
				return Zone{}, fmt.Errorf("invalid AAAA record data for %s: %w", owner, err)
			}
			rr, err := records.AAAA(owner, class, ttl, addr)
			if err != nil {
				return Zone{}, fmt.Errorf("invalid AAAA record for %s: %w", owner, err)
			}
			z.Records = append(z.Records, rr)

		case "NS":
			var target string
			if err := r.Data.Decode(&target); err != nil {
				return Zone{}, fmt.Errorf("invalid NS record data for %s: %w", owner, err)
			}
			z.Records = append(z.Records, records.NS(owner, class, ttl, target))

		case "CNAME":
			var target string
			if err := r.Data.Decode(&target); err != nil {
				return Zone{}, fmt.Errorf("invalid CNAME record data for %s: %w", owner, err)
			}
			z.Records = append(z.Records, records.CNAME(owner, class, ttl, target))

		case "MX":
			var mx mxEntry
			if err := r.Data.Decode(&mx); err != nil {
				return Zone{}, fmt.Errorf("invalid MX record data for %s: %w", owner, err)
			}
			z.Records = append(z.Records, records.MX(owner, class, ttl, mx.Preference, mx.Exchange))

		case "SOA":
			var soa soaEntry
			if err := r.Data.Decode(&soa); err != nil {
				return Zone{}, fmt.Errorf("invalid SOA record data for %s: %w", owner, err)
			}
			z.Records = append(z.Records, records.SOA(owner, class, ttl, records.SOAFields{
				PrimaryNS:        soa.FQDN,
				ResponsibleEmail: soa.Email,
				Serial:           soa.Serial,
				Refresh:          soa.Refresh,
				Retry:            soa.Retry,
				Expire:           soa.Expire,
				Minimum:          soa.Minimum,
			}))
			soaCount++

		default:
			return Zone{}, fmt.Errorf("unsupported record type %q for %s", r.Type, owner)
		}
	}

	if soaCount != 1 {
		return Zone{}, fmt.Errorf("zone %q must contain exactly one SOA record, found %d", doc.Origin, soaCount)
	}

	return z, nil
}

// fqdn joins an owner label with a zone's origin the way a zone file
// author expects: an empty owner names the zone apex.
func fqdn(owner, origin string) string {
	if owner == "" {
		return origin
	}
	return owner + "." + origin
}

// Lookup returns every record across all loaded zones whose fully
// qualified owner name exactly equals qname and whose type equals qtype.
// Class is always IN and is not part of the lookup key.
func (s *Store) Lookup(qname string, qtype dns.QType) ([]dns.ResourceRecord, bool) {
	var matches []dns.ResourceRecord
	for _, z := range s.zones {
		for _, rr := range z.Records {
			if rr.Name == qname && rr.Type == qtype {
				matches = append(matches, rr)
			}
		}
	}
	return matches, len(matches) > 0
}
