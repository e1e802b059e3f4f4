// Command goDNS is a one-shot debug client: it sends a single query of
// any supported type to any server and prints the decoded response.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"dnsresolver/internal/config"
	"dnsresolver/pkg/client"
	"dnsresolver/pkg/dns"
)

func main() {
	server := flag.String("server", "198.41.0.4:53", "DNS server to query, host:port")
	qtype := flag.String("type", "A", "query type: A, AAAA, NS, CNAME, MX, SOA")
	timeout := flag.Duration("timeout", 5*time.Second, "query timeout")
	recursive := flag.Bool("recurse", true, "set the recursion desired bit")
	logLevel := flag.String("loglevel", "info", "log level: debug, info, warn, error")
	flag.Parse()

	levelCfg := config.Config{LogLevel: *logLevel}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelCfg.SlogLevel()}))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: goDNS [flags] <domain>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	domain := flag.Arg(0)

	qt, err := parseType(*qtype)
	if err != nil {
		logger.Error("invalid query type", "type", *qtype, "error", err)
		os.Exit(1)
	}

	c := client.New(*timeout)
	response, err := c.Query(*server, domain, qt, *recursive)
	if err != nil {
		logger.Error("query failed", "server", *server, "domain", domain, "error", err)
		os.Exit(1)
	}

	fmt.Printf(";; rcode: %s, authoritative: %v, answers: %d\n",
		response.Header.RCode, response.Header.Authoritative, len(response.Answer))
	for _, rr := range response.Answer {
		fmt.Printf("%s\t%d\t%s\t%s\t%s\n", rr.Name, rr.TTL, rr.Class, rr.Type, rr.RData)
	}
}

func parseType(s string) (dns.QType, error) {
	switch strings.ToUpper(s) {
	case "A":
		return dns.TypeA, nil
	case "AAAA":
		return dns.TypeAAAA, nil
	case "NS":
		return dns.TypeNS, nil
	case "CNAME":
		return dns.TypeCNAME, nil
	case "MX":
		return dns.TypeMX, nil
	case "SOA":
		return dns.TypeSOA, nil
	default:
		return 0, fmt.Errorf("unsupported type %q", s)
	}
}
