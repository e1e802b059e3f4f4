// Package udpserver runs the resolver's UDP listener: receive a
// datagram, decode it, hand it to the pipeline, send back whatever comes
// out. The single receive loop only reads datagrams; decoding and handling
// are fanned out to a worker pool so a slow resolution doesn't stall the
// socket.
package udpserver

import (
	"context"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"dnsresolver/pkg/dns"
)

// maxDatagramSize is the largest UDP query this server accepts, matching
// the wire codec's own lack of EDNS0 support.
const maxDatagramSize = 1024

// Pipeline is satisfied by internal/pipeline.Pipeline.
type Pipeline interface {
	Handle(request *dns.Message) (*dns.Message, bool)
}

// Server listens on one UDP socket and dispatches every datagram it
// receives to a bounded pool of workers.
type Server struct {
	Pipeline Pipeline
	Logger   *slog.Logger
	Workers  int
}

// New returns a Server with the given worker pool size. A non-positive
// workers value is treated as 1.
func New(p Pipeline, logger *slog.Logger, workers int) *Server {
	if workers <= 0 {
		workers = 1
	}
	return &Server{Pipeline: p, Logger: logger, Workers: workers}
}

type datagram struct {
	data []byte
	addr *net.UDPAddr
}

// Run binds addr and serves until ctx is canceled, at which point it
// closes the socket and returns once every in-flight worker has drained.
func (s *Server) Run(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.Logger.Info("listening", "addr", conn.LocalAddr())

	queue := make(chan datagram, s.Workers)
	group, ctx := errgroup.WithContext(ctx)

	for i := 0; i < s.Workers; i++ {
		group.Go(func() error {
			for dg := range queue {
				s.handle(conn, dg)
			}
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})

	buf := make([]byte, maxDatagramSize)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			close(queue)
			group.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		queue <- datagram{data: data, addr: raddr}
	}
}

// handle decodes one datagram, routes it through the pipeline, and sends
// back whatever response results. A decode failure is answered with a
// FormatError response echoing the transaction ID when it can be
// recovered from the truncated header; otherwise the datagram is dropped
// silently.
func (s *Server) handle(conn *net.UDPConn, dg datagram) {
	request, err := dns.Decode(dg.data)
	if err != nil {
		s.Logger.Debug("failed to decode query", "from", dg.addr, "error", err)
		if id, ok := transactionID(dg.data); ok {
			s.sendFormatError(conn, dg.addr, id)
		}
		return
	}

	response, shouldRespond := s.Pipeline.Handle(request)
	if !shouldRespond {
		return
	}

	wire, err := response.Encode()
	if err != nil {
		s.Logger.Error("failed to encode response", "to", dg.addr, "error", err)
		return
	}
	if _, err := conn.WriteToUDP(wire, dg.addr); err != nil {
		s.Logger.Error("failed to send response", "to", dg.addr, "error", err)
	}
}

func (s *Server) sendFormatError(conn *net.UDPConn, addr *net.UDPAddr, id uint16) {
	response := &dns.Message{
		Header: dns.Header{ID: id, Response: true, RCode: dns.RCodeFormatError},
	}
	wire, err := response.Encode()
	if err != nil {
		return
	}
	conn.WriteToUDP(wire, addr)
}

// transactionID extracts the first two octets of a datagram as a
// transaction ID, for replying to a message too malformed to decode.
func transactionID(data []byte) (uint16, bool) {
	if len(data) < 2 {
		return 0, false
	}
	return uint16(data[0])<<8 | uint16(data[1]), true
}
