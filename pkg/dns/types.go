// Package dns implements the wire format for a restricted subset of the
// DNS message format (RFC 1035 section 4) plus name compression on decode.
//
// A single package owns both the message envelope (header, question,
// resource record framing) and the concrete resource record data shapes,
// the way github.com/miekg/dns does it: decoding a name-bearing rdata
// (NS, CNAME, SOA, MX) needs the compression-aware name reader, and that
// reader needs the whole message buffer, so splitting rdata shapes into a
// separate package would either recreate that dependency by hand or force
// a decode-time callback. Keeping it one package avoids both.
package dns

import "fmt"

// QType is a 16-bit resource record / query type code.
type QType uint16

const (
	TypeA     QType = 1
	TypeNS    QType = 2
	TypeCNAME QType = 5
	TypeSOA   QType = 6
	TypeMX    QType = 15
	TypeAAAA  QType = 28
)

func (t QType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeSOA:
		return "SOA"
	case TypeMX:
		return "MX"
	case TypeAAAA:
		return "AAAA"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// QClass is a 16-bit resource record / query class code. Only IN is
// supported; other classes are accepted on the wire and rejected nowhere,
// but the resolver never matches on anything but ClassIN.
type QClass uint16

const ClassIN QClass = 1

func (c QClass) String() string {
	if c == ClassIN {
		return "IN"
	}
	return fmt.Sprintf("CLASS%d", uint16(c))
}

// Opcode is the 4-bit header OPCODE field.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0 // standard query
	OpcodeIQuery Opcode = 1 // inverse query
	OpcodeStatus Opcode = 2 // server status request
)

// RCode is the 4-bit header RCODE field.
type RCode uint8

const (
	RCodeNoError        RCode = 0
	RCodeFormatError    RCode = 1
	RCodeServerError    RCode = 2
	RCodeNameError      RCode = 3
	RCodeNotImplemented RCode = 4
	RCodeRefused        RCode = 5
)

func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormatError:
		return "FORMERR"
	case RCodeServerError:
		return "SERVFAIL"
	case RCodeNameError:
		return "NXDOMAIN"
	case RCodeNotImplemented:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return fmt.Sprintf("RCODE%d", uint8(r))
	}
}
