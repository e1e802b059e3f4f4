package dns

import (
	"encoding/binary"
	"fmt"
	"net"
)

// RData is the resource-data payload of a resource record. Concrete types
// are a tagged union over {A, AAAA, NS, CNAME, SOA, MX, Unknown}: encoding
// dispatches on the concrete Go type via Bytes, decoding selects the arm
// from the numeric RR type, falling back to UnknownData rather than
// failing so the codec preserves record types it doesn't understand.
type RData interface {
	Bytes() []byte
	String() string
}

// AData is the rdata of an A record: a 4-octet IPv4 address.
type AData struct{ Address net.IP }

func (d *AData) Bytes() []byte  { return d.Address.To4() }
func (d *AData) String() string { return d.Address.String() }

// AAAAData is the rdata of an AAAA record: a 16-octet IPv6 address.
type AAAAData struct{ Address net.IP }

func (d *AAAAData) Bytes() []byte  { return d.Address.To16() }
func (d *AAAAData) String() string { return d.Address.String() }

// NSData is the rdata of an NS record: the authoritative name server.
type NSData struct{ Target string }

func (d *NSData) Bytes() []byte {
	b, err := EncodeName(d.Target)
	if err != nil {
		return nil
	}
	return b
}
func (d *NSData) String() string { return d.Target }

// CNAMEData is the rdata of a CNAME record: the canonical name.
type CNAMEData struct{ Target string }

func (d *CNAMEData) Bytes() []byte {
	b, err := EncodeName(d.Target)
	if err != nil {
		return nil
	}
	return b
}
func (d *CNAMEData) String() string { return d.Target }

// MXData is the rdata of an MX record: preference and exchange domain.
type MXData struct {
	Preference uint16
	Exchange   string
}

func (d *MXData) Bytes() []byte {
	exch, err := EncodeName(d.Exchange)
	if err != nil {
		return nil
	}
	out := make([]byte, 2, 2+len(exch))
	binary.BigEndian.PutUint16(out, d.Preference)
	return append(out, exch...)
}
func (d *MXData) String() string { return fmt.Sprintf("%d %s", d.Preference, d.Exchange) }

// SOAData is the rdata of an SOA record. Per the wire format the five
// timers are unsigned 32-bit quantities; an earlier revision of this
// codec emitted them as 16-bit values, which desynchronized every field
// after serial on the wire. That bug is not reproduced here.
type SOAData struct {
	PrimaryNS        string
	ResponsibleEmail string
	Serial           uint32
	Refresh          uint32
	Retry            uint32
	Expire           uint32
	Minimum          uint32
}

func (d *SOAData) Bytes() []byte {
	ns, err := EncodeName(d.PrimaryNS)
	if err != nil {
		return nil
	}
	email, err := EncodeName(d.ResponsibleEmail)
	if err != nil {
		return nil
	}
	out := make([]byte, 0, len(ns)+len(email)+20)
	out = append(out, ns...)
	out = append(out, email...)
	var tmp [4]byte
	for _, v := range []uint32{d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum} {
		binary.BigEndian.PutUint32(tmp[:], v)
		out = append(out, tmp[:]...)
	}
	return out
}

func (d *SOAData) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d",
		d.PrimaryNS, d.ResponsibleEmail, d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum)
}

// UnknownData preserves the raw rdata of a record type this codec does
// not otherwise interpret, verbatim.
type UnknownData struct{ Raw []byte }

func (d *UnknownData) Bytes() []byte  { return d.Raw }
func (d *UnknownData) String() string { return fmt.Sprintf("% 02X", d.Raw) }

// decodeRData interprets the rdlength octets of rdata starting at
// rdataStart within msg, using msg for compression-pointer resolution of
// any domain name the rdata shape contains.
func decodeRData(msg []byte, rdataStart int, rdlength int, qtype QType) (RData, error) {
	if rdataStart+rdlength > len(msg) {
		return nil, &FormatError{Reason: "rdata truncated"}
	}
	raw := msg[rdataStart : rdataStart+rdlength]

	switch qtype {
	case TypeA:
		if rdlength != 4 {
			return nil, &FormatError{Reason: "A record rdata must be 4 octets"}
		}
		ip := make(net.IP, 4)
		copy(ip, raw)
		return &AData{Address: ip}, nil

	case TypeAAAA:
		if rdlength != 16 {
			return nil, &FormatError{Reason: "AAAA record rdata must be 16 octets"}
		}
		ip := make(net.IP, 16)
		copy(ip, raw)
		return &AAAAData{Address: ip}, nil

	case TypeNS:
		name, _, err := DecodeName(msg, rdataStart)
		if err != nil {
			return nil, err
		}
		return &NSData{Target: name}, nil

	case TypeCNAME:
		name, _, err := DecodeName(msg, rdataStart)
		if err != nil {
			return nil, err
		}
		return &CNAMEData{Target: name}, nil

	case TypeMX:
		if rdlength < 3 {
			return nil, &FormatError{Reason: "MX record rdata too short"}
		}
		pref := binary.BigEndian.Uint16(msg[rdataStart : rdataStart+2])
		exchange, _, err := DecodeName(msg, rdataStart+2)
		if err != nil {
			return nil, err
		}
		return &MXData{Preference: pref, Exchange: exchange}, nil

	case TypeSOA:
		primary, consumed, err := DecodeName(msg, rdataStart)
		if err != nil {
			return nil, err
		}
		emailStart := rdataStart + consumed
		email, consumed2, err := DecodeName(msg, emailStart)
		if err != nil {
			return nil, err
		}
		timersStart := emailStart + consumed2
		if timersStart+20 > len(msg) {
			return nil, &FormatError{Reason: "SOA rdata missing timer fields"}
		}
		timers := msg[timersStart : timersStart+20]
		return &SOAData{
			PrimaryNS:        primary,
			ResponsibleEmail: email,
			Serial:           binary.BigEndian.Uint32(timers[0:4]),
			Refresh:          binary.BigEndian.Uint32(timers[4:8]),
			Retry:            binary.BigEndian.Uint32(timers[8:12]),
			Expire:           binary.BigEndian.Uint32(timers[12:16]),
			Minimum:          binary.BigEndian.Uint32(timers[16:20]),
		}, nil

	default:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return &UnknownData{Raw: cp}, nil
	}
}
