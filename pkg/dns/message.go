package dns

import "encoding/binary"

const headerLength = 12

// Header is the fixed 12-octet DNS message header (RFC 1035 section
// 4.1.1). Sub-byte fields are stored at their natural Go width but masked
// to their wire width on encode, so a caller that stuffs an out-of-range
// value into Opcode, Z, or RCode cannot corrupt an adjacent field.
type Header struct {
	ID                 uint16
	Response           bool
	Opcode             Opcode
	Authoritative      bool
	Truncated          bool
	RecursionDesired   bool
	RecursionAvailable bool
	Z                  uint8
	RCode              RCode
	QDCount            uint16
	ANCount            uint16
	NSCount            uint16
	ARCount            uint16
}

func (h Header) encode() []byte {
	out := make([]byte, headerLength)
	binary.BigEndian.PutUint16(out[0:2], h.ID)

	var flags uint16
	if h.Response {
		flags |= 1 << 15
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.Authoritative {
		flags |= 1 << 10
	}
	if h.Truncated {
		flags |= 1 << 9
	}
	if h.RecursionDesired {
		flags |= 1 << 8
	}
	if h.RecursionAvailable {
		flags |= 1 << 7
	}
	flags |= uint16(h.Z&0x07) << 4
	flags |= uint16(h.RCode & 0x0F)
	binary.BigEndian.PutUint16(out[2:4], flags)

	binary.BigEndian.PutUint16(out[4:6], h.QDCount)
	binary.BigEndian.PutUint16(out[6:8], h.ANCount)
	binary.BigEndian.PutUint16(out[8:10], h.NSCount)
	binary.BigEndian.PutUint16(out[10:12], h.ARCount)
	return out
}

func decodeHeader(data []byte) (Header, error) {
	if len(data) < headerLength {
		return Header{}, &FormatError{Reason: "message shorter than header"}
	}

	flags := binary.BigEndian.Uint16(data[2:4])
	rawRCode := RCode(flags & 0x0F)
	if rawRCode > RCodeRefused {
		rawRCode = RCodeFormatError
	}

	return Header{
		ID:                 binary.BigEndian.Uint16(data[0:2]),
		Response:           flags&(1<<15) != 0,
		Opcode:             Opcode((flags >> 11) & 0x0F),
		Authoritative:      flags&(1<<10) != 0,
		Truncated:          flags&(1<<9) != 0,
		RecursionDesired:   flags&(1<<8) != 0,
		RecursionAvailable: flags&(1<<7) != 0,
		Z:                  uint8((flags >> 4) & 0x07),
		RCode:              rawRCode,
		QDCount:            binary.BigEndian.Uint16(data[4:6]),
		ANCount:            binary.BigEndian.Uint16(data[6:8]),
		NSCount:            binary.BigEndian.Uint16(data[8:10]),
		ARCount:            binary.BigEndian.Uint16(data[10:12]),
	}, nil
}

// Question is one entry of the question section (RFC 1035 section 4.1.2).
type Question struct {
	Name  string
	Type  QType
	Class QClass
}

func (q Question) encode() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(name)+4)
	copy(out, name)
	binary.BigEndian.PutUint16(out[len(name):], uint16(q.Type))
	binary.BigEndian.PutUint16(out[len(name)+2:], uint16(q.Class))
	return out, nil
}

func decodeQuestion(msg []byte, pos int) (Question, int, error) {
	name, consumed, err := DecodeName(msg, pos)
	if err != nil {
		return Question{}, 0, err
	}
	pos += consumed
	if pos+4 > len(msg) {
		return Question{}, 0, &FormatError{Reason: "truncated question"}
	}
	q := Question{
		Name:  name,
		Type:  QType(binary.BigEndian.Uint16(msg[pos : pos+2])),
		Class: QClass(binary.BigEndian.Uint16(msg[pos+2 : pos+4])),
	}
	return q, consumed + 4, nil
}

// ResourceRecord is one entry of the answer, authority, or additional
// section (RFC 1035 section 4.1.3).
type ResourceRecord struct {
	Name     string
	Type     QType
	Class    QClass
	TTL      uint32
	RDLength uint16
	RData    RData
}

func (rr ResourceRecord) encode() ([]byte, error) {
	name, err := EncodeName(rr.Name)
	if err != nil {
		return nil, err
	}
	rdata := rr.RData.Bytes()

	out := make([]byte, len(name)+10+len(rdata))
	off := copy(out, name)
	binary.BigEndian.PutUint16(out[off:], uint16(rr.Type))
	binary.BigEndian.PutUint16(out[off+2:], uint16(rr.Class))
	binary.BigEndian.PutUint32(out[off+4:], rr.TTL)
	binary.BigEndian.PutUint16(out[off+8:], uint16(len(rdata)))
	copy(out[off+10:], rdata)
	return out, nil
}

func decodeResourceRecord(msg []byte, pos int) (ResourceRecord, int, error) {
	name, consumed, err := DecodeName(msg, pos)
	if err != nil {
		return ResourceRecord{}, 0, err
	}
	pos += consumed

	if pos+10 > len(msg) {
		return ResourceRecord{}, 0, &FormatError{Reason: "truncated resource record header"}
	}
	rrType := QType(binary.BigEndian.Uint16(msg[pos : pos+2]))
	rrClass := QClass(binary.BigEndian.Uint16(msg[pos+2 : pos+4]))
	ttl := binary.BigEndian.Uint32(msg[pos+4 : pos+8])
	rdlength := binary.BigEndian.Uint16(msg[pos+8 : pos+10])
	rdataStart := pos + 10

	rdata, err := decodeRData(msg, rdataStart, int(rdlength), rrType)
	if err != nil {
		return ResourceRecord{}, 0, err
	}

	rr := ResourceRecord{
		Name:     name,
		Type:     rrType,
		Class:    rrClass,
		TTL:      ttl,
		RDLength: rdlength,
		RData:    rdata,
	}
	return rr, (rdataStart + int(rdlength)) - (pos - consumed), nil
}

// Message is a complete DNS message: header, question section, and the
// three resource record sections.
type Message struct {
	Header     Header
	Question   []Question
	Answer     []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord
}

// Encode renders the message to wire format. The header's four section
// counts are overwritten to match the section lengths; names are always
// emitted uncompressed.
func (m *Message) Encode() ([]byte, error) {
	m.Header.QDCount = uint16(len(m.Question))
	m.Header.ANCount = uint16(len(m.Answer))
	m.Header.NSCount = uint16(len(m.Authority))
	m.Header.ARCount = uint16(len(m.Additional))

	out := m.Header.encode()

	for _, q := range m.Question {
		b, err := q.encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	for _, section := range [][]ResourceRecord{m.Answer, m.Authority, m.Additional} {
		for _, rr := range section {
			b, err := rr.encode()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// Decode parses a complete DNS message from wire format, including name
// decompression. Any premature end of buffer, malformed name, or
// unsupported section shape is a *FormatError.
func Decode(msg []byte) (*Message, error) {
	header, err := decodeHeader(msg)
	if err != nil {
		return nil, err
	}

	pos := headerLength
	m := &Message{Header: header}

	for i := uint16(0); i < header.QDCount; i++ {
		q, consumed, err := decodeQuestion(msg, pos)
		if err != nil {
			return nil, err
		}
		m.Question = append(m.Question, q)
		pos += consumed
	}

	for _, n := range []struct {
		count uint16
		dest  *[]ResourceRecord
	}{
		{header.ANCount, &m.Answer},
		{header.NSCount, &m.Authority},
		{header.ARCount, &m.Additional},
	} {
		for i := uint16(0); i < n.count; i++ {
			rr, consumed, err := decodeResourceRecord(msg, pos)
			if err != nil {
				return nil, err
			}
			*n.dest = append(*n.dest, rr)
			pos += consumed
		}
	}

	return m, nil
}
