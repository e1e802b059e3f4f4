package dns

import "testing"

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		ID:                 0xBEEF,
		Response:           true,
		Opcode:             OpcodeQuery,
		Authoritative:      true,
		Truncated:          false,
		RecursionDesired:   true,
		RecursionAvailable: true,
		Z:                  0,
		RCode:              RCodeNoError,
		QDCount:            1,
		ANCount:            2,
		NSCount:            0,
		ARCount:            0,
	}
	wire := h.encode()
	if len(wire) != headerLength {
		t.Fatalf("encoded header length = %d, want %d", len(wire), headerLength)
	}
	got, err := decodeHeader(wire)
	if err != nil {
		t.Fatalf("decodeHeader returned error: %v", err)
	}
	if got != h {
		t.Errorf("decodeHeader round-trip = %+v, want %+v", got, h)
	}
}

func TestHeaderEncodeMasksOutOfRangeFields(t *testing.T) {
	h := Header{Opcode: Opcode(0xFF), Z: 0xFF, RCode: RCode(0xFF)}
	wire := h.encode()
	flags := uint16(wire[2])<<8 | uint16(wire[3])

	if opcode := (flags >> 11) & 0x0F; opcode != 0x0F {
		t.Errorf("opcode bits = %#x, want %#x", opcode, 0x0F)
	}
	if z := (flags >> 4) & 0x07; z != 0x07 {
		t.Errorf("z bits = %#x, want %#x", z, 0x07)
	}
	if rcode := flags & 0x0F; rcode != 0x0F {
		t.Errorf("rcode bits = %#x, want %#x", rcode, 0x0F)
	}
	// Masking must not bleed into neighboring flag bits.
	if flags&(1<<15) != 0 {
		t.Errorf("QR bit set unexpectedly: flags = %#x", flags)
	}
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	if _, err := decodeHeader(make([]byte, 11)); err == nil {
		t.Fatal("decodeHeader should reject a buffer shorter than 12 octets")
	}
}

func TestDecodeHeaderMapsUnknownRCodeToFormatError(t *testing.T) {
	wire := []byte{0, 0, 0, 0x09, 0, 0, 0, 0, 0, 0, 0, 0}
	h, err := decodeHeader(wire)
	if err != nil {
		t.Fatalf("decodeHeader returned error: %v", err)
	}
	if h.RCode != RCodeFormatError {
		t.Errorf("RCode = %v, want %v", h.RCode, RCodeFormatError)
	}
}

func TestQuestionEncodeDecodeRoundTrip(t *testing.T) {
	q := Question{Name: "example.com", Type: TypeA, Class: ClassIN}
	wire, err := q.encode()
	if err != nil {
		t.Fatalf("encode returned error: %v", err)
	}
	got, consumed, err := decodeQuestion(wire, 0)
	if err != nil {
		t.Fatalf("decodeQuestion returned error: %v", err)
	}
	if got != q {
		t.Errorf("decodeQuestion = %+v, want %+v", got, q)
	}
	if consumed != len(wire) {
		t.Errorf("consumed = %d, want %d", consumed, len(wire))
	}
}

func TestResourceRecordEncodeDecodeRoundTrip(t *testing.T) {
	rr := ResourceRecord{
		Name:  "example.com",
		Type:  TypeA,
		Class: ClassIN,
		TTL:   3600,
		RData: &AData{Address: []byte{93, 184, 216, 34}},
	}
	wire, err := rr.encode()
	if err != nil {
		t.Fatalf("encode returned error: %v", err)
	}
	got, consumed, err := decodeResourceRecord(wire, 0)
	if err != nil {
		t.Fatalf("decodeResourceRecord returned error: %v", err)
	}
	if got.Name != rr.Name || got.Type != rr.Type || got.Class != rr.Class || got.TTL != rr.TTL {
		t.Errorf("decodeResourceRecord = %+v, want %+v", got, rr)
	}
	if got.RData.String() != rr.RData.String() {
		t.Errorf("RData = %v, want %v", got.RData, rr.RData)
	}
	if consumed != len(wire) {
		t.Errorf("consumed = %d, want %d", consumed, len(wire))
	}
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	m := &Message{
		Header: Header{ID: 42, RecursionDesired: true},
		Question: []Question{
			{Name: "example.com", Type: TypeA, Class: ClassIN},
		},
		Answer: []ResourceRecord{
			{Name: "example.com", Type: TypeA, Class: ClassIN, TTL: 300, RData: &AData{Address: []byte{1, 2, 3, 4}}},
		},
	}

	wire, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	got, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if got.Header.ID != m.Header.ID {
		t.Errorf("Header.ID = %d, want %d", got.Header.ID, m.Header.ID)
	}
	if len(got.Question) != 1 || got.Question[0].Name != "example.com" {
		t.Errorf("Question = %+v", got.Question)
	}
	if len(got.Answer) != 1 || got.Answer[0].RData.String() != "1.2.3.4" {
		t.Errorf("Answer = %+v", got.Answer)
	}
	if got.Header.QDCount != 1 || got.Header.ANCount != 1 {
		t.Errorf("section counts = %d/%d, want 1/1", got.Header.QDCount, got.Header.ANCount)
	}
}

func TestDecodeRejectsDeclaredCountExceedingBuffer(t *testing.T) {
	h := Header{QDCount: 1}
	wire := h.encode()
	if _, err := Decode(wire); err == nil {
		t.Fatal("Decode should reject a header whose QDCount exceeds the remaining buffer")
	}
}

func TestMessageEncodeOverwritesSectionCounts(t *testing.T) {
	m := &Message{
		Header:   Header{QDCount: 99, ANCount: 99},
		Question: []Question{{Name: "x.com", Type: TypeA, Class: ClassIN}},
	}
	if _, err := m.Encode(); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if m.Header.QDCount != 1 {
		t.Errorf("QDCount = %d, want 1", m.Header.QDCount)
	}
	if m.Header.ANCount != 0 {
		t.Errorf("ANCount = %d, want 0", m.Header.ANCount)
	}
}
