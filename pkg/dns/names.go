package dns

import "strings"

const (
	maxLabelLength = 63
	maxNameLength  = 255
	maxLabelReads  = 128
)

// EncodeName renders domain into its uncompressed wire form: a sequence of
// length-prefixed labels terminated by a zero octet. An empty string
// encodes as the root name (a single zero octet). A trailing dot, if
// present, is ignored the way a fully-qualified name is normally written.
func EncodeName(domain string) ([]byte, error) {
	domain = strings.TrimSuffix(domain, ".")

	var labels []string
	if domain != "" {
		labels = strings.Split(domain, ".")
	}

	out := make([]byte, 0, len(domain)+2)
	total := 0
	for _, label := range labels {
		if len(label) == 0 || len(label) > maxLabelLength {
			return nil, &FormatError{Reason: "label length out of range"}
		}
		total += len(label) + 1
		if total > maxNameLength {
			return nil, &FormatError{Reason: "name exceeds 255 octets"}
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	return out, nil
}

// DecodeName reads a domain name starting at offset start within msg,
// following compression pointers as needed. It returns the dotted-label
// string and the number of octets consumed from start in the buffer
// (which is always 2 when the very first byte read is a pointer, and
// otherwise the length of the uncompressed label run up to and including
// the terminating zero octet or the pointer that replaces it).
func DecodeName(msg []byte, start int) (string, int, error) {
	if start < 0 || start >= len(msg) {
		return "", 0, &FormatError{Reason: "name starts beyond end of message"}
	}

	var labels []string
	pos := start
	consumed := -1
	totalWire := 0
	reads := 0

	for {
		if pos >= len(msg) {
			return "", 0, &FormatError{Reason: "truncated name"}
		}
		lengthOctet := msg[pos]

		if lengthOctet&0xC0 == 0xC0 {
			if pos+1 >= len(msg) {
				return "", 0, &FormatError{Reason: "truncated compression pointer"}
			}
			target := int(lengthOctet&0x3F)<<8 | int(msg[pos+1])
			if target >= pos {
				return "", 0, &FormatError{Reason: "compression pointer does not point strictly backward"}
			}
			if consumed == -1 {
				consumed = pos - start + 2
			}
			pos = target
			continue
		}

		if lengthOctet&0xC0 != 0 {
			return "", 0, &FormatError{Reason: "reserved label length bits set"}
		}

		if lengthOctet == 0 {
			pos++
			if consumed == -1 {
				consumed = pos - start
			}
			break
		}

		reads++
		if reads > maxLabelReads {
			return "", 0, &FormatError{Reason: "too many labels in name"}
		}

		length := int(lengthOctet)
		if pos+1+length > len(msg) {
			return "", 0, &FormatError{Reason: "truncated label"}
		}

		totalWire += length + 1
		if totalWire > maxNameLength {
			return "", 0, &FormatError{Reason: "name exceeds 255 octets"}
		}

		labels = append(labels, string(msg[pos+1:pos+1+length]))
		pos += 1 + length
	}

	return strings.Join(labels, "."), consumed, nil
}

// LabelCount reports how many non-root labels a dotted name has.
func LabelCount(name string) int {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return 0
	}
	return len(strings.Split(name, "."))
}
