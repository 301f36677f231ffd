package library

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ospathMarker prefixes encoded names whose raw bytes are not valid
// UTF-8. Names without the marker are their own encoding.
const ospathMarker = "~~OSPATH~~"

// EncodeName returns the wire form of a file name. Valid UTF-8 names
// pass through unchanged; anything else is prefixed with the marker and
// has every non-ASCII byte escaped as ~HH (uppercase hex), with a
// literal '~' escaped as ~7E.
func EncodeName(name string) string {
	if utf8.ValidString(name) {
		return name
	}
	var b strings.Builder
	b.WriteString(ospathMarker)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '~':
			b.WriteString("~7E")
		case c >= 0x80:
			fmt.Fprintf(&b, "~%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// DecodeName inverts EncodeName. Names without the marker decode to
// themselves, so both the escaped and unescaped forms are accepted.
func DecodeName(name string) (string, error) {
	if !strings.HasPrefix(name, ospathMarker) {
		return name, nil
	}
	s := name[len(ospathMarker):]
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '~' {
			out = append(out, s[i])
			i++
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("incomplete escape sequence at position %d in %q", i, name)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("invalid hex in escape sequence at position %d in %q", i, name)
		}
		out = append(out, byte(v))
		i += 3
	}
	return string(out), nil
}

// DecodePath decodes a virtual path segment by segment, so an encoded
// directory or file name anywhere inside the path is recovered before
// resolution.
func DecodePath(virtual string) (string, error) {
	segments := strings.Split(virtual, "/")
	for i, segment := range segments {
		decoded, err := DecodeName(segment)
		if err != nil {
			return "", err
		}
		segments[i] = decoded
	}
	return strings.Join(segments, "/"), nil
}
