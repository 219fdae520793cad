// Package textenc decodes text files written by other tools in legacy
// encodings.
package textenc

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names a detected file encoding.
type Encoding string

// Supported encodings, in detection order.
const (
	UTF8        Encoding = "utf-8"
	UTF8BOM     Encoding = "utf-8-sig"
	Latin1      Encoding = "latin-1"
	Windows1252 Encoding = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data to a UTF-8 string.
//
// Valid UTF-8 is returned as is, with a leading byte order mark removed.
// Anything else is single-byte text: Windows-1252 when it uses the
// 0x80-0x9F range (where Windows-1252 has printable characters and Latin-1
// has only C1 controls), Latin-1 otherwise.
func Decode(data []byte) (string, Encoding, error) {
	if utf8.Valid(data) {
		if bytes.HasPrefix(data, utf8BOM) {
			out, err := decodeWith(unicode.UTF8BOM, data)
			return out, UTF8BOM, err
		}
		return string(data), UTF8, nil
	}

	if usesC1Range(data) {
		out, err := decodeWith(charmap.Windows1252, data)
		return out, Windows1252, err
	}
	out, err := decodeWith(charmap.ISO8859_1, data)
	return out, Latin1, err
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}

func usesC1Range(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}
