package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectAndDecode sniffs the encoding of raw file bytes, strips any BOM,
// and returns UTF-8 along with the detected encoding name. Yearly archive
// files arrive in a mix of UTF-8, UTF-16 exports from spreadsheets, and
// Latin-1; anything that is not valid UTF-8 and carries no BOM falls back
// to Latin-1, which cannot fail.
func DetectAndDecode(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "utf-8", nil
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		decoded, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), data[2:])
		if err != nil {
			return nil, "", fmt.Errorf("utf-16le decode: %w", err)
		}
		return decoded, "utf-16le", nil
	case bytes.HasPrefix(data, bomUTF16BE):
		decoded, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), data[2:])
		if err != nil {
			return nil, "", fmt.Errorf("utf-16be decode: %w", err)
		}
		return decoded, "utf-16be", nil
	}

	if utf8.Valid(data) {
		return data, "utf-8", nil
	}

	decoded, err := decodeWith(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("latin-1 decode: %w", err)
	}
	return decoded, "latin-1", nil
}

func decodeWith(t transform.Transformer, data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(t, data)
	return out, err
}
