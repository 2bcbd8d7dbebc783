package dataprocessing

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by DecodeBytes
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingCP1251  = "windows-1251"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeBytes converts raw CSV bytes to UTF-8 and reports the detected
// source encoding. Detection order: UTF-8 BOM, UTF-16 BOMs, valid UTF-8,
// then Windows-1251 (the usual encoding of Cyrillic spreadsheet exports).
func DecodeBytes(data []byte) ([]byte, string, error) {
	var (
		dec  *encoding.Decoder
		name string
	)

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], EncodingUTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		name = EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		dec = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		name = EncodingUTF16BE
	case utf8.Valid(data):
		return data, EncodingUTF8, nil
	default:
		dec = charmap.Windows1251.NewDecoder()
		name = EncodingCP1251
	}

	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, name, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, name, nil
}
