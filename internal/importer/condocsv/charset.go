package condocsv

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeUTF8 transcodes a legacy export to UTF-8. Condo management
// systems export in a mix of encodings; property names with ñ arrive as
// Windows-1252 more often than not. A byte order mark wins when present,
// content that already validates as UTF-8 passes through untouched, and
// everything else is sniffed.
func decodeUTF8(data []byte) ([]byte, error) {
	enc := bomEncoding(data)

	if enc == nil {
		if utf8.Valid(data) {
			return data, nil
		}

		enc = sniffEncoding(data)
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("transcoding upload: %w", err)
	}

	return out, nil
}

// bomEncoding returns the encoding a byte order mark announces, or nil
// when the data carries none. The decoders strip the mark.
func bomEncoding(data []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}

	return nil
}

// sniffEncoding picks a decoder for BOM-less content that is not valid
// UTF-8. Anything chardet cannot place lands on Windows-1252, the usual
// suspect for these exports.
func sniffEncoding(data []byte) encoding.Encoding {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.Windows1252
	}
}
