// Package encoding normalizes uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// legacy maps chardet charset names to decoders. Anything not listed falls back to
// Windows-1252, the usual encoding of spreadsheet exports on shop PCs.
var legacy = map[string]xenc.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-2":   charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Result is a UTF-8 view of the input together with the charset it was decoded from.
type Result struct {
	io.Reader
	Charset string
}

// NewUTF8Reader sniffs the start of r and returns a reader producing UTF-8.
// A byte order mark wins over content; valid UTF-8 passes through untouched.
func NewUTF8Reader(r io.Reader) (*Result, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Result{Reader: br, Charset: "UTF-8"}, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return decoded(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "UTF-16LE"), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return decoded(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM), "UTF-16BE"), nil
	case validUTF8Prefix(head):
		return &Result{Reader: br, Charset: "UTF-8"}, nil
	}

	if best, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if best.Charset == "UTF-8" {
			return &Result{Reader: br, Charset: best.Charset}, nil
		}

		if e, ok := legacy[best.Charset]; ok {
			return decoded(br, e, best.Charset), nil
		}
	}

	return decoded(br, charmap.Windows1252, "windows-1252"), nil
}

func decoded(r io.Reader, e xenc.Encoding, charset string) *Result {
	return &Result{Reader: transform.NewReader(r, e.NewDecoder()), Charset: charset}
}

// validUTF8Prefix tolerates a multi-byte rune cut off at the end of a full sniff window.
func validUTF8Prefix(b []byte) bool {
	if len(b) < sniffSize {
		return utf8.Valid(b)
	}

	for cut := 0; cut < utf8.UTFMax; cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}

	return false
}
