package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/batchpos/internal/encoding"
)

const header = "colorName;unitPrice\nCafé;12,50\nAçaí;3,00\n"

func readAll(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), r.Charset
}

func TestNewUTF8Reader(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(header)
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(header)
	require.NoError(t, err)

	latin1, err := charmap.Windows1252.NewEncoder().String(header)
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset string
	}{
		{name: "UTF8Passthrough", input: []byte(header), wantCharset: "UTF-8"},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, header...), wantCharset: "UTF-8"},
		{name: "UTF16LE", input: []byte(utf16le), wantCharset: "UTF-16LE"},
		{name: "UTF16BE", input: []byte(utf16be), wantCharset: "UTF-16BE"},
		{name: "Windows1252", input: []byte(latin1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := readAll(t, tt.input)

			assert.Equal(t, header, got)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := readAll(t, nil)

	assert.Empty(t, got)
	assert.Equal(t, "UTF-8", charset)
}

func TestNewUTF8Reader_RuneSplitAtWindow(t *testing.T) {
	// Pad so the two-byte "é" straddles the end of the sniff window.
	input := strings.Repeat("a", 4095) + "é" + "\n"

	got, charset := readAll(t, []byte(input))

	assert.Equal(t, input, got)
	assert.Equal(t, "UTF-8", charset)
}
