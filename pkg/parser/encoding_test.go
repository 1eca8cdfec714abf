package parser

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utf16leBytes(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, r := range s {
		var unit [2]byte
		binary.LittleEndian.PutUint16(unit[:], uint16(r))
		out = append(out, unit[:]...)
	}
	return out
}

func TestDetectAndDecode(t *testing.T) {
	t.Run("plain utf-8", func(t *testing.T) {
		out, enc, err := DetectAndDecode([]byte("name,org"))
		require.NoError(t, err)
		assert.Equal(t, "utf-8", enc)
		assert.Equal(t, "name,org", string(out))
	})

	t.Run("utf-8 bom stripped", func(t *testing.T) {
		out, enc, err := DetectAndDecode([]byte{0xEF, 0xBB, 0xBF, 'n', 'a', 'm', 'e'})
		require.NoError(t, err)
		assert.Equal(t, "utf-8-bom", enc)
		assert.Equal(t, "name", string(out))
	})

	t.Run("utf-16le", func(t *testing.T) {
		out, enc, err := DetectAndDecode(utf16leBytes("name,Hébert"))
		require.NoError(t, err)
		assert.Equal(t, "utf-16le", enc)
		assert.Equal(t, "name,Hébert", string(out))
	})

	t.Run("latin-1 fallback", func(t *testing.T) {
		// "Hébert" with é as the single Latin-1 byte 0xE9: invalid UTF-8.
		data := []byte{'H', 0xE9, 'b', 'e', 'r', 't'}
		out, enc, err := DetectAndDecode(data)
		require.NoError(t, err)
		assert.Equal(t, "latin-1", enc)
		assert.Equal(t, "Hébert", string(out))
	})

	t.Run("empty", func(t *testing.T) {
		out, enc, err := DetectAndDecode(nil)
		require.NoError(t, err)
		assert.Equal(t, "utf-8", enc)
		assert.Empty(t, out)
	})
}

func TestParseUTF16File(t *testing.T) {
	rows, err := Parse(utf16leBytes("name,org\nJosée Hébert,Santé\n"))
	require.NoError(t, err)
	assert.Equal(t, "utf-16le", rows.Encoding)
	assert.Equal(t, "Josée Hébert", rows.Records[0]["name"])
	assert.Equal(t, "Santé", rows.Records[0]["org"])
}
