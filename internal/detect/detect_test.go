package detect

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
)

func signature() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:], aspire9Version)
	binary.LittleEndian.PutUint32(buf[4:], 12)
	buf[8], buf[9], buf[10], buf[11] = 0xFF, 0xFF, 0x01, 0x00
	binary.LittleEndian.PutUint16(buf[12:], aspire9MarkerLen)
	copy(buf[14:], aspire9Marker)
	return buf
}

func TestAspire9(t *testing.T) {
	b, ok := Aspire9(signature())
	require.True(t, ok)
	assert.Equal(t, "aspire9", b.Format)
	assert.Equal(t, "Aspire 9", b.Name)
	assert.NotNil(t, b.Parse)

	tests := map[string]func([]byte) []byte{
		"wrong version":       func(b []byte) []byte { b[0] = 2; return b },
		"no record marker":    func(b []byte) []byte { b[8] = 0; return b },
		"wrong type":          func(b []byte) []byte { b[10] = 2; return b },
		"wrong marker length": func(b []byte) []byte { b[12] = 16; return b },
		"wrong marker text":   func(b []byte) []byte { copy(b[14:], "mcToolGroupMarkeR"); return b },
		"short":               func(b []byte) []byte { return b[:aspire9SigEnd-1] },
		"empty":               func([]byte) []byte { return nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := Aspire9(mutate(signature()))
			assert.False(t, ok)
		})
	}
}

func TestDetectTruncatesPrefix(t *testing.T) {
	var seen int
	spy := func(prefix []byte) (Binding, bool) {
		seen = len(prefix)
		return Binding{}, false
	}

	_, ok := Detect(make([]byte, PrefixSize*2), []Detector{spy})
	assert.False(t, ok)
	assert.Equal(t, PrefixSize, seen)
}

func TestDetectFirstMatchWins(t *testing.T) {
	first := func([]byte) (Binding, bool) { return Binding{Format: "first"}, true }
	second := func([]byte) (Binding, bool) { return Binding{Format: "second"}, true }

	b, ok := Detect(nil, []Detector{first, second})
	require.True(t, ok)
	assert.Equal(t, "first", b.Format)
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "lib.tool")
	require.NoError(t, os.WriteFile(good, signature(), 0o644))
	b, ok, err := DetectFile(good)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aspire9", b.Format)

	short := filepath.Join(dir, "short.tool")
	require.NoError(t, os.WriteFile(short, []byte{0x03}, 0o644))
	_, ok, err = DetectFile(short)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = DetectFile(filepath.Join(dir, "missing.tool"))
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceRead(err))
}
