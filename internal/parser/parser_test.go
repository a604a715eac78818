package parser

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func aspire9Header() []byte {
	buf := make([]byte, 128)
	binary.LittleEndian.PutUint32(buf[0:], 3)
	buf[8], buf[9], buf[10], buf[11] = 0xFF, 0xFF, 0x01, 0x00
	binary.LittleEndian.PutUint16(buf[12:], 17)
	copy(buf[14:], "mcToolGroupMarker")
	return buf
}

func emptyESTLcam(t *testing.T) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte{0x7A, 0x2F, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestForFile(t *testing.T) {
	r := Default(nil)

	tests := []struct {
		path string
		want string
	}{
		{"lib.vtdb", "aspire12"},
		{"lib.TDB", "carveco"},
		{"/tmp/x/lib.tl", "estlcam"},
		{"lib.tool", "tool"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := r.ForFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}

	_, err := r.ForFile("lib.csv")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnsupported(err))

	_, err = r.ForFile("noext")
	assert.True(t, apperrors.IsUnsupported(err))
}

func TestAllOrderedByExtension(t *testing.T) {
	var exts []string
	for _, p := range Default(nil).All() {
		exts = append(exts, p.Extension())
	}
	assert.Equal(t, []string{".tdb", ".tl", ".tool", ".vtdb"}, exts)
}

func TestParseDispatches(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := Default(zap.New(core))
	ctx := context.Background()

	res, err := r.Parse(ctx, writeFile(t, "empty.tdb", []byte("no records here")))
	require.NoError(t, err)
	assert.Equal(t, "carveco", res.Format)
	assert.Empty(t, res.Tools)

	res, err = r.Parse(ctx, writeFile(t, "empty.tl", emptyESTLcam(t)))
	require.NoError(t, err)
	assert.Equal(t, "estlcam", res.Format)

	res, err = r.Parse(ctx, writeFile(t, "lib.tool", aspire9Header()))
	require.NoError(t, err)
	assert.Equal(t, "aspire9", res.Format, ".tool reports the detected dialect")

	assert.Equal(t, 3, logs.FilterMessage("parsed tool library").Len())
}

func TestParseUnrecognizedToolDialect(t *testing.T) {
	_, err := Default(nil).Parse(context.Background(), writeFile(t, "other.tool", []byte("some other vendor")))
	require.Error(t, err)
	assert.True(t, apperrors.IsUnsupported(err))
}

func TestParseMissingFile(t *testing.T) {
	_, err := Default(nil).Parse(context.Background(), filepath.Join(t.TempDir(), "gone.tdb"))
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceRead(err))
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Default(nil).Parse(ctx, writeFile(t, "lib.tdb", nil))
	assert.ErrorIs(t, err, context.Canceled)
}
