package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
	"github.com/tooldecoder/tooldecoder/pkg/tooldb"
)

func lstr(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func field(key string, v float64) []byte {
	out := append(lstr(key), 0x01, 'D')
	return binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
}

func textField(key, v string) []byte {
	out := append(lstr(key), 0x01, 'S')
	return append(out, lstr(v)...)
}

// estlcamLibrary builds a gzip .tl payload with one end mill and one
// incompatible cone.
func estlcamLibrary(t *testing.T) []byte {
	t.Helper()
	rec := func(fields ...[]byte) []byte {
		out := lstr("DEF_PS")
		for _, f := range fields {
			out = append(out, f...)
		}
		out = append(out, lstr("Last")...)
		return append(out, lstr("NOTHING")...)
	}

	raw := []byte{0x7A, 0x2F, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}
	raw = append(raw, rec(textField("Name", "6mm Flat"), textField("Type", "Normal"), field("Diameter", 6), field("F", 1200))...)
	raw = append(raw, 0, 0, 0, 0)
	raw = append(raw, rec(textField("Name", "Cone"), textField("Type", "Kegel"), field("Diameter", 3))...)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertWritesDocument(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shop.tl")
	require.NoError(t, os.WriteFile(input, estlcamLibrary(t), 0o644))

	_, err := run(t, "convert", input, "--vendor", "Acme", "--ramp-rate", "5")
	require.NoError(t, err)

	doc, err := tooldb.ReadFile(filepath.Join(dir, "shop.tools"))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())

	records := doc.Ordered("ESTLcam")
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "6mm Flat", r.Name)
	assert.Equal(t, "End Mill", r.Type)
	assert.Equal(t, 20.0, r.FeedRate)
	assert.Equal(t, 5.0, r.RampRate)
	assert.Equal(t, "Acme", r.Vendor)
	assert.Equal(t, 22.5, r.RampAngle)
	assert.True(t, r.MetricTool)
}

func TestConvertToStdout(t *testing.T) {
	input := filepath.Join(t.TempDir(), "shop.tl")
	require.NoError(t, os.WriteFile(input, estlcamLibrary(t), 0o644))

	out, err := run(t, "convert", input, "-o", "-")
	require.NoError(t, err)

	var doc tooldb.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Len())
	assert.InDelta(t, 16.0, doc.Ordered("ESTLcam")[0].RampRate, 1e-9)
}

func TestInspectJSON(t *testing.T) {
	input := filepath.Join(t.TempDir(), "shop.tl")
	require.NoError(t, os.WriteFile(input, estlcamLibrary(t), 0o644))

	out, err := run(t, "inspect", "--json", input)
	require.NoError(t, err)

	var got inspectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "estlcam", got.Format)
	assert.Equal(t, "shop.tl", got.OriginalName)
	require.Len(t, got.Tools, 2)
	assert.False(t, got.Tools[1].Compatible)
	assert.Equal(t, 1, got.Stats.Incompatible)
}

func TestInspectTable(t *testing.T) {
	input := filepath.Join(t.TempDir(), "shop.tl")
	require.NoError(t, os.WriteFile(input, estlcamLibrary(t), 0o644))

	out, err := run(t, "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, out, "6mm Flat")
	assert.Contains(t, out, "Tapered/Conical")
	assert.Contains(t, out, "Format: estlcam")
}

func TestFormats(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)
	for _, ext := range []string{".vtdb", ".tool", ".tdb", ".tl"} {
		assert.Contains(t, out, ext)
	}
}

func TestUnsupportedFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "tools.csv")
	require.NoError(t, os.WriteFile(input, []byte("a,b"), 0o644))

	_, err := run(t, "convert", input)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnsupported(err))
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "formats"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryConfig, apperrors.GetCategory(err))
}

// syncCounter is a log sink that counts flushes.
type syncCounter struct {
	bytes.Buffer
	syncs int
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func TestExecuteSyncsLoggerOnFailure(t *testing.T) {
	sink := &syncCounter{}
	a := &app{
		logger: zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zap.DebugLevel)),
	}

	root := a.rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "none.toml"),
		"convert", filepath.Join(t.TempDir(), "missing.tl"),
	})

	err := a.execute(root)
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceRead(err))
	assert.Equal(t, 1, sink.syncs)
	assert.Contains(t, sink.String(), "parse failed")
}
