// Package estlcam reads ESTLcam .tl tool libraries.
//
// A .tl file is a gzip stream. The decompressed payload is a short header
// followed by a fixed number of typed key/value records. The stream has no
// resynchronization points, so any structural violation fails the whole file.
package estlcam

import (
	"bytes"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"

	"github.com/tooldecoder/tooldecoder/internal/bytescan"
	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
	"github.com/tooldecoder/tooldecoder/internal/tool"
	"github.com/tooldecoder/tooldecoder/internal/typemap"
	"github.com/tooldecoder/tooldecoder/internal/units"
)

// Payload layout.
//
//	0x00 "z/"         magic
//	0x04 int32 LE     tool count
//	0x08 int32        separator before the first record
//	0x0C records, each followed by a 4-byte separator except the last
const (
	headerLen   = 8
	firstRecord = 12
	recordGap   = 4
	maxTools    = 10000
)

var magic = []byte{0x7A, 0x2F}

// Record framing literals.
const (
	recordMarker = "DEF_PS"
	terminator   = "Last"

	fieldSeparator = 0x01
	tagFloat       = 'D'
	tagString      = 'S'
)

// Category is assigned to every ESTLcam tool; the format carries no groups.
const Category = "ESTLcam"

const defaultType = "Normal"

// angledTypes carry a meaningful included angle.
var angledTypes = map[string]bool{"Fase": true, "Gravur": true, "Bohrer": true}

// Value is a decoded field: a float for 'D' tags, a string for 'S'.
type Value struct {
	IsString bool
	Num      float64
	Str      string
}

// Fields is one record's key/value map.
type Fields map[string]Value

// Num returns the float stored under key, or 0.
func (f Fields) Num(key string) float64 {
	v, ok := f[key]
	if !ok || v.IsString {
		return 0
	}
	return v.Num
}

// Str returns the string stored under key, or "".
func (f Fields) Str(key string) string {
	v, ok := f[key]
	if !ok || !v.IsString {
		return ""
	}
	return v.Str
}

// Parse decompresses a .tl file and decodes every tool in it.
func Parse(compressed []byte) ([]tool.Tool, error) {
	buf, err := Decompress(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	records, err := Decode(buf)
	if err != nil {
		return nil, err
	}

	tools := make([]tool.Tool, 0, len(records))
	for _, f := range records {
		tools = append(tools, toTool(f))
	}
	return tools, nil
}

// Decompress inflates a gzip stream.
func Decompress(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, apperrors.SourceRead(err, "open gzip stream")
	}
	defer zr.Close()

	buf, err := io.ReadAll(zr)
	if err != nil {
		return nil, apperrors.SourceRead(err, "decompress")
	}
	return buf, nil
}

// Decode parses a decompressed payload into its records.
func Decode(buf []byte) ([]Fields, error) {
	if len(buf) < headerLen || !bytes.HasPrefix(buf, magic) {
		return nil, apperrors.Malformed(0, "missing ESTLcam magic")
	}
	count, _ := bytescan.Int32LE(buf, 4)
	if count < 0 || count > maxTools {
		return nil, apperrors.Malformed(4, "implausible tool count %d", count)
	}

	c := &cursor{buf: buf, pos: firstRecord}
	records := make([]Fields, 0, count)
	for i := 0; i < int(count); i++ {
		f, err := c.record()
		if err != nil {
			return nil, err
		}
		records = append(records, f)

		if i < int(count)-1 && bytescan.In(buf, c.pos, recordGap) {
			c.pos += recordGap
		}
	}
	return records, nil
}

// cursor walks the record stream. Every read either advances pos or fails
// with the offset it failed at.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) readByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, apperrors.Malformed(c.pos, "unexpected end of data")
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// readString reads a 1-byte length followed by that many UTF-8 bytes.
func (c *cursor) readString() (string, error) {
	start := c.pos
	n, err := c.readByte()
	if err != nil {
		return "", err
	}
	if !bytescan.In(c.buf, c.pos, int(n)) {
		return "", apperrors.Malformed(start, "string of %d bytes overruns data", n)
	}
	s := string(c.buf[c.pos : c.pos+int(n)])
	c.pos += int(n)
	return s, nil
}

func (c *cursor) readFloat() (float64, error) {
	v, ok := bytescan.Float64LE(c.buf, c.pos)
	if !ok {
		return 0, apperrors.Malformed(c.pos, "unexpected end of data")
	}
	c.pos += 8
	return v, nil
}

func (c *cursor) readValue() (Value, error) {
	at := c.pos
	tag, err := c.readByte()
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case tagFloat:
		v, err := c.readFloat()
		return Value{Num: v}, err
	case tagString:
		s, err := c.readString()
		return Value{IsString: true, Str: s}, err
	default:
		return Value{}, apperrors.Malformed(at, "unknown type tag 0x%02x", tag)
	}
}

// record reads DEF_PS, then key/value fields up to the "Last" key and the
// one string that follows it.
func (c *cursor) record() (Fields, error) {
	at := c.pos
	marker, err := c.readString()
	if err != nil {
		return nil, err
	}
	if marker != recordMarker {
		return nil, apperrors.Malformed(at, "expected %s marker, got %q", recordMarker, marker)
	}

	fields := make(Fields)
	for {
		key, err := c.readString()
		if err != nil {
			return nil, err
		}
		if key == terminator {
			if _, err := c.readString(); err != nil {
				return nil, err
			}
			return fields, nil
		}

		sepAt := c.pos
		sep, err := c.readByte()
		if err != nil {
			return nil, err
		}
		if sep != fieldSeparator {
			return nil, apperrors.Malformed(sepAt, "expected field separator, got 0x%02x", sep)
		}

		v, err := c.readValue()
		if err != nil {
			return nil, err
		}
		fields[key] = v
	}
}

func toTool(f Fields) tool.Tool {
	tag := f.Str("Type")
	if tag == "" {
		tag = defaultType
	}

	diameter := f.Num("Diameter")
	feed := units.PerMinuteToPerSecond(f.Num("F"))
	plunge := feed * math.Sin(f.Num("Plunge_Angle")*math.Pi/180)

	var angle float64
	if angledTypes[tag] {
		angle = f.Num("Angle")
	}

	t := tool.Tool{
		Name:          f.Str("Name"),
		SourceType:    typemap.ESTLcamName(tag),
		Diameter:      diameter,
		FluteCount:    int(f.Num("Flutes")),
		IncludedAngle: angle,
		Length:        f.Num("H_Cut"),
		FeedRate:      feed,
		PlungeRate:    plunge,
		PassDepth:     f.Num("Dpp"),
		StepOver:      f.Num("Stepover") / 100 * diameter,
		SpindleSpeed:  f.Num("Rpm"),
		TipRadius:     f.Num("R_Edge"),
		MetricTool:    true,
		Category:      Category,
	}
	return t.Typed(typemap.ESTLcam(tag))
}
