// Package carveco recovers tools from CarveCo .tdb tool databases.
//
// A .tdb file interleaves marker strings, subgroup headers and fixed-layout
// tool records with no record count. Parsing runs in two stages: records are
// decoded from bytes into RawRecord values, then each is resolved against
// the structural Index (type marker, unit context, material, operation).
package carveco

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/tooldecoder/tooldecoder/internal/bytescan"
	"github.com/tooldecoder/tooldecoder/internal/tool"
	"github.com/tooldecoder/tooldecoder/internal/typemap"
	"github.com/tooldecoder/tooldecoder/internal/units"
)

// recordHeader starts every tool record; its last three bytes begin the
// UTF-16 tool name.
var recordHeader = []byte{0x05, 0x01, 0x00, 0x00, 0x00, 0xFF, 0xFE, 0xFF}

const (
	maxDiameter    = 500
	unitFlagMetric = 0x01
)

var anglePattern = regexp.MustCompile(`(?i)(\d+)\s*deg`)

// RawRecord is a tool record decoded from bytes, before any context is
// attached.
type RawRecord struct {
	Offset       int
	Name         string
	MetricFlag   bool
	Diameter     float64
	Description  string
	StepOver     float64
	SpindleSpeed float64
	FeedRate     float64 // per minute
	PlungeRate   float64 // per minute
	Flutes       int
}

// Context is everything the surrounding structure says about a record.
type Context struct {
	Marker    string
	Material  string
	Operation string
	Metric    bool
}

// Parse decodes every tool record in buf. Records that fail validation are
// skipped.
func Parse(buf []byte) ([]tool.Tool, error) {
	ix := BuildIndex(buf)

	var tools []tool.Tool
	for _, off := range bytescan.FindAll(buf, recordHeader) {
		rec, ok := DecodeRecord(buf, off)
		if !ok {
			continue
		}
		tools = append(tools, Enrich(rec, ix.Resolve(rec)))
	}
	return tools, nil
}

// DecodeRecord decodes the tool record whose header starts at off.
//
//	05 01 00 00 00      header
//	UTF-16 string       name
//	byte                unit flag (01 = metric), then 3 padding bytes
//	float64             diameter, (0, 500]
//	float64             shank diameter (skipped)
//	UTF-16 string       description (optional)
//	4 x float64         stepover, spindle speed, feed, plunge
//	int32               parameter flags (skipped)
//	byte                flute count
func DecodeRecord(buf []byte, off int) (RawRecord, bool) {
	if !bytescan.In(buf, off, len(recordHeader)) || !bytes.Equal(buf[off:off+len(recordHeader)], recordHeader) {
		return RawRecord{}, false
	}
	rec := RawRecord{Offset: off}
	cursor := off + 5

	name, n := readUTF16(buf, cursor)
	if n == 0 {
		return RawRecord{}, false
	}
	rec.Name = name
	cursor += n

	if cursor >= len(buf) {
		return RawRecord{}, false
	}
	rec.MetricFlag = buf[cursor] == unitFlagMetric
	cursor += 4

	d, ok := bytescan.Float64LE(buf, cursor)
	if !ok || !bytescan.Finite(d) || d <= 0 || d > maxDiameter {
		return RawRecord{}, false
	}
	rec.Diameter = d
	cursor += 8

	if !bytescan.In(buf, cursor, 8) {
		return RawRecord{}, false
	}
	cursor += 8 // shank diameter

	desc, n := readUTF16(buf, cursor)
	rec.Description = desc
	cursor += n

	if !bytescan.In(buf, cursor, 37) {
		return RawRecord{}, false
	}
	rec.StepOver, _ = bytescan.Float64LE(buf, cursor)
	rec.SpindleSpeed, _ = bytescan.Float64LE(buf, cursor+8)
	rec.FeedRate, _ = bytescan.Float64LE(buf, cursor+16)
	rec.PlungeRate, _ = bytescan.Float64LE(buf, cursor+24)
	if !bytescan.Finite(rec.FeedRate) || !bytescan.Finite(rec.SpindleSpeed) {
		return RawRecord{}, false
	}
	rec.Flutes = int(buf[cursor+36])

	return rec, true
}

// Resolve attaches the structural context in effect at the record offset.
// The type comes from the enclosing marker range, or from the record name
// when no range covers it. A material named "... inch ..." forces imperial.
func (ix *Index) Resolve(rec RawRecord) Context {
	ctx := Context{
		Marker:   ix.MarkerAt(rec.Offset),
		Material: tool.DefaultCategory,
		Metric:   rec.MetricFlag,
	}
	if ctx.Marker == "" {
		ctx.Marker = typemap.MarkerFromName(rec.Name)
	}

	if u, ok := ix.Units.At(rec.Offset); ok {
		ctx.Metric = u.Value
	}

	material, hasMaterial := ix.Materials.At(rec.Offset)
	if hasMaterial {
		ctx.Material = material.Value
		if strings.Contains(strings.ToLower(material.Value), "inch") {
			ctx.Metric = false
		}
	}

	// A material resets the operation; only operations after it count.
	if op, ok := ix.Operations.At(rec.Offset); ok {
		if !hasMaterial || op.Offset > material.Offset {
			ctx.Operation = op.Value
		}
	}

	return ctx
}

// Enrich builds the intermediate tool from a decoded record and its context.
func Enrich(rec RawRecord, ctx Context) tool.Tool {
	flutes := rec.Flutes
	if flutes == 0 {
		flutes = 2
	}

	t := tool.Tool{
		Name:          rec.Name,
		SourceType:    typemap.CarveCoName(ctx.Marker),
		Diameter:      rec.Diameter,
		FluteCount:    flutes,
		IncludedAngle: angleFromName(rec.Name),
		Notes:         rec.Description,
		FeedRate:      units.PerMinuteToPerSecond(rec.FeedRate),
		PlungeRate:    units.PerMinuteToPerSecond(rec.PlungeRate),
		StepOver:      rec.StepOver,
		SpindleSpeed:  rec.SpindleSpeed,
		MetricTool:    ctx.Metric,
		Category:      ctx.Material,
	}
	return t.Typed(typemap.CarveCo(ctx.Marker))
}

// angleFromName reads "90 deg" / "60 degree" style angles from a tool name.
func angleFromName(name string) float64 {
	m := anglePattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
