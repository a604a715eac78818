// Package aspirebin recovers tools from Vectric Aspire 9 .tool files.
//
// The format has no record index. Every byte offset is tested as a candidate
// tool header, cheapest checks first, and candidates that fail validation are
// skipped. Fewer tools than the file really holds is an accepted outcome.
package aspirebin

import (
	"math"
	"strings"

	"github.com/tooldecoder/tooldecoder/internal/bytescan"
	"github.com/tooldecoder/tooldecoder/internal/tool"
	"github.com/tooldecoder/tooldecoder/internal/typemap"
	"github.com/tooldecoder/tooldecoder/internal/units"
)

// Tool header layout, relative to the header start.
//
//	+0  int32   header version (2)
//	+4  int32   subtype
//	+8  float32 radius
//	+12 float32 tip geometry
//	+16 int32   constant (6)
//	+20 byte    0
//	+21 5 x float64: diameter, stepdown, stepover, feed, plunge
//	+61 4 x int32:   flutes, spindle, tool number, name length
//	+77 name bytes
const (
	headerVersion  = 2
	headerConstant = 6

	offSubtype    = 4
	offRadius     = 8
	offTip        = 12
	offConstant   = 16
	offZero       = 20
	offDiameter   = 21
	offStepdown   = 29
	offStepover   = 37
	offFeed       = 45
	offPlunge     = 53
	offFlutes     = 61
	offSpindle    = 65
	offToolNumber = 69
	offNameLen    = 73
	offName       = 77

	maxNameLen = 200
)

// rootGroupStart is where the root group header begins: the
// "mcToolGroupMarker" string at 0x0E ends here.
const rootGroupStart = 31

var validSubtypes = map[int32]bool{0: true, 1: true, 2: true, 3: true, 4: true, 6: true, 8: true, 9: true}

// V-shaped subtypes whose included angle is derived from the tip geometry:
// V-Bit, Engraving, Drill, Diamond Drag.
var angledSubtypes = map[int32]bool{3: true, 4: true, 6: true, 9: true}

type header struct {
	subtype int32
	radius  float64
	tip     float64
}

type record struct {
	header
	nameOffset int
	name       string
	diameter   float64
	stepdown   float64
	stepover   float64
	feed       float64
	plunge     float64
	flutes     int32
	spindle    int32
	toolNumber int32
}

// Parse scans buf and returns every tool record it can validate.
func Parse(buf []byte) ([]tool.Tool, error) {
	category := RootGroupName(buf)

	var records []record
	for pos := 0; pos+offName <= len(buf); pos++ {
		if !prefilter(buf, pos) {
			continue
		}
		rec, ok := parseRecord(buf, pos)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return collect(records, category), nil
}

// RootGroupName returns the name of the root tool group, or "Default" when
// the fixed-position group header is missing or implausible.
func RootGroupName(buf []byte) string {
	n, ok := bytescan.Int32LE(buf, rootGroupStart+offNameLen)
	if !ok || n <= 0 || n > maxNameLen {
		return tool.DefaultCategory
	}
	start := rootGroupStart + offName
	if !bytescan.In(buf, start, int(n)) {
		return tool.DefaultCategory
	}
	name := decodeName(buf[start : start+int(n)])
	if name == "" {
		return tool.DefaultCategory
	}
	return name
}

// prefilter is the O(1) gate every offset passes through: header version and
// the constant at +16, compared as raw little-endian integers.
func prefilter(buf []byte, pos int) bool {
	if buf[pos] != headerVersion || buf[pos+1] != 0 || buf[pos+2] != 0 || buf[pos+3] != 0 {
		return false
	}
	c, ok := bytescan.Int32LE(buf, pos+offConstant)
	return ok && c == headerConstant
}

func parseHeader(buf []byte, pos int) (header, bool) {
	if !bytescan.In(buf, pos, offName) {
		return header{}, false
	}
	if v, _ := bytescan.Int32LE(buf, pos); v != headerVersion {
		return header{}, false
	}
	subtype, _ := bytescan.Int32LE(buf, pos+offSubtype)
	if !validSubtypes[subtype] {
		return header{}, false
	}
	radius, _ := bytescan.Float32LE(buf, pos+offRadius)
	if !bytescan.Finite(radius) || radius <= 0 || radius >= 10 {
		return header{}, false
	}
	tip, _ := bytescan.Float32LE(buf, pos+offTip)
	if !bytescan.Finite(tip) || tip < 0 {
		return header{}, false
	}
	if c, _ := bytescan.Int32LE(buf, pos+offConstant); c != headerConstant {
		return header{}, false
	}
	if buf[pos+offZero] != 0 {
		return header{}, false
	}
	return header{subtype: subtype, radius: radius, tip: tip}, true
}

func parseRecord(buf []byte, pos int) (record, bool) {
	h, ok := parseHeader(buf, pos)
	if !ok {
		return record{}, false
	}

	rec := record{header: h, nameOffset: pos + offName}
	rec.diameter, _ = bytescan.Float64LE(buf, pos+offDiameter)
	rec.stepdown, _ = bytescan.Float64LE(buf, pos+offStepdown)
	rec.stepover, _ = bytescan.Float64LE(buf, pos+offStepover)
	rec.feed, _ = bytescan.Float64LE(buf, pos+offFeed)
	rec.plunge, _ = bytescan.Float64LE(buf, pos+offPlunge)
	rec.flutes, _ = bytescan.Int32LE(buf, pos+offFlutes)
	rec.spindle, _ = bytescan.Int32LE(buf, pos+offSpindle)
	rec.toolNumber, _ = bytescan.Int32LE(buf, pos+offToolNumber)
	nameLen, _ := bytescan.Int32LE(buf, pos+offNameLen)

	if nameLen < 1 || nameLen > maxNameLen {
		return record{}, false
	}
	if !bytescan.Finite(rec.diameter) || rec.diameter <= 0 || rec.diameter >= 100 {
		return record{}, false
	}
	if rec.spindle <= 0 || rec.spindle >= 1000000 {
		return record{}, false
	}
	if !bytescan.Finite(rec.feed) || rec.feed < 0 {
		return record{}, false
	}
	if !bytescan.In(buf, rec.nameOffset, int(nameLen)) {
		return record{}, false
	}
	rec.name = decodeName(buf[rec.nameOffset : rec.nameOffset+int(nameLen)])
	if rec.name == "" {
		return record{}, false
	}
	return rec, true
}

// collect builds tools in scan order, keeping one record per name offset.
func collect(records []record, category string) []tool.Tool {
	seen := make(map[int]bool, len(records))
	tools := make([]tool.Tool, 0, len(records))
	for _, rec := range records {
		if seen[rec.nameOffset] {
			continue
		}
		seen[rec.nameOffset] = true
		tools = append(tools, rec.toTool(category))
	}
	return tools
}

func (r record) toTool(category string) tool.Tool {
	flutes := int(r.flutes)
	if flutes == 0 {
		flutes = 2
	}
	t := tool.Tool{
		Name:          r.name,
		SourceType:    typemap.Aspire9Name(int(r.subtype)),
		Diameter:      r.diameter,
		FluteCount:    flutes,
		IncludedAngle: includedAngle(r.header),
		FeedRate:      units.PerMinuteToPerSecond(r.feed),
		PlungeRate:    units.PerMinuteToPerSecond(r.plunge),
		PassDepth:     r.stepdown,
		StepOver:      r.stepover,
		SpindleSpeed:  float64(r.spindle),
		TipRadius:     r.radius,
		MetricTool:    false,
		Category:      category,
	}
	return t.Typed(typemap.Aspire9(int(r.subtype), r.name))
}

// includedAngle derives the V angle in degrees, rounded to one decimal.
func includedAngle(h header) float64 {
	if !angledSubtypes[h.subtype] || h.tip <= 0 {
		return 0
	}
	deg := 2 * math.Atan(h.radius/h.tip) * 180 / math.Pi
	return math.Round(deg*10) / 10
}

func decodeName(b []byte) string {
	return strings.TrimSpace(bytescan.Latin1(bytescan.TrimNUL(b)))
}
