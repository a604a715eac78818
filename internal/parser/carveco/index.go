package carveco

import (
	"bytes"
	"sort"
	"strings"

	"github.com/tooldecoder/tooldecoder/internal/bytescan"
	"github.com/tooldecoder/tooldecoder/internal/typemap"
)

const (
	markerGroupStart = "tpmDB_GroupStart"
	markerGroupEnd   = "tpmDB_GroupEnd"
)

var (
	// utf16Prefix starts every length-prefixed UTF-16 string.
	utf16Prefix = []byte{0xFF, 0xFE, 0xFF}

	// subgroupSuffix precedes a subgroup name. The two bytes before it vary
	// (00 01 for the first subgroup of a group, 01 01 afterwards).
	subgroupSuffix = []byte{0x80, 0x02, 0xFF, 0xFE, 0xFF}

	// sectionEnd closes a run of tools of one type.
	sectionEnd = []byte{0x01, 0x0C, 0x80}
)

// operationTypes are subgroup names that repeat under every material. Any
// other subgroup name is a material and becomes the tool category.
var operationTypes = map[string]bool{
	"Roughing and 2D Finishing": true,
	"3D Finishing":              true,
	"Engraving":                 true,
	"V-Carving":                 true,
	"Ogee and Roundover":        true,
	"Raised Panel":              true,
	"End Mills":                 true,
	"Ball Nosed End Mills":      true,
}

// IsOperation reports whether a subgroup name is an operation type rather
// than a material.
func IsOperation(name string) bool {
	return operationTypes[name]
}

// Mark is a value that takes effect at a byte offset.
type Mark[T any] struct {
	Offset int
	Value  T
}

// Cascade is an offset-ordered sequence of marks. The mark in effect at an
// offset is the last one strictly before it.
type Cascade[T any] []Mark[T]

// At returns the most recent mark preceding offset.
func (c Cascade[T]) At(offset int) (Mark[T], bool) {
	i := sort.Search(len(c), func(i int) bool { return c[i].Offset >= offset })
	if i == 0 {
		return Mark[T]{}, false
	}
	return c[i-1], true
}

// TypeRange is the span in which tool records belong to one type marker.
type TypeRange struct {
	Start  int
	End    int
	Marker string
}

// Index is the structural map of a .tdb buffer built before any tool record
// is decoded.
type Index struct {
	Ranges     []TypeRange
	Units      Cascade[bool]
	Materials  Cascade[string]
	Operations Cascade[string]
}

// BuildIndex locates every marker, subgroup and section boundary in buf.
func BuildIndex(buf []byte) *Index {
	ix := &Index{}

	var typeMarks []Mark[string]
	for _, m := range typemap.CarveCoMarkers {
		for _, off := range bytescan.FindAll(buf, []byte(m)) {
			typeMarks = append(typeMarks, Mark[string]{Offset: off, Value: m})
		}
	}
	sort.Slice(typeMarks, func(i, j int) bool { return typeMarks[i].Offset < typeMarks[j].Offset })

	groupStarts := bytescan.FindAll(buf, []byte(markerGroupStart))
	groupEnds := bytescan.FindAll(buf, []byte(markerGroupEnd))

	// Unit context: the name following each group start.
	for _, off := range groupStarts {
		cursor := off + len(markerGroupStart)
		if cursor < len(buf) {
			cursor++ // type byte
		}
		name, n := readUTF16(buf, cursor)
		if n == 0 {
			continue
		}
		ix.Units = append(ix.Units, Mark[bool]{
			Offset: off,
			Value:  strings.Contains(strings.ToLower(name), "metric"),
		})
	}

	// Subgroups split into materials and operations.
	for _, off := range bytescan.FindAll(buf, subgroupSuffix) {
		name, n := readUTF16(buf, off+2)
		if n == 0 || name == "" {
			continue
		}
		mark := Mark[string]{Offset: off, Value: name}
		if IsOperation(name) {
			ix.Operations = append(ix.Operations, mark)
		} else {
			ix.Materials = append(ix.Materials, mark)
		}
	}

	boundaries := make([]int, 0, len(typeMarks)+len(groupStarts)+len(groupEnds))
	for _, m := range typeMarks {
		boundaries = append(boundaries, m.Offset)
	}
	boundaries = append(boundaries, bytescan.FindAll(buf, sectionEnd)...)
	boundaries = append(boundaries, groupStarts...)
	boundaries = append(boundaries, groupEnds...)
	sort.Ints(boundaries)

	for _, m := range typeMarks {
		end := len(buf)
		i := sort.SearchInts(boundaries, m.Offset+1)
		if i < len(boundaries) {
			end = boundaries[i]
		}
		ix.Ranges = append(ix.Ranges, TypeRange{Start: m.Offset, End: end, Marker: m.Value})
	}

	return ix
}

// MarkerAt returns the tool-type marker whose range contains offset, or "".
func (ix *Index) MarkerAt(offset int) string {
	i := sort.Search(len(ix.Ranges), func(i int) bool { return ix.Ranges[i].Start > offset })
	if i == 0 {
		return ""
	}
	r := ix.Ranges[i-1]
	if offset >= r.Start && offset < r.End {
		return r.Marker
	}
	return ""
}

// readUTF16 decodes FF FE FF <count> <count UTF-16LE units> at off.
// n is the number of bytes consumed; 0 means no string starts at off.
// A string whose body overruns the buffer decodes as empty.
func readUTF16(buf []byte, off int) (string, int) {
	if off < 0 || off+3 >= len(buf) {
		return "", 0
	}
	if !bytes.Equal(buf[off:off+3], utf16Prefix) {
		return "", 0
	}
	count := int(buf[off+3])
	if count == 0 {
		return "", 4
	}
	start := off + 4
	if !bytescan.In(buf, start, count*2) {
		return "", 4
	}
	return bytescan.UTF16LE(buf[start : start+count*2]), 4 + count*2
}
