// Package detect picks a binary dialect for files whose extension is shared
// by more than one producer.
//
// Detection looks only at a fixed-size prefix. Detectors run in order and the
// first match wins; supporting another dialect means appending a Detector.
package detect

import (
	"io"
	"os"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
	"github.com/tooldecoder/tooldecoder/internal/parser/aspirebin"
	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// PrefixSize is the number of leading bytes handed to detectors.
const PrefixSize = 256

// Binding names a recognized dialect and the function that parses it.
type Binding struct {
	Format string
	Name   string
	Parse  func(buf []byte) ([]tool.Tool, error)
}

// Detector inspects a file prefix and reports whether it recognizes it.
type Detector func(prefix []byte) (Binding, bool)

// ToolDetectors is the ordered chain consulted for .tool files.
var ToolDetectors = []Detector{
	Aspire9,
}

// Aspire 9 signature, offsets from the start of the file.
const (
	aspire9Version   = 3
	aspire9MarkerLen = 17
	aspire9Marker    = "mcToolGroupMarker"
	aspire9SigEnd    = 14 + aspire9MarkerLen
)

// Aspire9 recognizes the Vectric Aspire 9 .tool layout:
//
//	0x00 int32 LE = 3             file version
//	0x04 int32 LE                 record count (ignored)
//	0x08 FF FF                    record start marker
//	0x0A 01 00                    record type indicator
//	0x0C int16 LE = 17            marker name length
//	0x0E "mcToolGroupMarker"
func Aspire9(prefix []byte) (Binding, bool) {
	if len(prefix) < aspire9SigEnd {
		return Binding{}, false
	}
	if prefix[0] != aspire9Version || prefix[1] != 0 || prefix[2] != 0 || prefix[3] != 0 {
		return Binding{}, false
	}
	if prefix[8] != 0xFF || prefix[9] != 0xFF {
		return Binding{}, false
	}
	if prefix[10] != 0x01 || prefix[11] != 0x00 {
		return Binding{}, false
	}
	if prefix[12] != aspire9MarkerLen || prefix[13] != 0 {
		return Binding{}, false
	}
	if string(prefix[14:aspire9SigEnd]) != aspire9Marker {
		return Binding{}, false
	}
	return Binding{Format: "aspire9", Name: "Aspire 9", Parse: aspirebin.Parse}, true
}

// Detect runs detectors over prefix and returns the first match.
func Detect(prefix []byte, detectors []Detector) (Binding, bool) {
	if len(prefix) > PrefixSize {
		prefix = prefix[:PrefixSize]
	}
	for _, d := range detectors {
		if b, ok := d(prefix); ok {
			return b, true
		}
	}
	return Binding{}, false
}

// ReadPrefix reads up to PrefixSize bytes from the start of r.
func ReadPrefix(r io.Reader) ([]byte, error) {
	buf := make([]byte, PrefixSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}

// DetectFile reads the prefix of the file at path and runs the .tool chain.
// ok is false when no detector matched; err is set only for read failures.
func DetectFile(path string) (b Binding, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Binding{}, false, apperrors.SourceRead(err, "open %s", path)
	}
	defer f.Close()

	prefix, err := ReadPrefix(f)
	if err != nil {
		return Binding{}, false, apperrors.SourceRead(err, "read header of %s", path)
	}

	b, ok = Detect(prefix, ToolDetectors)
	return b, ok, nil
}
