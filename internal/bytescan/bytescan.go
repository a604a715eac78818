// Package bytescan holds bounds-checked little-endian readers and text
// decoders shared by the binary tool-library scanners.
//
// Every reader returns ok=false instead of panicking when the requested
// window falls outside the buffer, so scanners can test arbitrary offsets.
package bytescan

import (
	"bytes"
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// In reports whether [off, off+n) lies inside buf.
func In(buf []byte, off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(buf)-n
}

// Int16LE reads a signed 16-bit little-endian integer.
func Int16LE(buf []byte, off int) (int16, bool) {
	if !In(buf, off, 2) {
		return 0, false
	}
	return int16(binary.LittleEndian.Uint16(buf[off:])), true
}

// Int32LE reads a signed 32-bit little-endian integer.
func Int32LE(buf []byte, off int) (int32, bool) {
	if !In(buf, off, 4) {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(buf[off:])), true
}

// Float32LE reads an IEEE-754 single. Non-finite values are returned as read.
func Float32LE(buf []byte, off int) (float64, bool) {
	if !In(buf, off, 4) {
		return 0, false
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))), true
}

// Float64LE reads an IEEE-754 double.
func Float64LE(buf []byte, off int) (float64, bool) {
	if !In(buf, off, 8) {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:])), true
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FindAll returns the offset of every occurrence of pattern in buf,
// including overlapping ones, in ascending order.
func FindAll(buf, pattern []byte) []int {
	if len(pattern) == 0 {
		return nil
	}
	var offsets []int
	pos := 0
	for pos < len(buf) {
		idx := bytes.Index(buf[pos:], pattern)
		if idx < 0 {
			break
		}
		offsets = append(offsets, pos+idx)
		pos += idx + 1
	}
	return offsets
}

// TrimNUL drops trailing zero bytes.
func TrimNUL(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

// Latin1 decodes single-byte text as ISO-8859-1.
func Latin1(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// UTF16LE decodes little-endian UTF-16 code units. A trailing odd byte is
// ignored.
func UTF16LE(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
