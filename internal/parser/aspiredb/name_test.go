package aspiredb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func code(v int) *int { return &v }

func TestFormatFraction(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{ptr(0.25), "1/4"},
		{ptr(1.0), "1"},
		{ptr(0.125), "1/8"},
		{ptr(1.375), "1 3/8"},
		{ptr(0.03125), "1/32"},
		{ptr(0.0625), "1/16"},
		{ptr(0.5005), "1/2"},
		{ptr(0.998), "1"},
		{ptr(1.995), "2"},
		{ptr(2.992), "3"},
		{ptr(2.0), "2"},
		{ptr(0.0), "0"},
		{ptr(0.2), "0.2"},
		{ptr(1.11), "1.11"},
		{ptr(0.11), "0.11"},
		{nil, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFraction(tt.in))
	}
}

func TestResolveName(t *testing.T) {
	imperial := Geometry{ToolType: code(1), Imperial: true, Diameter: ptr(0.25)}
	assert.Equal(t, "End Mill (1/4 inch)", ResolveName("{Tool Type} ({Diameter|F} inch)", imperial))
	assert.Equal(t, "1/4", ResolveName("{Diameter}", imperial), "imperial diameters are always fractions")

	metric := Geometry{ToolType: code(3), Diameter: ptr(6.35), IncludedAngle: ptr(60)}
	assert.Equal(t, "V-Bit 60° 6.35mm", ResolveName("{Tool Type} {Included Angle}° {Diameter}mm", metric))
	assert.Equal(t, "Flat:", ResolveName("Flat: {Flat Diameter}", metric))
	assert.Equal(t, "R0.5", ResolveName("R{Tip Radius}", Geometry{TipRadius: ptr(0.5)}))
	assert.Equal(t, "0", ResolveName("{Diameter}", Geometry{}))
	assert.Equal(t, "{Vendor} cutter", ResolveName("{Vendor} cutter", metric))
	assert.Equal(t, "Unknown (42)", ResolveName("{ Tool Type }", Geometry{ToolType: code(42)}))
	assert.Equal(t, "Unknown 6", ResolveName("{Tool Type} {Diameter}", Geometry{Diameter: ptr(6)}), "NULL tool_type")
	assert.Empty(t, ResolveName("", metric))
}
