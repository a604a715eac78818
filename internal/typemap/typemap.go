// Package typemap maps source tool type markers onto canonical tool types.
//
// Every table answers tool.Incompatible for codes it does not list. Form tools
// (Aspire code 8) are resolved at runtime from the tool's label.
package typemap

import (
	"fmt"
	"strings"

	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// FormToolCode is the Aspire code shared by every profile/form cutter.
const FormToolCode = 8

// ============================================================
// Aspire 12 (.vtdb)
// ============================================================

var aspireTypes = map[int]tool.Type{
	0: tool.BallMill,
	1: tool.EndMill,
	3: tool.VBit,
	6: tool.Drill,
	9: tool.Scribe,
}

var aspireNames = map[int]string{
	0: "Ball Nose",
	1: "End Mill",
	3: "V-Bit",
	4: "Engraving/Tapered",
	5: "Tapered Ball Nose",
	6: "Drill",
	8: "Form Tool",
	9: "Diamond Drag",
}

// Aspire maps an Aspire 12 tool_type code. label is the name template or tree
// label used to disambiguate form tools.
func Aspire(code int, label string) tool.Type {
	if code == FormToolCode {
		return formTool(label)
	}
	return aspireTypes[code]
}

// AspireName returns the display name of an Aspire 12 tool_type code.
func AspireName(code int) string {
	if name, ok := aspireNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

// ============================================================
// Aspire 9 (.tool)
// ============================================================

var aspire9Types = map[int]tool.Type{
	0: tool.BallMill,
	1: tool.EndMill,
	2: tool.EndMill, // radiused end mill
	3: tool.VBit,
	6: tool.Drill,
	9: tool.Scribe,
}

var aspire9Names = map[int]string{
	0: "Ball Nose",
	1: "End Mill",
	2: "Radiused End Mill",
	3: "V-Bit",
	4: "Engraving",
	6: "Drill",
	8: "Form Tool",
	9: "Diamond Drag",
}

// Aspire9 maps an Aspire 9 tool subtype; name disambiguates form tools.
func Aspire9(subtype int, name string) tool.Type {
	if subtype == FormToolCode {
		return formTool(name)
	}
	return aspire9Types[subtype]
}

// Aspire9Name returns the display name of an Aspire 9 subtype.
func Aspire9Name(subtype int) string {
	if name, ok := aspire9Names[subtype]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", subtype)
}

func formTool(label string) tool.Type {
	if strings.Contains(strings.ToLower(label), "roundover") {
		return tool.RoundOver
	}
	return tool.Incompatible
}

// ============================================================
// ESTLcam (.tl)
// ============================================================

var estlcamTypes = map[string]tool.Type{
	"Normal": tool.EndMill,
	"Radius": tool.EndMill,
	"Kugel":  tool.BallMill,
	"Bohrer": tool.Drill,
	"Fase":   tool.VBit,
	"Gravur": tool.VBit,
}

var estlcamNames = map[string]string{
	"Normal":  "End Mill",
	"Radius":  "Radiused End Mill",
	"Kugel":   "Ball Nose",
	"Kegel":   "Tapered/Conical",
	"Gravur":  "Engraving",
	"Bohrer":  "Drill",
	"Fase":    "Chamfer",
	"T_Slot":  "T-Slot",
	"Gewinde": "Threading",
	"Profil":  "Form/Profile",
	"Laser":   "Laser",
}

// ESTLcam maps an ESTLcam type tag.
func ESTLcam(tag string) tool.Type {
	return estlcamTypes[tag]
}

// ESTLcamName returns the display name of an ESTLcam type tag.
func ESTLcamName(tag string) string {
	if name, ok := estlcamNames[tag]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", tag)
}
