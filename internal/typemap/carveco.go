package typemap

import (
	"regexp"
	"strings"

	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// CarveCo tool-type markers as they appear in .tdb files.
const (
	MarkerSlotDrill           = "tpmDB_SlotDrillTool"
	MarkerBallnose            = "tpmDB_BallnoseTool"
	MarkerFlatConical         = "tpmDB_FlatConicalTool"
	MarkerRadiusedConical     = "tpmDB_RadiusedConicalTool"
	MarkerVBit                = "tpmDB_VBitTool"
	MarkerOgee                = "tpmDB_OgeeTool"
	MarkerRomanOgee           = "tpmDB_RomanOgeeTool"
	MarkerRoundover           = "tpmDB_RoundoverTool"
	MarkerRaisedPanelCove     = "tpmDB_RaisedPanelCoveTool"
	MarkerRaisedPanelStraight = "tpmDB_RaisedPanelStraightTool"
	MarkerRaisedPanelOgee     = "tpmDB_RaisedPanelOgeeTool"
)

// CarveCoMarkers lists every tool-type marker.
var CarveCoMarkers = []string{
	MarkerSlotDrill,
	MarkerBallnose,
	MarkerFlatConical,
	MarkerRadiusedConical,
	MarkerVBit,
	MarkerOgee,
	MarkerRomanOgee,
	MarkerRoundover,
	MarkerRaisedPanelCove,
	MarkerRaisedPanelStraight,
	MarkerRaisedPanelOgee,
}

var carvecoTypes = map[string]tool.Type{
	MarkerSlotDrill: tool.EndMill,
	MarkerBallnose:  tool.BallMill,
	MarkerVBit:      tool.VBit,
	MarkerRoundover: tool.RoundOver,
}

// CarveCo maps a tool-type marker.
func CarveCo(marker string) tool.Type {
	return carvecoTypes[marker]
}

// CarveCoName strips the marker decoration: "tpmDB_VBitTool" -> "VBit".
// An empty marker yields "Unknown".
func CarveCoName(marker string) string {
	if marker == "" {
		return "Unknown"
	}
	name := strings.Replace(marker, "tpmDB_", "", 1)
	return strings.Replace(name, "Tool", "", 1)
}

// NamePattern infers a CarveCo marker from a tool name.
type NamePattern struct {
	Regex  *regexp.Regexp
	Marker string
}

// namePatterns is ordered: earlier entries win. "Conical Rad" must stay ahead
// of the bare "Conical" entry and "Roman Ogee" is shadowed by "Ogee".
var namePatterns = []NamePattern{
	{regexp.MustCompile(`(?i)\bEnd\s*Mill\b`), MarkerSlotDrill},
	{regexp.MustCompile(`(?i)\bSlot\s*Drill\b`), MarkerSlotDrill},
	{regexp.MustCompile(`(?i)\bBall\s*Nos[ea]\b`), MarkerBallnose},
	{regexp.MustCompile(`(?i)\bV[- ]?Bit\b`), MarkerVBit},
	{regexp.MustCompile(`(?i)\bRoundover\b`), MarkerRoundover},
	{regexp.MustCompile(`(?i)\bOgee\b`), MarkerOgee},
	{regexp.MustCompile(`(?i)\bRoman\s*Ogee\b`), MarkerRomanOgee},
	{regexp.MustCompile(`(?i)\bConical\s*Flat\b`), MarkerFlatConical},
	{regexp.MustCompile(`(?i)\bConical\s*Rad\b`), MarkerRadiusedConical},
	{regexp.MustCompile(`(?i)\bConical\b`), MarkerFlatConical},
	{regexp.MustCompile(`(?i)\bDrill\b`), MarkerSlotDrill}, // CarveCo drills cut like end mills
	{regexp.MustCompile(`(?i)\bBurr\b`), MarkerSlotDrill},
	{regexp.MustCompile(`(?i)\bDished\s*Panel|Panel\s*Raiser\b`), MarkerRaisedPanelCove},
	{regexp.MustCompile(`(?i)\bBevel\s*Panel\b`), MarkerRaisedPanelStraight},
	{regexp.MustCompile(`(?i)\bRaised\s*Panel\b`), MarkerRaisedPanelOgee},
	{regexp.MustCompile(`(?i)\bVeining\b`), MarkerFlatConical},
	{regexp.MustCompile(`(?i)\btaper\b`), MarkerRadiusedConical},
}

// MarkerFromName returns the marker of the first pattern matching name, or ""
// when nothing matches.
func MarkerFromName(name string) string {
	for _, p := range namePatterns {
		if p.Regex.MatchString(name) {
			return p.Marker
		}
	}
	return ""
}
