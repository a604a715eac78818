// Package tool provides the intermediate tool record shared by every parser.
package tool

// Type is a canonical tool shape understood by the target tool database.
// The zero value means the source type has no canonical equivalent.
type Type string

const (
	Incompatible Type = ""
	EndMill      Type = "End Mill"
	BallMill     Type = "Ball Mill"
	VBit         Type = "V-Bit"
	Drill        Type = "Drill"
	Scribe       Type = "Scribe"
	RoundOver    Type = "Round-over"
)

// DefaultCategory is used when a source supplies no category.
const DefaultCategory = "Default"

// Compatible reports whether t names a canonical type.
func (t Type) Compatible() bool {
	return t != Incompatible
}

// Tool is the format-agnostic record produced by every parser.
//
// Numeric geometry and rate fields are already expressed in the unit system
// declared by MetricTool: mm and mm/sec when true, inch and inch/sec when false.
type Tool struct {
	Name          string  `json:"name"`
	Type          Type    `json:"type,omitempty"`
	Compatible    bool    `json:"compatible"`
	SourceType    string  `json:"sourceType"`
	Diameter      float64 `json:"diameter"`
	FluteCount    int     `json:"fluteCount"`
	IncludedAngle float64 `json:"includedAngle"`
	Length        float64 `json:"length"`
	Notes         string  `json:"notes"`
	FeedRate      float64 `json:"feedRate"`
	PlungeRate    float64 `json:"plungeRate"`
	PassDepth     float64 `json:"passDepth"`
	StepOver      float64 `json:"stepOver"`
	SpindleSpeed  float64 `json:"spindleSpeed"`
	TipRadius     float64 `json:"tipRadius"`
	MetricTool    bool    `json:"metricTool"`
	Category      string  `json:"category"`
}

// Typed returns a copy of t with the canonical type and compatibility set
// together so the two can never disagree.
func (t Tool) Typed(typ Type) Tool {
	t.Type = typ
	t.Compatible = typ.Compatible()
	return t
}

// CategoryOrDefault returns the tool category, or DefaultCategory when empty.
func (t Tool) CategoryOrDefault() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}
