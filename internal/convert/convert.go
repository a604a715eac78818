// Package convert folds intermediate tools into a MillMage tool database.
package convert

import (
	"github.com/google/uuid"

	"github.com/tooldecoder/tooldecoder/internal/stats"
	"github.com/tooldecoder/tooldecoder/internal/tool"
	"github.com/tooldecoder/tooldecoder/pkg/tooldb"
)

// Defaults applied to fields no source format supplies.
const (
	DefaultRampAngle = 22.5
	DefaultTipLength = 0

	// rampRateFactor derives the ramp rate from the feed rate when no ramp
	// rate is configured.
	rampRateFactor = 0.8

	defaultFlutes = 2
)

// Settings are the values injected into every record.
type Settings struct {
	RampAngle   float64
	RampRate    *float64 // nil derives from each tool's feed rate
	Vendor      string
	ToolSpecURL string
	TipLength   float64
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		RampAngle: DefaultRampAngle,
		TipLength: DefaultTipLength,
	}
}

// Overrides replace individual settings. Nil fields keep the current value.
type Overrides struct {
	RampAngle   *float64
	RampRate    *float64
	Vendor      *string
	ToolSpecURL *string
	TipLength   *float64
}

// Apply returns s with every non-nil override applied.
func (s Settings) Apply(o Overrides) Settings {
	if o.RampAngle != nil {
		s.RampAngle = *o.RampAngle
	}
	if o.RampRate != nil {
		v := *o.RampRate
		s.RampRate = &v
	}
	if o.Vendor != nil {
		s.Vendor = *o.Vendor
	}
	if o.ToolSpecURL != nil {
		s.ToolSpecURL = *o.ToolSpecURL
	}
	if o.TipLength != nil {
		s.TipLength = *o.TipLength
	}
	return s
}

// NewID returns a fresh brace-delimited identifier.
func NewID() string {
	return "{" + uuid.NewString() + "}"
}

// Convert builds the target document from the compatible tools, in order.
// Index counts from 0 within each category. No unit conversion happens here.
func Convert(tools []tool.Tool, s Settings) (tooldb.Document, stats.Counts) {
	doc := make(tooldb.Document)
	next := make(map[string]int)

	for _, t := range tools {
		if !t.Compatible {
			continue
		}
		category := t.CategoryOrDefault()
		if doc[category] == nil {
			doc[category] = make(map[string]tooldb.Record)
		}

		doc[category][NewID()] = record(t, category, next[category], s)
		next[category]++
	}

	return doc, stats.Count(tools)
}

func record(t tool.Tool, category string, index int, s Settings) tooldb.Record {
	flutes := t.FluteCount
	if flutes == 0 {
		flutes = defaultFlutes
	}

	rampRate := t.FeedRate * rampRateFactor
	if s.RampRate != nil {
		rampRate = *s.RampRate
	}

	return tooldb.Record{
		Category:      category,
		Diameter:      t.Diameter,
		FeedRate:      t.FeedRate,
		FluteCount:    flutes,
		IncludedAngle: t.IncludedAngle,
		Index:         index,
		Length:        t.Length,
		MetricTool:    t.MetricTool,
		Name:          t.Name,
		Notes:         t.Notes,
		PassDepth:     t.PassDepth,
		PlungeRate:    t.PlungeRate,
		Radius:        t.TipRadius,
		RampAngle:     s.RampAngle,
		RampRate:      rampRate,
		SpindleSpeed:  t.SpindleSpeed,
		StepOver:      t.StepOver,
		TipLength:     s.TipLength,
		ToolSpecURL:   s.ToolSpecURL,
		Type:          string(t.Type),
		Vendor:        s.Vendor,
	}
}
