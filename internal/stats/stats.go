// Package stats tallies parsed and converted tools.
package stats

import (
	"sort"
	"time"

	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// Counts are the aggregate totals reported with every conversion.
type Counts struct {
	Total        int `json:"total"`
	Compatible   int `json:"compatible"`
	Incompatible int `json:"incompatible"`
}

// Count tallies compatibility over tools.
func Count(tools []tool.Tool) Counts {
	c := Counts{Total: len(tools)}
	for _, t := range tools {
		if t.Compatible {
			c.Compatible++
		}
	}
	c.Incompatible = c.Total - c.Compatible
	return c
}

// Bucket is one row of a breakdown.
type Bucket struct {
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Compatible int    `json:"compatible"`
}

// Summary is a per-file breakdown for the inspect report.
type Summary struct {
	Counts
	Format       string        `json:"format,omitempty"`
	ByCategory   []Bucket      `json:"by_category"`
	BySourceType []Bucket      `json:"by_source_type"`
	Elapsed      time.Duration `json:"elapsed_ns,omitempty"`
}

// Collector accumulates tools across one or more parse results.
type Collector struct {
	startTime    time.Time
	counts       Counts
	byCategory   map[string]*Bucket
	bySourceType map[string]*Bucket
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:    time.Now(),
		byCategory:   make(map[string]*Bucket),
		bySourceType: make(map[string]*Bucket),
	}
}

// Add records tools.
func (c *Collector) Add(tools ...tool.Tool) {
	for _, t := range tools {
		c.counts.Total++
		if t.Compatible {
			c.counts.Compatible++
		} else {
			c.counts.Incompatible++
		}
		bump(c.byCategory, t.CategoryOrDefault(), t.Compatible)
		bump(c.bySourceType, t.SourceType, t.Compatible)
	}
}

// Counts returns the running totals.
func (c *Collector) Counts() Counts {
	return c.counts
}

// Summary returns the breakdown so far. Buckets are sorted by name.
func (c *Collector) Summary(format string) *Summary {
	return &Summary{
		Counts:       c.counts,
		Format:       format,
		ByCategory:   sorted(c.byCategory),
		BySourceType: sorted(c.bySourceType),
		Elapsed:      time.Since(c.startTime),
	}
}

// Summarize is a one-shot Collector over tools.
func Summarize(format string, tools []tool.Tool) *Summary {
	c := NewCollector()
	c.Add(tools...)
	return c.Summary(format)
}

func bump(m map[string]*Bucket, name string, compatible bool) {
	b, ok := m[name]
	if !ok {
		b = &Bucket{Name: name}
		m[name] = b
	}
	b.Total++
	if compatible {
		b.Compatible++
	}
}

func sorted(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
