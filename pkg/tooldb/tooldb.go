// Package tooldb defines the MillMage tool database document written by the
// converter. These types can be imported by tools that read or merge the
// output.
package tooldb

import (
	"encoding/json"
	"io"
	"os"
	"sort"
)

// Record is one tool in the target database. The field set is fixed; readers
// reject records with missing or extra keys.
type Record struct {
	Category      string  `json:"Category"`
	Diameter      float64 `json:"Diameter"`
	FeedRate      float64 `json:"FeedRate"`
	FluteCount    int     `json:"FluteCount"`
	IncludedAngle float64 `json:"IncludedAngle"`
	Index         int     `json:"Index"` // position within Category, from 0
	Length        float64 `json:"Length"`
	MetricTool    bool    `json:"MetricTool"`
	Name          string  `json:"Name"`
	Notes         string  `json:"Notes"`
	PassDepth     float64 `json:"PassDepth"`
	PlungeRate    float64 `json:"PlungeRate"`
	Radius        float64 `json:"Radius"`
	RampAngle     float64 `json:"RampAngle"`
	RampRate      float64 `json:"RampRate"`
	SpindleSpeed  float64 `json:"SpindleSpeed"`
	StepOver      float64 `json:"StepOver"`
	TipLength     float64 `json:"TipLength"`
	ToolSpecURL   string  `json:"ToolSpecURL"`
	Type          string  `json:"Type"`
	Vendor        string  `json:"Vendor"`
}

// FieldCount is the number of keys every serialized Record carries.
const FieldCount = 21

// Document maps category -> "{uuid}" -> record.
type Document map[string]map[string]Record

// Categories returns the category names in sorted order.
func (d Document) Categories() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of records.
func (d Document) Len() int {
	n := 0
	for _, tools := range d {
		n += len(tools)
	}
	return n
}

// Ordered returns the records of one category by Index.
func (d Document) Ordered(category string) []Record {
	records := make([]Record, 0, len(d[category]))
	for _, r := range d[category] {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Index < records[j].Index })
	return records
}

// Encode writes the document as JSON. An empty indent writes compact output.
func (d Document) Encode(w io.Writer, indent string) error {
	enc := json.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(d)
}

// Decode reads a document.
func Decode(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadFile decodes the document stored at path.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
