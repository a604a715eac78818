// Package aspiredb reads Vectric Aspire 12 .vtdb tool databases.
//
// A .vtdb file is a SQLite database. Tools are the join of geometry, cutting
// data, material and tool tree rows; only geometries with a material are read.
package aspiredb

import (
	"context"
	"database/sql"
	"net/url"
	"os"

	// SQLite driver (required for database/sql registration).
	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
	"github.com/tooldecoder/tooldecoder/internal/tool"
	"github.com/tooldecoder/tooldecoder/internal/typemap"
	"github.com/tooldecoder/tooldecoder/internal/units"
)

// Aspire geometry unit codes.
const (
	unitsMetric   = 0
	unitsImperial = 1
)

const toolQuery = `
	SELECT
		tg.name_format,
		tg.notes,
		tg.tool_type,
		tg.units,
		tg.diameter,
		tg.included_angle,
		tg.flat_diameter,
		tg.num_flutes,
		tg.flute_length,
		tg.tip_radius,
		tcd.rate_units,
		tcd.feed_rate,
		tcd.plunge_rate,
		tcd.spindle_speed,
		tcd.stepdown,
		tcd.stepover,
		m.name AS material_name,
		tte.name AS tree_name
	FROM tool_entity te
	JOIN tool_geometry tg ON te.tool_geometry_id = tg.id
	JOIN tool_cutting_data tcd ON te.tool_cutting_data_id = tcd.id
	LEFT JOIN material m ON te.material_id = m.id
	LEFT JOIN tool_tree_entry tte ON tte.tool_geometry_id = tg.id
	WHERE te.material_id IS NOT NULL
`

// row mirrors one result row of toolQuery. Every column may be NULL.
type row struct {
	nameFormat    sql.NullString
	notes         sql.NullString
	toolType      sql.NullInt64
	units         sql.NullInt64
	diameter      sql.NullFloat64
	includedAngle sql.NullFloat64
	flatDiameter  sql.NullFloat64
	numFlutes     sql.NullInt64
	fluteLength   sql.NullFloat64
	tipRadius     sql.NullFloat64
	rateUnits     sql.NullInt64
	feedRate      sql.NullFloat64
	plungeRate    sql.NullFloat64
	spindleSpeed  sql.NullFloat64
	stepdown      sql.NullFloat64
	stepover      sql.NullFloat64
	materialName  sql.NullString
	treeName      sql.NullString
}

// Open opens a .vtdb file read-only.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.SourceRead(err, "open %s", path)
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, apperrors.SourceRead(err, "open %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.SourceRead(err, "open %s", path)
	}
	return db, nil
}

// ParseFile opens path and parses every tool in it.
func ParseFile(ctx context.Context, path string) ([]tool.Tool, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return Parse(ctx, db)
}

// Parse reads every tool from an open Aspire 12 database.
func Parse(ctx context.Context, db *sql.DB) ([]tool.Tool, error) {
	rows, err := db.QueryContext(ctx, toolQuery)
	if err != nil {
		return nil, apperrors.SourceRead(err, "query tools")
	}
	defer rows.Close()

	var tools []tool.Tool
	for rows.Next() {
		var r row
		if err := rows.Scan(
			&r.nameFormat, &r.notes, &r.toolType, &r.units,
			&r.diameter, &r.includedAngle, &r.flatDiameter,
			&r.numFlutes, &r.fluteLength, &r.tipRadius,
			&r.rateUnits, &r.feedRate, &r.plungeRate, &r.spindleSpeed,
			&r.stepdown, &r.stepover,
			&r.materialName, &r.treeName,
		); err != nil {
			return nil, apperrors.SourceRead(err, "scan tool row")
		}
		tools = append(tools, r.toTool())
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.SourceRead(err, "read tool rows")
	}

	return tools, nil
}

func (r row) metric() bool {
	return r.units.Valid && r.units.Int64 == unitsMetric
}

func (r row) imperial() bool {
	return r.units.Valid && r.units.Int64 == unitsImperial
}

// rateUnit returns the stored rate unit, or an unknown code for NULL so the
// rate passes through unconverted.
func (r row) rateUnit() units.RateUnit {
	if !r.rateUnits.Valid {
		return units.RateUnit(-1)
	}
	return units.RateUnit(r.rateUnits.Int64)
}

func (r row) toTool() tool.Tool {
	metric := r.metric()

	// Form tools are told apart by their template, or the tree label when
	// the template is empty.
	label := r.nameFormat.String
	if label == "" {
		label = r.treeName.String
	}

	flutes := int(r.numFlutes.Int64)
	if flutes == 0 {
		flutes = 2
	}

	category := r.materialName.String
	if category == "" {
		category = tool.DefaultCategory
	}

	// A NULL tool_type has no table entry.
	sourceType, typ := unknownToolType, tool.Incompatible
	if r.toolType.Valid {
		code := int(r.toolType.Int64)
		sourceType, typ = typemap.AspireName(code), typemap.Aspire(code, label)
	}

	t := tool.Tool{
		Name:          ResolveName(r.nameFormat.String, r.geometry()),
		SourceType:    sourceType,
		Diameter:      r.diameter.Float64,
		FluteCount:    flutes,
		IncludedAngle: r.includedAngle.Float64,
		Length:        r.fluteLength.Float64,
		Notes:         r.notes.String,
		FeedRate:      units.RateToPerSecond(r.feedRate.Float64, r.rateUnit(), metric),
		PlungeRate:    units.RateToPerSecond(r.plungeRate.Float64, r.rateUnit(), metric),
		PassDepth:     r.stepdown.Float64,
		StepOver:      r.stepover.Float64,
		SpindleSpeed:  r.spindleSpeed.Float64,
		TipRadius:     r.tipRadius.Float64,
		MetricTool:    metric,
		Category:      category,
	}
	return t.Typed(typ)
}

func (r row) geometry() Geometry {
	g := Geometry{Imperial: r.imperial()}
	if r.toolType.Valid {
		code := int(r.toolType.Int64)
		g.ToolType = &code
	}
	if r.diameter.Valid {
		g.Diameter = &r.diameter.Float64
	}
	if r.includedAngle.Valid {
		g.IncludedAngle = &r.includedAngle.Float64
	}
	if r.flatDiameter.Valid {
		g.FlatDiameter = &r.flatDiameter.Float64
	}
	if r.tipRadius.Valid {
		g.TipRadius = &r.tipRadius.Float64
	}
	return g
}
