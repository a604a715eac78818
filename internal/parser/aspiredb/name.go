package aspiredb

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tooldecoder/tooldecoder/internal/typemap"
)

// unknownToolType labels a tool whose tool_type column is NULL.
const unknownToolType = "Unknown"

// Geometry carries the values a name template may reference. Nil pointers
// are NULL columns.
type Geometry struct {
	ToolType      *int
	Imperial      bool
	Diameter      *float64
	IncludedAngle *float64
	FlatDiameter  *float64
	TipRadius     *float64
}

var tokenPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ResolveName expands an Aspire name template such as
// `{Tool Type} ({Diameter|F} inch)`. Tokens are {Field} or {Field|Format};
// unknown fields are left verbatim. Imperial diameters always render as
// fractions.
func ResolveName(format string, g Geometry) string {
	if format == "" {
		return ""
	}

	name := tokenPattern.ReplaceAllStringFunc(format, func(match string) string {
		token := match[1 : len(match)-1]
		field, _, _ := strings.Cut(token, "|")

		switch strings.TrimSpace(field) {
		case "Tool Type":
			if g.ToolType == nil {
				return unknownToolType
			}
			return typemap.AspireName(*g.ToolType)
		case "Diameter":
			if g.Imperial {
				return FormatFraction(g.Diameter)
			}
			if g.Diameter == nil {
				return "0"
			}
			return formatNumber(*g.Diameter)
		case "Included Angle":
			return formatOptional(g.IncludedAngle)
		case "Flat Diameter":
			return formatOptional(g.FlatDiameter)
		case "Tip Radius":
			return formatOptional(g.TipRadius)
		default:
			return match
		}
	})

	return strings.TrimSpace(name)
}

const fractionTolerance = 0.01

// FormatFraction renders inches as a whole number plus the nearest n/32
// fraction, e.g. 0.25 -> "1/4", 1.375 -> "1 3/8". Values that sit further
// than 0.01 from every fraction fall back to a trimmed decimal.
func FormatFraction(inches *float64) string {
	if inches == nil {
		return "0"
	}
	v := *inches
	whole := math.Floor(v)
	frac := v - whole

	if frac < 0.001 {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}

	bestNum, bestDiff := 0, math.Inf(1)
	for num := 1; num <= 32; num++ {
		diff := math.Abs(frac - float64(num)/32)
		if diff < bestDiff {
			bestNum, bestDiff = num, diff
		}
	}

	if bestDiff > fractionTolerance {
		s := strconv.FormatFloat(v, 'f', 4, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	}

	if bestNum == 32 {
		return strconv.FormatFloat(whole+1, 'f', 0, 64)
	}

	num, den := reduce(bestNum, 32)
	fraction := strconv.Itoa(num) + "/" + strconv.Itoa(den)
	if whole > 0 {
		return strconv.FormatFloat(whole, 'f', 0, 64) + " " + fraction
	}
	return fraction
}

func reduce(num, den int) (int, int) {
	for num%2 == 0 && den > 1 {
		num /= 2
		den /= 2
	}
	return num, den
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
