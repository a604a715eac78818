// Package units converts between the linear and feed-rate units used by the
// supported CAM tool libraries.
package units

// MMPerInch is the exact inch to millimeter factor.
const MMPerInch = 25.4

// RateUnit is a source feed-rate unit code as stored by Aspire.
type RateUnit int

const (
	// RateMMPerSec is millimeters per second.
	RateMMPerSec RateUnit = 0

	// RateInPerMin is inches per minute.
	RateInPerMin RateUnit = 4
)

// InchToMM converts inches to millimeters.
func InchToMM(v float64) float64 {
	return v * MMPerInch
}

// MMToInch converts millimeters to inches.
func MMToInch(v float64) float64 {
	return v / MMPerInch
}

// PerMinuteToPerSecond converts a per-minute rate to per-second.
func PerMinuteToPerSecond(v float64) float64 {
	return v / 60
}

// RateToPerSecond converts a rate stored in the given unit into a per-second
// rate in the tool's own unit system (mm/sec when metric, in/sec otherwise).
// Unknown unit codes pass through unchanged.
func RateToPerSecond(v float64, unit RateUnit, metric bool) float64 {
	switch unit {
	case RateMMPerSec:
		if metric {
			return v
		}
		return MMToInch(v)
	case RateInPerMin:
		inPerSec := PerMinuteToPerSecond(v)
		if metric {
			return InchToMM(inPerSec)
		}
		return inPerSec
	default:
		return v
	}
}
