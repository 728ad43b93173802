package timebin

import (
	"fmt"
	"strings"
	"time"

	"github.com/energyplot/energyplot/pkg/models"
)

// Granularity selects the width of histogram time buckets.
type Granularity int

const (
	Year Granularity = iota
	Month
	Day
	Hour
	Minute
	Second
)

// ParseGranularity parses a config string into a Granularity
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return Year, nil
	case "month":
		return Month, nil
	case "day":
		return Day, nil
	case "hour":
		return Hour, nil
	case "minute":
		return Minute, nil
	case "second":
		return Second, nil
	default:
		return 0, fmt.Errorf("unknown granularity %q (available: year, month, day, hour, minute, second)", s)
	}
}

func (g Granularity) String() string {
	switch g {
	case Year:
		return "year"
	case Month:
		return "month"
	case Day:
		return "day"
	case Hour:
		return "hour"
	case Minute:
		return "minute"
	case Second:
		return "second"
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// increment returns the bucket width in seconds for the uniform granularities,
// or 0 for the calendar-based ones.
func (g Granularity) increment() int64 {
	switch g {
	case Day:
		return 86400
	case Hour:
		return 3600
	case Minute:
		return 60
	case Second:
		return 1
	}
	return 0
}

// Timestamp converts a TimeKey to Unix seconds. Unset Month and Day default
// to 1 and the zone offset is applied as a fixed UTC offset. Combinations
// that do not form a valid calendar date (e.g. day 31 in a 30-day month) are
// rejected rather than normalized.
func Timestamp(k models.TimeKey) (int64, error) {
	month := k.Month
	if month == 0 {
		month = 1
	}
	day := k.Day
	if day == 0 {
		day = 1
	}

	loc := time.UTC
	if k.Zone != 0 {
		loc = time.FixedZone("", int(k.Zone*3600))
	}

	t := time.Date(k.Year, time.Month(month), day, k.Hour, k.Minute, k.Second, 0, loc)

	// time.Date normalizes out-of-range components, so a round-trip mismatch
	// means the key was not a real date.
	if t.Year() != k.Year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != k.Hour || t.Minute() != k.Minute || t.Second() != k.Second {
		return 0, fmt.Errorf("invalid date %04d-%02d-%02d %02d:%02d:%02d",
			k.Year, month, day, k.Hour, k.Minute, k.Second)
	}

	return t.Unix(), nil
}

// Edges generates the strictly increasing bucket boundaries covering
// [min, max], with at least one bucket past the max so the last partial
// period is never lost. Year and month buckets follow the calendar, since
// those periods have variable length; the finer granularities step uniformly
// in seconds.
func Edges(min, max models.TimeKey, g Granularity) ([]float64, error) {
	switch g {
	case Year, Month:
		monthsPerYear := 1
		if g == Month {
			monthsPerYear = 12
		}

		var edges []float64
		for y := min.Year; y <= max.Year; y++ {
			for m := 1; m <= monthsPerYear; m++ {
				ts, err := Timestamp(models.TimeKey{Year: y, Month: m})
				if err != nil {
					return nil, err
				}
				edges = append(edges, float64(ts))
			}
		}

		// Closing edge at Jan 1 of the following year covers the last
		// partial period.
		ts, err := Timestamp(models.TimeKey{Year: max.Year + 1})
		if err != nil {
			return nil, err
		}
		edges = append(edges, float64(ts))
		return edges, nil

	case Day, Hour, Minute, Second:
		tsMin, err := Timestamp(min)
		if err != nil {
			return nil, fmt.Errorf("range start: %w", err)
		}
		tsMax, err := Timestamp(max)
		if err != nil {
			return nil, fmt.Errorf("range end: %w", err)
		}
		if tsMax < tsMin {
			return nil, fmt.Errorf("inverted time range: %d after %d", tsMin, tsMax)
		}

		inc := g.increment()
		var edges []float64
		for ts := tsMin; ts < tsMax+2*inc; ts += inc {
			edges = append(edges, float64(ts))
		}
		return edges, nil
	}

	return nil, fmt.Errorf("unsupported granularity %v", g)
}
