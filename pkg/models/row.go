package models

// TimeKey is the partial timestamp carried by a row's time columns. Year is
// always set; a zero Month or Day means the start of the period, and the
// time-of-day fields default to midnight. Zone is a fixed UTC offset in hours.
type TimeKey struct {
	Year   int     `json:"year"`
	Month  int     `json:"month,omitempty"`
	Day    int     `json:"day,omitempty"`
	Hour   int     `json:"hour,omitempty"`
	Minute int     `json:"minute,omitempty"`
	Second int     `json:"second,omitempty"`
	Zone   float64 `json:"zone,omitempty"`
}

// Row represents a single record of the input CSV: one entity at one point in
// time with a consumed-energy quantity per source.
type Row struct {
	Entity string             `json:"entity"`
	Code   string             `json:"code"`
	Time   TimeKey            `json:"time"`
	Values map[string]float64 `json:"values"` // source name -> TWh
	Total  float64            `json:"total"`  // row-wise sum of Values
}

// Bin is one time bucket of a stored series.
type Bin struct {
	Index int     `json:"index"`
	Start float64 `json:"t_start"` // Unix seconds, inclusive
	End   float64 `json:"t_end"`   // Unix seconds, exclusive
	Value float64 `json:"twh"`
}
