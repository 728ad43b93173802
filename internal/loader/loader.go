package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/energyplot/energyplot/internal/timebin"
	"github.com/energyplot/energyplot/pkg/models"
)

// Axis and time column names recognized in the CSV header. Every other column
// is treated as an energy-source value column in TWh.
var (
	axisColumns = map[string]bool{"Entity": true, "Code": true}
	timeColumns = map[string]bool{
		"Year": true, "Month": true, "Day": true,
		"Hour": true, "Minute": true, "Second": true, "Zone": true,
	}
)

// Data is the loaded and aggregated form of one input CSV.
type Data struct {
	Rows      []models.Row
	ValueCols []string // cleaned series names, header order, Sum excluded
	MinTime   models.TimeKey
	MaxTime   models.TimeKey
}

// Load reads the CSV at path into rows, dropping rows at or before startYear,
// computing each row's Total, and tracking the observed time range. Value
// cells left empty parse as 0.
func Load(path string, startYear int) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv file: %s", path)
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	if _, ok := colIdx["Year"]; !ok {
		return nil, fmt.Errorf("missing required column Year in %s", path)
	}

	data := &Data{}
	valueIdx := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if axisColumns[name] || timeColumns[name] {
			continue
		}
		clean := CleanSeriesName(name)
		data.ValueCols = append(data.ValueCols, clean)
		valueIdx[clean] = i
	}

	var minTS, maxTS int64
	for n, rec := range records[1:] {
		key, err := parseTimeKey(rec, colIdx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		if key.Year <= startYear {
			continue
		}

		row := models.Row{
			Time:   key,
			Values: make(map[string]float64, len(valueIdx)),
		}
		if i, ok := colIdx["Entity"]; ok {
			row.Entity = rec[i]
		}
		if i, ok := colIdx["Code"]; ok {
			row.Code = rec[i]
		}

		for name, i := range valueIdx {
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing %s: %w", n+2, name, err)
			}
			row.Values[name] = v
			row.Total += v
		}

		ts, err := timebin.Timestamp(key)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		if len(data.Rows) == 0 || ts < minTS {
			minTS = ts
			data.MinTime = key
		}
		if len(data.Rows) == 0 || ts > maxTS {
			maxTS = ts
			data.MaxTime = key
		}
		data.Rows = append(data.Rows, row)
	}

	return data, nil
}

// parseTimeKey extracts the time columns of one record.
func parseTimeKey(rec []string, colIdx map[string]int) (models.TimeKey, error) {
	var key models.TimeKey
	intFields := []struct {
		name string
		dst  *int
	}{
		{"Year", &key.Year},
		{"Month", &key.Month},
		{"Day", &key.Day},
		{"Hour", &key.Hour},
		{"Minute", &key.Minute},
		{"Second", &key.Second},
	}
	for _, f := range intFields {
		i, ok := colIdx[f.name]
		if !ok {
			continue
		}
		cell := strings.TrimSpace(rec[i])
		if cell == "" {
			continue
		}
		v, err := strconv.Atoi(cell)
		if err != nil {
			return models.TimeKey{}, fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = v
	}
	if i, ok := colIdx["Zone"]; ok {
		cell := strings.TrimSpace(rec[i])
		if cell != "" {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return models.TimeKey{}, fmt.Errorf("parsing Zone: %w", err)
			}
			key.Zone = v
		}
	}
	return key, nil
}

// CleanSeriesName strips the unit suffixes and spaces from a CSV column
// header, e.g. "Wind (TWh, substituted energy)" -> "Wind".
func CleanSeriesName(name string) string {
	name = strings.ReplaceAll(name, "(TWh, substituted energy)", "")
	name = strings.ReplaceAll(name, "(TWh)", "")
	return strings.ReplaceAll(name, " ", "")
}
