package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/energyplot/energyplot/internal/chart"
	"github.com/energyplot/energyplot/internal/histogram"
	"github.com/energyplot/energyplot/internal/loader"
	"github.com/energyplot/energyplot/internal/timebin"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var plotCmd = &cobra.Command{
	Use:   "plot <output_dir> <input_csv>",
	Short: "Build binned histograms and the stacked chart from a CSV",
	Long: `Reads the consumption CSV, buckets every row by time at the configured
granularity, and writes one JSON histogram per source, the stacked chart PNG,
and the combined run archive into the output directory.`,
	Args: cobra.ExactArgs(2),
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	outDir, inpFile := args[0], args[1]

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gran, err := timebin.ParseGranularity(cfg.GetGranularity())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Load and filter the input rows
	data, err := loader.Load(inpFile, cfg.GetStartYear())
	if err != nil {
		return fmt.Errorf("loading %s: %w", inpFile, err)
	}
	if len(data.Rows) == 0 {
		return fmt.Errorf("no rows left in %s after year %d", inpFile, cfg.GetStartYear())
	}
	fmt.Printf("Loaded %d rows, %d series from %s\n", len(data.Rows), len(data.ValueCols), inpFile)

	// Generate bucket boundaries covering the observed time range
	edges, err := timebin.Edges(data.MinTime, data.MaxTime, gran)
	if err != nil {
		return fmt.Errorf("generating bucket edges: %w", err)
	}
	fmt.Printf("Bucketing %d..%d into %d %s buckets\n",
		data.MinTime.Year, data.MaxTime.Year, len(edges)-1, gran)

	// One histogram per source column plus the synthetic Sum series
	cols := append(append([]string{}, data.ValueCols...), histogram.SumSeries)
	hists := make(map[string]*histogram.Histogram, len(cols))
	for _, name := range cols {
		h, err := histogram.New(name, fmt.Sprintf("%s (TWh)", name), edges)
		if err != nil {
			return err
		}
		hists[name] = h
	}

	for _, row := range data.Rows {
		ts, err := timebin.Timestamp(row.Time)
		if err != nil {
			return fmt.Errorf("row for %s: %w", row.Entity, err)
		}
		for name, v := range row.Values {
			hists[name].Fill(float64(ts), v)
		}
		hists[histogram.SumSeries].Fill(float64(ts), row.Total)
	}

	if sum := hists[histogram.SumSeries]; sum.Underflow != 0 || sum.Overflow != 0 {
		fmt.Printf("Warning: %.2f TWh fell outside the bucket range\n", sum.Underflow+sum.Overflow)
	}

	// Per-series histogram files
	for _, name := range cols {
		path := filepath.Join(outDir, "h_"+name+".json")
		buf, err := json.MarshalIndent(hists[name], "", "  ")
		if err != nil {
			return fmt.Errorf("encoding histogram %s: %w", name, err)
		}
		if err := os.WriteFile(path, buf, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Printf("Wrote %d histogram files\n", len(cols))

	// Stacked chart with Sum overlay
	stack := histogram.NewStack("Global primary energy consumption stacked by source", hists)
	chartPath := filepath.Join(outDir, "c_stacked_energy.png")
	err = chart.Render(stack, chart.Options{
		Title:  stack.Title,
		Width:  vg.Length(cfg.GetPlotWidth()) * vg.Inch,
		Height: vg.Length(cfg.GetPlotHeight()) * vg.Inch,
		LogY:   cfg.LogY,
	}, chartPath)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	fmt.Printf("Wrote %s\n", chartPath)

	// Combined run archive
	archPath := dbPath
	if archPath == "" {
		archPath = filepath.Join(outDir, "energy_consumption.db")
	}
	arch, err := openArchive(archPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	runID, err := arch.SaveRun(inpFile, gran.String(), cfg.GetStartYear(), stack)
	if err != nil {
		return fmt.Errorf("archiving run: %w", err)
	}
	fmt.Printf("Archived run %s in %s\n", runID, archPath)

	return nil
}
