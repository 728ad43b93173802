package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	inspectRun    string
	inspectSeries string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the buckets of an archived series",
	Long:  `Displays the bucket values of one series from an archived run.`,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRun, "run", "", "Run ID (default: latest run)")
	inspectCmd.Flags().StringVar(&inspectSeries, "series", "Sum", "Series name to inspect")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	// Open archive
	arch, err := openArchive(getDBPath())
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	runID := inspectRun
	if runID == "" {
		latest, err := arch.LatestRun()
		if err != nil {
			return fmt.Errorf("finding latest run: %w", err)
		}
		if latest == nil {
			return fmt.Errorf("no archived runs found. Run 'energyplot plot' first")
		}
		runID = latest.ID
	}

	bins, err := arch.LoadSeries(runID, inspectSeries)
	if err != nil {
		return fmt.Errorf("loading series %s: %w", inspectSeries, err)
	}
	if len(bins) == 0 {
		return fmt.Errorf("no series %q in run %s", inspectSeries, runID)
	}

	fmt.Printf("\n%s buckets of run %s:\n", inspectSeries, runID)
	fmt.Println("----------------------------------------")
	fmt.Printf("%-12s  %14s\n", "Bucket", "TWh")
	fmt.Println("----------------------------------------")

	var total float64
	for _, b := range bins {
		start := time.Unix(int64(b.Start), 0).UTC()
		fmt.Printf("%-12s  %14s\n", start.Format("2006-01-02"), humanize.CommafWithDigits(b.Value, 2))
		total += b.Value
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("Total: %s TWh (%d buckets)\n", humanize.CommafWithDigits(total, 2), len(bins))

	return nil
}
