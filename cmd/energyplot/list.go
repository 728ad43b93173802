package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listSeries bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs",
	Long:  `Displays all archived pipeline runs, newest first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listSeries, "series", false, "Also show the series of each run")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	// Open archive
	arch, err := openArchive(getDBPath())
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	runs, err := arch.ListRuns()
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs found")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("\nRun %s\n", run.ID)
		fmt.Println("----------------------------------------")
		fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Source:      %s\n", run.SourceFile)
		fmt.Printf("Granularity: %s (from year %d)\n", run.Granularity, run.StartYear)
		fmt.Printf("Series:      %d (%d buckets each)\n", run.SeriesCount, run.BinCount)

		if !listSeries {
			continue
		}

		infos, err := arch.ListHistograms(run.ID)
		if err != nil {
			return fmt.Errorf("listing series for %s: %w", run.ID, err)
		}

		fmt.Println("----------------------------------------")
		fmt.Printf("%-20s  %14s\n", "Series", "Total TWh")
		for _, info := range infos {
			name := info.Name
			if !info.Stacked {
				name += " (overlay)"
			}
			fmt.Printf("%-20s  %14s\n", name, humanize.CommafWithDigits(info.Total, 2))
		}
	}

	return nil
}
