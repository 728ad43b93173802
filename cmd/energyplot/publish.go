package main

import (
	"fmt"
	"time"

	"github.com/energyplot/energyplot/internal/publisher"
	"github.com/spf13/cobra"
)

var (
	publishRun    string
	publishSeries []string
	publishAll    bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish archived series to MQTT",
	Long:  `Reads binned series from the archive and publishes one retained message per bucket to the configured MQTT broker.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishRun, "run", "", "Run ID (default: latest run)")
	publishCmd.Flags().StringSliceVar(&publishSeries, "series", nil, "Series to publish (default: Sum)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Publish every series of the run")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if MQTT is configured
	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	// Open archive
	arch, err := openArchive(getDBPath())
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arch.Close()

	runID := publishRun
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

	// Determine which series to publish
	series := publishSeries
	if publishAll {
		infos, err := arch.ListHistograms(runID)
		if err != nil {
			return fmt.Errorf("listing series for %s: %w", runID, err)
		}
		series = nil
		for _, info := range infos {
			series = append(series, info.Name)
		}
	}
	if len(series) == 0 {
		series = []string{"Sum"}
	}

	// Create publisher
	pub, err := publisher.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	totalPublished := 0
	for _, name := range series {
		bins, err := arch.LoadSeries(runID, name)
		if err != nil {
			return fmt.Errorf("loading series %s: %w", name, err)
		}
		if len(bins) == 0 {
			fmt.Printf("No series %q in run %s\n", name, runID)
			continue
		}

		fmt.Printf("Publishing %d buckets for %s... ", len(bins), name)
		if err := pub.PublishSeries(name, bins); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓\n")
		totalPublished += len(bins)
	}

	fmt.Printf("\nTotal messages published: %d\n", totalPublished)
	return nil
}
