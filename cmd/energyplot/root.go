package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/energyplot/energyplot/internal/archive"
	"github.com/energyplot/energyplot/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "energyplot",
	Short: "Bin global energy consumption data and render stacked charts",
	Long: `Energyplot ingests a CSV of global primary energy consumption by source
(one column per source, values in TWh), aggregates the rows into fixed time
buckets, and writes per-source histograms, a stacked area chart, and a
combined SQLite archive of the run.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "archive file (default is ./energy_consumption.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the archive file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "energy_consumption.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openArchive opens the archive at path
func openArchive(path string) (*archive.Archive, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	return archive.Open(path)
}
