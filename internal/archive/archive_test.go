package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/energyplot/energyplot/internal/histogram"
)

func testStack(t *testing.T) *histogram.Stack {
	t.Helper()
	edges := []float64{0, 100, 200}
	mk := func(name string, bins ...float64) *histogram.Histogram {
		h, err := histogram.New(name, name+" (TWh)", edges)
		require.NoError(t, err)
		copy(h.Bins, bins)
		return h
	}

	return histogram.NewStack("stacked", map[string]*histogram.Histogram{
		"Coal":              mk("Coal", 10, 8),
		"Oil":               mk("Oil", 5, 0),
		histogram.SumSeries: mk(histogram.SumSeries, 15, 8),
	})
}

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "energy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveAndListRuns(t *testing.T) {
	a := openTestArchive(t)

	id, err := a.SaveRun("energy.csv", "year", 1825, testStack(t))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := a.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	require.Equal(t, id, run.ID)
	require.Equal(t, "energy.csv", run.SourceFile)
	require.Equal(t, "year", run.Granularity)
	require.Equal(t, 1825, run.StartYear)
	require.Equal(t, 3, run.SeriesCount)
	require.Equal(t, 2, run.BinCount)
	require.False(t, run.CreatedAt.IsZero())
}

func TestLatestRun(t *testing.T) {
	a := openTestArchive(t)

	latest, err := a.LatestRun()
	require.NoError(t, err)
	require.Nil(t, latest)

	id, err := a.SaveRun("energy.csv", "year", 1825, testStack(t))
	require.NoError(t, err)

	latest, err = a.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, id, latest.ID)
}

func TestListHistograms(t *testing.T) {
	a := openTestArchive(t)

	id, err := a.SaveRun("energy.csv", "year", 1825, testStack(t))
	require.NoError(t, err)

	infos, err := a.ListHistograms(id)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	// Stacking order: smallest layer first, overlay last
	require.Equal(t, "Oil", infos[0].Name)
	require.True(t, infos[0].Stacked)
	require.Equal(t, "Coal", infos[1].Name)
	require.Equal(t, histogram.SumSeries, infos[2].Name)
	require.False(t, infos[2].Stacked)
	require.Equal(t, float64(23), infos[2].Total)
}

func TestLoadSeries(t *testing.T) {
	a := openTestArchive(t)

	id, err := a.SaveRun("energy.csv", "year", 1825, testStack(t))
	require.NoError(t, err)

	bins, err := a.LoadSeries(id, "Coal")
	require.NoError(t, err)
	require.Len(t, bins, 2)

	require.Equal(t, 0, bins[0].Index)
	require.Equal(t, float64(0), bins[0].Start)
	require.Equal(t, float64(100), bins[0].End)
	require.Equal(t, float64(10), bins[0].Value)
	require.Equal(t, float64(8), bins[1].Value)

	bins, err = a.LoadSeries(id, "Uranium")
	require.NoError(t, err)
	require.Empty(t, bins)
}
