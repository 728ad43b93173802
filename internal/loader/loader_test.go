package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "energy.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, `Entity,Code,Year,"Coal (TWh, substituted energy)","Oil (TWh, substituted energy)","Wind (TWh, substituted energy)"
World,OWID_WRL,1800,100,0,0
World,OWID_WRL,1900,10,5,
World,OWID_WRL,1901,8,,1.5
`)

	data, err := Load(path, 1825)
	require.NoError(t, err)

	// The 1800 row falls at or before the cutoff year
	require.Len(t, data.Rows, 2)
	require.Equal(t, []string{"Coal", "Oil", "Wind"}, data.ValueCols)

	row := data.Rows[0]
	require.Equal(t, "World", row.Entity)
	require.Equal(t, "OWID_WRL", row.Code)
	require.Equal(t, 1900, row.Time.Year)
	require.Equal(t, map[string]float64{"Coal": 10, "Oil": 5}, row.Values)
	require.Equal(t, float64(15), row.Total)

	// Empty cells contribute nothing, not NaN
	require.Equal(t, float64(9.5), data.Rows[1].Total)

	require.Equal(t, 1900, data.MinTime.Year)
	require.Equal(t, 1901, data.MaxTime.Year)
}

func TestLoadTimeColumns(t *testing.T) {
	path := writeCSV(t, `Year,Month,Day,Hour,Zone,Demand (TWh)
2020,3,15,12,5.5,42
`)

	data, err := Load(path, 1825)
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)

	key := data.Rows[0].Time
	require.Equal(t, 2020, key.Year)
	require.Equal(t, 3, key.Month)
	require.Equal(t, 15, key.Day)
	require.Equal(t, 12, key.Hour)
	require.Equal(t, 5.5, key.Zone)
	require.Equal(t, []string{"Demand"}, data.ValueCols)
}

func TestLoadMissingYearColumn(t *testing.T) {
	path := writeCSV(t, `Entity,Coal (TWh)
World,10
`)

	_, err := Load(path, 1825)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Year")
}

func TestLoadBadValue(t *testing.T) {
	path := writeCSV(t, `Year,Coal (TWh)
1900,ten
`)

	_, err := Load(path, 1825)
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 2")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 1825)
	require.Error(t, err)
}

func TestCleanSeriesName(t *testing.T) {
	require.Equal(t, "Wind", CleanSeriesName("Wind (TWh, substituted energy)"))
	require.Equal(t, "Oil", CleanSeriesName("Oil (TWh)"))
	require.Equal(t, "Traditionalbiomass", CleanSeriesName("Traditional biomass (TWh, substituted energy)"))
	require.Equal(t, "Coal", CleanSeriesName("Coal"))
}
