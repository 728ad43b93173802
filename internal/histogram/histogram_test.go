package histogram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Jan 1 of 1900..1903 in Unix seconds: three year-wide buckets.
var yearEdges = []float64{-2208988800, -2177452800, -2145916800, -2114380800}

func TestNewValidatesEdges(t *testing.T) {
	_, err := New("Coal", "Coal (TWh)", []float64{0})
	require.Error(t, err)

	_, err = New("Coal", "Coal (TWh)", []float64{0, 10, 10})
	require.Error(t, err)

	h, err := New("Coal", "Coal (TWh)", yearEdges)
	require.NoError(t, err)
	require.Equal(t, 3, h.NBins())
	require.Len(t, h.Errs, 3)
	require.Equal(t, []float64{0, 0, 0}, h.Errs)
}

func TestFindBin(t *testing.T) {
	h, err := New("Coal", "Coal (TWh)", []float64{0, 10, 20, 30})
	require.NoError(t, err)

	require.Equal(t, 0, h.FindBin(0))
	require.Equal(t, 0, h.FindBin(9.9))
	require.Equal(t, 1, h.FindBin(10)) // boundaries belong to the bucket they start
	require.Equal(t, 2, h.FindBin(29.9))
	require.Equal(t, -1, h.FindBin(30))
	require.Equal(t, -1, h.FindBin(-0.1))
}

func TestFillAccumulates(t *testing.T) {
	coal, err := New("Coal", "Coal (TWh)", yearEdges)
	require.NoError(t, err)
	oil, err := New("Oil", "Oil (TWh)", yearEdges)
	require.NoError(t, err)

	// Timestamps land exactly on the bucket boundaries, like year-granularity
	// rows do; the fill nudge keeps them in the bucket starting there.
	require.Equal(t, 0, coal.Fill(yearEdges[0], 10))
	require.Equal(t, 1, coal.Fill(yearEdges[1], 8))
	require.Equal(t, 0, oil.Fill(yearEdges[0], 5))

	require.Equal(t, []float64{10, 8, 0}, coal.Bins)
	require.Equal(t, []float64{5, 0, 0}, oil.Bins)
	require.Equal(t, float64(18), coal.Integral())
	require.Equal(t, 2, coal.Entries)
}

func TestFillOutOfRange(t *testing.T) {
	h, err := New("Coal", "Coal (TWh)", yearEdges)
	require.NoError(t, err)

	require.Equal(t, -1, h.Fill(yearEdges[0]-86400, 3))
	require.Equal(t, -1, h.Fill(yearEdges[3], 7)) // nudged past the last edge

	require.Equal(t, float64(3), h.Underflow)
	require.Equal(t, float64(7), h.Overflow)
	require.Equal(t, 0, h.Entries)
	require.Equal(t, float64(0), h.Integral())
}

func TestNewStackOrdersAscending(t *testing.T) {
	mk := func(name string, bins ...float64) *Histogram {
		h, err := New(name, name+" (TWh)", yearEdges)
		require.NoError(t, err)
		copy(h.Bins, bins)
		return h
	}

	hists := map[string]*Histogram{
		"Coal":    mk("Coal", 10, 8, 6),
		"Oil":     mk("Oil", 5, 0, 0),
		"Wind":    mk("Wind", 1, 1, 1),
		SumSeries: mk(SumSeries, 16, 9, 7),
	}

	s := NewStack("stacked", hists)
	require.NotNil(t, s.Overlay)
	require.Equal(t, SumSeries, s.Overlay.Name)

	require.Len(t, s.Layers, 3)
	require.Equal(t, "Wind", s.Layers[0].Name)
	require.Equal(t, "Oil", s.Layers[1].Name)
	require.Equal(t, "Coal", s.Layers[2].Name)
}

func TestCumulative(t *testing.T) {
	mk := func(name string, bins ...float64) *Histogram {
		h, err := New(name, name+" (TWh)", yearEdges)
		require.NoError(t, err)
		copy(h.Bins, bins)
		return h
	}

	s := NewStack("stacked", map[string]*Histogram{
		"Oil":  mk("Oil", 5, 0, 0),
		"Coal": mk("Coal", 10, 8, 6),
	})

	cum := s.Cumulative()
	require.Len(t, cum, 2)
	require.Equal(t, []float64{5, 0, 0}, cum[0])
	require.Equal(t, []float64{15, 8, 6}, cum[1])
}

func TestSumMatchesLayers(t *testing.T) {
	rows := []struct {
		t      float64
		values map[string]float64
	}{
		{yearEdges[0], map[string]float64{"Coal": 10.3, "Oil": 5.1}},
		{yearEdges[0] + 1000, map[string]float64{"Coal": 2.2, "Wind": 0.7}},
		{yearEdges[1], map[string]float64{"Coal": 8.4, "Oil": 1.9, "Wind": 1.1}},
		{yearEdges[2] + 5, map[string]float64{"Wind": 3.3}},
	}

	hists := make(map[string]*Histogram)
	for _, name := range []string{"Coal", "Oil", "Wind", SumSeries} {
		h, err := New(name, name+" (TWh)", yearEdges)
		require.NoError(t, err)
		hists[name] = h
	}

	for _, row := range rows {
		var total float64
		for name, v := range row.values {
			hists[name].Fill(row.t, v)
			total += v
		}
		hists[SumSeries].Fill(row.t, total)
	}

	s := NewStack("stacked", hists)
	cum := s.Cumulative()
	top := cum[len(cum)-1]
	for i, want := range s.Overlay.Bins {
		require.InDelta(t, want, top[i], 1e-9, "bucket %d", i)
	}
}

func TestCumulativeEmptyStack(t *testing.T) {
	s := NewStack("stacked", nil)
	require.Nil(t, s.Cumulative())
}
