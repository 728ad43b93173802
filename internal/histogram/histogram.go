package histogram

import (
	"fmt"
	"sort"
)

// SumSeries is the name of the synthetic total series. It is filled like any
// other series but stacked charts draw it as an overlay line instead of a
// layer.
const SumSeries = "Sum"

// fillOffset is added to every fill timestamp so that rows whose timestamp
// lands exactly on a bucket boundary count toward the bucket starting there.
const fillOffset = 0.05

// Histogram accumulates weights into fixed, half-open time buckets
// [Edges[i], Edges[i+1]).
type Histogram struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Edges     []float64 `json:"edges"`
	Bins      []float64 `json:"bins"`
	Errs      []float64 `json:"errors"` // per-bin uncertainty; zero for this data
	Entries   int       `json:"entries"`
	Underflow float64   `json:"underflow"`
	Overflow  float64   `json:"overflow"`
}

// New creates an empty histogram over the given bucket boundaries.
func New(name, title string, edges []float64) (*Histogram, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("histogram %s: need at least two edges, got %d", name, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("histogram %s: edges not strictly increasing at index %d", name, i)
		}
	}

	nbins := len(edges) - 1
	return &Histogram{
		Name:  name,
		Title: title,
		Edges: edges,
		Bins:  make([]float64, nbins),
		Errs:  make([]float64, nbins),
	}, nil
}

// NBins returns the number of buckets.
func (h *Histogram) NBins() int {
	return len(h.Bins)
}

// FindBin returns the index of the bucket containing t, or -1 when t falls
// outside the covered range.
func (h *Histogram) FindBin(t float64) int {
	if t < h.Edges[0] || t >= h.Edges[len(h.Edges)-1] {
		return -1
	}
	i := sort.SearchFloat64s(h.Edges, t)
	if i < len(h.Edges) && h.Edges[i] == t {
		return i
	}
	return i - 1
}

// Fill adds weight w at time t and returns the bucket index it landed in, or
// -1 when the nudged timestamp is out of range. Out-of-range weight is
// tracked so no row silently disappears.
func (h *Histogram) Fill(t, w float64) int {
	t += fillOffset
	i := h.FindBin(t)
	switch {
	case i >= 0:
		h.Bins[i] += w
		h.Entries++
	case t < h.Edges[0]:
		h.Underflow += w
	default:
		h.Overflow += w
	}
	return i
}

// Integral returns the sum over all buckets, excluding underflow and
// overflow.
func (h *Histogram) Integral() float64 {
	var sum float64
	for _, v := range h.Bins {
		sum += v
	}
	return sum
}

// Stack orders histograms for stacked rendering, smallest total first so the
// largest-magnitude series ends up on top of the chart. The Sum series is
// kept aside as an overlay rather than a layer.
type Stack struct {
	Title   string
	Layers  []*Histogram
	Overlay *Histogram
}

// NewStack assembles a stack from per-series histograms.
func NewStack(title string, hists map[string]*Histogram) *Stack {
	s := &Stack{Title: title}
	for name, h := range hists {
		if name == SumSeries {
			s.Overlay = h
			continue
		}
		s.Layers = append(s.Layers, h)
	}
	sort.Slice(s.Layers, func(i, j int) bool {
		ii, jj := s.Layers[i].Integral(), s.Layers[j].Integral()
		if ii != jj {
			return ii < jj
		}
		return s.Layers[i].Name < s.Layers[j].Name
	})
	return s
}

// Cumulative returns per-layer running bucket totals, bottom of the stack up
// through each layer. Row k is the upper bound of layer k; its lower bound is
// row k-1 (or zero for the first layer).
func (s *Stack) Cumulative() [][]float64 {
	if len(s.Layers) == 0 {
		return nil
	}
	nbins := s.Layers[0].NBins()
	cum := make([][]float64, len(s.Layers))
	running := make([]float64, nbins)
	for k, h := range s.Layers {
		row := make([]float64, nbins)
		for i := 0; i < nbins; i++ {
			running[i] += h.Bins[i]
			row[i] = running[i]
		}
		cum[k] = row
	}
	return cum
}
