package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pointer activity during the window
	StrokeFrames int `csv:"stroke_frames"`
	SmokeFrames  int `csv:"smoke_frames"`
	PausedFrames int `csv:"paused_frames"`

	// Field totals at window end
	TotalDensity     float64 `csv:"total_density"`
	TotalTemperature float64 `csv:"total_temperature"`
	KineticEnergy    float64 `csv:"kinetic_energy"`
	MaxDivergence    float64 `csv:"max_divergence"`

	// Density distribution over interior cells
	DensityMean float64 `csv:"density_mean"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	DensityMax  float64 `csv:"density_max"`
	SmokyCells  int     `csv:"smoky_cells"` // cells above SmokyThreshold

	// Speed distribution over interior cells
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	Particles int `csv:"particles"`
}

// SmokyThreshold is the density above which a cell counts as visibly smoky.
const SmokyThreshold = 0.05

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P50, P90, Max float64
}

// Summarize computes mean, standard deviation, median, p90 and maximum of
// values. values is sorted in place.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sort.Float64s(values)

	var d Distribution
	if len(values) > 1 {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	} else {
		d.Mean = values[0]
	}
	d.P50 = Percentile(values, 0.50)
	d.P90 = Percentile(values, 0.90)
	d.Max = floats.Max(values)
	return d
}

// speeds writes the per-cell speed of (u, v) over the interior into dst.
func speeds(dst []float64, src Source) []float64 {
	g := src.Grid()
	u, v := src.VelocityU(), src.VelocityV()
	dst = dst[:0]
	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			idx := g.IX(i, j)
			dst = append(dst, math.Hypot(float64(u[idx]), float64(v[idx])))
		}
	}
	return dst
}

// densities writes the interior density values into dst.
func densities(dst []float64, src Source) []float64 {
	g := src.Grid()
	dens := src.Density()
	dst = dst[:0]
	for j := 1; j <= g.H; j++ {
		for i := 1; i <= g.W; i++ {
			dst = append(dst, float64(dens[g.IX(i, j)]))
		}
	}
	return dst
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("stroke_frames", s.StrokeFrames),
		slog.Int("smoke_frames", s.SmokeFrames),
		slog.Int("paused_frames", s.PausedFrames),
		slog.Float64("total_density", s.TotalDensity),
		slog.Float64("total_temperature", s.TotalTemperature),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_divergence", s.MaxDivergence),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("density_max", s.DensityMax),
		slog.Int("smoky_cells", s.SmokyCells),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Int("particles", s.Particles),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
