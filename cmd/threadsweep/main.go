// Package main runs the headless orbit script once per diffusion worker
// count and writes the step timings to a CSV file.
//
// Usage: go run ./cmd/threadsweep -max-threads 8 -ticks 1440 -output sweep.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/smoke/config"
	"github.com/pthm-cable/smoke/session"
	"github.com/pthm-cable/smoke/telemetry"
)

// sweepRow is one line of the sweep output.
type sweepRow struct {
	Threads      int     `csv:"threads"`
	Ticks        int     `csv:"ticks"`
	WallMS       int64   `csv:"wall_ms"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	Speedup      float64 `csv:"speedup"`
	VelocityPct  float64 `csv:"velocity_pct"`
	DensityPct   float64 `csv:"density_pct"`
	TotalDensity float64 `csv:"total_density"`
	DensityDrift float64 `csv:"density_drift"` // relative to the single-thread run
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxThreads := flag.Int("max-threads", runtime.NumCPU(), "Largest worker count to try")
	ticks := flag.Int("ticks", 1440, "Simulation ticks per run")
	seed := flag.Int64("seed", 42, "RNG seed shared by every run")
	output := flag.String("output", "sweep.csv", "Output CSV path")
	flag.Parse()

	if *maxThreads < 1 || *ticks < 1 {
		log.Fatal("--max-threads and --ticks must be positive")
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	var rows []sweepRow
	for n := 1; n <= *maxThreads; n++ {
		row, err := run(cfg, n, *ticks, *seed)
		if err != nil {
			log.Fatalf("run with %d threads: %v", n, err)
		}
		if len(rows) > 0 {
			base := rows[0]
			if row.WallMS > 0 {
				row.Speedup = float64(base.WallMS) / float64(row.WallMS)
			}
			if base.TotalDensity != 0 {
				row.DensityDrift = math.Abs(row.TotalDensity-base.TotalDensity) / base.TotalDensity
			}
		} else {
			row.Speedup = 1
		}
		rows = append(rows, row)
		fmt.Printf("threads=%d wall=%dms ticks/s=%.0f speedup=%.2fx drift=%.2g\n",
			n, row.WallMS, row.TicksPerSec, row.Speedup, row.DensityDrift)
	}

	if err := writeRows(*output, rows); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
}

// writeRows writes the sweep table to path.
func writeRows(path string, rows []sweepRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// run steps a fresh session for the given worker count.
func run(cfg *config.Config, threads, ticks int, seed int64) (sweepRow, error) {
	s, err := session.New(session.Options{
		Seed:        seed,
		ThreadCount: threads,
		Config:      cfg,
	})
	if err != nil {
		return sweepRow{}, err
	}
	defer s.Close()

	start := time.Now()
	for int(s.Tick()) < ticks {
		s.UpdateScripted()
	}
	wall := time.Since(start)

	perf := s.Perf().Stats()
	return sweepRow{
		Threads:      threads,
		Ticks:        ticks,
		WallMS:       wall.Milliseconds(),
		AvgTickUS:    perf.AvgTickDuration.Microseconds(),
		TicksPerSec:  float64(ticks) / wall.Seconds(),
		VelocityPct:  perf.PhasePct[telemetry.PhaseVelocity],
		DensityPct:   perf.PhasePct[telemetry.PhaseDensity],
		TotalDensity: float64(s.Sim().TotalDensity()),
	}, nil
}
