package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSmokeBurst BookmarkType = "smoke_burst"
	BookmarkDissipated BookmarkType = "dissipated"
	BookmarkTurbulence BookmarkType = "turbulence"
	BookmarkSettled    BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable windows: sudden smoke, smoke clearing,
// unusually energetic flow, and flow coming to rest.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	peakDensity   float64 // highest total density since the last dissipation
	calmWindows   int     // consecutive windows with near-zero kinetic energy
	settledSignal bool    // settled already reported, or no activity yet
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		settledSignal: true,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkSmokeBurst,
		bd.checkTurbulence,
		bd.checkDissipated,
		bd.checkSettled,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.peakDensity = max(bd.peakDensity, stats.TotalDensity)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkSmokeBurst fires when total density exceeds twice the rolling average.
func (bd *BookmarkDetector) checkSmokeBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.TotalDensity
	}
	avg := sum / float64(len(history))

	if stats.TotalDensity > 2*avg && stats.TotalDensity > 1 {
		return &Bookmark{
			Type:        BookmarkSmokeBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Total density %.1f is %.1fx average (%.1f)", stats.TotalDensity, stats.TotalDensity/max(avg, 1e-9), avg),
		}
	}
	return nil
}

// checkTurbulence fires when kinetic energy exceeds three times the rolling average.
func (bd *BookmarkDetector) checkTurbulence(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.KineticEnergy
	}
	avg := sum / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.KineticEnergy > 3*avg {
		return &Bookmark{
			Type:        BookmarkTurbulence,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy %.1f is %.1fx average (%.1f)", stats.KineticEnergy, stats.KineticEnergy/avg, avg),
		}
	}
	return nil
}

// checkDissipated fires once when density falls below 5% of its recent peak.
func (bd *BookmarkDetector) checkDissipated(stats WindowStats) *Bookmark {
	if bd.peakDensity < 1 {
		return nil
	}
	if stats.TotalDensity < 0.05*bd.peakDensity {
		oldPeak := bd.peakDensity
		bd.peakDensity = 0
		return &Bookmark{
			Type:        BookmarkDissipated,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Density fell from peak %.1f to %.2f", oldPeak, stats.TotalDensity),
		}
	}
	return nil
}

// settledEnergy is the kinetic energy below which the flow counts as at rest.
const settledEnergy = 1e-3

// checkSettled fires once after three consecutive calm windows.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.KineticEnergy >= settledEnergy || stats.StrokeFrames > 0 {
		bd.calmWindows = 0
		bd.settledSignal = false
		return nil
	}

	bd.calmWindows++
	if bd.calmWindows >= 3 && !bd.settledSignal {
		bd.settledSignal = true
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Flow at rest for %d windows", bd.calmWindows),
		}
	}
	return nil
}
