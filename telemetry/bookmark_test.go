package telemetry

import (
	"testing"

	"github.com/pthm-cable/smoke/config"
)

func init() {
	config.MustInit("")
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_SmokeBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 720), TotalDensity: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3600, TotalDensity: 40})
	if !hasBookmark(bookmarks, BookmarkSmokeBurst) {
		t.Error("expected smoke_burst bookmark")
	}
}

func TestBookmarkDetector_Turbulence(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 720), KineticEnergy: 5})
	}

	if bookmarks := bd.Check(WindowStats{WindowEndTick: 2880, KineticEnergy: 12}); hasBookmark(bookmarks, BookmarkTurbulence) {
		t.Error("did not expect turbulence below 3x average")
	}
	if bookmarks := bd.Check(WindowStats{WindowEndTick: 3600, KineticEnergy: 100}); !hasBookmark(bookmarks, BookmarkTurbulence) {
		t.Error("expected turbulence bookmark")
	}
}

func TestBookmarkDetector_DissipatedOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 720, TotalDensity: 100})
	bd.Check(WindowStats{WindowEndTick: 1440, TotalDensity: 50})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2160, TotalDensity: 2})
	if !hasBookmark(bookmarks, BookmarkDissipated) {
		t.Fatal("expected dissipated bookmark")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 2880, TotalDensity: 1})
	if hasBookmark(bookmarks, BookmarkDissipated) {
		t.Error("dissipated should fire once per peak")
	}
}

func TestBookmarkDetector_SettledAfterActivity(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Calm from the start reports nothing
	for i := 0; i < 5; i++ {
		if b := bd.Check(WindowStats{WindowEndTick: int32(i * 720)}); hasBookmark(b, BookmarkSettled) {
			t.Fatal("settled fired before any activity")
		}
	}

	bd.Check(WindowStats{WindowEndTick: 3600, KineticEnergy: 50, StrokeFrames: 30})

	fired := 0
	for i := 0; i < 6; i++ {
		if b := bd.Check(WindowStats{WindowEndTick: int32(4320 + i*720)}); hasBookmark(b, BookmarkSettled) {
			fired++
			if i != 2 {
				t.Errorf("settled fired at calm window %d, want 2", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("expected settled exactly once, got %d", fired)
	}
}
