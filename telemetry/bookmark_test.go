package telemetry

import (
	"testing"

	"github.com/Frezo23/Blobs/config"
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

func TestBookmarkDetector_BabyBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: uint64(i * 600),
			Blobs:         40,
			Births:        2,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Blobs:         48,
		Births:        10,
	})
	if !hasBookmark(bookmarks, BookmarkBabyBoom) {
		t.Error("expected baby_boom bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: uint64(i * 600),
			Blobs:         100,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Blobs:         50, // 50% drop
	})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}
}

func TestBookmarkDetector_Drought(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{Blobs: 30})

	bookmarks := bd.Check(WindowStats{
		WindowEndTick:     600,
		Blobs:             22,
		Deaths:            8,
		DeathsDehydration: 6,
		DeathsStarvation:  2,
	})
	if !hasBookmark(bookmarks, BookmarkDrought) {
		t.Error("expected drought bookmark")
	}
}

func TestBookmarkDetector_ExtinctionOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{Blobs: 3})

	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 600, Deaths: 3}), BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 1200}), BookmarkExtinction) {
		t.Error("extinction should only fire once")
	}
}

func TestBookmarkDetector_GenerationMilestones(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		gen  uint32
		want bool
	}{
		{3, false},
		{12, true},
		{15, false},
		{21, true},
	}
	for _, tt := range tests {
		got := hasBookmark(bd.Check(WindowStats{Blobs: 20, MaxGeneration: tt.gen}), BookmarkGeneration)
		if got != tt.want {
			t.Errorf("generation %d: bookmark = %v, want %v", tt.gen, got, tt.want)
		}
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 10; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: uint64(i * 600),
			Blobs:         100,
		})
		fired := hasBookmark(bookmarks, BookmarkStablePopulation)
		// History reaches four windows at i=4; the fifth stable check is i=8.
		if fired != (i == 8) {
			t.Errorf("window %d: stable bookmark = %v", i, fired)
		}
	}
}
