package systems

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Frezo23/Blobs/components"
)

func TestBushFieldIndexesOnlyBushes(t *testing.T) {
	decor := []components.Decoration{
		{Kind: components.DecorTree, X: 0, Y: 0},
		components.NewBush(1, 1),
		{Kind: components.DecorRock, X: 2, Y: 2},
		components.NewBush(3, 3),
	}
	f := NewBushField(decor, 5, 10)

	if f.Len() != 2 {
		t.Fatalf("Len = %d, want 2", f.Len())
	}
	if x, y, ok := f.Position(1); !ok || x != 3 || y != 3 {
		t.Errorf("Position(1) = (%d,%d,%v), want (3,3,true)", x, y, ok)
	}
	if _, _, ok := f.Position(2); ok {
		t.Error("Position(2) should be invalid")
	}
	if f.Valid(components.NoBush) {
		t.Error("NoBush should be invalid")
	}

	// Growth is written through to the shared decoration slice.
	f.Advance(10.5)
	if decor[1].Growth.Stage != components.StageRipe || decor[3].Growth.Stage != components.StageRipe {
		t.Errorf("decor stages = %d/%d, want ripe", decor[1].Growth.Stage, decor[3].Growth.Stage)
	}
	if f.RipeCount() != 2 {
		t.Errorf("RipeCount = %d, want 2", f.RipeCount())
	}

	views := f.Views()
	if len(views) != 2 || views[0].X != 1 || views[0].Stage != components.StageRipe {
		t.Errorf("Views = %+v", views)
	}
}

func TestTryHarvestOnce(t *testing.T) {
	cfg := testConfig()
	f := ripeBushes(cfg, [2]int{0, 0})

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.TryHarvest(0) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("%d harvests succeeded, want exactly 1", wins.Load())
	}
	if stage, _ := f.Stage(0); stage != components.StageBarren {
		t.Errorf("stage after harvest = %d, want 0", stage)
	}
	if f.TryHarvest(0) {
		t.Error("harvesting a barren bush should fail")
	}
	if f.TryHarvest(7) {
		t.Error("harvesting an unknown bush should fail")
	}
}
