package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/terrain"
)

// All searches measure squared distance in tiles, accept targets at exactly
// the sight radius and keep the first target found at the minimum distance.

// NearestRipeBush returns the closest ripe bush within sight of (x, y),
// scanning bushes in ID order.
func NearestRipeBush(bushes *BushField, x, y int, sight float64) (components.BushID, bool) {
	sight2 := sight * sight
	best := components.NoBush
	bestD2 := 0.0
	for i := 0; i < bushes.Len(); i++ {
		id := components.BushID(i)
		if !bushes.Ripe(id) {
			continue
		}
		bx, by, _ := bushes.Position(id)
		d2 := dist2(bx-x, by-y)
		if d2 <= sight2 && (best == components.NoBush || d2 < bestD2) {
			best, bestD2 = id, d2
		}
	}
	return best, best != components.NoBush
}

// NearestWaterTile returns the closest walkable tile within sight of (x, y)
// that touches shallow water. The scan covers the square window of radius
// int(sight), rows then columns.
func NearestWaterTile(q terrain.Query, x, y int, sight float64) (wx, wy int, ok bool) {
	r := int(sight)
	sight2 := sight * sight
	bestD2 := 0.0

	y0, y1 := max(0, y-r), min(q.Height(), y+r+1)
	x0, x1 := max(0, x-r), min(q.Width(), x+r+1)
	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			if !terrain.IsWalkable(q, tx, ty) {
				continue
			}
			if _, _, wet := terrain.AdjacentShallowWater(q, tx, ty); !wet {
				continue
			}
			d2 := dist2(tx-x, ty-y)
			if d2 <= sight2 && (!ok || d2 < bestD2) {
				wx, wy, bestD2, ok = tx, ty, d2, true
			}
		}
	}
	return wx, wy, ok
}

// NearestMate returns the closest other agent in the snapshot within sight
// that is itself eligible to mate. Candidates come from the snapshot's tile
// grid; ties keep the lowest snapshot index so the result matches a scan in
// update order.
func NearestMate(snap *Snapshot, self ecs.Entity, x, y int, sight float64, rc *config.ReproductionConfig, scratch []int32) (*AgentSnapshot, []int32) {
	sight2 := sight * sight
	scratch = snap.Near(scratch[:0], x, y, int(sight))

	best := int32(-1)
	bestD2 := 0.0
	for _, i := range scratch {
		other := &snap.Agents[i]
		if other.Entity == self || !CanMate(other.ReproCooldown, other.Vitals, rc) {
			continue
		}
		d2 := dist2(other.Pos.X-x, other.Pos.Y-y)
		if d2 > sight2 {
			continue
		}
		if best < 0 || d2 < bestD2 || (d2 == bestD2 && i < best) {
			best, bestD2 = i, d2
		}
	}
	if best < 0 {
		return nil, scratch
	}
	return &snap.Agents[best], scratch
}

func dist2(dx, dy int) float64 {
	return float64(dx*dx + dy*dy)
}
