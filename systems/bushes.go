package systems

import (
	"sync"

	"github.com/Frezo23/Blobs/components"
)

// BushView is a read-only copy of one bush for renderers and telemetry.
type BushView struct {
	ID    components.BushID
	X, Y  int
	Stage uint8
	Timer float64
}

// BushField owns the growth state of every berry bush. A BushID is the
// bush's position in the field and never changes; each bush has its own
// lock so concurrent agents cannot harvest the same berries twice.
type BushField struct {
	decor []components.Decoration
	index []int // BushID -> position in decor
	locks []sync.Mutex

	sproutTime float64
	ripeTime   float64
}

// NewBushField indexes the bushes in decor. The field writes growth back
// into decor, so views over the same slice see live stages.
func NewBushField(decor []components.Decoration, sproutTime, ripeTime float64) *BushField {
	f := &BushField{
		decor:      decor,
		sproutTime: sproutTime,
		ripeTime:   ripeTime,
	}
	for i := range decor {
		if decor[i].Kind == components.DecorBush {
			f.index = append(f.index, i)
		}
	}
	f.locks = make([]sync.Mutex, len(f.index))
	return f
}

// Len returns the number of bushes.
func (f *BushField) Len() int { return len(f.index) }

// Valid reports whether id refers to a bush in this field.
func (f *BushField) Valid(id components.BushID) bool {
	return id >= 0 && int(id) < len(f.index)
}

// Advance grows every bush by dt.
func (f *BushField) Advance(dt float64) {
	for id, di := range f.index {
		f.locks[id].Lock()
		f.decor[di].Growth.Advance(dt, f.sproutTime, f.ripeTime)
		f.locks[id].Unlock()
	}
}

// Stage returns the growth stage of a bush.
func (f *BushField) Stage(id components.BushID) (uint8, bool) {
	if !f.Valid(id) {
		return 0, false
	}
	f.locks[id].Lock()
	stage := f.decor[f.index[id]].Growth.Stage
	f.locks[id].Unlock()
	return stage, true
}

// Ripe reports whether a bush exists and is at the ripe stage.
func (f *BushField) Ripe(id components.BushID) bool {
	stage, ok := f.Stage(id)
	return ok && stage == components.StageRipe
}

// Position returns the tile of a bush. Positions never change.
func (f *BushField) Position(id components.BushID) (x, y int, ok bool) {
	if !f.Valid(id) {
		return 0, 0, false
	}
	d := &f.decor[f.index[id]]
	return d.X, d.Y, true
}

// TryHarvest resets a ripe bush and reports whether this call did so.
// At most one caller wins per ripening.
func (f *BushField) TryHarvest(id components.BushID) bool {
	if !f.Valid(id) {
		return false
	}
	f.locks[id].Lock()
	defer f.locks[id].Unlock()
	return f.decor[f.index[id]].Growth.Harvest()
}

// RipeCount returns how many bushes are ripe.
func (f *BushField) RipeCount() int {
	n := 0
	for id := range f.index {
		if f.Ripe(components.BushID(id)) {
			n++
		}
	}
	return n
}

// Views returns a copy of every bush in ID order.
func (f *BushField) Views() []BushView {
	views := make([]BushView, len(f.index))
	for id, di := range f.index {
		f.locks[id].Lock()
		d := f.decor[di]
		f.locks[id].Unlock()
		views[id] = BushView{
			ID:    components.BushID(id),
			X:     d.X,
			Y:     d.Y,
			Stage: d.Growth.Stage,
			Timer: d.Growth.Timer,
		}
	}
	return views
}
