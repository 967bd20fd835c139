package components

// DecorationKind discriminates the Decoration variant.
type DecorationKind uint8

const (
	DecorBush DecorationKind = iota
	DecorTree
	DecorFlower
	DecorMushroom
	DecorSugarCane
	DecorRock

	NumDecorationKinds
)

var decorationNames = [...]string{
	DecorBush:      "bush",
	DecorTree:      "tree",
	DecorFlower:    "flower",
	DecorMushroom:  "mushroom",
	DecorSugarCane: "sugar_cane",
	DecorRock:      "rock",
}

func (k DecorationKind) String() string {
	if int(k) < len(decorationNames) {
		return decorationNames[k]
	}
	return "unknown"
}

// BushID identifies a berry bush in the bush field.
type BushID int32

// NoBush is the BushID held when no bush is targeted.
const NoBush BushID = -1

// Bush growth stages.
const (
	StageBarren  uint8 = 0
	StageGrowing uint8 = 1
	StageRipe    uint8 = 2
)

// Growth is the bush-only payload of a Decoration. Timer counts seconds
// since the last harvest; both stage thresholds compare against it.
type Growth struct {
	Stage uint8
	Timer float64
}

// Advance moves the growth timer forward. Stages only ever increase here.
func (g *Growth) Advance(dt, sproutTime, ripeTime float64) {
	g.Timer += dt
	if g.Stage == StageBarren && g.Timer > sproutTime {
		g.Stage = StageGrowing
	}
	if g.Stage == StageGrowing && g.Timer > ripeTime {
		g.Stage = StageRipe
	}
}

// Harvest resets a ripe bush and reports whether it was ripe.
func (g *Growth) Harvest() bool {
	if g.Stage != StageRipe {
		return false
	}
	g.Stage = StageBarren
	g.Timer = 0
	return true
}

// Decoration is a static map object. Only bushes carry behavior; the other
// kinds are inert data for renderers and world statistics.
type Decoration struct {
	Kind    DecorationKind
	X, Y    int
	Variant uint8 // Flower type
	Growth  Growth
}

// NewBush returns a barren bush at tile (x, y).
func NewBush(x, y int) Decoration {
	return Decoration{Kind: DecorBush, X: x, Y: y}
}
