package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/Frezo23/Blobs/components"
)

// AgentSnapshot is the pre-tick copy of the fields other agents may read.
type AgentSnapshot struct {
	Entity        ecs.Entity
	ID            uint32
	Pos           components.Position
	Vitals        components.Vitals
	Genome        components.Genome
	Generation    uint32
	ReproCooldown float64
}

// Snapshot is the frozen view of the population taken before a tick.
// Agents are ordered by ID, which is also the update order.
type Snapshot struct {
	Agents []AgentSnapshot

	index map[ecs.Entity]int
	grid  *SpatialGrid
}

// NewSnapshot creates an empty snapshot for a cols x rows map.
func NewSnapshot(cols, rows int) *Snapshot {
	return &Snapshot{
		index: make(map[ecs.Entity]int),
		grid:  NewSpatialGrid(cols, rows),
	}
}

// Reset clears the snapshot for reuse.
func (s *Snapshot) Reset() {
	s.Agents = s.Agents[:0]
	clear(s.index)
	s.grid.Clear()
}

// Add appends an agent. Call Finalize after the last Add.
func (s *Snapshot) Add(a AgentSnapshot) {
	s.Agents = append(s.Agents, a)
}

// Finalize sorts agents by ID and rebuilds the entity index and tile grid.
func (s *Snapshot) Finalize() {
	sort.Slice(s.Agents, func(i, j int) bool { return s.Agents[i].ID < s.Agents[j].ID })
	clear(s.index)
	s.grid.Clear()
	for i := range s.Agents {
		a := &s.Agents[i]
		s.index[a.Entity] = i
		s.grid.Insert(int32(i), a.Pos.X, a.Pos.Y)
	}
}

// Len returns the number of agents in the snapshot.
func (s *Snapshot) Len() int { return len(s.Agents) }

// Index returns the snapshot position of an entity.
func (s *Snapshot) Index(e ecs.Entity) (int, bool) {
	i, ok := s.index[e]
	return i, ok
}

// Lookup returns the snapshot entry for an entity, or false if the entity
// was not alive when the snapshot was taken.
func (s *Snapshot) Lookup(e ecs.Entity) (*AgentSnapshot, bool) {
	i, ok := s.index[e]
	if !ok {
		return nil, false
	}
	return &s.Agents[i], true
}

// Near appends the indices of agents on tiles within r (Chebyshev) of (x, y).
func (s *Snapshot) Near(dst []int32, x, y, r int) []int32 {
	return s.grid.QueryRectInto(dst, x-r, y-r, x+r, y+r)
}
