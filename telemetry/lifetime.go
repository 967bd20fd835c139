package telemetry

// LifetimeStats tracks per-blob statistics over its lifetime.
type LifetimeStats struct {
	BornTick   uint64
	Generation uint32
	ParentID   uint32

	// FounderID is the initial blob this lineage descends from through the
	// initiating parent.
	FounderID uint32

	Children int
	Harvests int
	Drinks   int
}

// LifetimeTracker manages per-blob lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a blob. A blob with no tracked parent
// founds its own lineage.
func (lt *LifetimeTracker) Register(id uint32, bornTick uint64, generation, parentID uint32) {
	founder := id
	if p := lt.stats[parentID]; p != nil && parentID != 0 {
		founder = p.FounderID
	}
	lt.stats[id] = &LifetimeStats{
		BornTick:   bornTick,
		Generation: generation,
		ParentID:   parentID,
		FounderID:  founder,
	}
}

// Get returns the lifetime stats for a blob, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a blob's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordHarvest increments completed harvests.
func (lt *LifetimeTracker) RecordHarvest(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Harvests++
	}
}

// RecordDrink increments completed drinks.
func (lt *LifetimeTracker) RecordDrink(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Drinks++
	}
}

// Count returns the number of tracked blobs.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of founders with living descendants.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[uint32]struct{})
	for _, stats := range lt.stats {
		seen[stats.FounderID] = struct{}{}
	}
	return len(seen)
}
