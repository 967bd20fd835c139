package game

import (
	"runtime"
	"sync"

	"github.com/Frezo23/Blobs/systems"
	"github.com/Frezo23/Blobs/terrain"
)

// worker holds per-goroutine state. Nothing in it is shared.
type worker struct {
	ctx *systems.TickContext
	rng *systems.AgentRNG
}

// bind points the worker's context at this tick's shared state.
func (w *worker) bind(q terrain.Query, bushes *systems.BushField, snap *systems.Snapshot) {
	w.ctx.Terrain = q
	w.ctx.Bushes = bushes
	w.ctx.Snapshot = snap
}

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	start, end int
	tick       uint64
	dt         float64
}

// parallelState holds the worker pool for the agent pass.
//
// Phase A (snapshot) and phase C (merge) run on the calling goroutine.
// During phase B each worker writes only to its own agents' components and
// to bushes through BushField.TryHarvest.
type parallelState struct {
	workers    []worker
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// newParallelState sizes the pool. n < 0 uses GOMAXPROCS; fewer than two
// workers means the pass always runs on the calling goroutine.
func newParallelState(n int) *parallelState {
	if n < 0 {
		n = runtime.GOMAXPROCS(0)
	}
	n = max(1, n)
	workers := make([]worker, n)
	for i := range workers {
		workers[i] = worker{
			ctx: systems.NewTickContext(nil, nil, nil, nil),
			rng: systems.NewAgentRNG(),
		}
	}
	return &parallelState{
		workers:    workers,
		numWorkers: n,
	}
}

// startWorkers launches persistent worker goroutines.
func (ps *parallelState) startWorkers(p *Population) {
	if ps.running {
		return
	}

	ps.workChan = make(chan workChunk, ps.numWorkers)
	ps.doneChan = make(chan struct{}, ps.numWorkers)
	ps.stopChan = make(chan struct{})
	ps.running = true

	for i := 0; i < ps.numWorkers; i++ {
		ps.wg.Add(1)
		go ps.run(p, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (ps *parallelState) stopWorkers() {
	if !ps.running {
		return
	}

	close(ps.stopChan)
	ps.wg.Wait()
	close(ps.workChan)
	close(ps.doneChan)
	ps.running = false
}

// run processes chunks until stopped.
func (ps *parallelState) run(p *Population, id int) {
	defer ps.wg.Done()
	w := &ps.workers[id]

	for {
		select {
		case <-ps.stopChan:
			return
		case chunk, ok := <-ps.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end, w, chunk.tick, chunk.dt)
			ps.doneChan <- struct{}{}
		}
	}
}

// computeParallel splits the pass into one chunk per worker and waits.
func (p *Population) computeParallel(tick uint64, dt float64, q terrain.Query, bushes *systems.BushField) {
	ps := p.parallel
	for i := range ps.workers {
		ps.workers[i].bind(q, bushes, p.snapshot)
	}
	if !ps.running {
		ps.startWorkers(p)
	}

	n := len(p.agents)
	chunkSize := (n + ps.numWorkers - 1) / ps.numWorkers

	chunksDispatched := 0
	for w := 0; w < ps.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		ps.workChan <- workChunk{start: start, end: end, tick: tick, dt: dt}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-ps.doneChan
	}
}
