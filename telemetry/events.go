package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// EventType identifies telemetry events.
type EventType string

const (
	EventBirth   EventType = "birth"
	EventDeath   EventType = "death"
	EventHarvest EventType = "harvest"
	EventDrink   EventType = "drink"
)

// EventLogName is the file EventLog writes inside its directory.
const EventLogName = "events.jsonl.zst"

// Event represents a single telemetry event.
type Event struct {
	Type   EventType `json:"type"`
	Tick   uint64    `json:"tick"`
	BlobID uint32    `json:"blob"`
	X      int       `json:"x"`
	Y      int       `json:"y"`

	// Optional fields depending on event type
	ParentID   uint32  `json:"parent,omitempty"`
	MateID     uint32  `json:"mate,omitempty"`
	Generation uint32  `json:"generation,omitempty"`
	Cause      string  `json:"cause,omitempty"`
	Age        float64 `json:"age,omitempty"`
	Children   int     `json:"children,omitempty"`
	Harvests   int     `json:"harvests,omitempty"`
	Drinks     int     `json:"drinks,omitempty"`
}

// NewBirthEvent creates a birth event for a newborn and its parents.
func NewBirthEvent(tick uint64, id, parentID, mateID, generation uint32, x, y int) Event {
	return Event{
		Type:       EventBirth,
		Tick:       tick,
		BlobID:     id,
		X:          x,
		Y:          y,
		ParentID:   parentID,
		MateID:     mateID,
		Generation: generation,
	}
}

// NewDeathEvent creates a death event carrying the blob's lifetime totals.
func NewDeathEvent(tick uint64, id uint32, x, y int, cause string, age float64, life *LifetimeStats) Event {
	e := Event{
		Type:   EventDeath,
		Tick:   tick,
		BlobID: id,
		X:      x,
		Y:      y,
		Cause:  cause,
		Age:    age,
	}
	if life != nil {
		e.Children = life.Children
		e.Harvests = life.Harvests
		e.Drinks = life.Drinks
		e.Generation = life.Generation
	}
	return e
}

// NewHarvestEvent creates a completed-harvest event.
func NewHarvestEvent(tick uint64, id uint32, x, y int) Event {
	return Event{Type: EventHarvest, Tick: tick, BlobID: id, X: x, Y: y}
}

// NewDrinkEvent creates a completed-drink event.
func NewDrinkEvent(tick uint64, id uint32, x, y int) Event {
	return Event{Type: EventDrink, Tick: tick, BlobID: id, X: x, Y: y}
}

// EventLog writes events as zstd-compressed JSON lines.
type EventLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	n   int
}

// NewEventLog creates dir/events.jsonl.zst.
// Returns nil if dir is empty (event log disabled).
func NewEventLog(dir string) (*EventLog, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, EventLogName))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", EventLogName, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &EventLog{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Write appends events. Lines are buffered until Flush or Close.
func (l *EventLog) Write(events ...Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := l.w.Write(b); err != nil {
			return err
		}
		if err := l.w.WriteByte('\n'); err != nil {
			return err
		}
		l.n++
	}
	return nil
}

// Count returns the number of events written.
func (l *EventLog) Count() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Flush pushes buffered lines through the encoder.
func (l *EventLog) Flush() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.enc.Flush()
}

// Close flushes and closes the log.
func (l *EventLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	if err := l.w.Flush(); err != nil {
		firstErr = err
	}
	if err := l.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := l.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ReadEvents decodes an event log file.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var events []Event
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", len(events), err)
		}
		events = append(events, e)
	}
	return events, sc.Err()
}
