package telemetry

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreWindows(t *testing.T) {
	s := openTestStore(t)
	const run = "run-a"

	if err := s.BeginRun(run, 7, 60, 60); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	for i := 1; i <= 3; i++ {
		w := WindowStats{WindowEndTick: uint64(i * 600), SimTimeSec: float64(i * 10), Blobs: 20 + i, HPMean: 75}
		if err := s.SaveWindow(run, w); err != nil {
			t.Fatalf("SaveWindow: %v", err)
		}
	}

	n, err := s.WindowCount(run)
	if err != nil {
		t.Fatalf("WindowCount: %v", err)
	}
	if n != 3 {
		t.Errorf("WindowCount = %d, want 3", n)
	}

	rows, err := s.Windows(run)
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(rows) != 3 || rows[0].WindowEnd != 600 || rows[2].Blobs != 23 {
		t.Errorf("unexpected rows %+v", rows)
	}

	if n, _ := s.WindowCount("other"); n != 0 {
		t.Errorf("other run has %d windows", n)
	}
}

func TestStoreBirths(t *testing.T) {
	s := openTestStore(t)
	const run = "run-b"

	if err := s.BeginRun(run, 1, 10, 10); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	events := []Event{
		NewBirthEvent(5, 11, 1, 2, 1, 0, 0),
		NewHarvestEvent(5, 1, 0, 0),
		NewBirthEvent(6, 12, 1, 3, 1, 1, 0),
		NewBirthEvent(9, 13, 11, 12, 2, 1, 1),
	}
	if err := s.SaveBirths(run, events); err != nil {
		t.Fatalf("SaveBirths: %v", err)
	}

	n, err := s.BirthCount(run)
	if err != nil {
		t.Fatalf("BirthCount: %v", err)
	}
	if n != 3 {
		t.Errorf("BirthCount = %d, want 3", n)
	}

	kids, err := s.Descendants(run, 1)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if len(kids) != 2 || kids[0] != 11 || kids[1] != 12 {
		t.Errorf("Descendants(1) = %v, want [11 12]", kids)
	}
}

func TestStoreNilIsNoop(t *testing.T) {
	var s *Store
	if err := s.BeginRun("x", 0, 1, 1); err != nil {
		t.Errorf("BeginRun on nil: %v", err)
	}
	if err := s.SaveWindow("x", WindowStats{}); err != nil {
		t.Errorf("SaveWindow on nil: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}
