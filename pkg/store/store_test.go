package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "items.json"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestStore(t)

	if items := s.List(""); len(items) != 0 {
		t.Errorf("Expected empty store, got %v", items)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("Store file should not exist before the first write")
	}
}

func TestAddAndReload(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add("milk", 2)
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	second, err := s.Add("bread", 1)
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("Expected sequential IDs, got %d and %d", first.ID, second.ID)
	}
	if first.Status != StatusOpen {
		t.Errorf("Expected new items to be open, got %s", first.Status)
	}

	reloaded, err := Open(s.Path())
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	items := reloaded.List("")
	if len(items) != 2 || items[0].Name != "milk" || items[1].Count != 1 {
		t.Errorf("Unexpected items after reload: %+v", items)
	}
	if !items[0].Created.Equal(first.Created) {
		t.Errorf("Expected created time %v, got %v", first.Created, items[0].Created)
	}

	third, err := reloaded.Add("eggs", 12)
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if third.ID != 3 {
		t.Errorf("Expected ID 3 after reload, got %d", third.ID)
	}

	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file should be renamed away")
	}
}

func TestAddInvalid(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(" ", 1); err == nil {
		t.Error("Expected error for empty name")
	}
	if _, err := s.Add("milk", 0); err == nil {
		t.Error("Expected error for zero count")
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("milk", 1)
	_, _ = s.Add("bread", 1)

	removed, err := s.Remove(1)
	if err != nil {
		t.Fatalf("Failed to remove item: %v", err)
	}
	if removed.Name != "milk" {
		t.Errorf("Expected to remove milk, got %s", removed.Name)
	}

	if _, err := s.Remove(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	items := s.List("")
	if len(items) != 1 || items[0].ID != 2 {
		t.Errorf("Unexpected items: %+v", items)
	}

	// IDs are never reused.
	item, _ := s.Add("eggs", 1)
	if item.ID != 3 {
		t.Errorf("Expected ID 3, got %d", item.ID)
	}
}

func TestListByStatus(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("milk", 1)
	_, _ = s.Add("bread", 1)

	if _, err := s.SetStatus(2, StatusDone); err != nil {
		t.Fatalf("Failed to set status: %v", err)
	}
	if _, err := s.SetStatus(9, StatusDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	open := s.List(StatusOpen)
	if len(open) != 1 || open[0].Name != "milk" {
		t.Errorf("Unexpected open items: %+v", open)
	}
	done := s.List(StatusDone)
	if len(done) != 1 || done[0].Name != "bread" {
		t.Errorf("Unexpected done items: %+v", done)
	}
	if all := s.List(""); len(all) != 2 {
		t.Errorf("Expected 2 items, got %d", len(all))
	}
}

func TestListOrdersWideIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	data := `{"next_id": 1, "items": [
		{"id": 4611686018427387904, "name": "high", "status": "open"},
		{"id": -4611686018427387904, "name": "low", "status": "open"},
		{"id": 5, "name": "mid", "status": "open"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("Failed to write store: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	items := s.List("")
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"low", "mid", "high"} {
		if items[i].Name != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, items[i].Name)
		}
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Expected error for corrupt store")
	}
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath("myapp")
	if filepath.Base(path) != "items.json" || filepath.Base(filepath.Dir(path)) != "myapp" {
		t.Errorf("Unexpected default path %s", path)
	}
}

func TestConcurrentAdd(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Add("item", 1); err != nil {
				t.Errorf("Failed to add item: %v", err)
			}
		}()
	}
	wg.Wait()

	items := s.List("")
	if len(items) != 10 {
		t.Fatalf("Expected 10 items, got %d", len(items))
	}
	for i, item := range items {
		if item.ID != int64(i+1) {
			t.Errorf("Expected ID %d, got %d", i+1, item.ID)
		}
	}
}

func TestItemString(t *testing.T) {
	item := Item{ID: 4, Name: "milk", Count: 2, Status: StatusOpen}
	if got := item.String(); got != "#4 milk x2 [open]" {
		t.Errorf("Unexpected string %q", got)
	}
}
