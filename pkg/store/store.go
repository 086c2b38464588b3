// Package store persists the items managed by the demo CLI.
//
// Items live in a single JSON file, by default under the XDG data
// directory (~/.local/share/<cli>/items.json on Linux). Writes go to a
// temporary file that is then renamed over the original, so a crash never
// leaves a half-written store behind.
package store

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// Item statuses.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

// ErrNotFound is returned when no item has the requested ID.
var ErrNotFound = errors.New("item not found")

// Item is one stored entry.
type Item struct {
	ID      int64     `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Count   int64     `json:"count" yaml:"count"`
	Status  string    `json:"status" yaml:"status"`
	Created time.Time `json:"created" yaml:"created"`
}

func (i Item) String() string {
	return fmt.Sprintf("#%d %s x%d [%s]", i.ID, i.Name, i.Count, i.Status)
}

type file struct {
	NextID int64   `json:"next_id"`
	Items  []*Item `json:"items"`
}

// Store is a JSON file backed item collection. It is safe for concurrent
// use within one process.
type Store struct {
	path string
	mu   sync.RWMutex
	data file
	now  func() time.Time
}

// DefaultPath returns the XDG location of the store for cliName.
func DefaultPath(cliName string) string {
	return filepath.Join(xdg.DataHome, cliName, "items.json")
}

// Open loads the store at path. A missing file is an empty store; it is
// created on the first write.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: file{NextID: 1},
		now:  time.Now,
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}
	for _, item := range s.data.Items {
		if item.ID >= s.data.NextID {
			s.data.NextID = item.ID + 1
		}
	}
	return s, nil
}

// Path returns the store file.
func (s *Store) Path() string {
	return s.path
}

// Add stores a new open item and returns it.
func (s *Store) Add(name string, count int64) (Item, error) {
	if strings.TrimSpace(name) == "" {
		return Item{}, errors.New("item name must not be empty")
	}
	if count < 1 {
		return Item{}, fmt.Errorf("item count must be positive, got %d", count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := &Item{
		ID:      s.data.NextID,
		Name:    name,
		Count:   count,
		Status:  StatusOpen,
		Created: s.now().UTC().Truncate(time.Second),
	}
	s.data.NextID++
	s.data.Items = append(s.data.Items, item)

	if err := s.save(); err != nil {
		s.data.Items = s.data.Items[:len(s.data.Items)-1]
		s.data.NextID--
		return Item{}, err
	}
	return *item, nil
}

// Remove deletes the item with the given ID and returns it.
func (s *Store) Remove(id int64) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.data.Items, func(item *Item) bool { return item.ID == id })
	if idx < 0 {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}

	removed := s.data.Items[idx]
	previous := s.data.Items
	s.data.Items = slices.Delete(slices.Clone(previous), idx, idx+1)
	if err := s.save(); err != nil {
		s.data.Items = previous
		return Item{}, err
	}
	return *removed, nil
}

// SetStatus changes the status of an item.
func (s *Store) SetStatus(id int64, status string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.data.Items {
		if item.ID != id {
			continue
		}
		previous := item.Status
		item.Status = status
		if err := s.save(); err != nil {
			item.Status = previous
			return Item{}, err
		}
		return *item, nil
	}
	return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
}

// List returns the items in ID order. A non-empty status keeps only items
// with that status.
func (s *Store) List(status string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.data.Items))
	for _, item := range s.data.Items {
		if status != "" && item.Status != status {
			continue
		}
		items = append(items, *item)
	}
	slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(a.ID, b.ID) })
	return items
}

// save writes the store atomically. Callers hold the write lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save store file: %w", err)
	}
	return nil
}
