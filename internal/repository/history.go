package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/snapcap/internal/domain"
	"github.com/timmy/snapcap/internal/logger"
)

// MaxEntries bounds the history log; the oldest entries are evicted first
// once the bound is exceeded.
const MaxEntries = 50

// ErrEntryNotFound is returned when a history entry id does not exist.
var ErrEntryNotFound = errors.New("history entry not found")

// HistoryStore persists past caption results as a single JSON file. The file
// is loaded in full on every read and rewritten in full on every mutation; a
// mutex serializes access so concurrent mutations cannot lose updates.
type HistoryStore struct {
	mu   sync.Mutex
	path string
}

// NewHistoryStore creates a store backed by the JSON file at path.
// Parameters:
//   - path: location of the history file; created on first mutation.
//
// Returns:
//   - *HistoryStore: store instance bound to path.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// load reads the whole history file. A missing file is an empty store, not
// an error. Callers must hold s.mu.
func (s *HistoryStore) load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history file: %w", err)
	}
	return entries, nil
}

// loadOrEmpty reads the store, degrading a read failure to an empty store.
// Callers must hold s.mu.
func (s *HistoryStore) loadOrEmpty() []domain.HistoryEntry {
	entries, err := s.load()
	if err != nil {
		logger.GetDefault().WithError(err).Warn("loading history, treating store as empty")
		return []domain.HistoryEntry{}
	}
	return entries
}

// save rewrites the whole history file. Callers must hold s.mu.
func (s *HistoryStore) save(entries []domain.HistoryEntry) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// List returns all entries in stored order. Read failures are logged and
// reported as an empty store.
// Parameters: none.
// Returns:
//   - []domain.HistoryEntry: entries oldest first, never nil.
func (s *HistoryStore) List() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrEmpty()
}

// Get retrieves a single entry by id.
// Parameters:
//   - id: entry identifier.
//
// Returns:
//   - *domain.HistoryEntry: entry if found.
//   - error: ErrEntryNotFound if no entry has the id.
func (s *HistoryStore) Get(id string) (*domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.loadOrEmpty() {
		if entry.ID == id {
			return &entry, nil
		}
	}
	return nil, ErrEntryNotFound
}

// FindByImageHash searches for the first entry whose image hash matches.
// Parameters:
//   - hash: content fingerprint of the image.
//
// Returns:
//   - *domain.HistoryEntry: first match in stored order, or nil.
//   - bool: true if a match was found.
func (s *HistoryStore) FindByImageHash(hash string) (*domain.HistoryEntry, bool) {
	if hash == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.loadOrEmpty() {
		if entry.ImageHash == hash {
			return &entry, true
		}
	}
	return nil, false
}

// Append creates a new entry and persists it, evicting the oldest entries
// once the store exceeds MaxEntries. The id and timestamp are assigned here.
// Parameters:
//   - imageName: display label for the image.
//   - description: cleaned vision description.
//   - caption: chosen short-form caption, already truncated for storage.
//   - think: private reasoning text, empty for fallback generations.
//   - imageHash: content fingerprint, empty when the caller recorded none.
//
// Returns:
//   - *domain.HistoryEntry: the persisted entry.
//   - error: non-nil if the rewrite fails.
func (s *HistoryStore) Append(imageName, description, caption, think, imageHash string) (*domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.HistoryEntry{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		ImageName:   imageName,
		Description: description,
		Caption:     caption,
		Think:       think,
		ImageHash:   imageHash,
	}

	entries := append(s.loadOrEmpty(), entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	if err := s.save(entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry with the given id. Deleting an id that is not in
// the store is a no-op success.
// Parameters:
//   - id: entry identifier.
//
// Returns:
//   - error: non-nil if the rewrite fails.
func (s *HistoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.loadOrEmpty()
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	return s.save(kept)
}

// Clear removes all entries.
// Parameters: none.
// Returns:
//   - error: non-nil if the rewrite fails.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save([]domain.HistoryEntry{})
}
