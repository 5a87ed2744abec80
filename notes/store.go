// Package notes provides note card storage shared by UI commands and AI tools.
package notes

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Note is one sticky note card.
type Note struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Store is the storage contract consumed by the tool executor.
type Store interface {
	Create(content string) (Note, error)
	Update(id, content string) (Note, error)
	Delete(id string) error
	List() ([]Note, error)
}

// MemoryStore is an in-memory Store. It can be swapped for a persistent
// implementation without touching the tool layer.
type MemoryStore struct {
	mu    sync.RWMutex
	notes []Note
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create adds a new note with a fresh UUID.
func (s *MemoryStore) Create(content string) (Note, error) {
	now := time.Now().Unix()
	note := Note{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
	return note, nil
}

// Update replaces the content of an existing note.
func (s *MemoryStore) Update(id, content string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Content = content
			s.notes[i].UpdatedAt = time.Now().Unix()
			return s.notes[i], nil
		}
	}
	return Note{}, fmt.Errorf("note with id %s not found", id)
}

// Delete removes a note permanently.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note with id %s not found", id)
}

// List returns a snapshot of all notes in creation order.
func (s *MemoryStore) List() ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out, nil
}
