package queue

import (
	"sync"

	"github.com/snapbooth/snapbooth/models"
)

// MemoryStore is an in-memory Store used in tests and for throwaway booth
// sessions where durability does not matter.
type MemoryStore struct {
	mu       sync.Mutex
	captures []models.PendingCapture
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Enqueue(capture models.PendingCapture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures = append(s.captures, capture)
	return nil
}

func (s *MemoryStore) PeekOldest(eventID string) (models.PendingCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.captures {
		if c.EventID == eventID {
			return c, nil
		}
	}
	return models.PendingCapture{}, ErrEmpty
}

func (s *MemoryStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.captures {
		if c.ID == id {
			s.captures = append(s.captures[:i], s.captures[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) SetFailureCount(id string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.captures {
		if c.ID == id {
			s.captures[i].FailureCount = n
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Count(eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, c := range s.captures {
		if c.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) Events() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var events []string
	for _, c := range s.captures {
		if !seen[c.EventID] {
			seen[c.EventID] = true
			events = append(events, c.EventID)
		}
	}
	return events, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
