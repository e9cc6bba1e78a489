package storage

import (
	"sync"

	"msgcard/internal/card"
)

// DraftStore keeps each chat's card draft and whether a render is running
// for it. Drafts live in memory only.
type DraftStore struct {
	drafts     map[int64]card.Draft
	processing map[int64]bool
	mu         sync.RWMutex
}

func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts:     make(map[int64]card.Draft),
		processing: make(map[int64]bool),
	}
}

// Get returns the chat's draft, or a fresh one if none exists yet.
func (s *DraftStore) Get(chatID int64) card.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.drafts[chatID]; ok {
		return d
	}
	return card.NewDraft()
}

// Update applies fn to the chat's draft and returns the result.
func (s *DraftStore) Update(chatID int64, fn func(*card.Draft)) card.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[chatID]
	if !ok {
		d = card.NewDraft()
	}
	fn(&d)
	s.drafts[chatID] = d
	return d
}

func (s *DraftStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, chatID)
}

func (s *DraftStore) TryStart(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing[chatID] {
		return false
	}

	s.processing[chatID] = true
	return true
}

func (s *DraftStore) Finish(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processing, chatID)
}

func (s *DraftStore) IsProcessing(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing[chatID]
}
