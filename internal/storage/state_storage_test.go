package storage

import (
	"sync"
	"testing"

	"msgcard/internal/card"
)

func TestDraftStore_GetDefaults(t *testing.T) {
	s := NewDraftStore()

	d := s.Get(1)
	if d.Fit != card.FitContain || d.Anchor != card.AnchorCenter || !d.Toggles.Frame {
		t.Errorf("expected default draft, got %+v", d)
	}
}

func TestDraftStore_UpdateAndReset(t *testing.T) {
	s := NewDraftStore()

	s.Update(1, func(d *card.Draft) { d.Text = "hello" })
	got := s.Update(1, func(d *card.Draft) { d.Template = "cute" })
	if got.Text != "hello" || got.Template != "cute" {
		t.Errorf("expected accumulated updates, got %+v", got)
	}
	if s.Get(2).Text != "" {
		t.Error("drafts leaked between chats")
	}

	s.Reset(1)
	if s.Get(1).Text != "" {
		t.Error("expected a fresh draft after reset")
	}
}

func TestDraftStore_ProcessingGuard(t *testing.T) {
	s := NewDraftStore()

	if !s.TryStart(1) {
		t.Fatal("first TryStart should succeed")
	}
	if s.TryStart(1) {
		t.Error("second TryStart should fail while processing")
	}
	if !s.IsProcessing(1) || s.IsProcessing(2) {
		t.Error("unexpected processing flags")
	}

	s.Finish(1)
	if s.IsProcessing(1) || !s.TryStart(1) {
		t.Error("expected guard to be released")
	}
}

func TestDraftStore_ConcurrentTryStart(t *testing.T) {
	s := NewDraftStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryStart(7) {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if started != 1 {
		t.Errorf("expected exactly one start, got %d", started)
	}
}
