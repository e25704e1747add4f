package session

import (
	"context"
	"errors"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/event"
)

// Save writes the current content through persist. Only one save runs at
// a time; edits made while it runs are kept and stay unsaved. On failure
// the session returns to Ready with a *SaveError. If the session is closed
// before persist returns, the result is discarded and ErrClosed returned.
func (s *Session) Save(ctx context.Context, persist PersistFunc) error {
	if persist == nil {
		return &SaveError{Op: "save", Err: ErrNoPersister}
	}

	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	case StateLoading:
		s.mu.Unlock()
		return ErrNotReady
	case StateSaving:
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.state = StateSaving
	content := s.content
	s.mu.Unlock()

	s.log.Debug("saving %d code units", textrange.Len(content))
	err := persist(ctx, content)

	var events pending
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		s.log.Info("save finished after close, result discarded")
		return ErrClosed
	}
	s.state = StateReady
	if err != nil {
		events.add(event.TopicSaveFailed, s.id, SaveFailed{SessionID: s.id, Err: err})
		s.mu.Unlock()

		s.log.Error("save failed: %v", err)
		s.publish(events)
		return &SaveError{Op: "save", Err: err}
	}
	s.baseline = content
	events.add(event.TopicSaved, s.id, Saved{SessionID: s.id, Length: textrange.Len(content)})
	s.mu.Unlock()

	s.log.Info("saved")
	s.publish(events)
	return nil
}

// SaveAsync starts Save on a goroutine with the persistence set by
// WithPersist. State errors are returned immediately; the save result is
// reported through session.saved and session.save.failed events.
func (s *Session) SaveAsync(ctx context.Context) error {
	if s.persist == nil {
		return ErrNoPersister
	}

	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	case StateLoading:
		s.mu.Unlock()
		return ErrNotReady
	case StateSaving:
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.mu.Unlock()

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		err := s.Save(ctx, s.persist)
		// A racing save or close is not a failure of this request.
		if errors.Is(err, ErrSaveInProgress) || errors.Is(err, ErrClosed) {
			s.log.Debug("async save: %v", err)
		}
	}()
	return nil
}

// WaitSaves blocks until saves started by SaveAsync have finished.
func (s *Session) WaitSaves() {
	s.saves.Wait()
}

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool {
	return s.State() == StateSaving
}
