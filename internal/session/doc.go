// Package session is the editing session for one open note.
//
// A Session owns the note content and selection, the undo history, the
// split layout and the scroll synchronizer. Key events and toolbar actions
// are resolved to named actions and applied through the transform engine:
//
//	s := session.Open(body, session.WithPersist(store.Persister(id)))
//	defer s.Close()
//
//	s.SetSelection(textrange.Span(0, 5))
//	_ = s.ApplyToolbarAction(session.ActionBold, nil)
//	s.ApplyKeyEvent(key.MustParse("Ctrl+Z"))
//
//	if err := s.Save(ctx, persist); err != nil {
//	    var se *session.SaveError
//	    if errors.As(err, &se) { /* edits are intact, retry later */ }
//	}
//
// # Lifecycle
//
//	Loading -> Ready -> Saving -> Ready
//	                 \-> Closed (Close or Cancel)
//
// Edits are accepted in Ready and Saving. Only one save runs at a time. A
// save that finishes after the session closed is discarded.
//
// # Undo granularity
//
// Every formatting action snapshots the content first. Typing is grouped
// into bursts: the first keystroke of a burst snapshots, and a burst ends
// on any other action, on a caret move, or after a pause of at least the
// typing checkpoint interval.
package session
