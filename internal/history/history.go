// Package history keeps linear undo/redo snapshots of a clip document.
package history

import "github.com/ashutoshmjain/avim/internal/clip"

// Manager holds full-document snapshots. Most recent entries are last.
type Manager struct {
	undo [][]clip.Clip
	redo [][]clip.Clip
}

// New returns an empty history.
func New() *Manager { return &Manager{} }

// Checkpoint records the document's pre-mutation state and discards any redo
// entries. Call it before every undoable mutation.
func (m *Manager) Checkpoint(doc *clip.Document) {
	m.undo = append(m.undo, doc.Snapshot())
	m.redo = nil
}

// Undo restores the most recent checkpoint, moving the current state onto the
// redo stack. It returns false when there is nothing to undo.
func (m *Manager) Undo(doc *clip.Document) bool {
	if len(m.undo) == 0 {
		return false
	}
	prev := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, doc.Snapshot())
	doc.Restore(prev)
	return true
}

// Redo mirrors Undo.
func (m *Manager) Redo(doc *clip.Document) bool {
	if len(m.redo) == 0 {
		return false
	}
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, doc.Snapshot())
	doc.Restore(next)
	return true
}

// UndoDepth returns the number of undo entries.
func (m *Manager) UndoDepth() int { return len(m.undo) }

// RedoDepth returns the number of redo entries.
func (m *Manager) RedoDepth() int { return len(m.redo) }
