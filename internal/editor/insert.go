package editor

import "github.com/ashutoshmjain/avim/internal/clip"

// handleInsert edits the current clip's comment. The first edit of an insert
// session takes the checkpoint, so one undo reverts the whole session.
func (s *Session) handleInsert(in Intent) {
	switch in.Kind {
	case Exit:
		s.mode = ModeNormal
	case Char:
		s.editComment(func(c *clip.Clip) { c.Comment += string(in.Rune) })
	case Backspace:
		cur, ok := s.doc.Current()
		if !ok || cur.Comment == "" {
			return
		}
		s.editComment(func(c *clip.Clip) {
			r := []rune(c.Comment)
			c.Comment = string(r[:len(r)-1])
		})
	}
}

func (s *Session) editComment(fn func(*clip.Clip)) {
	if _, ok := s.doc.Current(); !ok {
		return
	}
	if !s.insertCaptured {
		s.checkpoint()
		s.insertCaptured = true
	}
	s.doc.Update(s.doc.Cursor(), fn)
}
