package editor

import (
	"fmt"
	"math"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/sirupsen/logrus"
)

func (s *Session) handleNormal(in Intent) {
	// A pending chord consumes the next intent whether or not it completes.
	if s.pending != None {
		armed := s.pending
		s.pending = None
		if in.Kind == armed {
			switch armed {
			case DeleteCurrentClip:
				s.deleteClip()
			case YankCurrentClip:
				s.yankClip()
			}
		}
		return
	}

	switch in.Kind {
	case EnterCommand:
		s.mode = ModeCommand
		s.command = s.command[:0]
	case EnterInsert:
		s.mode = ModeInsert
		s.insertCaptured = false
	case EnterAdjust:
		s.enterAdjust()
	case NextClip:
		s.doc.SetCursor(s.doc.Cursor() + 1)
	case PreviousClip:
		s.doc.SetCursor(s.doc.Cursor() - 1)
	case DeleteCurrentClip, YankCurrentClip:
		s.pending = in.Kind
	case Paste:
		s.paste()
	case Undo:
		if s.history.Undo(s.doc) {
			s.status = "Undo successful."
		} else {
			s.status = "Nothing to undo."
		}
	case Redo:
		if s.history.Redo(s.doc) {
			s.status = "Redo successful."
		} else {
			s.status = "Nothing to redo."
		}
	case PlayClip:
		s.playClip()
	case PlayFromHere:
		s.playFromHere()
	case NudgeStartBack:
		s.nudge(true, -NudgeStep)
	case NudgeStartForward:
		s.nudge(true, NudgeStep)
	case NudgeEndBack:
		s.nudge(false, -NudgeStep)
	case NudgeEndForward:
		s.nudge(false, NudgeStep)
	case SwapWithNext:
		s.swapWithNext()
	}
}

// deleteClip cuts the current clip into the register.
func (s *Session) deleteClip() {
	i := s.doc.Cursor()
	if _, ok := s.doc.At(i); !ok {
		s.status = "Nothing to delete."
		return
	}
	s.checkpoint()
	removed, _ := s.doc.Remove(i)
	s.register = &removed
	s.status = fmt.Sprintf("Deleted clip %d.", i+1)
}

func (s *Session) yankClip() {
	c, ok := s.doc.Current()
	if !ok {
		s.status = "Nothing to yank."
		return
	}
	s.register = &c
	s.status = fmt.Sprintf("Yanked clip %d.", s.doc.Cursor()+1)
}

// paste inserts a copy of the register after the cursor with a fresh id and
// moves the cursor onto it.
func (s *Session) paste() {
	if s.register == nil {
		s.status = "Nothing to paste."
		return
	}
	s.checkpoint()
	c := *s.register
	c.ID = s.doc.MaxID() + 1
	at := s.doc.Cursor() + 1
	if s.doc.Len() == 0 {
		at = 0
	}
	s.doc.Insert(at, c)
	s.doc.SetCursor(at)
	s.status = fmt.Sprintf("Pasted as clip %d.", at+1)
}

func (s *Session) nudge(start bool, delta float64) {
	i := s.doc.Cursor()
	if _, ok := s.doc.At(i); !ok {
		return
	}
	s.checkpoint()
	var label string
	var value float64
	s.doc.Update(i, func(c *clip.Clip) {
		if start {
			c.StartTime = math.Max(0, c.StartTime+delta)
			label, value = "Start", c.StartTime
		} else {
			c.EndTime = math.Max(c.StartTime, c.EndTime+delta)
			label, value = "End", c.EndTime
		}
	})
	s.status = fmt.Sprintf("%s time of clip %d: %.2fs", label, i+1, value)
}

func (s *Session) swapWithNext() {
	i := s.doc.Cursor()
	if _, ok := s.doc.At(i + 1); !ok {
		s.status = "No next clip to swap with."
		return
	}
	s.checkpoint()
	s.doc.SwapText(i)
	s.status = fmt.Sprintf("Swapped text of clips %d and %d.", i+1, i+2)
}

func (s *Session) playClip() {
	if s.stopPlayback() {
		s.status = "Playback stopped."
		return
	}
	c, ok := s.doc.Current()
	if !ok {
		return
	}
	s.status = fmt.Sprintf("Playing clip %d...", s.doc.Cursor()+1)
	s.startPlayback([]clip.Range{c.Range()})
}

func (s *Session) playFromHere() {
	if s.stopPlayback() {
		s.status = "Playback stopped."
		return
	}
	clips := s.doc.Clips()
	cur := s.doc.Cursor()
	if cur >= len(clips) {
		return
	}
	s.status = "Playing all from current clip..."
	s.startPlayback(clip.Ranges(clips[cur:]))
}

func (s *Session) startPlayback(ranges []clip.Range) {
	if s.audio == nil {
		s.status = "Playback failed: no audio player"
		return
	}
	p, err := s.audio.Play(s.audioPath, ranges)
	if err != nil {
		s.status = fmt.Sprintf("Playback failed: %v", err)
		s.log.WithError(err).Warn("playback failed")
		return
	}
	s.playback = p
	s.log.WithFields(logrus.Fields{"pid": p.PID(), "ranges": len(ranges)}).Debug("playback started")
}

// stopPlayback terminates the current playback and reports whether one was
// running.
func (s *Session) stopPlayback() bool {
	if s.playback == nil {
		return false
	}
	if err := s.playback.Stop(); err != nil {
		s.log.WithError(err).Warn("stop playback")
	}
	s.playback = nil
	return true
}
