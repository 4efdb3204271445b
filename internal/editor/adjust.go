package editor

import (
	"errors"
	"fmt"

	"github.com/ashutoshmjain/avim/internal/apperr"
	"github.com/ashutoshmjain/avim/internal/autofix"
	"github.com/sirupsen/logrus"
)

func (s *Session) enterAdjust() {
	if _, ok := s.doc.At(s.doc.Cursor() + 1); !ok {
		s.status = "Cannot adjust the last clip."
		return
	}
	s.mode = ModeAdjust
	s.adjustWord = 0
	s.status = "ADJUST MODE: Use 'w'/'b' to select word, 'Enter' to confirm, 'Esc' to cancel."
}

func (s *Session) handleAdjust(in Intent) {
	switch in.Kind {
	case NextWord:
		next, ok := s.doc.At(s.doc.Cursor() + 1)
		if ok && s.adjustWord < len(next.Words())-1 {
			s.adjustWord++
		}
	case PreviousWord:
		if s.adjustWord > 0 {
			s.adjustWord--
		}
	case Cancel, Exit:
		s.mode = ModeNormal
		s.status = "Adjustment cancelled."
	case Confirm:
		s.confirmAdjust()
	}
}

// confirmAdjust moves the selected words across the boundary and records the
// count as an adjustment sample.
func (s *Session) confirmAdjust() {
	s.mode = ModeNormal
	i := s.doc.Cursor()
	next, ok := s.doc.At(i + 1)
	if !ok {
		return
	}
	if s.adjustWord >= len(next.Words()) {
		s.status = "Nothing to move."
		return
	}

	s.checkpoint()
	moved := autofix.Correct(s.doc, i, s.adjustWord)
	s.learner.Record(moved)
	s.log.WithFields(logrus.Fields{
		"sample": s.learner.Len(),
		"words":  moved,
		"clip":   i + 1,
	}).Info("adjustment recorded")

	if left := autofix.SuggestedSamples - s.learner.Len(); left > 0 {
		s.status = fmt.Sprintf("Adjustment learned. Adjust %d more to find a pattern.", left)
	} else {
		s.status = "Pattern learned. You can now try :autofix"
	}
}

// runAutofix applies the learned correction to every unlocked boundary.
func (s *Session) runAutofix() {
	plan, err := s.learner.Plan()
	if err != nil && !errors.Is(err, apperr.E(apperr.KindLowCorrectionConfidence)) {
		s.status = "Not enough data to autofix. Please adjust a few clips first."
		return
	}
	s.log.WithFields(logrus.Fields{
		"mean":   fmt.Sprintf("%.2f", plan.Mean),
		"stddev": fmt.Sprintf("%.2f", plan.StdDev),
	}).Info("autofix statistics")
	if err != nil {
		s.status = fmt.Sprintf("Pattern is not consistent enough (Std Dev: %.2f). Please adjust more clips.", plan.StdDev)
		return
	}

	s.checkpoint()
	moved := autofix.Apply(s.doc, plan.Words)
	s.log.WithFields(logrus.Fields{"words": plan.Words, "moved": moved}).Info("autofix applied")
	s.status = fmt.Sprintf("Autofix complete. Moved approx %d words.", moved)
}
