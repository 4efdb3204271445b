// Package autofix learns how many words the segmenter tends to misplace at
// clip boundaries and reapplies that correction to untouched boundaries.
package autofix

import (
	"math"

	"github.com/ashutoshmjain/avim/internal/apperr"
	"github.com/ashutoshmjain/avim/internal/clip"
)

// ConfidenceThreshold is the largest sample standard deviation, in words, at
// which automatic correction is applied.
const ConfidenceThreshold = 1.0

// SuggestedSamples is how many manual corrections the editor asks for before
// suggesting autofix.
const SuggestedSamples = 3

// Learner accumulates adjustment samples for one session. Samples are never
// persisted.
type Learner struct {
	samples []int
}

// Record adds one adjustment sample.
func (l *Learner) Record(words int) { l.samples = append(l.samples, words) }

// Len returns the number of samples.
func (l *Learner) Len() int { return len(l.samples) }

// Samples returns a copy of the recorded samples.
func (l *Learner) Samples() []int { return append([]int(nil), l.samples...) }

// Plan is the correction autofix would apply.
type Plan struct {
	Mean   float64
	StdDev float64
	Words  int
}

// Plan fits the samples. It fails with InsufficientAdjustmentSamples when
// nothing has been recorded and LowCorrectionConfidence when the spread
// exceeds ConfidenceThreshold.
func (l *Learner) Plan() (Plan, error) {
	if len(l.samples) == 0 {
		return Plan{}, apperr.E(apperr.KindInsufficientAdjustmentSamples)
	}
	mean, stddev := Stats(l.samples)
	p := Plan{Mean: mean, StdDev: stddev, Words: int(math.Round(mean))}
	if stddev > ConfidenceThreshold {
		return p, apperr.LowCorrectionConfidence(stddev)
	}
	return p, nil
}

// Stats returns the arithmetic mean and population standard deviation.
func Stats(samples []int) (mean, stddev float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean = sum / float64(len(samples))
	var variance float64
	for _, s := range samples {
		diff := mean - float64(s)
		variance += diff * diff
	}
	variance /= float64(len(samples))
	return mean, math.Sqrt(variance)
}

// Correct performs a manual boundary correction: the first wordIndex+1 words
// of clip i+1 move onto clip i and both clips are locked against automatic
// correction. It returns the words moved, or 0 if the pair or index is invalid.
func Correct(doc *clip.Document, i, wordIndex int) int {
	next, ok := doc.At(i + 1)
	if !ok || wordIndex < 0 || wordIndex >= len(next.Words()) {
		return 0
	}
	moved := doc.MoveLeadingWords(i, wordIndex+1)
	lock := func(c *clip.Clip) { c.IsManuallyAdjusted = true }
	doc.Update(i, lock)
	doc.Update(i+1, lock)
	return moved
}

// Apply moves words leading words across every eligible boundary, walking
// pairs from the end of the document to the start. Pairs with a manually
// adjusted clip, or whose next clip has no more than words words, are skipped.
// Automatic moves do not lock clips. Blank clips are pruned afterwards. It
// returns the total number of words moved.
func Apply(doc *clip.Document, words int) int {
	var total int
	for i := doc.Len() - 2; i >= 0; i-- {
		cur, _ := doc.At(i)
		next, _ := doc.At(i + 1)
		if cur.IsManuallyAdjusted || next.IsManuallyAdjusted {
			continue
		}
		if len(next.Words()) > words {
			total += doc.MoveLeadingWords(i, words)
		}
	}
	doc.Prune()
	return total
}
