package clip

import "strings"

// Document is the ordered clip sequence plus the editor cursor. List order is
// chronological order; the editor addresses clips by index, not ID.
type Document struct {
	clips  []Clip
	cursor int
}

// NewDocument copies clips into a new document with the cursor at 0.
func NewDocument(clips []Clip) *Document {
	return &Document{clips: append([]Clip(nil), clips...)}
}

// Len returns the number of clips.
func (d *Document) Len() int { return len(d.clips) }

// At returns the clip at index i.
func (d *Document) At(i int) (Clip, bool) {
	if i < 0 || i >= len(d.clips) {
		return Clip{}, false
	}
	return d.clips[i], true
}

// Clips returns a copy of the clip sequence.
func (d *Document) Clips() []Clip { return d.Snapshot() }

// Cursor returns the current index.
func (d *Document) Cursor() int { return d.cursor }

// SetCursor moves the cursor, clamped to [0, len-1].
func (d *Document) SetCursor(i int) {
	d.cursor = i
	d.clampCursor()
}

// Current returns the clip under the cursor.
func (d *Document) Current() (Clip, bool) { return d.At(d.cursor) }

// Insert places c at index i, shifting later clips right. i is clamped to [0, len].
func (d *Document) Insert(i int, c Clip) {
	i = max(0, min(i, len(d.clips)))
	d.clips = append(d.clips, Clip{})
	copy(d.clips[i+1:], d.clips[i:])
	d.clips[i] = c
}

// Remove deletes the clip at index i and returns it. Removing from an empty
// document, or out of range, is a no-op.
func (d *Document) Remove(i int) (Clip, bool) {
	if i < 0 || i >= len(d.clips) {
		return Clip{}, false
	}
	removed := d.clips[i]
	d.clips = append(d.clips[:i], d.clips[i+1:]...)
	d.clampCursor()
	return removed, true
}

// Replace overwrites the clip at index i.
func (d *Document) Replace(i int, c Clip) bool {
	if i < 0 || i >= len(d.clips) {
		return false
	}
	d.clips[i] = c
	return true
}

// Update applies fn to the clip at index i in place.
func (d *Document) Update(i int, fn func(*Clip)) bool {
	if i < 0 || i >= len(d.clips) {
		return false
	}
	fn(&d.clips[i])
	return true
}

// SwapText exchanges the transcripts of clips i and i+1. Timing, speaker and
// flags stay with their clips.
func (d *Document) SwapText(i int) bool {
	if i < 0 || i+1 >= len(d.clips) {
		return false
	}
	d.clips[i].Transcript, d.clips[i+1].Transcript = d.clips[i+1].Transcript, d.clips[i].Transcript
	return true
}

// MoveLeadingWords moves the first n words of clip i+1 onto the end of clip i,
// joined by a single space. It returns the number of words actually moved.
func (d *Document) MoveLeadingWords(i, n int) int {
	if n <= 0 || i < 0 || i+1 >= len(d.clips) {
		return 0
	}
	words := d.clips[i+1].Words()
	n = min(n, len(words))
	if n == 0 {
		return 0
	}
	moved := strings.Join(words[:n], " ")
	if d.clips[i].Blank() {
		d.clips[i].Transcript = moved
	} else {
		d.clips[i].Transcript += " " + moved
	}
	d.clips[i+1].Transcript = strings.Join(words[n:], " ")
	return n
}

// Prune drops every clip with an empty or whitespace-only transcript and
// returns how many were removed.
func (d *Document) Prune() int {
	kept := d.clips[:0]
	for _, c := range d.clips {
		if !c.Blank() {
			kept = append(kept, c)
		}
	}
	removed := len(d.clips) - len(kept)
	clear(d.clips[len(kept):])
	d.clips = kept
	d.clampCursor()
	return removed
}

// MaxID returns the largest clip ID, or 0 for an empty document.
func (d *Document) MaxID() int {
	var id int
	for _, c := range d.clips {
		id = max(id, c.ID)
	}
	return id
}

// Snapshot returns an independent copy of the clips.
func (d *Document) Snapshot() []Clip {
	return append([]Clip(nil), d.clips...)
}

// Restore installs a copy of clips as the document contents, keeping the
// cursor in range.
func (d *Document) Restore(clips []Clip) {
	d.clips = append([]Clip(nil), clips...)
	d.clampCursor()
}

func (d *Document) clampCursor() {
	if d.cursor >= len(d.clips) {
		d.cursor = len(d.clips) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}
