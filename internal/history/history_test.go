package history

import (
	"reflect"
	"testing"

	"github.com/ashutoshmjain/avim/internal/clip"
)

func newDoc() *clip.Document {
	return clip.NewDocument([]clip.Clip{
		{ID: 1, Transcript: "one two", StartTime: 0, EndTime: 1},
		{ID: 2, Transcript: "three four five", StartTime: 1, EndTime: 2},
		{ID: 3, Transcript: "six", StartTime: 2, EndTime: 3},
	})
}

func TestUndoRedoRoundTrip(t *testing.T) {
	doc := newDoc()
	h := New()
	before := doc.Snapshot()

	mutations := []func(){
		func() { doc.MoveLeadingWords(0, 1) },
		func() { doc.Remove(2) },
		func() { doc.Update(0, func(c *clip.Clip) { c.Comment = "note" }) },
		func() { doc.Insert(0, clip.Clip{ID: 4, Transcript: "new"}) },
	}
	for _, mutate := range mutations {
		h.Checkpoint(doc)
		mutate()
	}
	after := doc.Snapshot()

	for range mutations {
		if !h.Undo(doc) {
			t.Fatal("undo should succeed")
		}
	}
	if !reflect.DeepEqual(doc.Snapshot(), before) {
		t.Errorf("after undo:\n got %+v\nwant %+v", doc.Snapshot(), before)
	}
	if h.Undo(doc) {
		t.Error("undo past the first checkpoint should report nothing to undo")
	}

	for range mutations {
		if !h.Redo(doc) {
			t.Fatal("redo should succeed")
		}
	}
	if !reflect.DeepEqual(doc.Snapshot(), after) {
		t.Errorf("after redo:\n got %+v\nwant %+v", doc.Snapshot(), after)
	}
	if h.Redo(doc) {
		t.Error("redo past the end should report nothing to redo")
	}
}

func TestCheckpointClearsRedo(t *testing.T) {
	doc := newDoc()
	h := New()

	h.Checkpoint(doc)
	doc.Remove(0)
	h.Undo(doc)
	if h.RedoDepth() != 1 {
		t.Fatalf("redo depth = %d, want 1", h.RedoDepth())
	}

	h.Checkpoint(doc)
	doc.Remove(1)
	if h.RedoDepth() != 0 {
		t.Errorf("checkpoint should clear redo, depth = %d", h.RedoDepth())
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	doc := newDoc()
	h := New()

	h.Checkpoint(doc)
	doc.Update(0, func(c *clip.Clip) { c.Transcript = "edited" })
	h.Undo(doc)

	c, _ := doc.At(0)
	if c.Transcript != "one two" {
		t.Errorf("undo restored %q", c.Transcript)
	}

	doc.Update(0, func(c *clip.Clip) { c.Transcript = "again" })
	h.Redo(doc)
	c, _ = doc.At(0)
	if c.Transcript != "edited" {
		t.Errorf("redo entry aliased live document: %q", c.Transcript)
	}
}
