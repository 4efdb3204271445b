package ingest

import (
	"context"
	"sync"

	"github.com/ashutoshmjain/avim/internal/clip"
)

// LazyTranscriber builds its Transcriber on the first Transcribe call, so a
// run answered from the cache never needs credentials. A build error is
// returned from every call.
type LazyTranscriber struct {
	New func(ctx context.Context) (Transcriber, error)

	once sync.Once
	t    Transcriber
	err  error
}

// Transcribe builds the underlying transcriber if needed and delegates to it.
func (l *LazyTranscriber) Transcribe(ctx context.Context, audio []byte) ([]clip.Clip, error) {
	l.once.Do(func() { l.t, l.err = l.New(ctx) })
	if l.err != nil {
		return nil, l.err
	}
	return l.t.Transcribe(ctx, audio)
}
