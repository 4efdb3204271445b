// Package ingest turns an audio file into a clip list by transcribing it in
// fixed-length windows and stitching the results onto one timeline.
package ingest

import (
	"context"
	"fmt"
	"math"

	"github.com/ashutoshmjain/avim/internal/apperr"
	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/sirupsen/logrus"
)

// DefaultChunkSeconds is the default transcription window length.
const DefaultChunkSeconds = 300.0

// Prober reports the total duration of an audio file in seconds.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Extractor cuts [start, start+duration) out of an audio file.
type Extractor interface {
	ExtractWindow(ctx context.Context, path string, start, duration float64) ([]byte, error)
}

// Transcriber converts one window of audio into clips timed from 0.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) ([]clip.Clip, error)
}

// Cache looks up and stores finished clip lists by audio path.
type Cache interface {
	Load(path string) ([]clip.Clip, bool, error)
	Save(path string, clips []clip.Clip) error
}

// Result is a finished ingestion.
type Result struct {
	Clips     []clip.Clip
	Duration  float64
	FromCache bool
}

// Pipeline wires the collaborators together. Cache may be nil.
type Pipeline struct {
	Prober       Prober
	Extractor    Extractor
	Transcriber  Transcriber
	Cache        Cache
	UseCache     bool
	ChunkSeconds float64
	Log          *logrus.Entry
}

// Run ingests the audio at path. progress, if non-nil, receives user-facing
// status lines. Chunks are transcribed one at a time, in order; the first
// failure aborts the run and discards earlier chunks.
func (p *Pipeline) Run(ctx context.Context, path string, progress func(string)) (Result, error) {
	log := p.logger().WithField("path", path)
	report := func(format string, args ...any) {
		if progress != nil {
			progress(fmt.Sprintf(format, args...))
		}
	}

	if p.UseCache && p.Cache != nil {
		clips, ok, err := p.Cache.Load(path)
		if err != nil {
			log.WithError(err).Warn("cache lookup failed")
		}
		if ok {
			duration, err := p.Prober.ProbeDuration(ctx, path)
			if err != nil {
				log.WithError(err).Warn("probe duration for cached transcription")
				duration = 0
			}
			log.WithField("clips", len(clips)).Info("loaded transcription from cache")
			return Result{Clips: clips, Duration: duration, FromCache: true}, nil
		}
	}

	duration, err := p.Prober.ProbeDuration(ctx, path)
	if err != nil {
		return Result{}, apperr.DurationUnavailable(err)
	}
	if duration <= 0 {
		return Result{}, apperr.DurationUnavailable(fmt.Errorf("probed duration is %v", duration))
	}

	window := p.ChunkSeconds
	if window <= 0 {
		window = DefaultChunkSeconds
	}
	numChunks := int(math.Ceil(duration / window))
	log.WithFields(logrus.Fields{"duration": duration, "chunks": numChunks}).Info("starting transcription")

	var all []clip.Clip
	for i := 0; i < numChunks; i++ {
		report("Transcribing chunk %d of %d...", i+1, numChunks)

		offset := float64(i) * window
		length := math.Min(window, duration-offset)
		data, err := p.Extractor.ExtractWindow(ctx, path, offset, length)
		if err != nil {
			return Result{}, apperr.ChunkExtractionFailed(i, err)
		}

		chunk, err := p.Transcriber.Transcribe(ctx, data)
		if err != nil {
			return Result{}, apperr.TranscriptionFailed(i, err.Error())
		}
		log.WithFields(logrus.Fields{"chunk": i, "offset": offset, "clips": len(chunk)}).Debug("chunk transcribed")

		for _, c := range chunk {
			c.StartTime += offset
			c.EndTime += offset
			all = append(all, c)
		}
	}

	clips, dropped := Sanitize(all, duration)
	if dropped > 0 {
		log.WithField("dropped", dropped).Info("dropped clips past end of audio")
	}
	if len(clips) == 0 {
		return Result{}, apperr.E(apperr.KindEmptyTranscript)
	}

	if p.Cache != nil {
		if err := p.Cache.Save(path, clips); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}

	return Result{Clips: clips, Duration: duration}, nil
}

func (p *Pipeline) logger() *logrus.Entry {
	if p.Log != nil {
		return p.Log
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

// Sanitize drops clips starting at or after duration, clamps end times down to
// duration, and renumbers IDs from 1 in order. It returns the surviving clips
// and how many were dropped.
func Sanitize(clips []clip.Clip, duration float64) ([]clip.Clip, int) {
	out := make([]clip.Clip, 0, len(clips))
	for _, c := range clips {
		if c.StartTime >= duration {
			continue
		}
		if c.EndTime > duration {
			c.EndTime = duration
		}
		c.ID = len(out) + 1
		out = append(out, c)
	}
	return out, len(clips) - len(out)
}

// DiscrepancyThreshold is how far, in seconds, the transcript may run past the
// audio before the user is warned.
const DiscrepancyThreshold = 1.0

// Discrepancy returns how far the last clip's end runs past duration.
func Discrepancy(clips []clip.Clip, duration float64) float64 {
	var end float64
	if len(clips) > 0 {
		end = clips[len(clips)-1].EndTime
	}
	return end - duration
}
