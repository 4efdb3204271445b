// Package editor is the modal editing session: it owns the clip document, its
// undo history and the adjustment samples, and turns intents into document
// mutations and collaborator calls.
package editor

import (
	"fmt"

	"github.com/ashutoshmjain/avim/internal/audio"
	"github.com/ashutoshmjain/avim/internal/autofix"
	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/ashutoshmjain/avim/internal/history"
	"github.com/ashutoshmjain/avim/internal/ingest"
	"github.com/ashutoshmjain/avim/internal/logging"
	"github.com/sirupsen/logrus"
)

// State is the top-level session state.
type State int

const (
	StateLoading State = iota
	StateReady
)

// Mode is the editing sub-mode while Ready.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeInsert
	ModeAdjust
	// ModeVisual is defined for completeness; no intent enters it.
	ModeVisual
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeCommand:
		return "COMMAND"
	case ModeInsert:
		return "INSERT"
	case ModeAdjust:
		return "ADJUST"
	case ModeVisual:
		return "VISUAL"
	}
	return "UNKNOWN"
}

// NudgeStep is how far one nudge moves a clip boundary, in seconds.
const NudgeStep = 0.1

// Audio plays and renders ranges of the source recording.
type Audio interface {
	Play(source string, ranges []clip.Range) (audio.Playback, error)
	Render(source string, ranges []clip.Range, output string) error
}

// Clipboard receives copied text.
type Clipboard interface {
	SetText(text string) error
}

// Options configures a Session. ProjectPath may be empty.
type Options struct {
	AudioPath   string
	ProjectPath string
	Audio       Audio
	Clipboard   Clipboard
	Log         *logrus.Entry
}

// Session is the whole editing state. It is not safe for concurrent use; the
// event loop is its only caller.
type Session struct {
	state   State
	mode    Mode
	loading string
	failed  error

	doc      *clip.Document
	history  *history.Manager
	learner  autofix.Learner
	register *clip.Clip
	pending  Kind

	adjustWord     int
	insertCaptured bool
	command        []rune
	status         string
	lastError      string
	audioPath      string
	projectPath    string
	duration       float64
	discrepancy    float64
	playback       audio.Playback
	quit           bool
	audio          Audio
	clipboard      Clipboard
	log            *logrus.Entry
}

// New returns a session in the Loading state.
func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Session{
		state:       StateLoading,
		loading:     "Checking cache or transcribing...",
		doc:         clip.NewDocument(nil),
		history:     history.New(),
		status:      "Welcome to avim!",
		audioPath:   opts.AudioPath,
		projectPath: opts.ProjectPath,
		audio:       opts.Audio,
		clipboard:   opts.Clipboard,
		log:         log,
	}
}

// SetLoading replaces the loading message. It has no effect once the session
// is Ready or has failed.
func (s *Session) SetLoading(msg string) {
	if s.state != StateLoading || s.failed != nil {
		return
	}
	s.loading = msg
}

// Fail moves the session into the loading error screen. Only Quit is
// accepted afterwards.
func (s *Session) Fail(err error) {
	s.state = StateLoading
	s.failed = err
	s.lastError = err.Error()
	s.loading = fmt.Sprintf("ERROR: %s. Press 'q' or Ctrl+C to quit.", err)
	s.log.WithError(err).Error("ingestion failed")
}

// Load installs clips as the document and enters Ready/Normal. A transcript
// ending more than ingest.DiscrepancyThreshold past duration is reported in
// the status line; a non-positive duration skips the check.
func (s *Session) Load(clips []clip.Clip, duration float64) {
	s.doc = clip.NewDocument(clips)
	s.duration = duration
	s.state = StateReady
	s.mode = ModeNormal
	s.failed = nil

	var txEnd float64
	if n := len(clips); n > 0 {
		txEnd = clips[n-1].EndTime
	}
	s.discrepancy = 0
	if duration > 0 {
		s.discrepancy = ingest.Discrepancy(clips, duration)
	}
	s.log.WithFields(logrus.Fields{
		"audio_duration":      fmt.Sprintf("%.2fs", duration),
		"transcript_duration": fmt.Sprintf("%.2fs", txEnd),
		"discrepancy":         fmt.Sprintf("%.2fs", s.discrepancy),
		"clips":               len(clips),
	}).Info("document loaded")

	if s.discrepancy > ingest.DiscrepancyThreshold {
		s.status = fmt.Sprintf("Loaded %d clips. Warning: Tx is %.2fs longer than audio.", len(clips), s.discrepancy)
	} else {
		s.status = fmt.Sprintf("Loaded %d clips.", len(clips))
	}
}

// Handle applies one intent.
func (s *Session) Handle(in Intent) {
	if in.Kind == Quit {
		s.Close()
		s.quit = true
		return
	}
	if s.state != StateReady {
		return
	}

	switch s.mode {
	case ModeNormal:
		s.handleNormal(in)
	case ModeInsert:
		s.handleInsert(in)
	case ModeCommand:
		s.handleCommand(in)
	case ModeAdjust:
		s.handleAdjust(in)
	case ModeVisual:
		if in.Kind == Exit || in.Kind == Cancel {
			s.mode = ModeNormal
		}
	}
}

// Close stops any running playback.
func (s *Session) Close() {
	s.stopPlayback()
}

// State reports whether the session is still loading.
func (s *Session) State() State { return s.state }

// Mode returns the current editing mode.
func (s *Session) Mode() Mode { return s.mode }

// LoadingMessage is the text shown on the loading screen.
func (s *Session) LoadingMessage() string { return s.loading }

// Failed returns the ingestion error, if loading failed.
func (s *Session) Failed() error { return s.failed }

// Status is the status-line message.
func (s *Session) Status() string { return s.status }

// LastError is the most recent save or export error text.
func (s *Session) LastError() string { return s.lastError }

// CommandLine is the command being typed in Command mode.
func (s *Session) CommandLine() string { return string(s.command) }

// AdjustWord is the selected word index in the next clip, in Adjust mode.
func (s *Session) AdjustWord() int { return s.adjustWord }

// Pending is the first half of an unfinished chord, or None.
func (s *Session) Pending() Kind { return s.pending }

// ShouldQuit reports whether a quit was requested.
func (s *Session) ShouldQuit() bool { return s.quit }

// Document returns the clip list being edited.
func (s *Session) Document() *clip.Document { return s.doc }

// History returns the undo/redo stacks.
func (s *Session) History() *history.Manager { return s.history }

// Duration is the probed audio length in seconds, 0 if unknown.
func (s *Session) Duration() float64 { return s.duration }

// Discrepancy is how far the last clip ends past the audio, in seconds.
func (s *Session) Discrepancy() float64 { return s.discrepancy }

// Playing reports whether a playback process is running.
func (s *Session) Playing() bool { return s.playback != nil }

// Samples returns the manual adjustment samples recorded so far.
func (s *Session) Samples() []int { return s.learner.Samples() }

// AudioPath is the source recording.
func (s *Session) AudioPath() string { return s.audioPath }

// ProjectPath is the associated project file, empty if none.
func (s *Session) ProjectPath() string { return s.projectPath }

// Register returns the yanked clip, if any.
func (s *Session) Register() (clip.Clip, bool) {
	if s.register == nil {
		return clip.Clip{}, false
	}
	return *s.register, true
}

func (s *Session) checkpoint() {
	s.history.Checkpoint(s.doc)
}
