package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/ashutoshmjain/avim/internal/editor"
	"github.com/ashutoshmjain/avim/internal/ingest"
	"github.com/ashutoshmjain/avim/internal/logging"
	"github.com/ashutoshmjain/avim/internal/ui"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"
)

// debugLines is the height of the debug panel.
const debugLines = 6

// Model is the root bubbletea model for the avim TUI.
type Model struct {
	session *editor.Session
	events  <-chan tea.Msg

	// Debug panel
	ring  *logging.Ring
	debug bool

	// UI state
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithDebug shows the tail of ring in a debug panel.
func WithDebug(ring *logging.Ring) Option {
	return func(m *Model) {
		m.ring = ring
		m.debug = ring != nil
	}
}

// New creates a Model driving session. events delivers ingestion messages and
// is read one message at a time until it is closed.
func New(session *editor.Session, events <-chan tea.Msg, opts ...Option) Model {
	m := Model{session: session, events: events}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Session returns the underlying editing session.
func (m Model) Session() *editor.Session { return m.session }

// Init starts reading ingestion messages.
func (m Model) Init() tea.Cmd {
	return readIngestCmd(m.events)
}

// Runner produces a clip list for an audio path. *ingest.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, path string, progress func(string)) (ingest.Result, error)
}

// StartIngest runs r in its own goroutine and returns the channel its progress
// and outcome are posted to. The channel is closed after the final message.
// Cancelling ctx abandons any message not yet delivered.
func StartIngest(ctx context.Context, r Runner, path string) <-chan tea.Msg {
	ch := make(chan tea.Msg, 1)
	send := func(msg tea.Msg) {
		select {
		case ch <- msg:
		case <-ctx.Done():
		}
	}
	go func() {
		defer close(ch)
		res, err := r.Run(ctx, path, func(line string) { send(IngestStatusMsg{Text: line}) })
		if err != nil {
			send(IngestFailedMsg{Err: err})
			return
		}
		send(IngestDoneMsg{Clips: res.Clips, Duration: res.Duration, FromCache: res.FromCache})
	}()
	return ch
}

// Loaded returns a channel holding a single IngestDoneMsg, for documents
// that need no transcription.
func Loaded(clips []clip.Clip, duration float64) <-chan tea.Msg {
	ch := make(chan tea.Msg, 1)
	ch <- IngestDoneMsg{Clips: clips, Duration: duration}
	close(ch)
	return ch
}

// readIngestCmd reads the next message from the ingestion channel.
func readIngestCmd(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return ingestClosedMsg{}
		}
		return msg
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case IngestStatusMsg:
		m.session.SetLoading(msg.Text)
		return m, readIngestCmd(m.events)

	case IngestDoneMsg:
		m.session.Load(msg.Clips, msg.Duration)
		return m, readIngestCmd(m.events)

	case IngestFailedMsg:
		m.session.Fail(msg.Err)
		return m, readIngestCmd(m.events)

	case ingestClosedMsg:
		m.events = nil
		return m, nil
	}

	return m, nil
}

// handleKey maps a key press to intents and applies them.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, in := range intentsFor(m.session, msg) {
		m.session.Handle(in)
	}
	if m.session.ShouldQuit() {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + divider(2) + status(1) + footer(1)
	reserved := 5
	if m.debug {
		reserved += debugLines + 1
	}
	return max(3, m.height-reserved)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.session.State() != editor.StateReady {
		return m.renderLoading()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderClips(m.listHeight()))
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderStatusBar())
	if m.debug {
		sections = append(sections, m.renderDebug())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderLoading() string {
	msg := m.session.LoadingMessage()
	style := ui.LoadingStyle
	if m.session.Failed() != nil {
		style = ui.ErrorStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		ui.TitleStyle.Render("AVIM"),
		"",
		style.Render(msg),
	)
	if m.debug {
		body += "\n\n" + m.renderDebug()
	}
	return lipgloss.Place(m.width, max(m.height, 1), lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderHeader() string {
	s := m.session
	title := ui.TitleStyle.Render("AVIM")
	file := ui.DimStyle.Render("  " + filepath.Base(s.AudioPath()))
	if p := s.ProjectPath(); p != "" {
		file += ui.DimStyle.Render(" (" + filepath.Base(p) + ")")
	}
	doc := s.Document()
	pos := ui.DimStyle.Render(fmt.Sprintf("  %d/%d", min(doc.Cursor()+1, doc.Len()), doc.Len()))

	var playing string
	if s.Playing() {
		playing = "  " + ui.PlayingBadgeStyle.Render("▶ PLAYING")
	}
	return title + file + pos + playing
}

// renderClips draws a window of clips around the cursor.
func (m Model) renderClips(height int) string {
	doc := m.session.Document()
	var lines []string
	if doc.Len() == 0 {
		lines = append(lines, ui.DimStyle.Render("  No clips."))
	}

	clips := doc.Clips()
	cursor := doc.Cursor()
	start := max(0, cursor-height/2)
	textWidth := max(10, m.width-30)

	for i := start; i < len(clips) && len(lines) < height; i++ {
		c := clips[i]
		ts := ui.TimestampStyle.Render(fmt.Sprintf("[%s - %s]", formatTime(c.StartTime), formatTime(c.EndTime)))
		speaker := ui.SpeakerStyle.Render(c.Speaker + ":")

		mark := " "
		if c.IsManuallyAdjusted {
			mark = ui.AdjustedMarkStyle.Render("*")
		}

		text := m.renderTranscript(i, c, textWidth)
		prefix := "  "
		if i == cursor {
			prefix = ui.SelectedStyle.Render("> ")
			text = ui.SelectedStyle.Render(text)
		}
		lines = append(lines, prefix+mark+ts+" "+speaker+" "+text)

		if c.Comment != "" && len(lines) < height {
			lines = append(lines, "      "+ui.CommentStyle.Render("# "+c.Comment))
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderTranscript highlights the words selected for a boundary move when i
// is the clip after the cursor in Adjust mode.
func (m Model) renderTranscript(i int, c clip.Clip, width int) string {
	s := m.session
	if s.Mode() != editor.ModeAdjust || i != s.Document().Cursor()+1 {
		return truncateToWidth(c.Transcript, width)
	}
	words := c.Words()
	k := min(s.AdjustWord()+1, len(words))
	selected := ui.AdjustWordStyle.Render(strings.Join(words[:k], " "))
	rest := strings.Join(words[k:], " ")
	if rest != "" {
		return selected + " " + rest
	}
	return selected
}

func (m Model) renderStatusBar() string {
	s := m.session
	badge := ui.ModeBadge(s.Mode().String())
	if s.Mode() == editor.ModeCommand {
		return badge + " " + ui.CommandLineStyle.Render(":"+s.CommandLine()+"▌")
	}
	style := ui.StatusStyle
	if strings.Contains(s.Status(), "Warning") || strings.Contains(s.Status(), "failed") {
		style = ui.WarningStyle
	}
	return badge + " " + style.Render(s.Status())
}

func (m Model) renderDebug() string {
	lines := m.ring.Tail(debugLines)
	for len(lines) < debugLines {
		lines = append(lines, "")
	}
	for i, l := range lines {
		lines[i] = ui.DebugStyle.Render(truncateToWidth(l, max(10, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var parts []string
	hint := func(key, desc string) {
		parts = append(parts, ui.FooterKeyStyle.Render(key)+ui.FooterDescStyle.Render(" "+desc))
	}

	switch m.session.Mode() {
	case editor.ModeAdjust:
		hint("w/b", "Word")
		hint("Enter", "Confirm")
		hint("Esc", "Cancel")
	case editor.ModeInsert:
		hint("Esc", "Normal")
		hint("Backspace", "Delete")
	case editor.ModeCommand:
		hint("Enter", "Run")
		hint("Esc", "Cancel")
	default:
		hint("j/k", "Nav")
		hint("Space", "Play")
		hint("P", "Play all")
		hint("m", "Adjust")
		hint("i", "Comment")
		hint("dd/yy/p", "Cut/Yank/Paste")
		hint("u/^R", "Undo/Redo")
		hint(":", "Command")
		hint("q", "Quit")
	}
	return strings.Join(parts, "  ")
}

// Helpers

func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := int(seconds) / 60
	return fmt.Sprintf("%02d:%04.1f", mins, seconds-float64(mins*60))
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	// Simple truncation for non-styled strings
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}
