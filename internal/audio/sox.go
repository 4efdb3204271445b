// Package audio wraps the SoX command-line tools for probing, cutting,
// playing and rendering the source recording.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sox runs sox and soxi. Zero values fall back to the binaries on PATH and the
// system temp directory.
type Sox struct {
	SoxBin  string
	SoxiBin string
	TempDir string
	Log     *logrus.Entry
}

// Playback is a running playback process.
type Playback interface {
	Stop() error
	PID() int
}

// ProbeDuration returns the length of the file in seconds via `soxi -D`.
func (s *Sox) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, s.soxi(), "-D", path).Output()
	if err != nil {
		return 0, fmt.Errorf("soxi: %w", commandError(err))
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse soxi output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}

// ExtractWindow cuts [start, start+duration) into a WAV file and returns its bytes.
func (s *Sox) ExtractWindow(ctx context.Context, path string, start, duration float64) ([]byte, error) {
	tmp := filepath.Join(s.tempDir(), "avim_chunk_"+uuid.NewString()+".wav")
	defer os.Remove(tmp)

	if err := s.run(ctx, trimArgs(path, tmp, clip.Range{Start: start, End: start + duration})...); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, fmt.Errorf("read chunk: %w", err)
	}
	return data, nil
}

// Play starts playing ranges of source on the default audio device. Several
// ranges are first concatenated into a temporary playlist. The process is not
// waited on by the caller; Stop terminates it.
func (s *Sox) Play(source string, ranges []clip.Range) (Playback, error) {
	if len(ranges) == 0 {
		return nil, errors.New("no clips to play")
	}

	var cmd *exec.Cmd
	if len(ranges) == 1 {
		r := ranges[0]
		cmd = exec.Command(s.sox(), source, "-d", "trim", formatSeconds(r.Start), formatSeconds(r.Duration()))
	} else {
		dir := filepath.Join(s.tempDir(), "avim_playlist")
		os.RemoveAll(dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create playlist dir: %w", err)
		}
		playlist := filepath.Join(dir, "playlist.wav")
		if err := s.concatenate(context.Background(), source, ranges, dir, playlist); err != nil {
			return nil, fmt.Errorf("build playlist: %w", err)
		}
		cmd = exec.Command(s.sox(), playlist, "-d")
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start playback: %w", err)
	}
	p := &process{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait()
		close(p.done)
	}()
	s.logger().WithFields(logrus.Fields{"pid": cmd.Process.Pid, "ranges": len(ranges)}).Debug("playback started")
	return p, nil
}

// Render writes ranges of source, concatenated in order, to output. An empty
// range list renders an empty stereo file.
func (s *Sox) Render(source string, ranges []clip.Range, output string) error {
	ctx := context.Background()
	if len(ranges) == 0 {
		return s.run(ctx, "-n", "-r", "44100", "-c", "2", output, "trim", "0", "0")
	}

	dir := filepath.Join(s.tempDir(), "avim_export_"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	defer os.RemoveAll(dir)

	return s.concatenate(ctx, source, ranges, dir, output)
}

// concatenate trims each range into dir and joins the pieces into output.
func (s *Sox) concatenate(ctx context.Context, source string, ranges []clip.Range, dir, output string) error {
	pieces := make([]string, 0, len(ranges))
	for i, r := range ranges {
		piece := filepath.Join(dir, fmt.Sprintf("clip_%d.wav", i))
		if err := s.run(ctx, trimArgs(source, piece, r)...); err != nil {
			return fmt.Errorf("trim clip #%d: %w", i, err)
		}
		pieces = append(pieces, piece)
	}

	if len(pieces) == 1 {
		return copyFile(pieces[0], output)
	}
	args := append([]string{"--combine", "concatenate"}, pieces...)
	args = append(args, output)
	if err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("concatenate: %w", err)
	}
	return nil
}

func (s *Sox) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, s.sox(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("sox: %s: %w", msg, err)
		}
		return fmt.Errorf("sox: %w", err)
	}
	return nil
}

func (s *Sox) sox() string {
	if s.SoxBin != "" {
		return s.SoxBin
	}
	return "sox"
}

func (s *Sox) soxi() string {
	if s.SoxiBin != "" {
		return s.SoxiBin
	}
	return "soxi"
}

func (s *Sox) tempDir() string {
	if s.TempDir != "" {
		return s.TempDir
	}
	return os.TempDir()
}

func (s *Sox) logger() *logrus.Entry {
	if s.Log != nil {
		return s.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Stop kills the playback process. Stopping a finished process is not an error.
func (p *process) Stop() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop playback: %w", err)
	}
	return nil
}

func (p *process) PID() int { return p.cmd.Process.Pid }

func trimArgs(source, output string, r clip.Range) []string {
	return []string{source, output, "trim", formatSeconds(r.Start), formatSeconds(r.Duration())}
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func commandError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
