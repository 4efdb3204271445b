package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSox records its argument list into the file sox would have written.
const fakeSox = `#!/bin/sh
if [ "$2" = "-d" ]; then exec sleep 30; fi
if [ "$1" = "--combine" ]; then for out; do :; done
elif [ "$1" = "-n" ]; then out="$6"
else out="$2"; fi
echo "$*" > "$out"
`

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unsupported")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func newFakeSox(t *testing.T) *Sox {
	return &Sox{
		SoxBin:  writeScript(t, "sox", fakeSox),
		SoxiBin: writeScript(t, "soxi", "#!/bin/sh\necho ' 650.25 '\n"),
		TempDir: t.TempDir(),
	}
}

func TestProbeDuration(t *testing.T) {
	s := newFakeSox(t)
	d, err := s.ProbeDuration(context.Background(), "talk.wav")
	require.NoError(t, err)
	assert.Equal(t, 650.25, d)
}

func TestProbeDurationUnparsable(t *testing.T) {
	s := newFakeSox(t)
	s.SoxiBin = writeScript(t, "soxi-bad", "#!/bin/sh\necho 'not audio'\n")
	_, err := s.ProbeDuration(context.Background(), "talk.wav")
	assert.Error(t, err)
}

func TestExtractWindow(t *testing.T) {
	s := newFakeSox(t)
	data, err := s.ExtractWindow(context.Background(), "talk.wav", 300, 50.5)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(data)), "trim 300 50.5"), "args: %s", data)

	left, err := os.ReadDir(s.TempDir)
	require.NoError(t, err)
	assert.Empty(t, left, "chunk temp file should be removed")
}

func TestRenderConcatenates(t *testing.T) {
	s := newFakeSox(t)
	out := filepath.Join(t.TempDir(), "final.wav")

	err := s.Render("talk.wav", []clip.Range{{Start: 0, End: 1.5}, {Start: 4, End: 6}}, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "--combine concatenate"), "args: %s", data)
	assert.Contains(t, string(data), "clip_0.wav")
	assert.Contains(t, string(data), "clip_1.wav")
}

func TestRenderSingleCopies(t *testing.T) {
	s := newFakeSox(t)
	out := filepath.Join(t.TempDir(), "final.wav")

	require.NoError(t, s.Render("talk.wav", []clip.Range{{Start: 2, End: 3}}, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trim 2 1")
}

func TestRenderEmpty(t *testing.T) {
	s := newFakeSox(t)
	out := filepath.Join(t.TempDir(), "empty.wav")

	require.NoError(t, s.Render("talk.wav", nil, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-n -r 44100 -c 2")
}

func TestPlayAndStop(t *testing.T) {
	s := newFakeSox(t)

	p, err := s.Play("talk.wav", []clip.Range{{Start: 1, End: 2}})
	require.NoError(t, err)
	assert.Positive(t, p.PID())

	require.NoError(t, p.Stop())
	done := p.(*process).done
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("playback process was not terminated")
	}
	assert.NoError(t, p.Stop(), "stopping twice is harmless")
}

func TestPlayNothing(t *testing.T) {
	s := newFakeSox(t)
	_, err := s.Play("talk.wav", nil)
	assert.Error(t, err)
}
