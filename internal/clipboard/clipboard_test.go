package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/ashutoshmjain/avim/internal/apperr"
)

func TestSetTextWritesSequence(t *testing.T) {
	var buf bytes.Buffer
	term := &Terminal{Out: &buf}

	if err := term.SetText("chunk 3 failed"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("chunk 3 failed"))
	if !strings.Contains(buf.String(), encoded) {
		t.Errorf("sequence %q missing payload", buf.String())
	}
	if !strings.HasPrefix(buf.String(), "\x1b]52;") {
		t.Errorf("not an OSC 52 sequence: %q", buf.String())
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("tty closed") }

func TestSetTextFailure(t *testing.T) {
	err := (&Terminal{Out: brokenWriter{}}).SetText("x")
	if apperr.KindOf(err) != apperr.KindClipboardUnavailable {
		t.Errorf("err = %v", err)
	}

	err = (&Terminal{}).SetText("x")
	if apperr.KindOf(err) != apperr.KindClipboardUnavailable {
		t.Errorf("err = %v", err)
	}
}
