// Package project reads and writes .avim project files: a JSON pair of the
// source audio path and the edited clip list.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ashutoshmjain/avim/internal/apperr"
	"github.com/ashutoshmjain/avim/internal/clip"
)

// Extension is the conventional project file suffix.
const Extension = ".avim"

// Project is the decoded content of a project file.
type Project struct {
	AudioPath string
	Clips     []clip.Clip
}

// Marshal encodes p as an indented two-element array.
func Marshal(p Project) ([]byte, error) {
	clips := p.Clips
	if clips == nil {
		clips = []clip.Clip{}
	}
	data, err := json.MarshalIndent([]any{p.AudioPath, clips}, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSerializationFailed, err)
	}
	return data, nil
}

// Save writes p to path.
func Save(path string, p Project) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.KindIoFailed, err)
	}
	return nil
}

// Load reads and decodes the project at path.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, apperr.Wrap(apperr.KindIoFailed, err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a project exactly. Any deviation from the two-element
// [string, clips] shape, including unknown clip fields, trailing data or an
// empty clip list, is ProjectLoadMalformed.
func Unmarshal(data []byte) (Project, error) {
	var pair []json.RawMessage
	if err := decodeStrict(data, &pair); err != nil {
		return Project{}, malformed(err)
	}
	if len(pair) != 2 {
		return Project{}, malformed(fmt.Errorf("expected 2 elements, got %d", len(pair)))
	}

	var p Project
	if err := decodeStrict(pair[0], &p.AudioPath); err != nil {
		return Project{}, malformed(fmt.Errorf("audio path: %w", err))
	}
	if err := decodeStrict(pair[1], &p.Clips); err != nil {
		return Project{}, malformed(fmt.Errorf("clips: %w", err))
	}
	if p.Clips == nil {
		return Project{}, malformed(errors.New("clips: expected an array"))
	}
	if len(p.Clips) == 0 {
		return Project{}, malformed(errors.New("clips: project has no clips"))
	}
	return p, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func malformed(err error) error {
	return apperr.Wrap(apperr.KindProjectLoadMalformed, err)
}
