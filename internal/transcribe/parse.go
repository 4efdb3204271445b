// Package transcribe converts short WAV windows into timed clips using a
// hosted speech model.
package transcribe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashutoshmjain/avim/internal/clip"
)

// Prompt asks a multimodal model for speaker-segmented clips.
const Prompt = "Transcribe this audio. Identify speakers. Segment the audio into clips based on pauses or speaker changes. " +
	"Provide the output as a valid JSON array of objects, where each object has 'id', 'speaker', 'transcript', " +
	"'start_time', and 'end_time'. The JSON should be the only thing in your response."

// segment is one element of the model's JSON answer.
type segment struct {
	ID         int     `json:"id" jsonschema:"required"`
	Speaker    string  `json:"speaker" jsonschema:"required"`
	Transcript string  `json:"transcript" jsonschema:"required"`
	StartTime  float64 `json:"start_time" jsonschema:"required"`
	EndTime    float64 `json:"end_time" jsonschema:"required"`
}

// ParseClips decodes a model answer into clips. Markdown code fences around
// the JSON are ignored. On failure the raw answer is kept in the error.
func ParseClips(raw string) ([]clip.Clip, error) {
	body := stripFences(raw)
	var segs []segment
	if err := json.Unmarshal([]byte(body), &segs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from model: %v\nRaw response: %s", err, raw)
	}
	clips := make([]clip.Clip, len(segs))
	for i, s := range segs {
		clips[i] = clip.Clip{
			ID:         s.ID,
			Speaker:    s.Speaker,
			Transcript: s.Transcript,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
		}
	}
	return clips, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
