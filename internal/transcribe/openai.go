package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ashutoshmjain/avim/internal/clip"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "whisper-1"

// openAISpeaker labels every clip; the transcription endpoint does not
// diarize.
const openAISpeaker = "Speaker 1"

// OpenAI transcribes through the audio transcription endpoint, using segment
// timestamps from the verbose JSON response.
type OpenAI struct {
	client openai.Client
	model  string
	log    *logrus.Entry
}

// OpenAIOptions configures NewOpenAI. BaseURL overrides the API endpoint.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Log     *logrus.Entry
}

// NewOpenAI builds an OpenAI transcriber.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: API key is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), model: model, log: entryOrDiscard(opts.Log)}, nil
}

type verboseTranscription struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads one WAV window and converts each segment into a clip.
func (o *OpenAI) Transcribe(ctx context.Context, audio []byte) ([]clip.Clip, error) {
	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio), "chunk.wav", "audio/wav"),
		Model:          openai.AudioModel(o.model),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("API Error: %v", err)
	}
	if resp == nil {
		return nil, errors.New("API Error: empty response")
	}
	clips, err := parseVerbose(resp.RawJSON())
	if err != nil {
		return nil, err
	}
	o.log.WithFields(logrus.Fields{"model": o.model, "clips": len(clips)}).Debug("openai response")
	return clips, nil
}

func parseVerbose(raw string) ([]clip.Clip, error) {
	var v verboseTranscription
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from model: %v\nRaw response: %s", err, raw)
	}
	clips := make([]clip.Clip, 0, len(v.Segments))
	for _, s := range v.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		clips = append(clips, clip.Clip{
			ID:         len(clips) + 1,
			Speaker:    openAISpeaker,
			Transcript: text,
			StartTime:  s.Start,
			EndTime:    s.End,
		})
	}
	if len(clips) == 0 && strings.TrimSpace(v.Text) != "" {
		clips = append(clips, clip.Clip{
			ID:         1,
			Speaker:    openAISpeaker,
			Transcript: strings.TrimSpace(v.Text),
			EndTime:    v.Duration,
		})
	}
	return clips, nil
}

func entryOrDiscard(e *logrus.Entry) *logrus.Entry {
	if e != nil {
		return e
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
