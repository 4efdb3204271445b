package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini transcribes through the Gemini API with a JSON response schema.
type Gemini struct {
	client *genai.Client
	model  string
	schema map[string]any
	log    *logrus.Entry
}

// GeminiOptions configures NewGemini. BaseURL overrides the API endpoint.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Log     *logrus.Entry
}

// NewGemini builds a Gemini transcriber.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	schema, err := responseSchema()
	if err != nil {
		return nil, err
	}

	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, schema: schema, log: entryOrDiscard(opts.Log)}, nil
}

// Transcribe sends one WAV window and parses the clips out of the answer.
func (g *Gemini) Transcribe(ctx context.Context, audio []byte) ([]clip.Clip, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(Prompt),
				genai.NewPartFromBytes(audio, "audio/wav"),
			},
			genai.RoleUser,
		),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: g.schema,
	})
	if err != nil {
		return nil, fmt.Errorf("API Error: %v", err)
	}

	text := resp.Text()
	if resp.UsageMetadata != nil {
		g.log.WithFields(logrus.Fields{
			"model":         g.model,
			"input_tokens":  resp.UsageMetadata.PromptTokenCount,
			"output_tokens": resp.UsageMetadata.CandidatesTokenCount,
		}).Debug("gemini response")
	}
	return ParseClips(text)
}

func responseSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect([]segment{})

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal response schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response schema: %w", err)
	}
	delete(out, "$schema")
	return out, nil
}
