package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiExtractor implements intent.EntityExtractor using Google's Gemini models.
type GeminiExtractor struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger

	mu    sync.Mutex
	ready bool
}

// NewGeminiExtractor initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiExtractor(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiExtractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Entity tagging should not be creative.
	model.SetTemperature(0)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(entitySystemPrompt)},
	}

	return &GeminiExtractor{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiExtractor) Close() {
	g.client.Close()
}

// EnsureModelReady checks once that the configured model is reachable.
func (g *GeminiExtractor) EnsureModelReady(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return nil
	}

	info, err := g.model.Info(ctx)
	if err != nil {
		return fmt.Errorf("gemini: model %s unavailable: %w", g.modelName, err)
	}
	g.logger.Info("Gemini entity model ready",
		zap.String("model", info.Name),
		zap.Int32("input_token_limit", info.InputTokenLimit),
	)
	g.ready = true
	return nil
}

// Extract asks the model to tag entities in text.
func (g *GeminiExtractor) Extract(ctx context.Context, text string) ([]intent.Annotation, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf("Text: %s", text)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return decodeEntityResponse(responseText.String())
}

func decodeEntityResponse(raw string) ([]intent.Annotation, error) {
	cleanJSON := cleanJSONString(raw)

	var result entityResponse
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	annotations := make([]intent.Annotation, 0, len(result.Entities))
	for _, e := range result.Entities {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		types := make([]intent.EntityType, 0, len(e.Types))
		for _, t := range e.Types {
			types = append(types, entityTypeFromLabel(t))
		}
		annotations = append(annotations, intent.Annotation{Text: e.Text, Types: types})
	}
	return annotations, nil
}

const entitySystemPrompt = `Role: You are a named-entity tagger for a travel-planning app.
Find every named entity in the user's text, in the order it appears.

RULES:
1. "text" MUST be copied exactly as written in the input (same casing, same spacing).
2. "types" lists candidate types, most likely first. Use these labels:
   - "address" for cities, countries, regions, islands, neighbourhoods, street addresses and landmarks someone can travel to.
   - "date", "duration", "money", "person", "organization" or "other" for everything else.
3. Multi-word places stay one entity ("New York", "Costa Rica").
4. Do not invent entities that are not in the text. Return an empty list if none.

Output JSON Schema:
{
  "entities": [
    {"text": "string", "types": ["string"]}
  ]
}
`

// cleanJSONString removes markdown code blocks if present (e.g. ` + "```json ... ```" + `)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
