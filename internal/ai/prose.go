package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

// warmupText forces prose to load its tagging and NER models.
const warmupText = "We are flying to Paris next week."

// ProseExtractor uses the prose NLP library for local entity extraction.
type ProseExtractor struct {
	logger *zap.Logger

	mu    sync.Mutex
	ready bool
}

func NewProseExtractor(logger *zap.Logger) *ProseExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProseExtractor{logger: logger}
}

// EnsureModelReady loads the bundled models once by tagging a short sentence.
func (e *ProseExtractor) EnsureModelReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := prose.NewDocument(warmupText); err != nil {
		return fmt.Errorf("prose: load models: %w", err)
	}
	e.logger.Info("Prose entity model ready")
	e.ready = true
	return nil
}

// Extract performs entity extraction using prose NLP.
func (e *ProseExtractor) Extract(ctx context.Context, text string) ([]intent.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose: tag document: %w", err)
	}

	var annotations []intent.Annotation
	for _, ent := range doc.Entities() {
		annotations = append(annotations, intent.Annotation{
			Text:  ent.Text,
			Types: []intent.EntityType{entityTypeFromLabel(ent.Label)},
		})
	}
	return annotations, nil
}
