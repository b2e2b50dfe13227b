// README: Intent parser; owns the theme model snapshot and runs the extraction pipeline.
package intent

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// EntityExtractor is the external named-entity recognizer.
type EntityExtractor interface {
	// EnsureModelReady prepares the model; called once before the first Extract.
	EnsureModelReady(ctx context.Context) error
	Extract(ctx context.Context, text string) ([]Annotation, error)
}

// ModelStore loads and saves the learned theme model. Missing or corrupt data yields
// an empty model and no error; Load errors only when the backend could not be read.
// Save failures are the store's to log.
type ModelStore interface {
	Load(ctx context.Context) (*LearnedThemeData, error)
	Save(ctx context.Context, model *LearnedThemeData)
}

const defaultBatchConcurrency = 4

// Parser turns free text into a VacationIntent. Safe for concurrent use: the model
// snapshot is never mutated after NewParser returns.
type Parser struct {
	extractor EntityExtractor
	model     *LearnedThemeData
	unknown   string
	logger    *zap.Logger
}

// NewParser readies the extractor, loads the theme model and seeds it on first run.
// unknownDestination is used when no destination can be found.
func NewParser(ctx context.Context, extractor EntityExtractor, store ModelStore, unknownDestination string, logger *zap.Logger) (*Parser, error) {
	if extractor == nil {
		return nil, fmt.Errorf("intent: nil entity extractor")
	}
	if store == nil {
		return nil, fmt.Errorf("intent: nil model store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := extractor.EnsureModelReady(ctx); err != nil {
		return nil, fmt.Errorf("prepare entity model: %w", err)
	}

	model, err := store.Load(ctx)
	switch {
	case err != nil:
		// The slot may still hold a learned model; serve the seed without overwriting it.
		model = BootstrapThemeData()
		logger.Warn("Theme model read failed, using seed without saving", zap.Error(err))
	case model.IsEmpty():
		model = BootstrapThemeData()
		store.Save(ctx, model)
		logger.Info("Theme model bootstrapped", zap.Int("themes", len(model.ThemeWordFrequency)))
	default:
		logger.Info("Theme model loaded", zap.Int("themes", len(model.ThemeWordFrequency)))
	}

	return &Parser{
		extractor: extractor,
		model:     model.Clone(),
		unknown:   unknownDestination,
		logger:    logger,
	}, nil
}

// Model returns a copy of the parser's theme model.
func (p *Parser) Model() *LearnedThemeData {
	return p.model.Clone()
}

// UnknownDestination is the placeholder used when no destination is found.
func (p *Parser) UnknownDestination() string {
	return p.unknown
}

// Pattern returns the preference pattern used for theme.
func (p *Parser) Pattern(theme string) PreferencePattern {
	return p.model.Pattern(theme)
}

// ParseIntent runs the full pipeline. The entity extractor is the only step that can
// fail; its error is returned as an *ExtractionError and no partial intent is produced.
func (p *Parser) ParseIntent(ctx context.Context, text string) Result {
	annotations, err := p.extractor.Extract(ctx, text)
	if err != nil {
		p.logger.Warn("Entity extraction failed", zap.Error(err))
		return Failed(&ExtractionError{Cause: err})
	}

	destination, ok := ResolveDestination(annotations, text)
	if !ok {
		destination = p.unknown
	}
	duration := ExtractDuration(text)
	theme, _ := ClassifyTheme(text, p.model)
	nightlife := HasNightlifeSignal(theme, text)

	v := VacationIntent{
		Destination:  destination,
		DurationDays: duration,
		Theme:        theme,
		Preferences:  SynthesizePreferences(theme, duration, nightlife, p.model),
	}

	p.logger.Debug("Intent parsed",
		zap.String("destination", v.Destination),
		zap.Int("duration_days", v.DurationDays),
		zap.String("theme", v.Theme),
		zap.Bool("nightlife", nightlife),
	)
	return Ok(v)
}

// ParseBatch parses independent messages concurrently. Results keep input order.
func (p *Parser) ParseBatch(ctx context.Context, texts []string, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	results := make([]Result, len(texts))
	wp := pool.New().WithMaxGoroutines(concurrency)
	for i, text := range texts {
		wp.Go(func() {
			results[i] = p.ParseIntent(ctx, text)
		})
	}
	wp.Wait()
	return results
}
