// README: Theme model persistence on top of a KV slot ("ml_prefs"/"data").
package themestore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

const (
	Namespace = "ml_prefs"
	DataKey   = "data"
)

// ModelStore loads and saves the learned theme model as one JSON blob.
// It implements intent.ModelStore.
type ModelStore struct {
	kv     KV
	logger *zap.Logger
}

func NewModelStore(kv KV, logger *zap.Logger) *ModelStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelStore{kv: kv, logger: logger}
}

// Load returns the stored model, or an empty one when the slot is missing or holds
// corrupt data. A backend read failure is returned as an error.
func (s *ModelStore) Load(ctx context.Context) (*intent.LearnedThemeData, error) {
	raw, found, err := s.kv.Get(ctx, Namespace, DataKey)
	if err != nil {
		return nil, fmt.Errorf("read theme model: %w", err)
	}
	if !found || raw == "" {
		return intent.NewLearnedThemeData(), nil
	}

	model, err := intent.DecodeLearnedThemeData([]byte(raw))
	if err != nil {
		s.logger.Warn("Stored theme model is corrupt, starting empty", zap.Error(err))
		return intent.NewLearnedThemeData(), nil
	}
	return model, nil
}

// Save writes the model. Failures are logged and dropped: the blob is derived data.
func (s *ModelStore) Save(ctx context.Context, model *intent.LearnedThemeData) {
	data, err := model.Encode()
	if err != nil {
		s.logger.Error("Theme model encode failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, Namespace, DataKey, string(data)); err != nil {
		s.logger.Error("Theme model save failed", zap.Error(err))
	}
}
