package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AnubhavPadiyar/spotscout-server/internal/model"
	"github.com/AnubhavPadiyar/spotscout-server/internal/store"
	"go.uber.org/zap"
)

type LibraryRepository struct {
	kv     store.KV
	logger *zap.Logger
}

func NewLibraryRepository(kv store.KV, logger *zap.Logger) *LibraryRepository {
	return &LibraryRepository{kv: kv, logger: logger}
}

// GetAll returns the persisted roster. A missing key means first run
// and yields the seed roster. Storage faults and corrupt documents also
// degrade to the seed roster: roster reads never fail the caller, the
// fault is logged at WARN instead.
func (r *LibraryRepository) GetAll(ctx context.Context) []*model.Library {
	raw, err := r.kv.Get(ctx, keyLibraries)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("library roster read failed, using seed roster",
				zap.String("key", keyLibraries), zap.Error(err))
		}
		return model.DefaultLibraries()
	}

	var libs []*model.Library
	if err := json.Unmarshal(raw, &libs); err != nil {
		r.logger.Warn("library roster document corrupt, using seed roster",
			zap.String("key", keyLibraries), zap.Error(err))
		return model.DefaultLibraries()
	}
	return libs
}

// SaveAll persists the full roster document.
func (r *LibraryRepository) SaveAll(ctx context.Context, libs []*model.Library) error {
	raw, err := json.Marshal(libs)
	if err != nil {
		return fmt.Errorf("marshal library roster: %w", err)
	}
	if err := r.kv.Set(ctx, keyLibraries, raw); err != nil {
		return fmt.Errorf("save library roster: %w", err)
	}
	return nil
}
