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

type StudentRepository struct {
	kv     store.KV
	logger *zap.Logger
}

func NewStudentRepository(kv store.KV, logger *zap.Logger) *StudentRepository {
	return &StudentRepository{kv: kv, logger: logger}
}

// Get returns the stored profile, or nil when no profile exists yet.
// Read faults degrade to nil with a WARN log.
func (r *StudentRepository) Get(ctx context.Context) *model.Student {
	raw, err := r.kv.Get(ctx, keyStudent)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("student profile read failed, treating as absent",
				zap.String("key", keyStudent), zap.Error(err))
		}
		return nil
	}

	var student model.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		r.logger.Warn("student profile document corrupt, treating as absent",
			zap.String("key", keyStudent), zap.Error(err))
		return nil
	}
	return &student
}

// Save persists the profile document.
func (r *StudentRepository) Save(ctx context.Context, student *model.Student) error {
	raw, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("marshal student profile: %w", err)
	}
	if err := r.kv.Set(ctx, keyStudent, raw); err != nil {
		return fmt.Errorf("save student profile: %w", err)
	}
	return nil
}
