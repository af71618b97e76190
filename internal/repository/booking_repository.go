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

type BookingRepository struct {
	kv     store.KV
	logger *zap.Logger
}

func NewBookingRepository(kv store.KV, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{kv: kv, logger: logger}
}

// GetAll returns the booking ledger, newest-first by convention. The
// engine filters by status and orders by Seq where determinism matters;
// it never depends on document position. Read faults degrade to an
// empty ledger with a WARN log.
func (r *BookingRepository) GetAll(ctx context.Context) []*model.Booking {
	raw, err := r.kv.Get(ctx, keyBookings)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("booking ledger read failed, treating as empty",
				zap.String("key", keyBookings), zap.Error(err))
		}
		return nil
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		r.logger.Warn("booking ledger document corrupt, treating as empty",
			zap.String("key", keyBookings), zap.Error(err))
		return nil
	}
	return bookings
}

// SaveAll persists the full ledger document.
func (r *BookingRepository) SaveAll(ctx context.Context, bookings []*model.Booking) error {
	raw, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("marshal booking ledger: %w", err)
	}
	if err := r.kv.Set(ctx, keyBookings, raw); err != nil {
		return fmt.Errorf("save booking ledger: %w", err)
	}
	return nil
}
