package service

import (
	"context"

	"github.com/AnubhavPadiyar/spotscout-server/internal/model"
	"github.com/AnubhavPadiyar/spotscout-server/internal/repository"
	"go.uber.org/zap"
)

// AdminScope is what a verified PIN grants: either every library (the
// master override) or a single one.
type AdminScope struct {
	AllLibraries bool   `json:"allLibraries"`
	LibraryID    string `json:"libraryId,omitempty"`
}

// Covers reports whether the scope permits acting on the library.
func (s AdminScope) Covers(libraryID string) bool {
	return s.AllLibraries || s.LibraryID == libraryID
}

// LibraryService serves roster reads and admin PIN checks. Reads run
// the expiry sweep first, so no booking observably survives past its
// deadline once any read has happened.
type LibraryService struct {
	libraryRepo *repository.LibraryRepository
	engine      *BookingService
	masterPIN   string
	logger      *zap.Logger
}

func NewLibraryService(libraryRepo *repository.LibraryRepository, engine *BookingService, masterPIN string, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		libraryRepo: libraryRepo,
		engine:      engine,
		masterPIN:   masterPIN,
		logger:      logger,
	}
}

// GetLibraries returns the roster after reconciling expirations.
func (s *LibraryService) GetLibraries(ctx context.Context) ([]*model.Library, error) {
	if _, err := s.engine.ReconcileExpirations(ctx); err != nil {
		return nil, err
	}
	return s.libraryRepo.GetAll(ctx), nil
}

// GetLibrary returns one library, or ErrLibraryNotFound.
func (s *LibraryService) GetLibrary(ctx context.Context, id string) (*model.Library, error) {
	libs, err := s.GetLibraries(ctx)
	if err != nil {
		return nil, err
	}
	if lib := findLibrary(libs, id); lib != nil {
		return lib, nil
	}
	return nil, ErrLibraryNotFound
}

// VerifyAdminPIN matches the PIN against the master override and then
// each library's own PIN. This is the entire trust model: an in-memory
// string compare, no hashing, no rate limiting.
func (s *LibraryService) VerifyAdminPIN(ctx context.Context, pin string) (AdminScope, bool) {
	if pin == "" {
		return AdminScope{}, false
	}
	if pin == s.masterPIN {
		return AdminScope{AllLibraries: true}, true
	}
	for _, lib := range s.libraryRepo.GetAll(ctx) {
		if lib.AdminPin == pin {
			return AdminScope{LibraryID: lib.ID}, true
		}
	}
	return AdminScope{}, false
}
