package service

import (
	"context"
	"strings"

	"github.com/AnubhavPadiyar/spotscout-server/internal/model"
	"github.com/AnubhavPadiyar/spotscout-server/internal/repository"
	"go.uber.org/zap"
)

// StudentService manages the single onboarded profile.
type StudentService struct {
	studentRepo *repository.StudentRepository
	logger      *zap.Logger
}

func NewStudentService(studentRepo *repository.StudentRepository, logger *zap.Logger) *StudentService {
	return &StudentService{studentRepo: studentRepo, logger: logger}
}

// Get returns the profile, or nil when onboarding has not happened.
func (s *StudentService) Get(ctx context.Context) *model.Student {
	return s.studentRepo.Get(ctx)
}

// Save validates and persists the profile.
func (s *StudentService) Save(ctx context.Context, student *model.Student) error {
	student.Name = strings.TrimSpace(student.Name)
	student.ERPID = strings.TrimSpace(student.ERPID)
	student.Department = strings.TrimSpace(student.Department)
	student.Year = strings.TrimSpace(student.Year)
	student.Section = strings.TrimSpace(student.Section)

	if student.Name == "" {
		return ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if student.ERPID == "" {
		return ValidationError{Field: "erpId", Msg: "must not be empty"}
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return err
	}
	s.logger.Info("student profile saved", zap.String("erp_id", student.ERPID))
	return nil
}
