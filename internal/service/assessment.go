package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type AssessmentService interface {
	Create(ctx context.Context, userID int64) (*models.Assessment, error)
	GetAll(ctx context.Context, userID int64) ([]models.Assessment, error)
	GetOne(ctx context.Context, assessmentID, userID int64) (*models.Assessment, error)
	MarkStarted(ctx context.Context, assessmentID, userID int64) error
	MarkFinished(ctx context.Context, assessmentID, userID int64) error
}

type assessmentService struct {
	repo   repository.AssessmentRepository
	logger *zap.Logger
}

func NewAssessmentService(repo repository.AssessmentRepository, logger *zap.Logger) AssessmentService {
	return &assessmentService{repo: repo, logger: logger}
}

func (s *assessmentService) Create(ctx context.Context, userID int64) (*models.Assessment, error) {
	assessment, err := s.repo.Create(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to create assessment", zap.Error(err))
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) GetAll(ctx context.Context, userID int64) ([]models.Assessment, error) {
	assessments, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list assessments", zap.Error(err))
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (s *assessmentService) GetOne(ctx context.Context, assessmentID, userID int64) (*models.Assessment, error) {
	assessment, err := s.repo.GetByID(ctx, assessmentID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		s.logger.Error("Failed to load assessment", zap.Error(err))
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) MarkStarted(ctx context.Context, assessmentID, userID int64) error {
	if err := s.repo.UpdateStartTime(ctx, assessmentID, userID); err != nil {
		s.logger.Error("Failed to mark assessment started", zap.Error(err))
		return fmt.Errorf("failed to mark assessment started: %w", err)
	}
	return nil
}

func (s *assessmentService) MarkFinished(ctx context.Context, assessmentID, userID int64) error {
	if err := s.repo.UpdateEndTime(ctx, assessmentID, userID); err != nil {
		s.logger.Error("Failed to mark assessment finished", zap.Error(err))
		return fmt.Errorf("failed to mark assessment finished: %w", err)
	}
	return nil
}
