package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type AssessmentRepository interface {
	Create(ctx context.Context, userID int64) (*models.Assessment, error)
	GetByUser(ctx context.Context, userID int64) ([]models.Assessment, error)
	GetByID(ctx context.Context, assessmentID, userID int64) (*models.Assessment, error)
	UpdateStartTime(ctx context.Context, assessmentID, userID int64) error
	UpdateEndTime(ctx context.Context, assessmentID, userID int64) error
}

type assessmentRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewAssessmentRepository(db *sqlx.DB, log *logrus.Logger) AssessmentRepository {
	return &assessmentRepository{db: db, log: log}
}

func (r *assessmentRepository) Create(ctx context.Context, userID int64) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO assessments (user_id) VALUES ($1) RETURNING id, user_id, started_at, updated_at`,
		userID,
	).StructScan(&assessment)
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) GetByUser(ctx context.Context, userID int64) ([]models.Assessment, error) {
	assessments := []models.Assessment{}
	query := `SELECT id, user_id, started_at, updated_at FROM assessments WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &assessments, query, userID)
	if err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, assessmentID, userID int64) (*models.Assessment, error) {
	var assessment models.Assessment
	query := `SELECT id, user_id, started_at, updated_at FROM assessments WHERE user_id = $1 AND id = $2`
	err := r.db.GetContext(ctx, &assessment, query, userID, assessmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// UpdateStartTime stamps started_at once; a second start is a no-op
// because of the `started_at IS NULL` guard.
func (r *assessmentRepository) UpdateStartTime(ctx context.Context, assessmentID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE assessments SET started_at = $1, updated_at = $1 WHERE id = $2 AND user_id = $3 AND started_at IS NULL`,
		time.Now().Unix(), assessmentID, userID,
	)
	return err
}

func (r *assessmentRepository) UpdateEndTime(ctx context.Context, assessmentID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE assessments SET finished_at = $1, updated_at = $1 WHERE id = $2 AND user_id = $3 AND finished_at IS NULL`,
		time.Now().Unix(), assessmentID, userID,
	)
	return err
}
