package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

// OutcomeRepository handles call outcome audit rows
type OutcomeRepository struct {
	db *gorm.DB
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *gorm.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// CreateOutcome inserts the terminal record for a finished session
func (r *OutcomeRepository) CreateOutcome(ctx context.Context, o *entities.CallOutcome) error {
	if o == nil {
		return errors.New("outcome cannot be nil")
	}
	return r.db.WithContext(ctx).Create(o).Error
}

// GetOutcomeByCallSID retrieves the outcome recorded for a call, if any
func (r *OutcomeRepository) GetOutcomeByCallSID(ctx context.Context, callSID string) (*entities.CallOutcome, error) {
	var outcome entities.CallOutcome
	if err := r.db.WithContext(ctx).Where("call_sid = ?", callSID).First(&outcome).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &outcome, nil
}

// ListRecentOutcomes retrieves the most recent outcomes, newest first
func (r *OutcomeRepository) ListRecentOutcomes(ctx context.Context, limit int) ([]*entities.CallOutcome, error) {
	if limit <= 0 {
		limit = 50
	}

	var outcomes []*entities.CallOutcome
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&outcomes).Error
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}
