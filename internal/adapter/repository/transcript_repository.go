package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

// TranscriptRepository handles transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// CreateTranscript inserts a transcript row
func (r *TranscriptRepository) CreateTranscript(ctx context.Context, t *entities.Transcript) error {
	if t == nil {
		return errors.New("transcript cannot be nil")
	}
	return r.db.WithContext(ctx).Create(t).Error
}

// GetTranscriptByAccessToken retrieves the transcript matching a token.
// Expiry is not filtered here; the store above this refuses expired rows
// itself, because the sweep may lag behind the clock.
func (r *TranscriptRepository) GetTranscriptByAccessToken(ctx context.Context, token string) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}

// DeleteExpiredTranscripts removes all transcripts whose expiry is at or
// before now
func (r *TranscriptRepository) DeleteExpiredTranscripts(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entities.Transcript{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
