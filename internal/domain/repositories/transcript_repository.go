package repositories

import (
	"context"
	"time"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

// TranscriptRepository defines persistence operations for transcripts.
// Lookups that miss return (nil, nil); errors are reserved for the backend
// actually failing.
type TranscriptRepository interface {
	CreateTranscript(ctx context.Context, t *entities.Transcript) error
	GetTranscriptByAccessToken(ctx context.Context, token string) (*entities.Transcript, error)
	// DeleteExpiredTranscripts removes every transcript whose expiry is at
	// or before now and reports how many rows went away.
	DeleteExpiredTranscripts(ctx context.Context, now time.Time) (int64, error)
}
