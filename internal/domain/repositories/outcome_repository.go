package repositories

import (
	"context"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

// OutcomeRepository defines persistence operations for call outcome audit
// rows. GetOutcomeByCallSID returns (nil, nil) when no outcome was recorded.
type OutcomeRepository interface {
	CreateOutcome(ctx context.Context, o *entities.CallOutcome) error
	GetOutcomeByCallSID(ctx context.Context, callSID string) (*entities.CallOutcome, error)
	ListRecentOutcomes(ctx context.Context, limit int) ([]*entities.CallOutcome, error)
}
