package presenter

import (
	adminDTO "github.com/alexdong/TranscribeMe/internal/adapter/dto/admin"
	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

// ToCallOutcomeResponse converts a CallOutcome entity to its admin DTO
func ToCallOutcomeResponse(o *entities.CallOutcome) *adminDTO.CallOutcomeResponse {
	if o == nil {
		return nil
	}

	response := &adminDTO.CallOutcomeResponse{
		ID:              o.ID.String(),
		CallSid:         o.CallSID,
		CallerNumber:    o.CallerNumber,
		Outcome:         string(o.Outcome),
		FailureReason:   o.FailureReason,
		FormatKind:      o.FormatKind,
		DurationSeconds: o.DurationSeconds,
		Details:         o.Details.Data(),
		CreatedAt:       o.CreatedAt,
	}

	if o.TranscriptID != nil {
		id := o.TranscriptID.String()
		response.TranscriptID = &id
	}

	return response
}

// ToCallListResponse converts a slice of CallOutcome entities to the admin
// listing response
func ToCallListResponse(outcomes []*entities.CallOutcome, activeSessions int) *adminDTO.CallListResponse {
	calls := make([]*adminDTO.CallOutcomeResponse, len(outcomes))
	for i, o := range outcomes {
		calls[i] = ToCallOutcomeResponse(o)
	}

	return &adminDTO.CallListResponse{
		Calls:          calls,
		Count:          len(calls),
		ActiveSessions: activeSessions,
	}
}
