package entities

import (
	"time"

	"github.com/google/uuid"
)

// FormatKind selects the prompt used to enhance a raw transcript.
type FormatKind string

const (
	FormatKindPlain   FormatKind = "plain"   // light cleanup only
	FormatKindEmail   FormatKind = "email"   // subject line plus paragraphs
	FormatKindNotes   FormatKind = "notes"   // bulleted list
	FormatKindMeeting FormatKind = "meeting" // structured minutes with action items
)

// DefaultFormatKind applies when the caller expressed no preference.
const DefaultFormatKind = FormatKindNotes

// Transcript is the stored, delivered artifact. It carries no link back to
// the call that produced it; after handoff the pipeline keeps only the id.
// The access token is the sole read credential and never appears in JSON.
type Transcript struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	AccessToken   string     `json:"-" gorm:"type:varchar(128);not null;uniqueIndex"`
	RawText       string     `json:"raw_text" gorm:"type:text;not null"`
	FormattedText string     `json:"formatted_text" gorm:"type:text;not null"`
	FormatKind    FormatKind `json:"format_kind" gorm:"type:varchar(20);not null"`
	Unformatted   bool       `json:"unformatted" gorm:"not null;default:false"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a transcript row. Expiry is immutable once set here.
func NewTranscript(accessToken, rawText, formattedText string, kind FormatKind, unformatted bool, createdAt, expiresAt time.Time) *Transcript {
	return &Transcript{
		ID:            uuid.New(),
		AccessToken:   accessToken,
		RawText:       rawText,
		FormattedText: formattedText,
		FormatKind:    kind,
		Unformatted:   unformatted,
		CreatedAt:     createdAt,
		ExpiresAt:     expiresAt,
	}
}

// IsExpired reports whether the transcript must be unreachable at the given
// instant, whether or not the sweeper purged it yet.
func (t *Transcript) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
