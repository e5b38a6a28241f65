package transcripts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	"github.com/alexdong/TranscribeMe/internal/domain/repositories"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
)

// Store owns the transcript lifecycle: minting access tokens, persisting
// rows with a fixed expiry, refusing expired reads and sweeping expired rows.
// A token is the only credential for a read; there are no accounts in front
// of it, so tokens come from the CSPRNG and never encode call identifiers.
type Store struct {
	transcriptRepo repositories.TranscriptRepository
	logger         *zap.Logger

	tokenBytes    int
	retention     time.Duration
	sweepInterval time.Duration

	// now is swapped in tests to pin the clock
	now func() time.Time

	sweeperMutex     sync.Mutex
	sweeperStopChan  chan struct{}
	sweeperWg        sync.WaitGroup
	isSweeperRunning bool
}

// NewStore creates a transcript store
func NewStore(
	transcriptRepo repositories.TranscriptRepository,
	tokenBytes int,
	retention time.Duration,
	sweepInterval time.Duration,
	logger *zap.Logger,
) *Store {
	return &Store{
		transcriptRepo: transcriptRepo,
		logger:         logger,
		tokenBytes:     tokenBytes,
		retention:      retention,
		sweepInterval:  sweepInterval,
		now:            time.Now,
	}
}

// mintToken draws tokenBytes of entropy and encodes it URL-safe, since the
// token travels inside an SMS link.
func (s *Store) mintToken() (string, error) {
	buf := make([]byte, s.tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create persists a transcript under a freshly minted token and returns the
// stored row. Expiry is fixed here, at creation time plus the retention
// window, and never moves afterwards.
func (s *Store) Create(ctx context.Context, rawText, formattedText string, kind entities.FormatKind, unformatted bool) (*entities.Transcript, error) {
	token, err := s.mintToken()
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	transcript := entities.NewTranscript(token, rawText, formattedText, kind, unformatted, createdAt, createdAt.Add(s.retention))

	if err := s.transcriptRepo.CreateTranscript(ctx, transcript); err != nil {
		return nil, fmt.Errorf("failed to store transcript: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcript stored",
			zap.String("transcript_id", transcript.ID.String()),
			zap.String("format_kind", string(kind)),
			zap.Bool("unformatted", unformatted),
			zap.Time("expires_at", transcript.ExpiresAt),
		)
	}

	return transcript, nil
}

// Read returns the transcript for a token. A wrong token, an expired
// transcript and a token that never existed all produce the same not-found
// error so the response reveals nothing about what the token once meant.
func (s *Store) Read(ctx context.Context, token string) (*entities.Transcript, error) {
	if token == "" {
		return nil, usecaseErrors.ErrTranscriptNotFound
	}

	transcript, err := s.transcriptRepo.GetTranscriptByAccessToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	if transcript == nil || transcript.IsExpired(s.now().UTC()) {
		return nil, usecaseErrors.ErrTranscriptNotFound
	}

	return transcript, nil
}

// Sweep deletes every transcript whose expiry has passed. Safe to call
// concurrently and repeatedly; a second sweep over the same instant simply
// deletes nothing.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.transcriptRepo.DeleteExpiredTranscripts(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired transcripts: %w", err)
	}

	if removed > 0 && s.logger != nil {
		s.logger.Info("🧹 Swept expired transcripts",
			zap.Int64("removed", removed),
		)
	}

	return removed, nil
}

// StartSweeper starts the background sweep loop
func (s *Store) StartSweeper(ctx context.Context) error {
	s.sweeperMutex.Lock()
	defer s.sweeperMutex.Unlock()

	if s.isSweeperRunning {
		return fmt.Errorf("sweeper already running")
	}

	s.isSweeperRunning = true
	s.sweeperStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting transcript sweeper",
			zap.Duration("interval", s.sweepInterval),
		)
	}

	s.sweeperWg.Add(1)
	go s.sweepWorker(ctx)

	return nil
}

// StopSweeper gracefully stops the sweep loop
func (s *Store) StopSweeper() error {
	s.sweeperMutex.Lock()
	defer s.sweeperMutex.Unlock()

	if !s.isSweeperRunning {
		return fmt.Errorf("sweeper not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping transcript sweeper...")
	}

	close(s.sweeperStopChan)
	s.sweeperWg.Wait()
	s.isSweeperRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Transcript sweeper stopped")
	}

	return nil
}

func (s *Store) sweepWorker(parentCtx context.Context) {
	defer s.sweeperWg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweeperStopChan:
			return

		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(parentCtx, 30*time.Second)
			if _, err := s.Sweep(sweepCtx); err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Transcript sweep failed",
						zap.Error(err),
					)
				}
			}
			cancel()
		}
	}
}
