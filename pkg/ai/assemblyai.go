package ai

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// AssemblyAIClient is the fallback transcription provider, wrapping the
// official SDK.
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates a client, falling back to ASSEMBLYAI_API_KEY
// from the environment when no key is configured.
func NewAssemblyAIClient(apiKey string) *AssemblyAIClient {
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAIClient{
		client: aai.NewClient(apiKey),
	}
}

// Name identifies this transcription provider in logs and audit details.
func (c *AssemblyAIClient) Name() string {
	return "assemblyai"
}

// Transcribe uploads the audio and waits for the transcript to complete.
// An empty transcription is reported as an error.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	uploadURL, err := c.client.Upload(ctx, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, uploadURL, nil)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		return "", fmt.Errorf("assemblyai transcription failed: %s", aai.ToString(transcript.Error))
	}

	text := strings.TrimSpace(aai.ToString(transcript.Text))
	if text == "" {
		return "", fmt.Errorf("empty transcription from assemblyai")
	}
	return text, nil
}
