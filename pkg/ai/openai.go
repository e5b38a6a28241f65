package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

const formatSystemPrompt = "You are a professional assistant that formats transcribed voice messages. Always maintain the original meaning while improving clarity and structure."

// formatPrompts maps a format kind to the instruction prepended to the
// transcript. Unknown kinds use the plain prompt; selection never fails.
var formatPrompts = map[string]string{
	"plain":   "Clean up this transcribed voice message. Fix punctuation, capitalization and obvious transcription errors without changing the wording or meaning:\n\n",
	"email":   "Format this transcribed voice message as a professional email. Add an appropriate subject line and structure it with proper paragraphs. Correct any grammar issues and make it sound professional:\n\n",
	"notes":   "Format this transcribed voice message as clear, organized notes. Use bullet points, proper headings, and structure it for easy reading. Correct grammar and spelling:\n\n",
	"meeting": "Format this transcribed voice message as meeting minutes. Organize into sections like Discussion Points, Decisions Made, and Action Items. Make it professional and well-structured:\n\n",
}

// OpenAIClient talks to the OpenAI API for Whisper transcription and chat
// based formatting.
type OpenAIClient struct {
	apiKey       string
	baseURL      string
	chatModel    string
	whisperModel string
	maxTokens    int
	temperature  float32
	client       *http.Client
}

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	ChatModel    string
	WhisperModel string
	MaxTokens    int
	Temperature  float32
	HTTPClient   *http.Client
}

// NewOpenAIClient creates a client, falling back to OPENAI_API_KEY from the
// environment when no key is configured.
func NewOpenAIClient(cfg *OpenAIConfig) *OpenAIClient {
	if cfg == nil {
		cfg = &OpenAIConfig{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-3.5-turbo"
	}

	whisperModel := cfg.WhisperModel
	if whisperModel == "" {
		whisperModel = "whisper-1"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}

	client := cfg.HTTPClient
	if client == nil {
		// Whisper on a five minute recording can outlive the usual 30s.
		client = &http.Client{Timeout: 120 * time.Second}
	}

	return &OpenAIClient{
		apiKey:       apiKey,
		baseURL:      baseURL,
		chatModel:    chatModel,
		whisperModel: whisperModel,
		maxTokens:    maxTokens,
		temperature:  temperature,
		client:       client,
	}
}

// Name identifies this transcription provider in logs and audit details.
func (c *OpenAIClient) Name() string {
	return "openai-whisper"
}

// Transcribe sends the audio to the Whisper API and returns the plain text
// result. An empty transcription is reported as an error.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "recording.mp3")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", c.whisperModel); err != nil {
		return "", err
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("empty transcription from openai")
	}
	return text, nil
}

// FormatTranscript rewrites a raw transcript according to the format kind.
func (c *OpenAIClient) FormatTranscript(ctx context.Context, text, kind string) (string, error) {
	prompt, ok := formatPrompts[kind]
	if !ok {
		prompt = formatPrompts["plain"]
	}
	return c.chat(ctx, formatSystemPrompt, prompt+text, c.maxTokens)
}

// Summarize produces a preview of at most maxChars characters. Text already
// short enough is returned as is, without an API call.
func (c *OpenAIClient) Summarize(ctx context.Context, text string, maxChars int) (string, error) {
	if len([]rune(text)) <= maxChars {
		return text, nil
	}

	system := fmt.Sprintf("Create a brief summary of this text in %d characters or less. Keep the key points and make it clear and concise.", maxChars)
	summary, err := c.chat(ctx, system, text, 50)
	if err != nil {
		return "", err
	}

	runes := []rune(summary)
	if len(runes) > maxChars {
		summary = string(runes[:maxChars])
	}
	return summary, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) chat(ctx context.Context, system, user string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty response from openai")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
