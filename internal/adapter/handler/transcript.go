package handler

import (
	"bytes"
	"context"
	stdErrors "errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/errors"
	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
)

// TranscriptReader is the read side of transcript storage.
type TranscriptReader interface {
	Read(ctx context.Context, token string) (*entities.Transcript, error)
}

// TranscriptHandler serves hosted transcript pages
type TranscriptHandler struct {
	store  TranscriptReader
	logger *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(store TranscriptReader, logger *zap.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		store:  store,
		logger: logger,
	}
}

type transcriptPage struct {
	Content   string
	Format    string
	CreatedAt string
	ExpiresAt string
}

var transcriptTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>TranscribeMe - Transcript</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 1px solid #ccc; padding-bottom: 10px; margin-bottom: 20px; }
        .transcript { background: #f9f9f9; padding: 20px; border-radius: 5px; line-height: 1.6; }
        .meta { color: #666; font-size: 0.9em; margin-top: 20px; }
        .copy-btn { background: #007bff; color: white; border: none; padding: 10px 20px;
                    border-radius: 5px; cursor: pointer; margin-top: 10px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>TranscribeMe</h1>
        <p>Your voice message transcript</p>
    </div>

    <div class="transcript">
        <pre style="white-space: pre-wrap; font-family: inherit;">{{.Content}}</pre>
    </div>

    <button class="copy-btn" onclick="copyToClipboard()">Copy to Clipboard</button>

    <div class="meta">
        <p><strong>Format:</strong> {{.Format}}</p>
        <p><strong>Created:</strong> {{.CreatedAt}}</p>
        <p><strong>Expires:</strong> {{.ExpiresAt}}</p>
    </div>

    <script>
        function copyToClipboard() {
            const text = document.querySelector('.transcript pre').textContent;
            navigator.clipboard.writeText(text).then(() => {
                alert('Transcript copied to clipboard!');
            });
        }
    </script>
</body>
</html>
`))

// View renders a hosted transcript
// @Summary      View transcript
// @Description  Renders the transcript page behind an unguessable access token. Unknown, expired and never-issued tokens are indistinguishable.
// @Tags         Transcripts
// @Produce      html
// @Param        token  path      string  true  "Transcript access token"
// @Success      200    {string}  string  "HTML page"
// @Failure      404    {object}  map[string]interface{}
// @Router       /transcript/{token} [get]
func (h *TranscriptHandler) View(c echo.Context) error {
	token := c.Param("token")

	t, err := h.store.Read(c.Request().Context(), token)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrTranscriptNotFound) {
			return HandleError(h.logger, c, errors.ErrTranscriptNotFound())
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	page := transcriptPage{
		Content:   t.FormattedText,
		Format:    string(t.FormatKind),
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"),
		ExpiresAt: t.ExpiresAt.UTC().Format("2006-01-02 15:04 UTC"),
	}

	var buf bytes.Buffer
	if err := transcriptTemplate.Execute(&buf, page); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
