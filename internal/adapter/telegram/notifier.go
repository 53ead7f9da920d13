package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier implements ports.Notifier against the Telegram Bot API. Messages
// go to the buyer's chat ID; delivery is best-effort and callers are
// expected to treat failures as non-fatal.
type Notifier struct {
	baseURL    string
	botToken   string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewNotifier creates a Telegram notifier.
func NewNotifier(baseURL, botToken string, httpClient HTTPClient, log zerolog.Logger) *Notifier {
	return &Notifier{
		baseURL:    baseURL,
		botToken:   botToken,
		httpClient: httpClient,
		log:        log,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers text to the chat identified by userID via sendMessage.
func (n *Notifier) Send(ctx context.Context, userID string, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    userID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var result sendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil || !result.OK {
		return fmt.Errorf("telegram sendMessage failed: status %d: %s", resp.StatusCode, result.Description)
	}

	n.log.Debug().Str("chat_id", userID).Msg("telegram notification delivered")
	return nil
}
