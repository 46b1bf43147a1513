package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chxlky/telegram-trello-bot/internal/models"
)

const telegramBaseURL = "https://api.telegram.org"

// Long-poll timeout in seconds for getUpdates; the HTTP client timeout must
// stay comfortably above it.
const pollTimeoutSeconds = 30

type TelegramClient struct {
	Client  *http.Client
	BaseURL string
	Token   string

	offset int64
}

func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		Client:  &http.Client{Timeout: 60 * time.Second},
		BaseURL: telegramBaseURL,
		Token:   token,
	}
}

type telegramResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (tg *TelegramClient) call(ctx context.Context, method string, query url.Values, form url.Values) (json.RawMessage, error) {
	apiURL := fmt.Sprintf("%s/bot%s/%s", tg.BaseURL, tg.Token, method)
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var body io.Reader
	httpMethod := http.MethodGet
	if form != nil {
		httpMethod = http.MethodPost
		body = bytes.NewBufferString(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, apiURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := tg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var envelope telegramResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("telegram API returned ok=false for %s: %s (status %s)", method, envelope.Description, resp.Status)
	}

	return envelope.Result, nil
}

// GetMe returns the bot's username.
func (tg *TelegramClient) GetMe(ctx context.Context) (string, error) {
	result, err := tg.call(ctx, "getMe", nil, nil)
	if err != nil {
		return "", err
	}

	var me struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(result, &me); err != nil {
		return "", fmt.Errorf("failed to decode getMe result: %w", err)
	}
	if me.Username == "" {
		return "", fmt.Errorf("getMe returned an empty username")
	}

	return me.Username, nil
}

// DropPendingUpdates skips everything queued before the bot started, so a
// restart does not replay stale commands.
func (tg *TelegramClient) DropPendingUpdates(ctx context.Context) error {
	query := url.Values{}
	query.Set("offset", "-1")
	query.Set("timeout", "0")

	result, err := tg.call(ctx, "getUpdates", query, nil)
	if err != nil {
		return err
	}

	var updates []models.TelegramUpdate
	if err := json.Unmarshal(result, &updates); err != nil {
		return fmt.Errorf("failed to decode getUpdates result: %w", err)
	}
	for _, u := range updates {
		if u.UpdateID >= tg.offset {
			tg.offset = u.UpdateID + 1
		}
	}

	return nil
}

// GetUpdates long-polls for new updates and advances the internal offset so
// each update is delivered once. Not safe for concurrent use; the receive
// loop is the only caller.
func (tg *TelegramClient) GetUpdates(ctx context.Context) ([]models.TelegramUpdate, error) {
	query := url.Values{}
	query.Set("offset", strconv.FormatInt(tg.offset, 10))
	query.Set("timeout", strconv.Itoa(pollTimeoutSeconds))

	result, err := tg.call(ctx, "getUpdates", query, nil)
	if err != nil {
		return nil, err
	}

	var updates []models.TelegramUpdate
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode getUpdates result: %w", err)
	}

	for _, u := range updates {
		if u.UpdateID >= tg.offset {
			tg.offset = u.UpdateID + 1
		}
	}

	return updates, nil
}

// SendMessage sends a plain-text message into the given chat.
func (tg *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)

	_, err := tg.call(ctx, "sendMessage", nil, form)
	return err
}
