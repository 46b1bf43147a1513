package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/chxlky/telegram-trello-bot/internal/models"
)

const trelloBaseURL = "https://api.trello.com/1"

// UpstreamError wraps a failed Trello API call with the operation that failed.
type UpstreamError struct {
	Op    string
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

type TrelloClient struct {
	Client   *http.Client
	BaseURL  string
	APIKey   string
	APIToken string
	BoardID  string
}

func NewTrelloClient(key, token, boardID string) *TrelloClient {
	return &TrelloClient{
		Client:   &http.Client{},
		BaseURL:  trelloBaseURL,
		APIKey:   key,
		APIToken: token,
		BoardID:  boardID,
	}
}

func (tc *TrelloClient) authParams() url.Values {
	params := url.Values{}
	params.Set("key", tc.APIKey)
	params.Set("token", tc.APIToken)
	return params
}

// ListLists fetches the lists of the configured board, in API response order.
func (tc *TrelloClient) ListLists(ctx context.Context) ([]models.TrelloList, error) {
	apiURL := fmt.Sprintf("%s/boards/%s/lists?%s", tc.BaseURL, tc.BoardID, tc.authParams().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch board lists", Cause: fmt.Errorf("failed to create get request: %w", err)}
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch board lists", Cause: fmt.Errorf("failed to send get request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Op: "fetch board lists", Cause: fmt.Errorf("trello API returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))}
	}

	var lists []models.TrelloList
	if err := json.NewDecoder(resp.Body).Decode(&lists); err != nil {
		return nil, &UpstreamError{Op: "fetch board lists", Cause: fmt.Errorf("failed to decode Trello response: %w", err)}
	}

	return lists, nil
}

// CreateCard creates a card in the given list. The name is sent as-is; callers
// are responsible for any truncation. Calling twice creates two cards.
func (tc *TrelloClient) CreateCard(ctx context.Context, listID, name, description string) (*models.TrelloCard, error) {
	params := tc.authParams()
	params.Set("idList", listID)
	params.Set("name", name)
	params.Set("desc", description)
	apiURL := fmt.Sprintf("%s/cards?%s", tc.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "create card", Cause: fmt.Errorf("failed to create post request: %w", err)}
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "create card", Cause: fmt.Errorf("failed to send post request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Op: "create card", Cause: fmt.Errorf("trello API returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))}
	}

	var card models.TrelloCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, &UpstreamError{Op: "create card", Cause: fmt.Errorf("failed to decode Trello response: %w", err)}
	}

	return &card, nil
}
