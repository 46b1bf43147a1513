package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrelloClient(serverURL string) *TrelloClient {
	tc := NewTrelloClient("test-key", "test-token", "board123")
	tc.BaseURL = serverURL
	return tc
}

func TestListLists(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/boards/board123/lists", r.URL.Path)
		gotQuery = map[string]string{
			"key":   r.URL.Query().Get("key"),
			"token": r.URL.Query().Get("token"),
		}
		w.Write([]byte(`[{"id":"1","name":"Todo"},{"id":"2","name":"Doing"}]`))
	}))
	defer server.Close()

	tc := newTestTrelloClient(server.URL)
	lists, err := tc.ListLists(context.Background())
	require.NoError(t, err)

	require.Len(t, lists, 2)
	assert.Equal(t, "1", lists[0].ID)
	assert.Equal(t, "Todo", lists[0].Name)
	assert.Equal(t, "2", lists[1].ID)
	assert.Equal(t, "Doing", lists[1].Name)

	assert.Equal(t, "test-key", gotQuery["key"])
	assert.Equal(t, "test-token", gotQuery["token"])
}

func TestListListsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid key"))
	}))
	defer server.Close()

	tc := newTestTrelloClient(server.URL)
	_, err := tc.ListLists(context.Background())
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Contains(t, err.Error(), "invalid key")
}

func TestListListsBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	tc := newTestTrelloClient(server.URL)
	_, err := tc.ListLists(context.Background())

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.NotNil(t, upstreamErr.Unwrap())
}

func TestListListsNetworkError(t *testing.T) {
	tc := newTestTrelloClient("http://127.0.0.1:1")
	_, err := tc.ListLists(context.Background())

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
}

func TestCreateCard(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cards", r.URL.Path)
		gotQuery = map[string]string{
			"key":    r.URL.Query().Get("key"),
			"token":  r.URL.Query().Get("token"),
			"idList": r.URL.Query().Get("idList"),
			"name":   r.URL.Query().Get("name"),
			"desc":   r.URL.Query().Get("desc"),
		}
		w.Write([]byte(`{"id":"card1","name":"Buy milk","idList":"2"}`))
	}))
	defer server.Close()

	tc := newTestTrelloClient(server.URL)
	card, err := tc.CreateCard(context.Background(), "2", "Buy milk", "")
	require.NoError(t, err)

	assert.Equal(t, "card1", card.ID)
	assert.Equal(t, "Buy milk", card.Name)
	assert.Equal(t, "2", gotQuery["idList"])
	assert.Equal(t, "Buy milk", gotQuery["name"])
	assert.Equal(t, "", gotQuery["desc"])
	assert.Equal(t, "test-key", gotQuery["key"])
	assert.Equal(t, "test-token", gotQuery["token"])
}

func TestCreateCardNotIdempotent(t *testing.T) {
	var createCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		createCalls++
		w.Write([]byte(`{"id":"card1"}`))
	}))
	defer server.Close()

	tc := newTestTrelloClient(server.URL)
	_, err := tc.CreateCard(context.Background(), "1", "Same card", "")
	require.NoError(t, err)
	_, err = tc.CreateCard(context.Background(), "1", "Same card", "")
	require.NoError(t, err)

	assert.Equal(t, 2, createCalls)
}

func TestCreateCardNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid value for idList"))
	}))
	defer server.Close()

	tc := newTestTrelloClient(server.URL)
	_, err := tc.CreateCard(context.Background(), "nope", "Card", "")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Contains(t, err.Error(), "invalid value for idList")
}
