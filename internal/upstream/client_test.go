package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_RequiresAbsoluteBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "/relative"})
	require.Error(t, err)
}

func TestClient_List(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/students", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"_id":"s1","name":"Asha"},{"_id":"s2","name":"Rafi"}]}`))
	}))

	raw, err := client.List(context.Background(), "/students")
	require.NoError(t, err)

	items, err := DecodeList[testItem](raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Server response order is preserved.
	assert.Equal(t, "s1", items[0].ID)
	assert.Equal(t, "s2", items[1].ID)
}

func TestClient_CreateUsesAddEndpoint(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/books/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Grammar Healer", body["title"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"_id":"b1","name":"Grammar Healer"}}`))
	}))

	raw, err := client.Create(context.Background(), "/books", map[string]string{"title": "Grammar Healer"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"b1","name":"Grammar Healer"}`, string(raw))
}

func TestClient_UpdateAndDelete(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			assert.Equal(t, "/coupons/c9", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":{"_id":"c9"}}`))
		case http.MethodDelete:
			assert.Equal(t, "/coupons/c9", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))

	_, err := client.Update(context.Background(), "/coupons", "c9", map[string]bool{"isActive": false})
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "/coupons", "c9"))
}

func TestClient_ErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   Kind
	}{
		{"validation", http.StatusBadRequest, KindValidation},
		{"not found", http.StatusNotFound, KindNotFound},
		{"server", http.StatusInternalServerError, KindServer},
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"unexpected code maps to server", http.StatusBadGateway, KindServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))

			_, err := client.List(context.Background(), "/orders")
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestClient_NetworkFailureClassifiesAsNetworkOrParse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close() // force a connection failure

	_, err = client.List(context.Background(), "/orders")
	require.Error(t, err)
	assert.Equal(t, KindNetworkOrParse, KindOf(err))
}

func TestClient_MalformedEnvelopeClassifiesAsParse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))

	_, err := client.List(context.Background(), "/orders")
	require.Error(t, err)
	assert.Equal(t, KindNetworkOrParse, KindOf(err))
}

func TestClient_CarriesCookiesAcrossCalls(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "connect.sid", Value: "abc", Path: "/"})
		} else {
			cookie, err := r.Cookie("connect.sid")
			require.NoError(t, err)
			assert.Equal(t, "abc", cookie.Value)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))

	_, err := client.List(context.Background(), "/students")
	require.NoError(t, err)
	_, err = client.List(context.Background(), "/students")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDecodeList_NilAndEmpty(t *testing.T) {
	items, err := DecodeList[testItem](nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = DecodeList[testItem](json.RawMessage(`null`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
