package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// BalanceClient polls the third-party SMS gateway's balance endpoint.
// The call is unauthenticated, display-only, and only ever made on
// demand; there is no auto-refresh.
type BalanceClient struct {
	url  string
	http *http.Client
}

// NewBalanceClient constructs a balance client for the given endpoint.
func NewBalanceClient(endpoint string, httpClient *http.Client) (*BalanceClient, error) {
	if endpoint == "" {
		return nil, errors.New("balance: endpoint is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &BalanceClient{url: endpoint, http: httpClient}, nil
}

// Fetch returns the current SMS balance. The gateway answers either a
// bare number or a {"balance": ...} object; both are accepted.
func (c *BalanceClient) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, netError("create balance request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, netError("fetch balance", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{Kind: classifyStatus(resp.StatusCode), StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return 0, netError("read balance response", err)
	}

	return parseBalance(raw)
}

func parseBalance(raw []byte) (float64, error) {
	body := strings.TrimSpace(string(raw))

	if v, err := strconv.ParseFloat(strings.Trim(body, `"`), 64); err == nil {
		return v, nil
	}

	var payload struct {
		Balance json.Number `json:"balance"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, netError("parse balance payload", err)
	}
	v, err := payload.Balance.Float64()
	if err != nil {
		return 0, netError("parse balance value", err)
	}
	return v, nil
}
