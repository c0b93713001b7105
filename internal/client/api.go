// Package client keeps a local copy of the transaction collection in sync
// with the server, refreshing it after every successful mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cashflow/internal/core"
)

// API is the remote surface the reconciler talks to.
type API interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	Update(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// HTTPAPI talks to a ledger server over its JSON endpoints.
type HTTPAPI struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAPI(baseURL string, client *http.Client) *HTTPAPI {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (a *HTTPAPI) List(ctx context.Context) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := a.do(ctx, http.MethodGet, "/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (a *HTTPAPI) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var created core.Transaction
	if err := a.do(ctx, http.MethodPost, "/transactions", tx, &created); err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

func (a *HTTPAPI) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var updated core.Transaction
	if err := a.do(ctx, http.MethodPut, "/transactions/"+tx.ID, tx, &updated); err != nil {
		return core.Transaction{}, err
	}
	return updated, nil
}

func (a *HTTPAPI) Delete(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/transactions/"+id, nil, nil)
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeFailure(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeFailure maps server error responses back to domain errors so callers
// can branch on them with errors.Is and errors.As.
func decodeFailure(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return core.ErrNotFound
	case http.StatusServiceUnavailable:
		return core.ErrStoreUnavailable
	case http.StatusBadRequest:
		var body struct {
			Error      string   `json:"error"`
			Violations []string `json:"violations"`
		}
		if err := json.Unmarshal(raw, &body); err == nil && len(body.Violations) > 0 {
			return &core.ValidationError{Violations: body.Violations}
		}
		if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
			return &core.ValidationError{Violations: []string{body.Error}}
		}
		return &core.ValidationError{Violations: []string{"request rejected"}}
	default:
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
}
