package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pumaprintables/portal/apperrors"
)

// Platform calls the Puma Printables platform REST API on behalf of a
// signed-in portal user. It attaches the user's bearer token, normalizes
// error bodies into *apperrors.Error values and decodes JSON responses.
type Platform struct {
	baseURL string
	client  *http.Client
}

// NewPlatform creates a new platform API client.
func NewPlatform(baseURL string, timeout time.Duration) *Platform {
	return &Platform{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Platform) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	resp, err := p.roundTrip(ctx, method, path, query, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// download issues a request whose body the caller streams through verbatim
// (the onboarding spreadsheet export). The caller owns resp.Body.
func (p *Platform) download(ctx context.Context, path string, query url.Values, token string) (*http.Response, error) {
	return p.roundTrip(ctx, http.MethodGet, path, query, token, nil)
}

func (p *Platform) roundTrip(ctx context.Context, method, path string, query url.Values, token string, body any) (*http.Response, error) {
	u := p.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Context cancellation flows through unwrapped checks via %w so
		// callers can treat abandoned requests as non-errors.
		return nil, fmt.Errorf("platform request: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, apperrors.New(resp.StatusCode, parseErrorMessage(resp), nil)
	}
	return resp, nil
}

// parseErrorMessage extracts the message or detail string the platform puts
// in error bodies, surfaced to the user verbatim.
func parseErrorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return fmt.Sprintf("Request failed with status %d", resp.StatusCode)
}
