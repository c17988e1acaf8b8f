// Package printful is the outbound client for the print-fulfillment
// provider: nonce issuance for the embedded design maker and the display-only
// live product catalog.
package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/printloom/designer-gateway/internal/nonce"
	"github.com/printloom/designer-gateway/internal/obs"
)

const noncePath = "/embedded-designer/nonces"

// Config holds provider connection settings. APIKey is the server-held
// credential; it travels only in the Authorization header and must never be
// echoed into responses or logs.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the provider API. One outbound call per operation, bounded by
// the configured timeout, no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates a provider client. An empty base URL is rejected here; an
// empty credential is not, so a misconfigured process can still boot far
// enough to report CredentialNotConfigured consistently.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// CredentialConfigured reports whether the provider credential is present.
// Callers should fail fast at startup when it is not.
func (c *Client) CredentialConfigured() bool { return c.apiKey != "" }

// nonceEnvelope is the provider's response wrapper for nonce issuance.
type nonceEnvelope struct {
	Result struct {
		Nonce string `json:"nonce"`
	} `json:"result"`
}

// RequestNonce exchanges a built payload for a one-time embed nonce. All
// failures are returned as *nonce.Failure per the issuance taxonomy.
func (c *Client) RequestNonce(ctx context.Context, req nonce.Request) (string, error) {
	if c.apiKey == "" {
		return "", nonce.NewFailure(nonce.KindCredentialNotConfigured,
			"The provider API key is not configured. Please set the PRINTFUL_API_KEY environment variable.")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", nonce.NewFailure(nonce.KindProviderUnavailable, err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+noncePath, bytes.NewReader(body))
	if err != nil {
		return "", nonce.NewFailure(nonce.KindProviderUnavailable, err.Error())
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	obs.ProviderLatency.WithLabelValues("nonces").Observe(time.Since(start).Seconds())
	if err != nil {
		// Timeouts and transport errors surface identically: the provider
		// offers no cancellation channel and the call is never retried here.
		obs.Logger.Error("provider_unreachable", "endpoint", "nonces", "error", err)
		return "", nonce.NewFailure(nonce.KindProviderUnavailable, "The fulfillment provider could not be reached")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		// The provider conflates unknown product ids and bad credentials
		// under 404; callers must not assume the cause.
		f := nonce.NewFailure(nonce.KindInvalidProductOrCredentials,
			"The product ID provided was not found on the provider or your API key is invalid.")
		f.Details = json.RawMessage(raw)
		return "", f
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		obs.Logger.Error("provider_error", "endpoint", "nonces", "status", resp.StatusCode)
		f := nonce.NewFailure(nonce.KindProviderError,
			fmt.Sprintf("Provider returned status %d", resp.StatusCode))
		f.Details = json.RawMessage(raw)
		return "", f
	}

	var env nonceEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Result.Nonce == "" {
		obs.Logger.Error("provider_missing_nonce", "status", resp.StatusCode)
		return "", nonce.NewFailure(nonce.KindProviderContractViolation,
			"Provider did not return a nonce")
	}
	return env.Result.Nonce, nil
}

// productsEnvelope wraps the provider's catalog listing.
type productsEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// ListProducts fetches the live provider catalog for display purposes. It is
// never consulted for nonce gating; the local allow-list is the sole source
// of truth there.
func (c *Client) ListProducts(ctx context.Context) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	obs.ProviderLatency.WithLabelValues("products").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch products: provider status %d: %s", resp.StatusCode, string(raw))
	}
	var env productsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("fetch products: decode: %w", err)
	}
	return env.Result, nil
}
