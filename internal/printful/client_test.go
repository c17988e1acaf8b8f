package printful

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printloom/designer-gateway/internal/nonce"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c, srv
}

func req() nonce.Request {
	return nonce.Request{
		ExternalCustomerID: "u1",
		ExternalProductID:  "233",
		IPAddress:          "127.0.0.1",
		UserAgent:          "test-agent",
	}
}

func TestRequestNonceSuccess(t *testing.T) {
	var gotAuth, gotPath, gotBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"nonce":"abc123"}}`))
	})

	n, err := c.RequestNonce(context.Background(), req())
	require.NoError(t, err)
	assert.Equal(t, "abc123", n)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/embedded-designer/nonces", gotPath)
	assert.Contains(t, gotBody, `"external_product_id":"233"`)
	assert.Contains(t, gotBody, `"external_customer_id":"u1"`)
}

func TestRequestNonceMissingNonceIn200(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{}}`))
	})

	_, err := c.RequestNonce(context.Background(), req())
	var f *nonce.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, nonce.KindProviderContractViolation, f.Kind)
}

func TestRequestNonce404RemapsAndKeepsDetails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"result":"Not found"}`))
	})

	_, err := c.RequestNonce(context.Background(), req())
	var f *nonce.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, nonce.KindInvalidProductOrCredentials, f.Kind)
	assert.Contains(t, string(f.Details), "Not found")
	assert.NotContains(t, string(f.Details), "test-key")
}

func TestRequestNonceProviderError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := c.RequestNonce(context.Background(), req())
	var f *nonce.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, nonce.KindProviderError, f.Kind)
	assert.Contains(t, string(f.Details), "boom")
}

func TestRequestNonceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.RequestNonce(context.Background(), req())
	var f *nonce.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, nonce.KindProviderUnavailable, f.Kind)
}

func TestRequestNonceCredentialNotConfigured(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	assert.False(t, c.CredentialConfigured())

	_, err = c.RequestNonce(context.Background(), req())
	var f *nonce.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, nonce.KindCredentialNotConfigured, f.Kind)
	assert.False(t, called, "no call may be attempted without a credential")
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestListProducts(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"result":[{"id":233,"title":"Men's Premium T-Shirt"}]}`))
	})

	result, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(result), `"id":233`)
}

func TestListProductsProviderFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream"}`))
	})

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream")
}
