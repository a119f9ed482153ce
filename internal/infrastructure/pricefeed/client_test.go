package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resale/backoffice/internal/infrastructure/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.PriceFeedConfig{
		BaseURL:  baseURL,
		APIToken: "test-token",
		Timeout:  2 * time.Second,
	}, zap.NewNop())
}

func TestLookupPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("t"))

		switch r.URL.Query().Get("id") {
		case "6910":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success","loose-price":1234,"cib-price":2599,"new-price":0}`))
		case "garbled":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	t.Run("returns price in dollars for known bucket", func(t *testing.T) {
		price := client.LookupPrice(ctx, "6910", "Loose")
		require.NotNil(t, price)
		assert.Equal(t, "12.34", price.StringFixed(2))

		price = client.LookupPrice(ctx, "6910", "CIB")
		require.NotNil(t, price)
		assert.Equal(t, "25.99", price.StringFixed(2))
	})

	t.Run("zero cents yields no price", func(t *testing.T) {
		assert.Nil(t, client.LookupPrice(ctx, "6910", "New"))
	})

	t.Run("unknown bucket yields no price", func(t *testing.T) {
		assert.Nil(t, client.LookupPrice(ctx, "6910", "Graded"))
	})

	t.Run("non-OK status yields no price", func(t *testing.T) {
		assert.Nil(t, client.LookupPrice(ctx, "missing", "Loose"))
	})

	t.Run("malformed body yields no price", func(t *testing.T) {
		assert.Nil(t, client.LookupPrice(ctx, "garbled", "Loose"))
	})

	t.Run("empty id or bucket yields no price", func(t *testing.T) {
		assert.Nil(t, client.LookupPrice(ctx, "", "Loose"))
		assert.Nil(t, client.LookupPrice(ctx, "6910", ""))
	})

	t.Run("missing token disables lookups", func(t *testing.T) {
		unauth := NewClient(&config.PriceFeedConfig{BaseURL: srv.URL}, zap.NewNop())
		assert.Nil(t, unauth.LookupPrice(ctx, "6910", "Loose"))
	})
}

func TestLookupPriceUnreachableFeed(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	assert.Nil(t, client.LookupPrice(context.Background(), "6910", "Loose"))
}
