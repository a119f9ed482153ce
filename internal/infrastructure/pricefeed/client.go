package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apppricing "github.com/resale/backoffice/internal/application/pricing"
	"github.com/resale/backoffice/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client queries the external price feed API for market prices.
// Every failure path returns a nil price: the quote pipeline treats a
// missing market anchor as "unpriced", never as an error.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a price feed client from configuration
func NewClient(cfg *config.PriceFeedConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("pricefeed"),
	}
}

// productResponse is the feed's per-product payload. Prices are integer
// cents keyed by condition bucket.
type productResponse struct {
	Status     string `json:"status"`
	LoosePrice *int64 `json:"loose-price"`
	CIBPrice   *int64 `json:"cib-price"`
	NewPrice   *int64 `json:"new-price"`
}

// LookupPrice fetches the market price for a product in the given bucket
func (c *Client) LookupPrice(ctx context.Context, externalProductID, bucket string) *decimal.Decimal {
	if externalProductID == "" || bucket == "" || c.apiToken == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/api/product?t=%s&id=%s",
		c.baseURL, url.QueryEscape(c.apiToken), url.QueryEscape(externalProductID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("Failed to build price feed request", zap.Error(err))
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Price feed request failed",
			zap.String("product_id", externalProductID),
			zap.Error(err),
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Price feed returned non-OK status",
			zap.String("product_id", externalProductID),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	var product productResponse
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		c.logger.Warn("Failed to decode price feed response",
			zap.String("product_id", externalProductID),
			zap.Error(err),
		)
		return nil
	}

	var cents *int64
	switch bucket {
	case "Loose":
		cents = product.LoosePrice
	case "CIB":
		cents = product.CIBPrice
	case "New":
		cents = product.NewPrice
	}
	if cents == nil || *cents <= 0 {
		return nil
	}

	price := decimal.NewFromInt(*cents).Div(decimal.NewFromInt(100))
	return &price
}

var _ apppricing.PriceFeed = (*Client)(nil)
