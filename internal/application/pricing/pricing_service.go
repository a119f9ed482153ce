package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// PriceFeed resolves an external market price for a product variant.
// Implementations degrade to nil on any failure: a missing product, a feed
// outage, or a malformed response all yield a nil price and never an error,
// so a quote can always be computed without a market anchor.
type PriceFeed interface {
	LookupPrice(ctx context.Context, externalProductID, bucket string) *decimal.Decimal
}

// QuoteRequest represents a single-item quote
type QuoteRequest struct {
	VariantID       *uuid.UUID       `json:"variant_id"`
	OverridePrice   *decimal.Decimal `json:"override_price"`
	Markup          *decimal.Decimal `json:"markup"`
	TargetProfitPct *decimal.Decimal `json:"target_profit_pct"`
	// IsConsole forces the console fee branch when no variant is supplied
	IsConsole bool `json:"is_console"`
}

// QuoteResponse wraps the fee breakdown with the resolved inputs
type QuoteResponse struct {
	VariantID   *uuid.UUID             `json:"variant_id,omitempty"`
	MarketPrice *decimal.Decimal       `json:"market_price,omitempty"`
	IsConsole   bool                   `json:"is_console"`
	Breakdown   pricing.QuoteBreakdown `json:"breakdown"`
}

// PricingService computes purchase price quotes and manages the fee config
type PricingService struct {
	configRepo  pricing.FeeConfigRepository
	variantRepo catalog.VariantRepository
	productRepo catalog.ProductRepository
	feed        PriceFeed
}

// NewPricingService creates a new PricingService
func NewPricingService(
	configRepo pricing.FeeConfigRepository,
	variantRepo catalog.VariantRepository,
	productRepo catalog.ProductRepository,
	feed PriceFeed,
) *PricingService {
	return &PricingService{
		configRepo:  configRepo,
		variantRepo: variantRepo,
		productRepo: productRepo,
		feed:        feed,
	}
}

// GetConfig returns the current fee configuration
func (s *PricingService) GetConfig(ctx context.Context) (pricing.FeeConfig, error) {
	return s.configRepo.Load(ctx)
}

// UpdateConfig validates and stores a new fee configuration
func (s *PricingService) UpdateConfig(ctx context.Context, cfg pricing.FeeConfig) (pricing.FeeConfig, error) {
	if err := cfg.Validate(); err != nil {
		return pricing.FeeConfig{}, err
	}
	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return pricing.FeeConfig{}, err
	}
	return cfg, nil
}

// Quote computes a purchase price quote for one item. When a variant is
// supplied its market price is consulted through the price feed; feed
// failures silently leave the market price empty. The fee config is loaded
// once and passed into the pure pipeline as a snapshot.
func (s *PricingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	cfg, err := s.configRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	input := pricing.QuoteInput{
		OverridePrice:   req.OverridePrice,
		Markup:          req.Markup,
		TargetProfitPct: req.TargetProfitPct,
		IsConsole:       req.IsConsole,
	}

	resp := &QuoteResponse{VariantID: req.VariantID, IsConsole: req.IsConsole}
	if req.VariantID != nil {
		vctx, err := s.variantRepo.GetVariantContext(ctx, *req.VariantID)
		if err != nil {
			return nil, err
		}
		input.IsConsole = vctx.IsConsole()
		resp.IsConsole = input.IsConsole

		if price := s.lookupMarketPrice(ctx, vctx); price != nil {
			input.MarketPrice = price
			resp.MarketPrice = price
		}
	}

	resp.Breakdown = pricing.ComputeQuote(cfg, input)
	return resp, nil
}

// PriceTriple holds the feed's three condition-bucket prices for a product.
// Any bucket the feed cannot price is nil.
type PriceTriple struct {
	ExternalProductID string           `json:"external_product_id"`
	Loose             *decimal.Decimal `json:"loose,omitempty"`
	CIB               *decimal.Decimal `json:"cib,omitempty"`
	New               *decimal.Decimal `json:"new,omitempty"`
}

// LookupPriceTriple fetches all three bucket prices for an external product
// id. An unreachable feed yields an empty triple, never an error.
func (s *PricingService) LookupPriceTriple(ctx context.Context, externalProductID string) PriceTriple {
	triple := PriceTriple{ExternalProductID: externalProductID}
	if s.feed == nil || externalProductID == "" {
		return triple
	}
	triple.Loose = s.feed.LookupPrice(ctx, externalProductID, "Loose")
	triple.CIB = s.feed.LookupPrice(ctx, externalProductID, "CIB")
	triple.New = s.feed.LookupPrice(ctx, externalProductID, "New")
	return triple
}

func (s *PricingService) lookupMarketPrice(ctx context.Context, vctx *catalog.VariantContext) *decimal.Decimal {
	bucket := vctx.VariantTypeCode.PriceBucket()
	if bucket == "" || s.feed == nil {
		return vctx.CurrentMarketValue
	}

	product, err := s.productRepo.FindByID(ctx, vctx.CatalogProductID)
	if err != nil || product.ExternalPCID == "" {
		return vctx.CurrentMarketValue
	}

	if price := s.feed.LookupPrice(ctx, product.ExternalPCID, bucket); price != nil {
		return price
	}
	return vctx.CurrentMarketValue
}
