package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func assertMoney(t *testing.T, want float64, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromFloat(want)), "%s = %s, want %v", label, got, want)
}

func TestComputeQuote_GameWithMarketPrice(t *testing.T) {
	cfg := DefaultFeeConfig()

	quote := ComputeQuote(cfg, QuoteInput{MarketPrice: dec(30.00)})
	require.True(t, quote.Priced)
	assert.Equal(t, CostSourceMarket, quote.CostSource)

	// base 30.00 + default markup 3.50
	assertMoney(t, 33.50, quote.EstimatedSalePrice, "sale price")
	// 7% sales tax
	assertMoney(t, 2.35, quote.SalesTax, "sales tax")
	assertMoney(t, 35.85, quote.FinalValue, "final value")
	// 13.25% of final value, then the 10% top seller discount
	assertMoney(t, 4.75, quote.BaseVariableFee, "base variable fee")
	assertMoney(t, 4.27, quote.DiscountedVariableFee, "discounted variable fee")
	assertMoney(t, 4.57, quote.TransactionFee, "transaction fee")
	assertMoney(t, 0.72, quote.AdFee, "ad fee")
	// Game branch shipping; sale price under the $40 supplies threshold
	assertMoney(t, 4.50, quote.ShippingCost, "shipping")
	assertMoney(t, 0.50, quote.SuppliesCost, "supplies")
	assertMoney(t, 10.29, quote.TotalFees, "total fees")
	assertMoney(t, 0.38, quote.TotalCashback, "cashback")
	assertMoney(t, 23.59, quote.NetAfterFees, "net")
	// 25% target margin off the net
	assertMoney(t, 17.69, quote.SuggestedBuyPrice, "buy price")
}

func TestComputeQuote_ConsoleBranch(t *testing.T) {
	cfg := DefaultFeeConfig()

	quote := ComputeQuote(cfg, QuoteInput{OverridePrice: dec(200.00), IsConsole: true})
	require.True(t, quote.Priced)
	assert.Equal(t, CostSourceManual, quote.CostSource)

	assertMoney(t, 12.00, quote.ShippingCost, "console shipping")
	// Sale price over $40
	assertMoney(t, 1.25, quote.SuppliesCost, "supplies")
}

func TestComputeQuote_OverrideBeatsMarket(t *testing.T) {
	cfg := DefaultFeeConfig()

	quote := ComputeQuote(cfg, QuoteInput{
		MarketPrice:   dec(30.00),
		OverridePrice: dec(45.00),
	})
	require.True(t, quote.Priced)
	assert.Equal(t, CostSourceMarketOverride, quote.CostSource)
	assertMoney(t, 45.00, quote.BasePrice, "base price")
	assertMoney(t, 48.50, quote.EstimatedSalePrice, "sale price")
}

func TestComputeQuote_Unpriced(t *testing.T) {
	cfg := DefaultFeeConfig()

	quote := ComputeQuote(cfg, QuoteInput{})
	assert.False(t, quote.Priced)
	assert.True(t, quote.SuggestedBuyPrice.IsZero())
}

func TestComputeQuote_CustomMarkupAndTarget(t *testing.T) {
	cfg := DefaultFeeConfig()

	quote := ComputeQuote(cfg, QuoteInput{
		MarketPrice:     dec(30.00),
		Markup:          dec(0),
		TargetProfitPct: dec(0),
	})
	require.True(t, quote.Priced)
	assertMoney(t, 30.00, quote.EstimatedSalePrice, "sale price")
	// With zero target margin the buy price equals the net
	assert.True(t, quote.SuggestedBuyPrice.Equal(quote.NetAfterFees))
}

func TestComputeQuote_BuyPriceNeverNegative(t *testing.T) {
	cfg := DefaultFeeConfig()

	// Fees swamp a nearly worthless item
	quote := ComputeQuote(cfg, QuoteInput{MarketPrice: dec(0.01)})
	require.True(t, quote.Priced)
	assert.True(t, quote.NetAfterFees.IsNegative())
	assert.True(t, quote.SuggestedBuyPrice.IsZero())
}

func TestFeeConfig_Validate(t *testing.T) {
	cfg := DefaultFeeConfig()
	assert.NoError(t, cfg.Validate())

	cfg.AdFee = decimal.NewFromInt(-1)
	assert.Error(t, cfg.Validate())
}
