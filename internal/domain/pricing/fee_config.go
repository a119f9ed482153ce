package pricing

import (
	"fmt"

	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeConfig is an immutable snapshot of marketplace fee parameters.
// Services load it once per request and pass it by value into the quote
// pipeline, so a concurrent config update never changes a quote mid-flight.
// Rates are expressed as percentages (13.25 means 13.25%).
type FeeConfig struct {
	SalesTaxAvg             decimal.Decimal `json:"sales_tax_avg"`
	VariableFeeGames        decimal.Decimal `json:"variable_fee_games"`
	VariableFeeConsoles     decimal.Decimal `json:"variable_fee_consoles"`
	AverageShippingCost     decimal.Decimal `json:"average_shipping_cost"`
	AverageShippingConsoles decimal.Decimal `json:"average_shipping_cost_consoles"`
	SuppliesCostUnder40     decimal.Decimal `json:"shipping_supplies_cost_under_40"`
	SuppliesCostOver40      decimal.Decimal `json:"shipping_supplies_cost_over_40"`
	TopSellerDiscount       decimal.Decimal `json:"top_seller_discount"`
	FlatTransactionFee      decimal.Decimal `json:"flat_trx_fee"`
	AdFee                   decimal.Decimal `json:"ad_fee"`
	RegularCashbackRate     decimal.Decimal `json:"regular_cashback_rate"`
	ShippingCashbackRate    decimal.Decimal `json:"shipping_cashback_rate"`
	DefaultMarkup           decimal.Decimal `json:"default_markup"`
	DefaultTargetProfitPct  decimal.Decimal `json:"default_target_profit_pct"`
}

// DefaultFeeConfig returns the seed configuration applied on first run
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		SalesTaxAvg:             decimal.NewFromFloat(7.0),
		VariableFeeGames:        decimal.NewFromFloat(13.25),
		VariableFeeConsoles:     decimal.NewFromFloat(13.25),
		AverageShippingCost:     decimal.NewFromFloat(4.50),
		AverageShippingConsoles: decimal.NewFromFloat(12.00),
		SuppliesCostUnder40:     decimal.NewFromFloat(0.50),
		SuppliesCostOver40:      decimal.NewFromFloat(1.25),
		TopSellerDiscount:       decimal.NewFromFloat(10.0),
		FlatTransactionFee:      decimal.NewFromFloat(0.30),
		AdFee:                   decimal.NewFromFloat(2.0),
		RegularCashbackRate:     decimal.NewFromFloat(1.0),
		ShippingCashbackRate:    decimal.NewFromFloat(1.0),
		DefaultMarkup:           decimal.NewFromFloat(3.50),
		DefaultTargetProfitPct:  decimal.NewFromFloat(25.0),
	}
}

// Validate checks every parameter is non-negative
func (c FeeConfig) Validate() error {
	fields := map[string]decimal.Decimal{
		"sales_tax_avg":                   c.SalesTaxAvg,
		"variable_fee_games":              c.VariableFeeGames,
		"variable_fee_consoles":           c.VariableFeeConsoles,
		"average_shipping_cost":           c.AverageShippingCost,
		"average_shipping_cost_consoles":  c.AverageShippingConsoles,
		"shipping_supplies_cost_under_40": c.SuppliesCostUnder40,
		"shipping_supplies_cost_over_40":  c.SuppliesCostOver40,
		"top_seller_discount":             c.TopSellerDiscount,
		"flat_trx_fee":                    c.FlatTransactionFee,
		"ad_fee":                          c.AdFee,
		"regular_cashback_rate":           c.RegularCashbackRate,
		"shipping_cashback_rate":          c.ShippingCashbackRate,
		"default_markup":                  c.DefaultMarkup,
		"default_target_profit_pct":       c.DefaultTargetProfitPct,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_CONFIG",
				fmt.Sprintf("Invalid %s: must be >= 0", name))
		}
	}
	return nil
}
