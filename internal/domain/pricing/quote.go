package pricing

import "github.com/shopspring/decimal"

// CostSource reports where the quote's base price came from
type CostSource string

const (
	CostSourceMarket         CostSource = "market"
	CostSourceManual         CostSource = "manual"
	CostSourceMarketOverride CostSource = "market_override"
)

// QuoteInput carries the per-item inputs to a pricing quote.
// MarketPrice and OverridePrice are optional; OverridePrice wins when both
// are present. Markup and TargetProfitPct fall back to the config defaults
// when nil.
type QuoteInput struct {
	MarketPrice     *decimal.Decimal
	OverridePrice   *decimal.Decimal
	Markup          *decimal.Decimal
	TargetProfitPct *decimal.Decimal
	IsConsole       bool
}

// QuoteBreakdown is the full fee decomposition of a single item quote.
// Priced is false when neither a market price nor an override was supplied;
// all monetary fields are zero in that case.
type QuoteBreakdown struct {
	Priced                bool            `json:"priced"`
	CostSource            CostSource      `json:"cost_source"`
	BasePrice             decimal.Decimal `json:"base_price"`
	EstimatedSalePrice    decimal.Decimal `json:"estimated_sale_price"`
	SalesTax              decimal.Decimal `json:"sales_tax"`
	FinalValue            decimal.Decimal `json:"final_value"`
	BaseVariableFee       decimal.Decimal `json:"base_variable_fee"`
	DiscountedVariableFee decimal.Decimal `json:"discounted_variable_fee"`
	TransactionFee        decimal.Decimal `json:"transaction_fee"`
	AdFee                 decimal.Decimal `json:"ad_fee"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	SuppliesCost          decimal.Decimal `json:"supplies_cost"`
	RegularCashback       decimal.Decimal `json:"regular_cashback"`
	ShippingCashback      decimal.Decimal `json:"shipping_cashback"`
	TotalCashback         decimal.Decimal `json:"total_cashback"`
	TotalFees             decimal.Decimal `json:"total_fees"`
	NetAfterFees          decimal.Decimal `json:"net_after_fees"`
	SuggestedBuyPrice     decimal.Decimal `json:"suggested_buy_price"`
}

var (
	hundred   = decimal.NewFromInt(100)
	one       = decimal.NewFromInt(1)
	threshold = decimal.NewFromInt(40)
)

func pct(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred)
}

// ComputeQuote runs the full fee pipeline over one item. It is a pure
// function of the config snapshot and the input; nothing is read from
// shared state.
//
// The pipeline: base price plus markup gives the sale price; sales tax on
// top gives the final value the buyer pays. The marketplace variable fee
// applies to the final value, discounted for top sellers, plus a flat
// per-order fee. Ad fees also apply to the final value. Shipping and
// supplies are flat costs chosen by the console/game branch and the $40
// sale-price threshold. Cashback accrues on the sale price and on
// shipping. Collected tax is remitted, so it drops out of the net.
func ComputeQuote(cfg FeeConfig, input QuoteInput) QuoteBreakdown {
	var base decimal.Decimal
	var source CostSource
	switch {
	case input.OverridePrice != nil:
		base = *input.OverridePrice
		source = CostSourceManual
		if input.MarketPrice != nil {
			source = CostSourceMarketOverride
		}
	case input.MarketPrice != nil:
		base = *input.MarketPrice
		source = CostSourceMarket
	default:
		return QuoteBreakdown{Priced: false, CostSource: CostSourceManual}
	}

	markup := cfg.DefaultMarkup
	if input.Markup != nil {
		markup = *input.Markup
	}
	salePrice := base.Add(markup)

	salesTax := salePrice.Mul(pct(cfg.SalesTaxAvg))
	finalValue := salePrice.Add(salesTax)

	variableRate := pct(cfg.VariableFeeGames)
	shippingCost := cfg.AverageShippingCost
	if input.IsConsole {
		variableRate = pct(cfg.VariableFeeConsoles)
		shippingCost = cfg.AverageShippingConsoles
	}

	// Supplies threshold keys off the sale price, not the final value.
	suppliesCost := cfg.SuppliesCostOver40
	if salePrice.LessThanOrEqual(threshold) {
		suppliesCost = cfg.SuppliesCostUnder40
	}

	baseVariableFee := finalValue.Mul(variableRate)
	discountedVariableFee := baseVariableFee.Mul(one.Sub(pct(cfg.TopSellerDiscount)))
	transactionFee := discountedVariableFee.Add(cfg.FlatTransactionFee)
	adFee := finalValue.Mul(pct(cfg.AdFee))

	totalFees := transactionFee.Add(adFee).Add(shippingCost).Add(suppliesCost)

	regularCashback := salePrice.Mul(pct(cfg.RegularCashbackRate))
	shippingCashback := shippingCost.Mul(pct(cfg.ShippingCashbackRate))
	totalCashback := regularCashback.Add(shippingCashback)

	netAfterFees := salePrice.Sub(totalFees).Add(totalCashback)

	targetProfit := cfg.DefaultTargetProfitPct
	if input.TargetProfitPct != nil {
		targetProfit = *input.TargetProfitPct
	}
	buyPrice := netAfterFees.Mul(one.Sub(pct(targetProfit)))
	if buyPrice.IsNegative() {
		buyPrice = decimal.Zero
	}

	round := func(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
	return QuoteBreakdown{
		Priced:                true,
		CostSource:            source,
		BasePrice:             round(base),
		EstimatedSalePrice:    round(salePrice),
		SalesTax:              round(salesTax),
		FinalValue:            round(finalValue),
		BaseVariableFee:       round(baseVariableFee),
		DiscountedVariableFee: round(discountedVariableFee),
		TransactionFee:        round(transactionFee),
		AdFee:                 round(adFee),
		ShippingCost:          round(shippingCost),
		SuppliesCost:          round(suppliesCost),
		RegularCashback:       round(regularCashback),
		ShippingCashback:      round(shippingCashback),
		TotalCashback:         round(totalCashback),
		TotalFees:             round(totalFees),
		NetAfterFees:          round(netAfterFees),
		SuggestedBuyPrice:     round(buyPrice),
	}
}
