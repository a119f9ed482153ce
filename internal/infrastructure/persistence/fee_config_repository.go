package persistence

import (
	"context"
	"time"

	"github.com/resale/backoffice/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeeConfigEntry is a single fee parameter stored as a key/value row
type FeeConfigEntry struct {
	Key       string          `gorm:"type:varchar(50);primary_key"`
	Value     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FeeConfigEntry) TableName() string {
	return "fee_config_entries"
}

// GormFeeConfigRepository implements FeeConfigRepository using GORM.
// Parameters are stored one row per key so individual values can be tuned
// without a schema change.
type GormFeeConfigRepository struct {
	db *gorm.DB
}

// NewGormFeeConfigRepository creates a new GormFeeConfigRepository
func NewGormFeeConfigRepository(db *gorm.DB) *GormFeeConfigRepository {
	return &GormFeeConfigRepository{db: db}
}

// Load reads the stored fee parameters, seeding defaults on first run.
// Unknown keys are ignored; missing keys keep their default value.
func (r *GormFeeConfigRepository) Load(ctx context.Context) (pricing.FeeConfig, error) {
	var entries []FeeConfigEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return pricing.FeeConfig{}, err
	}

	cfg := pricing.DefaultFeeConfig()
	if len(entries) == 0 {
		if err := r.Save(ctx, cfg); err != nil {
			return pricing.FeeConfig{}, err
		}
		return cfg, nil
	}

	fields := configFields(&cfg)
	for _, e := range entries {
		if target, ok := fields[e.Key]; ok {
			*target = e.Value
		}
	}
	return cfg, nil
}

// Save upserts every fee parameter as its own row
func (r *GormFeeConfigRepository) Save(ctx context.Context, cfg pricing.FeeConfig) error {
	now := time.Now()
	fields := configFields(&cfg)

	entries := make([]FeeConfigEntry, 0, len(fields))
	for key, value := range fields {
		entries = append(entries, FeeConfigEntry{Key: key, Value: *value, UpdatedAt: now})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entries).Error
}

// configFields maps storage keys to the config struct's fields. The keys
// match the names FeeConfig.Validate reports, so operators see the same
// identifiers in error messages and in the database.
func configFields(cfg *pricing.FeeConfig) map[string]*decimal.Decimal {
	return map[string]*decimal.Decimal{
		"sales_tax_avg":                   &cfg.SalesTaxAvg,
		"variable_fee_games":              &cfg.VariableFeeGames,
		"variable_fee_consoles":           &cfg.VariableFeeConsoles,
		"average_shipping_cost":           &cfg.AverageShippingCost,
		"average_shipping_cost_consoles":  &cfg.AverageShippingConsoles,
		"shipping_supplies_cost_under_40": &cfg.SuppliesCostUnder40,
		"shipping_supplies_cost_over_40":  &cfg.SuppliesCostOver40,
		"top_seller_discount":             &cfg.TopSellerDiscount,
		"flat_trx_fee":                    &cfg.FlatTransactionFee,
		"ad_fee":                          &cfg.AdFee,
		"regular_cashback_rate":           &cfg.RegularCashbackRate,
		"shipping_cashback_rate":          &cfg.ShippingCashbackRate,
		"default_markup":                  &cfg.DefaultMarkup,
		"default_target_profit_pct":       &cfg.DefaultTargetProfitPct,
	}
}

var _ pricing.FeeConfigRepository = (*GormFeeConfigRepository)(nil)
