package pricing

import "context"

// FeeConfigRepository loads and stores the fee parameter set. The store
// seeds itself with DefaultFeeConfig when no rows exist yet.
type FeeConfigRepository interface {
	Load(ctx context.Context) (FeeConfig, error)
	Save(ctx context.Context, cfg FeeConfig) error
}
