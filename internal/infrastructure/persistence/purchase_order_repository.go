package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID, lines included
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a purchase order by its human-readable number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&order, "po_number = ?", poNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder

	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}), filter)
	query = query.Order(ValidateOrderBy(filter.OrderBy, PurchaseOrderSortFields, "created_at DESC"))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number ASC")
	}).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts purchase orders matching the filter, ignoring pagination
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextSequence returns one past the highest numeric tail among existing
// po_numbers for the source. The tail is parsed in Go because numbers are
// stored as a single opaque string column.
func (r *GormPurchaseOrderRepository) NextSequence(ctx context.Context, sourceID uuid.UUID, sourceCode string) (int, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&purchase.PurchaseOrder{}).
		Where("source_id = ?", sourceID).
		Pluck("po_number", &numbers).Error; err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, n := range numbers {
		tail := strings.TrimPrefix(n, sourceCode)
		if tail == n {
			continue
		}
		seq, err := strconv.Atoi(tail)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

// Create inserts a new order header. A po_number uniqueness violation maps
// to shared.ErrAlreadyExists so the service layer can retry with a fresh
// sequence.
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Omit("Lines").Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists the order and its lines guarded by the aggregate version
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchase.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := order.Version
		order.Version++
		order.UpdatedAt = time.Now()

		result := tx.Model(&purchase.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"date_purchased":        order.DatePurchased,
				"payment_method":        order.PaymentMethod,
				"external_order_number": order.ExternalOrderNumber,
				"subtotal":              order.Subtotal,
				"tax":                   order.Tax,
				"shipping":              order.Shipping,
				"fees":                  order.Fees,
				"discounts":             order.Discounts,
				"status":                order.Status,
				"is_locked":             order.IsLocked,
				"locked_at":             order.LockedAt,
				"notes":                 order.Notes,
				"version":               order.Version,
				"updated_at":            order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			order.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		// Replace the line set: delete removed lines, upsert the rest
		currentLineIDs := make([]uuid.UUID, len(order.Lines))
		for i, line := range order.Lines {
			currentLineIDs[i] = line.ID
		}
		if len(currentLineIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentLineIDs).
				Delete(&purchase.PurchaseOrderLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&purchase.PurchaseOrderLine{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
			if err := tx.Save(&order.Lines[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// UpdateLineReceiveState applies a receiving outcome to a single line with a
// conditional update on the line's version counter
func (r *GormPurchaseOrderRepository) UpdateLineReceiveState(ctx context.Context, lineID uuid.UUID, expectedVersion, quantityReceived int, status purchase.ReceiveStatus) error {
	result := r.db.WithContext(ctx).
		Model(&purchase.PurchaseOrderLine{}).
		Where("id = ? AND version = ?", lineID, expectedVersion).
		Updates(map[string]interface{}{
			"quantity_received": quantityReceived,
			"receive_status":    status,
			"version":           expectedVersion + 1,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// UpdateStatus overwrites the order's derived status
func (r *GormPurchaseOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status purchase.PurchaseOrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&purchase.PurchaseOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search and field filters without pagination
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("po_number ILIKE ? OR external_order_number ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "source_id":
			query = query.Where("source_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "is_locked":
			query = query.Where("is_locked = ?", value)
		case "purchased_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("date_purchased >= ?", t)
			}
		case "purchased_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("date_purchased <= ?", t)
			}
		}
	}

	return query
}

var _ purchase.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
