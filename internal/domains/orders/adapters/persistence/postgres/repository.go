package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              string            `gorm:"primaryKey;column:id;size:16"`
	UserID          string            `gorm:"column:user_id;index"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2)"`
	Status          string            `gorm:"column:status;type:varchar(32);index"`
	PrescriptionURL *string           `gorm:"column:prescription_url"`
	CreatedAt       time.Time         `gorm:"column:created_at;index"`
	UpdatedAt       time.Time         `gorm:"column:updated_at"`
	Seq             int64             `gorm:"column:seq;autoIncrement;uniqueIndex"`
	Lines           []orderLineRecord `gorm:"foreignKey:OrderID;references:ID"`
}

func (orderRecord) TableName() string { return "orders" }

// orderLineRecord freezes the item as it was when the order was placed.
type orderLineRecord struct {
	ID                   uint                `gorm:"primaryKey;column:id"`
	OrderID              string              `gorm:"column:order_id;size:16;index"`
	Position             int                 `gorm:"column:position"`
	ItemID               string              `gorm:"column:item_id"`
	Name                 string              `gorm:"column:name"`
	Brand                string              `gorm:"column:brand"`
	Price                decimal.Decimal     `gorm:"column:price;type:numeric(12,2)"`
	OriginalPrice        decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
	Stock                int                 `gorm:"column:stock"`
	RequiresPrescription bool                `gorm:"column:requires_prescription"`
	Category             string              `gorm:"column:category"`
	Description          string              `gorm:"column:description"`
	ImageURL             string              `gorm:"column:image_url"`
	Quantity             int                 `gorm:"column:quantity"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Create inserts the order and its lines. An existing id yields ports.ErrDuplicateID.
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return err
	}
	record := toRecord(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("Lines").
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(&record)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrDuplicateID
		}
		if err := tx.Create(&record.Lines).Error; err != nil {
			return err
		}
		order.Seq = record.Seq
		return nil
	})
}

// GetByID fetches an order with its lines.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.withLines(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns the orders matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.withLines(ctx)
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var records []orderRecord
	if err := query.Order("created_at DESC").Order("seq DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus is a compare-and-swap on the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, at time.Time) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": at})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ports.ErrStatusConflict
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		PrescriptionURL: order.PrescriptionURL,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for i, line := range order.Lines {
		lineRec := orderLineRecord{
			OrderID:              order.ID,
			Position:             i,
			ItemID:               line.Item.ID,
			Name:                 line.Item.Name,
			Brand:                line.Item.Brand,
			Price:                line.Item.Price,
			Stock:                line.Item.Stock,
			RequiresPrescription: line.Item.RequiresPrescription,
			Category:             string(line.Item.Category),
			Description:          line.Item.Description,
			ImageURL:             line.Item.ImageURL,
			Quantity:             line.Quantity,
		}
		if line.Item.OriginalPrice != nil {
			lineRec.OriginalPrice = decimal.NewNullDecimal(*line.Item.OriginalPrice)
		}
		rec.Lines = append(rec.Lines, lineRec)
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		TotalAmount:     r.TotalAmount,
		Status:          domain.Status(r.Status),
		PrescriptionURL: r.PrescriptionURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Seq:             r.Seq,
		Lines:           make([]cart.Line, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		item := catalog.Item{
			ID:                   line.ItemID,
			Name:                 line.Name,
			Brand:                line.Brand,
			Price:                line.Price,
			Stock:                line.Stock,
			RequiresPrescription: line.RequiresPrescription,
			Category:             catalog.Category(line.Category),
			Description:          line.Description,
			ImageURL:             line.ImageURL,
		}
		if line.OriginalPrice.Valid {
			original := line.OriginalPrice.Decimal
			item.OriginalPrice = &original
		}
		order.Lines = append(order.Lines, cart.Line{Item: item, Quantity: line.Quantity})
	}
	return order
}
