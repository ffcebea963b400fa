package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	"github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	"github.com/Apurer/mediswift-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog items in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type itemRecord struct {
	ID                   string              `gorm:"primaryKey;column:id"`
	Name                 string              `gorm:"column:name"`
	Brand                string              `gorm:"column:brand"`
	Price                decimal.Decimal     `gorm:"column:price;type:numeric(12,2)"`
	OriginalPrice        decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
	Stock                int                 `gorm:"column:stock"`
	RequiresPrescription bool                `gorm:"column:requires_prescription"`
	Category             string              `gorm:"column:category"`
	Description          string              `gorm:"column:description"`
	ImageURL             string              `gorm:"column:image_url"`
	CreatedAt            time.Time           `gorm:"column:created_at"`
	UpdatedAt            time.Time           `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "catalog_items" }

// Save inserts or updates an item.
func (r *Repository) Save(ctx context.Context, item *domain.Item) (*projection.Projection[*domain.Item], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("cannot save nil item")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(item)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":                  record.Name,
				"brand":                 record.Brand,
				"price":                 record.Price,
				"original_price":        record.OriginalPrice,
				"stock":                 record.Stock,
				"requires_prescription": record.RequiresPrescription,
				"category":              record.Category,
				"description":           record.Description,
				"image_url":             record.ImageURL,
				"updated_at":            gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an item by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Item], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes an item by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&itemRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all items ordered by creation time, then id.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Item], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Item], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(item *domain.Item) itemRecord {
	rec := itemRecord{
		ID:                   item.ID,
		Name:                 item.Name,
		Brand:                item.Brand,
		Price:                item.Price,
		Stock:                item.Stock,
		RequiresPrescription: item.RequiresPrescription,
		Category:             string(item.Category),
		Description:          item.Description,
		ImageURL:             item.ImageURL,
	}
	if item.OriginalPrice != nil {
		rec.OriginalPrice = decimal.NewNullDecimal(*item.OriginalPrice)
	}
	return rec
}

func (r itemRecord) toProjection() *projection.Projection[*domain.Item] {
	item := &domain.Item{
		ID:                   r.ID,
		Name:                 r.Name,
		Brand:                r.Brand,
		Price:                r.Price,
		Stock:                r.Stock,
		RequiresPrescription: r.RequiresPrescription,
		Category:             domain.Category(r.Category),
		Description:          r.Description,
		ImageURL:             r.ImageURL,
	}
	if r.OriginalPrice.Valid {
		original := r.OriginalPrice.Decimal
		item.OriginalPrice = &original
	}
	return projection.New(item, r.CreatedAt, r.UpdatedAt)
}
