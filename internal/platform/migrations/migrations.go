package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&itemRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&checkoutKeyRecord{},
	)
}

// Item schema mirrors the catalog Postgres adapter.
type itemRecord struct {
	ID                   string              `gorm:"primaryKey;column:id"`
	Name                 string              `gorm:"column:name;not null"`
	Brand                string              `gorm:"column:brand"`
	Price                decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice        decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
	Stock                int                 `gorm:"column:stock;not null;index"`
	RequiresPrescription bool                `gorm:"column:requires_prescription"`
	Category             string              `gorm:"column:category;type:varchar(32);index"`
	Description          string              `gorm:"column:description"`
	ImageURL             string              `gorm:"column:image_url"`
	CreatedAt            time.Time           `gorm:"column:created_at"`
	UpdatedAt            time.Time           `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "catalog_items" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:16"`
	UserID          string          `gorm:"column:user_id;index"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	PrescriptionURL *string         `gorm:"column:prescription_url"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	Seq             int64           `gorm:"column:seq;autoIncrement;uniqueIndex"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema mirrors the frozen item snapshot of the orders adapter.
type orderLineRecord struct {
	ID                   uint                `gorm:"primaryKey;column:id"`
	OrderID              string              `gorm:"column:order_id;size:16;index;not null"`
	Position             int                 `gorm:"column:position"`
	ItemID               string              `gorm:"column:item_id"`
	Name                 string              `gorm:"column:name"`
	Brand                string              `gorm:"column:brand"`
	Price                decimal.Decimal     `gorm:"column:price;type:numeric(12,2)"`
	OriginalPrice        decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
	Stock                int                 `gorm:"column:stock;not null;default:0"`
	RequiresPrescription bool                `gorm:"column:requires_prescription"`
	Category             string              `gorm:"column:category;type:varchar(32)"`
	Description          string              `gorm:"column:description"`
	ImageURL             string              `gorm:"column:image_url"`
	Quantity             int                 `gorm:"column:quantity"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Checkout idempotency schema mirrors the orders idempotency store.
type checkoutKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	SessionHash string    `gorm:"column:session_hash;size:64;not null"`
	OrderID     string    `gorm:"column:order_id;size:16;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (checkoutKeyRecord) TableName() string { return "checkout_idempotency_keys" }
