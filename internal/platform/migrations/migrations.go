package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate themselves.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&credentialRecord{},
		&receiptRecord{},
	)
}

// Credential schema mirrors the session Postgres credential store.
type credentialRecord struct {
	Key       string     `gorm:"primaryKey;column:key;size:128"`
	Token     string     `gorm:"column:token;size:2048"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (credentialRecord) TableName() string { return "storefront_credentials" }

// Receipt schema mirrors the checkout Postgres receipt repository.
type receiptRecord struct {
	HandoffID      string          `gorm:"primaryKey;column:handoff_id;type:uuid"`
	Reference      string          `gorm:"column:reference;index"`
	ItemIDs        pq.StringArray  `gorm:"column:item_ids;type:text[]"`
	Lines          []byte          `gorm:"column:lines;type:jsonb"`
	PromoCode      string          `gorm:"column:promo_code;size:64"`
	ItemCount      int             `gorm:"column:item_count"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric"`
	DeliveryFee    decimal.Decimal `gorm:"column:delivery_fee;type:numeric"`
	Tax            decimal.Decimal `gorm:"column:tax;type:numeric"`
	DiscountRate   decimal.Decimal `gorm:"column:discount_rate;type:numeric"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric"`
	GrandTotal     decimal.Decimal `gorm:"column:grand_total;type:numeric"`
	CustomerID     string          `gorm:"column:customer_id;index"`
	CustomerEmail  string          `gorm:"column:customer_email"`
	AcceptedAt     time.Time       `gorm:"column:accepted_at;index"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (receiptRecord) TableName() string { return "checkout_receipts" }
