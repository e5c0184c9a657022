package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	"github.com/Apurer/foodio-storefront/internal/shared/projection"
)

var _ ports.ReceiptRepository = (*ReceiptRepository)(nil)

// ReceiptRepository persists receipts in PostgreSQL using GORM. Schema lives in platform/migrations.
type ReceiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

type receiptLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

type receiptRecord struct {
	HandoffID      string          `gorm:"primaryKey;column:handoff_id;type:uuid"`
	Reference      string          `gorm:"column:reference;index"`
	ItemIDs        pq.StringArray  `gorm:"column:item_ids;type:text[]"`
	Lines          []receiptLine   `gorm:"column:lines;type:jsonb;serializer:json"`
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

// Save inserts the receipt. Re-saving a hand-off keeps the first row.
func (r *ReceiptRepository) Save(ctx context.Context, receipt *domain.Receipt) (*ports.ReceiptProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, errors.New("receipt is nil")
	}
	record := toRecord(receipt)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "handoff_id"}},
			DoNothing: true,
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByHandoffID(ctx, receipt.HandoffID)
}

func (r *ReceiptRepository) GetByHandoffID(ctx context.Context, id uuid.UUID) (*ports.ReceiptProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record receiptRecord
	if err := r.db.WithContext(ctx).First(&record, "handoff_id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrReceiptNotFound
		}
		return nil, err
	}
	return record.toProjection()
}

// List returns receipts newest first.
func (r *ReceiptRepository) List(ctx context.Context) ([]*ports.ReceiptProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []receiptRecord
	if err := r.db.WithContext(ctx).Order("accepted_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.ReceiptProjection, 0, len(records))
	for i := range records {
		p, err := records[i].toProjection()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *ReceiptRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres receipt repository not configured")
	}
	return nil
}

func toRecord(receipt *domain.Receipt) receiptRecord {
	lines := make([]receiptLine, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		lines = append(lines, receiptLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	totals := receipt.Totals
	return receiptRecord{
		HandoffID:      receipt.HandoffID.String(),
		Reference:      receipt.Reference,
		ItemIDs:        pq.StringArray(receipt.ItemIDs()),
		Lines:          lines,
		PromoCode:      receipt.PromoCode,
		ItemCount:      totals.ItemCount,
		Subtotal:       totals.Subtotal,
		DeliveryFee:    totals.DeliveryFee,
		Tax:            totals.Tax,
		DiscountRate:   totals.DiscountRate,
		DiscountAmount: totals.DiscountAmount,
		GrandTotal:     totals.GrandTotal,
		CustomerID:     receipt.Customer.ID,
		CustomerEmail:  receipt.Customer.Email,
		AcceptedAt:     receipt.AcceptedAt,
	}
}

func (r receiptRecord) toProjection() (*ports.ReceiptProjection, error) {
	id, err := uuid.Parse(r.HandoffID)
	if err != nil {
		return nil, err
	}
	lines := make([]cartdomain.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, cartdomain.Line{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	receipt := &domain.Receipt{
		HandoffID: id,
		Reference: r.Reference,
		Lines:     lines,
		PromoCode: r.PromoCode,
		Totals: cartdomain.Totals{
			ItemCount:      r.ItemCount,
			Subtotal:       r.Subtotal,
			DeliveryFee:    r.DeliveryFee,
			Tax:            r.Tax,
			DiscountRate:   r.DiscountRate,
			DiscountAmount: r.DiscountAmount,
			GrandTotal:     r.GrandTotal,
		},
		Customer:   domain.Customer{ID: r.CustomerID, Email: r.CustomerEmail},
		AcceptedAt: r.AcceptedAt,
	}
	return projection.New(receipt, r.CreatedAt, r.UpdatedAt), nil
}
