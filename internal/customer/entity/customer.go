package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rollup is the per-phone customer overview row. Phone is the join key;
// purchase-side fields are nil when the phone has payments but no line items.
type Rollup struct {
	Phone                  string          `db:"phone" json:"phone"`
	CustomerName           string          `db:"customer_name" json:"customer_name"`
	TotalPurchases         *int64          `db:"total_purchases" json:"total_purchases"`
	TotalPayments          int64           `db:"total_payments" json:"total_payments"`
	TotalPaid              decimal.Decimal `db:"total_paid" json:"total_paid"`
	FirstPurchaseDate      *time.Time      `db:"first_purchase_date" json:"first_purchase_date"`
	LastPurchaseDate       *time.Time      `db:"last_purchase_date" json:"last_purchase_date"`
	MostPurchasedItem      *string         `db:"most_purchased_item" json:"most_purchased_item"`
	MostPurchasedItemCount *int64          `db:"most_purchased_item_count" json:"most_purchased_item_count"`
	PurchaseDurationDays   *float64        `db:"purchase_duration_days" json:"purchase_duration_days"`
}

// Summary is the payment-side profile of a single phone.
type Summary struct {
	Phone               string          `db:"phone" json:"phone"`
	TotalPayments       int64           `db:"total_payments" json:"total_payments"`
	TotalSpent          decimal.Decimal `db:"total_spent" json:"total_spent"`
	FirstPaymentDate    time.Time       `db:"first_payment_date" json:"first_payment_date"`
	LastPaymentDate     time.Time       `db:"last_payment_date" json:"last_payment_date"`
	PaymentDurationDays float64         `db:"payment_duration_days" json:"payment_duration_days"`
}

// ItemCount is one entry of a top-N item ranking.
type ItemCount struct {
	ProductDescription string `db:"product_description" json:"product_description"`
	PurchaseCount      int64  `db:"purchase_count" json:"purchase_count"`
}

// PurchaseLine is an itemized purchase for a phone.
type PurchaseLine struct {
	ProductNo          string          `db:"productno" json:"productno"`
	ProductDescription string          `db:"product_description" json:"product_description"`
	SoldPrice          decimal.Decimal `db:"sold_price" json:"sold_price"`
	CurrentItemPrice   decimal.Decimal `db:"current_item_price" json:"current_item_price"`
	PurchaseQuantity   decimal.Decimal `db:"purchase_quantity" json:"purchase_quantity"`
	Total              decimal.Decimal `db:"total" json:"total"`
	PurchaseDate       time.Time       `db:"purchase_date" json:"purchase_date"`
}

// InvoicePayment is the payment total of one invoice.
type InvoicePayment struct {
	InvoiceNo   string          `db:"invoiceno" json:"invoiceno"`
	TotalPaid   decimal.Decimal `db:"total_paid" json:"total_paid"`
	PaymentDate time.Time       `db:"payment_date" json:"payment_date"`
}
