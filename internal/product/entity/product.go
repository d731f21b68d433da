package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditFavorite is the most purchased item of a credit account (by custid).
type CreditFavorite struct {
	CustID        string  `db:"custid" json:"custid"`
	CName         string  `db:"cname" json:"cname"`
	Phone         *string `db:"phone" json:"phone"`
	Description   string  `db:"description" json:"description"`
	PurchaseCount int64   `db:"purchase_count" json:"purchase_count"`
	ProductNo     string  `db:"productno" json:"productno"`
}

// DailyFavorite is the most purchased item of a walk-in (phone keyed)
// customer together with the profile fields shown next to it.
type DailyFavorite struct {
	Phone             string              `db:"phone" json:"phone"`
	ProductNo         string              `db:"productno" json:"productno"`
	MostPurchasedItem string              `db:"most_purchased_item" json:"most_purchased_item"`
	PurchaseCount     int64               `db:"purchase_count" json:"purchase_count"`
	CustomerName      string              `db:"customer_name" json:"customer_name"`
	Address           *string             `db:"address" json:"address"`
	Email             *string             `db:"email" json:"email"`
	CreditLimit       decimal.NullDecimal `db:"creditlimit" json:"creditlimit"`
	Balance           decimal.NullDecimal `db:"balance" json:"balance"`
	LoyaltyPoints     decimal.NullDecimal `db:"loyaltypoints" json:"loyaltypoints"`
	LoyaltyNumber     *string             `db:"loyalty_number" json:"loyalty_number"`
	AutoDiscount      *string             `db:"autodiscount" json:"autodiscount"`
}

// ActiveCustomer is a per-phone activity row used by the "highest activity"
// and "longest tenured" views.
type ActiveCustomer struct {
	Phone                  string              `db:"phone" json:"phone"`
	CustomerName           string              `db:"customer_name" json:"customer_name"`
	TotalPurchases         int64               `db:"total_purchases" json:"total_purchases"`
	FirstPurchaseDate      time.Time           `db:"first_purchase_date" json:"first_purchase_date"`
	LastPurchaseDate       time.Time           `db:"last_purchase_date" json:"last_purchase_date"`
	TotalSpent             decimal.NullDecimal `db:"total_spent" json:"total_spent"`
	MostPurchasedItem      *string             `db:"most_purchased_item" json:"most_purchased_item"`
	MostPurchasedItemCount *int64              `db:"most_purchased_item_count" json:"most_purchased_item_count"`
}

// ItemCount is a product with its purchase-line count.
type ItemCount struct {
	ProductNo     string `db:"productno" json:"productno"`
	Description   string `db:"description" json:"description"`
	PurchaseCount int64  `db:"purchase_count" json:"purchase_count"`
}

// CatalogItem is the flat item table the recommender blends over.
type CatalogItem struct {
	ProductNo     string          `db:"productno" json:"productno"`
	Description   string          `db:"description" json:"description"`
	SalePrice     decimal.Decimal `db:"saleprice" json:"saleprice"`
	BuyPrice      decimal.Decimal `db:"buyprice" json:"buyprice"`
	PurchaseCount int64           `db:"purchase_count" json:"purchase_count"`
}

// Margin is sale price minus buy price.
func (c CatalogItem) Margin() decimal.Decimal {
	return c.SalePrice.Sub(c.BuyPrice)
}
