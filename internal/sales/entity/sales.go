package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one product line of an invoice.
type InvoiceLine struct {
	Total              decimal.Decimal `db:"total" json:"total"`
	CustID             *string         `db:"custid" json:"custid"`
	DateIn             time.Time       `db:"datein" json:"datein"`
	ProductDescription string          `db:"product_description" json:"product_description"`
	ProductNo          string          `db:"productno" json:"productno"`
	SalePrice          decimal.Decimal `db:"saleprice" json:"saleprice"`
	Quantity           decimal.Decimal `db:"quantity" json:"quantity"`
	InvoiceNo          string          `db:"invoiceno" json:"invoiceno"`
	ProductBarcode     *string         `db:"product_barcode" json:"product_barcode"`
}

// Customer is an exclusion filter option.
type Customer struct {
	CustomerID string `db:"customer_id" json:"customer_id"`
	CName      string `db:"cname" json:"cname"`
}

// Payment is a payment row joined to its customer's name.
type Payment struct {
	PaymentID    string          `db:"paymentid" json:"paymentid"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	DateIn       time.Time       `db:"datein" json:"datein"`
	InvoiceNo    *string         `db:"invoiceno" json:"invoiceno"`
	Phone        *string         `db:"phone" json:"phone"`
	CustomerName string          `db:"customer_name" json:"customer_name"`
	CustID       string          `db:"custid" json:"custid"`
	PaymentType  *string         `db:"paymenttype" json:"paymenttype"`
}
