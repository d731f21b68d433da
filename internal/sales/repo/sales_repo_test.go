package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

func newRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f := database.NewFetcher(sqlx.NewDb(db, "sqlmock"), nil, database.WithRetries(1), database.WithDelay(0))
	return NewRepo(f), mock
}

func TestInvoiceLinesUnknownInvoice(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(QueryInvoiceLines).WithArgs("INV-404").WillReturnRows(sqlmock.NewRows([]string{
		"total", "custid", "datein", "product_description", "productno", "saleprice", "quantity", "invoiceno", "product_barcode"}))

	rows, err := r.InvoiceLines(context.Background(), "INV-404")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceLines(t *testing.T) {
	r, mock := newRepo(t)
	when := time.Date(2023, 4, 2, 11, 0, 0, 0, time.UTC)
	mock.ExpectQuery(QueryInvoiceLines).WithArgs("5512").WillReturnRows(sqlmock.NewRows([]string{
		"total", "custid", "datein", "product_description", "productno", "saleprice", "quantity", "invoiceno", "product_barcode"}).
		AddRow("390.00", nil, when, "SUGAR 1KG", "1001", "195.00", "2", "5512", "6161100000011"))

	rows, err := r.InvoiceLines(context.Background(), "5512")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "390", rows[0].Total.String())
	require.Nil(t, rows[0].CustID)
	require.Equal(t, "6161100000011", *rows[0].ProductBarcode)
}

func TestPaymentSeriesIsUntyped(t *testing.T) {
	r, mock := newRepo(t)
	when := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(QueryPaymentSeries).WillReturnRows(sqlmock.NewRows([]string{"datein", "amount", "customer_id"}).
		AddRow(when, []byte("100.00"), int64(7)))

	tbl, err := r.PaymentSeries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"datein", "amount", "customer_id"}, tbl.Columns)
	require.Equal(t, "100.00", tbl.Rows[0]["amount"])
	require.Equal(t, when, tbl.Rows[0]["datein"])
}

func TestPaymentsInRangeBindsBounds(t *testing.T) {
	r, mock := newRepo(t)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 31, 23, 59, 59, 0, time.UTC)
	mock.ExpectQuery(QueryPaymentsInRange).WithArgs(start, end).WillReturnRows(sqlmock.NewRows([]string{
		"paymentid", "amount", "datein", "invoiceno", "phone", "customer_name", "custid", "paymenttype"}).
		AddRow("1", "50.00", start, "77", "0700", "Jane", "7", "CASH"))

	rows, err := r.PaymentsInRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Jane", rows[0].CustomerName)
	require.Equal(t, "CASH", *rows[0].PaymentType)
	require.NoError(t, mock.ExpectationsWereMet())
}
