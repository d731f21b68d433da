package repo

import (
	"context"
	"errors"
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
	f := database.NewFetcher(sqlx.NewDb(db, "sqlmock"), nil, database.WithRetries(2), database.WithDelay(0))
	return NewRepo(f), mock
}

func TestCreditAccountFavorites(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(QueryCreditAccountFavorites).WillReturnRows(
		sqlmock.NewRows([]string{"custid", "cname", "phone", "description", "purchase_count", "productno"}).
			AddRow("17", "DUKA LTD", nil, "RICE 2KG", int64(40), "2001").
			AddRow("18", "MAMA MBOGA", "0722", "OIL 1L", int64(12), "3007"))

	rows, err := r.CreditAccountFavorites(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Nil(t, rows[0].Phone)
	require.Equal(t, "0722", *rows[1].Phone)
	require.Equal(t, "2001", rows[0].ProductNo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyCustomerFavoritesScansNullableProfile(t *testing.T) {
	r, mock := newRepo(t)
	cols := []string{"phone", "productno", "most_purchased_item", "purchase_count", "customer_name",
		"address", "email", "creditlimit", "balance", "loyaltypoints", "loyalty_number", "autodiscount"}
	mock.ExpectQuery(QueryDailyCustomerFavorites).WillReturnRows(sqlmock.NewRows(cols).
		AddRow("0700", "1001", "MILK", int64(8), "Jane", nil, nil, "5000.00", nil, "12", "L-9", nil))

	rows, err := r.DailyCustomerFavorites(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].CreditLimit.Valid)
	require.Equal(t, "5000", rows[0].CreditLimit.Decimal.String())
	require.False(t, rows[0].Balance.Valid)
	require.Nil(t, rows[0].Address)
	require.Equal(t, "L-9", *rows[0].LoyaltyNumber)
}

func TestActivityQueriesShareColumns(t *testing.T) {
	r, mock := newRepo(t)
	cols := []string{"phone", "customer_name", "total_purchases", "first_purchase_date", "last_purchase_date",
		"total_spent", "most_purchased_item", "most_purchased_item_count"}
	first := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(QueryLongestTenuredCustomers).WillReturnRows(sqlmock.NewRows(cols).
		AddRow("0700", "Jane", int64(30), first, last, "1200.50", "MILK", int64(9)))
	mock.ExpectQuery(QueryHighestActivityCustomers).WillReturnRows(sqlmock.NewRows(cols).
		AddRow("0711", "", int64(3), first, first, nil, nil, nil))

	tenured, err := r.LongestTenuredCustomers(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, tenured[0].FirstPurchaseDate)
	require.Equal(t, "1200.5", tenured[0].TotalSpent.Decimal.String())

	active, err := r.HighestActivityCustomers(context.Background())
	require.NoError(t, err)
	require.False(t, active[0].TotalSpent.Valid)
	require.Nil(t, active[0].MostPurchasedItem)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRarelyPurchasedEmpty(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(QueryRarelyPurchased).
		WillReturnRows(sqlmock.NewRows([]string{"productno", "description", "purchase_count"}))

	rows, err := r.RarelyPurchased(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestLeastPurchasedExhausted(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(QueryLeastPurchased).WillReturnError(errors.New("timeout"))
	mock.ExpectQuery(QueryLeastPurchased).WillReturnError(errors.New("timeout"))

	_, err := r.LeastPurchased(context.Background())
	require.ErrorIs(t, err, database.ErrRetriesExhausted)
}

func TestCatalogMargin(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(QueryCatalog).WillReturnRows(
		sqlmock.NewRows([]string{"productno", "description", "saleprice", "buyprice", "purchase_count"}).
			AddRow("1001", "SUGAR 1KG", "195.00", "170.50", int64(55)))

	rows, err := r.Catalog(context.Background())
	require.NoError(t, err)
	require.Equal(t, "24.5", rows[0].Margin().String())
}

func TestQueryShapes(t *testing.T) {
	require.Contains(t, QueryRarelyPurchased, "purchase_count < 20")
	require.Contains(t, QueryLeastPurchased, "LIMIT 100")
	require.Contains(t, QueryCreditAccountFavorites, "PARTITION BY ap.custid ORDER BY ap.purchase_count DESC, ap.productno ASC")
	require.Contains(t, QueryCreditAccountFavorites, "ORDER BY ranked.custid")
	require.Contains(t, QueryCreditAccountFavorites, "SELECT custid::text AS custid")
	require.NotContains(t, QueryCreditAccountFavorites, "c.custid::text")
	require.Contains(t, QueryDailyCustomerFavorites, "phone IS NOT NULL AND phone <> ''")
	require.Contains(t, QueryLongestTenuredCustomers, "ORDER BY pa.first_purchase_date ASC")
	require.Contains(t, QueryHighestActivityCustomers, "ORDER BY pa.total_purchases DESC")
}

func TestCustomerNamesNeverScanNull(t *testing.T) {
	for _, q := range []string{QueryDailyCustomerFavorites, QueryHighestActivityCustomers, QueryLongestTenuredCustomers} {
		require.Contains(t, q, "COALESCE(MAX(c.cname), '') AS customer_name")
		require.NotContains(t, q, " MAX(c.cname) AS")
	}

	r, mock := newRepo(t)
	cols := []string{"phone", "productno", "most_purchased_item", "purchase_count", "customer_name",
		"address", "email", "creditlimit", "balance", "loyaltypoints", "loyalty_number", "autodiscount"}
	mock.ExpectQuery(QueryDailyCustomerFavorites).WillReturnRows(sqlmock.NewRows(cols).
		AddRow("0700", "1001", "MILK", int64(8), "", nil, nil, nil, nil, nil, nil, nil))

	rows, err := r.DailyCustomerFavorites(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows[0].CustomerName)
}
