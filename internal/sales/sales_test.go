package sales

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) (*Service, *cache.Memo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f := database.NewFetcher(sqlx.NewDb(db, "sqlmock"), nil, database.WithRetries(1), database.WithDelay(0))
	memo := cache.New(cache.Config{Size: 16, TTL: time.Minute})
	return NewService(repo.NewRepo(f), memo), memo, mock
}

func newMux(svc *Service) *http.ServeMux {
	h := NewHandler(svc, zap.NewNop().Sugar())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sales/trends", h.Trends)
	mux.HandleFunc("GET /sales/payments", h.Payments)
	mux.HandleFunc("GET /sales/invoices/{invoiceno}", h.Invoice)
	return mux
}

func expectPayments(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(repo.QueryPaymentSeries).WillReturnRows(sqlmock.NewRows([]string{"datein", "amount", "customer_id"}).
		AddRow(day(2018, 5, 1), "999", "7").
		AddRow(day(2023, 1, 5), "100", "7").
		AddRow(day(2023, 1, 20), "50", "8").
		AddRow(day(2023, 2, 1), "30", "7"))
}

func TestTrendsExcludesCustomersByName(t *testing.T) {
	svc, _, mock := newService(t)
	expectPayments(mock)
	mock.ExpectQuery(repo.QueryCustomers).WillReturnRows(sqlmock.NewRows([]string{"customer_id", "cname"}).
		AddRow("8", "ACME").AddRow("7", "Jane"))

	out, err := svc.Trends(t.Context(), TrendQuery{Start: DefaultStart, End: day(2023, 12, 31), Exclude: []string{"ACME"}})
	require.NoError(t, err)
	require.True(t, out.Processed)
	require.Len(t, out.Monthly, 2)
	require.Equal(t, "100", out.Monthly[0].Amount.String())
	require.Equal(t, "30", out.Monthly[1].Amount.String())
	require.Len(t, out.Rolling, 2)
	require.True(t, out.Rolling[1].RollingAvg.IsAbsent())
	require.Len(t, out.Daily, 28)
	require.Nil(t, out.Rows)
}

func TestTrendsWithoutExclusionSkipsCustomerLookup(t *testing.T) {
	svc, _, mock := newService(t)
	expectPayments(mock)

	out, err := svc.Trends(t.Context(), TrendQuery{Start: day(2023, 1, 1), End: day(2023, 1, 31)})
	require.NoError(t, err)
	require.Len(t, out.Monthly, 1)
	require.Equal(t, "150", out.Monthly[0].Amount.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendsPassthroughClearsMemo(t *testing.T) {
	svc, memo, mock := newService(t)
	mock.ExpectQuery(repo.QueryCustomers).WillReturnRows(sqlmock.NewRows([]string{"customer_id", "cname"}).AddRow("7", "Jane"))
	mock.ExpectQuery(repo.QueryPaymentSeries).WillReturnRows(sqlmock.NewRows([]string{"amount", "customer_id"}).
		AddRow("10", "7").AddRow("20", "7"))

	_, err := svc.Customers(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, memo.Len())

	out, err := svc.Trends(t.Context(), TrendQuery{Start: DefaultStart, End: day(2023, 1, 1)})
	require.NoError(t, err)
	require.False(t, out.Processed)
	require.Equal(t, 2, out.Rows.Len())
	require.Equal(t, []string{"amount", "customer_id"}, out.Rows.Columns)
	require.Zero(t, memo.Len())
}

func TestTrendsHandlerRejectsBadRange(t *testing.T) {
	svc, _, _ := newService(t)
	mux := newMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/trends?start=01-02-2023", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/trends?start=2023-02-01&end=2023-01-01", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendsHandler(t *testing.T) {
	svc, _, mock := newService(t)
	expectPayments(mock)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/trends?start=2023-01-01&end=2023-03-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Processed bool `json:"processed"`
		Rolling   []struct {
			Amount     string  `json:"amount"`
			RollingAvg *string `json:"rolling_avg"`
		} `json:"rolling"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Processed)
	require.Len(t, out.Rolling, 2)
	require.Equal(t, "150", out.Rolling[0].Amount)
	require.Nil(t, out.Rolling[0].RollingAvg)
}

func TestPaymentsHandlerCoversWholeEndDay(t *testing.T) {
	svc, _, mock := newService(t)
	end := day(2023, 1, 31).Add(24*time.Hour - time.Microsecond)
	mock.ExpectQuery(repo.QueryPaymentsInRange).WithArgs(day(2023, 1, 1), end).WillReturnRows(sqlmock.NewRows([]string{
		"paymentid", "amount", "datein", "invoiceno", "phone", "customer_name", "custid", "paymenttype"}))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/payments?start=2023-01-01&end=2023-01-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceUnknownReturnsEmpty(t *testing.T) {
	svc, _, mock := newService(t)
	mock.ExpectQuery(repo.QueryInvoiceLines).WithArgs("404").WillReturnRows(sqlmock.NewRows([]string{
		"total", "custid", "datein", "product_description", "productno", "saleprice", "quantity", "invoiceno", "product_barcode"}))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/invoices/404", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}
