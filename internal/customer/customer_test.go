package customer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

var rollupCols = []string{"phone", "customer_name", "total_purchases", "total_payments", "total_paid",
	"first_purchase_date", "last_purchase_date", "most_purchased_item", "most_purchased_item_count", "purchase_duration_days"}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f := database.NewFetcher(sqlx.NewDb(db, "sqlmock"), nil, database.WithRetries(1), database.WithDelay(0))
	return NewService(repo.NewRepo(f), cache.New(cache.Config{Size: 16, TTL: time.Minute})), mock
}

func newMux(svc *Service) *http.ServeMux {
	h := NewHandler(svc, zap.NewNop().Sugar())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", h.List)
	mux.HandleFunc("GET /customers/{phone}", h.Get)
	mux.HandleFunc("GET /customers/{phone}/payments", h.Payments)
	return mux
}

func TestAllCustomersKeepsOneRowPerPhoneAndMemoizes(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery(repo.QueryAllCustomers).WillReturnRows(sqlmock.NewRows(rollupCols).
		AddRow("0700", "Jane", int64(3), int64(2), "90", nil, nil, "TEA", int64(2), nil).
		AddRow("0700", "Jane W", int64(3), int64(2), "90", nil, nil, "TEA", int64(2), nil).
		AddRow("0711", "Ali", int64(1), int64(1), "10", nil, nil, "SALT", int64(1), nil))

	rows, err := svc.AllCustomers(t.Context())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Jane", rows[0].CustomerName)

	// served from memo: no second query expectation registered
	again, err := svc.AllCustomers(t.Context())
	require.NoError(t, err)
	require.Equal(t, rows, again)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnknownPhoneReturnsEmptyList(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery(repo.QueryCustomerByPhone).WithArgs("0799000000").
		WillReturnRows(sqlmock.NewRows([]string{"phone", "total_payments", "total_spent",
			"first_payment_date", "last_payment_date", "payment_duration_days"}))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/0799000000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out []entity.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Empty(t, out)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestGetRejectsOverlongPhone(t *testing.T) {
	svc, _ := newService(t)
	rec := httptest.NewRecorder()
	long := "0700000000000000000000000000000000000"
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/"+long, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentsDataSourceDownIs503(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery(repo.QueryPaymentHistory).WithArgs("0700").WillReturnError(errors.New("no route to host"))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/0700/payments", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListReturnsRollups(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery(repo.QueryAllCustomers).WillReturnRows(sqlmock.NewRows(rollupCols).
		AddRow("0711", "Ali", int64(1), int64(1), "10.50", nil, nil, "SALT", int64(1), nil))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "10.5", out[0]["total_paid"])
	require.Equal(t, "SALT", out[0]["most_purchased_item"])
}
