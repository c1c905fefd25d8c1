package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCustomer(t *testing.T, s *testServer, body map[string]any) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/customers", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(decode[map[string]any](t, w)["id"].(float64))
}

func TestCustomerWithoutLedgerListsEmptyArrays(t *testing.T) {
	s := newTestServer(t, nil)
	id := createCustomer(t, s, map[string]any{"name": "Walk-in"})

	w := s.do(t, http.MethodGet, "/api/customers/full", nil)
	require.Equal(t, http.StatusOK, w.Code)
	full := decode[[]map[string]any](t, w)
	require.Len(t, full, 1)
	assert.Equal(t, []any{}, full[0]["invoices"])
	assert.Equal(t, []any{}, full[0]["payments"])

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	one := decode[map[string]any](t, w)
	assert.Equal(t, []any{}, one["invoices"])
	assert.Equal(t, []any{}, one["payments"])
}

func TestCustomerLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	id := createCustomer(t, s, map[string]any{"name": "Abu Fahad", "phone": "0555", "openingBalance": 100})

	w := s.do(t, http.MethodPut, fmt.Sprintf("/api/customers/%d", id), map[string]any{"name": "Abu Fahad", "openingBalance": 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/customers/full", nil)
	require.Equal(t, http.StatusOK, w.Code)
	full := decode[[]map[string]any](t, w)
	require.Len(t, full, 1)
	assert.EqualValues(t, 200, full[0]["invoicesTotal"])
	assert.EqualValues(t, 200, full[0]["remaining"])
	assert.Len(t, full[0]["invoices"], 2)
	assert.Equal(t, "active", full[0]["status"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot delete while balance remains")

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/payments", id), map[string]any{"amount": 200, "method": "كاش", "note": "settled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pay := decode[map[string]any](t, w)
	assert.Equal(t, true, pay["success"])
	assert.EqualValues(t, id, pay["customerId"])
	assert.Equal(t, "cash", pay["method"])
	assert.EqualValues(t, 200, pay["amount"])
	assert.NotEmpty(t, pay["paymentDate"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerValidation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/customers", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/customers", map[string]any{"name": "x", "status": "gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPut, "/api/customers/404", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerStatus(t *testing.T) {
	s := newTestServer(t, nil)
	id := createCustomer(t, s, map[string]any{"name": "x"})

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/status?status=suspended_temp", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, fmt.Sprintf(`{"success":true,"id":%d,"status":"suspended_temp"}`, id), w.Body.String())

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/status", id), map[string]any{"status": "suspended_perm"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "suspended_perm")

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/status", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"active"`)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/status?status=vip", id), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/customers/999/status?status=active", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerChargesAndPayments(t *testing.T) {
	s := newTestServer(t, nil)
	id := createCustomer(t, s, map[string]any{"name": "x"})

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/invoices", id), map[string]any{"amount": 35})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/invoices", id), map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/customers/999/invoices", map[string]any{"amount": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/payments", id), map[string]any{"amount": 10, "date": "2025-06-01T08:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	payID := uint(decode[map[string]any](t, w)["id"].(float64))

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/customer-payments/%d", payID), map[string]any{"amount": 15, "method": "card"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[map[string]any](t, w)
	assert.EqualValues(t, 15, edited["amount"])
	assert.Equal(t, "card", edited["method"])
	assert.Equal(t, "2025-06-01T08:00:00Z", edited["paymentDate"], "date kept when omitted")

	for name, body := range map[string]any{
		"missing body": nil,
		"bad json":     `{"amount":`,
		"zero amount":  map[string]any{"amount": 0},
		"bad method":   map[string]any{"amount": 1, "method": "cheque"},
	} {
		t.Run(name, func(t *testing.T) {
			w := s.do(t, http.MethodPut, fmt.Sprintf("/api/customer-payments/%d", payID), body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	w = s.do(t, http.MethodPut, "/api/customer-payments/9999", map[string]any{"amount": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodPost, "/api/customers/9999/payments", map[string]any{"amount": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 20, decode[map[string]any](t, w)["remaining"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/customer-payments/%d", payID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/customer-payments/%d", payID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
