package mercadopago

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agencia_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPreapproval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/preapproval/pre-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"id": "pre-1",
			"status": "authorized",
			"reason": "Plan premium",
			"external_reference": "user-42",
			"preapproval_plan_id": "plan-p",
			"auto_recurring": {"frequency": 1, "frequency_type": "months", "transaction_amount": 3990, "currency_id": "UYU"}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL)
	pre, err := client.GetPreapproval(context.Background(), "pre-1")

	require.NoError(t, err)
	assert.Equal(t, "pre-1", pre.ID)
	assert.Equal(t, "authorized", pre.Status)
	assert.Equal(t, "user-42", pre.ExternalReference)
	assert.Equal(t, 1, pre.AutoRecurring.Frequency)
	assert.Equal(t, 3990.0, pre.AutoRecurring.TransactionAmount)
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/12345", r.URL.Path)
		w.Write([]byte(`{"id": 12345, "status": "approved", "preapproval_id": "pre-1"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL)
	payment, err := client.GetPayment(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, int64(12345), payment.ID)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "pre-1", payment.PreapprovalID)
}

func TestSearchPaymentsByPreapproval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/search", r.URL.Path)
		assert.Equal(t, "pre-1", r.URL.Query().Get("preapproval_id"))
		w.Write([]byte(`{"results": [{"id": 1, "status": "approved"}], "paging": {"total": 1}}`))
	}))
	defer server.Close()

	client := NewClient("t", server.URL)
	result, err := client.SearchPaymentsByPreapproval(context.Background(), "pre-1")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1, result.Paging.Total)
}

func TestNon2xxReturnsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid preapproval"}`))
	}))
	defer server.Close()

	client := NewClient("t", server.URL)
	_, err := client.GetPreapproval(context.Background(), "nope")

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeProviderError, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPCode)

	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, details["provider_status"])
	assert.Contains(t, details["provider_body"], "invalid preapproval")
}

func TestTransportErrorWraps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("t", server.URL)
	_, err := client.GetPayment(context.Background(), "1")

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeProviderError, appErr.Code)
}

func TestCreatePreapprovalSendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/preapproval", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"id": "pre-new", "status": "pending", "init_point": "https://checkout"}`))
	}))
	defer server.Close()

	client := NewClient("t", server.URL)
	pre, err := client.CreatePreapproval(context.Background(), &CreatePreapprovalRequest{
		Reason:            "Plan basico",
		ExternalReference: "user-1",
		PayerEmail:        "c@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "pre-new", pre.ID)
	assert.Equal(t, "https://checkout", pre.InitPoint)
}

func TestPaymentIDString(t *testing.T) {
	assert.Equal(t, "12345", PaymentIDString(12345))
}
