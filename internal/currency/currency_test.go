package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExchangeRate_Live(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"UYU":40.5,"EUR":0.9}}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, 40.0)
	rate := svc.GetExchangeRate(context.Background(), "USD", "UYU")

	assert.Equal(t, 40.5, rate.Ratio)
	assert.InDelta(t, 1/40.5, rate.InvRatio, 1e-9)
	assert.Equal(t, "USD", rate.From)
	assert.Equal(t, "UYU", rate.To)
}

func TestGetExchangeRate_CrossRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{"UYU":40.0,"EUR":0.8}}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, 40.0)
	rate := svc.GetExchangeRate(context.Background(), "EUR", "UYU")

	assert.Equal(t, 50.0, rate.Ratio)
}

func TestGetExchangeRate_FallbackOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	svc := NewService(server.URL, 41.5)
	rate := svc.GetExchangeRate(context.Background(), "USD", "UYU")

	assert.Equal(t, 41.5, rate.Ratio)
}

func TestGetExchangeRate_FallbackOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewService(server.URL, 40.0)
	rate := svc.GetExchangeRate(context.Background(), "USD", "UYU")

	assert.Equal(t, 40.0, rate.Ratio)
}

func TestGetExchangeRate_FallbackOnMissingCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9}}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, 40.0)
	rate := svc.GetExchangeRate(context.Background(), "USD", "UYU")

	assert.Equal(t, 40.0, rate.Ratio)
}

func TestGetExchangeRate_AlwaysPositive(t *testing.T) {
	svc := NewService("", 40.0)
	rate := svc.GetExchangeRate(context.Background(), "USD", "UYU")
	require.Greater(t, rate.Ratio, 0.0)
}

func TestConvertUSDToUYU_Monotonic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{"UYU":40.0}}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, 40.0)
	ctx := context.Background()

	prev := -1.0
	for _, amount := range []float64{0, 1, 9.99, 100, 250.5, 1000} {
		got := svc.ConvertUSDToUYU(ctx, amount)
		assert.GreaterOrEqual(t, got, prev, "amount %v", amount)
		assert.Equal(t, Round2(amount*40.0), got)
		prev = got
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 3996.0, Round2(99.9*40))
}
