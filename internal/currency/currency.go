package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"agencia_backend/internal/logger"
)

// Rate is the result of an exchange-rate lookup.
type Rate struct {
	Ratio    float64 `json:"ratio"`
	InvRatio float64 `json:"inv_ratio"`
	From     string  `json:"from"`
	To       string  `json:"to"`
}

// Service resolves exchange rates from a public rate API, falling back to a
// configured constant when the API fails. Lookups never return an error:
// pricing pages must render even when the rate feed is down.
type Service struct {
	apiURL       string
	fallbackRate float64 // USD->UYU
	httpClient   *http.Client
}

const lookupTimeout = 5 * time.Second

func NewService(apiURL string, fallbackRate float64) *Service {
	if fallbackRate <= 0 {
		fallbackRate = 40.0
	}
	return &Service{
		apiURL:       apiURL,
		fallbackRate: fallbackRate,
		httpClient:   &http.Client{Timeout: lookupTimeout},
	}
}

// rateResponse matches the exchangerate-api "latest" payload.
type rateResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// GetExchangeRate returns the live ratio for from->to, or the fallback when
// the API call fails in any way (transport, status, missing currency key).
func (s *Service) GetExchangeRate(ctx context.Context, from, to string) Rate {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	ratio, err := s.fetchRatio(ctx, from, to)
	if err != nil {
		logger.Warn("exchange rate lookup failed, using fallback",
			"from", from, "to", to, "fallback", s.fallbackRate, "error", err.Error())
		ratio = s.fallbackRate
	}

	return Rate{
		Ratio:    ratio,
		InvRatio: 1 / ratio,
		From:     from,
		To:       to,
	}
}

func (s *Service) fetchRatio(ctx context.Context, from, to string) (float64, error) {
	if s.apiURL == "" {
		return 0, fmt.Errorf("rate API not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}

	var data rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}

	fromRate, ok := data.Rates[from]
	if !ok {
		// The feed is USD-based; USD itself is not in the table.
		if from == data.Base || from == "USD" {
			fromRate = 1
		} else {
			return 0, fmt.Errorf("currency %s missing from rate table", from)
		}
	}
	toRate, ok := data.Rates[to]
	if !ok {
		return 0, fmt.Errorf("currency %s missing from rate table", to)
	}
	if fromRate == 0 {
		return 0, fmt.Errorf("zero rate for %s", from)
	}

	return toRate / fromRate, nil
}

// ConvertUSDToUYU converts an amount using the current USD->UYU ratio,
// rounded to 2 decimals.
func (s *Service) ConvertUSDToUYU(ctx context.Context, amount float64) float64 {
	rate := s.GetExchangeRate(ctx, "USD", "UYU")
	return Round2(amount * rate.Ratio)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
