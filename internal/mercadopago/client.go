package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agencia_backend/pkg/apperrors"
)

// Provider is the single gateway to the payment provider. Handlers and the
// webhook service only talk to this interface, so reconciliation can be
// tested against a fake instead of live HTTP.
type Provider interface {
	GetPreapproval(ctx context.Context, id string) (*Preapproval, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
	SearchPaymentsByPreapproval(ctx context.Context, preapprovalID string) (*PaymentSearchResult, error)
	CreatePreapprovalPlan(ctx context.Context, req *CreatePlanRequest) (*Preapproval, error)
	CreatePreapproval(ctx context.Context, req *CreatePreapprovalRequest) (*Preapproval, error)
}

// Client talks to the MercadoPago REST API with a server-side access token.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

const requestTimeout = 10 * time.Second

func NewClient(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) GetPreapproval(ctx context.Context, id string) (*Preapproval, error) {
	var out Preapproval
	if err := c.do(ctx, http.MethodGet, "/preapproval/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchPaymentsByPreapproval(ctx context.Context, preapprovalID string) (*PaymentSearchResult, error) {
	q := url.Values{}
	q.Set("preapproval_id", preapprovalID)
	q.Set("sort", "date_created")
	q.Set("criteria", "desc")

	var out PaymentSearchResult
	if err := c.do(ctx, http.MethodGet, "/v1/payments/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePreapprovalPlan(ctx context.Context, req *CreatePlanRequest) (*Preapproval, error) {
	var out Preapproval
	if err := c.do(ctx, http.MethodPost, "/preapproval_plan", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePreapproval(ctx context.Context, req *CreatePreapprovalRequest) (*Preapproval, error) {
	var out Preapproval
	if err := c.do(ctx, http.MethodPost, "/preapproval", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeProviderError, "Payment provider unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	// Error bodies are capped; the provider can return verbose HTML on 5xx.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeProviderError, "Failed to read provider response", http.StatusBadGateway)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.ProviderError(resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.Wrap(err, apperrors.CodeProviderError, "Malformed provider response", http.StatusBadGateway)
		}
	}
	return nil
}

// PaymentIDString formats a numeric payment id the way webhook payloads carry it.
func PaymentIDString(id int64) string {
	return strconv.FormatInt(id, 10)
}
