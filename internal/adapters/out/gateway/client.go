// Package gateway creates hosted payment links at the payment provider. The
// provider reports outcomes through the payment callback endpoint.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

var _ ports.PaymentGateway = &Client{}

type Client struct {
	baseURL     string
	token       string
	callbackURL string
	client      *http.Client
}

type linkRequest struct {
	Reference   string `json:"reference"`
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	Amount      string `json:"amount"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type linkResponse struct {
	URL string `json:"url"`
}

// NewClient builds a client for the provider at baseURL. callbackURL is a
// template where "{paymentId}" is replaced with the payment reference.
func NewClient(baseURL, token, callbackURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("gateway url")
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: defaultTimeout},
	}, nil
}

// CreatePaymentLink registers the payment with the provider and returns the
// hosted checkout URL. The payment id is used as the provider reference.
func (c *Client) CreatePaymentLink(ctx context.Context, req ports.PaymentLinkRequest) (string, error) {
	reference := req.PaymentID.String()
	payload, err := json.Marshal(linkRequest{
		Reference:   reference,
		OrderID:     req.OrderID.String(),
		CustomerID:  req.CustomerID.String(),
		Amount:      req.Amount.String(),
		CallbackURL: strings.ReplaceAll(c.callbackURL, "{paymentId}", reference),
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment-links", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", errs.NewUpstreamError("payment gateway", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var res linkResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return "", errs.NewUpstreamError("payment gateway", fmt.Errorf("decode response: %w", err))
		}
		if res.URL == "" {
			return "", errs.NewUpstreamError("payment gateway", errors.New("response has no url"))
		}
		return res.URL, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errs.NewUpstreamError("payment gateway",
			fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body)))
	}
}
