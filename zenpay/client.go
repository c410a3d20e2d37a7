// Package zenpay is the payment gateway client. Outbound checkout-session
// requests are signed with an HMAC over the raw JSON body; redirect
// parameters use the sorted query-string scheme. The two schemes are kept
// strictly separate from the carrier's message scheme.
package zenpay

import (
	"encoding/json"
	"errors"
	"fmt"
	"gateway/config"
	"gateway/logging"
	"gateway/signing"
	"net"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var ErrMissingSecret = errors.New("gateway secret not configured")

// APIError is a gateway rejection with the raw response surfaced verbatim.
type APIError struct {
	Status int
	Body   json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway rejected request: status %d: %s", e.Status, string(e.Body))
}

type Client struct {
	billerCode  string
	secret      string
	baseURL     string
	callbackURL string
	returnURL   string
	declineURL  string
	currency    string

	http           *fasthttp.Client
	requestTimeout time.Duration
}

// LoadSecret reads the mounted gateway secret file.
func LoadSecret(cfg *config.ZenPayConfig) (string, error) {
	data, err := os.ReadFile(cfg.SecretFile)
	if err != nil {
		return "", fmt.Errorf("read gateway secret: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

func NewClient(cfg *config.ZenPayConfig, secret string) (*Client, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	connectTimeout := cfg.ConnectTimeout

	return &Client{
		billerCode:  cfg.BillerCode,
		secret:      secret,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		callbackURL: cfg.CallbackURL,
		returnURL:   cfg.ReturnURL,
		declineURL:  cfg.DeclineURL,
		currency:    cfg.Currency,
		http: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return fasthttp.DialTimeout(addr, connectTimeout)
			},
		},
		requestTimeout: cfg.RequestTimeout,
	}, nil
}

type checkoutRequest struct {
	BillerCode  string `json:"biller_code"`
	OrderID     string `json:"order_id"`
	Email       string `json:"email"`
	Amount      string `json:"amount"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
	DeclineURL  string `json:"decline_url"`
	Currency    string `json:"currency"`
	Timestamp   string `json:"timestamp"`
}

type CheckoutSession struct {
	OrderID string
	Raw     json.RawMessage
}

// CreateCheckoutSession opens a hosted checkout for the given amount. The
// signature covers the exact JSON bytes sent, so the body is marshaled
// once and reused.
func (c *Client) CreateCheckoutSession(amount float64, email string) (*CheckoutSession, error) {
	orderID := fmt.Sprintf("ORDER%d", time.Now().Unix())

	body, err := json.Marshal(checkoutRequest{
		BillerCode:  c.billerCode,
		OrderID:     orderID,
		Email:       email,
		Amount:      fmt.Sprintf("%.2f", amount),
		CallbackURL: c.callbackURL,
		ReturnURL:   c.returnURL,
		DeclineURL:  c.declineURL,
		Currency:    c.currency,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	signature := signing.SignRaw(c.secret, body)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + "/checkout-sessions")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature)
	req.SetBody(body)

	zap.L().Info("gateway checkout request",
		zap.String("order_id", orderID),
		zap.String("email", email),
		zap.String("signature", logging.HashPrefix(signature)))

	if err := c.http.DoTimeout(req, resp, c.requestTimeout); err != nil {
		return nil, fmt.Errorf("gateway checkout request: %w", err)
	}

	status := resp.StatusCode()
	respBody := append([]byte(nil), resp.Body()...)

	zap.L().Info("gateway checkout response",
		zap.Int("status", status),
		zap.ByteString("body", respBody))

	if status < 200 || status > 299 {
		return nil, &APIError{Status: status, Body: respBody}
	}

	return &CheckoutSession{OrderID: orderID, Raw: respBody}, nil
}

// VerifyWebhook checks the X-Signature of an inbound gateway callback
// against the raw body, in constant time.
func (c *Client) VerifyWebhook(rawBody []byte, receivedSignature string) bool {
	expected := signing.SignRaw(c.secret, rawBody)
	if signing.Verify(expected, receivedSignature) {
		return true
	}

	zap.L().Warn("gateway webhook signature mismatch",
		zap.String("computed", logging.HashPrefix(expected)),
		zap.String("received", logging.HashPrefix(receivedSignature)))

	return false
}

// VerifyReturnParams checks the signature on redirect query parameters
// using the sorted query-string scheme.
func (c *Client) VerifyReturnParams(params map[string]string, receivedSignature string) bool {
	expected := signing.SignQuery(c.secret, params)
	if signing.Verify(expected, receivedSignature) {
		return true
	}

	zap.L().Warn("gateway return signature mismatch",
		zap.String("computed", logging.HashPrefix(expected)),
		zap.String("received", logging.HashPrefix(receivedSignature)))

	return false
}
