// Package lalamove is the signed REST client for the delivery carrier.
// Every request is authenticated with a fresh millisecond timestamp and an
// HMAC-SHA256 signature over the canonical request message.
package lalamove

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

var ErrMissingCredentials = errors.New("carrier api key or secret not configured")

// APIError is a carrier rejection: the request reached the carrier and was
// answered with a non-2xx status. The body is surfaced verbatim so callers
// can decide on fallback behavior. Transport failures are ordinary errors,
// never APIError.
type APIError struct {
	Status int
	Body   json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("carrier rejected request: status %d: %s", e.Status, string(e.Body))
}

type Client struct {
	apiKey string
	secret string

	baseURL string
	market  string

	http           *fasthttp.Client
	requestTimeout time.Duration
}

// LoadCredentials reads the mounted api key and secret files.
func LoadCredentials(cfg *config.LalamoveConfig) (string, string, error) {
	apiKey, err := os.ReadFile(cfg.APIKeyFile)
	if err != nil {
		return "", "", fmt.Errorf("read carrier api key: %w", err)
	}

	secret, err := os.ReadFile(cfg.SecretFile)
	if err != nil {
		return "", "", fmt.Errorf("read carrier secret: %w", err)
	}

	return strings.TrimSpace(string(apiKey)), strings.TrimSpace(string(secret)), nil
}

// NewClient builds a carrier client with the given credentials. Secrets are
// injected here once; nothing else in the package reads configuration.
func NewClient(cfg *config.LalamoveConfig, apiKey, secret string) (*Client, error) {
	if apiKey == "" || secret == "" {
		return nil, ErrMissingCredentials
	}

	connectTimeout := cfg.ConnectTimeout

	return &Client{
		apiKey:  apiKey,
		secret:  secret,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		market:  cfg.Market,
		http: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return fasthttp.DialTimeout(addr, connectTimeout)
			},
		},
		requestTimeout: cfg.RequestTimeout,
	}, nil
}

// do signs and sends one request. The path (not the full URL) participates
// in the signature. On 2xx the carrier's "data" envelope is returned; on
// non-2xx an *APIError carries the status and raw body.
func (c *Client) do(method, path string, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(envelope{Data: payload})
		if err != nil {
			return nil, fmt.Errorf("marshal carrier request: %w", err)
		}
	}

	timestamp := signing.NowMillis()
	signature := signing.SignMessage(c.secret, method, path, body, timestamp)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set("Authorization", fmt.Sprintf("hmac %s:%s:%s", c.apiKey, timestamp, signature))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.market != "" {
		req.Header.Set("Market", c.market)
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	zap.L().Info("carrier api request",
		zap.String("method", method),
		zap.String("url", c.baseURL+path),
		zap.String("api_key", logging.RedactToken(c.apiKey)),
		zap.String("signature", logging.HashPrefix(signature)),
		zap.ByteString("body", body))

	if err := c.http.DoTimeout(req, resp, c.requestTimeout); err != nil {
		return nil, fmt.Errorf("carrier request %s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	respBody := append([]byte(nil), resp.Body()...)

	zap.L().Info("carrier api response",
		zap.Int("status", status),
		zap.ByteString("body", respBody))

	if status < 200 || status > 299 {
		return nil, &APIError{Status: status, Body: errorBody(respBody)}
	}

	var parsed envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, fmt.Errorf("decode carrier response: %w", err)
		}
	}

	if raw, ok := parsed.Data.(json.RawMessage); ok {
		return raw, nil
	}

	return respBody, nil
}

// errorBody keeps parsed JSON error bodies as-is and wraps raw text so the
// result is always valid JSON.
func errorBody(body []byte) json.RawMessage {
	if json.Valid(body) && len(body) > 0 {
		return body
	}

	wrapped, _ := json.Marshal(string(body))
	return wrapped
}

type envelope struct {
	Data any `json:"data,omitempty"`
}

func (e *envelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Data != nil {
		e.Data = raw.Data
	}
	return nil
}

// Quotation requests a priced route for the given stops.
func (c *Client) Quotation(req *QuotationPayload) (*Quotation, error) {
	raw, err := c.do(fasthttp.MethodPost, "/v3/quotations", req)
	if err != nil {
		return nil, err
	}

	var quotation Quotation
	if err := json.Unmarshal(raw, &quotation); err != nil {
		return nil, fmt.Errorf("decode quotation: %w", err)
	}

	return &quotation, nil
}

// QuotationDetails fetches a quotation by id. This is the only call that
// returns per-stop stopIds, which order creation requires.
func (c *Client) QuotationDetails(quotationID string) (*Quotation, error) {
	raw, err := c.do(fasthttp.MethodGet, "/v3/quotations/"+quotationID, nil)
	if err != nil {
		return nil, err
	}

	var quotation Quotation
	if err := json.Unmarshal(raw, &quotation); err != nil {
		return nil, fmt.Errorf("decode quotation details: %w", err)
	}

	return &quotation, nil
}

// CreateOrder commits a quotation to a delivery order.
func (c *Client) CreateOrder(req *OrderPayload) (*Order, error) {
	raw, err := c.do(fasthttp.MethodPost, "/v3/orders", req)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	return &order, nil
}

// Order fetches carrier-side order details.
func (c *Client) Order(orderID string) (*Order, error) {
	raw, err := c.do(fasthttp.MethodGet, "/v3/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	return &order, nil
}

// CancelOrder cancels a carrier order.
func (c *Client) CancelOrder(orderID string) error {
	_, err := c.do(fasthttp.MethodDelete, "/v3/orders/"+orderID+"/cancel", nil)
	return err
}

// AddPriorityFee tips the driver on an ongoing order.
func (c *Client) AddPriorityFee(orderID, amount string) error {
	_, err := c.do(fasthttp.MethodPost, "/v3/orders/"+orderID+"/priority-fee", &PriorityFeePayload{PriorityFee: amount})
	return err
}

// EditOrder updates stops on an ongoing order.
func (c *Client) EditOrder(orderID string, req *OrderEditPayload) error {
	_, err := c.do(fasthttp.MethodPatch, "/v3/orders/"+orderID, req)
	return err
}

// UpdateWebhook registers the account-level webhook URL.
func (c *Client) UpdateWebhook(url string) error {
	_, err := c.do(fasthttp.MethodPatch, "/v3/webhook", &WebhookPayload{URL: url})
	return err
}
