package zenpay

import (
	"encoding/json"
	"errors"
	"gateway/config"
	"gateway/signing"
	"net"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := config.NewZenPayConfig()
	cfg.BaseURL = baseURL
	cfg.BillerCode = "BILLER01"
	cfg.CallbackURL = "https://example.test/webhook/zenpay"
	cfg.ReturnURL = "https://example.test/payment/return"
	cfg.DeclineURL = "https://example.test/payment/decline"
	cfg.ConnectTimeout = 5 * time.Second
	cfg.RequestTimeout = 5 * time.Second

	client, err := NewClient(cfg, "zp_test_secret")
	if err != nil {
		t.Fatal(err)
	}

	return client
}

func TestNewClientRequiresSecret(t *testing.T) {
	if _, err := NewClient(config.NewZenPayConfig(), ""); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("err = %v, want ErrMissingSecret", err)
	}
}

func TestCreateCheckoutSessionSignsExactBody(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var (
		receivedBody []byte
		receivedSig  string
	)
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		receivedBody = append([]byte(nil), ctx.Request.Body()...)
		receivedSig = string(ctx.Request.Header.Peek("X-Signature"))
		ctx.SetBodyString(`{"checkout_url":"https://pay.example.test/s/abc"}`)
	}}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Shutdown() })

	client := testClient(t, "http://"+ln.Addr().String())

	session, err := client.CreateCheckoutSession(25.5, "diner@example.test")
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.OrderID == "" {
		t.Fatal("session missing order id")
	}

	// The signature must cover the exact bytes that went over the wire.
	if expected := signing.SignRaw("zp_test_secret", receivedBody); receivedSig != expected {
		t.Fatalf("signature = %q, want %q", receivedSig, expected)
	}

	var sent map[string]string
	if err := json.Unmarshal(receivedBody, &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if sent["amount"] != "25.50" {
		t.Fatalf("amount = %q, want 25.50", sent["amount"])
	}
	if sent["biller_code"] != "BILLER01" || sent["currency"] != "MYR" {
		t.Fatalf("unexpected checkout fields: %v", sent)
	}
	if sent["email"] != "diner@example.test" {
		t.Fatalf("email = %q", sent["email"])
	}
}

func TestCreateCheckoutSessionRejection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusPaymentRequired)
		ctx.SetBodyString(`{"error":"biller suspended"}`)
	}}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Shutdown() })

	client := testClient(t, "http://"+ln.Addr().String())

	_, err = client.CreateCheckoutSession(10, "diner@example.test")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != fasthttp.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", apiErr.Status)
	}
}

func TestVerifyWebhook(t *testing.T) {
	client := testClient(t, "http://unused")

	body := []byte(`{"order_id":"ORDER123","status":"success","payref_id":"PR-1"}`)
	good := signing.SignRaw("zp_test_secret", body)

	if !client.VerifyWebhook(body, good) {
		t.Fatal("valid signature rejected")
	}
	if client.VerifyWebhook(body, signing.SignRaw("wrong_secret", body)) {
		t.Fatal("wrong-secret signature accepted")
	}
	if client.VerifyWebhook(append(body, ' '), good) {
		t.Fatal("mutated body accepted")
	}
	if client.VerifyWebhook(body, "") {
		t.Fatal("empty signature accepted")
	}
}

func TestVerifyReturnParams(t *testing.T) {
	client := testClient(t, "http://unused")

	params := map[string]string{
		"order_id": "ORDER123",
		"status":   "success",
		"amount":   "25.50",
	}
	good := signing.SignQuery("zp_test_secret", params)

	if !client.VerifyReturnParams(params, good) {
		t.Fatal("valid signature rejected")
	}

	params["status"] = "failed"
	if client.VerifyReturnParams(params, good) {
		t.Fatal("tampered params accepted")
	}
}
