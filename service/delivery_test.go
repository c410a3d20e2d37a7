package service

import (
	"encoding/json"
	"errors"
	"gateway/config"
	"gateway/lalamove"
	"gateway/signing"
	"gateway/types"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	stubAPIKey = "pk_test_key"
	stubSecret = "sk_test_secret"
)

// stubCarrier records every request and replays the quotation -> details ->
// order flow, rejecting anything with a bad signature.
type stubCarrier struct {
	t *testing.T

	quotationBody []byte
	orderBody     []byte
}

func (sc *stubCarrier) handler(ctx *fasthttp.RequestCtx) {
	method := string(ctx.Method())
	path := string(ctx.Path())

	if !sc.checkSignature(ctx, method, path) {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.SetBodyString(`{"message":"INVALID_SIGNATURE"}`)
		return
	}

	switch {
	case method == fasthttp.MethodPost && path == "/v3/quotations":
		sc.quotationBody = append([]byte(nil), ctx.Request.Body()...)
		ctx.SetBodyString(`{"data":{"quotationId":"q-100","priceBreakdown":{"currency":"MYR","total":"12.30"}}}`)
	case method == fasthttp.MethodGet && path == "/v3/quotations/q-100":
		ctx.SetBodyString(`{"data":{"quotationId":"q-100","stops":[{"stopId":"stop-a","address":"pickup"},{"stopId":"stop-b","address":"dropoff"}],"priceBreakdown":{"currency":"MYR","total":"12.30"}}}`)
	case method == fasthttp.MethodPost && path == "/v3/orders":
		sc.orderBody = append([]byte(nil), ctx.Request.Body()...)
		ctx.SetBodyString(`{"data":{"orderId":"LL-100","quotationId":"q-100","status":"ASSIGNING_DRIVER"}}`)
	default:
		sc.t.Errorf("unexpected carrier request: %s %s", method, path)
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (sc *stubCarrier) checkSignature(ctx *fasthttp.RequestCtx, method, path string) bool {
	auth := string(ctx.Request.Header.Peek("Authorization"))
	rest, found := strings.CutPrefix(auth, "hmac ")
	if !found {
		sc.t.Errorf("missing hmac authorization header: %q", auth)
		return false
	}

	fields := strings.Split(rest, ":")
	if len(fields) != 3 {
		sc.t.Errorf("malformed authorization header: %q", auth)
		return false
	}
	if fields[0] != stubAPIKey {
		sc.t.Errorf("unexpected api key %q", fields[0])
		return false
	}

	expected := signing.SignMessage(stubSecret, method, path, ctx.Request.Body(), fields[1])
	if !signing.Verify(expected, fields[2]) {
		sc.t.Errorf("signature mismatch for %s %s", method, path)
		return false
	}

	return true
}

func startStubCarrier(t *testing.T) (*stubCarrier, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	sc := &stubCarrier{t: t}
	srv := &fasthttp.Server{Handler: sc.handler}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Shutdown() })

	return sc, "http://" + ln.Addr().String()
}

func newStubService(t *testing.T, baseURL string) *Service {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Lalamove.BaseURL = baseURL
	cfg.Lalamove.ConnectTimeout = 5 * time.Second
	cfg.Lalamove.RequestTimeout = 5 * time.Second

	carrier, err := lalamove.NewClient(cfg.Lalamove, stubAPIKey, stubSecret)
	if err != nil {
		t.Fatal(err)
	}

	return NewService(cfg, carrier, nil, "")
}

func TestCreateCarrierOrderFlow(t *testing.T) {
	stub, baseURL := startStubCarrier(t)
	svc := newStubService(t, baseURL)

	pickup := &types.Location{
		Lat:     3.0136,
		Lng:     101.6168,
		Address: "Restoran Uptown, Puchong",
		Name:    "Restoran Uptown",
		Phone:   "0123456789",
	}
	dropoff := &types.Location{
		Lat:     3.0109,
		Lng:     101.6179,
		Address: "Jalan Kenari 5, Puchong",
		Phone:   "not-a-phone",
	}

	order, err := svc.createCarrierOrder(pickup, dropoff)
	if err != nil {
		t.Fatalf("createCarrierOrder: %v", err)
	}
	if order.OrderID != "LL-100" {
		t.Fatalf("orderId = %q, want LL-100", order.OrderID)
	}

	var quotationReq struct {
		Data lalamove.QuotationPayload `json:"data"`
	}
	if err := json.Unmarshal(stub.quotationBody, &quotationReq); err != nil {
		t.Fatalf("quotation request body: %v", err)
	}
	if len(quotationReq.Data.Stops) != 2 {
		t.Fatalf("quotation stops = %d, want 2", len(quotationReq.Data.Stops))
	}
	if got := quotationReq.Data.Stops[0].Coordinates.Lat; got != "3.0136" {
		t.Fatalf("pickup lat = %q, want 3.0136", got)
	}
	if quotationReq.Data.ServiceType != "MOTORCYCLE" {
		t.Fatalf("serviceType = %q", quotationReq.Data.ServiceType)
	}
	if quotationReq.Data.Item == nil || quotationReq.Data.Item.Weight != "LESS_THAN_3KG" {
		t.Fatal("quotation request missing food item metadata")
	}

	var orderReq struct {
		Data lalamove.OrderPayload `json:"data"`
	}
	if err := json.Unmarshal(stub.orderBody, &orderReq); err != nil {
		t.Fatalf("order request body: %v", err)
	}
	if orderReq.Data.QuotationID != "q-100" {
		t.Fatalf("quotationId = %q", orderReq.Data.QuotationID)
	}
	if orderReq.Data.Sender.StopID != "stop-a" || orderReq.Data.Recipients[0].StopID != "stop-b" {
		t.Fatalf("stop ids not taken from quotation details: %+v", orderReq.Data)
	}
	if orderReq.Data.Sender.Phone != "+60123456789" {
		t.Fatalf("sender phone = %q, want normalized +60123456789", orderReq.Data.Sender.Phone)
	}
	if got := orderReq.Data.Recipients[0].Phone; got != svc.config.Lalamove.RecipientPhone {
		t.Fatalf("recipient phone = %q, want fallback %q", got, svc.config.Lalamove.RecipientPhone)
	}
	if orderReq.Data.Sender.Name != "Restoran Uptown" {
		t.Fatalf("sender name = %q", orderReq.Data.Sender.Name)
	}
	if orderReq.Data.Recipients[0].Name != svc.config.Lalamove.RecipientName {
		t.Fatalf("recipient name = %q", orderReq.Data.Recipients[0].Name)
	}
}

func TestCreateCarrierOrderMissingStopIDs(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/v3/quotations":
			ctx.SetBodyString(`{"data":{"quotationId":"q-200","priceBreakdown":{"currency":"MYR","total":"9.90"}}}`)
		default:
			// Details without stopIds.
			ctx.SetBodyString(`{"data":{"quotationId":"q-200","stops":[{"address":"a"},{"address":"b"}]}}`)
		}
	}}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Shutdown() })

	svc := newStubService(t, "http://"+ln.Addr().String())

	_, err = svc.createCarrierOrder(
		&types.Location{Lat: 1, Lng: 1, Address: "a"},
		&types.Location{Lat: 2, Lng: 2, Address: "b"},
	)
	if err == nil || !strings.Contains(err.Error(), ErrMissingStopIDs.Error()) {
		t.Fatalf("err = %v, want missing stop ids", err)
	}
}

func TestCreateCarrierOrderCarrierRejection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
		ctx.SetBodyString(`{"message":"ERR_OUT_OF_SERVICE_AREA"}`)
	}}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Shutdown() })

	svc := newStubService(t, "http://"+ln.Addr().String())

	_, err = svc.createCarrierOrder(
		&types.Location{Lat: 1, Lng: 1, Address: "a"},
		&types.Location{Lat: 2, Lng: 2, Address: "b"},
	)

	var apiErr *lalamove.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *lalamove.APIError", err)
	}
	if apiErr.Status != fasthttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", apiErr.Status)
	}
	if !strings.Contains(string(apiErr.Body), "ERR_OUT_OF_SERVICE_AREA") {
		t.Fatalf("body = %s", apiErr.Body)
	}
}

func TestResolveRouteFallback(t *testing.T) {
	cfg := config.NewConfig()
	svc := &Service{config: cfg}

	locations := &types.OrderLocations{
		Pickup:  &types.Location{Lat: 3, Lng: 101, Address: "ok"},
		Dropoff: &types.Location{Address: "no coordinates"},
	}

	if _, _, err := svc.resolveRoute(1, locations); err != ErrNoRoute {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}

	cfg.FallbackRoute.Enabled = true
	pickup, dropoff, err := svc.resolveRoute(1, locations)
	if err != nil {
		t.Fatal(err)
	}
	if pickup.Lat != cfg.FallbackRoute.PickupLat || dropoff.Lat != cfg.FallbackRoute.DropoffLat {
		t.Fatalf("fallback route not applied: pickup=%+v dropoff=%+v", pickup, dropoff)
	}
}
