package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"gateway/db"
	"gateway/logging"
	"gateway/redis"
	"gateway/signing"
	"gateway/types"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// eventType is the closed set of carrier webhook events. Anything else is
// eventUnknown, which logs and falls through to status-string mapping so
// new carrier events degrade gracefully instead of failing.
type eventType int

const (
	eventNone eventType = iota
	eventStatusChanged
	eventDriverAssigned
	eventAmountChanged
	eventOrderReplaced
	eventWalletBalanceChanged
	eventOrderEdited
	eventUnknown
)

func parseEventType(raw string) eventType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return eventNone
	case "ORDER_STATUS_CHANGED":
		return eventStatusChanged
	case "DRIVER_ASSIGNED":
		return eventDriverAssigned
	case "ORDER_AMOUNT_CHANGED":
		return eventAmountChanged
	case "ORDER_REPLACED":
		return eventOrderReplaced
	case "WALLET_BALANCE_CHANGED":
		return eventWalletBalanceChanged
	case "ORDER_EDITED":
		return eventOrderEdited
	default:
		return eventUnknown
	}
}

// webhookEvent is the normalized view of one carrier callback. It is
// processed once and never persisted.
type webhookEvent struct {
	Event   string
	OrderID string
	Status  string
	EventID string
	Data    map[string]any
	Raw     []byte
}

// extractWebhookEvent pulls orderId, status and event out of the payload,
// tolerating the carrier's several envelope shapes: top-level, nested
// under "data", and nested under "data"."order", checked in that order.
func extractWebhookEvent(raw []byte) (*webhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	data := payload
	if nested, ok := payload["data"].(map[string]any); ok {
		data = nested
	}

	var order map[string]any
	if nested, ok := data["order"].(map[string]any); ok {
		order = nested
	}

	ev := &webhookEvent{Data: data, Raw: raw}

	ev.OrderID = firstString(
		stringValue(data, "orderId"),
		stringValue(order, "orderId"),
		stringValue(order, "id"),
	)
	ev.Status = firstString(
		stringValue(data, "status"),
		stringValue(order, "status"),
	)
	ev.Event = firstString(
		stringValue(payload, "event"),
		stringValue(data, "event"),
		stringValue(payload, "type"),
	)
	ev.EventID = firstString(
		stringValue(payload, "eventId"),
		stringValue(data, "eventId"),
	)

	return ev, nil
}

// dedupKey identifies a webhook delivery: the carrier-supplied event id
// when present, otherwise a content hash of the raw body. Retried
// deliveries of the same event resolve to the same key.
func (ev *webhookEvent) dedupKey() string {
	if ev.EventID != "" {
		return "id:" + ev.EventID
	}

	sum := sha256.Sum256(ev.Raw)
	return "sha:" + hex.EncodeToString(sum[:])
}

// carrier_webhook godoc
//
//	@Summary		carrier webhook callback
//	@Description	receives carrier status callbacks and reconciles local orders
//	@Tags			webhook
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		404	{object}	types.HTTPError
//	@Router			/webhook/lalamove [post]
func (s *Service) carrierWebhook(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	callbackID := uuid.NewString()
	body := append([]byte(nil), ctx.Request.Body()...)

	log := zap.L().With(zap.String("callback_id", callbackID))

	if s.webhookSecret != "" {
		if !s.verifyCarrierSignature(ctx, body, log) {
			handleError(ctx, errors.New("invalid signature"), fasthttp.StatusUnauthorized)
			return
		}
	}

	ev, err := extractWebhookEvent(body)
	if err != nil {
		log.Warn("carrier webhook body is not JSON",
			zap.ByteString("body", body),
			zap.Error(err))
		handleError(ctx, errors.New("malformed payload"), fasthttp.StatusBadRequest)
		return
	}

	if ev.OrderID == "" {
		log.Warn("carrier webhook missing orderId", zap.ByteString("body", body))
		handleError(ctx, errors.New("missing orderId"), fasthttp.StatusBadRequest)
		return
	}

	order, err := db.FindOrderByCarrierID(ev.OrderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			log.Warn("carrier webhook for unknown order",
				zap.String("carrier_order_id", ev.OrderID))
			handleError(ctx, db.ErrOrderNotFound, fasthttp.StatusNotFound)
			return
		}
		log.Error(err.Error())
		handleError(ctx, errors.New("internal error"), fasthttp.StatusInternalServerError)
		return
	}

	first, err := redis.Client.MarkWebhookEvent(ev.dedupKey(), s.config.Webhook.DedupTTL)
	if err != nil {
		// Dedup is best-effort: losing redis must not drop carrier callbacks.
		log.Error("webhook dedup check failed", zap.Error(err))
		first = true
	}
	if !first {
		log.Info("duplicate carrier webhook ignored",
			zap.String("carrier_order_id", ev.OrderID),
			zap.String("dedup_key", ev.dedupKey()))
		writeJSON(ctx, fasthttp.StatusOK, map[string]any{
			"status": "duplicate",
			"event":  strings.ToUpper(ev.Event),
		})
		return
	}

	newStatus, applied := s.applyWebhookEvent(order, ev, log)

	var updated string
	if applied {
		updated = string(newStatus)
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":         "ok",
		"event":          strings.ToUpper(ev.Event),
		"updated_status": updated,
	})
}

// applyWebhookEvent dispatches on event type first, falling back to the
// status alias table only when the event did not decide a status itself.
// Processing failures after signature and lookup never turn into non-200
// responses; the carrier must not retry on our processing bugs.
func (s *Service) applyWebhookEvent(order *types.LocalOrder, ev *webhookEvent, log *zap.Logger) (types.OrderStatus, bool) {
	var (
		newStatus types.OrderStatus
		decided   bool
	)

	switch parseEventType(ev.Event) {
	case eventStatusChanged, eventNone:
		// Defer to status mapping below.
	case eventDriverAssigned:
		newStatus, decided = types.StatusAccepted, true
	case eventAmountChanged:
		s.applyAmountChange(order, ev, log)
	case eventOrderReplaced:
		s.applyOrderReplacement(order, ev, log)
	case eventWalletBalanceChanged, eventOrderEdited:
		log.Info("informational carrier event",
			zap.String("event", strings.ToUpper(ev.Event)),
			zap.String("carrier_order_id", ev.OrderID))
	case eventUnknown:
		log.Info("unhandled carrier event type",
			zap.String("event", strings.ToUpper(ev.Event)),
			zap.String("carrier_order_id", ev.OrderID))
	}

	if !decided && ev.Status != "" {
		mapped, ok := types.MapStatus(ev.Status)
		if !ok {
			log.Info("unhandled carrier status",
				zap.String("carrier_order_id", ev.OrderID),
				zap.String("status", ev.Status))
			return "", false
		}
		newStatus, decided = mapped, true
	}

	if !decided {
		return "", false
	}

	applied, err := db.UpdateOrderStatus(order.CarrierOrderID, newStatus)
	if err != nil {
		log.Error("order status update failed",
			zap.String("carrier_order_id", order.CarrierOrderID),
			zap.Error(err))
		return "", false
	}

	if applied {
		if p := GetDispatchProcessor(); p != nil {
			p.AddStatusEvent(&StatusEventMessage{
				OrderID:        order.ID,
				CarrierOrderID: order.CarrierOrderID,
				Status:         string(newStatus),
				Event:          strings.ToUpper(ev.Event),
			})
		}
	}

	return newStatus, applied
}

// applyAmountChange recomputes the delivery charge from the carrier's
// price breakdown: totalExcludePriorityFee when present, else total minus
// priorityFee, else total. An unparseable breakdown logs and moves on; it
// never fails the webhook.
func (s *Service) applyAmountChange(order *types.LocalOrder, ev *webhookEvent, log *zap.Logger) {
	charge, currency, ok := deliveryChargeFromPayload(ev.Data)
	if !ok {
		log.Info("amount change without parseable price breakdown",
			zap.String("carrier_order_id", ev.OrderID),
			zap.ByteString("body", ev.Raw))
		return
	}

	if err := db.UpdateDeliveryCharge(order.ID, charge); err != nil {
		log.Error("delivery charge update failed",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}

	log.Info("delivery charge updated via carrier webhook",
		zap.Int64("order_id", order.ID),
		zap.String("carrier_order_id", ev.OrderID),
		zap.String("currency", currency),
		zap.Float64("new_delivery_charge", charge))
}

// deliveryChargeFromPayload digs the price breakdown out of the payload,
// checking data and data.order, with money values as strings or numbers.
func deliveryChargeFromPayload(data map[string]any) (float64, string, bool) {
	pb, ok := data["priceBreakdown"].(map[string]any)
	if !ok {
		if order, okOrder := data["order"].(map[string]any); okOrder {
			pb, ok = order["priceBreakdown"].(map[string]any)
		}
	}
	if !ok {
		return 0, "", false
	}

	currency, _ := pb["currency"].(string)

	if v, okV := numberValue(pb, "totalExcludePriorityFee"); okV {
		return v, currency, true
	}

	total, okTotal := numberValue(pb, "total")
	if !okTotal {
		return 0, currency, false
	}

	if priorityFee, okFee := numberValue(pb, "priorityFee"); okFee {
		return total - priorityFee, currency, true
	}

	return total, currency, true
}

// applyOrderReplacement swaps the stored carrier order id for the new one.
// A replacement without newOrderId is ambiguous; log it and do nothing.
func (s *Service) applyOrderReplacement(order *types.LocalOrder, ev *webhookEvent, log *zap.Logger) {
	newOrderID := stringValue(ev.Data, "newOrderId")
	if newOrderID == "" {
		if nested, ok := ev.Data["order"].(map[string]any); ok {
			newOrderID = stringValue(nested, "newOrderId")
		}
	}

	if newOrderID == "" {
		log.Warn("order replacement missing newOrderId",
			zap.String("carrier_order_id", ev.OrderID),
			zap.ByteString("body", ev.Raw))
		return
	}

	if err := db.ReplaceCarrierOrderID(order.ID, ev.OrderID, newOrderID); err != nil {
		log.Error("carrier order id replacement failed",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}

// verifyCarrierSignature checks the hmac Authorization header against the
// raw body using the carrier's message scheme. Mismatch logs hash prefixes
// only, never the secret.
func (s *Service) verifyCarrierSignature(ctx *fasthttp.RequestCtx, body []byte, log *zap.Logger) bool {
	authHeader := string(ctx.Request.Header.Peek("Authorization"))
	rest, found := strings.CutPrefix(authHeader, "hmac ")
	if !found {
		log.Warn("carrier webhook without hmac authorization header")
		return false
	}

	fields := strings.Split(rest, ":")
	if len(fields) != 3 {
		log.Warn("malformed carrier webhook authorization header")
		return false
	}

	timestamp, received := fields[1], fields[2]
	expected := signing.SignMessage(s.webhookSecret, fasthttp.MethodPost, string(ctx.Path()), body, timestamp)
	if !signing.Verify(expected, received) {
		log.Warn("carrier webhook signature mismatch",
			zap.String("computed", logging.HashPrefix(expected)),
			zap.String("received", logging.HashPrefix(received)))
		return false
	}

	return true
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}

	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func numberValue(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
