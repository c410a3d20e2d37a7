package service

import (
	"encoding/json"
	"errors"
	"gateway/db"
	"gateway/types"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// gateway_webhook godoc
//
//	@Summary		payment gateway webhook
//	@Description	receives signed payment callbacks and updates payment records
//	@Tags			webhook
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Router			/webhook/zenpay [post]
func (s *Service) gatewayWebhook(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	body := append([]byte(nil), ctx.Request.Body()...)
	receivedSignature := string(ctx.Request.Header.Peek("X-Signature"))

	if !s.gateway.VerifyWebhook(body, receivedSignature) {
		handleError(ctx, errors.New("invalid signature"), fasthttp.StatusUnauthorized)
		return
	}

	var payload struct {
		OrderID  string `json:"order_id"`
		Status   string `json:"status"`
		PayrefID string `json:"payref_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		zap.L().Warn("gateway webhook body is not JSON",
			zap.ByteString("body", body),
			zap.Error(err))
		handleError(ctx, errors.New("malformed payload"), fasthttp.StatusBadRequest)
		return
	}

	if payload.OrderID != "" {
		err := db.UpdatePaymentStatus(payload.OrderID, payload.Status, payload.PayrefID, string(body))
		switch {
		case errors.Is(err, db.ErrPaymentNotFound):
			zap.L().Warn("gateway webhook for unknown payment",
				zap.String("order_id", payload.OrderID))
		case err != nil:
			// The gateway retries on non-2xx only; processing failures log
			// and still acknowledge.
			zap.L().Error("payment update failed",
				zap.String("order_id", payload.OrderID),
				zap.Error(err))
		}
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"message": "ok"})
}

// payment_return godoc
//
//	@Summary		payment return redirect
//	@Description	verifies signed redirect parameters and reports payment state
//	@Tags			payment
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	types.HTTPError
//	@Router			/payment/return [get]
func (s *Service) paymentReturn(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodGet {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	params := make(map[string]string)
	var receivedSignature string
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		if string(key) == "signature" {
			receivedSignature = string(value)
			return
		}
		params[string(key)] = string(value)
	})

	if !s.gateway.VerifyReturnParams(params, receivedSignature) {
		handleError(ctx, errors.New("invalid signature"), fasthttp.StatusUnauthorized)
		return
	}

	resp := map[string]string{
		"status":    params["status"],
		"payref_id": params["payref_id"],
	}

	// The redirect params describe what the gateway claims; the recorded
	// status is what the signed callback actually applied.
	if orderID := params["order_id"]; orderID != "" {
		payment, err := db.GetPaymentByOrderID(orderID)
		switch {
		case errors.Is(err, db.ErrPaymentNotFound):
			zap.L().Warn("payment return for unknown payment",
				zap.String("order_id", orderID))
		case err != nil:
			zap.L().Error("payment lookup failed",
				zap.String("order_id", orderID),
				zap.Error(err))
		default:
			resp["recorded_status"] = payment.Status
		}
	}

	writeJSON(ctx, fasthttp.StatusOK, resp)
}

// create_checkout godoc
//
//	@Summary		create checkout session
//	@Description	opens a hosted payment gateway checkout and records a pending payment
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		500	{object}	types.HTTPError
//	@Router			/checkout [post]
func (s *Service) createCheckout(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.CheckoutRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	if req.Amount < 1 || req.Email == "" {
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	session, err := s.gateway.CreateCheckoutSession(req.Amount, req.Email)
	if err != nil {
		zap.L().Error(err.Error())
		handleGatewayError(ctx, err)
		return
	}

	if _, err := db.CreatePayment(session.OrderID, req.Email, req.Amount, "zenpay", string(session.Raw)); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrInternal, fasthttp.StatusInternalServerError)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"order_id": session.OrderID,
		"session":  json.RawMessage(session.Raw),
	})
}
