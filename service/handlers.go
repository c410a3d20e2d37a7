package service

import (
	"encoding/json"
	"errors"
	"gateway/db"
	"gateway/lalamove"
	"gateway/types"
	"gateway/zenpay"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var (
	ErrBadInput = errors.New("bad input")
	ErrInternal = errors.New("internal error, try again later")
)

func healthCheckHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.WriteString(`{"status":"OK"}`)
}

// quotation godoc
//
//	@Summary		request delivery quotation
//	@Description	requests a priced carrier route for pickup and dropoff stops
//	@Tags			carrier
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	lalamove.Quotation
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Router			/quotation [post]
func (s *Service) getQuotation(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.QuotationRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	if req.Pickup.Address == "" || len(req.Dropoffs) == 0 {
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = s.config.Lalamove.ServiceType
	}
	language := req.Language
	if language == "" {
		language = s.config.Lalamove.Language
	}

	stops := make([]lalamove.Stop, 0, len(req.Dropoffs)+1)
	stops = append(stops, stopFromRequest(req.Pickup))
	for _, dropoff := range req.Dropoffs {
		stops = append(stops, stopFromRequest(dropoff))
	}

	quotation, err := s.carrier.Quotation(&lalamove.QuotationPayload{
		ServiceType: serviceType,
		Stops:       stops,
		Language:    language,
	})
	if err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, quotation)
}

func stopFromRequest(req types.StopRequest) lalamove.Stop {
	stop := lalamove.FormatStop(req.Lat, req.Lng, req.Address)
	stop.ContactName = req.ContactName
	stop.ContactPhone = req.ContactPhone
	return stop
}

// create_order godoc
//
//	@Summary		create carrier order
//	@Description	fetches quotation details for stop ids and commits the order
//	@Tags			carrier
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	lalamove.Order
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Failure		422	{object}	types.HTTPError
//	@Router			/create_order [post]
func (s *Service) createOrder(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.CreateOrderRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	if req.QuotationID == "" {
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	// The quotation response carries no stopIds; only the details fetch does.
	details, err := s.carrier.QuotationDetails(req.QuotationID)
	if err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	if len(details.Stops) < 2 || details.Stops[0].StopID == "" || details.Stops[1].StopID == "" {
		handleError(ctx, errors.New("quotation must have pickup and dropoff stop ids"), fasthttp.StatusUnprocessableEntity)
		return
	}

	cfg := s.config.Lalamove

	senderName := firstString(req.SenderName, cfg.SenderName)
	recipientName := firstString(req.RecipientName, cfg.RecipientName)
	senderPhone := lalamove.PhoneOrFallback(req.SenderPhone, cfg.SenderPhone)
	recipientPhone := lalamove.PhoneOrFallback(req.RecipientPhone, cfg.RecipientPhone)

	order, err := s.carrier.CreateOrder(&lalamove.OrderPayload{
		QuotationID: req.QuotationID,
		Sender: lalamove.Contact{
			StopID: details.Stops[0].StopID,
			Name:   senderName,
			Phone:  senderPhone,
		},
		Recipients: []lalamove.Recipient{
			{
				StopID:  details.Stops[1].StopID,
				Name:    recipientName,
				Phone:   recipientPhone,
				Remarks: req.Remarks,
			},
		},
		IsPODEnabled: true,
	})
	if err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, order)
}

// get_order godoc
//
//	@Summary		get carrier order
//	@Description	fetches carrier-side order details
//	@Tags			carrier
//	@Produce		json
//	@Success		200	{object}	lalamove.Order
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Router			/order/{id} [get]
func (s *Service) getOrder(ctx *fasthttp.RequestCtx, carrierOrderID string) {
	if string(ctx.Method()) != fasthttp.MethodGet {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	order, err := s.carrier.Order(carrierOrderID)
	if err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, order)
}

// cancel_order godoc
//
//	@Summary		cancel carrier order
//	@Description	cancels an ongoing carrier order
//	@Tags			carrier
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Router			/cancel_order/{id} [post]
func (s *Service) cancelOrder(ctx *fasthttp.RequestCtx, carrierOrderID string) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	if err := s.carrier.CancelOrder(carrierOrderID); err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "canceled"})
}

// update_webhook godoc
//
//	@Summary		register webhook url
//	@Description	updates the account-level carrier webhook URL
//	@Tags			carrier
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Failure		422	{object}	types.HTTPError
//	@Router			/update_webhook [post]
func (s *Service) updateWebhook(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.UpdateWebhookRequest
	if len(ctx.Request.Body()) > 0 {
		if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
			zap.L().Error(err.Error())
			handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
			return
		}
	}

	url := firstString(req.URL, s.config.Lalamove.WebhookURL)
	if url == "" {
		handleError(ctx, errors.New("webhook url not provided and not configured"), fasthttp.StatusUnprocessableEntity)
		return
	}

	if err := s.carrier.UpdateWebhook(url); err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":         "success",
		"configured_url": url,
	})
}

// dispatch godoc
//
//	@Summary		dispatch order to carrier
//	@Description	runs the quotation, details and order-creation flow for a local order
//	@Tags			carrier
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Router			/dispatch/{order_id} [post]
func (s *Service) dispatchOrder(ctx *fasthttp.RequestCtx, rawOrderID string) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	orderID, err := strconv.ParseInt(rawOrderID, 10, 64)
	if err != nil {
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	carrierOrderID, err := s.CreateDeliveryOrder(orderID)
	if err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":           "ok",
		"carrier_order_id": carrierOrderID,
	})
}

// priority_fee godoc
//
//	@Summary		add priority fee
//	@Description	tips the driver on an ongoing carrier order
//	@Tags			carrier
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Router			/priority_fee/{id} [post]
func (s *Service) addPriorityFee(ctx *fasthttp.RequestCtx, carrierOrderID string) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.PriorityFeeRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	if req.PriorityFee == "" {
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	if err := s.carrier.AddPriorityFee(carrierOrderID, req.PriorityFee); err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":       "ok",
		"priority_fee": req.PriorityFee,
	})
}

// edit_order godoc
//
//	@Summary		edit carrier order stops
//	@Description	updates the stops of an ongoing carrier order
//	@Tags			carrier
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	types.HTTPError
//	@Failure		401	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Router			/edit_order/{id} [post]
func (s *Service) editOrder(ctx *fasthttp.RequestCtx, carrierOrderID string) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.EditOrderRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	if len(req.Stops) < 2 {
		handleError(ctx, errors.New("at least pickup and dropoff stops required"), fasthttp.StatusBadRequest)
		return
	}

	stops := make([]lalamove.Stop, 0, len(req.Stops))
	for _, stop := range req.Stops {
		stops = append(stops, stopFromRequest(stop))
	}

	if err := s.carrier.EditOrder(carrierOrderID, &lalamove.OrderEditPayload{Stops: stops}); err != nil {
		zap.L().Error(err.Error())
		handleCarrierError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

// mock_status godoc
//
//	@Summary		manually override order status
//	@Description	test tool applying the same status alias table as the webhook path
//	@Tags			carrier
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	types.HTTPError
//	@Failure		404	{object}	types.HTTPError
//	@Failure		405	{object}	types.HTTPError
//	@Failure		422	{object}	types.HTTPError
//	@Router			/mock_status [post]
func (s *Service) mockStatus(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	var req types.MockStatusRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		zap.L().Error(err.Error())
		handleError(ctx, ErrBadInput, fasthttp.StatusBadRequest)
		return
	}

	status, ok := types.MapStatus(req.Status)
	if !ok {
		handleError(ctx, errors.New("unsupported status value"), fasthttp.StatusUnprocessableEntity)
		return
	}

	carrierOrderID := req.CarrierOrderID
	if carrierOrderID == "" && req.OrderID != 0 {
		order, err := db.FindOrderByID(req.OrderID)
		if err != nil {
			handleError(ctx, db.ErrOrderNotFound, fasthttp.StatusNotFound)
			return
		}
		carrierOrderID = order.CarrierOrderID
	}

	if carrierOrderID == "" {
		handleError(ctx, errors.New("order_id or carrier_order_id required"), fasthttp.StatusUnprocessableEntity)
		return
	}

	applied, err := db.UpdateOrderStatus(carrierOrderID, status)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			handleError(ctx, db.ErrOrderNotFound, fasthttp.StatusNotFound)
			return
		}
		zap.L().Error(err.Error())
		handleError(ctx, ErrInternal, fasthttp.StatusInternalServerError)
		return
	}

	zap.L().Info("mock status applied",
		zap.String("carrier_order_id", carrierOrderID),
		zap.String("status", string(status)),
		zap.Bool("applied", applied))

	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":           "ok",
		"carrier_order_id": carrierOrderID,
		"order_status":     string(status),
	})
}

// handleCarrierError maps the outbound error taxonomy onto responses:
// carrier/gateway rejections pass the upstream status and raw error body
// through; transport failures become 502.
func handleCarrierError(ctx *fasthttp.RequestCtx, err error) {
	var carrierErr *lalamove.APIError
	if errors.As(err, &carrierErr) {
		writeJSON(ctx, carrierErr.Status, map[string]any{
			"success": false,
			"error":   carrierErr.Body,
		})
		return
	}

	var gatewayErr *zenpay.APIError
	if errors.As(err, &gatewayErr) {
		writeJSON(ctx, gatewayErr.Status, map[string]any{
			"success": false,
			"error":   json.RawMessage(gatewayErr.Body),
		})
		return
	}

	handleError(ctx, err, fasthttp.StatusBadGateway)
}

func handleGatewayError(ctx *fasthttp.RequestCtx, err error) {
	handleCarrierError(ctx, err)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(body)
}

func handleError(ctx *fasthttp.RequestCtx, err error, status int) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(types.HTTPError{
		Error: err.Error(),
	})
}
