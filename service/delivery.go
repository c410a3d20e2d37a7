package service

import (
	"errors"
	"fmt"
	"gateway/db"
	"gateway/lalamove"
	"gateway/types"

	"go.uber.org/zap"
)

var (
	ErrNoRoute        = errors.New("order has no usable pickup or dropoff location")
	ErrMissingStopIDs = errors.New("quotation details missing stop ids")
)

// deliveryItem is the goods metadata sent with every food-delivery
// quotation.
var deliveryItem = &lalamove.Item{
	Quantity:             "1",
	Weight:               "LESS_THAN_3KG",
	Categories:           []string{"FOOD_DELIVERY"},
	HandlingInstructions: []string{"KEEP_UPRIGHT"},
}

// CreateDeliveryOrder drives the full carrier flow for a local order:
// resolve the route, request a quotation, fetch its details for stop ids,
// create the carrier order and persist the returned carrier order id.
// There are no retries here; a failed step aborts the flow with the
// carrier's error so the caller can decide what to do.
func (s *Service) CreateDeliveryOrder(orderID int64) (string, error) {
	locations, err := db.GetOrderLocations(orderID)
	if err != nil {
		return "", fmt.Errorf("resolve order route: %w", err)
	}

	pickup, dropoff, err := s.resolveRoute(orderID, locations)
	if err != nil {
		return "", err
	}

	carrierOrder, err := s.createCarrierOrder(pickup, dropoff)
	if err != nil {
		return "", err
	}

	if err := db.SetCarrierOrderID(orderID, carrierOrder.OrderID); err != nil {
		return "", err
	}

	return carrierOrder.OrderID, nil
}

// resolveRoute builds the pickup/dropoff pair, substituting the static
// test route when locations are unusable and the fallback is enabled.
func (s *Service) resolveRoute(orderID int64, locations *types.OrderLocations) (*types.Location, *types.Location, error) {
	if usableLocation(locations.Pickup) && usableLocation(locations.Dropoff) {
		return locations.Pickup, locations.Dropoff, nil
	}

	fallback := s.config.FallbackRoute
	if !fallback.Enabled {
		return nil, nil, ErrNoRoute
	}

	zap.L().Warn("order route unusable, using fallback test route",
		zap.Int64("order_id", orderID))

	return &types.Location{
			Lat:     fallback.PickupLat,
			Lng:     fallback.PickupLng,
			Address: fallback.PickupAddress,
		}, &types.Location{
			Lat:     fallback.DropoffLat,
			Lng:     fallback.DropoffLng,
			Address: fallback.DropoffAddress,
		}, nil
}

func usableLocation(loc *types.Location) bool {
	return loc != nil && loc.Address != "" && (loc.Lat != 0 || loc.Lng != 0)
}

// createCarrierOrder runs quotation -> details -> order against the
// carrier.
func (s *Service) createCarrierOrder(pickup, dropoff *types.Location) (*lalamove.Order, error) {
	cfg := s.config.Lalamove

	quotation, err := s.carrier.Quotation(&lalamove.QuotationPayload{
		ServiceType: cfg.ServiceType,
		Language:    cfg.Language,
		Stops: []lalamove.Stop{
			lalamove.FormatStop(pickup.Lat, pickup.Lng, pickup.Address),
			lalamove.FormatStop(dropoff.Lat, dropoff.Lng, dropoff.Address),
		},
		Item: deliveryItem,
	})
	if err != nil {
		return nil, fmt.Errorf("request quotation: %w", err)
	}

	if quotation.QuotationID == "" {
		return nil, errors.New("quotation response missing quotationId")
	}

	zap.L().Info("quotation received",
		zap.String("quotation_id", quotation.QuotationID),
		zap.String("total", quotation.PriceBreakdown.Total),
		zap.String("currency", quotation.PriceBreakdown.Currency))

	details, err := s.carrier.QuotationDetails(quotation.QuotationID)
	if err != nil {
		return nil, fmt.Errorf("fetch quotation details: %w", err)
	}

	if len(details.Stops) < 2 || details.Stops[0].StopID == "" || details.Stops[1].StopID == "" {
		return nil, ErrMissingStopIDs
	}

	senderName := firstString(pickup.Name, cfg.SenderName)
	recipientName := firstString(dropoff.Name, cfg.RecipientName)
	senderPhone := lalamove.PhoneOrFallback(pickup.Phone, cfg.SenderPhone)
	recipientPhone := lalamove.PhoneOrFallback(dropoff.Phone, cfg.RecipientPhone)

	order, err := s.carrier.CreateOrder(&lalamove.OrderPayload{
		QuotationID: quotation.QuotationID,
		Sender: lalamove.Contact{
			StopID: details.Stops[0].StopID,
			Name:   senderName,
			Phone:  senderPhone,
		},
		Recipients: []lalamove.Recipient{
			{
				StopID: details.Stops[1].StopID,
				Name:   recipientName,
				Phone:  recipientPhone,
			},
		},
		IsPODEnabled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create carrier order: %w", err)
	}

	zap.L().Info("carrier order created",
		zap.String("carrier_order_id", order.OrderID),
		zap.String("quotation_id", quotation.QuotationID))

	return order, nil
}
