package types

import "time"

// LocalOrder is the narrow view of the application's order record this
// service reads and writes. Everything else about the order belongs to
// the surrounding application.
type LocalOrder struct {
	ID                     int64      `json:"id"`
	CarrierOrderID         string     `json:"carrier_order_id,omitempty"`
	OrderStatus            string     `json:"order_status"`
	DeliveryCharge         float64    `json:"delivery_charge"`
	OriginalDeliveryCharge float64    `json:"original_delivery_charge"`
	PaymentStatus          string     `json:"payment_status"`
	CallbackURL            string     `json:"callback_url,omitempty"`
	MTime                  *time.Time `json:"mtime,omitempty"`
}

// Location is a pickup or dropoff point for a delivery route.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Name    string  `json:"name,omitempty"`
	Phone   string  `json:"phone,omitempty"`
}

type OrderLocations struct {
	Pickup  *Location `json:"pickup"`
	Dropoff *Location `json:"dropoff"`
}

type Payment struct {
	ID       int64   `json:"id"`
	OrderID  string  `json:"order_id"`
	Email    string  `json:"email"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
	Gateway  string  `json:"gateway"`
	PayrefID string  `json:"payref_id,omitempty"`
}

type StopRequest struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Address      string  `json:"address"`
	ContactName  string  `json:"contact_name,omitempty"`
	ContactPhone string  `json:"contact_phone,omitempty"`
}

type QuotationRequest struct {
	ServiceType string        `json:"service_type"`
	Language    string        `json:"language,omitempty"`
	Pickup      StopRequest   `json:"pickup"`
	Dropoffs    []StopRequest `json:"dropoffs"`
}

type CreateOrderRequest struct {
	QuotationID    string `json:"quotation_id"`
	SenderName     string `json:"sender_name,omitempty"`
	SenderPhone    string `json:"sender_phone,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	RecipientPhone string `json:"recipient_phone,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
}

type MockStatusRequest struct {
	OrderID        int64  `json:"order_id,omitempty"`
	CarrierOrderID string `json:"carrier_order_id,omitempty"`
	Status         string `json:"status"`
}

type PriorityFeeRequest struct {
	PriorityFee string `json:"priority_fee"`
}

type EditOrderRequest struct {
	Stops []StopRequest `json:"stops"`
}

type UpdateWebhookRequest struct {
	URL string `json:"url"`
}

type CheckoutRequest struct {
	Amount float64 `json:"amount"`
	Email  string  `json:"email"`
}

type HTTPError struct {
	Error string `json:"error"`
}
