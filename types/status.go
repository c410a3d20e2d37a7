package types

import "strings"

// OrderStatus is the internal delivery lifecycle:
// pending -> accepted -> out_for_delivery -> picked_up -> delivered,
// with canceled reachable from any non-terminal state. The carrier is the
// source of truth; transitions are only ever driven by carrier callbacks
// or the manual override endpoint.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusAccepted       OrderStatus = "accepted"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusDelivered      OrderStatus = "delivered"
	StatusCanceled       OrderStatus = "canceled"
)

// statusAliases maps the carrier's status vocabulary (case-insensitive)
// onto the internal lifecycle. Unknown values map to nothing.
var statusAliases = map[string]OrderStatus{
	"accepted":         StatusAccepted,
	"order_accepted":   StatusAccepted,
	"driver_assigned":  StatusAccepted,
	"assigning_driver": StatusOutForDelivery,
	"ongoing":          StatusOutForDelivery,
	"picked_up":        StatusPickedUp,
	"order_picked_up":  StatusPickedUp,
	"driver_picked_up": StatusPickedUp,
	"completed":        StatusDelivered,
	"delivered":        StatusDelivered,
	"canceled":         StatusCanceled,
	"cancelled":        StatusCanceled,
	"order_cancelled":  StatusCanceled,
}

// MapStatus resolves a carrier status string to an internal status.
func MapStatus(raw string) (OrderStatus, bool) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CanTransition reports whether moving from one status to another is
// allowed. Same-state transitions are a no-op rather than an error, so
// webhook redelivery never double-applies; callers treat false with
// from == to as "already there".
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}

	if from.Terminal() {
		return false
	}

	return true
}

// statusTimestampColumns is the explicit status -> timestamp column map.
// Statuses without an entry simply skip the timestamp write; the status
// update itself must still go through.
var statusTimestampColumns = map[OrderStatus]string{
	StatusAccepted:       "accepted",
	StatusOutForDelivery: "out_for_delivery",
	StatusPickedUp:       "picked_up",
	StatusDelivered:      "delivered",
	StatusCanceled:       "canceled",
}

// TimestampColumn returns the column that records when the order entered
// the given status, or "" when no such column exists.
func (s OrderStatus) TimestampColumn() string {
	return statusTimestampColumns[s]
}
