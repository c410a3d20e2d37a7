package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"gateway/types"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

const pqUndefinedColumn = "42703"

// FindOrderByCarrierID loads the narrow order view by the carrier-assigned
// order id.
func FindOrderByCarrierID(carrierOrderID string) (*types.LocalOrder, error) {
	var (
		order    types.LocalOrder
		carrier  sql.NullString
		origFee  sql.NullFloat64
		callback sql.NullString
	)

	err := GetConn().QueryRow(
		`select id, lalamove_order_id, order_status, delivery_charge,
		        coalesce(original_delivery_charge, 0), payment_status, callback
		from orders where lalamove_order_id = $1`, carrierOrderID).
		Scan(&order.ID, &carrier, &order.OrderStatus, &order.DeliveryCharge,
			&origFee, &order.PaymentStatus, &callback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order by carrier id: %w", err)
	}

	order.CarrierOrderID = carrier.String
	order.OriginalDeliveryCharge = origFee.Float64
	order.CallbackURL = callback.String

	return &order, nil
}

// FindOrderByID loads the narrow order view by local id.
func FindOrderByID(orderID int64) (*types.LocalOrder, error) {
	var (
		order   types.LocalOrder
		carrier sql.NullString
	)

	err := GetConn().QueryRow(
		`select id, lalamove_order_id, order_status from orders where id = $1`, orderID).
		Scan(&order.ID, &carrier, &order.OrderStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	order.CarrierOrderID = carrier.String

	return &order, nil
}

// SetCarrierOrderID records the carrier order id returned on order creation.
func SetCarrierOrderID(orderID int64, carrierOrderID string) error {
	if _, err := GetConn().Exec(
		`update orders set lalamove_order_id = $1, mtime = now() where id = $2`,
		carrierOrderID, orderID); err != nil {
		return fmt.Errorf("set carrier order id: %w", err)
	}

	zap.L().Info("carrier order id saved",
		zap.Int64("order_id", orderID),
		zap.String("carrier_order_id", carrierOrderID))

	return nil
}

// ReplaceCarrierOrderID swaps the stored carrier order id when the carrier
// re-creates an order under a new id.
func ReplaceCarrierOrderID(orderID int64, oldID, newID string) error {
	if _, err := GetConn().Exec(
		`update orders set lalamove_order_id = $1, mtime = now() where id = $2`,
		newID, orderID); err != nil {
		return fmt.Errorf("replace carrier order id: %w", err)
	}

	zap.L().Info("carrier order id replaced",
		zap.Int64("order_id", orderID),
		zap.String("old_carrier_order_id", oldID),
		zap.String("new_carrier_order_id", newID))

	return nil
}

// UpdateOrderStatus applies a status transition under a row lock keyed by
// the carrier order id, so concurrent webhook deliveries for the same order
// cannot interleave reads and writes. Returns false without error when the
// transition is a no-op (same state or terminal state reached already).
//
// The status-specific timestamp column is written best-effort inside a
// savepoint: a missing column must never fail the status update itself.
func UpdateOrderStatus(carrierOrderID string, newStatus types.OrderStatus) (bool, error) {
	tx, err := GetConn().Begin()
	if err != nil {
		return false, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback()

	var (
		id      int64
		current string
	)
	err = tx.QueryRow(
		`select id, order_status from orders where lalamove_order_id = $1 for update`,
		carrierOrderID).Scan(&id, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrOrderNotFound
	}
	if err != nil {
		return false, fmt.Errorf("lock order row: %w", err)
	}

	if !types.CanTransition(types.OrderStatus(current), newStatus) {
		zap.L().Info("order status transition skipped",
			zap.String("carrier_order_id", carrierOrderID),
			zap.String("current", current),
			zap.String("requested", string(newStatus)))
		return false, tx.Commit()
	}

	if _, err := tx.Exec(
		`update orders set order_status = $1, mtime = now() where id = $2`,
		string(newStatus), id); err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	if col := newStatus.TimestampColumn(); col != "" {
		if _, err := tx.Exec(`savepoint status_ts`); err != nil {
			return false, fmt.Errorf("savepoint: %w", err)
		}

		// col comes from a fixed whitelist, never from the payload
		if _, err := tx.Exec(
			fmt.Sprintf(`update orders set %s = now() where id = $1`, pq.QuoteIdentifier(col)), id); err != nil {
			if !isUndefinedColumn(err) {
				return false, fmt.Errorf("write status timestamp: %w", err)
			}
			if _, rbErr := tx.Exec(`rollback to savepoint status_ts`); rbErr != nil {
				return false, fmt.Errorf("rollback timestamp savepoint: %w", rbErr)
			}
			zap.L().Warn("status timestamp column not written",
				zap.String("column", col),
				zap.Error(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit status update: %w", err)
	}

	zap.L().Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("carrier_order_id", carrierOrderID),
		zap.String("new_status", string(newStatus)))

	return true, nil
}

// UpdateDeliveryCharge replaces the current delivery charge, preserving the
// original charge the first time it changes.
func UpdateDeliveryCharge(orderID int64, charge float64) error {
	if _, err := GetConn().Exec(
		`update orders
		set original_delivery_charge = coalesce(original_delivery_charge, delivery_charge),
		    delivery_charge = $1,
		    mtime = now()
		where id = $2`, charge, orderID); err != nil {
		return fmt.Errorf("update delivery charge: %w", err)
	}

	zap.L().Info("delivery charge updated",
		zap.Int64("order_id", orderID),
		zap.Float64("new_delivery_charge", charge))

	return nil
}

// GetOrderLocations resolves the pickup (merchant) and dropoff (customer)
// locations for an order. The dropoff is stored as a JSON document on the
// order row; the pickup comes from the joined restaurant record.
func GetOrderLocations(orderID int64) (*types.OrderLocations, error) {
	var (
		name, address, phone sql.NullString
		lat, lng             sql.NullFloat64
		deliveryAddress      sql.NullString
	)

	err := GetConn().QueryRow(
		`select r.name, r.address, r.phone, r.latitude, r.longitude, o.delivery_address
		from orders o
		left join restaurants r on r.id = o.restaurant_id
		where o.id = $1`, orderID).
		Scan(&name, &address, &phone, &lat, &lng, &deliveryAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order locations: %w", err)
	}

	locations := &types.OrderLocations{}

	if lat.Valid && lng.Valid {
		locations.Pickup = &types.Location{
			Lat:     lat.Float64,
			Lng:     lng.Float64,
			Address: address.String,
			Name:    name.String,
			Phone:   phone.String,
		}
	}

	if deliveryAddress.Valid && deliveryAddress.String != "" {
		var dropoff struct {
			Latitude      float64 `json:"latitude"`
			Longitude     float64 `json:"longitude"`
			Address       string  `json:"address"`
			ContactName   string  `json:"contact_person_name"`
			ContactNumber string  `json:"contact_person_number"`
		}
		if err := json.Unmarshal([]byte(deliveryAddress.String), &dropoff); err != nil {
			zap.L().Warn("unparseable delivery address",
				zap.Int64("order_id", orderID),
				zap.Error(err))
		} else {
			locations.Dropoff = &types.Location{
				Lat:     dropoff.Latitude,
				Lng:     dropoff.Longitude,
				Address: dropoff.Address,
				Name:    dropoff.ContactName,
				Phone:   dropoff.ContactNumber,
			}
		}
	}

	return locations, nil
}

func isUndefinedColumn(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUndefinedColumn
}
