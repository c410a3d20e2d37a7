package db

import (
	"database/sql"
	"errors"
	"fmt"
	"gateway/types"

	"go.uber.org/zap"
)

var ErrPaymentNotFound = errors.New("payment not found")

// CreatePayment records a pending gateway payment for a checkout session.
func CreatePayment(orderID, email string, amount float64, gateway, rawResponse string) (int64, error) {
	var paymentID int64
	if err := GetConn().QueryRow(
		`insert into payments(order_id, email, amount, status, gateway, raw_response)
		values ($1, $2, $3, 'pending', $4, $5) returning id`,
		orderID, email, amount, gateway, rawResponse).Scan(&paymentID); err != nil {
		return 0, fmt.Errorf("create payment: %w", err)
	}

	zap.L().Info("payment created",
		zap.Int64("payment_id", paymentID),
		zap.String("order_id", orderID),
		zap.Float64("amount", amount))

	return paymentID, nil
}

// UpdatePaymentStatus applies a gateway callback to the payment row.
// Empty status or payref leave the stored values untouched.
func UpdatePaymentStatus(orderID, status, payrefID, rawResponse string) error {
	res, err := GetConn().Exec(
		`update payments
		set status = coalesce(nullif($1, ''), status),
		    payref_id = coalesce(nullif($2, ''), payref_id),
		    raw_response = $3,
		    mtime = now()
		where order_id = $4`,
		status, payrefID, rawResponse, orderID)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	zap.L().Info("payment status updated",
		zap.String("order_id", orderID),
		zap.String("status", status),
		zap.String("payref_id", payrefID))

	return nil
}

// GetPaymentByOrderID loads the payment record for a checkout order id.
func GetPaymentByOrderID(orderID string) (*types.Payment, error) {
	var (
		payment types.Payment
		payref  sql.NullString
	)

	err := GetConn().QueryRow(
		`select id, order_id, email, amount, status, gateway, payref_id
		from payments where order_id = $1`, orderID).
		Scan(&payment.ID, &payment.OrderID, &payment.Email, &payment.Amount,
			&payment.Status, &payment.Gateway, &payref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	payment.PayrefID = payref.String

	return &payment, nil
}
