package model

import (
	"time"

	"voyago/shared/constant"
	gModel "voyago/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID             = "id"
	FieldBookingID      = "booking_id"
	FieldUserID         = "user_id"
	FieldStatus         = "status"
	FieldTransactionID  = "transaction_id"
	FieldRefundedAmount = "refunded_amount"
)

// Payment is one charge attempt against a booking. RefundedAmount
// accumulates across partial refunds and never exceeds Amount.
type Payment struct {
	ID                  string     `db:"id" json:"id"`
	BookingID           string     `db:"booking_id" json:"booking_id"`
	UserID              string     `db:"user_id" json:"user_id"`
	Amount              float64    `db:"amount" json:"amount"`
	Currency            string     `db:"currency" json:"currency"`
	Method              string     `db:"method" json:"method"`
	Provider            string     `db:"provider" json:"provider"`
	Status              string     `db:"status" json:"status"`
	TransactionID       *string    `db:"transaction_id" json:"transaction_id,omitempty"`
	ReceiptURL          *string    `db:"receipt_url" json:"receipt_url,omitempty"`
	RefundedAmount      float64    `db:"refunded_amount" json:"refunded_amount"`
	RefundReason        *string    `db:"refund_reason" json:"refund_reason,omitempty"`
	RefundStatus        *string    `db:"refund_status" json:"refund_status,omitempty"`
	RefundTransactionID *string    `db:"refund_transaction_id" json:"refund_transaction_id,omitempty"`
	RefundedAt          *time.Time `db:"refunded_at" json:"refunded_at,omitempty"`
	Notes               *string    `db:"notes" json:"notes,omitempty"`
	gModel.Metadata
}

// Remaining is the amount still refundable on this payment.
func (p *Payment) Remaining() float64 {
	return p.Amount - p.RefundedAmount
}

// Terminal reports whether the payment can no longer move to another
// lifecycle state through the charge path.
func (p *Payment) Terminal() bool {
	switch p.Status {
	case constant.PaymentStatusFailed, constant.PaymentStatusCancelled, constant.PaymentStatusRefunded:
		return true
	}

	return false
}
