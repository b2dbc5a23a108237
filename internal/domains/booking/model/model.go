package model

import (
	"time"

	gModel "voyago/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldUserID             = "user_id"
	FieldBookingType        = "booking_type"
	FieldItemID             = "item_id"
	FieldItemOwnerID        = "item_owner_id"
	FieldStatus             = "status"
	FieldPaymentStatus      = "payment_status"
	FieldConfirmationNumber = "confirmation_number"
	FieldCheckIn            = "check_in"
	FieldCheckOut           = "check_out"
	FieldCancelled          = "cancelled"
)

// Booking snapshots the booked item's name, owner and unit price at
// creation time so later item edits never change history.
type Booking struct {
	ID                 string     `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"user_id"`
	BookingType        string     `db:"booking_type" json:"booking_type"`
	ItemID             string     `db:"item_id" json:"item_id"`
	ItemOwnerID        string     `db:"item_owner_id" json:"item_owner_id"`
	ItemName           string     `db:"item_name" json:"item_name"`
	ItemUnitPrice      float64    `db:"item_unit_price" json:"item_unit_price"`
	RoomNumber         *string    `db:"room_number" json:"room_number,omitempty"`
	Destination        *string    `db:"destination" json:"destination,omitempty"`
	CheckIn            time.Time  `db:"check_in" json:"check_in"`
	CheckOut           time.Time  `db:"check_out" json:"check_out"`
	Adults             int        `db:"adults" json:"adults"`
	Children           int        `db:"children" json:"children"`
	TotalAmount        float64    `db:"total_amount" json:"total_amount"`
	Currency           string     `db:"currency" json:"currency"`
	Status             string     `db:"status" json:"status"`
	PaymentStatus      string     `db:"payment_status" json:"payment_status"`
	ConfirmationNumber string     `db:"confirmation_number" json:"confirmation_number"`
	PaidAt             *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	Cancelled          bool       `db:"cancelled" json:"cancelled"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelReason       *string    `db:"cancel_reason" json:"cancel_reason,omitempty"`
	RefundAmount       *float64   `db:"refund_amount" json:"refund_amount,omitempty"`
	RefundStatus       *string    `db:"refund_status" json:"refund_status,omitempty"`
	ContactName        string     `db:"contact_name" json:"contact_name"`
	ContactEmail       string     `db:"contact_email" json:"contact_email"`
	ContactPhone       string     `db:"contact_phone" json:"contact_phone"`
	gModel.Metadata
}

// Nights is the whole-day span between check-in and check-out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
