package dto

import (
	"time"

	"voyago/internal/domains/booking/model"
	"voyago/shared"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
)

type CreateBookingRequest struct {
	BookingType  string `json:"booking_type"  validate:"required,oneof=hotel package travel"`
	ItemID       string `json:"item_id"       validate:"required"`
	CheckIn      string `json:"check_in"      validate:"required,datetime=2006-01-02"`
	CheckOut     string `json:"check_out"     validate:"required,datetime=2006-01-02"`
	Adults       int    `json:"adults"        validate:"required,gte=1"`
	Children     int    `json:"children"      validate:"gte=0"`
	ContactName  string `json:"contact_name"  validate:"required,max=100"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"required,max=20"`
}

// Dates returns the parsed check-in and check-out. Validation has
// already guaranteed the layout.
func (c *CreateBookingRequest) Dates() (checkIn, checkOut time.Time) {
	checkIn, _ = time.Parse(constant.CalendarDateFormat, c.CheckIn)
	checkOut, _ = time.Parse(constant.CalendarDateFormat, c.CheckOut)

	return checkIn, checkOut
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed paid completed cancelled"`
}

type BookingResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	BookingType        string     `json:"booking_type"`
	ItemID             string     `json:"item_id"`
	ItemName           string     `json:"item_name"`
	ItemUnitPrice      float64    `json:"item_unit_price"`
	RoomNumber         *string    `json:"room_number,omitempty"`
	Destination        *string    `json:"destination,omitempty"`
	CheckIn            string     `json:"check_in"`
	CheckOut           string     `json:"check_out"`
	Nights             int        `json:"nights"`
	Adults             int        `json:"adults"`
	Children           int        `json:"children"`
	TotalAmount        float64    `json:"total_amount"`
	Currency           string     `json:"currency"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	ConfirmationNumber string     `json:"confirmation_number"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	Cancelled          bool       `json:"cancelled"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelReason       *string    `json:"cancel_reason,omitempty"`
	RefundAmount       *float64   `json:"refund_amount,omitempty"`
	RefundStatus       *string    `json:"refund_status,omitempty"`
	ContactName        string     `json:"contact_name"`
	ContactEmail       string     `json:"contact_email"`
	ContactPhone       string     `json:"contact_phone"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.BookingType = mod.BookingType
	r.ItemID = mod.ItemID
	r.ItemName = mod.ItemName
	r.ItemUnitPrice = mod.ItemUnitPrice
	r.RoomNumber = mod.RoomNumber
	r.Destination = mod.Destination
	r.CheckIn = mod.CheckIn.Format(constant.CalendarDateFormat)
	r.CheckOut = mod.CheckOut.Format(constant.CalendarDateFormat)
	r.Nights = mod.Nights()
	r.Adults = mod.Adults
	r.Children = mod.Children
	r.TotalAmount = mod.TotalAmount
	r.Currency = mod.Currency
	r.Status = mod.Status
	r.PaymentStatus = mod.PaymentStatus
	r.ConfirmationNumber = mod.ConfirmationNumber
	r.PaidAt = mod.PaidAt
	r.Cancelled = mod.Cancelled
	r.CancelledAt = mod.CancelledAt
	r.CancelReason = mod.CancelReason
	r.RefundAmount = mod.RefundAmount
	r.RefundStatus = mod.RefundStatus
	r.ContactName = mod.ContactName
	r.ContactEmail = mod.ContactEmail
	r.ContactPhone = mod.ContactPhone
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the payload published to the booking lifecycle topic.
type BookingEvent struct {
	Event              string    `json:"event"`
	BookingID          string    `json:"booking_id"`
	UserID             string    `json:"user_id"`
	BookingType        string    `json:"booking_type"`
	ConfirmationNumber string    `json:"confirmation_number"`
	TotalAmount        float64   `json:"total_amount"`
	Currency           string    `json:"currency"`
	OccurredAt         time.Time `json:"occurred_at"`
}
