package dto

import (
	"time"

	"voyago/internal/domains/payment/model"
	"voyago/shared"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
)

type CreatePaymentRequest struct {
	BookingID string  `json:"booking_id" validate:"required"`
	Amount    float64 `json:"amount"     validate:"required,gt=0"`
	Method    string  `json:"method"     validate:"required,oneof=card upi netbanking wallet"`
	CardToken string  `json:"card_token" validate:"omitempty,max=100"`
}

type RefundPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Reason string  `json:"reason" validate:"required,max=500"`
}

type UpdatePaymentStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending processing completed failed cancelled refunded partially_refunded"`
	Notes  *string `json:"notes"  validate:"omitempty,max=1000"`
}

// PaymentResponse is the admin projection. ForRole strips admin-only
// fields for other callers.
type PaymentResponse struct {
	ID                  string     `json:"id"`
	BookingID           string     `json:"booking_id"`
	UserID              string     `json:"user_id"`
	Amount              float64    `json:"amount"`
	Currency            string     `json:"currency"`
	Method              string     `json:"method"`
	Provider            string     `json:"provider"`
	Status              string     `json:"status"`
	TransactionID       *string    `json:"transaction_id,omitempty"`
	ReceiptURL          *string    `json:"receipt_url,omitempty"`
	RefundedAmount      float64    `json:"refunded_amount"`
	RefundReason        *string    `json:"refund_reason,omitempty"`
	RefundStatus        *string    `json:"refund_status,omitempty"`
	RefundTransactionID *string    `json:"refund_transaction_id,omitempty"`
	RefundedAt          *time.Time `json:"refunded_at,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(mod model.Payment) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.UserID = mod.UserID
	r.Amount = mod.Amount
	r.Currency = mod.Currency
	r.Method = mod.Method
	r.Provider = mod.Provider
	r.Status = mod.Status
	r.TransactionID = mod.TransactionID
	r.ReceiptURL = mod.ReceiptURL
	r.RefundedAmount = mod.RefundedAmount
	r.RefundReason = mod.RefundReason
	r.RefundStatus = mod.RefundStatus
	r.RefundTransactionID = mod.RefundTransactionID
	r.RefundedAt = mod.RefundedAt
	r.Notes = mod.Notes
	r.Metadata.FromModel(mod.Metadata)
}

func (r *PaymentResponse) ForRole(role string) {
	if role != constant.RoleAdmin {
		r.Notes = nil
	}
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int, role string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
		r.Payments[i].ForRole(role)
	}
}

// PaymentEvent is the payload published to the payment lifecycle topic.
type PaymentEvent struct {
	Event          string    `json:"event"`
	PaymentID      string    `json:"payment_id"`
	BookingID      string    `json:"booking_id"`
	UserID         string    `json:"user_id"`
	Amount         float64   `json:"amount"`
	RefundedAmount float64   `json:"refunded_amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
