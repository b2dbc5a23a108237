package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"voyago/config"
	kafkaMocks "voyago/infras/kafka/mocks"
	otelMocks "voyago/infras/otel/mocks"
	"voyago/infras/paymentgateway"
	gatewayMocks "voyago/infras/paymentgateway/mocks"
	pgMocks "voyago/infras/postgres/mocks"
	bookingMocks "voyago/internal/domains/booking/mocks"
	bookingModel "voyago/internal/domains/booking/model"
	paymentMocks "voyago/internal/domains/payment/mocks"
	"voyago/internal/domains/payment/model"
	"voyago/internal/domains/payment/model/dto"
	"voyago/internal/domains/payment/service"
	cacheMocks "voyago/shared/cache/mocks"
	"voyago/shared/constant"
	"voyago/shared/failure"
)

type paymentFixture struct {
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	gateway     *gatewayMocks.MockGateway
	transactor  *pgMocks.MockTransactor
	broker      *kafkaMocks.MockClient
	cache       *cacheMocks.MockRedisCache
	svc         service.Payment
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &paymentFixture{
		repo:        paymentMocks.NewMockPayment(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		gateway:     gatewayMocks.NewMockGateway(ctrl),
		transactor:  pgMocks.NewMockTransactor(ctrl),
		broker:      kafkaMocks.NewMockClient(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Payment.Provider = "sandboxpay"

	f.svc = service.New(f.repo, f.bookingRepo, f.gateway, f.transactor, f.broker, cfg, f.cache, otelMocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.broker.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()

	return f
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func payableBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:                 "booking-1",
		UserID:             "user-1",
		BookingType:        constant.BookingTypeHotel,
		TotalAmount:        2000,
		Currency:           "INR",
		Status:             constant.BookingStatusConfirmed,
		PaymentStatus:      constant.BookingPaymentPending,
		ConfirmationNumber: "TRV2506011204581234",
	}
}

func completedPayment() model.Payment {
	txn := "txn-1"

	return model.Payment{
		ID:            "payment-1",
		BookingID:     "booking-1",
		UserID:        "user-1",
		Amount:        2000,
		Currency:      "INR",
		Method:        "card",
		Provider:      "sandboxpay",
		Status:        constant.PaymentStatusCompleted,
		TransactionID: &txn,
	}
}

func TestPaymentService_Create(t *testing.T) {
	f := newPaymentFixture(t)

	f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payableBooking(), nil)
	f.gateway.EXPECT().
		Charge(gomock.Any(), gomock.Any()).
		Return(paymentgateway.ChargeResult{TransactionID: "txn-1", ReceiptURL: "https://pay.example.com/r/txn-1"}, nil)
	f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(payableBooking(), nil)
	f.repo.EXPECT().HasOpenPaymentTx(gomock.Any(), gomock.Any(), "booking-1").Return(false, nil)

	var inserted model.Payment

	f.repo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
			inserted = p

			return nil
		})
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, constant.BookingPaymentPaid, fields[bookingModel.FieldPaymentStatus])
			assert.Equal(t, constant.BookingStatusPaid, fields[bookingModel.FieldStatus])

			return nil
		})

	res, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreatePaymentRequest{
		BookingID: "booking-1",
		Amount:    2000,
		Method:    "card",
	})

	require.NoError(t, err)
	assert.Equal(t, constant.PaymentStatusCompleted, res.Status)
	assert.Equal(t, "txn-1", *res.TransactionID)
	assert.Equal(t, constant.PaymentStatusCompleted, inserted.Status)
	assert.Equal(t, float64(0), inserted.RefundedAmount)
}

func TestPaymentService_Create_PendingBookingKeepsStatus(t *testing.T) {
	f := newPaymentFixture(t)

	booking := payableBooking()
	booking.Status = constant.BookingStatusPending

	f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
	f.gateway.EXPECT().
		Charge(gomock.Any(), gomock.Any()).
		Return(paymentgateway.ChargeResult{TransactionID: "txn-1"}, nil)
	f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)
	f.repo.EXPECT().HasOpenPaymentTx(gomock.Any(), gomock.Any(), "booking-1").Return(false, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	// Only confirmed bookings advance to paid; a pending one keeps its
	// status while payment_status still records the payment.
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, constant.BookingStatusPending, fields[bookingModel.FieldStatus])
			assert.Equal(t, constant.BookingPaymentPaid, fields[bookingModel.FieldPaymentStatus])

			return nil
		})

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreatePaymentRequest{
		BookingID: "booking-1",
		Amount:    2000,
		Method:    "card",
	})

	require.NoError(t, err)
}

func TestPaymentService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		amount   float64
		booking  func() bookingModel.Booking
		wantCode int
	}{
		{
			name:   "unknown booking",
			ctx:    userContext("user-1", constant.RoleUser),
			amount: 2000,
			booking: func() bookingModel.Booking {
				return bookingModel.Booking{}
			},
			wantCode: 404,
		},
		{
			name:     "stranger cannot pay",
			ctx:      userContext("someone-else", constant.RoleUser),
			amount:   2000,
			booking:  payableBooking,
			wantCode: 403,
		},
		{
			name:   "cancelled booking",
			ctx:    userContext("user-1", constant.RoleUser),
			amount: 2000,
			booking: func() bookingModel.Booking {
				b := payableBooking()
				b.Cancelled = true

				return b
			},
			wantCode: 409,
		},
		{
			name:     "amount must equal booking total",
			ctx:      userContext("user-1", constant.RoleUser),
			amount:   1500,
			booking:  payableBooking,
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture(t)

			f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking(), nil)

			_, err := f.svc.Create(tt.ctx, dto.CreatePaymentRequest{
				BookingID: "booking-1",
				Amount:    tt.amount,
				Method:    "card",
			})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestPaymentService_Create_ProviderFailureLeavesNothing(t *testing.T) {
	f := newPaymentFixture(t)

	f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payableBooking(), nil)
	f.gateway.EXPECT().
		Charge(gomock.Any(), gomock.Any()).
		Return(paymentgateway.ChargeResult{}, errors.New("provider timeout"))

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreatePaymentRequest{
		BookingID: "booking-1",
		Amount:    2000,
		Method:    "card",
	})

	require.Error(t, err)
	assert.Equal(t, 422, failure.GetCode(err))
}

func TestPaymentService_Create_DuplicateChargeIsReversed(t *testing.T) {
	f := newPaymentFixture(t)

	f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payableBooking(), nil)
	f.gateway.EXPECT().
		Charge(gomock.Any(), gomock.Any()).
		Return(paymentgateway.ChargeResult{TransactionID: "txn-1"}, nil)
	f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(payableBooking(), nil)
	f.repo.EXPECT().HasOpenPaymentTx(gomock.Any(), gomock.Any(), "booking-1").Return(true, nil)

	// The charge already happened, so losing the race must refund it.
	f.gateway.EXPECT().
		Refund(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req paymentgateway.RefundRequest) (paymentgateway.RefundResult, error) {
			assert.Equal(t, "txn-1", req.TransactionID)
			assert.Equal(t, float64(2000), req.Amount)

			return paymentgateway.RefundResult{RefundID: "rfn-1"}, nil
		})

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreatePaymentRequest{
		BookingID: "booking-1",
		Amount:    2000,
		Method:    "card",
	})

	require.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestPaymentService_Refund_Partial(t *testing.T) {
	f := newPaymentFixture(t)

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "payment-1").Return(completedPayment(), nil)
	f.gateway.EXPECT().
		Refund(gomock.Any(), gomock.Any()).
		Return(paymentgateway.RefundResult{RefundID: "rfn-1", Status: "succeeded"}, nil)
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, constant.PaymentStatusPartiallyRefunded, fields[model.FieldStatus])
			assert.Equal(t, float64(500), fields[model.FieldRefundedAmount])

			return nil
		})
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, constant.BookingPaymentPartiallyRefunded, fields[bookingModel.FieldPaymentStatus])

			return nil
		})

	res, err := f.svc.Refund(userContext("user-1", constant.RoleUser), dto.RefundPaymentRequest{Amount: 500, Reason: "late checkout waived"}, "payment-1")

	require.NoError(t, err)
	assert.Equal(t, constant.PaymentStatusPartiallyRefunded, res.Status)
	assert.Equal(t, float64(500), res.RefundedAmount)
}

func TestPaymentService_Refund_CompletesOnFullAmount(t *testing.T) {
	f := newPaymentFixture(t)

	payment := completedPayment()
	payment.Status = constant.PaymentStatusPartiallyRefunded
	payment.RefundedAmount = 1500

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "payment-1").Return(payment, nil)
	f.gateway.EXPECT().
		Refund(gomock.Any(), gomock.Any()).
		Return(paymentgateway.RefundResult{RefundID: "rfn-2", Status: "succeeded"}, nil)
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, constant.PaymentStatusRefunded, fields[model.FieldStatus])
			assert.Equal(t, float64(2000), fields[model.FieldRefundedAmount])

			return nil
		})
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
			assert.Equal(t, constant.BookingPaymentRefunded, fields[bookingModel.FieldPaymentStatus])

			return nil
		})

	res, err := f.svc.Refund(userContext("user-1", constant.RoleUser), dto.RefundPaymentRequest{Amount: 500, Reason: "trip cut short"}, "payment-1")

	require.NoError(t, err)
	assert.Equal(t, constant.PaymentStatusRefunded, res.Status)
}

func TestPaymentService_Refund_CumulativeGuard(t *testing.T) {
	tests := []struct {
		name           string
		refundedSoFar  float64
		status         string
		requestAmount  float64
		wantCode       int
	}{
		{name: "exceeds full amount", refundedSoFar: 0, status: constant.PaymentStatusCompleted, requestAmount: 2500, wantCode: 400},
		{name: "exceeds remaining after partial refund", refundedSoFar: 1500, status: constant.PaymentStatusPartiallyRefunded, requestAmount: 600, wantCode: 400},
		{name: "fully refunded payment", refundedSoFar: 2000, status: constant.PaymentStatusRefunded, requestAmount: 1, wantCode: 409},
		{name: "pending payment", refundedSoFar: 0, status: constant.PaymentStatusPending, requestAmount: 100, wantCode: 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture(t)

			payment := completedPayment()
			payment.Status = tt.status
			payment.RefundedAmount = tt.refundedSoFar

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "payment-1").Return(payment, nil)

			_, err := f.svc.Refund(userContext("user-1", constant.RoleUser), dto.RefundPaymentRequest{Amount: tt.requestAmount, Reason: "requested"}, "payment-1")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestPaymentService_Refund_ProviderFailureLeavesNothing(t *testing.T) {
	f := newPaymentFixture(t)

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "payment-1").Return(completedPayment(), nil)
	f.gateway.EXPECT().
		Refund(gomock.Any(), gomock.Any()).
		Return(paymentgateway.RefundResult{}, errors.New("provider unavailable"))

	_, err := f.svc.Refund(userContext("user-1", constant.RoleUser), dto.RefundPaymentRequest{Amount: 500, Reason: "requested"}, "payment-1")

	require.Error(t, err)
	assert.Equal(t, 422, failure.GetCode(err))
}

func TestPaymentService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		from     string
		to       string
		wantCode int
	}{
		{name: "pending to processing", role: constant.RoleAdmin, from: constant.PaymentStatusPending, to: constant.PaymentStatusProcessing},
		{name: "processing to completed", role: constant.RoleAdmin, from: constant.PaymentStatusProcessing, to: constant.PaymentStatusCompleted},
		{name: "completed to refunded", role: constant.RoleAdmin, from: constant.PaymentStatusCompleted, to: constant.PaymentStatusRefunded},
		{name: "failed is terminal", role: constant.RoleAdmin, from: constant.PaymentStatusFailed, to: constant.PaymentStatusPending, wantCode: 409},
		{name: "completed cannot go back to pending", role: constant.RoleAdmin, from: constant.PaymentStatusCompleted, to: constant.PaymentStatusPending, wantCode: 409},
		{name: "non-admin rejected", role: constant.RoleUser, from: constant.PaymentStatusPending, to: constant.PaymentStatusProcessing, wantCode: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture(t)

			if tt.role == constant.RoleAdmin {
				payment := completedPayment()
				payment.Status = tt.from

				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "payment-1").Return(payment, nil)

				if tt.wantCode == 0 {
					f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				}
			}

			err := f.svc.UpdateStatus(userContext("admin-1", tt.role), dto.UpdatePaymentStatusRequest{Status: tt.to}, "payment-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestPaymentService_Get_NotesAreAdminOnly(t *testing.T) {
	notes := "chargeback under review"

	tests := []struct {
		name      string
		ctx       context.Context
		wantNotes bool
	}{
		{name: "admin sees notes", ctx: userContext("admin-1", constant.RoleAdmin), wantNotes: true},
		{name: "owner does not see notes", ctx: userContext("user-1", constant.RoleUser), wantNotes: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture(t)

			payment := completedPayment()
			payment.Notes = &notes

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payment, nil)

			res, err := f.svc.Get(tt.ctx, "payment-1")

			require.NoError(t, err)

			if tt.wantNotes {
				require.NotNil(t, res.Notes)
				assert.Equal(t, notes, *res.Notes)
			} else {
				assert.Nil(t, res.Notes)
			}
		})
	}
}
