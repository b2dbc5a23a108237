package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"voyago/config"
	kafkaMocks "voyago/infras/kafka/mocks"
	otelMocks "voyago/infras/otel/mocks"
	pgMocks "voyago/infras/postgres/mocks"
	bookingMocks "voyago/internal/domains/booking/mocks"
	"voyago/internal/domains/booking/model"
	"voyago/internal/domains/booking/model/dto"
	"voyago/internal/domains/booking/service"
	roomMocks "voyago/internal/domains/room/mocks"
	roomModel "voyago/internal/domains/room/model"
	pkgMocks "voyago/internal/domains/tourpackage/mocks"
	pkgModel "voyago/internal/domains/tourpackage/model"
	cacheMocks "voyago/shared/cache/mocks"
	"voyago/shared/constant"
	"voyago/shared/failure"
)

type bookingFixture struct {
	repo       *bookingMocks.MockBooking
	roomRepo   *roomMocks.MockRoom
	pkgRepo    *pkgMocks.MockTourPackage
	transactor *pgMocks.MockTransactor
	broker     *kafkaMocks.MockClient
	cache      *cacheMocks.MockRedisCache
	svc        service.Booking
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &bookingFixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		roomRepo:   roomMocks.NewMockRoom(ctrl),
		pkgRepo:    pkgMocks.NewMockTourPackage(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
		broker:     kafkaMocks.NewMockClient(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.roomRepo, f.pkgRepo, f.transactor, f.broker, &config.Config{}, f.cache, otelMocks.NewOtel())

	// Cache invalidation and event publishing run asynchronously after the
	// transaction commits.
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.broker.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f *bookingFixture) passthroughTx() {
	f.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func activeRoom() roomModel.Room {
	return roomModel.Room{
		ID:         "room-1",
		HotelID:    "hotel-owner-1",
		RoomNumber: "101",
		Name:       "Deluxe Sea View",
		BasePrice:  1000,
		Currency:   "INR",
		Available:  true,
		Active:     true,
	}
}

func activePackage() pkgModel.TourPackage {
	return pkgModel.TourPackage{
		ID:          "pkg-1",
		AgentID:     "agent-owner-1",
		Name:        "Golden Triangle",
		Destination: "Delhi, Agra, Jaipur",
		BasePrice:   10000,
		Currency:    "INR",
		Active:      true,
	}
}

func TestBookingService_Create_HotelPricing(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	// basePrice 1000 for 2 nights prices at 2000.
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").Return(activeRoom(), nil)
	f.roomRepo.EXPECT().BlockedDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any()).Return(nil, nil)
	f.roomRepo.EXPECT().
		ReserveDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Len(2), float64(1000)).
		Return(nil)

	var inserted model.Booking

	f.repo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
			inserted = b

			return nil
		})

	res, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
		BookingType:  constant.BookingTypeHotel,
		ItemID:       "room-1",
		CheckIn:      "2025-06-01",
		CheckOut:     "2025-06-03",
		Adults:       2,
		ContactName:  "Asha Rao",
		ContactEmail: "asha@example.com",
		ContactPhone: "+911234567890",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(2000), res.TotalAmount)
	assert.Equal(t, "INR", res.Currency)
	assert.Equal(t, 2, res.Nights)
	assert.Equal(t, constant.BookingStatusPending, inserted.Status)
	assert.Equal(t, constant.BookingPaymentPending, inserted.PaymentStatus)
	assert.Equal(t, "hotel-owner-1", inserted.ItemOwnerID)
	assert.True(t, strings.HasPrefix(inserted.ConfirmationNumber, "TRV"))
}

func TestBookingService_Create_PackagePricing(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	// basePrice 10000 with 2 adults and 1 child prices at 25000.
	f.pkgRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "pkg-1").Return(activePackage(), nil)
	f.pkgRepo.EXPECT().MatchStartDate(gomock.Any(), "pkg-1", gomock.Any()).Return(true, nil)
	f.pkgRepo.EXPECT().IncrementBookingCountTx(gomock.Any(), gomock.Any(), "pkg-1").Return(nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
		BookingType:  constant.BookingTypePackage,
		ItemID:       "pkg-1",
		CheckIn:      "2025-07-10",
		CheckOut:     "2025-07-15",
		Adults:       2,
		Children:     1,
		ContactName:  "Asha Rao",
		ContactEmail: "asha@example.com",
		ContactPhone: "+911234567890",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(25000), res.TotalAmount)
}

func TestBookingService_Create_RejectsInvalidDates(t *testing.T) {
	f := newBookingFixture(t)

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{name: "same day", checkIn: "2025-06-01", checkOut: "2025-06-01"},
		{name: "checkout before checkin", checkIn: "2025-06-03", checkOut: "2025-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
				BookingType:  constant.BookingTypeHotel,
				ItemID:       "room-1",
				CheckIn:      tt.checkIn,
				CheckOut:     tt.checkOut,
				Adults:       1,
				ContactName:  "Asha Rao",
				ContactEmail: "asha@example.com",
				ContactPhone: "+911234567890",
			})

			require.Error(t, err)
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestBookingService_Create_ConflictOnBlockedDates(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").Return(activeRoom(), nil)
	f.roomRepo.EXPECT().
		BlockedDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any()).
		Return([]time.Time{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}, nil)

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
		BookingType:  constant.BookingTypeHotel,
		ItemID:       "room-1",
		CheckIn:      "2025-06-01",
		CheckOut:     "2025-06-03",
		Adults:       1,
		ContactName:  "Asha Rao",
		ContactEmail: "asha@example.com",
		ContactPhone: "+911234567890",
	})

	require.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestBookingService_Create_UnknownRoom(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "missing").Return(roomModel.Room{}, nil)

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
		BookingType:  constant.BookingTypeHotel,
		ItemID:       "missing",
		CheckIn:      "2025-06-01",
		CheckOut:     "2025-06-02",
		Adults:       1,
		ContactName:  "Asha Rao",
		ContactEmail: "asha@example.com",
		ContactPhone: "+911234567890",
	})

	require.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestBookingService_Create_PackageWrongStartDate(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	f.pkgRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "pkg-1").Return(activePackage(), nil)
	f.pkgRepo.EXPECT().MatchStartDate(gomock.Any(), "pkg-1", gomock.Any()).Return(false, nil)

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
		BookingType:  constant.BookingTypePackage,
		ItemID:       "pkg-1",
		CheckIn:      "2025-07-11",
		CheckOut:     "2025-07-15",
		Adults:       1,
		ContactName:  "Asha Rao",
		ContactEmail: "asha@example.com",
		ContactPhone: "+911234567890",
	})

	require.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func pendingHotelBooking() model.Booking {
	return model.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		BookingType:   constant.BookingTypeHotel,
		ItemID:        "room-1",
		ItemOwnerID:   "hotel-owner-1",
		CheckIn:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		TotalAmount:   2000,
		Currency:      "INR",
		Status:        constant.BookingStatusPending,
		PaymentStatus: constant.BookingPaymentPending,
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		booking   model.Booking
		setupMock func(f *bookingFixture, booking model.Booking)
		wantCode  int
	}{
		{
			name:    "owner cancels pending hotel booking",
			ctx:     userContext("user-1", constant.RoleUser),
			booking: pendingHotelBooking(),
			setupMock: func(f *bookingFixture, booking model.Booking) {
				f.roomRepo.EXPECT().
					ReleaseDatesTx(gomock.Any(), gomock.Any(), booking.ItemID, gomock.Len(2)).
					Return(nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:    "hotel owner cancels booking for its room",
			ctx:     userContext("hotel-owner-1", constant.RoleHotel),
			booking: pendingHotelBooking(),
			setupMock: func(f *bookingFixture, booking model.Booking) {
				f.roomRepo.EXPECT().
					ReleaseDatesTx(gomock.Any(), gomock.Any(), booking.ItemID, gomock.Any()).
					Return(nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cancel is idempotent",
			ctx:  userContext("user-1", constant.RoleUser),
			booking: func() model.Booking {
				b := pendingHotelBooking()
				b.Status = constant.BookingStatusCancelled
				b.Cancelled = true

				return b
			}(),
			setupMock: func(f *bookingFixture, booking model.Booking) {},
		},
		{
			name:      "stranger cannot cancel",
			ctx:       userContext("someone-else", constant.RoleUser),
			booking:   pendingHotelBooking(),
			setupMock: func(f *bookingFixture, booking model.Booking) {},
			wantCode:  403,
		},
		{
			name: "completed booking cannot be cancelled",
			ctx:  userContext("user-1", constant.RoleUser),
			booking: func() model.Booking {
				b := pendingHotelBooking()
				b.Status = constant.BookingStatusCompleted

				return b
			}(),
			setupMock: func(f *bookingFixture, booking model.Booking) {},
			wantCode:  409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			f.passthroughTx()

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), tt.booking.ID).Return(tt.booking, nil)
			tt.setupMock(f, tt.booking)

			res, err := f.svc.Cancel(tt.ctx, dto.CancelBookingRequest{Reason: "change of plans"}, tt.booking.ID)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, constant.BookingStatusCancelled, res.Status)
			assert.True(t, res.Cancelled)
		})
	}
}

func TestBookingService_Cancel_PackageDecrementsCounter(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	booking := pendingHotelBooking()
	booking.BookingType = constant.BookingTypePackage
	booking.ItemID = "pkg-1"
	booking.ItemOwnerID = "agent-owner-1"

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), booking.ID).Return(booking, nil)
	f.pkgRepo.EXPECT().DecrementBookingCountTx(gomock.Any(), gomock.Any(), "pkg-1").Return(nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Cancel(userContext("agent-owner-1", constant.RoleAgent), dto.CancelBookingRequest{Reason: "tour called off"}, booking.ID)

	require.NoError(t, err)
	assert.Equal(t, constant.RefundStatusPending, *res.RefundStatus)
	assert.Equal(t, booking.TotalAmount, *res.RefundAmount)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		to        string
		wantCode  int
		expectTxn bool
	}{
		{name: "pending to confirmed", from: constant.BookingStatusPending, to: constant.BookingStatusConfirmed, expectTxn: true},
		{name: "confirmed to completed", from: constant.BookingStatusConfirmed, to: constant.BookingStatusCompleted, expectTxn: true},
		{name: "pending to completed rejected", from: constant.BookingStatusPending, to: constant.BookingStatusCompleted, wantCode: 409, expectTxn: true},
		{name: "cancelled is terminal", from: constant.BookingStatusCancelled, to: constant.BookingStatusConfirmed, wantCode: 409, expectTxn: true},
		{name: "cancel goes through cancel operation", from: constant.BookingStatusPending, to: constant.BookingStatusCancelled, wantCode: 400},
		{name: "paid is reserved for the payment workflow", from: constant.BookingStatusConfirmed, to: constant.BookingStatusPaid, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			f.passthroughTx()

			if tt.expectTxn {
				booking := pendingHotelBooking()
				booking.Status = tt.from

				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), booking.ID).Return(booking, nil)

				if tt.wantCode == 0 {
					f.repo.EXPECT().
						UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
							assert.Equal(t, tt.to, fields[model.FieldStatus])

							return nil
						})
				}
			}

			err := f.svc.UpdateStatus(userContext("admin-1", constant.RoleAdmin), dto.UpdateBookingStatusRequest{Status: tt.to}, "booking-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_UpdateStatus_Authorization(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		wantCode int
	}{
		{name: "owner confirms own booking", ctx: userContext("user-1", constant.RoleUser)},
		{name: "owning hotel confirms booking for its room", ctx: userContext("hotel-owner-1", constant.RoleHotel)},
		{name: "other hotel is rejected", ctx: userContext("rival-hotel-99", constant.RoleHotel), wantCode: 403},
		{name: "agent has no say over hotel bookings", ctx: userContext("agent-owner-1", constant.RoleAgent), wantCode: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			f.passthroughTx()

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(pendingHotelBooking(), nil)

			if tt.wantCode == 0 {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			err := f.svc.UpdateStatus(tt.ctx, dto.UpdateBookingStatusRequest{Status: constant.BookingStatusConfirmed}, "booking-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func confirmationCollision() *pq.Error {
	return &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: "bookings_confirmation_number_key"}
}

func hotelBookingRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		BookingType:  constant.BookingTypeHotel,
		ItemID:       "room-1",
		CheckIn:      "2025-06-01",
		CheckOut:     "2025-06-03",
		Adults:       2,
		ContactName:  "Asha Rao",
		ContactEmail: "asha@example.com",
		ContactPhone: "+911234567890",
	}
}

func TestBookingService_Create_ConfirmationCollisionRetries(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	// The collision aborts the whole transaction, so the reservation work
	// runs again on the retry.
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").Return(activeRoom(), nil).Times(2)
	f.roomRepo.EXPECT().BlockedDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any()).Return(nil, nil).Times(2)
	f.roomRepo.EXPECT().ReserveDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), float64(1000)).Return(nil).Times(2)

	var numbers []string

	gomock.InOrder(
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				numbers = append(numbers, b.ConfirmationNumber)

				return confirmationCollision()
			}),
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				numbers = append(numbers, b.ConfirmationNumber)

				return nil
			}),
	)

	res, err := f.svc.Create(userContext("user-1", constant.RoleUser), hotelBookingRequest())

	require.NoError(t, err)
	require.Len(t, numbers, 2)
	assert.True(t, strings.HasPrefix(numbers[1], "TRV"))
	assert.Equal(t, numbers[1], res.ConfirmationNumber)
}

func TestBookingService_Create_ConfirmationCollisionExhausted(t *testing.T) {
	f := newBookingFixture(t)
	f.passthroughTx()

	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").Return(activeRoom(), nil).Times(5)
	f.roomRepo.EXPECT().BlockedDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any()).Return(nil, nil).Times(5)
	f.roomRepo.EXPECT().ReserveDatesTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), float64(1000)).Return(nil).Times(5)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmationCollision()).Times(5)

	_, err := f.svc.Create(userContext("user-1", constant.RoleUser), hotelBookingRequest())

	require.Error(t, err)

	var pqErr *pq.Error

	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, constant.PqErrorCodeUniqueViolation, string(pqErr.Code))
}

func TestBookingService_Get_RoleScoped(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		wantCode int
	}{
		{name: "owner reads own booking", ctx: userContext("user-1", constant.RoleUser)},
		{name: "admin reads any booking", ctx: userContext("admin-1", constant.RoleAdmin)},
		{name: "hotel owner reads booking for its room", ctx: userContext("hotel-owner-1", constant.RoleHotel)},
		{name: "stranger is rejected", ctx: userContext("someone-else", constant.RoleUser), wantCode: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingHotelBooking(), nil)

			res, err := f.svc.Get(tt.ctx, "booking-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "booking-1", res.ID)
		})
	}
}
