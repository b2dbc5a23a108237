package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"voyago/config"
	"voyago/infras/kafka"
	"voyago/infras/otel"
	"voyago/infras/postgres"
	"voyago/internal/domains/booking/model"
	"voyago/internal/domains/booking/model/dto"
	"voyago/internal/domains/booking/repository"
	roomRepo "voyago/internal/domains/room/repository"
	pkgRepo "voyago/internal/domains/tourpackage/repository"
	"voyago/shared"
	"voyago/shared/cache"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/failure"
	gModel "voyago/shared/model"
	"voyago/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	confirmationPrefix      = "TRV"
	confirmationTimeLayout  = "060102150405"
	confirmationMaxAttempts = 5

	eventBookingCreated   = "booking.created"
	eventBookingCancelled = "booking.cancelled"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) error
	Cancel(ctx context.Context, req dto.CancelBookingRequest, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	pkgRepo    pkgRepo.TourPackage
	transactor postgres.Transactor
	broker     kafka.Client
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	pkgRepo pkgRepo.TourPackage,
	transactor postgres.Transactor,
	broker kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		pkgRepo:    pkgRepo,
		transactor: transactor,
		broker:     broker,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut := req.Dates()

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights <= 0 {
		return res, failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	var booking model.Booking

	// A confirmation number collision aborts the whole transaction, so the
	// retry re-runs it with a fresh number instead of retrying the insert.
	for attempt := 1; attempt <= confirmationMaxAttempts; attempt++ {
		err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
			booking, err = s.buildBooking(ctx, tx, req, user, checkIn, checkOut, nights)
			if err != nil {
				return err
			}

			booking.ConfirmationNumber = newConfirmationNumber()

			return s.repo.InsertTx(ctx, tx, booking)
		})
		if isConfirmationCollision(err) {
			log.Warn().Int("attempt", attempt).Msg("confirmation number collision, regenerating")

			continue
		}

		break
	}

	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to create booking")
		}

		return res, err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishEvent(c, eventBookingCreated, booking)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	res.FromModel(booking)

	return res, nil
}

// buildBooking resolves the inventory item under the caller's transaction,
// reserves its capacity and assembles the booking row. The item row stays
// locked until the transaction ends.
func (s *serviceImpl) buildBooking(
	ctx context.Context,
	tx *sqlx.Tx,
	req dto.CreateBookingRequest,
	user string,
	checkIn, checkOut time.Time,
	nights int,
) (model.Booking, error) {
	booking := model.Booking{
		ID:            uuid.NewString(),
		UserID:        user,
		BookingType:   req.BookingType,
		ItemID:        req.ItemID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Adults:        req.Adults,
		Children:      req.Children,
		Status:        constant.BookingStatusPending,
		PaymentStatus: constant.BookingPaymentPending,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	switch req.BookingType {
	case constant.BookingTypePackage:
		pkg, err := s.pkgRepo.GetForUpdateTx(ctx, tx, req.ItemID)
		if err != nil {
			return booking, err // nolint:wrapcheck
		}

		if pkg.ID == constant.Empty || !pkg.Active {
			return booking, failure.NotFound("tour package not found") // nolint:wrapcheck
		}

		match, err := s.pkgRepo.MatchStartDate(ctx, pkg.ID, checkIn)
		if err != nil {
			return booking, err // nolint:wrapcheck
		}

		if !match {
			return booking, failure.Conflict("tour package does not depart on the requested date") // nolint:wrapcheck
		}

		if err := s.pkgRepo.IncrementBookingCountTx(ctx, tx, pkg.ID); err != nil {
			return booking, err // nolint:wrapcheck
		}

		booking.ItemOwnerID = pkg.AgentID
		booking.ItemName = pkg.Name
		booking.ItemUnitPrice = pkg.BasePrice
		booking.Destination = &pkg.Destination
		booking.Currency = pkg.Currency
		booking.TotalAmount = pkg.BasePrice * (float64(req.Adults) + 0.5*float64(req.Children))

	default:
		// hotel and travel bookings are both room-backed.
		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, req.ItemID)
		if err != nil {
			return booking, err // nolint:wrapcheck
		}

		if room.ID == constant.Empty || !room.Active {
			return booking, failure.NotFound("room not found") // nolint:wrapcheck
		}

		if !room.Available {
			return booking, failure.Conflict("room is not available") // nolint:wrapcheck
		}

		dates := nightsBetween(checkIn, checkOut)

		blocked, err := s.roomRepo.BlockedDatesTx(ctx, tx, room.ID, dates)
		if err != nil {
			return booking, err // nolint:wrapcheck
		}

		if len(blocked) > 0 {
			return booking, failure.Conflict("room is not available for the selected dates") // nolint:wrapcheck
		}

		if err := s.roomRepo.ReserveDatesTx(ctx, tx, room.ID, dates, room.BasePrice); err != nil {
			return booking, err // nolint:wrapcheck
		}

		booking.ItemOwnerID = room.HotelID
		booking.ItemName = room.Name
		booking.ItemUnitPrice = room.BasePrice
		booking.RoomNumber = &room.RoomNumber
		booking.Currency = room.Currency
		booking.TotalAmount = room.BasePrice * float64(nights)
	}

	return booking, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = s.scopeFilter(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = s.scopeFilter(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err := authorize(ctx, booking); err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	switch req.Status {
	case constant.BookingStatusCancelled:
		return failure.BadRequestFromString("use the cancel operation to cancel a booking") // nolint:wrapcheck
	case constant.BookingStatusPaid:
		return failure.BadRequestFromString("payment status is advanced by the payment workflow") // nolint:wrapcheck
	}

	err := s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if err := authorize(ctx, booking); err != nil {
			return err // nolint:wrapcheck
		}

		if !statusTransitionAllowed(booking.Status, req.Status) {
			return failure.Conflict(fmt.Sprintf("cannot change booking status from %s to %s", booking.Status, req.Status)) // nolint:wrapcheck
		}

		return s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:     req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to update booking status")
		}

		return err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var (
		booking          model.Booking
		alreadyCancelled bool
	)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err = s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if err := authorize(ctx, booking); err != nil {
			return err // nolint:wrapcheck
		}

		// Cancelling twice must not release inventory twice.
		if booking.Cancelled {
			alreadyCancelled = true

			return nil
		}

		if booking.Status != constant.BookingStatusPending && booking.Status != constant.BookingStatusConfirmed {
			return failure.Conflict(fmt.Sprintf("booking in status %s can no longer be cancelled", booking.Status)) // nolint:wrapcheck
		}

		switch booking.BookingType {
		case constant.BookingTypePackage:
			if err := s.pkgRepo.DecrementBookingCountTx(ctx, tx, booking.ItemID); err != nil {
				return err // nolint:wrapcheck
			}
		default:
			dates := nightsBetween(booking.CheckIn, booking.CheckOut)
			if err := s.roomRepo.ReleaseDatesTx(ctx, tx, booking.ItemID, dates); err != nil {
				return err // nolint:wrapcheck
			}
		}

		now := timezone.Now()
		booking.Status = constant.BookingStatusCancelled
		booking.Cancelled = true
		booking.CancelledAt = &now
		booking.CancelReason = &req.Reason
		booking.RefundAmount = &booking.TotalAmount
		refundStatus := constant.RefundStatusPending
		booking.RefundStatus = &refundStatus

		return s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:      constant.BookingStatusCancelled,
			model.FieldCancelled:   true,
			"cancelled_at":         now,
			"cancel_reason":        req.Reason,
			"refund_amount":        booking.TotalAmount,
			"refund_status":        constant.RefundStatusPending,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to cancel booking")
		}

		return res, err // nolint:wrapcheck
	}

	if !alreadyCancelled {
		go func() {
			c := context.WithoutCancel(ctx)

			s.publishEvent(c, eventBookingCancelled, booking)

			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}

			shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
			shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		}()
	}

	res.FromModel(booking)

	return res, nil
}

// scopeFilter narrows list queries to the caller's own bookings unless the
// caller is an admin.
func (s *serviceImpl) scopeFilter(ctx context.Context, filter gDto.FilterGroup) gDto.FilterGroup {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleAdmin {
		return filter
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	ownFilter := gDto.Filter{
		Field:    model.FieldUserID,
		Operator: gDto.FilterOperatorEq,
		Value:    user,
		Table:    model.TableName,
	}

	if len(filter.Filters) == 0 {
		return gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters:  []any{ownFilter},
		}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{ownFilter, filter},
	}
}

func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking model.Booking) {
	payload := dto.BookingEvent{
		Event:              event,
		BookingID:          booking.ID,
		UserID:             booking.UserID,
		BookingType:        booking.BookingType,
		ConfirmationNumber: booking.ConfirmationNumber,
		TotalAmount:        booking.TotalAmount,
		Currency:           booking.Currency,
		OccurredAt:         timezone.Now(),
	}

	if err := s.broker.SendMessages(ctx, constant.KafkaTopicBookingEvents, kafka.Message{Key: booking.ID, Value: payload}); err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
	}
}

// authorize allows the booking owner, the owner of the booked item and
// admins.
func authorize(ctx context.Context, booking model.Booking) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleAdmin || booking.UserID == user {
		return nil
	}

	if booking.ItemOwnerID == user {
		switch {
		case role == constant.RoleHotel && booking.BookingType != constant.BookingTypePackage:
			return nil
		case role == constant.RoleAgent && booking.BookingType == constant.BookingTypePackage:
			return nil
		}
	}

	return failure.Forbidden("you do not have access to this booking") // nolint:wrapcheck
}

func statusTransitionAllowed(from, to string) bool {
	switch from {
	case constant.BookingStatusPending:
		return to == constant.BookingStatusConfirmed
	case constant.BookingStatusConfirmed:
		return to == constant.BookingStatusCompleted
	default:
		return false
	}
}

// nightsBetween lists the stayed nights, check-out day excluded.
func nightsBetween(checkIn, checkOut time.Time) []time.Time {
	var dates []time.Time
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates
}

func newConfirmationNumber() string {
	return fmt.Sprintf("%s%s%04d", confirmationPrefix, timezone.Now().Format(confirmationTimeLayout), rand.IntN(10000))
}

func isConfirmationCollision(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation && strings.Contains(pqErr.Constraint, model.FieldConfirmationNumber)
}
