package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"voyago/config"
	"voyago/infras/kafka"
	"voyago/infras/otel"
	"voyago/infras/paymentgateway"
	"voyago/infras/postgres"
	bookingModel "voyago/internal/domains/booking/model"
	bookingRepo "voyago/internal/domains/booking/repository"
	"voyago/internal/domains/payment/model"
	"voyago/internal/domains/payment/model/dto"
	"voyago/internal/domains/payment/repository"
	"voyago/shared"
	"voyago/shared/cache"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/failure"
	gModel "voyago/shared/model"
	"voyago/shared/timezone"
)

const (
	cacheGetAllPayment = "payment:gets"
	cacheCountPayment  = "payment:count"
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"

	eventPaymentCompleted = "payment.completed"
	eventPaymentRefunded  = "payment.refunded"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) error
	Refund(ctx context.Context, req dto.RefundPaymentRequest, id string) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	gateway     paymentgateway.Gateway
	transactor  postgres.Transactor
	broker      kafka.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	gateway paymentgateway.Gateway,
	transactor postgres.Transactor,
	broker kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		transactor:  transactor,
		broker:      broker,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for payment")

		return res, fmt.Errorf("failed to get booking for payment: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && booking.UserID != user {
		return res, failure.Forbidden("you can only pay for your own bookings") // nolint:wrapcheck
	}

	if booking.Cancelled || booking.Status == constant.BookingStatusCancelled {
		return res, failure.Conflict("cancelled bookings cannot be paid") // nolint:wrapcheck
	}

	if booking.PaymentStatus == constant.BookingPaymentPaid {
		return res, failure.Conflict("booking is already paid") // nolint:wrapcheck
	}

	if req.Amount != booking.TotalAmount {
		return res, failure.BadRequestFromString(fmt.Sprintf("payment amount must equal the booking total %.2f %s", booking.TotalAmount, booking.Currency)) // nolint:wrapcheck
	}

	// Charge before persisting anything; a provider failure must leave no
	// partial state.
	charge, err := s.gateway.Charge(ctx, paymentgateway.ChargeRequest{
		Amount:    req.Amount,
		Currency:  booking.Currency,
		Method:    req.Method,
		Reference: booking.ConfirmationNumber,
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("payment provider charge failed")

		return res, failure.PaymentProcessing("payment could not be processed") // nolint:wrapcheck
	}

	now := timezone.Now()
	payment := model.Payment{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Amount:        req.Amount,
		Currency:      booking.Currency,
		Method:        req.Method,
		Provider:      s.cfg.Payment.Provider,
		Status:        constant.PaymentStatusCompleted,
		TransactionID: &charge.TransactionID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if charge.ReceiptURL != constant.Empty {
		payment.ReceiptURL = &charge.ReceiptURL
	}

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.bookingRepo.GetForUpdateTx(ctx, tx, booking.ID)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if locked.Cancelled {
			return failure.Conflict("cancelled bookings cannot be paid") // nolint:wrapcheck
		}

		open, err := s.repo.HasOpenPaymentTx(ctx, tx, booking.ID)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if open {
			return failure.Conflict("booking already has a payment in progress") // nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, payment); err != nil {
			return err // nolint:wrapcheck
		}

		// Only a confirmed booking advances to paid; a pending one keeps
		// its status and carries the payment through payment_status.
		status := locked.Status
		if status == constant.BookingStatusConfirmed {
			status = constant.BookingStatusPaid
		}

		return s.bookingRepo.UpdateTx(ctx, tx, map[string]any{
			bookingModel.FieldStatus:        status,
			bookingModel.FieldPaymentStatus: constant.BookingPaymentPaid,
			"paid_at":                       now,
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        user,
		}, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
	})
	if err != nil {
		// The customer was already charged; reverse it before reporting.
		if _, refundErr := s.gateway.Refund(ctx, paymentgateway.RefundRequest{
			TransactionID: charge.TransactionID,
			Amount:        req.Amount,
			Reason:        "booking payment could not be recorded",
		}); refundErr != nil {
			log.Error().Err(refundErr).Str("transactionID", charge.TransactionID).Msg("compensating refund failed")
		}

		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to record payment")
		}

		return res, err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishEvent(c, eventPaymentCompleted, payment)
		s.invalidateCaches(c, payment.BookingID)
	}()

	res.FromModel(payment)
	res.ForRole(role)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter = s.scopeFilter(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit, role)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = s.scopeFilter(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && payment.UserID != user {
		return res, failure.Forbidden("you do not have access to this payment") // nolint:wrapcheck
	}

	res.FromModel(payment)
	res.ForRole(role)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.UpdateStatus")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin {
		return failure.Forbidden("only admins can change payment status") // nolint:wrapcheck
	}

	err := s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		payment, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if payment.ID == constant.Empty {
			return failure.NotFound("payment not found") // nolint:wrapcheck
		}

		if !statusTransitionAllowed(payment.Status, req.Status) {
			return failure.Conflict(fmt.Sprintf("cannot change payment status from %s to %s", payment.Status, req.Status)) // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldStatus:        req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}

		return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to update payment status")
		}

		return err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
	}()

	return nil
}

func (s *serviceImpl) Refund(ctx context.Context, req dto.RefundPaymentRequest, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	var payment model.Payment

	// The payment row stays locked across the provider call so concurrent
	// refunds serialize on the cumulative refunded amount.
	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		payment, err = s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if payment.ID == constant.Empty {
			return failure.NotFound("payment not found") // nolint:wrapcheck
		}

		if role != constant.RoleAdmin && payment.UserID != user {
			return failure.Forbidden("you can only refund your own payments") // nolint:wrapcheck
		}

		if payment.Status != constant.PaymentStatusCompleted && payment.Status != constant.PaymentStatusPartiallyRefunded {
			return failure.Conflict(fmt.Sprintf("payment in status %s cannot be refunded", payment.Status)) // nolint:wrapcheck
		}

		if req.Amount > payment.Remaining() {
			return failure.BadRequestFromString(fmt.Sprintf("refund amount %.2f exceeds remaining refundable amount %.2f", req.Amount, payment.Remaining())) // nolint:wrapcheck
		}

		if payment.TransactionID == nil {
			return failure.Conflict("payment has no provider transaction to refund") // nolint:wrapcheck
		}

		refund, err := s.gateway.Refund(ctx, paymentgateway.RefundRequest{
			TransactionID: *payment.TransactionID,
			Amount:        req.Amount,
			Reason:        req.Reason,
		})
		if err != nil {
			log.Error().Err(err).Str("paymentID", payment.ID).Msg("payment provider refund failed")

			return failure.PaymentProcessing("refund could not be processed") // nolint:wrapcheck
		}

		now := timezone.Now()
		payment.RefundedAmount += req.Amount
		payment.Status = constant.PaymentStatusPartiallyRefunded

		if payment.RefundedAmount >= payment.Amount {
			payment.Status = constant.PaymentStatusRefunded
		}

		refundStatus := constant.RefundStatusCompleted
		payment.RefundReason = &req.Reason
		payment.RefundStatus = &refundStatus
		payment.RefundTransactionID = &refund.RefundID
		payment.RefundedAt = &now

		if err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:         payment.Status,
			model.FieldRefundedAmount: payment.RefundedAmount,
			"refund_reason":           req.Reason,
			"refund_status":           refundStatus,
			"refund_transaction_id":   refund.RefundID,
			"refunded_at":             now,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  user,
		}, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err // nolint:wrapcheck
		}

		bookingPayment := constant.BookingPaymentPartiallyRefunded
		if payment.Status == constant.PaymentStatusRefunded {
			bookingPayment = constant.BookingPaymentRefunded
		}

		return s.bookingRepo.UpdateTx(ctx, tx, map[string]any{
			bookingModel.FieldPaymentStatus: bookingPayment,
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        user,
		}, shared.FilterByID(payment.BookingID, bookingModel.FieldID, bookingModel.TableName))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to refund payment")
		}

		return res, err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishEvent(c, eventPaymentRefunded, payment)
		s.invalidateCaches(c, payment.BookingID)
	}()

	res.FromModel(payment)
	res.ForRole(role)

	return res, nil
}

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

func (s *serviceImpl) publishEvent(ctx context.Context, event string, payment model.Payment) {
	payload := dto.PaymentEvent{
		Event:          event,
		PaymentID:      payment.ID,
		BookingID:      payment.BookingID,
		UserID:         payment.UserID,
		Amount:         payment.Amount,
		RefundedAmount: payment.RefundedAmount,
		Currency:       payment.Currency,
		Status:         payment.Status,
		OccurredAt:     timezone.Now(),
	}

	if err := s.broker.SendMessages(ctx, constant.KafkaTopicPaymentEvents, kafka.Message{Key: payment.ID, Value: payload}); err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to publish payment event")
	}
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, bookingID string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, bookingID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllPayment)
	shared.InvalidateCaches(ctx, s.cache, cacheCountPayment)
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
}

func statusTransitionAllowed(from, to string) bool {
	switch from {
	case constant.PaymentStatusPending:
		switch to {
		case constant.PaymentStatusProcessing, constant.PaymentStatusCompleted, constant.PaymentStatusFailed, constant.PaymentStatusCancelled:
			return true
		}
	case constant.PaymentStatusProcessing:
		switch to {
		case constant.PaymentStatusCompleted, constant.PaymentStatusFailed, constant.PaymentStatusCancelled:
			return true
		}
	case constant.PaymentStatusCompleted:
		switch to {
		case constant.PaymentStatusRefunded, constant.PaymentStatusPartiallyRefunded:
			return true
		}
	case constant.PaymentStatusPartiallyRefunded:
		return to == constant.PaymentStatusRefunded
	}

	return false
}
