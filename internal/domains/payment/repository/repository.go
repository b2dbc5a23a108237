package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"voyago/infras/otel"
	"voyago/infras/postgres"
	"voyago/internal/domains/payment/model"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/logger"
	gRepo "voyago/shared/repository"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Payment) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	// GetForUpdateTx locks the payment row so concurrent refunds against the
	// same payment serialize on the cumulative refunded amount.
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Payment, error)
	// HasOpenPaymentTx reports whether the booking already has a payment
	// that is neither failed nor cancelled.
	HasOpenPaymentTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Payment, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.GetForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 FOR UPDATE", model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var payment model.Payment

	err := tx.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return payment, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return payment, fmt.Errorf("failed to lock payment row: %w", err)
	}

	return payment, nil
}

func (repo *repositoryImpl) HasOpenPaymentTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.HasOpenPaymentTx")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s NOT IN ($2, $3)",
		model.TableName,
		model.FieldBookingID,
		model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var total int

	err := tx.GetContext(ctx, &total, query, bookingID, constant.PaymentStatusFailed, constant.PaymentStatusCancelled)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check open payments: %w", err)
	}

	return total > 0, nil
}
