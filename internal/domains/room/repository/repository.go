package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"voyago/infras/otel"
	"voyago/infras/postgres"
	"voyago/internal/domains/room/model"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/logger"
	gRepo "voyago/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// Reservation primitives. All run on the caller's transaction so a room
	// row lock taken by GetForUpdateTx serializes concurrent bookings for
	// the same room until the transaction ends.
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, roomID string) (model.Room, error)
	BlockedDatesTx(ctx context.Context, tx *sqlx.Tx, roomID string, dates []time.Time) ([]time.Time, error)
	ReserveDatesTx(ctx context.Context, tx *sqlx.Tx, roomID string, dates []time.Time, price float64) error
	ReleaseDatesTx(ctx context.Context, tx *sqlx.Tx, roomID string, dates []time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, roomID string) (model.Room, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 FOR UPDATE", model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var room model.Room

	err := tx.GetContext(ctx, &room, query, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return room, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return room, fmt.Errorf("failed to lock room row: %w", err)
	}

	return room, nil
}

func (repo *repositoryImpl) BlockedDatesTx(ctx context.Context, tx *sqlx.Tx, roomID string, dates []time.Time) ([]time.Time, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.BlockedDatesTx")
	defer scope.End()

	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? AND %s IN (?) AND %s = FALSE",
			model.AvailabilityFieldDate,
			model.AvailabilityTableName,
			model.AvailabilityFieldRoomID,
			model.AvailabilityFieldDate,
			model.AvailabilityFieldIsAvailable,
		),
		roomID, dates,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build blocked-dates query: %w", err)
	}

	query = tx.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var blocked []time.Time

	err = tx.SelectContext(ctx, &blocked, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to query blocked dates: %w", err)
	}

	return blocked, nil
}

func (repo *repositoryImpl) ReserveDatesTx(ctx context.Context, tx *sqlx.Tx, roomID string, dates []time.Time, price float64) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ReserveDatesTx")
	defer scope.End()

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, FALSE, $3) ON CONFLICT (%s, %s) DO UPDATE SET %s = FALSE",
		model.AvailabilityTableName,
		model.AvailabilityFieldRoomID,
		model.AvailabilityFieldDate,
		model.AvailabilityFieldIsAvailable,
		model.AvailabilityFieldPrice,
		model.AvailabilityFieldRoomID,
		model.AvailabilityFieldDate,
		model.AvailabilityFieldIsAvailable,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	for _, date := range dates {
		if _, err := tx.ExecContext(ctx, query, roomID, date, price); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to reserve room date: %w", err)
		}
	}

	return nil
}

func (repo *repositoryImpl) ReleaseDatesTx(ctx context.Context, tx *sqlx.Tx, roomID string, dates []time.Time) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ReleaseDatesTx")
	defer scope.End()

	query, args, err := sqlx.In(
		fmt.Sprintf("UPDATE %s SET %s = TRUE WHERE %s = ? AND %s IN (?)",
			model.AvailabilityTableName,
			model.AvailabilityFieldIsAvailable,
			model.AvailabilityFieldRoomID,
			model.AvailabilityFieldDate,
		),
		roomID, dates,
	)
	if err != nil {
		return fmt.Errorf("failed to build release query: %w", err)
	}

	query = tx.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to release room dates: %w", err)
	}

	return nil
}
