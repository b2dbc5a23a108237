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
	"voyago/internal/domains/tourpackage/model"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/logger"
	gRepo "voyago/shared/repository"
)

type TourPackage interface {
	Insert(ctx context.Context, model model.TourPackage) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TourPackage, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TourPackage, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	InsertStartDates(ctx context.Context, packageID string, dates []time.Time) error
	GetStartDates(ctx context.Context, packageID string) ([]model.StartDate, error)
	// MatchStartDate reports whether the package departs on the given date.
	// A package with no configured start dates accepts any date.
	MatchStartDate(ctx context.Context, packageID string, date time.Time) (bool, error)

	// Booking counters run on the caller's transaction. GetForUpdateTx locks
	// the package row so concurrent bookings for the same package serialize.
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, packageID string) (model.TourPackage, error)
	IncrementBookingCountTx(ctx context.Context, tx *sqlx.Tx, packageID string) error
	DecrementBookingCountTx(ctx context.Context, tx *sqlx.Tx, packageID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.TourPackage]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) TourPackage {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TourPackage](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) InsertStartDates(ctx context.Context, packageID string, dates []time.Time) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tourpackage.InsertStartDates")
	defer scope.End()

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		model.StartDateTableName,
		model.FieldStartDatePackageID,
		model.FieldStartDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	for _, date := range dates {
		if _, err := repo.db.Write.ExecContext(ctx, query, packageID, date); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to insert package start date: %w", err)
		}
	}

	return nil
}

func (repo *repositoryImpl) GetStartDates(ctx context.Context, packageID string) ([]model.StartDate, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tourpackage.GetStartDates")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = $1 ORDER BY %s ASC",
		model.StartDateTableName,
		model.FieldStartDatePackageID,
		model.FieldStartDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var dates []model.StartDate

	err := repo.db.Read.SelectContext(ctx, &dates, query, packageID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get package start dates: %w", err)
	}

	return dates, nil
}

func (repo *repositoryImpl) MatchStartDate(ctx context.Context, packageID string, date time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tourpackage.MatchStartDate")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = $1",
		model.StartDateTableName,
		model.FieldStartDatePackageID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var total int

	if err := repo.db.Read.GetContext(ctx, &total, query, packageID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to count package start dates: %w", err)
	}

	if total == 0 {
		return true, nil
	}

	query = fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = $2",
		model.StartDateTableName,
		model.FieldStartDatePackageID,
		model.FieldStartDate,
	)

	var matched int

	if err := repo.db.Read.GetContext(ctx, &matched, query, packageID, date); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to match package start date: %w", err)
	}

	return matched > 0, nil
}

func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, packageID string) (model.TourPackage, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tourpackage.GetForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 FOR UPDATE", model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var pkg model.TourPackage

	err := tx.GetContext(ctx, &pkg, query, packageID)
	if errors.Is(err, sql.ErrNoRows) {
		return pkg, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return pkg, fmt.Errorf("failed to lock tour package row: %w", err)
	}

	return pkg, nil
}

func (repo *repositoryImpl) IncrementBookingCountTx(ctx context.Context, tx *sqlx.Tx, packageID string) error {
	return repo.adjustBookingCountTx(ctx, tx, packageID, 1)
}

func (repo *repositoryImpl) DecrementBookingCountTx(ctx context.Context, tx *sqlx.Tx, packageID string) error {
	return repo.adjustBookingCountTx(ctx, tx, packageID, -1)
}

func (repo *repositoryImpl) adjustBookingCountTx(ctx context.Context, tx *sqlx.Tx, packageID string, delta int) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tourpackage.adjustBookingCountTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = GREATEST(%s + $1, 0) WHERE %s = $2",
		model.TableName,
		model.FieldBookingCount,
		model.FieldBookingCount,
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := tx.ExecContext(ctx, query, delta, packageID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to adjust package booking count: %w", err)
	}

	return nil
}
