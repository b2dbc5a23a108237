package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"voyago/config"
	"voyago/infras/otel"
	"voyago/internal/domains/tourpackage/model"
	"voyago/internal/domains/tourpackage/model/dto"
	"voyago/internal/domains/tourpackage/repository"
	"voyago/shared"
	"voyago/shared/cache"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/failure"
)

const (
	cacheGetTourPackage    = "tourpackage:get"
	cacheGetAllTourPackage = "tourpackage:gets"
	cacheCountTourPackage  = "tourpackage:count"
)

type TourPackage interface {
	Create(ctx context.Context, req dto.CreateTourPackageRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTourPackagesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TourPackageResponse, error)
	Update(ctx context.Context, req dto.UpdateTourPackageRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.TourPackage
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.TourPackage, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) TourPackage {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTourPackageRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tourpackage.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	agent, _ := ctx.Value(constant.ContextKeyUserID).(string)

	pkg := req.ToModel(agent)
	if err = s.repo.Insert(ctx, pkg); err != nil {
		log.Error().Err(err).Msg("failed to create tour package")

		return fmt.Errorf("failed to create tour package: %w", err)
	}

	if dates := req.ParsedStartDates(); len(dates) > 0 {
		if err = s.repo.InsertStartDates(ctx, pkg.ID, dates); err != nil {
			log.Error().Err(err).Msg("failed to store package start dates")

			return fmt.Errorf("failed to store package start dates: %w", err)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTourPackage)
		shared.InvalidateCaches(c, s.cache, cacheCountTourPackage)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTourPackagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tourpackage.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTourPackage, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour packages")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tour packages")

		return res, fmt.Errorf("failed to count tour packages: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour packages")

		return res, fmt.Errorf("failed to get tour packages: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour packages to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tourpackage.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTourPackage, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tour packages")

		return res, fmt.Errorf("failed to count tour packages: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour package count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TourPackageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tourpackage.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTourPackage, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour package")

		return res, nil
	}

	pkg, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour package")

		return res, fmt.Errorf("failed to get tour package: %w", err)
	}

	if pkg.ID == constant.Empty {
		return res, failure.NotFound("tour package not found") // nolint:wrapcheck
	}

	dates, err := s.repo.GetStartDates(ctx, pkg.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package start dates")

		return res, fmt.Errorf("failed to get package start dates: %w", err)
	}

	res.FromModel(pkg)
	res.WithStartDates(dates)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour package to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTourPackageRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tourpackage.Update")
	defer scope.End()

	if req == (dto.UpdateTourPackageRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if tour package exists")

		return fmt.Errorf("failed to check if tour package exists: %w", err)
	}

	if !exist {
		return failure.NotFound("tour package not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update tour package")

		return fmt.Errorf("failed to update tour package: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTourPackage, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete tour package from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTourPackage)
		shared.InvalidateCaches(c, s.cache, cacheCountTourPackage)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tourpackage.Delete")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if tour package exists")

		return fmt.Errorf("failed to check if tour package exists: %w", err)
	}

	if !exist {
		return failure.NotFound("tour package not found") // nolint:wrapcheck
	}

	// Packages referenced by bookings are deactivated, never removed.
	if err := s.repo.Update(ctx, map[string]any{model.FieldActive: false}, filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate tour package")

		return fmt.Errorf("failed to deactivate tour package: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTourPackage, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete tour package from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTourPackage)
		shared.InvalidateCaches(c, s.cache, cacheCountTourPackage)
	}()

	return nil
}
