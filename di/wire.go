//go:build wireinject
// +build wireinject

package di

import (
	"voyago/config"
	"voyago/infras/jwt"
	"voyago/infras/kafka"
	"voyago/infras/otel"
	"voyago/infras/paymentgateway"
	"voyago/infras/postgres"
	"voyago/infras/redis"
	"voyago/permissions"
	"voyago/shared/cache"
	"voyago/transport/http"
	"voyago/transport/http/middleware"
	"voyago/transport/http/router"

	"github.com/google/wire"

	authService "voyago/internal/domains/auth/service"
	bookingRepository "voyago/internal/domains/booking/repository"
	bookingService "voyago/internal/domains/booking/service"
	paymentRepository "voyago/internal/domains/payment/repository"
	paymentService "voyago/internal/domains/payment/service"
	roomRepository "voyago/internal/domains/room/repository"
	roomService "voyago/internal/domains/room/service"
	tourPackageRepository "voyago/internal/domains/tourpackage/repository"
	tourPackageService "voyago/internal/domains/tourpackage/service"
	userRepository "voyago/internal/domains/user/repository"
	userService "voyago/internal/domains/user/service"

	authHandler "voyago/internal/handlers/auth"
	bookingHandler "voyago/internal/handlers/booking"
	paymentHandler "voyago/internal/handlers/payment"
	roomHandler "voyago/internal/handlers/room"
	tourPackageHandler "voyago/internal/handlers/tourpackage"
	userHandler "voyago/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	paymentgateway.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var tourPackageDomain = wire.NewSet(
	tourPackageRepository.New,
	tourPackageService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	tourPackageDomain,
	bookingDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	tourPackageHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
