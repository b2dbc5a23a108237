// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"voyago/config"
	"voyago/infras/jwt"
	"voyago/infras/kafka"
	"voyago/infras/otel"
	"voyago/infras/paymentgateway"
	"voyago/infras/postgres"
	"voyago/infras/redis"
	"voyago/internal/domains/auth/service"
	repository4 "voyago/internal/domains/booking/repository"
	service5 "voyago/internal/domains/booking/service"
	repository5 "voyago/internal/domains/payment/repository"
	service6 "voyago/internal/domains/payment/service"
	repository2 "voyago/internal/domains/room/repository"
	service3 "voyago/internal/domains/room/service"
	repository3 "voyago/internal/domains/tourpackage/repository"
	service4 "voyago/internal/domains/tourpackage/service"
	"voyago/internal/domains/user/repository"
	service2 "voyago/internal/domains/user/service"
	"voyago/internal/handlers/auth"
	"voyago/internal/handlers/booking"
	"voyago/internal/handlers/payment"
	"voyago/internal/handlers/room"
	"voyago/internal/handlers/tourpackage"
	"voyago/internal/handlers/user"
	"voyago/permissions"
	"voyago/shared/cache"
	"voyago/transport/http"
	"voyago/transport/http/middleware"
	"voyago/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryUser := repository.New(connection, otelOtel)
	jwtJWT := jwt.New(configConfig)
	serviceAuth := service.New(repositoryUser, configConfig, otelOtel, jwtJWT)
	handler := auth.New(serviceAuth, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceUser := service2.New(repositoryUser, configConfig, redisCache, otelOtel)
	userHandler := user.New(serviceUser, otelOtel)
	repositoryRoom := repository2.New(connection, otelOtel)
	serviceRoom := service3.New(repositoryRoom, configConfig, redisCache, otelOtel)
	roomHandler := room.New(serviceRoom, otelOtel)
	tourPackage := repository3.New(connection, otelOtel)
	serviceTourPackage := service4.New(tourPackage, configConfig, redisCache, otelOtel)
	tourpackageHandler := tourpackage.New(serviceTourPackage, otelOtel)
	repositoryBooking := repository4.New(connection, otelOtel)
	transactor := postgres.NewTransactor(connection)
	kafkaClient := kafka.New(configConfig)
	serviceBooking := service5.New(repositoryBooking, repositoryRoom, tourPackage, transactor, kafkaClient, configConfig, redisCache, otelOtel)
	bookingHandler := booking.New(serviceBooking, otelOtel)
	repositoryPayment := repository5.New(connection, otelOtel)
	gateway := paymentgateway.New(configConfig, otelOtel)
	servicePayment := service6.New(repositoryPayment, repositoryBooking, gateway, transactor, kafkaClient, configConfig, redisCache, otelOtel)
	paymentHandler := payment.New(servicePayment, otelOtel)
	domainHandlers := router.DomainHandlers{
		Auth:        handler,
		User:        userHandler,
		Room:        roomHandler,
		TourPackage: tourpackageHandler,
		Booking:     bookingHandler,
		Payment:     paymentHandler,
	}
	routerRouter := router.New(domainHandlers)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	permissionData := permissions.Get()
	authRole := middleware.NewAuthRoleMiddleware(jwtJWT, otelOtel, permissionData, configConfig)
	httpHTTP := http.New(configConfig, routerRouter, appMiddleware, authRole)
	return httpHTTP
}

// wire.go:

var configurations = wire.NewSet(config.Get, permissions.Get)

var infrastructures = wire.NewSet(postgres.New, postgres.NewTransactor, otel.New, redis.New, jwt.New, kafka.New, paymentgateway.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthRoleMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var userDomain = wire.NewSet(repository.New, service2.New)

var authDomain = wire.NewSet(service.New)

var roomDomain = wire.NewSet(repository2.New, service3.New)

var tourPackageDomain = wire.NewSet(repository3.New, service4.New)

var bookingDomain = wire.NewSet(repository4.New, service5.New)

var paymentDomain = wire.NewSet(repository5.New, service6.New)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	tourPackageDomain,
	bookingDomain,
	paymentDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), auth.New, user.New, room.New, tourpackage.New, booking.New, payment.New, router.New)
