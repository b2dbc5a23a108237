package tourpackage

import (
	"net/http"
	"voyago/infras/otel"
	"voyago/internal/domains/tourpackage/model"
	"voyago/internal/domains/tourpackage/model/dto"
	"voyago/internal/domains/tourpackage/service"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	"voyago/shared/validator"
	"voyago/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.TourPackage
	otel    otel.Otel
}

func New(service service.TourPackage, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/packages", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTourPackage)
		routerGroup.Get("/", handler.GetTourPackages)
		routerGroup.Get("/{id}", handler.GetTourPackageByID)
		routerGroup.Patch("/{id}", handler.UpdateTourPackage)
		routerGroup.Delete("/{id}", handler.DeleteTourPackage)
	})
}

// CreateTourPackage handles the creation of a new tour package.
// @Summary Create a new tour package
// @Description Register a tour package with its price, duration and allowed start dates.
// @Tags TourPackage
// @Accept json
// @Produce json
// @Param request body dto.CreateTourPackageRequest true "Create Tour Package Request"
// @Success 201 {object} response.Message "Tour package created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [post]
// @Security BearerAuth
func (handler *Handler) CreateTourPackage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTourPackage")
	defer scope.End()

	req := dto.CreateTourPackageRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create tour package")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tour package created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Tour package created successfully")
}

// GetTourPackages retrieves all tour packages based on query parameters.
// @Summary Get all tour packages
// @Description Retrieve all tour packages with optional filtering and pagination.
// @Tags TourPackage
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param agent_id query string false "Filter by agent ID"
// @Param destination query string false "Filter by destination"
// @Param active query string false "Filter by active flag (true, false)"
// @Success 200 {object} response.Data[dto.GetTourPackagesResponse] "List of tour packages"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [get]
func (handler *Handler) GetTourPackages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTourPackages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldAgentID, model.FieldDestination, model.FieldActive} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	packages, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tour packages")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour packages retrieved successfully")

	response.WithJSON(w, http.StatusOK, packages)
}

// GetTourPackageByID retrieves a tour package by its ID.
// @Summary Get a tour package by ID
// @Description Retrieve a tour package and its start dates by its unique identifier.
// @Tags TourPackage
// @Accept json
// @Produce json
// @Param id path string true "Tour Package ID"
// @Success 200 {object} response.Data[dto.TourPackageResponse] "Tour package details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [get]
func (handler *Handler) GetTourPackageByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTourPackageByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	tourPackage, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tour package by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour package retrieved successfully")

	response.WithJSON(w, http.StatusOK, tourPackage)
}

// UpdateTourPackage updates an existing tour package by its ID.
// @Summary Update a tour package by ID
// @Description Update the details of an existing tour package.
// @Tags TourPackage
// @Accept json
// @Produce json
// @Param id path string true "Tour Package ID"
// @Param request body dto.UpdateTourPackageRequest true "Update Tour Package Request"
// @Success 200 {object} response.Message "Tour package updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTourPackage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTourPackage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTourPackageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update tour package")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tour package updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Tour package updated successfully")
}

// DeleteTourPackage deactivates a tour package by its ID.
// @Summary Delete a tour package by ID
// @Description Deactivate a tour package so it no longer accepts bookings. Booking history is preserved.
// @Tags TourPackage
// @Accept json
// @Produce json
// @Param id path string true "Tour Package ID"
// @Success 200 {object} response.Message "Tour package deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTourPackage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTourPackage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete tour package")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tour package deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Tour package deleted successfully")
}
