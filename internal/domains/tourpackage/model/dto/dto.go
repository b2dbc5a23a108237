package dto

import (
	"time"

	"github.com/google/uuid"

	"voyago/internal/domains/tourpackage/model"
	"voyago/shared"
	"voyago/shared/constant"
	gDto "voyago/shared/dto"
	gModel "voyago/shared/model"
	"voyago/shared/timezone"
)

type CreateTourPackageRequest struct {
	Name         string   `json:"name"          validate:"required,max=150"`
	Description  string   `json:"description"   validate:"max=2000"`
	Destination  string   `json:"destination"   validate:"required,max=150"`
	BasePrice    float64  `json:"base_price"    validate:"required,gt=0"`
	Currency     string   `json:"currency"      validate:"required,len=3"`
	DurationDays int      `json:"duration_days" validate:"required,gte=1"`
	StartDates   []string `json:"start_dates"   validate:"omitempty,dive,datetime=2006-01-02"`
}

func (c *CreateTourPackageRequest) ToModel(agent string) model.TourPackage {
	return model.TourPackage{
		ID:           uuid.NewString(),
		AgentID:      agent,
		Name:         c.Name,
		Description:  c.Description,
		Destination:  c.Destination,
		BasePrice:    c.BasePrice,
		Currency:     c.Currency,
		DurationDays: c.DurationDays,
		Active:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  agent,
			ModifiedBy: agent,
		},
	}
}

// ParsedStartDates converts the request's calendar strings into dates.
// Validation has already guaranteed the layout.
func (c *CreateTourPackageRequest) ParsedStartDates() []time.Time {
	dates := make([]time.Time, len(c.StartDates))
	for i, d := range c.StartDates {
		dates[i], _ = time.Parse(constant.CalendarDateFormat, d)
	}

	return dates
}

type UpdateTourPackageRequest struct {
	Name        string  `db:"name"        json:"name"        validate:"omitempty,max=150"`
	Description string  `db:"description" json:"description" validate:"omitempty,max=2000"`
	BasePrice   float64 `db:"base_price"  json:"base_price"  validate:"omitempty,gt=0"`
	Active      *bool   `db:"active"      json:"active"      validate:"omitempty"`
}

type TourPackageResponse struct {
	ID           string   `json:"id"`
	AgentID      string   `json:"agent_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Destination  string   `json:"destination"`
	BasePrice    float64  `json:"base_price"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days"`
	BookingCount int      `json:"booking_count"`
	Active       bool     `json:"active"`
	StartDates   []string `json:"start_dates,omitempty"`
	gDto.Metadata
}

func (r *TourPackageResponse) FromModel(model model.TourPackage) {
	r.ID = model.ID
	r.AgentID = model.AgentID
	r.Name = model.Name
	r.Description = model.Description
	r.Destination = model.Destination
	r.BasePrice = model.BasePrice
	r.Currency = model.Currency
	r.DurationDays = model.DurationDays
	r.BookingCount = model.BookingCount
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

func (r *TourPackageResponse) WithStartDates(dates []model.StartDate) {
	r.StartDates = make([]string, len(dates))
	for i, d := range dates {
		r.StartDates[i] = d.StartDate.Format(constant.CalendarDateFormat)
	}
}

type GetTourPackagesResponse struct {
	TourPackages []TourPackageResponse `json:"tour_packages"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetTourPackagesResponse) FromModels(models []model.TourPackage, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.TourPackages = make([]TourPackageResponse, len(models))
	for i, mod := range models {
		r.TourPackages[i].FromModel(mod)
	}
}
