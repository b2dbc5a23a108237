package model

import (
	"time"

	gModel "voyago/shared/model"
)

const (
	TableName  = "tour_packages"
	EntityName = "tour package"

	FieldID           = "id"
	FieldAgentID      = "agent_id"
	FieldName         = "name"
	FieldDestination  = "destination"
	FieldBasePrice    = "base_price"
	FieldCurrency     = "currency"
	FieldDurationDays = "duration_days"
	FieldBookingCount = "booking_count"
	FieldActive       = "active"
)

const (
	StartDateTableName = "package_start_dates"

	FieldStartDatePackageID = "package_id"
	FieldStartDate          = "start_date"
)

type TourPackage struct {
	ID           string  `db:"id" json:"id"`
	AgentID      string  `db:"agent_id" json:"agent_id"`
	Name         string  `db:"name" json:"name"`
	Description  string  `db:"description" json:"description"`
	Destination  string  `db:"destination" json:"destination"`
	BasePrice    float64 `db:"base_price" json:"base_price"`
	Currency     string  `db:"currency" json:"currency"`
	DurationDays int     `db:"duration_days" json:"duration_days"`
	BookingCount int     `db:"booking_count" json:"booking_count"`
	Active       bool    `db:"active" json:"active"`
	gModel.Metadata
}

// StartDate is one allowed departure for a package. A package with no
// start dates accepts any departure date.
type StartDate struct {
	PackageID string    `db:"package_id" json:"package_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
}
