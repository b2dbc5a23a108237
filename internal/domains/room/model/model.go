package model

import (
	"time"

	"voyago/shared/model"
)

const (
	TableName  = "hotel_rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldHotelID    = "hotel_id"
	FieldRoomNumber = "room_number"
	FieldName       = "name"
	FieldBasePrice  = "base_price"
	FieldCurrency   = "currency"
	FieldAdults     = "capacity_adults"
	FieldChildren   = "capacity_children"
	FieldAvailable  = "available"
	FieldActive     = "active"
)

const (
	AvailabilityTableName = "room_availability"

	AvailabilityFieldRoomID      = "room_id"
	AvailabilityFieldDate        = "date"
	AvailabilityFieldIsAvailable = "is_available"
	AvailabilityFieldPrice       = "price"
)

type Room struct {
	ID               string  `db:"id"`
	HotelID          string  `db:"hotel_id"`
	RoomNumber       string  `db:"room_number"`
	Name             string  `db:"name"`
	BasePrice        float64 `db:"base_price"`
	Currency         string  `db:"currency"`
	CapacityAdults   int     `db:"capacity_adults"`
	CapacityChildren int     `db:"capacity_children"`
	Available        bool    `db:"available"`
	Active           bool    `db:"active"`
	model.Metadata
}

// Availability is one calendar-date entry for a room. A date with no entry
// is bookable at the room's base price; an entry only exists once a date has
// been explicitly blocked, released, or re-priced.
type Availability struct {
	RoomID      string    `db:"room_id"`
	Date        time.Time `db:"date"`
	IsAvailable bool      `db:"is_available"`
	Price       float64   `db:"price"`
}
