package dto

import (
	"github.com/google/uuid"

	"voyago/internal/domains/room/model"
	"voyago/shared"
	gDto "voyago/shared/dto"
	gModel "voyago/shared/model"
	"voyago/shared/timezone"
)

type CreateRoomRequest struct {
	HotelID          string  `json:"hotel_id"          validate:"required"`
	RoomNumber       string  `json:"room_number"       validate:"required,max=20"`
	Name             string  `json:"name"              validate:"required,max=100"`
	BasePrice        float64 `json:"base_price"        validate:"required,gt=0"`
	Currency         string  `json:"currency"          validate:"required,len=3"`
	CapacityAdults   int     `json:"capacity_adults"   validate:"required,gte=1"`
	CapacityChildren int     `json:"capacity_children" validate:"gte=0"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:               uuid.NewString(),
		HotelID:          c.HotelID,
		RoomNumber:       c.RoomNumber,
		Name:             c.Name,
		BasePrice:        c.BasePrice,
		Currency:         c.Currency,
		CapacityAdults:   c.CapacityAdults,
		CapacityChildren: c.CapacityChildren,
		Available:        true,
		Active:           true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name      string   `db:"name"       json:"name"       validate:"omitempty,max=100"`
	BasePrice float64  `db:"base_price" json:"base_price" validate:"omitempty,gt=0"`
	Available *bool    `db:"available"  json:"available"  validate:"omitempty"`
	Active    *bool    `db:"active"     json:"active"     validate:"omitempty"`
}

type RoomResponse struct {
	ID               string  `json:"id"`
	HotelID          string  `json:"hotel_id"`
	RoomNumber       string  `json:"room_number"`
	Name             string  `json:"name"`
	BasePrice        float64 `json:"base_price"`
	Currency         string  `json:"currency"`
	CapacityAdults   int     `json:"capacity_adults"`
	CapacityChildren int     `json:"capacity_children"`
	Available        bool    `json:"available"`
	Active           bool    `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.RoomNumber = model.RoomNumber
	r.Name = model.Name
	r.BasePrice = model.BasePrice
	r.Currency = model.Currency
	r.CapacityAdults = model.CapacityAdults
	r.CapacityChildren = model.CapacityChildren
	r.Available = model.Available
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
