package models

import "time"

// Fleet is a short post authored by a single user. CreatedAt is assigned by
// the server on insert and never changes afterwards.
type Fleet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Post      string    `json:"post" gorm:"size:140;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

func (Fleet) TableName() string { return "fleets" }

// FleetRequest defines the request body for creating or updating a fleet.
// Post is a pointer so a payload missing the key entirely can be told apart
// from one carrying an empty value.
type FleetRequest struct {
	Post *string `json:"post" validate:"required"`
}

// FleetResponse serializes a fleet together with its author's handle.
type FleetResponse struct {
	ID        uint      `json:"id"`
	Post      string    `json:"post"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFleetResponse builds the wire representation of a fleet. The fleet must
// have its User association loaded.
func NewFleetResponse(f *Fleet) FleetResponse {
	return FleetResponse{
		ID:        f.ID,
		Post:      f.Post,
		Username:  f.User.Username,
		CreatedAt: f.CreatedAt,
	}
}

// NewFleetResponses maps a fleet slice to its wire representation.
func NewFleetResponses(fleets []Fleet) []FleetResponse {
	out := make([]FleetResponse, len(fleets))
	for i := range fleets {
		out[i] = NewFleetResponse(&fleets[i])
	}
	return out
}
