package models

import "time"

// RoomType tags a room for display and filtering.
type RoomType string

const (
	RoomTypeTheory RoomType = "Theory"
	RoomTypeLab    RoomType = "Lab"
)

// Room is a bookable classroom or lab.
type Room struct {
	ID         string    `db:"id" json:"id"`
	RoomNumber string    `db:"room_number" json:"room_number"`
	Type       RoomType  `db:"type" json:"type"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter describes query params for listing rooms.
type RoomFilter struct {
	Type     string
	Search   string
	Page     int
	PageSize int
}
