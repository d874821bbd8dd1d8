package models

// Room is a room category (e.g. "Room Type 1"), not a physical unit.
// Invariant: 0 <= AvailableRooms <= TotalRooms.
type Room struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	RoomType       string  `gorm:"column:room_type;size:64;not null" json:"room_type"`
	TotalRooms     int     `gorm:"column:total_rooms;not null" json:"total_rooms"`
	AvailableRooms int     `gorm:"column:available_rooms;not null" json:"available_rooms"`
	Price          float64 `gorm:"not null" json:"price"`
}
