package model

import "time"

// ScheduleEntry is one screening joined with its movie, language and room.
// Entries are read-only here: SeatsTaken is maintained by the store.
//
// Fields:
//
//	ID           – Schedule.id.
//	MovieTitle   – Movies.title.
//	Language     – Languages.name.
//	LanguageType – Languages.type (e.g. dubbing, subtitles).
//	RoomID       – Schedule.room_id.
//	StartTime    – Schedule.start_time.
//	SeatsTaken   – Schedule.s_taken.
//	Capacity     – Rooms.s_max.
//	Price        – Rooms.ticket_price.
type ScheduleEntry struct {
	ID           int64
	MovieTitle   string
	Language     string
	LanguageType string
	RoomID       int64
	StartTime    time.Time
	SeatsTaken   int
	Capacity     int
	Price        Money
}

// FreeSeats is Capacity minus SeatsTaken. It is not clamped at zero.
func (e ScheduleEntry) FreeSeats() int { return e.Capacity - e.SeatsTaken }
