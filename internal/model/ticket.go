package model

import "fmt"

// Ticket mirrors a row in the `Tickets` table. IDs are assigned by the
// store and increase monotonically.
//
// Fields:
//
//	ID         – Tickets.id.
//	CustomerID – Tickets.customer_id (references Customers.id).
//	ScheduleID – Tickets.schedule_id (references Schedule.id).
//	Seats      – Tickets.n_seats, always positive.
type Ticket struct {
	ID         int64
	CustomerID int64
	ScheduleID int64
	Seats      int
}

// TicketRequest is the validated input of the issuance sequence.
type TicketRequest struct {
	CustomerID int64
	ScheduleID int64
	Seats      int
}

// MaxSeats bounds the seats on one ticket.
const MaxSeats = 500

// NewTicketRequest rejects non-positive ids and seat counts outside
// 1..MaxSeats.
func NewTicketRequest(customerID, scheduleID int64, seats int64) (TicketRequest, error) {
	switch {
	case customerID <= 0:
		return TicketRequest{}, fmt.Errorf("customer id: %w", ErrMissingField)
	case scheduleID <= 0:
		return TicketRequest{}, fmt.Errorf("schedule id: %w", ErrMissingField)
	case seats <= 0:
		return TicketRequest{}, fmt.Errorf("seat count: %w", ErrMissingField)
	case seats > MaxSeats:
		return TicketRequest{}, fmt.Errorf("seat count %d above %d: %w", seats, MaxSeats, ErrOutOfRange)
	}
	return TicketRequest{CustomerID: customerID, ScheduleID: scheduleID, Seats: int(seats)}, nil
}
