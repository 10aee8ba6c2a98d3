package model

import (
	"fmt"
	"math"
	"time"
)

// Receipt is assembled once after a ticket is issued, printed and then
// discarded. It is never persisted.
//
// Fields:
//
//	TicketID     – id assigned to the new ticket.
//	Customer     – display fields of the buyer.
//	MovieTitle   – title of the screened movie.
//	Language     – language name of the screening.
//	LanguageType – dubbing, subtitles or original.
//	StartTime    – start of the screening.
//	Seats        – number of seats on the ticket.
//	UnitPrice    – price of one seat in the screening room.
//	Total        – Seats × UnitPrice.
type Receipt struct {
	TicketID     int64
	Customer     Customer
	MovieTitle   string
	Language     string
	LanguageType string
	StartTime    time.Time
	Seats        int
	UnitPrice    Money
	Total        Money
}

// ReceiptScreening is the part of a receipt recovered by re-reading the
// issued ticket joined with its schedule, movie and language.
type ReceiptScreening struct {
	TicketID     int64
	MovieTitle   string
	Language     string
	LanguageType string
	StartTime    time.Time
	Seats        int
}

// NewReceipt composes a receipt and computes its total.
func NewReceipt(s ReceiptScreening, c Customer, unitPrice Money) (Receipt, error) {
	switch {
	case s.TicketID <= 0:
		return Receipt{}, fmt.Errorf("ticket id: %w", ErrMissingField)
	case s.Seats <= 0:
		return Receipt{}, fmt.Errorf("seat count: %w", ErrMissingField)
	case s.MovieTitle == "":
		return Receipt{}, fmt.Errorf("movie title: %w", ErrMissingField)
	case c.ID <= 0:
		return Receipt{}, fmt.Errorf("customer: %w", ErrMissingField)
	case unitPrice > 0 && Money(s.Seats) > Money(math.MaxInt64)/unitPrice:
		return Receipt{}, fmt.Errorf("total of %d x %s: %w", s.Seats, unitPrice, ErrOutOfRange)
	}
	return Receipt{
		TicketID:     s.TicketID,
		Customer:     c,
		MovieTitle:   s.MovieTitle,
		Language:     s.Language,
		LanguageType: s.LanguageType,
		StartTime:    s.StartTime,
		Seats:        s.Seats,
		UnitPrice:    unitPrice,
		Total:        unitPrice.Times(s.Seats),
	}, nil
}

// Movie describes the screening in one line, e.g. "Avatar (English, subtitles)".
func (r Receipt) Movie() string {
	if r.Language == "" {
		return r.MovieTitle
	}
	if r.LanguageType == "" {
		return fmt.Sprintf("%s (%s)", r.MovieTitle, r.Language)
	}
	return fmt.Sprintf("%s (%s, %s)", r.MovieTitle, r.Language, r.LanguageType)
}
