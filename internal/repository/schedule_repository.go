package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-console/internal/model"
)

// RepertoireOn returns the distinct titles screened on day, sorted by title.
// A closed session answers nothing, cached or not.
func (g *Gateway) RepertoireOn(ctx context.Context, day time.Time) ([]string, bool) {
	if _, err := g.conn(); err != nil {
		return nil, g.report("repertoire", err)
	}
	date := day.Format(model.DateLayout)
	if titles, ok := g.cache.Repertoire(ctx, g.Username(), date); ok {
		return titles, true
	}
	titles, err := g.repertoireOn(ctx, date)
	if !g.report("repertoire", err) {
		return nil, false
	}
	g.cache.StoreRepertoire(ctx, g.Username(), date, titles)
	return titles, true
}

func (g *Gateway) repertoireOn(ctx context.Context, date string) ([]string, error) {
	db, err := g.conn()
	if err != nil {
		return nil, err
	}
	const q = `SELECT DISTINCT m.title
		FROM Schedule s
		JOIN Movies m ON m.id = s.movie_id
		WHERE DATE(s.start_time) = ?
		ORDER BY m.title`
	rows, err := db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ScheduleOn returns every screening starting on day joined with its movie,
// language and room, sorted by schedule id.
func (g *Gateway) ScheduleOn(ctx context.Context, day time.Time) ([]model.ScheduleEntry, bool) {
	out, err := g.scheduleOn(ctx, day.Format(model.DateLayout))
	return out, g.report("schedule", err)
}

func (g *Gateway) scheduleOn(ctx context.Context, date string) ([]model.ScheduleEntry, error) {
	db, err := g.conn()
	if err != nil {
		return nil, err
	}
	const q = `SELECT s.id, m.title, l.name, l.type, s.room_id, s.start_time, s.s_taken, r.s_max, r.ticket_price
		FROM Schedule s
		JOIN Movies m    ON m.id = s.movie_id
		JOIN Languages l ON l.id = m.language_id
		JOIN Rooms r     ON r.id = s.room_id
		WHERE DATE(s.start_time) = ?
		ORDER BY s.id`
	rows, err := db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ScheduleEntry{}
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(
			&e.ID,
			&e.MovieTitle,
			&e.Language,
			&e.LanguageType,
			&e.RoomID,
			&e.StartTime,
			&e.SeatsTaken,
			&e.Capacity,
			&e.Price,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PriceFor returns the unit ticket price of the room a screening runs in.
// A closed session answers nothing, cached or not.
func (g *Gateway) PriceFor(ctx context.Context, scheduleID int64) (model.Money, bool) {
	if _, err := g.conn(); err != nil {
		return 0, g.report("price", err)
	}
	if price, ok := g.cache.Price(ctx, g.Username(), scheduleID); ok {
		return price, true
	}
	price, err := g.priceFor(ctx, scheduleID)
	if !g.report("price", err) {
		return 0, false
	}
	g.cache.StorePrice(ctx, g.Username(), scheduleID, price)
	return price, true
}

func (g *Gateway) priceFor(ctx context.Context, scheduleID int64) (model.Money, error) {
	db, err := g.conn()
	if err != nil {
		return 0, err
	}
	const q = `SELECT r.ticket_price
		FROM Schedule s
		JOIN Rooms r ON r.id = s.room_id
		WHERE s.id = ?`
	var price model.Money
	if err := db.QueryRowContext(ctx, q, scheduleID).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return price, nil
}
