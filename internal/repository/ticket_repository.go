package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/model"
)

// LastTicketID returns the highest ticket id assigned so far.
func (g *Gateway) LastTicketID(ctx context.Context) (int64, bool) {
	id, err := g.lastTicketID(ctx)
	return id, g.report("last ticket id", err)
}

func (g *Gateway) lastTicketID(ctx context.Context) (int64, error) {
	db, err := g.conn()
	if err != nil {
		return 0, err
	}
	var id sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(id) FROM Tickets").Scan(&id); err != nil {
		return 0, err
	}
	if !id.Valid {
		return 0, ErrNotFound
	}
	return id.Int64, nil
}

// ListTickets returns every ticket ordered by id.
func (g *Gateway) ListTickets(ctx context.Context) ([]model.Ticket, bool) {
	out, err := g.listTickets(ctx)
	return out, g.report("list tickets", err)
}

func (g *Gateway) listTickets(ctx context.Context) ([]model.Ticket, error) {
	db, err := g.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT id, customer_id, schedule_id, n_seats FROM Tickets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.ScheduleID, &t.Seats); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// IssueTicket inserts a ticket and assembles its receipt from a re-read of
// the new row joined with its screening, the customer's display fields and
// the room's unit price.
//
// The insert commits on its own. If any read after it fails the ticket
// stays persisted, ok is false and the orphan is visible in ListTickets.
func (g *Gateway) IssueTicket(ctx context.Context, req model.TicketRequest) (model.Receipt, bool) {
	id, inserted, err := g.insertTicket(ctx, req)
	if err != nil && inserted {
		g.log.Error("ticket issued without receipt",
			zap.Int64("customer_id", req.CustomerID),
			zap.Int64("schedule_id", req.ScheduleID),
			zap.Int("seats", req.Seats),
			zap.Error(err))
		return model.Receipt{}, false
	}
	if !g.report("insert ticket", err) {
		return model.Receipt{}, false
	}

	receipt, err := g.composeReceipt(ctx, id, req)
	if err != nil {
		g.log.Error("ticket issued without receipt",
			zap.Int64("ticket_id", id),
			zap.Int64("customer_id", req.CustomerID),
			zap.Int64("schedule_id", req.ScheduleID),
			zap.Error(err))
		return model.Receipt{}, false
	}
	g.log.Info("ticket issued",
		zap.Int64("ticket_id", receipt.TicketID),
		zap.Int("seats", receipt.Seats),
		zap.String("total", receipt.Total.String()))
	return receipt, true
}

// insertTicket reports inserted once the row is committed, so a failure to
// learn its id is not mistaken for a failed insert.
func (g *Gateway) insertTicket(ctx context.Context, req model.TicketRequest) (id int64, inserted bool, err error) {
	db, err := g.conn()
	if err != nil {
		return 0, false, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO Tickets (customer_id, schedule_id, n_seats) VALUES (?, ?, ?)",
		req.CustomerID, req.ScheduleID, req.Seats)
	if err != nil {
		return 0, false, err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		return id, true, nil
	}
	// Fall back to the most recently assigned id.
	id, err = g.lastTicketID(ctx)
	if err != nil {
		return 0, true, fmt.Errorf("read id of inserted ticket: %w", err)
	}
	return id, true, nil
}

func (g *Gateway) composeReceipt(ctx context.Context, ticketID int64, req model.TicketRequest) (model.Receipt, error) {
	screening, err := g.ticketScreening(ctx, ticketID)
	if err != nil {
		return model.Receipt{}, err
	}
	customer, err := g.customerData(ctx, req.CustomerID)
	if err != nil {
		return model.Receipt{}, err
	}
	price, ok := g.PriceFor(ctx, req.ScheduleID)
	if !ok {
		return model.Receipt{}, ErrNotFound
	}
	return model.NewReceipt(screening, customer, price)
}

func (g *Gateway) ticketScreening(ctx context.Context, ticketID int64) (model.ReceiptScreening, error) {
	db, err := g.conn()
	if err != nil {
		return model.ReceiptScreening{}, err
	}
	const q = `SELECT t.id, m.title, l.name, l.type, s.start_time, t.n_seats
		FROM Tickets t
		JOIN Schedule s  ON s.id = t.schedule_id
		JOIN Movies m    ON m.id = s.movie_id
		JOIN Languages l ON l.id = m.language_id
		WHERE t.id = ?`
	var s model.ReceiptScreening
	err = db.QueryRowContext(ctx, q, ticketID).Scan(
		&s.TicketID, &s.MovieTitle, &s.Language, &s.LanguageType, &s.StartTime, &s.Seats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReceiptScreening{}, ErrNotFound
		}
		return model.ReceiptScreening{}, err
	}
	return s, nil
}

// CancelTicket deletes a ticket by id. An absent id is not an error:
// removed is false and ok is true, so repeating a cancel is harmless.
func (g *Gateway) CancelTicket(ctx context.Context, id int64) (removed bool, ok bool) {
	n, err := g.cancelTicket(ctx, id)
	if !g.report("cancel ticket", err) {
		return false, false
	}
	return n > 0, true
}

func (g *Gateway) cancelTicket(ctx context.Context, id int64) (int64, error) {
	db, err := g.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM Tickets WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
