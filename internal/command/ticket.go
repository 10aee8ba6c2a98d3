package command

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/model"
)

func (d *Dispatcher) ticket(ctx context.Context, args []string) Outcome {
	if len(args) == 0 {
		d.con.Errorf("Usage: ticket showall | last | new [customerId] | cancel <id>")
		return OutcomeContinue
	}
	switch args[0] {
	case "showall":
		d.ticketShowAll(ctx)
	case "last":
		d.ticketLast(ctx)
	case "new":
		d.ticketNew(ctx, args[1:])
	case "cancel":
		d.ticketCancel(ctx, args[1:])
	default:
		d.con.Errorf("Unknown ticket action '%s'", args[0])
	}
	return OutcomeContinue
}

func (d *Dispatcher) ticketShowAll(ctx context.Context) {
	list, ok := d.store.ListTickets(ctx)
	if !ok {
		d.con.Errorf("Could not list tickets")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.CustomerID, 10),
			strconv.FormatInt(t.ScheduleID, 10),
			strconv.Itoa(t.Seats),
		})
	}
	d.con.Table([]string{"ID", "CUSTOMER", "SCHEDULE", "SEATS"}, rows)
}

func (d *Dispatcher) ticketLast(ctx context.Context) {
	id, ok := d.store.LastTicketID(ctx)
	if !ok {
		d.con.Println(notFound)
		return
	}
	d.con.Println(strconv.FormatInt(id, 10))
}

func (d *Dispatcher) ticketNew(ctx context.Context, args []string) {
	var customerID int64
	switch len(args) {
	case 0:
		n, ok := d.ask("Customer id (q to cancel): ")
		if !ok {
			return
		}
		customerID = n
	case 1:
		n, ok := positive(args[0])
		if !ok {
			d.con.Errorf("'%s' is not a valid id", args[0])
			return
		}
		customerID = n
	default:
		d.con.Errorf("Usage: ticket new [customerId]")
		return
	}
	scheduleID, ok := d.ask("Schedule id (q to cancel): ")
	if !ok {
		return
	}
	seats, ok := d.ask("Seats (q to cancel): ")
	if !ok {
		return
	}
	req, err := model.NewTicketRequest(customerID, scheduleID, seats)
	if err != nil {
		d.con.Errorf("%v", err)
		return
	}
	r, ok := d.store.IssueTicket(ctx, req)
	if !ok {
		d.con.Errorf("Ticket could not be issued. Check 'ticket last' before retrying")
		return
	}
	d.printReceipt(r)
	if err := d.events.TicketIssued(ctx, r, d.operator); err != nil {
		d.log.Warn("ticket event not published", zap.Int64("ticket_id", r.TicketID), zap.Error(err))
	}
}

// ask reads one positive integer. Empty input, "q" and anything that is
// not a positive integer abort the command.
func (d *Dispatcher) ask(prompt string) (int64, bool) {
	line, err := d.con.ReadLine(prompt)
	if err != nil {
		return 0, false
	}
	line = strings.TrimSpace(line)
	switch line {
	case "":
		d.con.Errorf("A value is required")
		return 0, false
	case "q":
		d.con.Println("Cancelled.")
		return 0, false
	}
	n, ok := positive(line)
	if !ok {
		d.con.Errorf("'%s' is not a positive number", line)
		return 0, false
	}
	return n, true
}

func (d *Dispatcher) ticketCancel(ctx context.Context, args []string) {
	id, ok := d.id(args, "ticket cancel <id>")
	if !ok {
		return
	}
	removed, ok := d.store.CancelTicket(ctx, id)
	switch {
	case !ok:
		d.con.Errorf("Could not cancel ticket %d", id)
	case !removed:
		d.con.Println(notFound)
	default:
		d.con.Printf("Ticket %d cancelled.\n", id)
		if err := d.events.TicketCancelled(ctx, id, d.operator); err != nil {
			d.log.Warn("ticket event not published", zap.Int64("ticket_id", id), zap.Error(err))
		}
	}
}

func (d *Dispatcher) printReceipt(r model.Receipt) {
	c := r.Customer
	d.con.Println("------------ RECEIPT ------------")
	d.con.Printf("Ticket:    %d\n", r.TicketID)
	d.con.Printf("Customer:  %s %s\n", c.Name, c.Surname)
	if c.Phone != "" || c.Email != "" {
		d.con.Printf("Contact:   %s\n", strings.TrimSpace(c.Phone+" "+c.Email))
	}
	d.con.Printf("Movie:     %s\n", r.Movie())
	d.con.Printf("Starts:    %s\n", r.StartTime.Format(startLayout))
	d.con.Printf("Seats:     %d x %s\n", r.Seats, r.UnitPrice)
	d.con.Printf("Total:     %s\n", r.Total)
	d.con.Println("---------------------------------")
}
