package command

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/cinema-console/internal/model"
)

const (
	startLayout = "2006-01-02 15:04"
	notFound    = "Not found."
)

// day resolves the optional date argument, defaulting to today.
func (d *Dispatcher) day(args []string) (time.Time, bool) {
	switch len(args) {
	case 0:
		return d.now(), true
	case 1:
		day, err := model.ParseDay(args[0])
		if err != nil {
			d.con.Errorf("%v", err)
			return time.Time{}, false
		}
		return day, true
	default:
		d.con.Errorf("Expected at most one date")
		return time.Time{}, false
	}
}

func (d *Dispatcher) repertoire(ctx context.Context, args []string) Outcome {
	day, ok := d.day(args)
	if !ok {
		return OutcomeContinue
	}
	titles, ok := d.store.RepertoireOn(ctx, day)
	if !ok {
		d.con.Errorf("Could not read the repertoire")
		return OutcomeContinue
	}
	rows := make([][]string, 0, len(titles))
	for _, t := range titles {
		rows = append(rows, []string{t})
	}
	d.con.Table([]string{"TITLE"}, rows)
	return OutcomeContinue
}

func (d *Dispatcher) schedule(ctx context.Context, args []string) Outcome {
	day, ok := d.day(args)
	if !ok {
		return OutcomeContinue
	}
	entries, ok := d.store.ScheduleOn(ctx, day)
	if !ok {
		d.con.Errorf("Could not read the schedule")
		return OutcomeContinue
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.MovieTitle,
			e.Language,
			e.LanguageType,
			strconv.FormatInt(e.RoomID, 10),
			e.StartTime.Format(startLayout),
			strconv.Itoa(e.FreeSeats()),
			strconv.Itoa(e.Capacity),
			e.Price.String(),
		})
	}
	d.con.Table([]string{"ID", "MOVIE", "LANGUAGE", "TYPE", "ROOM", "START", "FREE", "SEATS", "PRICE"}, rows)
	return OutcomeContinue
}

func (d *Dispatcher) price(ctx context.Context, args []string) Outcome {
	id, ok := d.id(args, "price <scheduleId>")
	if !ok {
		return OutcomeContinue
	}
	p, ok := d.store.PriceFor(ctx, id)
	if !ok {
		d.con.Println(notFound)
		return OutcomeContinue
	}
	d.con.Println(p.String())
	return OutcomeContinue
}

func (d *Dispatcher) customer(ctx context.Context, args []string) Outcome {
	id, ok := d.id(args, "customer <customerId>")
	if !ok {
		return OutcomeContinue
	}
	c, ok := d.store.CustomerData(ctx, id)
	if !ok {
		d.con.Println(notFound)
		return OutcomeContinue
	}
	d.con.Table([]string{"ID", "NAME", "SURNAME", "PHONE", "EMAIL"}, [][]string{{
		strconv.FormatInt(c.ID, 10), c.Name, c.Surname, c.Phone, c.Email,
	}})
	return OutcomeContinue
}

// id expects exactly one positive integer argument.
func (d *Dispatcher) id(args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		d.con.Errorf("Usage: %s", usage)
		return 0, false
	}
	n, ok := positive(args[0])
	if !ok {
		d.con.Errorf("'%s' is not a valid id", args[0])
		return 0, false
	}
	return n, true
}

func positive(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
