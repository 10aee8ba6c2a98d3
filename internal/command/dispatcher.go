// Package command is the interpreter behind the "cmd>" prompt. It parses a
// line into a verb and arguments and routes it to the store gateway of the
// current session.
package command

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/model"
)

// Prompt is printed before every command line.
const Prompt = "cmd> "

// Outcome tells the session manager what to do after a command.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeLogOut
	OutcomeExit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLogOut:
		return "logOut"
	case OutcomeExit:
		return "exit"
	default:
		return "continue"
	}
}

// Store is the subset of the gateway the commands use.
type Store interface {
	ListStaff(ctx context.Context) ([]model.StaffRecord, bool)
	HireStaff(ctx context.Context, cred model.Credentials) ([]model.StaffRecord, bool)
	FireStaff(ctx context.Context, username string) ([]model.StaffRecord, bool)
	RepertoireOn(ctx context.Context, day time.Time) ([]string, bool)
	ScheduleOn(ctx context.Context, day time.Time) ([]model.ScheduleEntry, bool)
	PriceFor(ctx context.Context, scheduleID int64) (model.Money, bool)
	CustomerData(ctx context.Context, customerID int64) (model.Customer, bool)
	LastTicketID(ctx context.Context) (int64, bool)
	ListTickets(ctx context.Context) ([]model.Ticket, bool)
	IssueTicket(ctx context.Context, req model.TicketRequest) (model.Receipt, bool)
	CancelTicket(ctx context.Context, id int64) (removed bool, ok bool)
}

// Publisher receives ticket events. Failures are the publisher's to log;
// they never reach the operator.
type Publisher interface {
	TicketIssued(ctx context.Context, r model.Receipt, issuedBy string) error
	TicketCancelled(ctx context.Context, ticketID int64, cancelledBy string) error
}

// Options are the optional collaborators of a Dispatcher.
type Options struct {
	// Operator is the staff member recorded on ticket events. It defaults
	// to the role name.
	Operator string
	Policy   AccessPolicy
	Events   Publisher
	Now      func() time.Time
	Log      *zap.Logger
}

type handler func(ctx context.Context, args []string) Outcome

// Dispatcher runs commands for one session. It holds no authorization logic
// of its own beyond the optional AccessPolicy: whatever the session's
// database grants allow is what succeeds.
type Dispatcher struct {
	store    Store
	con      console.Console
	role     model.Role
	operator string
	policy   AccessPolicy
	events   Publisher
	now      func() time.Time
	log      *zap.Logger
	handlers map[string]handler
}

// NewDispatcher binds the commands to store and con for a session resolved
// to role.
func NewDispatcher(store Store, con console.Console, role model.Role, opts Options) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		con:      con,
		role:     role,
		operator: opts.Operator,
		policy:   opts.Policy,
		events:   opts.Events,
		now:      opts.Now,
		log:      opts.Log,
	}
	if d.operator == "" {
		d.operator = role.String()
	}
	if d.events == nil {
		d.events = nopPublisher{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	d.log = d.log.Named("command").With(zap.String("role", role.String()))
	d.handlers = map[string]handler{
		"help":       d.help,
		"exit":       func(context.Context, []string) Outcome { return OutcomeExit },
		"logOut":     func(context.Context, []string) Outcome { return OutcomeLogOut },
		"clear":      d.clear,
		"staff":      d.staff,
		"repertoire": d.repertoire,
		"schedule":   d.schedule,
		"price":      d.price,
		"customer":   d.customer,
		"ticket":     d.ticket,
	}
	return d
}

// Run reads and executes commands until one ends the loop. End of input is
// treated as exit.
func (d *Dispatcher) Run(ctx context.Context) Outcome {
	for {
		line, err := d.con.ReadLine(Prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.log.Error("read command", zap.Error(err))
			}
			return OutcomeExit
		}
		if out := d.Execute(ctx, line); out != OutcomeContinue {
			return out
		}
	}
}

// Execute runs a single command line.
func (d *Dispatcher) Execute(ctx context.Context, line string) Outcome {
	args := strings.Fields(line)
	if len(args) == 0 {
		return OutcomeContinue
	}
	verb := args[0]
	h, ok := d.handlers[verb]
	if !ok {
		d.con.Errorf("Unknown command '%s'. Type 'help' to list commands.", verb)
		return OutcomeContinue
	}
	if !d.policy.Allows(verb, d.role) {
		d.con.Errorf("'%s' is not permitted for role '%s'", verb, d.role)
		return OutcomeContinue
	}
	d.log.Debug("execute", zap.String("verb", verb), zap.Int("args", len(args)-1))
	return h(ctx, args[1:])
}

const helpText = `Commands:
  help                              show this summary
  clear                             clear the screen
  logOut                            end this session and log in again
  exit                              close the session and quit
  staff show                        list staff members
  staff hire [username]             add a salesman (prompts for credentials)
  staff fire <username>             remove a staff member
  repertoire [YYYY-MM-DD]           movies screened on a day (default today)
  schedule [YYYY-MM-DD]             screenings on a day (default today)
  price <scheduleId>                ticket price of a screening
  customer <customerId>             customer contact data
  ticket showall                    list all tickets
  ticket last                       id of the most recent ticket
  ticket new [customerId]           issue a ticket (prompts for screening and seats)
  ticket cancel <id>                cancel a ticket`

func (d *Dispatcher) help(context.Context, []string) Outcome {
	d.con.Println(helpText)
	return OutcomeContinue
}

func (d *Dispatcher) clear(context.Context, []string) Outcome {
	d.con.Clear()
	return OutcomeContinue
}

type nopPublisher struct{}

func (nopPublisher) TicketIssued(context.Context, model.Receipt, string) error { return nil }
func (nopPublisher) TicketCancelled(context.Context, int64, string) error { return nil }
