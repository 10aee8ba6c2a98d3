package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/model"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)

type harness struct {
	store  *memStore
	events *recordingPublisher
	out    *bytes.Buffer
	d      *Dispatcher
}

func newHarness(t *testing.T, role model.Role, input string, policy AccessPolicy) *harness {
	t.Helper()
	h := &harness{store: newMemStore(), events: &recordingPublisher{}, out: &bytes.Buffer{}}
	con := console.NewTerminal(strings.NewReader(input), h.out)
	h.d = NewDispatcher(h.store, con, role, Options{
		Policy: policy,
		Events: h.events,
		Now:    func() time.Time { return fixedNow },
	})
	return h
}

func TestExecute_UnknownVerb(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})

	out := h.d.Execute(context.Background(), "dance now")

	assert.Equal(t, OutcomeContinue, out)
	assert.Equal(t, "Error: Unknown command 'dance'. Type 'help' to list commands.\n", h.out.String())
	assert.Empty(t, h.store.calls)
}

func TestExecute_EmptyLineIgnored(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})

	assert.Equal(t, OutcomeContinue, h.d.Execute(context.Background(), "   "))
	assert.Empty(t, h.out.String())
}

func TestExecute_SessionVerbs(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})
	ctx := context.Background()

	assert.Equal(t, OutcomeExit, h.d.Execute(ctx, "exit"))
	assert.Equal(t, OutcomeLogOut, h.d.Execute(ctx, "logOut"))
	assert.Equal(t, OutcomeContinue, h.d.Execute(ctx, "help"))
	assert.Contains(t, h.out.String(), "ticket new [customerId]")
}

func TestRun_StopsOnOutcome(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "help\n\nlogOut\nstaff show\n", AccessPolicy{})

	assert.Equal(t, OutcomeLogOut, h.d.Run(context.Background()))
	assert.Empty(t, h.store.calls)
}

func TestRun_EndOfInputExits(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "ticket last\n", AccessPolicy{})

	assert.Equal(t, OutcomeExit, h.d.Run(context.Background()))
	assert.Equal(t, []string{"LastTicketID"}, h.store.calls)
	assert.Contains(t, h.out.String(), "Not found.")
}

func TestRepertoire_DefaultsToToday(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})
	ctx := context.Background()

	h.d.Execute(ctx, "repertoire")
	implicit := h.out.String()
	h.out.Reset()
	h.d.Execute(ctx, "repertoire 2026-10-15")

	assert.Equal(t, implicit, h.out.String())
	require.Len(t, h.store.days, 2)
	assert.Equal(t, h.store.days[0].Format(model.DateLayout), h.store.days[1].Format(model.DateLayout))
	assert.Contains(t, implicit, "The Marvels")
}

func TestSchedule_MalformedDate(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})

	h.d.Execute(context.Background(), "schedule 15/10/2026")

	assert.True(t, strings.HasPrefix(h.out.String(), console.ErrorPrefix))
	assert.Empty(t, h.store.calls)
}

func TestSchedule_ShowsFreeSeats(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})
	h.store.screening.SeatsTaken = 5

	h.d.Execute(context.Background(), "schedule")

	assert.Contains(t, h.out.String(), "2026-10-15 14:30")
	assert.Contains(t, h.out.String(), "75")
	assert.Contains(t, h.out.String(), "30.00")
}

func TestPriceAndCustomer(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "", AccessPolicy{})
	ctx := context.Background()

	h.d.Execute(ctx, "price 7")
	assert.Equal(t, "30.00\n", h.out.String())

	h.out.Reset()
	h.d.Execute(ctx, "price 8")
	assert.Equal(t, "Not found.\n", h.out.String())

	h.out.Reset()
	h.d.Execute(ctx, "customer 3")
	assert.Contains(t, h.out.String(), "Kowalski")

	h.out.Reset()
	h.d.Execute(ctx, "customer abc")
	assert.Equal(t, "Error: 'abc' is not a valid id\n", h.out.String())
}

func TestTicket_IssueListCancel(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "7\n2\n", AccessPolicy{})
	ctx := context.Background()

	h.d.Execute(ctx, "ticket new 3")
	receipt := h.out.String()
	assert.Contains(t, receipt, "Ticket:    1")
	assert.Contains(t, receipt, "The Marvels (English, subtitles)")
	assert.Contains(t, receipt, "Seats:     2 x 30.00")
	assert.Contains(t, receipt, "Total:     60.00")

	h.out.Reset()
	h.d.Execute(ctx, "ticket showall")
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"1", "3", "7", "2"}, strings.Fields(lines[1]))

	h.out.Reset()
	h.d.Execute(ctx, "ticket cancel 1")
	assert.Equal(t, "Ticket 1 cancelled.\n", h.out.String())

	h.out.Reset()
	h.d.Execute(ctx, "ticket cancel 1")
	assert.Equal(t, "Not found.\n", h.out.String())

	assert.Equal(t, []recordedEvent{
		{"issued", 1, "salesman"},
		{"cancelled", 1, "salesman"},
	}, h.events.events)
}

func TestTicket_NewPromptsForCustomer(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "3\n7\n1\n", AccessPolicy{})

	h.d.Execute(context.Background(), "ticket new")

	assert.Contains(t, h.out.String(), "Customer id (q to cancel): ")
	assert.Contains(t, h.out.String(), "Total:     30.00")
	assert.Len(t, h.store.tickets, 1)
}

func TestTicket_NewRejectsInput(t *testing.T) {
	cases := map[string]string{
		"quit at schedule": "q\n",
		"empty seats":      "7\n\n",
		"zero seats":       "7\n0\n",
		"negative seats":   "7\n-2\n",
		"text schedule":    "seven\n",
		"end of input":     "7\n",
		"too many seats":   "7\n92233720368547758\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, model.RoleSalesman, input, AccessPolicy{})

			assert.Equal(t, OutcomeContinue, h.d.Execute(context.Background(), "ticket new 3"))
			assert.NotContains(t, h.store.calls, "IssueTicket")
			assert.Empty(t, h.events.events)
		})
	}
}

func TestTicket_IssueFailure(t *testing.T) {
	h := newHarness(t, model.RoleSalesman, "7\n2\n", AccessPolicy{})
	h.store.failIssue = true

	h.d.Execute(context.Background(), "ticket new 3")

	assert.Contains(t, h.out.String(), "Error: Ticket could not be issued")
	assert.Empty(t, h.events.events)
}

func TestStaff_HireAndFire(t *testing.T) {
	h := newHarness(t, model.RoleManager, "anna\ns3cret\n", AccessPolicy{})
	ctx := context.Background()

	h.d.Execute(ctx, "staff hire")
	assert.Contains(t, h.out.String(), "anna")
	assert.Equal(t, model.RoleSalesman, h.store.staff["anna"])

	h.out.Reset()
	h.d.Execute(ctx, "staff fire anna")
	assert.NotContains(t, h.out.String(), "anna")
	_, present := h.store.staff["anna"]
	assert.False(t, present)
}

func TestStaff_HireRejectsUnsafeInput(t *testing.T) {
	h := newHarness(t, model.RoleManager, "x'; DROP TABLE Staff; --\npw\n", AccessPolicy{})

	h.d.Execute(context.Background(), "staff hire")

	assert.Contains(t, h.out.String(), "Error: Invalid credentials")
	assert.Empty(t, h.store.calls)
}

func TestStaff_MissingArguments(t *testing.T) {
	h := newHarness(t, model.RoleManager, "", AccessPolicy{})
	ctx := context.Background()

	h.d.Execute(ctx, "staff")
	h.d.Execute(ctx, "staff fire")
	h.d.Execute(ctx, "staff fire bad;name")
	h.d.Execute(ctx, "staff promote anna")

	assert.Empty(t, h.store.calls)
	assert.Equal(t, 4, strings.Count(h.out.String(), console.ErrorPrefix))
}

func TestAccessPolicy(t *testing.T) {
	policy := NewAccessPolicy(config.AccessConfig{
		Enforce: true,
		Verbs:   map[string][]string{"staff": {"manager"}},
	})

	assert.True(t, policy.Allows("staff", model.RoleManager))
	assert.False(t, policy.Allows("staff", model.RoleSalesman))
	assert.True(t, policy.Allows("ticket", model.RoleSalesman))
	assert.True(t, policy.Allows("logOut", model.RoleSalesman))

	open := NewAccessPolicy(config.AccessConfig{Verbs: map[string][]string{"staff": {"manager"}}})
	assert.True(t, open.Allows("staff", model.RoleSalesman))
}

func TestExecute_DeniedByPolicy(t *testing.T) {
	policy := NewAccessPolicy(config.AccessConfig{
		Enforce: true,
		Verbs:   map[string][]string{"staff": {"manager"}},
	})
	h := newHarness(t, model.RoleSalesman, "", policy)

	h.d.Execute(context.Background(), "staff show")

	assert.Equal(t, "Error: 'staff' is not permitted for role 'salesman'\n", h.out.String())
	assert.Empty(t, h.store.calls)
}
