package command

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/cinema-console/internal/model"
)

// memStore is an in-memory Store holding one screening, one customer and
// the staff table. Every call is recorded by name.
type memStore struct {
	calls     []string
	staff     map[string]model.Role
	tickets   []model.Ticket
	nextID    int64
	screening model.ScheduleEntry
	customer  model.Customer
	days      []time.Time
	failIssue bool
}

func newMemStore() *memStore {
	return &memStore{
		staff:  map[string]model.Role{"manager": model.RoleManager, "salesman": model.RoleSalesman},
		nextID: 1,
		screening: model.ScheduleEntry{
			ID: 7, MovieTitle: "The Marvels", Language: "English", LanguageType: "subtitles",
			RoomID: 7, StartTime: time.Date(2026, 10, 15, 14, 30, 0, 0, time.Local),
			Capacity: 80, Price: 3000,
		},
		customer: model.Customer{ID: 3, Name: "Jan", Surname: "Kowalski", Phone: "555-0100", Email: "jan@example.com"},
	}
}

func (m *memStore) staffList() []model.StaffRecord {
	out := make([]model.StaffRecord, 0, len(m.staff))
	for u, r := range m.staff {
		out = append(out, model.StaffRecord{Username: u, Role: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (m *memStore) ListStaff(context.Context) ([]model.StaffRecord, bool) {
	m.calls = append(m.calls, "ListStaff")
	return m.staffList(), true
}

func (m *memStore) HireStaff(_ context.Context, cred model.Credentials) ([]model.StaffRecord, bool) {
	m.calls = append(m.calls, "HireStaff")
	if _, taken := m.staff[cred.Username()]; taken {
		return nil, false
	}
	m.staff[cred.Username()] = model.RoleSalesman
	return m.staffList(), true
}

func (m *memStore) FireStaff(_ context.Context, username string) ([]model.StaffRecord, bool) {
	m.calls = append(m.calls, "FireStaff")
	delete(m.staff, username)
	return m.staffList(), true
}

func (m *memStore) RepertoireOn(_ context.Context, day time.Time) ([]string, bool) {
	m.calls = append(m.calls, "RepertoireOn")
	m.days = append(m.days, day)
	return []string{"Shotgun Wedding", "The Marvels"}, true
}

func (m *memStore) ScheduleOn(_ context.Context, day time.Time) ([]model.ScheduleEntry, bool) {
	m.calls = append(m.calls, "ScheduleOn")
	m.days = append(m.days, day)
	return []model.ScheduleEntry{m.screening}, true
}

func (m *memStore) PriceFor(_ context.Context, id int64) (model.Money, bool) {
	m.calls = append(m.calls, "PriceFor")
	if id != m.screening.ID {
		return 0, false
	}
	return m.screening.Price, true
}

func (m *memStore) CustomerData(_ context.Context, id int64) (model.Customer, bool) {
	m.calls = append(m.calls, "CustomerData")
	if id != m.customer.ID {
		return model.Customer{}, false
	}
	return m.customer, true
}

func (m *memStore) LastTicketID(context.Context) (int64, bool) {
	m.calls = append(m.calls, "LastTicketID")
	if len(m.tickets) == 0 {
		return 0, false
	}
	return m.tickets[len(m.tickets)-1].ID, true
}

func (m *memStore) ListTickets(context.Context) ([]model.Ticket, bool) {
	m.calls = append(m.calls, "ListTickets")
	return append([]model.Ticket(nil), m.tickets...), true
}

func (m *memStore) IssueTicket(_ context.Context, req model.TicketRequest) (model.Receipt, bool) {
	m.calls = append(m.calls, "IssueTicket")
	if m.failIssue {
		return model.Receipt{}, false
	}
	t := model.Ticket{ID: m.nextID, CustomerID: req.CustomerID, ScheduleID: req.ScheduleID, Seats: req.Seats}
	m.nextID++
	m.tickets = append(m.tickets, t)
	r, err := model.NewReceipt(model.ReceiptScreening{
		TicketID:     t.ID,
		MovieTitle:   m.screening.MovieTitle,
		Language:     m.screening.Language,
		LanguageType: m.screening.LanguageType,
		StartTime:    m.screening.StartTime,
		Seats:        t.Seats,
	}, m.customer, m.screening.Price)
	return r, err == nil
}

func (m *memStore) CancelTicket(_ context.Context, id int64) (bool, bool) {
	m.calls = append(m.calls, "CancelTicket")
	for i, t := range m.tickets {
		if t.ID == id {
			m.tickets = append(m.tickets[:i], m.tickets[i+1:]...)
			return true, true
		}
	}
	return false, true
}

type recordedEvent struct {
	kind     string
	ticketID int64
	by       string
}

type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) TicketIssued(_ context.Context, r model.Receipt, by string) error {
	p.events = append(p.events, recordedEvent{"issued", r.TicketID, by})
	return nil
}

func (p *recordingPublisher) TicketCancelled(_ context.Context, id int64, by string) error {
	p.events = append(p.events, recordedEvent{"cancelled", id, by})
	return nil
}
