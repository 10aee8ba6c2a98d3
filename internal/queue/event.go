// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in the AMQP Type header.
const (
	TypeTicketIssued    = "ticket.issued"
	TypeTicketCancelled = "ticket.cancelled"
)

// TicketIssuedEvent is published when a ticket is issued and its receipt
// was composed. It contains enough information for downstream consumers to
// log or notify without querying the primary database.
type TicketIssuedEvent struct {
	TicketID      int64  `json:"ticket_id"`
	CustomerID    int64  `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Movie         string `json:"movie"`
	StartsAt      string `json:"starts_at"`
	Seats         int    `json:"seats"`
	TotalAmount   string `json:"total_amount"`
	IssuedBy      string `json:"issued_by"`
	IssuedAt      string `json:"issued_at"`
}

// TicketCancelledEvent is published when a cancel removed a ticket row.
type TicketCancelledEvent struct {
	TicketID    int64  `json:"ticket_id"`
	CancelledBy string `json:"cancelled_by"`
	CancelledAt string `json:"cancelled_at"`
}
