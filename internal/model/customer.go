package model

// Customer carries the display fields of a `Customers` row.
type Customer struct {
	ID      int64  // Customers.id
	Name    string // Customers.name
	Surname string // Customers.surname
	Phone   string // Customers.phoneNumber
	Email   string // Customers.email
}
