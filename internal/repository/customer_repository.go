package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-console/internal/model"
)

// CustomerData fetches the display fields of a customer.
func (g *Gateway) CustomerData(ctx context.Context, customerID int64) (model.Customer, bool) {
	c, err := g.customerData(ctx, customerID)
	return c, g.report("customer", err)
}

func (g *Gateway) customerData(ctx context.Context, customerID int64) (model.Customer, error) {
	db, err := g.conn()
	if err != nil {
		return model.Customer{}, err
	}
	const q = "SELECT id, name, surname, phoneNumber, email FROM Customers WHERE id = ?"
	var (
		c            model.Customer
		phone, email sql.NullString
	)
	if err := db.QueryRowContext(ctx, q, customerID).Scan(&c.ID, &c.Name, &c.Surname, &phone, &email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Customer{}, ErrNotFound
		}
		return model.Customer{}, err
	}
	c.Phone = phone.String
	c.Email = email.String
	return c, nil
}
