package repository

import (
	"context"

	"github.com/iliyamo/cinema-console/internal/model"
)

// ResolveRole looks up the role of the staff member whose username and
// password hash both match. Zero matches and more than one match both
// resolve to no role.
func (g *Gateway) ResolveRole(ctx context.Context, cred model.Credentials) (model.Role, bool) {
	role, err := g.resolveRole(ctx, cred)
	return role, g.report("resolve role", err)
}

func (g *Gateway) resolveRole(ctx context.Context, cred model.Credentials) (model.Role, error) {
	db, err := g.conn()
	if err != nil {
		return "", err
	}
	const q = "SELECT role FROM Staff WHERE username = ? AND pswd = SHA2(?, 256)"
	rows, err := db.QueryContext(ctx, q, cred.Username(), cred.Password())
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return "", err
		}
		roles = append(roles, model.Role(r))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(roles) != 1 {
		return "", ErrNotFound
	}
	return roles[0], nil
}

// ListStaff returns every staff member ordered by username.
func (g *Gateway) ListStaff(ctx context.Context) ([]model.StaffRecord, bool) {
	out, err := g.listStaff(ctx)
	return out, g.report("list staff", err)
}

func (g *Gateway) listStaff(ctx context.Context) ([]model.StaffRecord, error) {
	db, err := g.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT username, role FROM Staff ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.StaffRecord{}
	for rows.Next() {
		var s model.StaffRecord
		var role string
		if err := rows.Scan(&s.Username, &role); err != nil {
			return nil, err
		}
		s.Role = model.Role(role)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HireStaff inserts a new salesman and returns the refreshed staff list.
// New hires always get the lowest-privilege role.
func (g *Gateway) HireStaff(ctx context.Context, cred model.Credentials) ([]model.StaffRecord, bool) {
	if err := g.hireStaff(ctx, cred); !g.report("hire staff", err) {
		return nil, false
	}
	return g.ListStaff(ctx)
}

func (g *Gateway) hireStaff(ctx context.Context, cred model.Credentials) error {
	db, err := g.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO Staff (username, pswd, role) VALUES (?, SHA2(?, 256), ?)",
		cred.Username(), cred.Password(), string(model.RoleSalesman))
	return err
}

// FireStaff removes the staff member by username and returns the refreshed
// staff list. Removing an unknown username changes nothing.
func (g *Gateway) FireStaff(ctx context.Context, username string) ([]model.StaffRecord, bool) {
	if err := g.fireStaff(ctx, username); !g.report("fire staff", err) {
		return nil, false
	}
	return g.ListStaff(ctx)
}

func (g *Gateway) fireStaff(ctx context.Context, username string) error {
	db, err := g.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM Staff WHERE username = ?", username)
	return err
}
