package model

// Role is the privilege level resolved from a Staff row. Each role logs in
// to the database as its own account, so the set is open: any role that has
// a configured password can hold a session.
type Role string

const (
	RoleInit     Role = "init"     // bootstrap account used only for role resolution
	RoleSalesman Role = "salesman" // lowest privilege; assigned to every new hire
	RoleManager  Role = "manager"
)

func (r Role) String() string { return string(r) }
