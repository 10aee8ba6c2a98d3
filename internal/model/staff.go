package model

// StaffRecord is the public view of a row in the `Staff` table. The
// password hash is never read back.
//
// Fields:
//
//	Username – Staff.username (unique login name).
//	Role     – Staff.role.
type StaffRecord struct {
	Username string // Staff.username
	Role     Role   // Staff.role
}
