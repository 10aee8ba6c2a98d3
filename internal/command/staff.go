package command

import (
	"context"

	"github.com/iliyamo/cinema-console/internal/model"
)

func (d *Dispatcher) staff(ctx context.Context, args []string) Outcome {
	if len(args) == 0 {
		d.con.Errorf("Usage: staff show | hire [username] | fire <username>")
		return OutcomeContinue
	}
	switch args[0] {
	case "show":
		d.staffShow(ctx)
	case "hire":
		d.staffHire(ctx, args[1:])
	case "fire":
		d.staffFire(ctx, args[1:])
	default:
		d.con.Errorf("Unknown staff action '%s'", args[0])
	}
	return OutcomeContinue
}

func (d *Dispatcher) staffShow(ctx context.Context) {
	list, ok := d.store.ListStaff(ctx)
	if !ok {
		d.con.Errorf("Could not list staff")
		return
	}
	d.printStaff(list)
}

// staffHire reads the new member's credentials and aborts without touching
// the store if either part is unsafe.
func (d *Dispatcher) staffHire(ctx context.Context, args []string) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		line, err := d.con.ReadLine("New username: ")
		if err != nil {
			return
		}
		username = line
	}
	password, err := d.con.ReadPassword("New password: ")
	if err != nil {
		return
	}
	cred, err := model.NewCredentials(username, password)
	if err != nil {
		d.con.Errorf("Invalid credentials")
		return
	}
	list, ok := d.store.HireStaff(ctx, cred)
	if !ok {
		d.con.Errorf("Could not hire '%s'", cred.Username())
		return
	}
	d.printStaff(list)
}

func (d *Dispatcher) staffFire(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.con.Errorf("Usage: staff fire <username>")
		return
	}
	username := args[0]
	if !model.SafeInput(username) {
		d.con.Errorf("Invalid username")
		return
	}
	list, ok := d.store.FireStaff(ctx, username)
	if !ok {
		d.con.Errorf("Could not fire '%s'", username)
		return
	}
	d.printStaff(list)
}

func (d *Dispatcher) printStaff(list []model.StaffRecord) {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{s.Username, s.Role.String()})
	}
	d.con.Table([]string{"USERNAME", "ROLE"}, rows)
}
