// Command genconfig writes db_config.yaml after asking for the password of
// every database account.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/model"
)

func main() {
	out := pflag.StringP("out", "o", "db_config.yaml", "where to write the configuration")
	host := pflag.String("host", "localhost", "database host")
	port := pflag.Int("port", 3306, "database port")
	database := pflag.String("database", "cinema", "database name")
	pflag.Parse()

	con := console.NewStdio()
	f := config.DefaultFile()
	f.Host, f.Port, f.Database = *host, *port, *database

	con.Printf("Generating %s...\n", *out)
	for _, role := range []model.Role{model.RoleInit, model.RoleSalesman, model.RoleManager} {
		pass, err := con.ReadPassword(fmt.Sprintf("Enter %s's password: ", role))
		if err != nil {
			con.Errorf("%v", err)
			os.Exit(1)
		}
		if !model.SafeInput(pass) {
			con.Errorf("the %s password is empty or contains quotes, semicolons, commas or spaces", role)
			os.Exit(1)
		}
		f.Credentials[role.String()] = pass
	}

	if err := config.Write(*out, f); err != nil {
		con.Errorf("%v", err)
		os.Exit(1)
	}
	con.Println("Success!")
}
