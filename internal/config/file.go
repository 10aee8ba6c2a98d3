package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the base document written by the config generator: the database
// target plus one password per database account.
type File struct {
	Host        string            `yaml:"host"`
	Port        int               `yaml:"port"`
	Database    string            `yaml:"database"`
	Credentials map[string]string `yaml:"credentials"`
}

// DefaultFile returns the generator's starting point.
func DefaultFile() File {
	return File{
		Host:     "localhost",
		Port:     3306,
		Database: "cinema",
		Credentials: map[string]string{
			"init":     "",
			"salesman": "",
			"manager":  "",
		},
	}
}

// Write serializes f as YAML to path. The file holds passwords, so it is
// created owner-only.
func Write(path string, f File) error {
	out, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
