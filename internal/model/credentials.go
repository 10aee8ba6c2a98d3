package model

import (
	"fmt"
	"regexp"
	"strings"
)

// unsafeChars matches every character that may never appear in a username
// or password: single and double quotes, semicolons, commas and whitespace.
var unsafeChars = regexp.MustCompile(`['";,\s]`)

// Credentials holds a validated username/password pair. The zero value is
// empty; Set is the only way to store a pair, so a non-empty Credentials
// always satisfies the safety check.
type Credentials struct {
	username string
	password string
}

// NewCredentials validates both fields and returns the pair, or
// ErrUnsafeInput when either field is rejected.
func NewCredentials(username, password string) (Credentials, error) {
	var c Credentials
	if !c.Set(username, password) {
		return Credentials{}, ErrUnsafeInput
	}
	return c, nil
}

// SafeInput reports whether s is non-empty and free of unsafe characters.
func SafeInput(s string) bool {
	return s != "" && !unsafeChars.MatchString(s)
}

// Set stores the pair when both fields pass SafeInput and returns true.
// Otherwise it returns false and leaves the receiver unchanged.
func (c *Credentials) Set(username, password string) bool {
	if !SafeInput(username) || !SafeInput(password) {
		return false
	}
	c.username = username
	c.password = password
	return true
}

// IsEmpty reports whether no valid pair has been stored yet.
func (c Credentials) IsEmpty() bool { return c.username == "" || c.password == "" }

func (c Credentials) Username() string { return c.username }
func (c Credentials) Password() string { return c.password }

// String never prints the password.
func (c Credentials) String() string {
	return fmt.Sprintf("Username: %s\nPassword: %s", c.username, strings.Repeat("*", len(c.password)))
}
