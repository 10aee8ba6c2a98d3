package model

import (
	"fmt"
	"net"
	"strconv"
)

// Endpoint identifies the database a session connects to.
//
// Fields:
//
//	Host     – database server host name or address.
//	Port     – TCP port of the server.
//	Database – schema name holding the cinema tables.
type Endpoint struct {
	Host     string
	Port     int
	Database string
}

// NewEndpoint returns an Endpoint, or ErrMissingField when any part is unset.
func NewEndpoint(host string, port int, database string) (Endpoint, error) {
	if host == "" || port <= 0 || database == "" {
		return Endpoint{}, fmt.Errorf("endpoint %s:%d/%s: %w", host, port, database, ErrMissingField)
	}
	return Endpoint{Host: host, Port: port, Database: database}, nil
}

// Addr returns host:port, bracketing IPv6 hosts.
func (e Endpoint) Addr() string { return net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) }
