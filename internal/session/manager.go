// Package session drives the login cycle: it keeps exactly one database
// session open at a time, resolves the operator's role through the
// bootstrap account and hands the role's session to the command loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/command"
	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/database"
	"github.com/iliyamo/cinema-console/internal/model"
	"github.com/iliyamo/cinema-console/internal/repository"
)

// ErrBootstrap means the bootstrap session could not be opened. Without it
// no one can log in, so the process should stop.
var ErrBootstrap = errors.New("cannot open the bootstrap session")

// State is the position of the manager in the login cycle.
type State int

const (
	StateUnauthenticated State = iota
	StateRoleResolving
	StateSessionOpen
	StateCommandLoop
	StateLoggedOut
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRoleResolving:
		return "role-resolving"
	case StateSessionOpen:
		return "session-open"
	case StateCommandLoop:
		return "command-loop"
	case StateLoggedOut:
		return "logged-out"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LoginLimiter throttles login attempts per username. *cache.Limiter
// implements it.
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (ok bool, retryAfter time.Duration, err error)
}

// Options are the optional collaborators of a Manager.
type Options struct {
	Connect database.Connector
	Cache   repository.LookupCache
	Limiter LoginLimiter
	Events  command.Publisher
	Policy  command.AccessPolicy
	Now     func() time.Time
	Log     *zap.Logger
}

// Manager owns the current gateway. Only one gateway is open at any time;
// the previous one is closed before the next one is opened.
type Manager struct {
	cfg     config.Config
	ep      model.Endpoint
	init    model.Credentials
	con     console.Console
	opts    Options
	log     *zap.Logger
	state   State
	current *repository.Gateway
}

// NewManager checks the configuration needed for the bootstrap session.
func NewManager(cfg config.Config, con console.Console, opts Options) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ep, err := cfg.Endpoint()
	if err != nil {
		return nil, err
	}
	initCred, err := cfg.RoleCredentials(model.RoleInit)
	if err != nil {
		return nil, err
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Manager{
		cfg:  cfg,
		ep:   ep,
		init: initCred,
		con:  con,
		opts: opts,
		log:  opts.Log.Named("session"),
	}, nil
}

// State reports where the manager is in the login cycle.
func (m *Manager) State() State { return m.state }

// Run opens the bootstrap session and serves logins until the operator
// exits or input ends. It returns ErrBootstrap when the bootstrap session
// cannot be (re)opened; every other failure is reported on the console and
// the login prompt comes back.
func (m *Manager) Run(ctx context.Context) error {
	if !m.openInit(ctx) {
		return ErrBootstrap
	}
	for {
		m.setState(StateUnauthenticated)
		cred, done := m.login()
		if done {
			m.closeCurrent()
			m.setState(StateClosed)
			return nil
		}
		if cred.IsEmpty() {
			continue
		}

		if !m.allow(ctx, cred.Username()) {
			continue
		}

		m.setState(StateRoleResolving)
		role, ok := m.current.ResolveRole(ctx, cred)
		if !ok {
			m.con.Errorf("Invalid credentials")
			continue
		}
		roleCred, err := m.cfg.RoleCredentials(role)
		if err != nil {
			m.log.Error("role has no database account", zap.String("role", role.String()), zap.Error(err))
			m.con.Errorf("No database account is configured for role '%s'", role)
			continue
		}

		m.closeCurrent()
		gw := m.gateway(roleCred)
		if !gw.Open(ctx) {
			m.con.Errorf("Could not open a session for role '%s'", role)
			if !m.openInit(ctx) {
				return ErrBootstrap
			}
			continue
		}
		m.current = gw
		m.setState(StateSessionOpen)
		m.log.Info("logged in", zap.String("username", cred.Username()), zap.String("role", role.String()))
		m.con.Printf("Logged in as %s (%s).\n", cred.Username(), role)

		m.setState(StateCommandLoop)
		out := command.NewDispatcher(gw, m.con, role, command.Options{
			Operator: cred.Username(),
			Policy:   m.opts.Policy,
			Events:   m.opts.Events,
			Now:      m.opts.Now,
			Log:      m.opts.Log,
		}).Run(ctx)
		m.closeCurrent()
		if out == command.OutcomeExit {
			m.setState(StateClosed)
			return nil
		}
		m.setState(StateLoggedOut)
		m.log.Info("logged out", zap.String("username", cred.Username()))
		if !m.openInit(ctx) {
			return ErrBootstrap
		}
	}
}

// login prompts for one credential pair. done is true when the operator
// typed exit or input ended. A rejected pair comes back empty.
func (m *Manager) login() (cred model.Credentials, done bool) {
	username, err := m.con.ReadLine("Username: ")
	if err != nil {
		m.readFailed(err)
		return model.Credentials{}, true
	}
	if strings.TrimSpace(username) == "exit" {
		return model.Credentials{}, true
	}
	password, err := m.con.ReadPassword("Password: ")
	if err != nil {
		m.readFailed(err)
		return model.Credentials{}, true
	}
	if !cred.Set(username, password) {
		m.log.Warn("credentials rejected by input validation")
		m.con.Errorf("Invalid credentials")
	}
	return cred, false
}

// allow consults the login limiter. Limiter faults let the attempt through.
func (m *Manager) allow(ctx context.Context, username string) bool {
	if m.opts.Limiter == nil {
		return true
	}
	ok, wait, err := m.opts.Limiter.Allow(ctx, username)
	if err != nil {
		m.log.Warn("login limiter unavailable", zap.Error(err))
	}
	if !ok {
		m.log.Warn("login throttled", zap.String("username", username), zap.Duration("retry_after", wait))
		m.con.Errorf("Too many login attempts. Try again in %d seconds", int(math.Ceil(wait.Seconds())))
	}
	return ok
}

func (m *Manager) readFailed(err error) {
	if !errors.Is(err, io.EOF) {
		m.log.Error("read login", zap.Error(err))
	}
}

func (m *Manager) gateway(cred model.Credentials) *repository.Gateway {
	return repository.NewGateway(cred, m.ep, m.opts.Connect, m.opts.Log).WithCache(m.opts.Cache)
}

func (m *Manager) openInit(ctx context.Context) bool {
	m.closeCurrent()
	gw := m.gateway(m.init)
	if !gw.Open(ctx) {
		return false
	}
	m.current = gw
	return true
}

func (m *Manager) closeCurrent() {
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}

func (m *Manager) setState(s State) {
	if m.state != s {
		m.log.Debug("state", zap.Stringer("from", m.state), zap.Stringer("to", s))
	}
	m.state = s
}
