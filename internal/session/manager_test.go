package session

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/model"
)

func q(fragment string) string { return regexp.QuoteMeta(fragment) }

// backend hands out one sqlmock database per connect call. Scripts are
// consumed in order per database account; refused accounts fail to connect.
type backend struct {
	t       *testing.T
	opens   []string
	dbs     []*sql.DB
	mocks   []sqlmock.Sqlmock
	scripts map[string][]func(sqlmock.Sqlmock)
	refuse  map[string]bool
}

func newBackend(t *testing.T) *backend {
	return &backend{t: t, scripts: map[string][]func(sqlmock.Sqlmock){}, refuse: map[string]bool{}}
}

func (b *backend) script(user string, fn func(sqlmock.Sqlmock)) {
	b.scripts[user] = append(b.scripts[user], fn)
}

func (b *backend) connect(_ context.Context, c model.Credentials, _ model.Endpoint) (*sql.DB, error) {
	b.opens = append(b.opens, c.Username())
	for _, prev := range b.dbs {
		assert.Error(b.t, prev.Ping(), "previous session still open when %s connected", c.Username())
	}
	if b.refuse[c.Username()] {
		return nil, errors.New("access denied")
	}
	db, mock, err := sqlmock.New()
	require.NoError(b.t, err)
	if queue := b.scripts[c.Username()]; len(queue) > 0 {
		queue[0](mock)
		b.scripts[c.Username()] = queue[1:]
	}
	mock.ExpectClose()
	b.dbs = append(b.dbs, db)
	b.mocks = append(b.mocks, mock)
	return db, nil
}

func (b *backend) verify() {
	for i, mock := range b.mocks {
		assert.NoError(b.t, mock.ExpectationsWereMet(), "session %d (%s)", i, b.opens[i])
	}
	for _, db := range b.dbs {
		assert.Error(b.t, db.Ping(), "session left open")
	}
}

func testConfig() config.Config {
	return config.Config{
		Host:     "localhost",
		Port:     3306,
		Database: "cinema",
		Credentials: map[string]string{
			"init":     "initpw",
			"salesman": "sellpw",
			"manager":  "bosspw",
		},
	}
}

func resolvesTo(user, pass, role string) func(sqlmock.Sqlmock) {
	return func(mock sqlmock.Sqlmock) {
		rows := sqlmock.NewRows([]string{"role"})
		if role != "" {
			rows.AddRow(role)
		}
		mock.ExpectQuery(q("SELECT role FROM Staff WHERE username = ? AND pswd = SHA2(?, 256)")).
			WithArgs(user, pass).
			WillReturnRows(rows)
	}
}

func newTestManager(t *testing.T, b *backend, input string) (*Manager, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	m, err := NewManager(testConfig(), console.NewTerminal(strings.NewReader(input), &out), Options{Connect: b.connect})
	require.NoError(t, err)
	return m, &out
}

func TestRun_LoginCommandLogoutExit(t *testing.T) {
	b := newBackend(t)
	b.script("init", resolvesTo("jan", "pw1", "salesman"))
	b.script("salesman", func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(q("SELECT MAX(id) FROM Tickets")).
			WillReturnRows(sqlmock.NewRows([]string{"MAX(id)"}).AddRow(int64(5)))
	})
	m, out := newTestManager(t, b, "jan\npw1\nticket last\nlogOut\nexit\n")

	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, []string{"init", "salesman", "init"}, b.opens)
	assert.Contains(t, out.String(), "Logged in as jan (salesman).")
	assert.Contains(t, out.String(), "cmd> 5\n")
	assert.Equal(t, StateClosed, m.State())
	b.verify()
}

func TestRun_RejectsInjectionBeforeQuerying(t *testing.T) {
	b := newBackend(t)
	m, out := newTestManager(t, b, "x' OR '1'='1\nanything\nexit\n")

	require.NoError(t, m.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: Invalid credentials")
	assert.Equal(t, []string{"init"}, b.opens)
	b.verify()
}

func TestRun_UnknownStaffMember(t *testing.T) {
	b := newBackend(t)
	b.script("init", resolvesTo("ghost", "boo", ""))
	m, out := newTestManager(t, b, "ghost\nboo\nexit\n")

	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, 1, strings.Count(out.String(), "Error: Invalid credentials"))
	assert.Equal(t, []string{"init"}, b.opens)
	b.verify()
}

func TestRun_BootstrapFailure(t *testing.T) {
	b := newBackend(t)
	b.refuse["init"] = true
	m, _ := newTestManager(t, b, "jan\npw1\n")

	assert.ErrorIs(t, m.Run(context.Background()), ErrBootstrap)
}

func TestRun_RoleSessionRefusedFallsBackToInit(t *testing.T) {
	b := newBackend(t)
	b.refuse["manager"] = true
	b.script("init", resolvesTo("boss", "pw", "manager"))
	m, out := newTestManager(t, b, "boss\npw\nexit\n")

	require.NoError(t, m.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: Could not open a session for role 'manager'")
	assert.Equal(t, []string{"init", "manager", "init"}, b.opens)
	b.verify()
}

func TestRun_RoleWithoutConfiguredAccount(t *testing.T) {
	b := newBackend(t)
	b.script("init", resolvesTo("eve", "pw", "auditor"))
	m, out := newTestManager(t, b, "eve\npw\nexit\n")

	require.NoError(t, m.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: No database account is configured for role 'auditor'")
	assert.Equal(t, []string{"init"}, b.opens)
	b.verify()
}

func TestRun_ManagerHiresSalesman(t *testing.T) {
	b := newBackend(t)
	b.script("init", resolvesTo("boss", "bosspass", "manager"))
	b.script("manager", func(mock sqlmock.Sqlmock) {
		mock.ExpectExec(q("INSERT INTO Staff (username, pswd, role) VALUES (?, SHA2(?, 256), ?)")).
			WithArgs("anna", "annapw", "salesman").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(q("SELECT username, role FROM Staff ORDER BY username")).
			WillReturnRows(sqlmock.NewRows([]string{"username", "role"}).
				AddRow("anna", "salesman").
				AddRow("boss", "manager"))
	})
	m, out := newTestManager(t, b, "boss\nbosspass\nstaff hire anna\nannapw\nexit\n")

	require.NoError(t, m.Run(context.Background()))

	assert.Contains(t, out.String(), "anna")
	assert.Equal(t, []string{"init", "manager"}, b.opens)
	assert.Equal(t, StateClosed, m.State())
	b.verify()
}

func TestRun_EndOfInputAtLogin(t *testing.T) {
	b := newBackend(t)
	m, _ := newTestManager(t, b, "")

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, StateClosed, m.State())
	b.verify()
}

func TestNewManager_RequiresBootstrapCredential(t *testing.T) {
	cfg := testConfig()
	delete(cfg.Credentials, "init")

	_, err := NewManager(cfg, console.NewTerminal(strings.NewReader(""), &bytes.Buffer{}), Options{})

	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "command-loop", StateCommandLoop.String())
	assert.Equal(t, "state(42)", State(42).String())
}

type denyAfter struct {
	left int
	seen []string
}

func (d *denyAfter) Allow(_ context.Context, username string) (bool, time.Duration, error) {
	d.seen = append(d.seen, username)
	if d.left == 0 {
		return false, 1500 * time.Millisecond, nil
	}
	d.left--
	return true, 0, nil
}

func TestRun_ThrottledLoginSkipsRoleLookup(t *testing.T) {
	b := newBackend(t)
	b.script("init", resolvesTo("jan", "wrong", ""))
	limiter := &denyAfter{left: 1}
	var out bytes.Buffer
	m, err := NewManager(testConfig(),
		console.NewTerminal(strings.NewReader("jan\nwrong\njan\npw1\nexit\n"), &out),
		Options{Connect: b.connect, Limiter: limiter})
	require.NoError(t, err)

	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, []string{"jan", "jan"}, limiter.seen)
	assert.Contains(t, out.String(), "Error: Too many login attempts. Try again in 2 seconds")
	assert.Equal(t, []string{"init"}, b.opens)
	b.verify()
}
