package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/database"
	"github.com/iliyamo/cinema-console/internal/model"
)

// LookupCache short-circuits lookups whose results are stable for the
// lifetime of a cache entry. Entries are per database account, since the
// account's grants decide what it may read. *cache.Lookup implements it.
type LookupCache interface {
	Repertoire(ctx context.Context, account, date string) ([]string, bool)
	StoreRepertoire(ctx context.Context, account, date string, titles []string)
	Price(ctx context.Context, account string, scheduleID int64) (model.Money, bool)
	StorePrice(ctx context.Context, account string, scheduleID int64, price model.Money)
}

// Gateway is one database session: a credential pair, the endpoint it
// targets and, while open, the live handle. A Gateway is either closed
// (db == nil) or open (db pinged and usable).
type Gateway struct {
	cred    model.Credentials
	ep      model.Endpoint
	connect database.Connector
	log     *zap.Logger
	cache   LookupCache
	db      *sql.DB
}

// NewGateway returns a closed gateway for cred at ep.
func NewGateway(cred model.Credentials, ep model.Endpoint, connect database.Connector, log *zap.Logger) *Gateway {
	if connect == nil {
		connect = database.Open
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		cred:    cred,
		ep:      ep,
		connect: connect,
		log:     log.Named("gateway").With(zap.String("user", cred.Username())),
		cache:   noCache{},
	}
}

// WithCache attaches a lookup cache and returns g. A nil cache leaves
// caching off.
func (g *Gateway) WithCache(c LookupCache) *Gateway {
	if c != nil {
		g.cache = c
	}
	return g
}

type noCache struct{}

func (noCache) Repertoire(context.Context, string, string) ([]string, bool) { return nil, false }
func (noCache) StoreRepertoire(context.Context, string, string, []string) {}
func (noCache) Price(context.Context, string, int64) (model.Money, bool) { return 0, false }
func (noCache) StorePrice(context.Context, string, int64, model.Money) {}

// Username is the database account this gateway logs in as.
func (g *Gateway) Username() string { return g.cred.Username() }

// IsOpen reports whether the session holds a live handle.
func (g *Gateway) IsOpen() bool { return g.db != nil }

// Open connects with the held credentials. It logs and returns false on any
// driver failure; the gateway then stays closed. Opening an open gateway
// is a no-op.
func (g *Gateway) Open(ctx context.Context) bool {
	if g.db != nil {
		return true
	}
	db, err := g.connect(ctx, g.cred, g.ep)
	if err != nil {
		g.log.Error("open session failed", zap.String("addr", g.ep.Addr()), zap.String("database", g.ep.Database), zap.Error(err))
		return false
	}
	g.db = db
	g.log.Info("session opened", zap.String("addr", g.ep.Addr()), zap.String("database", g.ep.Database))
	return true
}

// Close releases the handle. Statements run in autocommit mode, so nothing
// is pending at this point. Closing a closed gateway does nothing.
func (g *Gateway) Close() {
	if g.db == nil {
		return
	}
	if err := g.db.Close(); err != nil {
		g.log.Warn("close session", zap.Error(err))
	}
	g.db = nil
	g.log.Info("session closed")
}

func (g *Gateway) conn() (*sql.DB, error) {
	if g.db == nil {
		return nil, ErrClosed
	}
	return g.db, nil
}

// report turns an internal error into the ok flag. Absence is logged at
// debug level, anything else is a fault.
func (g *Gateway) report(op string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrNotFound) {
		g.log.Debug("no result", zap.String("op", op))
		return false
	}
	g.log.Error("query failed", zap.String("op", op), zap.Error(err))
	return false
}
