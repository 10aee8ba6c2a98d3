// Package cache keeps repertoire and price lookups in Redis so repeated
// queries for the same day or screening skip the database round trip.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/model"
)

// Lookup is a read-through cache for lookups whose results do not change
// when tickets are issued. Entries are scoped by database account so one
// role never reads what another role was allowed to query. A nil *Lookup is
// valid and always misses.
type Lookup struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New returns nil when rdb is nil so callers can pass the result straight
// through without checking.
func New(rdb *redis.Client, cfg config.CacheConfig) *Lookup {
	if rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "cache"
	}
	return &Lookup{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (l *Lookup) key(parts ...string) string {
	return l.prefix + ":" + strings.Join(parts, ":")
}

// Repertoire returns the titles for date cached by account.
func (l *Lookup) Repertoire(ctx context.Context, account, date string) ([]string, bool) {
	if l == nil {
		return nil, false
	}
	bs, err := l.rdb.Get(ctx, l.key(account, "repertoire", date)).Bytes()
	if err != nil {
		return nil, false
	}
	var titles []string
	if err := json.Unmarshal(bs, &titles); err != nil {
		return nil, false
	}
	return titles, true
}

// StoreRepertoire caches titles for date under account. Errors are
// ignored: the cache is an optimisation only.
func (l *Lookup) StoreRepertoire(ctx context.Context, account, date string, titles []string) {
	if l == nil {
		return
	}
	bs, err := json.Marshal(titles)
	if err != nil {
		return
	}
	_ = l.rdb.SetEx(ctx, l.key(account, "repertoire", date), bs, l.ttl).Err()
}

// Price returns the unit price of a screening cached by account.
func (l *Lookup) Price(ctx context.Context, account string, scheduleID int64) (model.Money, bool) {
	if l == nil {
		return 0, false
	}
	n, err := l.rdb.Get(ctx, l.key(account, "price", strconv.FormatInt(scheduleID, 10))).Int64()
	if err != nil {
		return 0, false
	}
	return model.Money(n), true
}

// StorePrice caches the unit price of a screening in cents under account.
func (l *Lookup) StorePrice(ctx context.Context, account string, scheduleID int64, price model.Money) {
	if l == nil {
		return
	}
	_ = l.rdb.SetEx(ctx, l.key(account, "price", strconv.FormatInt(scheduleID, 10)), int64(price), l.ttl).Err()
}
