package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	gomysql "github.com/go-sql-driver/mysql"

	"contoso_hotel/internal/adapters/observability"
	"contoso_hotel/internal/domain"
)

// Repo implements domain.Repository on MySQL 8. Every operation takes its
// own connection from db and releases it before returning.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*Repo)

// WithClock overrides the clock used for "today" checks and seed dates.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

func New(db *sql.DB, opts ...Option) *Repo {
	r := &Repo{db: db, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Connect opens a handle for dsn and pings it. Idle connections are not
// kept, so each repository call dials and closes its own connection. Every
// session runs in UTC; see utcDSN.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn, err := utcDSN(dsn)
	if err != nil {
		return nil, domain.Configuration("invalid connection string: " + err.Error())
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, domain.Store("invalid connection string", err)
	}
	db.SetMaxIdleConns(0)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "ping failed")
	}
	return db, nil
}

// utcDSN pins the driver location and the session time_zone to UTC, so that
// today() and CURDATE() in the bookings trigger name the same day.
func utcDSN(dsn string) (string, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["time_zone"] = "'+00:00'"
	return cfg.FormatDSN(), nil
}

// today is the current UTC calendar date, whatever the host zone.
func (r *Repo) today() time.Time { return domain.DateOf(r.now().UTC()) }

// withConn runs fn on a dedicated connection and records the outcome under op.
func (r *Repo) withConn(ctx context.Context, op string, fn func(*sql.Conn) error) (err error) {
	start := time.Now()
	defer func() { observability.ObserveStore(op, err, time.Since(start)) }()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return mapError(err, "acquire connection")
	}
	defer conn.Close()
	return fn(conn)
}

// withTx is withConn plus a transaction that commits only when fn succeeds.
func (r *Repo) withTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	return r.withConn(ctx, op, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return mapError(err, "begin transaction")
		}
		defer tx.Rollback() //nolint:errcheck // no-op after Commit

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return mapError(err, "commit")
		}
		return nil
	})
}

// deleteByID runs a single-row delete and reports whether a row was removed.
func (r *Repo) deleteByID(ctx context.Context, op, query string, id int64) (bool, error) {
	var deleted bool
	err := r.withConn(ctx, op, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, query, id)
		if err != nil {
			return mapError(err, op)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return mapError(err, op)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// nextID picks the id for a new row: the explicit one when given, else max+1.
func nextID(explicit *int64, currentMax int64) int64 {
	if explicit != nil {
		return *explicit
	}
	return currentMax + 1
}

// explicitID returns the id to probe for collisions; 0 never matches a row.
func explicitID(id *int64) (int64, error) {
	if id == nil {
		return 0, nil
	}
	if *id <= 0 {
		return 0, domain.Validation("id must be positive")
	}
	return *id, nil
}

// tooLong reports whether name exceeds the name columns' character limit.
func tooLong(name string) bool {
	return utf8.RuneCountInString(name) > domain.MaxNameLength
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching name anywhere in a column.
func containsPattern(name string) string {
	return "%" + strings.ToLower(likeEscaper.Replace(name)) + "%"
}
