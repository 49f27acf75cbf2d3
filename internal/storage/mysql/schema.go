package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/domain"
)

// table describes one managed table in creation order (parents first).
type table struct {
	name    string
	create  []string
	hasRows string
	seed    string
	flag    func(*domain.TableFlags) *bool
}

var tables = []table{
	{
		name:    "hotels",
		create:  []string{createHotelsSQL},
		hasRows: `SELECT EXISTS (SELECT 1 FROM hotels)`,
		seed:    seedHotelsSQL,
		flag:    func(f *domain.TableFlags) *bool { return &f.Hotels },
	},
	{
		name:    "visitors",
		create:  []string{createVisitorsSQL},
		hasRows: `SELECT EXISTS (SELECT 1 FROM visitors)`,
		seed:    seedVisitorsSQL,
		flag:    func(f *domain.TableFlags) *bool { return &f.Visitors },
	},
	{
		name:    "bookings",
		create:  []string{createBookingsSQL, createBookingsTriggerSQL},
		hasRows: `SELECT EXISTS (SELECT 1 FROM bookings)`,
		seed:    seedBookingsSQL,
		flag:    func(f *domain.TableFlags) *bool { return &f.Bookings },
	},
}

// SetupSchema drops, creates and seeds the tables as requested. Creation and
// seeding skip tables that already exist or already hold rows, and the report
// lists only what was done. On error the partial report is returned with
// Success false.
func (r *Repo) SetupSchema(ctx context.Context, opts domain.SetupOptions) (domain.SetupReport, error) {
	if err := opts.Validate(); err != nil {
		return domain.SetupReport{}, err
	}

	var rep domain.SetupReport
	err := r.withConn(ctx, "setup_schema", func(conn *sql.Conn) error {
		if opts.Drop {
			if _, err := conn.ExecContext(ctx, dropTablesSQL); err != nil {
				return mapError(err, "drop tables")
			}
			rep.DropSchema = true
			log.Warn().Msg("schema dropped")
		}
		if opts.Create {
			if err := r.createTables(ctx, conn, &rep.CreateSchema); err != nil {
				return err
			}
		}
		if opts.Populate {
			if err := r.populateTables(ctx, conn, &rep.PopulateData); err != nil {
				return err
			}
		}
		return nil
	})
	rep.Success = err == nil
	log.Info().
		Bool("success", rep.Success).
		Bool("dropped", rep.DropSchema).
		Interface("created", rep.CreateSchema).
		Interface("populated", rep.PopulateData).
		Msg("schema setup finished")
	return rep, err
}

func (r *Repo) createTables(ctx context.Context, conn *sql.Conn, done *domain.TableFlags) error {
	for _, t := range tables {
		var n int64
		if err := conn.QueryRowContext(ctx, tableExistsSQL, t.name).Scan(&n); err != nil {
			return mapError(err, "probe table "+t.name)
		}
		if n > 0 {
			continue
		}
		// DDL commits implicitly in MySQL, so no transaction here.
		for _, stmt := range t.create {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return mapError(err, "create table "+t.name)
			}
		}
		*t.flag(done) = true
	}
	return nil
}

func (r *Repo) populateTables(ctx context.Context, conn *sql.Conn, done *domain.TableFlags) error {
	today := r.today()
	for _, t := range tables {
		var hasRows bool
		if err := conn.QueryRowContext(ctx, t.hasRows).Scan(&hasRows); err != nil {
			return mapError(err, "count rows in "+t.name)
		}
		if hasRows {
			continue
		}

		var args []any
		if t.name == "bookings" {
			args = seedBookingDates(today)
		}
		if err := seed(ctx, conn, t, args); err != nil {
			return err
		}
		*t.flag(done) = true
	}
	return nil
}

func seed(ctx context.Context, conn *sql.Conn, t table, args []any) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err, "begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, t.seed, args...); err != nil {
		return mapError(err, "seed "+t.name)
	}
	if err := tx.Commit(); err != nil {
		return mapError(err, "commit seed "+t.name)
	}
	return nil
}

// seedBookingDates binds the two sample stays: +10..+14 and +2..+7 days.
func seedBookingDates(today time.Time) []any {
	d := func(n int) string { return today.AddDate(0, 0, n).Format(domain.DateFormat) }
	return []any{d(10), d(14), d(2), d(7)}
}

// AllTablesExist probes for the three tables. Any failure, including an
// unreachable store, reports false.
func (r *Repo) AllTablesExist(ctx context.Context) bool {
	var n int64
	err := r.withConn(ctx, "all_tables_exist", func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, allTablesSQL).Scan(&n)
	})
	if err != nil {
		log.Debug().Err(err).Msg("table probe failed")
		return false
	}
	return n >= int64(len(tables))
}
