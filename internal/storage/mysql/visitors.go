package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/domain"
)

func (r *Repo) CreateVisitor(ctx context.Context, firstName, lastName string, id *int64) (domain.Visitor, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return domain.Visitor{}, domain.Validation("first and last name required")
	}
	if tooLong(firstName) || tooLong(lastName) {
		return domain.Visitor{}, domain.Validation("visitor name too long")
	}
	probeID, err := explicitID(id)
	if err != nil {
		return domain.Visitor{}, err
	}

	v := domain.Visitor{FirstName: firstName, LastName: lastName}
	err = r.withTx(ctx, "create_visitor", func(tx *sql.Tx) error {
		var n, maxID int64
		if err := tx.QueryRowContext(ctx, visitorConflictSQL, probeID, firstName, lastName).Scan(&n, &maxID); err != nil {
			return mapError(err, "check visitor")
		}
		if n > 0 {
			return domain.AlreadyExists("visitor")
		}
		v.ID = nextID(id, maxID)
		if _, err := tx.ExecContext(ctx, insertVisitorSQL, v.ID, v.FirstName, v.LastName); err != nil {
			return mapError(err, "insert visitor")
		}
		return nil
	})
	if err != nil {
		return domain.Visitor{}, err
	}
	log.Info().Int64("visitor_id", v.ID).Msg("visitor created")
	return v, nil
}

// DeleteVisitor removes the visitor and, through the cascading key, their bookings.
func (r *Repo) DeleteVisitor(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.deleteByID(ctx, "delete_visitor", deleteVisitorSQL, id)
	if deleted {
		log.Info().Int64("visitor_id", id).Msg("visitor deleted")
	}
	return deleted, err
}

// ListVisitors matches the filter against the first OR the last name.
func (r *Repo) ListVisitors(ctx context.Context, f domain.NameFilter) ([]domain.Visitor, error) {
	q, args := selectVisitorsSQL, []any{}
	if name := strings.TrimSpace(f.Name); name != "" {
		if f.Exact {
			q += " WHERE first_name = ? OR last_name = ?"
			args = append(args, name, name)
		} else {
			p := containsPattern(name)
			q += " WHERE LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?"
			args = append(args, p, p)
		}
	}
	q += " ORDER BY visitor_id"

	out := []domain.Visitor{}
	err := r.withConn(ctx, "list_visitors", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, q, args...)
		if err != nil {
			return mapError(err, "list visitors")
		}
		defer rows.Close()

		for rows.Next() {
			var v domain.Visitor
			if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName); err != nil {
				return mapError(err, "scan visitor")
			}
			out = append(out, v)
		}
		return mapError(rows.Err(), "list visitors")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
