package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/domain"
)

func (r *Repo) CreateHotel(ctx context.Context, name string, pricePerNight float64, id *int64) (domain.Hotel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Hotel{}, domain.Validation("hotel name required")
	}
	if tooLong(name) {
		return domain.Hotel{}, domain.Validation("hotel name too long")
	}
	if pricePerNight <= 0 {
		return domain.Hotel{}, domain.Validation("price per night must be positive")
	}
	probeID, err := explicitID(id)
	if err != nil {
		return domain.Hotel{}, err
	}

	h := domain.Hotel{Name: name, PricePerNight: pricePerNight}
	err = r.withTx(ctx, "create_hotel", func(tx *sql.Tx) error {
		var n, maxID int64
		if err := tx.QueryRowContext(ctx, hotelConflictSQL, probeID, name).Scan(&n, &maxID); err != nil {
			return mapError(err, "check hotel")
		}
		if n > 0 {
			return domain.AlreadyExists("hotel")
		}
		h.ID = nextID(id, maxID)
		if _, err := tx.ExecContext(ctx, insertHotelSQL, h.ID, h.Name, h.PricePerNight); err != nil {
			return mapError(err, "insert hotel")
		}
		return nil
	})
	if err != nil {
		return domain.Hotel{}, err
	}
	log.Info().Int64("hotel_id", h.ID).Str("name", h.Name).Msg("hotel created")
	return h, nil
}

// DeleteHotel removes the hotel and, through the cascading key, its bookings.
func (r *Repo) DeleteHotel(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.deleteByID(ctx, "delete_hotel", deleteHotelSQL, id)
	if deleted {
		log.Info().Int64("hotel_id", id).Msg("hotel deleted")
	}
	return deleted, err
}

func (r *Repo) ListHotels(ctx context.Context, f domain.NameFilter) ([]domain.Hotel, error) {
	q, args := selectHotelsSQL, []any{}
	if name := strings.TrimSpace(f.Name); name != "" {
		if f.Exact {
			q += " WHERE hotel_name = ?"
			args = append(args, name)
		} else {
			q += " WHERE LOWER(hotel_name) LIKE ?"
			args = append(args, containsPattern(name))
		}
	}
	q += " ORDER BY hotel_id"

	out := []domain.Hotel{}
	err := r.withConn(ctx, "list_hotels", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, q, args...)
		if err != nil {
			return mapError(err, "list hotels")
		}
		defer rows.Close()

		for rows.Next() {
			var h domain.Hotel
			if err := rows.Scan(&h.ID, &h.Name, &h.PricePerNight); err != nil {
				return mapError(err, "scan hotel")
			}
			out = append(out, h)
		}
		return mapError(rows.Err(), "list hotels")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
