package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/domain"
)

// CreateBooking validates nb, fills in rooms, price and id, and inserts it.
// Checks that need no store run before a connection is taken; the lookups
// and the insert share one transaction.
func (r *Repo) CreateBooking(ctx context.Context, nb domain.NewBooking) (domain.Booking, error) {
	rooms, err := nb.Validate(r.today())
	if err != nil {
		return domain.Booking{}, err
	}
	probeID, err := explicitID(nb.ID)
	if err != nil {
		return domain.Booking{}, err
	}

	b := domain.Booking{
		HotelID:   nb.HotelID,
		VisitorID: nb.VisitorID,
		Checkin:   domain.DateOf(nb.Checkin),
		Checkout:  domain.DateOf(nb.Checkout),
		Adults:    nb.Adults,
		Kids:      nb.Kids,
		Babies:    nb.Babies,
		Rooms:     rooms,
	}
	checkin, checkout := b.Checkin.Format(domain.DateFormat), b.Checkout.Format(domain.DateFormat)

	err = r.withTx(ctx, "create_booking", func(tx *sql.Tx) error {
		var rate float64
		if err := tx.QueryRowContext(ctx, hotelRateSQL, b.HotelID).Scan(&rate); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFound("hotel")
			}
			return mapError(err, "lookup hotel")
		}
		b.Price = nb.PriceFor(rate, rooms)

		var visitors int64
		if err := tx.QueryRowContext(ctx, visitorExistsSQL, b.VisitorID).Scan(&visitors); err != nil {
			return mapError(err, "lookup visitor")
		}
		if visitors == 0 {
			return domain.NotFound("visitor")
		}

		var n, maxID int64
		if err := tx.QueryRowContext(ctx, bookingConflictSQL,
			probeID, b.HotelID, b.VisitorID, checkin, checkout,
		).Scan(&n, &maxID); err != nil {
			return mapError(err, "check booking")
		}
		if n > 0 {
			return domain.AlreadyExists("booking")
		}

		b.ID = nextID(nb.ID, maxID)
		if _, err := tx.ExecContext(ctx, insertBookingSQL,
			b.ID, b.HotelID, b.VisitorID, checkin, checkout,
			b.Adults, b.Kids, b.Babies, b.Rooms, b.Price,
		); err != nil {
			return mapError(err, "insert booking")
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	log.Info().
		Int64("booking_id", b.ID).
		Int64("hotel_id", b.HotelID).
		Int64("visitor_id", b.VisitorID).
		Int("rooms", b.Rooms).
		Float64("price", b.Price).
		Msg("booking created")
	return b, nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.deleteByID(ctx, "delete_booking", deleteBookingSQL, id)
	if deleted {
		log.Info().Int64("booking_id", id).Msg("booking deleted")
	}
	return deleted, err
}

// ListBookings returns bookings matching every set filter. A booking matches
// a date range when its stay overlaps it.
func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.BookingView, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var where []string
	var args []any
	if f.VisitorID != nil {
		where = append(where, "b.visitor_id = ?")
		args = append(args, *f.VisitorID)
	}
	if f.HotelID != nil {
		where = append(where, "b.hotel_id = ?")
		args = append(args, *f.HotelID)
	}
	if f.From != nil {
		where = append(where, "b.checkout >= ?")
		args = append(args, domain.DateOf(*f.From).Format(domain.DateFormat))
	}
	if f.Until != nil {
		where = append(where, "b.checkin <= ?")
		args = append(args, domain.DateOf(*f.Until).Format(domain.DateFormat))
	}
	q := selectBookingsSQL
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY b.booking_id"

	out := []domain.BookingView{}
	err := r.withConn(ctx, "list_bookings", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, q, args...)
		if err != nil {
			return mapError(err, "list bookings")
		}
		defer rows.Close()

		for rows.Next() {
			var bv domain.BookingView
			if err := rows.Scan(
				&bv.ID,
				&bv.HotelID, &bv.HotelName,
				&bv.VisitorID, &bv.FirstName, &bv.LastName,
				&bv.Checkin, &bv.Checkout,
				&bv.Adults, &bv.Kids, &bv.Babies,
				&bv.Rooms, &bv.Price,
			); err != nil {
				return mapError(err, "scan booking")
			}
			bv.Checkin, bv.Checkout = domain.DateOf(bv.Checkin), domain.DateOf(bv.Checkout)
			out = append(out, bv)
		}
		return mapError(rows.Err(), "list bookings")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
