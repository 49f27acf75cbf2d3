package domain

import "time"

// Bounds enforced on bookings, mirrored by CHECK constraints in the schema.
const (
	MaxAdults = 10
	MaxKids   = 10
	MaxBabies = 10
	MaxRooms  = 10
)

// DateFormat is the layout used for dates on the wire and in SQL parameters.
const DateFormat = "2006-01-02"

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights counts the calendar days between checkin and checkout.
func Nights(checkin, checkout time.Time) int {
	return int(DateOf(checkout).Sub(DateOf(checkin)).Hours() / 24)
}

// RequiredRooms is round(adults/2 + kids/4 + babies/8) with halves rounded up.
// The sum is evaluated in eighths so no floating point is involved.
func RequiredRooms(adults, kids, babies int) int {
	return (4*adults + 2*kids + babies + 4) / 8
}

// NewBooking is the input to a booking creation. Nil pointers are assigned
// by the repository: Rooms from RequiredRooms, Price from the hotel rate and
// ID from the next free booking id.
type NewBooking struct {
	ID        *int64    `json:"bookingId,omitempty"`
	HotelID   int64     `json:"hotelId"`
	VisitorID int64     `json:"visitorId"`
	Checkin   time.Time `json:"checkin"`
	Checkout  time.Time `json:"checkout"`
	Adults    int       `json:"adults"`
	Kids      int       `json:"kids"`
	Babies    int       `json:"babies"`
	Rooms     *int      `json:"rooms,omitempty"`
	Price     *float64  `json:"price,omitempty"`
}

// Validate runs every check that needs no store access and returns the
// room count to book. today is the caller's current date.
func (b NewBooking) Validate(today time.Time) (int, error) {
	if b.Adults < 1 {
		return 0, Validation("at least one adult required")
	}
	checkin, checkout := DateOf(b.Checkin), DateOf(b.Checkout)
	if !checkin.Before(checkout) {
		return 0, Validation("checkin before checkout")
	}

	required := RequiredRooms(b.Adults, b.Kids, b.Babies)
	rooms := required
	if b.Rooms != nil {
		rooms = *b.Rooms
		if rooms < required {
			return 0, Validation("insufficient rooms")
		}
	}

	switch {
	case b.Adults > MaxAdults:
		return 0, Validation("too many adults")
	case b.Kids < 0 || b.Kids > MaxKids:
		return 0, Validation("kids out of range")
	case b.Babies < 0 || b.Babies > MaxBabies:
		return 0, Validation("babies out of range")
	case rooms > MaxRooms:
		return 0, Validation("too many rooms")
	case checkin.Before(DateOf(today)):
		return 0, Validation("checkin in the past")
	}
	return rooms, nil
}

// PriceFor returns the supplied price, or rate × nights × rooms when the
// supplied price is missing or not positive.
func (b NewBooking) PriceFor(pricePerNight float64, rooms int) float64 {
	if b.Price != nil && *b.Price > 0 {
		return *b.Price
	}
	return pricePerNight * float64(Nights(b.Checkin, b.Checkout)) * float64(rooms)
}
