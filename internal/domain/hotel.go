package domain

import "time"

// MaxNameLength bounds hotel and visitor names, in characters, like the
// VARCHAR(200) columns holding them.
const MaxNameLength = 200

type Hotel struct {
	ID            int64   `json:"hotelId"`
	Name          string  `json:"hotelname"`
	PricePerNight float64 `json:"pricePerNight"`
}

type Visitor struct {
	ID        int64  `json:"visitorId"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type Booking struct {
	ID        int64     `json:"bookingId"`
	HotelID   int64     `json:"hotelId"`
	VisitorID int64     `json:"visitorId"`
	Checkin   time.Time `json:"checkin"`
	Checkout  time.Time `json:"checkout"`
	Adults    int       `json:"adults"`
	Kids      int       `json:"kids"`
	Babies    int       `json:"babies"`
	Rooms     int       `json:"rooms"`
	Price     float64   `json:"price"`
}

// BookingView is a booking joined with the hotel and visitor names.
type BookingView struct {
	Booking
	HotelName string `json:"hotelname"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// NameFilter narrows hotel and visitor listings. An empty Name lists everything.
type NameFilter struct {
	Name  string
	Exact bool
}

// BookingFilter fields are optional and combined with AND.
type BookingFilter struct {
	VisitorID *int64
	HotelID   *int64
	From      *time.Time
	Until     *time.Time
}

// Validate rejects an inverted date range.
func (f BookingFilter) Validate() error {
	if f.From != nil && f.Until != nil && DateOf(*f.From).After(DateOf(*f.Until)) {
		return Validation("from date after until date")
	}
	return nil
}
