package domain

import "context"

type HotelRepository interface {
	CreateHotel(ctx context.Context, name string, pricePerNight float64, id *int64) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) (bool, error)
	ListHotels(ctx context.Context, f NameFilter) ([]Hotel, error)
}

type VisitorRepository interface {
	CreateVisitor(ctx context.Context, firstName, lastName string, id *int64) (Visitor, error)
	DeleteVisitor(ctx context.Context, id int64) (bool, error)
	ListVisitors(ctx context.Context, f NameFilter) ([]Visitor, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, nb NewBooking) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) (bool, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]BookingView, error)
}

type SchemaManager interface {
	SetupSchema(ctx context.Context, opts SetupOptions) (SetupReport, error)
	AllTablesExist(ctx context.Context) bool
}

// Repository is everything the application layer needs from the store.
type Repository interface {
	HotelRepository
	VisitorRepository
	BookingRepository
	SchemaManager
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
