package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/domain"
)

// CommandService runs mutations against the store and evicts the listings they affect.
type CommandService struct {
	repo  domain.Repository
	cache domain.Cache
}

func NewCommandService(r domain.Repository, c domain.Cache) *CommandService {
	return &CommandService{repo: r, cache: c}
}

func (s *CommandService) CreateHotel(ctx context.Context, name string, pricePerNight float64, id *int64) (domain.Hotel, error) {
	h, err := s.repo.CreateHotel(ctx, name, pricePerNight, id)
	if err == nil {
		s.invalidate(ctx, keyHotels)
	}
	return h, err
}

// DeleteHotel also evicts bookings: the store cascades the delete to them.
func (s *CommandService) DeleteHotel(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.DeleteHotel(ctx, id)
	if ok {
		s.invalidate(ctx, keyHotels, keyBookings)
	}
	return ok, err
}

func (s *CommandService) CreateVisitor(ctx context.Context, firstName, lastName string, id *int64) (domain.Visitor, error) {
	v, err := s.repo.CreateVisitor(ctx, firstName, lastName, id)
	if err == nil {
		s.invalidate(ctx, keyVisitors)
	}
	return v, err
}

func (s *CommandService) DeleteVisitor(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.DeleteVisitor(ctx, id)
	if ok {
		s.invalidate(ctx, keyVisitors, keyBookings)
	}
	return ok, err
}

func (s *CommandService) CreateBooking(ctx context.Context, nb domain.NewBooking) (domain.Booking, error) {
	b, err := s.repo.CreateBooking(ctx, nb)
	if err == nil {
		s.invalidate(ctx, keyBookings)
	}
	return b, err
}

func (s *CommandService) DeleteBooking(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.DeleteBooking(ctx, id)
	if ok {
		s.invalidate(ctx, keyBookings)
	}
	return ok, err
}

// Setup evicts everything once any table was touched, including by a run that failed partway.
func (s *CommandService) Setup(ctx context.Context, opts domain.SetupOptions) (domain.SetupReport, error) {
	rep, err := s.repo.SetupSchema(ctx, opts)
	if rep.DropSchema || rep.CreateSchema.Any() || rep.PopulateData.Any() {
		s.invalidate(ctx, keyHotels, keyVisitors, keyBookings)
	}
	return rep, err
}

func (s *CommandService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache invalidation failed")
		}
	}
}
