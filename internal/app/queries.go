package app

import (
	"context"
	"time"

	"contoso_hotel/internal/domain"
)

// Cache keys for the unfiltered listings. Filtered reads always go to the store.
const (
	keyHotels   = "hotels:all"
	keyVisitors = "visitors:all"
	keyBookings = "bookings:all"
)

type QueryService struct {
	repo     domain.Repository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read side. A nil cache disables caching.
func NewQueryService(r domain.Repository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListHotels(ctx context.Context, f domain.NameFilter) ([]domain.Hotel, error) {
	if f.Name != "" {
		return s.repo.ListHotels(ctx, f)
	}
	return readThrough(ctx, s, keyHotels, func() ([]domain.Hotel, error) {
		return s.repo.ListHotels(ctx, f)
	})
}

func (s *QueryService) ListVisitors(ctx context.Context, f domain.NameFilter) ([]domain.Visitor, error) {
	if f.Name != "" {
		return s.repo.ListVisitors(ctx, f)
	}
	return readThrough(ctx, s, keyVisitors, func() ([]domain.Visitor, error) {
		return s.repo.ListVisitors(ctx, f)
	})
}

func (s *QueryService) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.BookingView, error) {
	if f != (domain.BookingFilter{}) {
		return s.repo.ListBookings(ctx, f)
	}
	return readThrough(ctx, s, keyBookings, func() ([]domain.BookingView, error) {
		return s.repo.ListBookings(ctx, f)
	})
}

// Ready reports whether the schema is in place.
func (s *QueryService) Ready(ctx context.Context) bool {
	return s.repo.AllTablesExist(ctx)
}

// readThrough serves key from the cache when present and fills it from load otherwise.
// Cache failures never fail the read.
func readThrough[T any](ctx context.Context, s *QueryService, key string, load func() (T, error)) (T, error) {
	if s.cache == nil {
		return load()
	}
	var out T
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := load()
	if err != nil {
		return out, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
