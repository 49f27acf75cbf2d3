package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"contoso_hotel/internal/app"
	"contoso_hotel/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	hotels   []domain.Hotel
	visitors []domain.Visitor
	bookings []domain.BookingView
	report   domain.SetupReport
	err      error
	deleted  bool
	ready    bool

	listCalls int
	lastName  domain.NameFilter
}

func (f *fakeRepo) CreateHotel(ctx context.Context, name string, price float64, id *int64) (domain.Hotel, error) {
	return domain.Hotel{ID: 1, Name: name, PricePerNight: price}, f.err
}
func (f *fakeRepo) DeleteHotel(ctx context.Context, id int64) (bool, error) { return f.deleted, f.err }
func (f *fakeRepo) ListHotels(ctx context.Context, nf domain.NameFilter) ([]domain.Hotel, error) {
	f.listCalls++
	f.lastName = nf
	return f.hotels, f.err
}
func (f *fakeRepo) CreateVisitor(ctx context.Context, first, last string, id *int64) (domain.Visitor, error) {
	return domain.Visitor{ID: 1, FirstName: first, LastName: last}, f.err
}
func (f *fakeRepo) DeleteVisitor(ctx context.Context, id int64) (bool, error) { return f.deleted, f.err }
func (f *fakeRepo) ListVisitors(ctx context.Context, nf domain.NameFilter) ([]domain.Visitor, error) {
	f.listCalls++
	f.lastName = nf
	return f.visitors, f.err
}
func (f *fakeRepo) CreateBooking(ctx context.Context, nb domain.NewBooking) (domain.Booking, error) {
	return domain.Booking{ID: 1, HotelID: nb.HotelID, VisitorID: nb.VisitorID}, f.err
}
func (f *fakeRepo) DeleteBooking(ctx context.Context, id int64) (bool, error) { return f.deleted, f.err }
func (f *fakeRepo) ListBookings(ctx context.Context, bf domain.BookingFilter) ([]domain.BookingView, error) {
	f.listCalls++
	return f.bookings, f.err
}
func (f *fakeRepo) SetupSchema(ctx context.Context, opts domain.SetupOptions) (domain.SetupReport, error) {
	return f.report, f.err
}
func (f *fakeRepo) AllTablesExist(ctx context.Context) bool { return f.ready }

// fakeCache stores JSON like the redis adapter does, so reads never alias repo slices.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	c.store[key] = b
	return err
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// ---- tests ----

func TestListHotels_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{ID: 1, Name: "Contoso Hotel Zurich", PricePerNight: 400}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	hs, err := q.ListHotels(context.Background(), domain.NameFilter{})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(hs) != 1 || hs[0].Name != "Contoso Hotel Zurich" {
		t.Fatalf("unexpected hotels: %+v", hs)
	}

	// Mutate repo to ensure second read indeed comes from cache
	repo.hotels[0].Name = "SHOULD NOT SEE THIS"

	hs, err = q.ListHotels(context.Background(), domain.NameFilter{})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if hs[0].Name != "Contoso Hotel Zurich" || repo.listCalls != 1 {
		t.Fatalf("expected cached hotel, got %+v after %d repo calls", hs, repo.listCalls)
	}
}

func TestListHotels_FilteredBypassesCache(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{ID: 2, Name: "Contoso Hotel Paris"}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	f := domain.NameFilter{Name: "paris"}
	for i := 0; i < 2; i++ {
		if _, err := q.ListHotels(context.Background(), f); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if repo.listCalls != 2 || len(cache.store) != 0 {
		t.Fatalf("filtered read touched cache: calls=%d store=%v", repo.listCalls, cache.store)
	}
	if repo.lastName != f {
		t.Fatalf("filter not forwarded: %+v", repo.lastName)
	}
}

func TestListBookings_FilteredBypassesCache(t *testing.T) {
	repo := &fakeRepo{bookings: []domain.BookingView{{HotelName: "Contoso Hotel Zurich"}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	hotel := int64(1)
	if _, err := q.ListBookings(context.Background(), domain.BookingFilter{HotelID: &hotel}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(cache.store) != 0 {
		t.Fatalf("filtered bookings were cached")
	}
	if _, err := q.ListBookings(context.Background(), domain.BookingFilter{}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, ok := cache.store["bookings:all"]; !ok {
		t.Fatalf("unfiltered bookings not cached: %v", cache.store)
	}
}

func TestListVisitors_NilCacheAndErrors(t *testing.T) {
	repo := &fakeRepo{err: domain.Store("failed to list visitors", errors.New("boom"))}
	q := app.NewQueryService(repo, nil, time.Minute)

	if _, err := q.ListVisitors(context.Background(), domain.NameFilter{}); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}

	repo.err = nil
	repo.visitors = []domain.Visitor{{ID: 1, FirstName: "Alice", LastName: "Smith"}}
	vs, err := q.ListVisitors(context.Background(), domain.NameFilter{})
	if err != nil || len(vs) != 1 {
		t.Fatalf("unexpected: %+v %v", vs, err)
	}
}

func TestListVisitors_ErrorIsNotCached(t *testing.T) {
	repo := &fakeRepo{err: domain.Store("failed to list visitors", errors.New("boom"))}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	_, _ = q.ListVisitors(context.Background(), domain.NameFilter{})
	if len(cache.store) != 0 {
		t.Fatalf("error result cached: %v", cache.store)
	}
}

func TestReady(t *testing.T) {
	repo := &fakeRepo{ready: true}
	q := app.NewQueryService(repo, nil, time.Minute)
	if !q.Ready(context.Background()) {
		t.Fatalf("expected ready")
	}
	repo.ready = false
	if q.Ready(context.Background()) {
		t.Fatalf("expected not ready")
	}
}
