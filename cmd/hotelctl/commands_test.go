package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contoso_hotel/internal/domain"
)

type stubRepo struct {
	domain.Repository // unused methods panic

	gotNew     domain.NewBooking
	gotFilter  domain.BookingFilter
	gotID      *int64
	gotOpts    domain.SetupOptions
	setupErr   error
	deleteHits bool
}

func (s *stubRepo) CreateHotel(_ context.Context, name string, price float64, id *int64) (domain.Hotel, error) {
	s.gotID = id
	return domain.Hotel{ID: 9, Name: name, PricePerNight: price}, nil
}
func (s *stubRepo) DeleteHotel(context.Context, int64) (bool, error) { return s.deleteHits, nil }
func (s *stubRepo) DeleteVisitor(context.Context, int64) (bool, error) { return s.deleteHits, nil }
func (s *stubRepo) CreateBooking(_ context.Context, nb domain.NewBooking) (domain.Booking, error) {
	s.gotNew = nb
	return domain.Booking{ID: 1, Rooms: 1, Price: 1600}, nil
}
func (s *stubRepo) ListBookings(_ context.Context, f domain.BookingFilter) ([]domain.BookingView, error) {
	s.gotFilter = f
	return []domain.BookingView{}, nil
}
func (s *stubRepo) SetupSchema(_ context.Context, opts domain.SetupOptions) (domain.SetupReport, error) {
	s.gotOpts = opts
	return domain.SetupReport{Success: s.setupErr == nil, DropSchema: opts.Drop}, s.setupErr
}
func (s *stubRepo) AllTablesExist(context.Context) bool { return true }

type closeCounter struct{ n int }

func (c *closeCounter) Close() error { c.n++; return nil }

// recordingCache notes every evicted key.
type recordingCache struct{ dels []string }

func (c *recordingCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (c *recordingCache) Set(context.Context, string, any, int) error    { return nil }
func (c *recordingCache) Del(_ context.Context, key string) error {
	c.dels = append(c.dels, key)
	return nil
}

func runWithCache(t *testing.T, repo *stubRepo, cache domain.Cache, args ...string) (string, *closeCounter, error) {
	t.Helper()
	var out bytes.Buffer
	closer := &closeCounter{}
	root := newRootCmd(func(context.Context) (session, error) {
		return session{Repo: repo, Cache: cache, Closer: closer}, nil
	}, &out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), closer, err
}

func run(t *testing.T, repo *stubRepo, args ...string) (string, *closeCounter, error) {
	t.Helper()
	return runWithCache(t, repo, nil, args...)
}

func TestHotelsCreate(t *testing.T) {
	repo := &stubRepo{}
	out, closer, err := run(t, repo, "hotels", "create", "--name", "Contoso Hotel Zurich", "--price", "400")
	require.NoError(t, err)
	assert.Nil(t, repo.gotID)
	assert.JSONEq(t, `{"hotelId":9,"hotelname":"Contoso Hotel Zurich","pricePerNight":400}`, out)
	assert.Equal(t, 1, closer.n)

	_, _, err = run(t, repo, "hotels", "create", "--name", "Contoso Hotel Paris", "--price", "200", "--id", "2")
	require.NoError(t, err)
	require.NotNil(t, repo.gotID)
	assert.Equal(t, int64(2), *repo.gotID)
}

func TestBookingsCreateDefaults(t *testing.T) {
	repo := &stubRepo{}
	_, _, err := run(t, repo, "bookings", "create",
		"--hotel", "1", "--visitor", "1", "--checkin", "2026-10-25", "--checkout", "2026-10-29",
		"--adults", "2", "--kids", "1")
	require.NoError(t, err)

	nb := repo.gotNew
	assert.Equal(t, int64(1), nb.HotelID)
	assert.Equal(t, time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC), nb.Checkout)
	assert.Equal(t, 2, nb.Adults)
	assert.Nil(t, nb.Rooms)
	assert.Nil(t, nb.Price)
	assert.Nil(t, nb.ID)

	_, _, err = run(t, repo, "bookings", "create",
		"--hotel", "1", "--visitor", "1", "--checkin", "tomorrow", "--checkout", "2026-10-29")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBookingsListFilter(t *testing.T) {
	repo := &stubRepo{}
	out, _, err := run(t, repo, "bookings", "list", "--hotel", "3", "--from", "2026-10-20")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
	require.NotNil(t, repo.gotFilter.HotelID)
	assert.Equal(t, int64(3), *repo.gotFilter.HotelID)
	assert.Nil(t, repo.gotFilter.VisitorID)
	assert.Nil(t, repo.gotFilter.Until)
	require.NotNil(t, repo.gotFilter.From)
}

func TestSetupPrintsReportOnFailure(t *testing.T) {
	repo := &stubRepo{setupErr: domain.Validation("cannot drop schema without creating schema")}
	out, _, err := run(t, repo, "setup", "--drop")
	require.Error(t, err)
	assert.True(t, repo.gotOpts.Drop)
	assert.False(t, repo.gotOpts.Create)

	var rep domain.SetupReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.False(t, rep.Success)
}

func TestDeleteAndStatus(t *testing.T) {
	repo := &stubRepo{deleteHits: true}
	out, _, err := run(t, repo, "visitors", "delete", "4")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted":true}`, out)

	_, _, err = run(t, repo, "visitors", "delete", "four")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	out, _, err = run(t, repo, "status")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ready":true}`, out)
}

func TestOpenFailure(t *testing.T) {
	root := newRootCmd(func(context.Context) (session, error) {
		return session{}, domain.Configuration("connection string is empty")
	}, io.Discard)
	root.SetArgs([]string{"status"})
	err := root.Execute()
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestWritesEvictCachedListings(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"setup", []string{"setup", "--drop", "--create"}, []string{"hotels:all", "visitors:all", "bookings:all"}},
		{"hotels delete", []string{"hotels", "delete", "1"}, []string{"hotels:all", "bookings:all"}},
		{"bookings create", []string{"bookings", "create",
			"--hotel", "1", "--visitor", "1", "--checkin", "2026-10-25", "--checkout", "2026-10-29"},
			[]string{"bookings:all"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cache := &recordingCache{}
			_, _, err := runWithCache(t, &stubRepo{deleteHits: true}, cache, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cache.dels)
		})
	}
}

func TestReadsLeaveCacheAlone(t *testing.T) {
	cache := &recordingCache{}
	_, _, err := runWithCache(t, &stubRepo{}, cache, "bookings", "list")
	require.NoError(t, err)
	assert.Empty(t, cache.dels)
}
