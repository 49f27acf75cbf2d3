package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/app"
	"contoso_hotel/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Report *domain.SetupReport `json:"report,omitempty"`
}

// MountHandlers registers the API. Mutating routes share one limiter of writeRPS
// requests per second; writeRPS <= 0 disables it.
func (s *Server) MountHandlers(h *Handlers, writeRPS int) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.readyz)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/hotels", h.listHotels)
		r.Get("/visitors", h.listVisitors)
		r.Get("/bookings", h.listBookings)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(writeRPS))
			r.Post("/hotels", h.createHotel)
			r.Delete("/hotels/{id}", h.deleteHotel)
			r.Post("/visitors", h.createVisitor)
			r.Delete("/visitors/{id}", h.deleteVisitor)
			r.Post("/bookings", h.createBooking)
			r.Delete("/bookings/{id}", h.deleteBooking)
			r.Post("/setup", h.setup)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// statusFor maps an error kind onto the response status.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrKindValidation:
		return http.StatusBadRequest
	case domain.ErrKindNotFound:
		return http.StatusNotFound
	case domain.ErrKindAlreadyExists:
		return http.StatusConflict
	case domain.ErrKindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

// problemFor builds the problem body for err. Server-side failures are logged and
// reported without their cause.
func problemFor(r *http.Request, err error) problem {
	status := statusFor(err)
	detail := err.Error()
	if status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		detail = domain.KindOf(err).String() + " failure"
	}
	return problem{Type: "about:blank", Title: http.StatusText(status), Status: status, Detail: detail}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeProblemBody(w, problemFor(r, err))
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeList answers 304 when the client already holds this version of v.
func writeList(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write list body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validation("malformed JSON body: " + err.Error())
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation("id must be a positive integer")
	}
	return id, nil
}

func queryID(r *http.Request, key string) (*int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, domain.Validation(key + " must be an integer")
	}
	return &id, nil
}

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(domain.DateFormat, v)
	if err != nil {
		return time.Time{}, domain.Validation(field + " must be a YYYY-MM-DD date")
	}
	return t, nil
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(key, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nameFilter(r *http.Request) (domain.NameFilter, error) {
	f := domain.NameFilter{Name: r.URL.Query().Get("name")}
	if v := r.URL.Query().Get("exact"); v != "" {
		exact, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.Validation("exact must be a boolean")
		}
		f.Exact = exact
	}
	return f, nil
}

func (h *Handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if !h.Q.Ready(r.Context()) {
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", "schema is not set up")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// ---- hotels ----

type hotelRequest struct {
	ID            *int64  `json:"hotelId"`
	Name          string  `json:"hotelname"`
	PricePerNight float64 `json:"pricePerNight"`
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	f, err := nameFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Q.ListHotels(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.C.CreateHotel(r.Context(), req.Name, req.PricePerNight, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	h.deleteWith(w, r, "hotel", h.C.DeleteHotel)
}

// ---- visitors ----

type visitorRequest struct {
	ID        *int64 `json:"visitorId"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

func (h *Handlers) listVisitors(w http.ResponseWriter, r *http.Request) {
	f, err := nameFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Q.ListVisitors(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, out)
}

func (h *Handlers) createVisitor(w http.ResponseWriter, r *http.Request) {
	var req visitorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.C.CreateVisitor(r.Context(), req.FirstName, req.LastName, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) deleteVisitor(w http.ResponseWriter, r *http.Request) {
	h.deleteWith(w, r, "visitor", h.C.DeleteVisitor)
}

// ---- bookings ----

type bookingRequest struct {
	ID        *int64   `json:"bookingId"`
	HotelID   int64    `json:"hotelId"`
	VisitorID int64    `json:"visitorId"`
	Checkin   string   `json:"checkin"`
	Checkout  string   `json:"checkout"`
	Adults    int      `json:"adults"`
	Kids      int      `json:"kids"`
	Babies    int      `json:"babies"`
	Rooms     *int     `json:"rooms"`
	Price     *float64 `json:"price"`
}

// bookingResponse renders dates as plain calendar dates.
type bookingResponse struct {
	ID        int64   `json:"bookingId"`
	HotelID   int64   `json:"hotelId"`
	VisitorID int64   `json:"visitorId"`
	Checkin   string  `json:"checkin"`
	Checkout  string  `json:"checkout"`
	Adults    int     `json:"adults"`
	Kids      int     `json:"kids"`
	Babies    int     `json:"babies"`
	Rooms     int     `json:"rooms"`
	Price     float64 `json:"price"`
	HotelName string  `json:"hotelname,omitempty"`
	FirstName string  `json:"firstname,omitempty"`
	LastName  string  `json:"lastname,omitempty"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID: b.ID, HotelID: b.HotelID, VisitorID: b.VisitorID,
		Checkin:  b.Checkin.Format(domain.DateFormat),
		Checkout: b.Checkout.Format(domain.DateFormat),
		Adults:   b.Adults, Kids: b.Kids, Babies: b.Babies,
		Rooms: b.Rooms, Price: b.Price,
	}
}

func (req bookingRequest) toDomain() (domain.NewBooking, error) {
	checkin, err := parseDate("checkin", req.Checkin)
	if err != nil {
		return domain.NewBooking{}, err
	}
	checkout, err := parseDate("checkout", req.Checkout)
	if err != nil {
		return domain.NewBooking{}, err
	}
	return domain.NewBooking{
		ID: req.ID, HotelID: req.HotelID, VisitorID: req.VisitorID,
		Checkin: checkin, Checkout: checkout,
		Adults: req.Adults, Kids: req.Kids, Babies: req.Babies,
		Rooms: req.Rooms, Price: req.Price,
	}, nil
}

func bookingFilter(r *http.Request) (domain.BookingFilter, error) {
	var (
		f   domain.BookingFilter
		err error
	)
	if f.VisitorID, err = queryID(r, "visitorId"); err != nil {
		return f, err
	}
	if f.HotelID, err = queryID(r, "hotelId"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(r, "from"); err != nil {
		return f, err
	}
	if f.Until, err = queryDate(r, "until"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	f, err := bookingFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, err := h.Q.ListBookings(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]bookingResponse, 0, len(views))
	for _, v := range views {
		b := toBookingResponse(v.Booking)
		b.HotelName, b.FirstName, b.LastName = v.HotelName, v.FirstName, v.LastName
		out = append(out, b)
	}
	writeList(w, r, out)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	nb, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.C.CreateBooking(r.Context(), nb)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	h.deleteWith(w, r, "booking", h.C.DeleteBooking)
}

// ---- shared ----

func (h *Handlers) deleteWith(w http.ResponseWriter, r *http.Request, entity string, del func(ctx context.Context, id int64) (bool, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := del(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, domain.NotFound(entity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) setup(w http.ResponseWriter, r *http.Request) {
	var opts domain.SetupOptions
	if err := decodeBody(r, &opts); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := h.C.Setup(r.Context(), opts)
	if err != nil {
		p := problemFor(r, err)
		p.Report = &rep
		writeProblemBody(w, p)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
