package mysql

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

// Counts rows colliding with the explicit id or the name, and returns the
// current max id in the same round trip.
const hotelConflictSQL = `
SELECT COUNT(*), (SELECT COALESCE(MAX(hotel_id), 0) FROM hotels)
FROM hotels
WHERE hotel_id = ? OR hotel_name = ?
`

const insertHotelSQL = `
INSERT INTO hotels (hotel_id, hotel_name, price_per_night)
VALUES (?, ?, ?)
`

const deleteHotelSQL = `DELETE FROM hotels WHERE hotel_id = ?`

const selectHotelsSQL = `SELECT hotel_id, hotel_name, price_per_night FROM hotels`

const hotelRateSQL = `SELECT price_per_night FROM hotels WHERE hotel_id = ?`

// -----------------------------------------------------------------------------
// VISITORS
// -----------------------------------------------------------------------------

const visitorConflictSQL = `
SELECT COUNT(*), (SELECT COALESCE(MAX(visitor_id), 0) FROM visitors)
FROM visitors
WHERE visitor_id = ? OR (first_name = ? AND last_name = ?)
`

const insertVisitorSQL = `
INSERT INTO visitors (visitor_id, first_name, last_name)
VALUES (?, ?, ?)
`

const deleteVisitorSQL = `DELETE FROM visitors WHERE visitor_id = ?`

const selectVisitorsSQL = `SELECT visitor_id, first_name, last_name FROM visitors`

const visitorExistsSQL = `SELECT COUNT(*) FROM visitors WHERE visitor_id = ?`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const bookingConflictSQL = `
SELECT COUNT(*), (SELECT COALESCE(MAX(booking_id), 0) FROM bookings)
FROM bookings
WHERE booking_id = ?
   OR (hotel_id = ? AND visitor_id = ? AND checkin = ? AND checkout = ?)
`

const insertBookingSQL = `
INSERT INTO bookings
  (booking_id, hotel_id, visitor_id, checkin, checkout, adults, kids, babies, rooms, price)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const deleteBookingSQL = `DELETE FROM bookings WHERE booking_id = ?`

const selectBookingsSQL = `
SELECT
  b.booking_id,
  b.hotel_id,
  h.hotel_name,
  b.visitor_id,
  v.first_name,
  v.last_name,
  b.checkin,
  b.checkout,
  b.adults,
  b.kids,
  b.babies,
  b.rooms,
  b.price
FROM bookings b
JOIN hotels h ON h.hotel_id = b.hotel_id
JOIN visitors v ON v.visitor_id = b.visitor_id
`

// -----------------------------------------------------------------------------
// SCHEMA
// -----------------------------------------------------------------------------

const tableExistsSQL = `
SELECT COUNT(*)
FROM information_schema.tables
WHERE table_schema = DATABASE()
  AND table_type   = 'BASE TABLE'
  AND table_name   = ?
`

const allTablesSQL = `
SELECT COUNT(*)
FROM information_schema.tables
WHERE table_schema = DATABASE()
  AND table_type   = 'BASE TABLE'
  AND table_name IN ('hotels', 'visitors', 'bookings')
`

// Children first; the trigger goes with its table.
const dropTablesSQL = `DROP TABLE IF EXISTS bookings, hotels, visitors`

const createHotelsSQL = `
CREATE TABLE hotels (
  hotel_id        BIGINT       NOT NULL PRIMARY KEY,
  hotel_name      VARCHAR(200) NOT NULL,
  price_per_night DOUBLE       NOT NULL,
  CONSTRAINT hotels_name_uq UNIQUE (hotel_name),
  CONSTRAINT hotels_price_ck CHECK (price_per_night > 0)
)
`

const createVisitorsSQL = `
CREATE TABLE visitors (
  visitor_id BIGINT       NOT NULL PRIMARY KEY,
  first_name VARCHAR(200) NOT NULL,
  last_name  VARCHAR(200) NOT NULL,
  CONSTRAINT visitors_name_uq UNIQUE (first_name, last_name)
)
`

// The capacity check is round(adults/2 + kids/4 + babies/8) with halves
// rounded up, computed in eighths.
const createBookingsSQL = `
CREATE TABLE bookings (
  booking_id BIGINT NOT NULL PRIMARY KEY,
  hotel_id   BIGINT NOT NULL,
  visitor_id BIGINT NOT NULL,
  checkin    DATE   NOT NULL,
  checkout   DATE   NOT NULL,
  adults     INT    NOT NULL,
  kids       INT    NOT NULL,
  babies     INT    NOT NULL,
  rooms      INT    NOT NULL,
  price      DOUBLE NOT NULL,
  CONSTRAINT bookings_natural_uq UNIQUE (hotel_id, visitor_id, checkin, checkout),
  CONSTRAINT bookings_adults_ck CHECK (adults BETWEEN 1 AND 10),
  CONSTRAINT bookings_kids_ck CHECK (kids BETWEEN 0 AND 10),
  CONSTRAINT bookings_babies_ck CHECK (babies BETWEEN 0 AND 10),
  CONSTRAINT bookings_rooms_ck CHECK (rooms BETWEEN 1 AND 10),
  CONSTRAINT bookings_price_ck CHECK (price > 0),
  CONSTRAINT bookings_dates_ck CHECK (checkin < checkout),
  CONSTRAINT bookings_capacity_ck CHECK (rooms >= (4 * adults + 2 * kids + babies + 4) DIV 8),
  CONSTRAINT bookings_hotel_fk FOREIGN KEY (hotel_id)
    REFERENCES hotels (hotel_id) ON DELETE CASCADE,
  CONSTRAINT bookings_visitor_fk FOREIGN KEY (visitor_id)
    REFERENCES visitors (visitor_id) ON DELETE CASCADE
)
`

// MySQL rejects CURDATE() inside CHECK constraints, so the not-in-the-past
// rule lives in a trigger.
const createBookingsTriggerSQL = `
CREATE TRIGGER bookings_not_in_past BEFORE INSERT ON bookings
FOR EACH ROW
IF NEW.checkin < CURDATE() THEN
  SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'checkin in the past';
END IF
`

const seedHotelsSQL = `
INSERT INTO hotels (hotel_id, hotel_name, price_per_night) VALUES
  (1, 'Contoso Hotel Zurich', 400.0),
  (2, 'Contoso Hotel Paris', 200.0),
  (3, 'Contoso Hotel London', 250.0),
  (4, 'Contoso Hotel Berlin', 150.0),
  (5, 'Contoso Hotel Chicago', 300.0),
  (6, 'Contoso Hotel Los Angeles', 350.0)
`

const seedVisitorsSQL = `
INSERT INTO visitors (visitor_id, first_name, last_name) VALUES
  (1, 'Alice', 'Smith'),
  (2, 'Bob', 'Jones'),
  (3, 'Charlotte', 'Brown'),
  (4, 'David', 'White'),
  (5, 'Eve', 'Black'),
  (6, 'Frank', 'Green')
`

// Dates are bound by the caller relative to today.
const seedBookingsSQL = `
INSERT INTO bookings
  (booking_id, hotel_id, visitor_id, checkin, checkout, adults, kids, babies, rooms, price)
VALUES
  (1, 1, 1, ?, ?, 2, 1, 0, 2, 3900.0),
  (2, 2, 2, ?, ?, 2, 0, 0, 1, 1000.0)
`
