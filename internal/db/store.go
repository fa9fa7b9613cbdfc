package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/groomroute/backend/internal/models"
)

// ErrVersionConflict is returned when an optimistic-concurrency update loses
// the race; the whole transaction is rolled back.
var ErrVersionConflict = errors.New("appointment was modified concurrently")

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	var a models.Account
	err := s.Pool.QueryRow(ctx, `SELECT id, name, timezone FROM accounts WHERE id = $1`, accountID).
		Scan(&a.ID, &a.Name, &a.Timezone)
	return a, err
}

func (s *Store) GetGroomer(ctx context.Context, accountID, groomerID string) (models.Groomer, error) {
	var g models.Groomer
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, name, email, phone, booking_slug, work_start, work_end,
			large_dog_daily_limit, default_assistant, updated_at
		FROM groomers WHERE account_id = $1 AND id = $2
	`, accountID, groomerID).Scan(
		&g.ID, &g.AccountID, &g.Name, &g.Email, &g.Phone, &g.BookingSlug,
		&g.WorkStart, &g.WorkEnd, &g.LargeDogDailyLimit, &g.DefaultAssistant, &g.UpdatedAt,
	)
	return g, err
}

func (s *Store) GetCustomer(ctx context.Context, accountID, customerID string) (models.Customer, error) {
	var c models.Customer
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, name, address, zip_code, lat, lng, service_area_id,
			cancellations, no_shows, spent_cents, notes
		FROM customers WHERE account_id = $1 AND id = $2
	`, accountID, customerID).Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Address, &c.ZipCode, &c.Lat, &c.Lng,
		&c.ServiceAreaID, &c.Cancellations, &c.NoShows, &c.SpentCents, &c.Notes,
	)
	return c, err
}

// ListAreas returns the account's service areas alphabetically so the
// first-match-wins matcher sees a deterministic order.
func (s *Store) ListAreas(ctx context.Context, accountID string) ([]models.ServiceArea, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, name, color, zip_codes, center_lat, center_lng, radius_miles
		FROM service_areas WHERE account_id = $1 ORDER BY name ASC, id ASC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ServiceArea
	for rows.Next() {
		var a models.ServiceArea
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Name, &a.Color, &a.ZipCodes, &a.CenterLat, &a.CenterLng, &a.RadiusMiles); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetArea(ctx context.Context, accountID, areaID string) (models.ServiceArea, error) {
	var a models.ServiceArea
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, name, color, zip_codes, center_lat, center_lng, radius_miles
		FROM service_areas WHERE account_id = $1 AND id = $2
	`, accountID, areaID).Scan(&a.ID, &a.AccountID, &a.Name, &a.Color, &a.ZipCodes, &a.CenterLat, &a.CenterLng, &a.RadiusMiles)
	return a, err
}

func (s *Store) ListAreaDayAssignments(ctx context.Context, accountID, groomerID string) ([]models.AreaDayAssignment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT d.groomer_id, d.weekday, d.area_id
		FROM area_day_assignments d
		JOIN groomers g ON g.id = d.groomer_id
		WHERE g.account_id = $1 AND d.groomer_id = $2
		ORDER BY d.weekday ASC
	`, accountID, groomerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AreaDayAssignment
	for rows.Next() {
		var a models.AreaDayAssignment
		if err := rows.Scan(&a.GroomerID, &a.Weekday, &a.AreaID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAreaDayOverrides returns date-pinned area overrides within [from, to],
// dates as YYYY-MM-DD.
func (s *Store) ListAreaDayOverrides(ctx context.Context, accountID, groomerID, from, to string) ([]models.AreaDayOverride, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT o.groomer_id, to_char(o.override_date, 'YYYY-MM-DD'), o.area_id
		FROM area_day_overrides o
		JOIN groomers g ON g.id = o.groomer_id
		WHERE g.account_id = $1 AND o.groomer_id = $2
			AND o.override_date BETWEEN $3::date AND $4::date
		ORDER BY o.override_date ASC
	`, accountID, groomerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AreaDayOverride
	for rows.Next() {
		var o models.AreaDayOverride
		if err := rows.Scan(&o.GroomerID, &o.Date, &o.AreaID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListAppointmentsForDay fetches a groomer's appointments whose start falls
// in [dayStart, dayEnd), joined with pet weight. activeOnly drops CANCELLED
// and NO_SHOW rows, the set excluded from every conflict calculation.
func (s *Store) ListAppointmentsForDay(ctx context.Context, accountID, groomerID string, dayStart, dayEnd time.Time, activeOnly bool) ([]models.Appointment, error) {
	query := `
		SELECT a.id, a.account_id, a.groomer_id, a.customer_id, a.pet_id, a.start_at,
			a.service_minutes, a.status, COALESCE(p.weight_lbs, 0), a.notes, a.version
		FROM appointments a
		LEFT JOIN pets p ON p.id = a.pet_id
		WHERE a.account_id = $1 AND a.groomer_id = $2
			AND a.start_at >= $3 AND a.start_at < $4`
	if activeOnly {
		query += ` AND a.status NOT IN ('CANCELLED', 'NO_SHOW')`
	}
	query += ` ORDER BY a.start_at ASC, a.id ASC`

	rows, err := s.Pool.Query(ctx, query, accountID, groomerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *Store) GetAppointmentsByIDs(ctx context.Context, accountID, groomerID string, ids []string) ([]models.Appointment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT a.id, a.account_id, a.groomer_id, a.customer_id, a.pet_id, a.start_at,
			a.service_minutes, a.status, COALESCE(p.weight_lbs, 0), a.notes, a.version
		FROM appointments a
		LEFT JOIN pets p ON p.id = a.pet_id
		WHERE a.account_id = $1 AND a.groomer_id = $2 AND a.id = ANY($3)
		ORDER BY a.start_at ASC, a.id ASC
	`, accountID, groomerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *Store) GetAppointment(ctx context.Context, accountID, appointmentID string) (models.Appointment, error) {
	var a models.Appointment
	err := s.Pool.QueryRow(ctx, `
		SELECT a.id, a.account_id, a.groomer_id, a.customer_id, a.pet_id, a.start_at,
			a.service_minutes, a.status, COALESCE(p.weight_lbs, 0), a.notes, a.version
		FROM appointments a
		LEFT JOIN pets p ON p.id = a.pet_id
		WHERE a.account_id = $1 AND a.id = $2
	`, accountID, appointmentID).Scan(
		&a.ID, &a.AccountID, &a.GroomerID, &a.CustomerID, &a.PetID, &a.StartAt,
		&a.ServiceMinutes, &a.Status, &a.PetWeightLbs, &a.Notes, &a.Version,
	)
	return a, err
}

func scanAppointments(rows pgx.Rows) ([]models.Appointment, error) {
	var out []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(
			&a.ID, &a.AccountID, &a.GroomerID, &a.CustomerID, &a.PetID, &a.StartAt,
			&a.ServiceMinutes, &a.Status, &a.PetWeightLbs, &a.Notes, &a.Version,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// StartUpdate is one row of a route re-sequencing write.
type StartUpdate struct {
	AppointmentID string
	StartAt       time.Time
	Version       int
}

// ApplyReorder writes the re-sequenced start times and the matching audit
// events in a single transaction. Each row update carries a version check; a
// stale version aborts the whole transaction with ErrVersionConflict and
// nothing is persisted.
func (s *Store) ApplyReorder(ctx context.Context, accountID string, updates []StartUpdate, events []models.CustomerEvent) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		for _, u := range updates {
			tag, err := tx.Exec(ctx, `
				UPDATE appointments
				SET start_at = $1, version = version + 1
				WHERE id = $2 AND account_id = $3 AND version = $4
			`, u.StartAt, u.AppointmentID, accountID, u.Version)
			if err != nil {
				return err
			}
			if tag.RowsAffected() != 1 {
				return ErrVersionConflict
			}
		}
		for _, e := range events {
			if err := s.InsertCustomerEvent(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, tx pgx.Tx, accountID, appointmentID string, status models.AppointmentStatus) error {
	tag, err := tx.Exec(ctx, `
		UPDATE appointments SET status = $1, version = version + 1
		WHERE id = $2 AND account_id = $3
	`, status, appointmentID, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) UpdateCustomerArea(ctx context.Context, accountID, customerID string, areaID *string) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE customers SET service_area_id = $1 WHERE id = $2 AND account_id = $3
	`, areaID, customerID, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) UpdateCustomerLocation(ctx context.Context, accountID, customerID string, lat, lng float64) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE customers SET lat = $1, lng = $2 WHERE id = $3 AND account_id = $4
	`, lat, lng, customerID, accountID)
	return err
}

func (s *Store) IncrementCustomerStrikes(ctx context.Context, tx pgx.Tx, accountID, customerID string, cancellations, noShows int) error {
	_, err := tx.Exec(ctx, `
		UPDATE customers SET cancellations = cancellations + $1, no_shows = no_shows + $2
		WHERE id = $3 AND account_id = $4
	`, cancellations, noShows, customerID, accountID)
	return err
}

// UpsertRoute lazily creates the (groomer, date) route row the first time
// either workday fact is recorded. started and hasAssistant are patches: a
// nil field leaves the stored column untouched, so recording one fact never
// clobbers the other. r carries the defaults used when the row is first
// inserted.
func (s *Store) UpsertRoute(ctx context.Context, r models.Route, started, hasAssistant *bool) (models.Route, error) {
	insertStarted := r.Started
	if started != nil {
		insertStarted = *started
	}
	insertAssistant := r.HasAssistant
	if hasAssistant != nil {
		insertAssistant = *hasAssistant
	}
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO routes (id, account_id, groomer_id, route_date, started, has_assistant, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, NOW())
		ON CONFLICT (groomer_id, route_date) DO UPDATE SET
			started = COALESCE($7, routes.started),
			has_assistant = COALESCE($8, routes.has_assistant),
			updated_at = NOW()
		RETURNING id, started, has_assistant, updated_at
	`, r.ID, r.AccountID, r.GroomerID, r.RouteDate, insertStarted, insertAssistant, started, hasAssistant).
		Scan(&r.ID, &r.Started, &r.HasAssistant, &r.UpdatedAt)
	return r, err
}

func (s *Store) CreateBreak(ctx context.Context, b models.Break) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO breaks (id, account_id, groomer_id, break_date, type, planned_start, planned_end, taken, actual_start, actual_minutes)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)
	`, b.ID, b.AccountID, b.GroomerID, b.BreakDate, b.Type, b.PlannedStart, b.PlannedEnd, b.Taken, b.ActualStart, b.ActualMinutes)
	return err
}

func (s *Store) CompleteBreak(ctx context.Context, accountID, breakID string, actualStart time.Time, actualMinutes int) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE breaks SET taken = TRUE, actual_start = $1, actual_minutes = $2
		WHERE id = $3 AND account_id = $4
	`, actualStart, actualMinutes, breakID, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) ListBreaksForDay(ctx context.Context, accountID, groomerID, date string) ([]models.Break, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, groomer_id, to_char(break_date, 'YYYY-MM-DD'), type,
			planned_start, planned_end, taken, actual_start, actual_minutes
		FROM breaks
		WHERE account_id = $1 AND groomer_id = $2 AND break_date = $3::date
		ORDER BY COALESCE(actual_start, planned_start) ASC NULLS LAST, id ASC
	`, accountID, groomerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Break
	for rows.Next() {
		var b models.Break
		if err := rows.Scan(&b.ID, &b.AccountID, &b.GroomerID, &b.BreakDate, &b.Type,
			&b.PlannedStart, &b.PlannedEnd, &b.Taken, &b.ActualStart, &b.ActualMinutes); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) InsertCustomerEvent(ctx context.Context, tx pgx.Tx, e models.CustomerEvent) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO customer_events (id, account_id, customer_id, actor, action, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.AccountID, e.CustomerID, e.Actor, e.Action, e.Reason, e.CreatedAt)
	return err
}

func (s *Store) ListCustomerEvents(ctx context.Context, accountID, customerID string, limit int) ([]models.CustomerEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, customer_id, actor, action, reason, created_at
		FROM customer_events
		WHERE account_id = $1 AND customer_id = $2
		ORDER BY created_at DESC LIMIT $3
	`, accountID, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CustomerEvent
	for rows.Next() {
		var e models.CustomerEvent
		if err := rows.Scan(&e.ID, &e.AccountID, &e.CustomerID, &e.Actor, &e.Action, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// WaitlistCandidate pairs an active waitlist entry with its customer row.
type WaitlistCandidate struct {
	Entry    models.WaitlistEntry
	Customer models.Customer
}

func (s *Store) ListWaitlistCandidates(ctx context.Context, accountID string) ([]WaitlistCandidate, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT w.id, w.customer_id, w.preferred_weekdays, COALESCE(w.preferred_start, ''),
			COALESCE(w.preferred_end, ''), w.active,
			c.id, c.name, c.address, c.zip_code, c.lat, c.lng, c.service_area_id,
			c.cancellations, c.no_shows, c.spent_cents
		FROM customer_waitlist w
		JOIN customers c ON c.id = w.customer_id AND c.account_id = w.account_id
		WHERE w.account_id = $1 AND w.active = TRUE
		ORDER BY c.id ASC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WaitlistCandidate
	for rows.Next() {
		var cand WaitlistCandidate
		cand.Entry.AccountID = accountID
		cand.Customer.AccountID = accountID
		if err := rows.Scan(
			&cand.Entry.ID, &cand.Entry.CustomerID, &cand.Entry.PreferredWeekdays,
			&cand.Entry.PreferredStart, &cand.Entry.PreferredEnd, &cand.Entry.Active,
			&cand.Customer.ID, &cand.Customer.Name, &cand.Customer.Address, &cand.Customer.ZipCode,
			&cand.Customer.Lat, &cand.Customer.Lng, &cand.Customer.ServiceAreaID,
			&cand.Customer.Cancellations, &cand.Customer.NoShows, &cand.Customer.SpentCents,
		); err != nil {
			return nil, err
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}

// DayStopCustomers returns the customers already scheduled for a groomer's
// day, for the watchlist proximity axis.
func (s *Store) DayStopCustomers(ctx context.Context, accountID, groomerID string, dayStart, dayEnd time.Time) ([]models.Customer, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT DISTINCT c.id, c.name, c.zip_code, c.lat, c.lng
		FROM appointments a
		JOIN customers c ON c.id = a.customer_id AND c.account_id = a.account_id
		WHERE a.account_id = $1 AND a.groomer_id = $2
			AND a.start_at >= $3 AND a.start_at < $4
			AND a.status NOT IN ('CANCELLED', 'NO_SHOW')
	`, accountID, groomerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.ZipCode, &c.Lat, &c.Lng); err != nil {
			return nil, err
		}
		c.AccountID = accountID
		out = append(out, c)
	}
	return out, rows.Err()
}
