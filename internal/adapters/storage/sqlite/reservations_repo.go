package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/domain/rooms"
)

type ReservationsRepo struct {
	db *sql.DB
}

func NewReservationsRepo(db *sql.DB) *ReservationsRepo {
	return &ReservationsRepo{db: db}
}

const reservationColumns = `
	id, pet_id, room_id, start_date, end_date, is_indefinite,
	status, assistance, schedule, grooming, training, extra_walks,
	daily_rate_cents, total_cents, paid, special_instructions,
	created_at, updated_at`

func (r *ReservationsRepo) Create(ctx context.Context, rv reservations.Reservation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		rv.ID,
		rv.PetID,
		rv.RoomID,
		rv.StartDate,
		rv.EndDate,
		rv.IsIndefinite,
		rv.Status,
		rv.Assistance,
		rv.Schedule,
		rv.Services.Grooming,
		rv.Services.Training,
		rv.Services.ExtraWalks,
		rv.DailyRateCents,
		rv.TotalCents,
		rv.Paid,
		rv.SpecialInstructions,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	return err
}

func (r *ReservationsRepo) Update(ctx context.Context, rv reservations.Reservation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET
			start_date = ?,
			end_date = ?,
			is_indefinite = ?,
			status = ?,
			assistance = ?,
			schedule = ?,
			grooming = ?,
			training = ?,
			extra_walks = ?,
			daily_rate_cents = ?,
			total_cents = ?,
			paid = ?,
			special_instructions = ?,
			updated_at = ?
		WHERE id = ?
	`,
		rv.StartDate,
		rv.EndDate,
		rv.IsIndefinite,
		rv.Status,
		rv.Assistance,
		rv.Schedule,
		rv.Services.Grooming,
		rv.Services.Training,
		rv.Services.ExtraWalks,
		rv.DailyRateCents,
		rv.TotalCents,
		rv.Paid,
		rv.SpecialInstructions,
		rv.UpdatedAt,
		rv.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reservations.ErrNotFound
	}
	return nil
}

func (r *ReservationsRepo) GetByID(ctx context.Context, id string) (reservations.Reservation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reservations.Reservation{}, reservations.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE id = ?
	`, id)
	return scanReservation(row)
}

func (r *ReservationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reservations.ErrNotFound
	}
	return nil
}

func (r *ReservationsRepo) List(ctx context.Context) ([]reservations.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *ReservationsRepo) ListByPet(ctx context.Context, petID string) ([]reservations.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE pet_id = ?
		ORDER BY created_at ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *ReservationsRepo) ListConflicting(ctx context.Context, roomID string, stay reservations.StayRange, excludeID string) ([]reservations.Reservation, error) {
	// La comparación de rangos se hace en Go: sqlite guarda los
	// timestamps como texto y el filtro fino vive en Overlaps.
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE room_id = ?
		  AND status IN ('Confirmed', 'Active')
		ORDER BY created_at ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := collectReservations(rows)
	if err != nil {
		return nil, err
	}

	out := make([]reservations.Reservation, 0)
	for _, rv := range all {
		if excludeID != "" && rv.ID == excludeID {
			continue
		}
		if reservations.Overlaps(stay, rv.Stay()) {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *ReservationsRepo) CheckIn(ctx context.Context, reservationID, roomID string, at time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := releaseRoom(ctx, tx, roomID, rooms.StatusOccupied, true, at); err != nil {
			if errors.Is(err, ErrNotFound) {
				// Cero filas puede ser habitación inexistente (404) u
				// ocupada por otra estadía (409).
				var st rooms.RoomStatus
				qerr := tx.QueryRowContext(ctx, `SELECT status FROM rooms WHERE id = ?`, roomID).Scan(&st)
				if qerr == sql.ErrNoRows {
					return reservations.ErrNotFound
				}
				if qerr != nil {
					return qerr
				}
				return reservations.ErrRoomNotAvailable
			}
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE reservations
			SET status = ?, updated_at = ?
			WHERE id = ?
		`, reservations.StatusActive, at, reservationID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return reservations.ErrNotFound
		}
		return nil
	})
}

func (r *ReservationsRepo) CloseOut(ctx context.Context, rv reservations.Reservation, roomStatus rooms.RoomStatus) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := releaseRoom(ctx, tx, rv.RoomID, roomStatus, false, rv.UpdatedAt); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE reservations
			SET status = ?, special_instructions = ?, updated_at = ?
			WHERE id = ?
		`, rv.Status, rv.SpecialInstructions, rv.UpdatedAt, rv.ID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return reservations.ErrNotFound
		}
		return nil
	})
}

func (r *ReservationsRepo) DeleteReleasing(ctx context.Context, id, roomID string, roomStatus rooms.RoomStatus, at time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := releaseRoom(ctx, tx, roomID, roomStatus, false, at); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return reservations.ErrNotFound
		}
		return nil
	})
}

func (r *ReservationsRepo) CountByStatus(ctx context.Context) (map[reservations.ReservationStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM reservations
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[reservations.ReservationStatus]int)
	for rows.Next() {
		var status reservations.ReservationStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *ReservationsRepo) SumTotalsBetween(ctx context.Context, from, to time.Time) (int64, int, error) {
	var total int64
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_cents), 0), COUNT(*)
		FROM reservations
		WHERE created_at >= ? AND created_at < ?
	`, from, to).Scan(&total, &count)
	if err != nil {
		return 0, 0, err
	}
	return total, count, nil
}

func (r *ReservationsRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func collectReservations(rows *sql.Rows) ([]reservations.Reservation, error) {
	out := make([]reservations.Reservation, 0)
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func scanReservation(row rowScanner) (reservations.Reservation, error) {
	var rv reservations.Reservation
	var endDate sql.NullTime
	if err := row.Scan(
		&rv.ID,
		&rv.PetID,
		&rv.RoomID,
		&rv.StartDate,
		&endDate,
		&rv.IsIndefinite,
		&rv.Status,
		&rv.Assistance,
		&rv.Schedule,
		&rv.Services.Grooming,
		&rv.Services.Training,
		&rv.Services.ExtraWalks,
		&rv.DailyRateCents,
		&rv.TotalCents,
		&rv.Paid,
		&rv.SpecialInstructions,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return reservations.Reservation{}, reservations.ErrNotFound
		}
		return reservations.Reservation{}, err
	}
	if endDate.Valid {
		t := endDate.Time
		rv.EndDate = &t
	}
	return rv, nil
}
