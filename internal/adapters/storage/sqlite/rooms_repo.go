package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-boarding/internal/domain/rooms"
)

type RoomsRepo struct {
	db *sql.DB
}

func NewRoomsRepo(db *sql.DB) *RoomsRepo {
	return &RoomsRepo{db: db}
}

const roomColumns = `
	id, number, type, status, last_cleaned_at, last_cleaned_by, created_at, updated_at`

func (r *RoomsRepo) Create(ctx context.Context, rm rooms.Room) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rooms (`+roomColumns+`)
		VALUES (?,?,?,?,?,?,?,?)
	`,
		rm.ID,
		rm.Number,
		rm.Type,
		rm.Status,
		rm.LastCleanedAt,
		toNullString(rm.LastCleanedBy),
		rm.CreatedAt,
		rm.UpdatedAt,
	)
	return err
}

func (r *RoomsRepo) Update(ctx context.Context, rm rooms.Room) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rooms
		SET
			number = ?,
			type = ?,
			status = ?,
			last_cleaned_at = ?,
			last_cleaned_by = ?,
			updated_at = ?
		WHERE id = ?
	`,
		rm.Number,
		rm.Type,
		rm.Status,
		rm.LastCleanedAt,
		toNullString(rm.LastCleanedBy),
		rm.UpdatedAt,
		rm.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoomsRepo) GetByID(ctx context.Context, id string) (rooms.Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return rooms.Room{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE id = ?
	`, id)
	return scanRoom(row)
}

func (r *RoomsRepo) GetByNumber(ctx context.Context, number string) (rooms.Room, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return rooms.Room{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE number = ?
	`, number)
	return scanRoom(row)
}

func (r *RoomsRepo) List(ctx context.Context) ([]rooms.Room, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		ORDER BY number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRooms(rows)
}

func (r *RoomsRepo) ListByType(ctx context.Context, t rooms.RoomType) ([]rooms.Room, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE type = ?
		ORDER BY number ASC
	`, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRooms(rows)
}

func (r *RoomsRepo) CountByStatus(ctx context.Context) (map[rooms.RoomStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM rooms
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[rooms.RoomStatus]int)
	for rows.Next() {
		var status rooms.RoomStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func collectRooms(rows *sql.Rows) ([]rooms.Room, error) {
	out := make([]rooms.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func scanRoom(row rowScanner) (rooms.Room, error) {
	var rm rooms.Room
	var cleanedAt sql.NullTime
	var cleanedBy sql.NullString
	if err := row.Scan(
		&rm.ID,
		&rm.Number,
		&rm.Type,
		&rm.Status,
		&cleanedAt,
		&cleanedBy,
		&rm.CreatedAt,
		&rm.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return rooms.Room{}, ErrNotFound
		}
		return rooms.Room{}, err
	}
	if cleanedAt.Valid {
		t := cleanedAt.Time
		rm.LastCleanedAt = &t
	}
	if cleanedBy.Valid {
		rm.LastCleanedBy = cleanedBy.String
	}
	return rm, nil
}

// releaseRoom deja la habitación en el estado dado dentro de la
// transacción. Con guardAvailable exige status Available (check-in).
func releaseRoom(ctx context.Context, tx *sql.Tx, roomID string, status rooms.RoomStatus, guardAvailable bool, at time.Time) error {
	query := `UPDATE rooms SET status = ?, updated_at = ? WHERE id = ?`
	if guardAvailable {
		query += ` AND status = 'Available'`
	}

	res, err := tx.ExecContext(ctx, query, status, at, roomID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
